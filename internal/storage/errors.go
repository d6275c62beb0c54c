package storage

import "errors"

var (
	// ErrProjectNotFound is returned when a project id is not in the registry
	ErrProjectNotFound = errors.New("project not found")

	// ErrCallRecordNotFound is returned when a call record is not found
	ErrCallRecordNotFound = errors.New("call record not found")
)
