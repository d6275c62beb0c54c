package models

import (
	"fmt"
	"time"
)

// Project is an independent configuration namespace: its own platform
// credentials plus automation settings. The user switches between projects
// at runtime; exactly one is active.
type Project struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Automation AutomationSettings `json:"automation"`
	CreatedAt  time.Time          `json:"created_at"`
}

// AutomationSettings controls scheduled/background behavior per project.
type AutomationSettings struct {
	WeeklyReport  bool   `json:"weekly_report"`
	DefaultRegion string `json:"default_region"`
	DefaultDays   int    `json:"default_days"`
}

// NewProjectID generates a timestamp-based project id, matching the ids the
// registry hands out when a project is created without one.
func NewProjectID(now time.Time) string {
	return fmt.Sprintf("proj-%d", now.UnixMilli())
}

// DefaultProjectID is the fallback active-project pointer when none is stored.
const DefaultProjectID = "default"

// DefaultProjects is the built-in set returned when the registry storage is
// empty or unreadable, so callers always have something to work with.
func DefaultProjects() []Project {
	return []Project{
		{
			ID:   DefaultProjectID,
			Name: "Main Channel",
			Automation: AutomationSettings{
				DefaultRegion: "GLOBAL",
				DefaultDays:   90,
			},
		},
	}
}
