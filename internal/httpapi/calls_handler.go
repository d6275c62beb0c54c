package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"seomaster/internal/models"
	"seomaster/internal/storage"
	"seomaster/internal/utils"
)

type callListResponse struct {
	Records    []*models.CallRecord `json:"records"`
	Last24h    int                  `json:"last_24h"`
	QueueDepth int                  `json:"queue_depth"`
}

// handleCallList returns the most recent audit records for a project plus a
// 24h attempt count across projects. 404 when the audit log is disabled.
func (d *Dependencies) handleCallList(w http.ResponseWriter, r *http.Request) {
	if d.Calls == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Call audit log is not enabled")
		return
	}

	projectID := d.projectID(r, r.URL.Query().Get("project_id"))
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			utils.RespondWithError(w, http.StatusBadRequest, "Limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	records, err := d.Calls.ListByProject(r.Context(), projectID, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list call records")
		return
	}
	if records == nil {
		records = []*models.CallRecord{}
	}

	count, err := d.Calls.CountSince(r.Context(), time.Now().Add(-24*time.Hour))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count call records")
		return
	}

	resp := callListResponse{Records: records, Last24h: count}
	if d.CallWorker != nil {
		if depth, err := d.CallWorker.QueueLength(r.Context()); err == nil {
			resp.QueueDepth = depth
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// handleCallGet returns one audit record by id.
func (d *Dependencies) handleCallGet(w http.ResponseWriter, r *http.Request) {
	if d.Calls == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Call audit log is not enabled")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid call record id")
		return
	}

	record, err := d.Calls.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrCallRecordNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Call record not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get call record")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, record)
}
