package httpapi

import (
	"net/http"
	"time"

	"seomaster/internal/report"
	"seomaster/internal/utils"
)

type weeklyReportRequest struct {
	ProjectID string `json:"project_id"`
	Niche     string `json:"niche"`
	Region    string `json:"region"`
	Days      int    `json:"days"`
}

func (d *Dependencies) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	var req weeklyReportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Niche == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Niche is required")
		return
	}

	weekly, err := d.Service.WeeklyReport(r.Context(), d.projectID(r, req.ProjectID), req.Niche, req.Region, req.Days)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, weekly)
}

func (d *Dependencies) handleWeeklyReportPDF(w http.ResponseWriter, r *http.Request) {
	var req weeklyReportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Niche == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Niche is required")
		return
	}

	weekly, err := d.Service.WeeklyReport(r.Context(), d.projectID(r, req.ProjectID), req.Niche, req.Region, req.Days)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="weekly-report.pdf"`)
	if err := report.WeeklyPDF(w, weekly, time.Now()); err != nil {
		// Headers are already written; all we can do is log-and-drop.
		utils.LogError(err)
	}
}
