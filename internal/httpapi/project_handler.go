package httpapi

import (
	"net/http"

	"seomaster/internal/models"
	"seomaster/internal/utils"
)

func (d *Dependencies) handleProjectList(w http.ResponseWriter, r *http.Request) {
	projects := d.Projects.List(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, projects)
}

func (d *Dependencies) handleProjectUpsert(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if !decodeBody(w, r, &project) {
		return
	}
	if project.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Project name is required")
		return
	}

	saved, err := d.Projects.Upsert(r.Context(), project)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

func (d *Dependencies) handleProjectActive(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, d.Projects.Active(r.Context()))
}

type setActiveRequest struct {
	ID string `json:"id"`
}

func (d *Dependencies) handleProjectSetActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Project id is required")
		return
	}

	if err := d.Projects.SetActive(r.Context(), req.ID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, d.Projects.Active(r.Context()))
}
