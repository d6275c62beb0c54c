package httpapi

import (
	"net/http"

	"seomaster/internal/models"
	"seomaster/internal/utils"
)

// handleCredentialsGet returns the stored secret fields for a platform in
// the requesting project's namespace. An empty object means nothing is
// configured yet.
func (d *Dependencies) handleCredentialsGet(w http.ResponseWriter, r *http.Request) {
	platform, ok := platformOf(w, r.PathValue("platform"))
	if !ok {
		return
	}
	projectID := d.projectID(r, r.URL.Query().Get("project_id"))

	creds, err := d.Credentials.Get(r.Context(), platform.CredentialNamespace(), projectID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, creds)
}

type credentialsPutRequest struct {
	ProjectID string            `json:"project_id"`
	Values    map[string]string `json:"values"`
}

// handleCredentialsPut overwrites the whole credential blob for a platform.
// Saves are whole-value: fields omitted from the request do not survive.
func (d *Dependencies) handleCredentialsPut(w http.ResponseWriter, r *http.Request) {
	platform, ok := platformOf(w, r.PathValue("platform"))
	if !ok {
		return
	}
	var req credentialsPutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	projectID := d.projectID(r, req.ProjectID)

	if err := d.Credentials.Set(r.Context(), platform.CredentialNamespace(), projectID, req.Values); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// handleProbe runs the connection check for a platform with the stored
// credentials. The probe itself never fails; a bad credential comes back as
// ok=false with the reason.
func (d *Dependencies) handleProbe(w http.ResponseWriter, r *http.Request) {
	platform := models.Platform(r.PathValue("platform"))
	projectID := d.projectID(r, r.URL.Query().Get("project_id"))

	creds, err := d.Credentials.Get(r.Context(), platform.CredentialNamespace(), projectID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := d.Prober.Probe(r.Context(), platform, creds)
	utils.RespondWithJSON(w, http.StatusOK, result)
}
