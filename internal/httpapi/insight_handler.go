package httpapi

import (
	"encoding/json"
	"net/http"

	"seomaster/internal/models"
	"seomaster/internal/utils"
)

// decodeBody decodes a JSON request body, responding with 400 on failure.
// Returns false when the caller should stop.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// projectID resolves the project a request operates on, falling back to the
// active project when the body leaves it blank.
func (d *Dependencies) projectID(r *http.Request, requested string) string {
	if requested != "" {
		return requested
	}
	return d.Projects.Active(r.Context()).ID
}

// platformOf validates a request's platform field, responding with 400 on
// an unknown value. Returns false when the caller should stop.
func platformOf(w http.ResponseWriter, raw string) (models.Platform, bool) {
	platform := models.Platform(raw)
	if !platform.Valid() {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown platform: "+raw)
		return "", false
	}
	return platform, true
}

type keywordsRequest struct {
	ProjectID string `json:"project_id"`
	Platform  string `json:"platform"`
	Seed      string `json:"seed"`
	Country   string `json:"country"`
	Days      int    `json:"days"`
}

func (d *Dependencies) handleKeywords(w http.ResponseWriter, r *http.Request) {
	var req keywordsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	platform, ok := platformOf(w, req.Platform)
	if !ok {
		return
	}
	if req.Seed == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Seed keyword is required")
		return
	}

	report, err := d.Service.AnalyzeKeywords(r.Context(), d.projectID(r, req.ProjectID), platform, req.Seed, req.Country, req.Days)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, report)
}

type audienceRequest struct {
	ProjectID string `json:"project_id"`
	Platform  string `json:"platform"`
	Niche     string `json:"niche"`
	Country   string `json:"country"`
	Days      int    `json:"days"`
}

func (d *Dependencies) handleAudience(w http.ResponseWriter, r *http.Request) {
	var req audienceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	platform, ok := platformOf(w, req.Platform)
	if !ok {
		return
	}
	if req.Niche == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Niche is required")
		return
	}

	report, err := d.Service.AudienceInsights(r.Context(), d.projectID(r, req.ProjectID), platform, req.Niche, req.Country, req.Days)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, report)
}

type tagsRequest struct {
	ProjectID string `json:"project_id"`
	Platform  string `json:"platform"`
	Topic     string `json:"topic"`
	Country   string `json:"country"`
	Days      int    `json:"days"`
}

func (d *Dependencies) handleTags(w http.ResponseWriter, r *http.Request) {
	var req tagsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	platform, ok := platformOf(w, req.Platform)
	if !ok {
		return
	}

	tags, err := d.Service.GenerateTags(r.Context(), d.projectID(r, req.ProjectID), platform, req.Topic, req.Country, req.Days)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}

type enhanceRequest struct {
	ProjectID string `json:"project_id"`
	Text      string `json:"text"`
	Context   string `json:"context"`
	Catchy    bool   `json:"catchy"`
}

func (d *Dependencies) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Text is required")
		return
	}

	text, err := d.Service.EnhanceText(r.Context(), d.projectID(r, req.ProjectID), req.Text, req.Context, req.Catchy)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"text": text})
}

type competitorRequest struct {
	ProjectID string `json:"project_id"`
	Platform  string `json:"platform"`
	Handle    string `json:"handle"`
}

func (d *Dependencies) handleCompetitorAnalyze(w http.ResponseWriter, r *http.Request) {
	var req competitorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	platform, ok := platformOf(w, req.Platform)
	if !ok {
		return
	}
	if req.Handle == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Competitor handle is required")
		return
	}

	report, err := d.Service.AnalyzeCompetitor(r.Context(), d.projectID(r, req.ProjectID), platform, req.Handle)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, report)
}

type gapRequest struct {
	ProjectID   string   `json:"project_id"`
	Niche       string   `json:"niche"`
	Competitors []string `json:"competitors"`
}

func (d *Dependencies) handleCompetitiveGap(w http.ResponseWriter, r *http.Request) {
	var req gapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Niche == "" || len(req.Competitors) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Niche and competitors are required")
		return
	}

	report, err := d.Service.CompetitiveGap(r.Context(), d.projectID(r, req.ProjectID), req.Niche, req.Competitors)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, report)
}

type trendsRequest struct {
	ProjectID string `json:"project_id"`
	Niche     string `json:"niche"`
	Region    string `json:"region"`
	Days      int    `json:"days"`
}

func (d *Dependencies) handleRadarTrends(w http.ResponseWriter, r *http.Request) {
	var req trendsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Niche == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Niche is required")
		return
	}

	trends, err := d.Service.RadarTrends(r.Context(), d.projectID(r, req.ProjectID), req.Niche, req.Region, req.Days)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"trends": trends})
}

type contentGapsRequest struct {
	ProjectID string `json:"project_id"`
	Niche     string `json:"niche"`
}

func (d *Dependencies) handleContentGaps(w http.ResponseWriter, r *http.Request) {
	var req contentGapsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Niche == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Niche is required")
		return
	}

	gaps, err := d.Service.ContentGaps(r.Context(), d.projectID(r, req.ProjectID), req.Niche)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"gaps": gaps})
}

type platformContentRequest struct {
	ProjectID string `json:"project_id"`
	Platform  string `json:"platform"`
	Topic     string `json:"topic"`
}

func (d *Dependencies) handlePlatformContent(w http.ResponseWriter, r *http.Request) {
	var req platformContentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	platform, ok := platformOf(w, req.Platform)
	if !ok {
		return
	}
	if req.Topic == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Topic is required")
		return
	}

	content, err := d.Service.PlatformContent(r.Context(), d.projectID(r, req.ProjectID), platform, req.Topic)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, content)
}
