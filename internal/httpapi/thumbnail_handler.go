package httpapi

import (
	"net/http"

	"seomaster/internal/gemini"
	"seomaster/internal/insight"
	"seomaster/internal/utils"
)

type thumbnailRequest struct {
	ProjectID       string `json:"project_id"`
	Prompt          string `json:"prompt"`
	Kind            string `json:"kind"`
	AspectRatio     string `json:"aspect_ratio"`
	ColorPsychology string `json:"color_psychology"`
	Text            string `json:"text"`
	FontStyle       string `json:"font_style"`
}

type thumbnailResponse struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

func (d *Dependencies) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	var req thumbnailRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	image, err := d.Service.GenerateThumbnail(r.Context(), d.projectID(r, req.ProjectID), insight.ThumbnailSpec{
		Prompt:          req.Prompt,
		Kind:            req.Kind,
		AspectRatio:     req.AspectRatio,
		ColorPsychology: req.ColorPsychology,
		Text:            req.Text,
		FontStyle:       req.FontStyle,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, thumbnailResponse{
		MIMEType: image.MIMEType,
		Data:     image.Data,
	})
}

type thumbnailEvaluateRequest struct {
	ProjectID string `json:"project_id"`
	MIMEType  string `json:"mime_type"`
	Data      string `json:"data"`   // base64
	Prompt    string `json:"prompt"` // the concept the thumbnail was generated for
}

func (d *Dependencies) handleThumbnailEvaluate(w http.ResponseWriter, r *http.Request) {
	var req thumbnailEvaluateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Data == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Image data is required")
		return
	}
	if req.MIMEType == "" {
		req.MIMEType = "image/png"
	}

	eval, err := d.Service.EvaluateThumbnail(r.Context(), d.projectID(r, req.ProjectID), gemini.InlineData{
		MIMEType: req.MIMEType,
		Data:     req.Data,
	}, req.Prompt)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, eval)
}
