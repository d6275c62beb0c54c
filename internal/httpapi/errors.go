package httpapi

import (
	"context"
	"errors"
	"net/http"

	"seomaster/internal/gemini"
	"seomaster/internal/insight"
	"seomaster/internal/utils"
)

// respondServiceError maps facade failures onto HTTP statuses:
//
//	missing credential      -> 409 (actionable: configure settings first)
//	malformed model output  -> 502 (upstream produced garbage)
//	provider rejection      -> the provider's own status, message verbatim
//	timeout / cancellation  -> 504
//	anything else           -> 500
func respondServiceError(w http.ResponseWriter, err error) {
	if insight.IsMissingCredential(err) {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if gemini.IsMalformed(err) {
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	var perr *gemini.ProviderError
	if errors.As(err, &perr) {
		utils.RespondWithError(w, perr.StatusCode, perr.Error())
		return
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		utils.RespondWithError(w, http.StatusGatewayTimeout, "generation request timed out")
		return
	}
	utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
}
