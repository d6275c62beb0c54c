package insight

import (
	"context"
	"fmt"

	"seomaster/internal/models"
)

// AnalyzeKeywords scores related keywords for the seed term on the given
// platform, scoped to a market region and day window (the project's
// automation defaults fill in whatever the caller leaves unset). When the
// platform exposes a search API and a credential is configured, live
// results ground the analysis and the report is marked measured; otherwise
// the model estimates and the report says so.
func (s *Service) AnalyzeKeywords(ctx context.Context, projectID string, platform models.Platform, seed, country string, days int) (*models.KeywordReport, error) {
	country, days = s.scope(ctx, projectID, country, days)

	liveData, provenance, err := s.platformContext(ctx, projectID, platform, seed)
	if err != nil {
		return nil, err
	}

	grounding := platform == models.PlatformGoogleSearch
	if grounding {
		provenance = models.ProvenanceMeasured
	}

	prompt := fmt.Sprintf(
		"Analyze SEO keywords related to %q for %s in %s over the last %d days. Return 10-15 related keywords with search volume (High, Medium or Low), competition score 0-100, overall strength 0-100 and trend direction (up, down or stable).",
		seed, platform, country, days)
	if liveData != "" {
		prompt += "\n\nGround the analysis in these current search results:\n" + liveData
	} else if provenance == models.ProvenanceEstimated {
		prompt += "\n\nNo live platform data is available; estimate the metrics from your general knowledge."
	}

	var parsed struct {
		Keywords []models.KeywordMetric `json:"keywords"`
	}
	err = s.generateJSON(ctx, "analyze_keywords", projectID, platform, provenance,
		"You are an SEO analyst producing keyword difficulty tables.",
		prompt, keywordSchema, grounding, &parsed,
		models.JSONB{"seed": seed, "country": country, "days": days})
	if err != nil {
		return nil, err
	}

	return &models.KeywordReport{Keywords: parsed.Keywords, Provenance: provenance}, nil
}
