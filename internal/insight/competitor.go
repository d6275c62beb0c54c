package insight

import (
	"context"
	"fmt"
	"strings"

	"seomaster/internal/models"
)

// AnalyzeCompetitor builds a SWOT-style intelligence report for one
// competitor handle on one platform. Live platform data grounds the report
// when a credential is configured; otherwise the model estimates.
func (s *Service) AnalyzeCompetitor(ctx context.Context, projectID string, platform models.Platform, handle string) (*models.CompetitorReport, error) {
	liveData, provenance, err := s.platformContext(ctx, projectID, platform, handle)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Analyze the %s creator %q as a competitor. Estimate their reach, posting cadence, and recurring topics, then produce a SWOT analysis from the perspective of someone competing in the same space.",
		platform, handle)
	if liveData != "" {
		prompt += "\n\nGround the analysis in these current platform results:\n" + liveData
	}

	var report models.CompetitorReport
	err = s.generateJSON(ctx, "analyze_competitor", projectID, platform, provenance,
		"You are a competitive intelligence analyst for content creators.",
		prompt, competitorSchema, false, &report,
		models.JSONB{"handle": handle})
	if err != nil {
		return nil, err
	}

	report.Platform = platform
	report.Provenance = provenance
	if report.Handle == "" {
		report.Handle = handle
	}
	return &report, nil
}

// CompetitiveGap ranks the openings the named competitors leave uncovered
// in the caller's niche.
func (s *Service) CompetitiveGap(ctx context.Context, projectID, niche string, competitors []string) (*models.GapReport, error) {
	prompt := fmt.Sprintf(
		"In the %q niche, these competitors are active: %s. Identify the content opportunities they leave uncovered, rank them by effort-to-impact, and give one piece of strategic advice.",
		niche, strings.Join(competitors, ", "))

	var report models.GapReport
	err := s.generateJSON(ctx, "competitive_gap", projectID, "", models.ProvenanceEstimated,
		"You are a content strategy consultant.", prompt, gapSchema, false, &report,
		models.JSONB{"niche": niche, "competitors": strings.Join(competitors, ",")})
	if err != nil {
		return nil, err
	}
	return &report, nil
}
