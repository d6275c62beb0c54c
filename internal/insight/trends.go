package insight

import (
	"context"
	"fmt"

	"seomaster/internal/models"
)

// RadarTrends detects topics rising in the niche over the last few days,
// grounded in live web search results.
func (s *Service) RadarTrends(ctx context.Context, projectID, niche, region string, days int) ([]models.RadarTrend, error) {
	if days <= 0 {
		days = 7
	}
	prompt := fmt.Sprintf(
		"Find topics rising in the %q niche over the last %d days", niche, days)
	if region != "" {
		prompt += " in " + region
	}
	prompt += `. For each trend give a title, velocity (rising, exploding or steady), an order-of-magnitude search volume, and one sentence on why it is moving. Respond with a JSON object: {"trends": [{"title", "velocity", "volume", "why"}]}. Return only the JSON.`

	var parsed struct {
		Trends []models.RadarTrend `json:"trends"`
	}
	err := s.generateJSON(ctx, "radar_trends", projectID, models.PlatformGoogleSearch,
		models.ProvenanceMeasured, "You are a trend analyst with live search access.",
		prompt, radarTrendSchema, true, &parsed,
		models.JSONB{"niche": niche, "region": region, "days": days})
	if err != nil {
		return nil, err
	}
	return parsed.Trends, nil
}

// ContentGaps finds underserved angles on currently trending topics in the
// niche.
func (s *Service) ContentGaps(ctx context.Context, projectID, niche string) ([]models.ContentGap, error) {
	prompt := fmt.Sprintf(
		"For the %q niche, list trending topics where existing content leaves obvious angles uncovered. For each, name the topic, the missing angles, and one suggested title that fills the gap.",
		niche)

	var parsed struct {
		Gaps []models.ContentGap `json:"gaps"`
	}
	err := s.generateJSON(ctx, "content_gaps", projectID, "", models.ProvenanceEstimated,
		"You are a content strategy researcher.", prompt, contentGapSchema, false, &parsed,
		models.JSONB{"niche": niche})
	if err != nil {
		return nil, err
	}
	return parsed.Gaps, nil
}

// WeeklyReport assembles the multi-section strategy report that feeds the
// PDF exporter: trends, content gaps, recurring audience questions and
// strategic advice, grounded in live search.
func (s *Service) WeeklyReport(ctx context.Context, projectID, niche, region string, days int) (*models.WeeklyReport, error) {
	if days <= 0 {
		days = 7
	}
	prompt := fmt.Sprintf(
		"Produce a weekly strategy report for the %q niche covering the last %d days", niche, days)
	if region != "" {
		prompt += " in " + region
	}
	prompt += `. Include: rising trends (title, velocity, volume, why), content gaps (topic, missing angles, suggested title), recurring questions the audience keeps asking, and a paragraph of strategic advice. Respond with a JSON object: {"trends": [...], "contentGaps": [...], "recurringQuestions": [...], "strategicAdvice": "..."}. Return only the JSON.`

	var report models.WeeklyReport
	err := s.generateJSON(ctx, "weekly_report", projectID, models.PlatformGoogleSearch,
		models.ProvenanceMeasured, "You are a content strategy analyst with live search access.",
		prompt, weeklyReportSchema, true, &report,
		models.JSONB{"niche": niche, "region": region, "days": days})
	if err != nil {
		return nil, err
	}

	report.Niche = niche
	return &report, nil
}
