package insight

import (
	"context"
	"fmt"

	"seomaster/internal/models"
)

// AudienceInsights profiles the audience for a niche on one platform:
// demographics, what they search for this month, when they engage and which
// content formats land. country and days scope the profile; the project's
// automation defaults fill in whatever the caller leaves unset.
func (s *Service) AudienceInsights(ctx context.Context, projectID string, platform models.Platform, niche, country string, days int) (*models.AudienceReport, error) {
	country, days = s.scope(ctx, projectID, country, days)

	liveData, provenance, err := s.platformContext(ctx, projectID, platform, niche)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Profile the %s audience for the %q niche in %s over the last %d days. Include demographics (age range, interests), this month's trending topics, the top search queries, the best times to post, and which content formats perform. Include hashtag analysis when hashtags matter on the platform.",
		platform, niche, country, days)
	if liveData != "" {
		prompt += "\n\nGround the profile in these current platform results:\n" + liveData
	} else {
		prompt += "\n\nNo live platform data is available; estimate from your general knowledge."
	}

	var report models.AudienceReport
	err = s.generateJSON(ctx, "audience_insights", projectID, platform, provenance,
		"You are a social media audience researcher.",
		prompt, audienceSchema, false, &report,
		models.JSONB{"niche": niche, "country": country, "days": days})
	if err != nil {
		return nil, err
	}

	report.Provenance = provenance
	return &report, nil
}
