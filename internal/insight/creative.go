package insight

import (
	"context"
	"fmt"

	"seomaster/internal/gemini"
	"seomaster/internal/models"
)

// GenerateTags produces a ranked list of tags/hashtags for a topic, scoped
// to a market region and day window (project automation defaults fill in
// whatever the caller leaves unset).
func (s *Service) GenerateTags(ctx context.Context, projectID string, platform models.Platform, topic, country string, days int) ([]string, error) {
	country, days = s.scope(ctx, projectID, country, days)

	var parsed struct {
		Tags []string `json:"tags"`
	}
	prompt := fmt.Sprintf(
		"Generate 15-20 high-reach tags for a %s post about %q in %s, based on the last %d days, ordered from most to least valuable. Use the platform's tag conventions.",
		platform, topic, country, days)
	err := s.generateJSON(ctx, "generate_tags", projectID, platform, models.ProvenanceEstimated,
		"", prompt, tagsSchema, false, &parsed,
		models.JSONB{"topic": topic, "country": country, "days": days})
	if err != nil {
		return nil, err
	}
	return parsed.Tags, nil
}

// EnhanceText corrects the text, optionally punching it up into a short
// catchy title. promptCtx describes what the text is for and may be empty.
// The result is plain text, not JSON.
func (s *Service) EnhanceText(ctx context.Context, projectID, text, promptCtx string, catchy bool) (string, error) {
	instruction := "Correct the text for spelling and grammar. Keep it exactly as is otherwise."
	if catchy {
		instruction = "Correct the text and make it catchy and engaging for a thumbnail title. Keep it short."
	}

	prompt := instruction
	if promptCtx != "" {
		prompt += "\nPrompt context: " + promptCtx
	}
	prompt += "\n\nText to improve:\n" + text

	req := gemini.GenerateRequest{
		Model: s.textModel,
		Parts: []gemini.Part{{Text: prompt}},
		SystemInstruction: "You are a copy editor. Return only the improved text, " +
			"with no preamble and no commentary.",
	}
	resp, err := s.generate(ctx, "enhance_text", projectID, "", models.ProvenanceEstimated, req,
		models.JSONB{"catchy": catchy})
	if err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", gemini.ErrNoContent
	}
	return resp.Text, nil
}

// ThumbnailSpec describes the thumbnail to render. Only Prompt is required:
// AspectRatio defaults to 16:9 and Kind to "thumbnail"; ColorPsychology,
// Text and FontStyle add design directives when set.
type ThumbnailSpec struct {
	Prompt          string
	Kind            string // "thumbnail", "banner", "post cover", ...
	AspectRatio     string // "16:9" for video platforms, "1:1" for feeds, "9:16" vertical
	ColorPsychology string
	Text            string // overlay text rendered into the image
	FontStyle       string
}

// GenerateThumbnail renders a thumbnail image from the spec's prompt and
// design directives.
func (s *Service) GenerateThumbnail(ctx context.Context, projectID string, spec ThumbnailSpec) (*gemini.InlineData, error) {
	if spec.AspectRatio == "" {
		spec.AspectRatio = "16:9"
	}
	if spec.Kind == "" {
		spec.Kind = "thumbnail"
	}

	prompt := fmt.Sprintf("Create a %s design. Description: %s.", spec.Kind, spec.Prompt)
	if spec.ColorPsychology != "" {
		prompt += " Color psychology: " + spec.ColorPsychology + "."
	}
	if spec.Text != "" {
		prompt += fmt.Sprintf(" Include this text: %q", spec.Text)
		if spec.FontStyle != "" {
			prompt += " using a font style similar to " + spec.FontStyle
		}
		prompt += "."
	} else {
		prompt += " No text."
	}
	prompt += fmt.Sprintf(" Professional high-quality %s aesthetic.", spec.Kind)

	req := gemini.GenerateRequest{
		Model:       s.imageModel,
		Parts:       []gemini.Part{{Text: prompt}},
		AspectRatio: spec.AspectRatio,
	}
	resp, err := s.generate(ctx, "generate_thumbnail", projectID, "", models.ProvenanceEstimated, req,
		models.JSONB{"aspect_ratio": spec.AspectRatio, "kind": spec.Kind})
	if err != nil {
		return nil, err
	}
	if len(resp.Images) == 0 {
		return nil, gemini.ErrNoContent
	}
	return &resp.Images[0], nil
}

// EvaluateThumbnail scores a thumbnail image for click-through potential.
// concept is the prompt the thumbnail was generated for; when set, the
// image is judged against it.
func (s *Service) EvaluateThumbnail(ctx context.Context, projectID string, image gemini.InlineData, concept string) (*models.ThumbnailEvaluation, error) {
	ask := "Evaluate this thumbnail for click-through potential."
	if concept != "" {
		ask = fmt.Sprintf("Evaluate this thumbnail against the concept it was generated for: %q.", concept)
	}
	ask += " Score overall appeal, text readability and visual impact 0-100, and give a short actionable critique."

	req := gemini.GenerateRequest{
		Model: s.textModel,
		Parts: []gemini.Part{
			{InlineData: &image},
			{Text: ask},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   thumbnailEvaluationSchema,
	}
	resp, err := s.generate(ctx, "evaluate_thumbnail", projectID, "", models.ProvenanceEstimated, req, nil)
	if err != nil {
		return nil, err
	}

	var eval models.ThumbnailEvaluation
	if err := gemini.DecodeJSON(stripFences(resp.Text), thumbnailEvaluationSchema, &eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

// PlatformContent drafts a ready-to-publish title and description for a
// topic, tuned to the platform's conventions and length limits.
func (s *Service) PlatformContent(ctx context.Context, projectID string, platform models.Platform, topic string) (*models.PlatformContent, error) {
	prompt := fmt.Sprintf(
		"Write a title and description for a %s post about %q. Respect the platform's length limits and style: hooks for video platforms, hashtags where they matter.",
		platform, topic)

	var content models.PlatformContent
	err := s.generateJSON(ctx, "platform_content", projectID, platform, models.ProvenanceEstimated,
		"You are a social media copywriter.", prompt, platformContentSchema, false, &content,
		models.JSONB{"topic": topic})
	if err != nil {
		return nil, err
	}
	return &content, nil
}
