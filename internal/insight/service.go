package insight

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"seomaster/internal/gemini"
	"seomaster/internal/models"
	"seomaster/internal/platforms"
	"seomaster/internal/storage"
	"seomaster/internal/usage"
	"seomaster/internal/utils"
)

// AuditSink receives one CallRecord per generation attempt. Implemented by
// the call queue worker; nil disables auditing.
type AuditSink interface {
	Enqueue(ctx context.Context, record *models.CallRecord) error
}

// Service is the single facade through which every generation call flows.
// It owns the usage meter (every attempt is counted, success or not), the
// per-project credentials used by live-data pre-steps, and the response
// schemas each operation enforces.
//
// One Service instance is shared process-wide so all callers observe the
// same quota counter.
type Service struct {
	gen         *gemini.Client
	meter       usage.Meter
	credentials *storage.CredentialStore
	projects    *storage.ProjectRegistry
	social      *platforms.Client
	audit       AuditSink

	textModel  string
	imageModel string
	logger     *utils.Logger
}

// ServiceConfig wires the facade's collaborators.
type ServiceConfig struct {
	Gemini      *gemini.Client
	Meter       usage.Meter
	Credentials *storage.CredentialStore
	Projects    *storage.ProjectRegistry
	Social      *platforms.Client
	Audit       AuditSink // optional
	TextModel   string
	ImageModel  string
}

// NewService creates the shared generation facade.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		gen:         cfg.Gemini,
		meter:       cfg.Meter,
		credentials: cfg.Credentials,
		projects:    cfg.Projects,
		social:      cfg.Social,
		audit:       cfg.Audit,
		textModel:   cfg.TextModel,
		imageModel:  cfg.ImageModel,
		logger:      utils.NewLogger("insight", utils.Info),
	}
}

// generate issues one generation call. The meter moves before the outcome
// is known so failed attempts count against the quota, matching provider
// billing. The audit record is enqueued regardless of outcome.
func (s *Service) generate(ctx context.Context, op, projectID string, platform models.Platform, provenance models.Provenance, req gemini.GenerateRequest, params models.JSONB) (*gemini.GenerateResponse, error) {
	if _, err := s.meter.Record(ctx); err != nil {
		// The quota is soft: a broken meter must not take generation down
		// with it.
		s.logger.Warn("usage meter unavailable", "error", err)
	}

	resp, err := s.gen.GenerateContent(ctx, req)
	s.recordCall(ctx, op, projectID, platform, provenance, req.Model, resp, err, params)
	return resp, err
}

func (s *Service) recordCall(ctx context.Context, op, projectID string, platform models.Platform, provenance models.Provenance, model string, resp *gemini.GenerateResponse, callErr error, params models.JSONB) {
	if s.audit == nil {
		return
	}

	record := &models.CallRecord{
		ID:         uuid.New(),
		RequestID:  uuid.New(),
		ProjectID:  projectID,
		Operation:  op,
		Platform:   string(platform),
		ModelName:  model,
		Provenance: string(provenance),
		Succeeded:  callErr == nil,
		Params:     params,
		CreatedAt:  time.Now().UTC(),
	}
	if resp != nil {
		record.ResponseTimeMS = int(resp.Latency / time.Millisecond)
	}
	if callErr != nil {
		record.ErrorMessage = callErr.Error()
	}

	if err := s.audit.Enqueue(ctx, record); err != nil {
		s.logger.Warn("failed to enqueue call record", "operation", op, "error", err)
	}
}

// generateJSON runs a structured generation task and decodes the result
// into out, enforcing schema both at the provider and locally.
func (s *Service) generateJSON(ctx context.Context, op, projectID string, platform models.Platform, provenance models.Provenance, system, prompt string, schema *gemini.Schema, grounding bool, out any, params models.JSONB) error {
	req := gemini.GenerateRequest{
		Model:             s.textModel,
		Parts:             []gemini.Part{{Text: prompt}},
		SystemInstruction: system,
	}
	if grounding {
		// The search tool cannot be combined with a declared response
		// schema; the shape is still enforced locally after parsing.
		req.SearchGrounding = true
	} else {
		req.ResponseMIMEType = "application/json"
		req.ResponseSchema = schema
	}

	resp, err := s.generate(ctx, op, projectID, platform, provenance, req, params)
	if err != nil {
		return err
	}
	return gemini.DecodeJSON(stripFences(resp.Text), schema, out)
}

// scope resolves the region and day-window a request left unset from the
// project's automation settings, so stored per-project defaults actually
// shape the prompts.
func (s *Service) scope(ctx context.Context, projectID, country string, days int) (string, int) {
	if country != "" && days > 0 {
		return country, days
	}

	auto := models.DefaultProjects()[0].Automation
	if p, err := s.projects.Get(ctx, projectID); err == nil {
		auto = p.Automation
	}
	if country == "" {
		country = auto.DefaultRegion
	}
	if country == "" {
		country = "GLOBAL"
	}
	if days <= 0 {
		days = auto.DefaultDays
	}
	if days <= 0 {
		days = 90
	}
	return country, days
}

// platformContext fetches live platform data to ground a prompt in. A
// missing credential is an error the user can act on; a transport failure
// after the credential exists degrades to a model estimate and is reported
// through the returned provenance, never as an error.
func (s *Service) platformContext(ctx context.Context, projectID string, platform models.Platform, query string) (string, models.Provenance, error) {
	switch platform {
	case models.PlatformYouTube:
		creds, err := s.credentials.Get(ctx, platform.CredentialNamespace(), projectID)
		if err != nil {
			return "", models.ProvenanceEstimated, err
		}
		if creds["apiKey"] == "" {
			return "", "", &MissingCredentialError{Platform: platform}
		}
		data, err := s.social.FetchYouTube(ctx, creds["apiKey"], query)
		if err != nil {
			s.logger.Warn("youtube fetch failed, falling back to estimate", "error", err)
			return "", models.ProvenanceEstimated, nil
		}
		return data, models.ProvenanceMeasured, nil

	case models.PlatformFacebook, models.PlatformInstagram:
		creds, err := s.credentials.Get(ctx, platform.CredentialNamespace(), projectID)
		if err != nil {
			return "", models.ProvenanceEstimated, err
		}
		if creds["accessToken"] == "" {
			return "", "", &MissingCredentialError{Platform: platform}
		}
		data, err := s.social.FetchMeta(ctx, creds["accessToken"], query)
		if err != nil {
			s.logger.Warn("meta fetch failed, falling back to estimate", "error", err)
			return "", models.ProvenanceEstimated, nil
		}
		return data, models.ProvenanceMeasured, nil

	default:
		// No live fetch path for this platform; the model estimates.
		return "", models.ProvenanceEstimated, nil
	}
}

// CheckTokenFormat asks the model to judge whether a token plausibly
// matches the platform's credential format. Used by the prober for
// platforms without a cheap verification endpoint.
func (s *Service) CheckTokenFormat(ctx context.Context, platform models.Platform, token string) (bool, string, error) {
	var verdict struct {
		Valid  bool   `json:"valid"`
		Reason string `json:"reason"`
	}
	prompt := "Does this look like a structurally plausible " + string(platform) +
		" API access token? Judge the format only, do not attempt to use it: " + token
	err := s.generateJSON(ctx, "check_token_format", models.DefaultProjectID, platform,
		models.ProvenanceEstimated, "", prompt, tokenFormatSchema, false, &verdict, nil)
	if err != nil {
		return false, "", err
	}
	return verdict.Valid, verdict.Reason, nil
}

// stripFences removes a Markdown code fence the model sometimes wraps JSON
// in when grounding is enabled and no response schema could be declared.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
