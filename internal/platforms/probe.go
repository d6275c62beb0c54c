package platforms

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"seomaster/internal/models"
)

// Result is the outcome of a connection probe. A probe never fails with an
// error: missing or rejected credentials are reported through OK and Detail
// so the caller can render them directly.
type Result struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// TokenChecker validates a credential's format using an external judge when
// the platform offers no cheap verification endpoint.
type TokenChecker interface {
	CheckTokenFormat(ctx context.Context, platform models.Platform, token string) (bool, string, error)
}

// Prober runs per-platform connection checks.
type Prober struct {
	client  *Client
	checker TokenChecker
}

// NewProber creates a prober. checker may be nil, in which case platforms
// without a verification endpoint fall back to structural checks only.
func NewProber(client *Client, checker TokenChecker) *Prober {
	return &Prober{client: client, checker: checker}
}

// Probe checks whether the stored credentials for platform can reach the
// platform's API. It never returns an error.
func (p *Prober) Probe(ctx context.Context, platform models.Platform, creds map[string]string) Result {
	switch platform {
	case models.PlatformYouTube:
		return p.probeYouTube(ctx, creds)
	case models.PlatformFacebook, models.PlatformInstagram:
		return p.probeMeta(ctx, creds)
	case models.PlatformTikTok:
		return p.probeTikTok(ctx, creds)
	case models.PlatformPinterest:
		return probePinterest(creds)
	case models.PlatformGoogleSearch:
		// Search insights ride on the generation backend, no separate
		// credential to verify.
		return Result{OK: true, Detail: "Uses the generation API key, no separate credential required."}
	default:
		return Result{OK: false, Detail: fmt.Sprintf("Unknown platform %q.", platform)}
	}
}

func (p *Prober) probeYouTube(ctx context.Context, creds map[string]string) Result {
	apiKey := creds["apiKey"]
	if apiKey == "" {
		return Result{OK: false, Detail: "No YouTube API key configured."}
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", "test")
	params.Set("maxResults", "1")
	params.Set("key", apiKey)

	if _, err := p.client.get(ctx, p.client.youtubeBaseURL+"/search?"+params.Encode()); err != nil {
		return Result{OK: false, Detail: probeDetail("YouTube Data API", "key", err)}
	}
	return Result{OK: true, Detail: "YouTube Data API reachable."}
}

// probeDetail separates a credential rejection from a connectivity failure
// where the platform was never reached.
func probeDetail(api, credential string, err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s rejected the %s: %v", api, credential, se)
	}
	return fmt.Sprintf("Could not reach the %s: %v", api, err)
}

func (p *Prober) probeMeta(ctx context.Context, creds map[string]string) Result {
	accessToken := creds["accessToken"]
	if accessToken == "" {
		return Result{OK: false, Detail: "No Meta access token configured."}
	}

	params := url.Values{}
	params.Set("access_token", accessToken)

	if _, err := p.client.get(ctx, p.client.metaBaseURL+"/me?"+params.Encode()); err != nil {
		return Result{OK: false, Detail: probeDetail("Meta Graph API", "token", err)}
	}
	return Result{OK: true, Detail: "Meta Graph API reachable."}
}

func (p *Prober) probeTikTok(ctx context.Context, creds map[string]string) Result {
	key := creds["clientKey"]
	secret := creds["clientSecret"]
	if key == "" || secret == "" {
		return Result{OK: false, Detail: "TikTok needs both a client key and a client secret."}
	}
	if len(key) < 10 || len(secret) < 10 {
		return Result{OK: false, Detail: "TikTok client key or secret looks too short to be valid."}
	}
	if p.checker != nil {
		pair := fmt.Sprintf("client key %s with client secret %s", key, secret)
		ok, reason, err := p.checker.CheckTokenFormat(ctx, models.PlatformTikTok, pair)
		if err == nil {
			return Result{OK: ok, Detail: reason}
		}
		// Judge unavailable, fall through to the structural pass.
	}
	return Result{OK: true, Detail: "TikTok credential format accepted."}
}

func probePinterest(creds map[string]string) Result {
	apiKey := creds["apiKey"]
	if apiKey == "" {
		return Result{OK: false, Detail: "No Pinterest API key configured."}
	}
	if len(apiKey) < 6 || apiKey[:5] != "pina_" {
		return Result{OK: false, Detail: "Pinterest API keys start with \"pina_\"."}
	}
	return Result{OK: true, Detail: "Pinterest API key format accepted."}
}
