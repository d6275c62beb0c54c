package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"seomaster/internal/utils"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultMetaBaseURL    = "https://graph.facebook.com/v17.0"
)

// StatusError is a non-200 response from a platform API. It distinguishes a
// credential rejection from a transport-level failure where the platform
// was never reached.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("platform API returned status %d: %s", e.Code, e.Body)
}

// Client fetches public context data from social platform APIs. The data is
// used to ground generated insights in what the platforms actually return
// for a niche, rather than relying on the model alone.
type Client struct {
	youtubeBaseURL string
	metaBaseURL    string
	httpClient     *http.Client
	logger         *utils.Logger
}

// Config holds the platform client configuration.
type Config struct {
	YouTubeBaseURL string
	MetaBaseURL    string
	Timeout        time.Duration
}

// NewClient creates a platform data client.
func NewClient(config Config) *Client {
	if config.YouTubeBaseURL == "" {
		config.YouTubeBaseURL = defaultYouTubeBaseURL
	}
	if config.MetaBaseURL == "" {
		config.MetaBaseURL = defaultMetaBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &Client{
		youtubeBaseURL: strings.TrimSuffix(config.YouTubeBaseURL, "/"),
		metaBaseURL:    strings.TrimSuffix(config.MetaBaseURL, "/"),
		httpClient:     &http.Client{Timeout: config.Timeout},
		logger:         utils.NewLogger("platforms", utils.Info),
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// FetchYouTube returns a compact text summary of current YouTube search
// results for the query, suitable for embedding in a prompt.
func (c *Client) FetchYouTube(ctx context.Context, apiKey, query string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("maxResults", "15")
	params.Set("type", "video")
	params.Set("key", apiKey)

	body, err := c.get(ctx, c.youtubeBaseURL+"/search?"+params.Encode())
	if err != nil {
		return "", err
	}

	var parsed youtubeSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse youtube response: %w", err)
	}

	var sb strings.Builder
	for _, item := range parsed.Items {
		fmt.Fprintf(&sb, "- %q by %s: %s\n",
			item.Snippet.Title, item.Snippet.ChannelTitle, truncate(item.Snippet.Description, 120))
	}
	return sb.String(), nil
}

type metaPageSearchResponse struct {
	Data []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		FanCount int64  `json:"fan_count"`
	} `json:"data"`
}

// FetchMeta returns a compact text summary of Facebook page search results
// for the query.
func (c *Client) FetchMeta(ctx context.Context, accessToken, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", "name,category,fan_count")
	params.Set("access_token", accessToken)

	body, err := c.get(ctx, c.metaBaseURL+"/pages/search?"+params.Encode())
	if err != nil {
		return "", err
	}

	var parsed metaPageSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse meta response: %w", err)
	}

	var sb strings.Builder
	for _, page := range parsed.Data {
		fmt.Fprintf(&sb, "- %s (%s, %d followers)\n", page.Name, page.Category, page.FanCount)
	}
	return sb.String(), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
