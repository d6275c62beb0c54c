package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second
)

// Config holds settings for the generation endpoint client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client is a thin HTTP client for the Gemini generateContent API. Calls are
// one-shot: no retry, no backoff. Timeouts come from the configured HTTP
// client.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a generation endpoint client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  client,
	}, nil
}

// InlineData is a binary part carried inline as base64.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part is one piece of request or response content.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// GenerateRequest is a normalized request to the generation endpoint.
type GenerateRequest struct {
	Model             string
	Parts             []Part
	SystemInstruction string
	ResponseMIMEType  string  // "application/json" for structured tasks
	ResponseSchema    *Schema // optional declared output shape
	AspectRatio       string  // image tasks only: "16:9", "1:1", ...
	SearchGrounding   bool    // attach the search tool
}

// GenerateResponse is a normalized endpoint response.
type GenerateResponse struct {
	Text         string
	Images       []InlineData
	Latency      time.Duration
	InputTokens  int
	OutputTokens int
}

// wire types

type wireContent struct {
	Parts []Part `json:"parts"`
}

type wireImageConfig struct {
	AspectRatio string `json:"aspectRatio"`
}

type wireGenerationConfig struct {
	ResponseMIMEType string           `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema          `json:"responseSchema,omitempty"`
	ImageConfig      *wireImageConfig `json:"imageConfig,omitempty"`
}

type wireTool struct {
	GoogleSearch struct{} `json:"googleSearch"`
}

type wireRequest struct {
	Contents          []wireContent         `json:"contents"`
	SystemInstruction *wireContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *wireGenerationConfig `json:"generationConfig,omitempty"`
	Tools             []wireTool            `json:"tools,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

type wireError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent issues a single generateContent call and returns the
// normalized response. Non-2xx statuses come back as *ProviderError;
// transport failures are wrapped and returned as-is.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	body := wireRequest{
		Contents: []wireContent{{Parts: req.Parts}},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &wireContent{Parts: []Part{{Text: req.SystemInstruction}}}
	}
	if req.ResponseMIMEType != "" || req.ResponseSchema != nil || req.AspectRatio != "" {
		gc := &wireGenerationConfig{
			ResponseMIMEType: req.ResponseMIMEType,
			ResponseSchema:   req.ResponseSchema,
		}
		if req.AspectRatio != "" {
			gc.ImageConfig = &wireImageConfig{AspectRatio: req.AspectRatio}
		}
		body.GenerationConfig = gc
	}
	if req.SearchGrounding {
		body.Tools = []wireTool{{}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		perr := &ProviderError{StatusCode: resp.StatusCode}
		var envelope wireError
		if json.Unmarshal(respBody, &envelope) == nil {
			perr.Status = envelope.Error.Status
			perr.Message = envelope.Error.Message
		}
		return nil, perr
	}

	var parsed wireResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &MalformedError{Reason: "response envelope is not valid JSON: " + err.Error()}
	}
	if len(parsed.Candidates) == 0 {
		return nil, ErrNoContent
	}

	out := &GenerateResponse{
		Latency:      latency,
		InputTokens:  parsed.UsageMetadata.PromptTokenCount,
		OutputTokens: parsed.UsageMetadata.CandidatesTokenCount,
	}
	for _, part := range parsed.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.Text += part.Text
		}
		if part.InlineData != nil {
			out.Images = append(out.Images, *part.InlineData)
		}
	}

	return out, nil
}

// ValidateKey makes a minimal models-list call to check the configured API
// key without consuming generation quota.
func (c *Client) ValidateKey(ctx context.Context) error {
	url := c.baseURL + "/models?pageSize=1"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("invalid API key")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("validation failed: status=%d, body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// Close cleans up idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// DecodeJSON parses the model's text output against the declared schema and
// decodes it into v. Invalid JSON or a shape mismatch returns a
// *MalformedError; the caller never receives a partially-typed value.
func DecodeJSON(text string, schema *Schema, v any) error {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return &MalformedError{Reason: "not valid JSON: " + err.Error()}
	}
	if schema != nil {
		if err := schema.Validate(raw); err != nil {
			return &MalformedError{Reason: err.Error()}
		}
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &MalformedError{Reason: "shape mismatch: " + err.Error()}
	}
	return nil
}
