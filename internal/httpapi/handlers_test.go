package httpapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seomaster/internal/auth"
	"seomaster/internal/config"
	"seomaster/internal/gemini"
	"seomaster/internal/insight"
	"seomaster/internal/models"
	"seomaster/internal/platforms"
	"seomaster/internal/storage"
	"seomaster/internal/usage"
)

var testSecret = []byte("test-jwt-secret")

// newTestServer assembles the full HTTP surface against miniredis and a
// stubbed generation endpoint.
func newTestServer(t *testing.T, genHandler http.HandlerFunc) (*httptest.Server, *Dependencies) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	if genHandler == nil {
		genHandler = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "{}"}]}}]}`))
		}
	}
	genServer := httptest.NewServer(genHandler)
	t.Cleanup(genServer.Close)

	platformServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	t.Cleanup(platformServer.Close)

	genClient, err := gemini.NewClient(gemini.Config{APIKey: "k", BaseURL: genServer.URL})
	require.NoError(t, err)

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	encryption, err := storage.NewEncryption(key)
	require.NoError(t, err)

	meter := usage.NewMemoryMeter(1500)
	t.Cleanup(func() { meter.Close() })
	credentials := storage.NewCredentialStore(redisClient, encryption, 10, time.Minute)
	projects := storage.NewProjectRegistry(redisClient, 10, time.Minute)
	users := auth.NewUserStore(redisClient)

	social := platforms.NewClient(platforms.Config{
		YouTubeBaseURL: platformServer.URL,
		MetaBaseURL:    platformServer.URL,
	})

	service := insight.NewService(insight.ServiceConfig{
		Gemini:      genClient,
		Meter:       meter,
		Credentials: credentials,
		Projects:    projects,
		Social:      social,
		TextModel:   "gemini-3-flash-preview",
		ImageModel:  "gemini-2.5-flash-image",
	})

	deps := &Dependencies{
		Service:     service,
		Meter:       meter,
		MeterEvents: meter,
		Credentials: credentials,
		Projects:    projects,
		Prober:      platforms.NewProber(social, nil),
		Users:       users,
		Gemini:      genClient,
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps, &config.Config{JWTSecret: testSecret})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, deps
}

func authToken(t *testing.T) string {
	token, _, err := auth.GenerateJWT("admin", testSecret)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/usage", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/v1/keywords", "", map[string]string{"platform": "youtube", "seed": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginIssuesUsableToken(t *testing.T) {
	server, deps := newTestServer(t, nil)
	ctx := context.Background()

	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, deps.Users.Put(ctx, "admin", hash))

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/auth/login", "", loginRequest{Username: "admin", Password: "s3cret-pass"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body loginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)

	usageResp := doJSON(t, http.MethodGet, server.URL+"/v1/usage", body.Token, nil)
	assert.Equal(t, http.StatusOK, usageResp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server, deps := newTestServer(t, nil)

	hash, err := auth.HashPassword("right-password")
	require.NoError(t, err)
	require.NoError(t, deps.Users.Put(context.Background(), "admin", hash))

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/auth/login", "", loginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestKeywordsEndpoint(t *testing.T) {
	payload := `{"keywords": [{"keyword": "go", "searchVolume": "High", "competition": 10, "strength": 90, "trend": "up"}]}`
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": payload}}}}},
		})
		w.Write(body)
	})
	token := authToken(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/keywords", token, keywordsRequest{
		Platform: "tiktok",
		Seed:     "go",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report models.KeywordReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	require.Len(t, report.Keywords, 1)
	assert.Equal(t, models.ProvenanceEstimated, report.Provenance)
}

func TestKeywordsEndpoint_MissingCredentialMapsTo409(t *testing.T) {
	server, _ := newTestServer(t, nil)
	token := authToken(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/keywords", token, keywordsRequest{
		Platform: "youtube",
		Seed:     "go",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestKeywordsEndpoint_MalformedMapsTo502(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "not json at all"}]}}]}`))
	})
	token := authToken(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/keywords", token, keywordsRequest{
		Platform: "tiktok",
		Seed:     "go",
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestKeywordsEndpoint_ProviderStatusPassesThrough(t *testing.T) {
	server, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}`))
	})
	token := authToken(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/keywords", token, keywordsRequest{
		Platform: "tiktok",
		Seed:     "go",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestKeywordsEndpoint_UnknownPlatform(t *testing.T) {
	server, _ := newTestServer(t, nil)
	token := authToken(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/keywords", token, keywordsRequest{
		Platform: "myspace",
		Seed:     "go",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUsageEndpoints(t *testing.T) {
	server, deps := newTestServer(t, nil)
	token := authToken(t)
	ctx := context.Background()

	_, err := deps.Meter.Record(ctx)
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/usage", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap models.UsageSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, 1, snap.UsedCalls)

	resetResp := doJSON(t, http.MethodPost, server.URL+"/v1/usage/reset", token, nil)
	require.Equal(t, http.StatusOK, resetResp.StatusCode)
	require.NoError(t, json.NewDecoder(resetResp.Body).Decode(&snap))
	assert.Equal(t, 0, snap.UsedCalls)
}

func TestCredentialsEndpoints(t *testing.T) {
	server, _ := newTestServer(t, nil)
	token := authToken(t)

	// Nothing stored yet: empty object, not an error.
	resp := doJSON(t, http.MethodGet, server.URL+"/v1/credentials/youtube", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var creds map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&creds))
	assert.Empty(t, creds)

	putResp := doJSON(t, http.MethodPut, server.URL+"/v1/credentials/youtube", token, credentialsPutRequest{
		Values: map[string]string{"apiKey": "yt-key"},
	})
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	getResp := doJSON(t, http.MethodGet, server.URL+"/v1/credentials/youtube", token, nil)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&creds))
	assert.Equal(t, "yt-key", creds["apiKey"])

	// Facebook and Instagram share the meta namespace.
	putResp = doJSON(t, http.MethodPut, server.URL+"/v1/credentials/facebook", token, credentialsPutRequest{
		Values: map[string]string{"accessToken": "fb-tok"},
	})
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	igResp := doJSON(t, http.MethodGet, server.URL+"/v1/credentials/instagram", token, nil)
	require.Equal(t, http.StatusOK, igResp.StatusCode)
	require.NoError(t, json.NewDecoder(igResp.Body).Decode(&creds))
	assert.Equal(t, "fb-tok", creds["accessToken"])
}

func TestProbeEndpoint(t *testing.T) {
	server, _ := newTestServer(t, nil)
	token := authToken(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/v1/credentials/pinterest/probe", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result platforms.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Detail)
}

func TestProjectEndpoints(t *testing.T) {
	server, _ := newTestServer(t, nil)
	token := authToken(t)

	listResp := doJSON(t, http.MethodGet, server.URL+"/v1/projects", token, nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var projects []models.Project
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&projects))
	require.NotEmpty(t, projects)

	createResp := doJSON(t, http.MethodPost, server.URL+"/v1/projects", token, models.Project{Name: "Second Channel"})
	require.Equal(t, http.StatusOK, createResp.StatusCode)
	var created models.Project
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	setResp := doJSON(t, http.MethodPut, server.URL+"/v1/projects/active", token, setActiveRequest{ID: created.ID})
	require.Equal(t, http.StatusOK, setResp.StatusCode)

	activeResp := doJSON(t, http.MethodGet, server.URL+"/v1/projects/active", token, nil)
	require.Equal(t, http.StatusOK, activeResp.StatusCode)
	var active models.Project
	require.NoError(t, json.NewDecoder(activeResp.Body).Decode(&active))
	assert.Equal(t, created.ID, active.ID)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	server, _ := newTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, server.URL+"/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	// No audit database configured, so no database field is reported.
	assert.Empty(t, health.Database)
}

func TestCallAuditEndpointsDisabledWithoutDatabase(t *testing.T) {
	server, _ := newTestServer(t, nil)
	token := authToken(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/v1/calls", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Error, "not enabled")

	resp = doJSON(t, http.MethodGet, server.URL+"/v1/calls/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
