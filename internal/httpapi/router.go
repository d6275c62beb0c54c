package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"seomaster/internal/auth"
	"seomaster/internal/config"
	"seomaster/internal/gemini"
	"seomaster/internal/insight"
	"seomaster/internal/logging"
	"seomaster/internal/middleware"
	"seomaster/internal/platforms"
	"seomaster/internal/queue"
	"seomaster/internal/storage"
	"seomaster/internal/usage"
)

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	Service     *insight.Service
	Meter       usage.Meter
	MeterEvents usage.Broadcaster
	Credentials *storage.CredentialStore
	Projects    *storage.ProjectRegistry
	Prober      *platforms.Prober
	Users       *auth.UserStore

	DB         *storage.DB              // nil when auditing is disabled
	Calls      *storage.CallRepository  // nil when auditing is disabled
	CallWorker *storage.CallQueueWorker // nil when auditing is disabled
	CallLogger *logging.CallLogger      // nil when disabled
	Gemini     *gemini.Client
}

// NewRouter creates an HTTP router with all dependencies wired up.
func NewRouter(cfg *config.Config) (*http.ServeMux, *Dependencies, error) {
	if cfg.EncryptionKey == "" {
		return nil, nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	encryption, err := storage.NewEncryptionFromBase64(cfg.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}

	redisClient, err := storage.NewRedisClient(storage.RedisConfig{
		Address:      cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	meter := usage.NewRedisMeter(redisClient, cfg.Usage.Limit)
	credentials := storage.NewCredentialStore(redisClient, encryption,
		cfg.Cache.CredentialCacheSize, cfg.Cache.CredentialCacheTTL)
	projects := storage.NewProjectRegistry(redisClient,
		cfg.Cache.ProjectCacheSize, cfg.Cache.ProjectCacheTTL)
	users := auth.NewUserStore(redisClient)

	genClient, err := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.RequestTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize generation client: %w", err)
	}

	social := platforms.NewClient(platforms.Config{})

	// Audit sinks: the database queue worker (when a database is
	// configured) and the local JSONL logger (when enabled). Generation
	// works without either.
	var sinks insight.MultiSink
	var db *storage.DB
	var callWorker *storage.CallQueueWorker

	if cfg.Database.URL != "" {
		db, err = storage.NewDB(storage.DBConfig{
			DSN:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		// The queue backing the worker: Redis survives restarts and
		// supports distributed workers; memory serves standalone
		// single-process deployments.
		useRedis := cfg.Queue.Backend != "memory"

		queueCfg := queue.DefaultConfig("calls")
		queueCfg.UseRedis = useRedis
		queueCfg.BatchSize = 100
		queueCfg.BatchTimeout = 5 * time.Second
		queueCfg.MaxRetries = 3
		queueCfg.RetryBackoff = 1 * time.Second

		var callQueue queue.Queue
		var callDLQ queue.DeadLetterQueue
		if useRedis {
			queueCfg.RedisAddr = cfg.Redis.Address
			queueCfg.RedisPassword = cfg.Redis.Password
			queueCfg.RedisDB = cfg.Redis.DB
			callQueue, err = queue.NewRedisQueue(queueCfg)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create call queue: %w", err)
			}
			callDLQ, err = queue.NewRedisDeadLetterQueue(queueCfg)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to create call DLQ: %w", err)
			}
		} else {
			callQueue = queue.NewMemoryQueue(queueCfg)
			callDLQ = queue.NewMemoryDeadLetterQueue()
		}

		callWorker = storage.NewCallQueueWorker(callQueue, callDLQ, db, queueCfg)
		callWorker.Start(context.Background())
		sinks = append(sinks, callWorker)
	}

	var callLogger *logging.CallLogger
	if cfg.CallLog.Enabled {
		callLogger, err = logging.NewCallLogger(
			cfg.CallLog.FilePathTemplate,
			cfg.CallLog.MaxSize,
			cfg.CallLog.MaxFiles,
			cfg.CallLog.BufferSize,
			cfg.CallLog.FlushInterval,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize call logger: %w", err)
		}
		sinks = append(sinks, callLogger)
	}

	var audit insight.AuditSink
	if len(sinks) > 0 {
		audit = sinks
	}

	service := insight.NewService(insight.ServiceConfig{
		Gemini:      genClient,
		Meter:       meter,
		Credentials: credentials,
		Projects:    projects,
		Social:      social,
		Audit:       audit,
		TextModel:   cfg.Gemini.TextModel,
		ImageModel:  cfg.Gemini.ImageModel,
	})

	prober := platforms.NewProber(social, service)

	deps := &Dependencies{
		Service:     service,
		Meter:       meter,
		MeterEvents: meter,
		Credentials: credentials,
		Projects:    projects,
		Prober:      prober,
		Users:       users,
		DB:          db,
		CallWorker:  callWorker,
		CallLogger:  callLogger,
		Gemini:      genClient,
	}
	if db != nil {
		deps.Calls = db.NewCallRepository()
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)
	return mux, deps, nil
}

func registerRoutes(mux *http.ServeMux, deps *Dependencies, cfg *config.Config) {
	// Public endpoints.
	mux.HandleFunc("GET /health", deps.handleHealth)

	authHandler := NewAuthHandler(deps.Users, cfg.JWTSecret)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	protect := middleware.JWTMiddleware(cfg.JWTSecret)

	// Generation features.
	mux.Handle("POST /v1/keywords", protect(http.HandlerFunc(deps.handleKeywords)))
	mux.Handle("POST /v1/audience", protect(http.HandlerFunc(deps.handleAudience)))
	mux.Handle("POST /v1/tags", protect(http.HandlerFunc(deps.handleTags)))
	mux.Handle("POST /v1/enhance", protect(http.HandlerFunc(deps.handleEnhance)))
	mux.Handle("POST /v1/thumbnails", protect(http.HandlerFunc(deps.handleThumbnail)))
	mux.Handle("POST /v1/thumbnails/evaluate", protect(http.HandlerFunc(deps.handleThumbnailEvaluate)))
	mux.Handle("POST /v1/competitors/analyze", protect(http.HandlerFunc(deps.handleCompetitorAnalyze)))
	mux.Handle("POST /v1/competitors/gap", protect(http.HandlerFunc(deps.handleCompetitiveGap)))
	mux.Handle("POST /v1/trends/radar", protect(http.HandlerFunc(deps.handleRadarTrends)))
	mux.Handle("POST /v1/trends/gaps", protect(http.HandlerFunc(deps.handleContentGaps)))
	mux.Handle("POST /v1/content", protect(http.HandlerFunc(deps.handlePlatformContent)))
	mux.Handle("POST /v1/reports/weekly", protect(http.HandlerFunc(deps.handleWeeklyReport)))
	mux.Handle("POST /v1/reports/weekly/pdf", protect(http.HandlerFunc(deps.handleWeeklyReportPDF)))

	// Call audit log (read side; 404 when no database is configured).
	mux.Handle("GET /v1/calls", protect(http.HandlerFunc(deps.handleCallList)))
	mux.Handle("GET /v1/calls/{id}", protect(http.HandlerFunc(deps.handleCallGet)))

	// Usage meter.
	mux.Handle("GET /v1/usage", protect(http.HandlerFunc(deps.handleUsage)))
	mux.Handle("POST /v1/usage/reset", protect(http.HandlerFunc(deps.handleUsageReset)))
	mux.Handle("GET /v1/usage/stream", protect(http.HandlerFunc(deps.handleUsageStream)))

	// Settings: credentials and probes.
	mux.Handle("GET /v1/credentials/{platform}", protect(http.HandlerFunc(deps.handleCredentialsGet)))
	mux.Handle("PUT /v1/credentials/{platform}", protect(http.HandlerFunc(deps.handleCredentialsPut)))
	mux.Handle("POST /v1/credentials/{platform}/probe", protect(http.HandlerFunc(deps.handleProbe)))

	// Project registry.
	mux.Handle("GET /v1/projects", protect(http.HandlerFunc(deps.handleProjectList)))
	mux.Handle("POST /v1/projects", protect(http.HandlerFunc(deps.handleProjectUpsert)))
	mux.Handle("GET /v1/projects/active", protect(http.HandlerFunc(deps.handleProjectActive)))
	mux.Handle("PUT /v1/projects/active", protect(http.HandlerFunc(deps.handleProjectSetActive)))
}
