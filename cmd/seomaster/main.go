package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"seomaster/internal/config"
	"seomaster/internal/httpapi"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mux, deps, err := httpapi.NewRouter(cfg)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	addr := ":" + cfg.HTTPPort
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("seomaster listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Drain the audit pipeline before exiting.
	if deps.CallWorker != nil {
		if err := deps.CallWorker.Stop(); err != nil {
			log.Printf("Failed to stop call queue worker: %v", err)
		}
	}
	if deps.CallLogger != nil {
		deps.CallLogger.Shutdown()
	}
	if meter, ok := deps.Meter.(interface{ Close() error }); ok {
		_ = meter.Close()
	}
	_ = deps.Gemini.Close()
	if deps.DB != nil {
		_ = deps.DB.Close()
	}

	log.Println("Server exited")
}
