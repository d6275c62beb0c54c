package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"seomaster/internal/auth"
	"seomaster/internal/config"
	"seomaster/internal/storage"
)

// init-admin seeds the dashboard's first user. There is no self-service
// signup, so this runs once per deployment.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	username := os.Getenv("ADMIN_BOOTSTRAP_USER")
	password := os.Getenv("ADMIN_BOOTSTRAP_PASSWORD")
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "ERROR: ADMIN_BOOTSTRAP_USER and ADMIN_BOOTSTRAP_PASSWORD must be set")
		os.Exit(1)
	}
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "ERROR: Password must be at least 8 characters long")
		os.Exit(1)
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
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := auth.NewUserStore(redisClient)
	if err := users.Put(ctx, username, hash); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to store user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin user %q created.\n", username)
	fmt.Println("Remove ADMIN_BOOTSTRAP_USER and ADMIN_BOOTSTRAP_PASSWORD from the environment.")
}
