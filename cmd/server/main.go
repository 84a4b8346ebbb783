// The attendee registration API server: pass-creation endpoints backed by
// DynamoDB with Redis-based per-token rate limiting.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tngss/attendee-sync/internal/api"
	"github.com/tngss/attendee-sync/internal/config"
	"github.com/tngss/attendee-sync/internal/repository/dynamo"
	"github.com/tngss/attendee-sync/internal/service/attendee"
)

// checkPortAvailable verifies the target port is not already in use, so a
// stale process fails the boot instead of silently shadowing it.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	for _, check := range []func() error{cfg.RequireStore, cfg.RequireAPITokens} {
		if err := check(); err != nil {
			log.Fatalf("Config check failed: %v", err)
		}
	}
	if cfg.Redis.URL == "" {
		log.Fatal("REDIS_URL is required (rate limiter backend)")
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx := context.Background()

	repo, err := dynamo.NewFromAWS(ctx, cfg.Store.DynamoDBTable, cfg.Store.AWSRegion, cfg.Store.GetAWSProfile())
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB: %v", err)
	}
	svc := attendee.NewService(repo)

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("Redis connection failed: %v", err)
	}
	cancel()

	limiter := api.NewRedisLimiter(redisClient)
	handlers := api.NewHandlers(svc, limiter,
		cfg.API.SinglePerMinute, cfg.API.BulkPerMinute,
		cfg.API.MaxBulkItems, cfg.API.MaxBodyBytes)
	router := api.NewRouter(handlers, cfg.API.Tokens, cfg.API.AllowedOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	redisClient.Close()
	log.Println("Server stopped")
}
