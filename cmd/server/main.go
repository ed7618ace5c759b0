package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/preview-resolver/internal/access"
	"github.com/ignite/preview-resolver/internal/api"
	"github.com/ignite/preview-resolver/internal/config"
	"github.com/ignite/preview-resolver/internal/pkg/logger"
	"github.com/ignite/preview-resolver/internal/preview"
	"github.com/ignite/preview-resolver/internal/render"
	"github.com/ignite/preview-resolver/internal/repository/postgres"
	"github.com/ignite/preview-resolver/internal/repository/rediscache"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %w", port, addr, err)
	}
	ln.Close()
	return nil
}

// extractHost returns the host portion of a DSN without credentials.
func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func fatal(msg string, fields ...interface{}) {
	logger.Error(msg, fields...)
	os.Exit(1)
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// openRedis connects to the cache. A failed connection disables caching
// rather than stopping the server.
func openRedis(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		logger.Info("redis not configured, lookup cache disabled")
		return nil
	}

	var client *redis.Client
	if opts, err := redis.ParseURL(cfg.URL); err == nil {
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{Addr: cfg.URL})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis connection failed, lookup cache disabled", "error", err)
		client.Close()
		return nil
	}
	logger.Info("redis connected", "ttl", cfg.CacheTTL().String(), "prefix", cfg.KeyPrefix)
	return client
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fatal("failed to load config", "path", *configPath, "error", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.Redact())

	if cfg.Database.URL == "" {
		fatal("database url is required (database.url or DATABASE_URL)")
	}
	if err := checkPortAvailable(cfg.Server.GetHost(), cfg.Server.Port); err != nil {
		fatal("pre-flight check failed", "error", err)
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		fatal("database unavailable", "host", extractHost(cfg.Database.URL), "error", err)
	}
	defer db.Close()
	logger.Info("database connected", "host", extractHost(cfg.Database.URL))

	repo := postgres.NewPostRepo(db)
	var lookup preview.PostLookup = repo
	health := api.NewHealthChecker(repo, nil)
	if redisClient := openRedis(cfg.Redis); redisClient != nil {
		defer redisClient.Close()
		cache := rediscache.New(redisClient, repo, cfg.Redis.CacheTTL(), cfg.Redis.KeyPrefix)
		lookup = cache
		health = api.NewHealthChecker(repo, cache)
	}

	renderer, err := render.NewFromFile(cfg.Theme.PostTemplate)
	if err != nil {
		fatal("failed to load post template", "path", cfg.Theme.PostTemplate, "error", err)
	}

	previews := preview.NewHandler(
		lookup,
		access.NewPolicy(cfg.Members.FreeTierSlug),
		preview.NewPlanner(cfg.Site.AdminPath, cfg.Site.EmailPath),
		renderer,
	)
	server := api.NewServer(cfg.Server, previews, health)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := server.Addr()
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", "error", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
