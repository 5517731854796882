package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/forgeaistudio/frontera/internal/api"
	"github.com/forgeaistudio/frontera/internal/blob"
	"github.com/forgeaistudio/frontera/internal/config"
	"github.com/forgeaistudio/frontera/internal/db"
	"github.com/forgeaistudio/frontera/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// newBlobStore selects the avatar storage driver. The filesystem store gets
// its root served by the HTTP server so the URLs it returns resolve.
func newBlobStore(ctx context.Context, cfg config.BlobConfig) (blob.Store, *blob.FSStore, error) {
	switch cfg.Driver {
	case "", "fs":
		fs, err := blob.NewFSStore(cfg.FSRoot, cfg.FSBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs, nil
	case "s3":
		s3, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PathStyle:     cfg.S3PathStyle,
			PublicBaseURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

func main() {
	cfg := config.Load()

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Open database, creating it on first run.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// JWT secret: explicit config wins, otherwise the persisted one
	// (auto-generated on first run) so tokens survive restarts.
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			slog.Error("failed to get JWT secret", "error", err)
			os.Exit(1)
		}
	}

	blobs, fsBlobs, err := newBlobStore(context.Background(), cfg.Blob)
	if err != nil {
		slog.Error("failed to set up blob storage", "error", err)
		os.Exit(1)
	}
	slog.Info("blob storage ready", "driver", cfg.Blob.Driver)

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		slog.Info("redis connected", "addr", cfg.Redis.Addr)
	} else if cfg.RateLimit.Enabled {
		slog.Warn("redis unavailable, rate limiting disabled")
	}

	apiRouter := api.NewRouter(database, api.Options{
		JWTSecret:  jwtSecret,
		ServiceKey: cfg.ServiceKey,
		Blobs:      blobs,
		RateLimit:  cfg.RateLimit,
		Redis:      rdb,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", apiRouter)
	if fsBlobs != nil {
		prefix := strings.TrimSuffix(cfg.Blob.FSBaseURL, "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(fsBlobs.Root()))))
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}
