package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/iudanet/gophtask/internal/config"
	"github.com/iudanet/gophtask/internal/logger"
	"github.com/iudanet/gophtask/internal/server"
	"github.com/iudanet/gophtask/internal/server/jwt"
	"github.com/iudanet/gophtask/internal/server/middleware"
	"github.com/iudanet/gophtask/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		printVersion()
		return nil
	}

	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required (set --jwt-secret or GOPHTASK_JWT_SECRET)")
	}
	tokens := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)

	command, args := "serve", []string(nil)
	if len(cfg.Args) > 0 {
		command, args = cfg.Args[0], cfg.Args[1:]
	}

	switch command {
	case "serve":
		return serve(cfg, tokens)
	case "token":
		return issueToken(tokens, args, os.Stdout)
	default:
		return fmt.Errorf("unknown command: %s (expected serve or token)", command)
	}
}

// issueToken печатает access token для identity: gophtask-server token --identity alice
func issueToken(tokens *jwt.Service, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("token", pflag.ContinueOnError)
	identity := fs.StringP("identity", "i", "", "Identity the token grants access to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, expiresAt, err := tokens.GenerateToken(*identity)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(out, token)
	fmt.Fprintf(os.Stderr, "Token for %q expires at %s\n", *identity, expiresAt.Format(time.RFC3339))
	return nil
}

func serve(cfg *config.Server, tokens *jwt.Service) error {
	out, closer := logger.Output(cfg.LogFile, os.Stdout)
	defer closer.Close()

	log, err := logger.New(out, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, log)
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: server.NewRouter(server.RouterConfig{
			Logger:  log,
			Store:   store,
			Tokens:  tokens,
			Limiter: limiter,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", cfg.Address, "db", cfg.DBPath, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

func printVersion() {
	fmt.Printf("gophtask-server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
