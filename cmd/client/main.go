package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/gophtask/internal/client/api"
	"github.com/iudanet/gophtask/internal/client/cli"
	"github.com/iudanet/gophtask/internal/client/iocli"
	"github.com/iudanet/gophtask/internal/client/storage/boltdb"
	"github.com/iudanet/gophtask/internal/client/sync"
	"github.com/iudanet/gophtask/internal/client/taskdb"
	"github.com/iudanet/gophtask/internal/config"
	"github.com/iudanet/gophtask/internal/crypto"
	"github.com/iudanet/gophtask/internal/logger"
	"github.com/iudanet/gophtask/internal/validation"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient(os.Args[1:])
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

	log, err := logger.Stderr(cfg.LogLevel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boltStorage, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	db := taskdb.New(boltStorage, log,
		taskdb.WithMaxSyncAttempts(cfg.MaxSyncAttempts),
		taskdb.WithSyncBackoff(cfg.SyncBackoff),
	)

	c := cli.New(iocli.NewStdio(), db, nil)

	if cli.NeedsSync(cfg.Args) {
		syncService, err := newSyncService(c, db, cfg, log)
		if err != nil {
			return err
		}
		c.SetSyncService(syncService)
	}

	return c.Run(ctx, cfg.Args)
}

// newSyncService собирает цепочку TaskDB -> шифрование -> HTTP клиент
func newSyncService(c *cli.Cli, db *taskdb.TaskDB, cfg *config.Client, log *slog.Logger) (sync.Service, error) {
	if err := validation.ValidateIdentity(cfg.Identity); err != nil {
		return nil, fmt.Errorf("invalid identity (set --identity or GOPHTASK_IDENTITY): %w", err)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("access token is required for sync (set --token or GOPHTASK_TOKEN)")
	}

	passphrase, err := c.ReadPassphrase(cli.Passphrases{
		FromConfig: cfg.Passphrase,
		FromFile:   cfg.PassphraseFile,
	})
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKey(passphrase, cfg.Identity)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	server := sync.NewSealedServer(api.NewClient(cfg.ServerURL, cfg.Token), key)
	return sync.NewService(db, server, cfg.Identity, log), nil
}

func printVersion() {
	fmt.Printf("gophtask\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
