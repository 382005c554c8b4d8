package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/gophtask/internal/client/taskdb"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс синхронизации реплики с сервером
type Service interface {
	// Sync выполняет полную синхронизацию с сервером
	Sync(ctx context.Context) (*taskdb.SyncResult, error)

	// GetPendingSyncCount возвращает количество операций, ожидающих синхронизации
	GetPendingSyncCount(ctx context.Context) (int, error)
}

// service синхронизирует одну реплику от имени одной identity
type service struct {
	db       *taskdb.TaskDB
	server   taskdb.Server
	logger   *slog.Logger
	identity string
}

// NewService creates a new sync service
func NewService(db *taskdb.TaskDB, server taskdb.Server, identity string, logger *slog.Logger) Service {
	return &service{
		db:       db,
		server:   server,
		identity: identity,
		logger:   logger,
	}
}

// Sync performs full synchronization with server:
// 1. Pulls versions the replica has not seen and rebases local operations on them
// 2. Pushes the remaining local operations as the next version
func (s *service) Sync(ctx context.Context) (*taskdb.SyncResult, error) {
	s.logger.Info("Starting synchronization", "identity", s.identity)

	pending, err := s.GetPendingSyncCount(ctx)
	if err != nil {
		s.logger.Warn("Failed to count pending operations", "error", err)
	} else {
		s.logger.Info("Collected local changes", "count", pending)
	}

	result, err := s.db.Sync(ctx, s.identity, s.server)
	if err != nil {
		s.logger.Error("Synchronization failed", "identity", s.identity, "error", err)
		return nil, fmt.Errorf("sync failed: %w", err)
	}

	return result, nil
}

// GetPendingSyncCount возвращает длину локального лога операций
func (s *service) GetPendingSyncCount(ctx context.Context) (int, error) {
	ops, err := s.db.Operations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get pending operations: %w", err)
	}
	return len(ops), nil
}
