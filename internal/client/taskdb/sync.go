package taskdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/models"
	"github.com/iudanet/gophtask/internal/ot"
)

//go:generate moq -out server_mock.go . Server

// AddVersionResult is the server's answer to an append attempt
type AddVersionResult int

const (
	// VersionAccepted means the version was appended to the server log
	VersionAccepted AddVersionResult = iota
	// VersionConflict means the server already has a version with that number
	VersionConflict
)

func (r AddVersionResult) String() string {
	switch r {
	case VersionAccepted:
		return "accepted"
	case VersionConflict:
		return "conflict"
	default:
		return fmt.Sprintf("AddVersionResult(%d)", int(r))
	}
}

// Server is the append-only version log shared by all replicas of one identity
type Server interface {
	// GetVersions returns the encoded versions numbered strictly after `after`, in order
	GetVersions(ctx context.Context, identity string, after uint64) ([][]byte, error)

	// AddVersion appends an encoded version if version is the next number in the log
	AddVersion(ctx context.Context, identity string, version uint64, data []byte) (AddVersionResult, error)
}

// SyncResult contains sync operation results
type SyncResult struct {
	PulledVersions   int // количество примененных серверных версий
	PushedOperations int // количество отправленных на сервер операций
	Skipped          int // серверные операции, которые не удалось применить
	Attempts         int // количество попыток отправки
}

// Sync merges new server versions into the replica and pushes the pending
// local log as the next version. A rejected push starts over from fetching
// versions. One storage transaction is held for the whole call.
func (db *TaskDB) Sync(ctx context.Context, identity string, server Server) (*SyncResult, error) {
	txn, err := db.storage.Txn(ctx)
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	defer txn.Rollback()

	result := &SyncResult{}
	attempt := func(ctx context.Context) error {
		result.Attempts++
		return db.syncOnce(ctx, txn, identity, server, result)
	}

	if db.maxSyncAttempts == 0 {
		err = db.syncUnbounded(ctx, attempt)
	} else {
		err = db.syncBounded(ctx, attempt)
	}
	if err != nil {
		return nil, err
	}

	if err := txn.Commit(); err != nil {
		return nil, storageErr("commit", err)
	}

	db.logger.Info("Synchronization completed",
		"pulled", result.PulledVersions,
		"pushed", result.PushedOperations,
		"skipped", result.Skipped,
		"attempts", result.Attempts)

	return result, nil
}

func (db *TaskDB) syncUnbounded(ctx context.Context, attempt func(context.Context) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := attempt(ctx)
		if !errors.Is(err, errVersionConflict) {
			return err
		}
	}
}

func (db *TaskDB) syncBounded(ctx context.Context, attempt func(context.Context) error) error {
	backoff := retry.WithMaxRetries(db.maxSyncAttempts-1, retry.NewExponential(db.syncBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := attempt(ctx)
		if errors.Is(err, errVersionConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, errVersionConflict) {
		return fmt.Errorf("%w: %d attempts", ErrRetriesExhausted, db.maxSyncAttempts)
	}
	return err
}

// syncOnce performs one pull/push round. It returns errVersionConflict when
// another replica appended a version first.
func (db *TaskDB) syncOnce(ctx context.Context, txn storage.Txn, identity string, server Server, result *SyncResult) error {
	base, err := txn.BaseVersion()
	if err != nil {
		return storageErr("get base version", err)
	}

	blobs, err := server.GetVersions(ctx, identity, base)
	if errors.Is(err, ErrUnreadableVersion) {
		return &ProtocolError{Reason: fmt.Sprintf("unreadable version after %d", base), Err: err}
	}
	if err != nil {
		return fmt.Errorf("failed to get versions after %d: %w", base, err)
	}

	for _, blob := range blobs {
		version, err := models.DecodeVersion(blob)
		if err != nil {
			return &ProtocolError{Reason: fmt.Sprintf("undecodable version after %d", base), Err: err}
		}
		if version.Version != base+1 {
			return &ProtocolError{Reason: fmt.Sprintf("expected version %d, got %d", base+1, version.Version)}
		}

		if err := db.applyVersion(txn, version, result); err != nil {
			return err
		}

		base = version.Version
		if err := txn.SetBaseVersion(base); err != nil {
			return storageErr("set base version", err)
		}
		result.PulledVersions++
	}

	ops, err := txn.Operations()
	if err != nil {
		return storageErr("get operations", err)
	}
	if len(ops) == 0 {
		return nil
	}

	next := &models.Version{Version: base + 1, Operations: ops}
	data, err := next.Encode()
	if err != nil {
		return err
	}

	res, err := server.AddVersion(ctx, identity, next.Version, data)
	if err != nil {
		return fmt.Errorf("failed to add version %d: %w", next.Version, err)
	}

	switch res {
	case VersionAccepted:
		if err := txn.SetBaseVersion(next.Version); err != nil {
			return storageErr("set base version", err)
		}
		if err := txn.SetOperations(nil); err != nil {
			return storageErr("clear operations", err)
		}
		result.PushedOperations += len(ops)
		db.logger.Debug("Version accepted", "version", next.Version, "operations", len(ops))
		return nil

	case VersionConflict:
		// Другая реплика успела раньше, заново забираем версии
		db.logger.Info("Version conflict, retrying", "version", next.Version)
		return errVersionConflict

	default:
		return &ProtocolError{Reason: fmt.Sprintf("unexpected add version result %s", res)}
	}
}

// applyVersion transforms every operation of a server version against the
// pending local log and applies what survives. A surviving server Create for a
// task that already exists locally is a no-op and is not counted as skipped.
func (db *TaskDB) applyVersion(txn storage.Txn, version *models.Version, result *SyncResult) error {
	local, err := txn.Operations()
	if err != nil {
		return storageErr("get operations", err)
	}

	for _, serverOp := range version.Operations {
		transformed, rebased := ot.Rebase(serverOp, local)
		local = rebased

		if transformed == nil {
			continue
		}

		if err := applyOp(txn, *transformed); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			// Create на существующей задаче: обе стороны создали одну и ту же задачу
			if transformed.Type == models.OpCreate {
				db.logger.Debug("Task already exists, server create ignored", "version", version.Version, "uuid", transformed.UUID)
				continue
			}
			applyErr := &TransformApplyError{Op: *transformed, Version: version.Version, Err: err}
			db.logger.Warn("Skipping server operation", "version", version.Version, "error", applyErr)
			result.Skipped++
		}
	}

	if err := txn.SetOperations(local); err != nil {
		return storageErr("set operations", err)
	}

	db.logger.Debug("Server version applied", "version", version.Version, "operations", len(version.Operations))
	return nil
}
