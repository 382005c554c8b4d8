package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iudanet/gophtask/internal/server/storage"
)

var _ storage.VersionStorage = (*Storage)(nil)

// GetVersionsAfter returns payloads of versions strictly after the given number
func (s *Storage) GetVersionsAfter(ctx context.Context, identity string, after uint64) ([][]byte, error) {
	query := `
		SELECT data
		FROM versions
		WHERE identity = ? AND version > ?
		ORDER BY version ASC
	`

	rows, err := s.db.QueryContext(ctx, query, identity, int64(after))
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	versions := make([][]byte, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, data)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating versions: %w", err)
	}

	return versions, nil
}

// AddVersion appends a version if it directly follows the latest stored one
func (s *Storage) AddVersion(ctx context.Context, identity string, version uint64, data []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	latest, err := latestVersion(ctx, tx, identity)
	if err != nil {
		return err
	}

	if version != latest+1 {
		return fmt.Errorf("%w: got %d, latest %d", storage.ErrVersionConflict, version, latest)
	}

	query := `
		INSERT INTO versions (identity, version, data, created_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := tx.ExecContext(ctx, query, identity, int64(version), data, s.now().Unix()); err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit version: %w", err)
	}

	return nil
}

// LatestVersion returns the last stored version number, 0 for an empty log
func (s *Storage) LatestVersion(ctx context.Context, identity string) (uint64, error) {
	return latestVersion(ctx, s.db, identity)
}

// querier общий интерфейс *sql.DB и *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func latestVersion(ctx context.Context, q querier, identity string) (uint64, error) {
	var latest int64
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM versions WHERE identity = ?`,
		identity,
	).Scan(&latest)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest version: %w", err)
	}

	return uint64(latest), nil
}
