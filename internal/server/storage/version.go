package storage

import "context"

//go:generate go tool moq -out version_mock.go . VersionStorage

// VersionStorage defines interface for the per-identity version log.
// The log is append-only: versions are numbered from 1 without gaps.
type VersionStorage interface {
	// GetVersionsAfter returns the payloads of all versions strictly after the
	// given version number, in increasing order.
	// Returns empty slice if no versions found
	GetVersionsAfter(ctx context.Context, identity string, after uint64) ([][]byte, error)

	// AddVersion appends a version to the log.
	// Returns ErrVersionConflict unless version == LatestVersion + 1
	AddVersion(ctx context.Context, identity string, version uint64, data []byte) error

	// LatestVersion returns the number of the last stored version, 0 for an empty log
	LatestVersion(ctx context.Context, identity string) (uint64, error)
}
