package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtask/internal/server/storage"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	// Используем in-memory database для тестов
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestNew_MigrationsApplied(t *testing.T) {
	s := setupTestStorage(t)

	var name string
	err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'versions'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "versions", name)
}

func TestNew_Reopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "server.db")

	s, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.AddVersion(ctx, "alice", 1, []byte("v1")))
	require.NoError(t, s.Close())

	// повторное открытие не должно повторно применять миграции
	s, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer s.Close()

	latest, err := s.LatestVersion(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), latest)
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "server.db"))
	assert.Error(t, err)
}

func TestAddVersion(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		existing  uint64
		version   uint64
		wantError error
	}{
		{name: "first version", existing: 0, version: 1},
		{name: "next version", existing: 2, version: 3},
		{name: "version zero", existing: 0, version: 0, wantError: storage.ErrVersionConflict},
		{name: "already taken", existing: 2, version: 2, wantError: storage.ErrVersionConflict},
		{name: "gap", existing: 1, version: 3, wantError: storage.ErrVersionConflict},
		{name: "stale", existing: 3, version: 1, wantError: storage.ErrVersionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestStorage(t)
			for v := uint64(1); v <= tt.existing; v++ {
				require.NoError(t, s.AddVersion(ctx, "alice", v, []byte{byte(v)}))
			}

			err := s.AddVersion(ctx, "alice", tt.version, []byte("payload"))
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)
			}

			latest, err := s.LatestVersion(ctx, "alice")
			require.NoError(t, err)
			if tt.wantError != nil {
				assert.Equal(t, tt.existing, latest)
			} else {
				assert.Equal(t, tt.version, latest)
			}
		})
	}
}

func TestGetVersionsAfter(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	for _, payload := range []string{"one", "two", "three"} {
		latest, err := s.LatestVersion(ctx, "alice")
		require.NoError(t, err)
		require.NoError(t, s.AddVersion(ctx, "alice", latest+1, []byte(payload)))
	}

	tests := []struct {
		name  string
		after uint64
		want  []string
	}{
		{name: "from the beginning", after: 0, want: []string{"one", "two", "three"}},
		{name: "from the middle", after: 1, want: []string{"two", "three"}},
		{name: "up to date", after: 3, want: []string{}},
		{name: "ahead of the log", after: 10, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			versions, err := s.GetVersionsAfter(ctx, "alice", tt.after)
			require.NoError(t, err)
			require.NotNil(t, versions)

			got := make([]string, 0, len(versions))
			for _, v := range versions {
				got = append(got, string(v))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersions_IsolatedByIdentity(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	require.NoError(t, s.AddVersion(ctx, "alice", 1, []byte("a1")))
	require.NoError(t, s.AddVersion(ctx, "alice", 2, []byte("a2")))
	require.NoError(t, s.AddVersion(ctx, "bob", 1, []byte("b1")))

	bob, err := s.GetVersionsAfter(ctx, "bob", 0)
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, []byte("b1"), bob[0])

	latest, err := s.LatestVersion(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), latest)
}

// Из нескольких конкурентных попыток записать одну и ту же версию принимается ровно одна
func TestAddVersion_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	s := setupTestStorage(t)

	const writers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.AddVersion(ctx, "alice", 1, []byte{byte(i)})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, storage.ErrVersionConflict)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
}
