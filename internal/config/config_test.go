package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClient_Defaults(t *testing.T) {
	cfg, err := LoadClient([]string{"list"})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "gophtask.db", cfg.DBPath)
	assert.Zero(t, cfg.MaxSyncAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.SyncBackoff)
	assert.Equal(t, []string{"list"}, cfg.Args)
	assert.False(t, cfg.ShowVersion)
}

func TestLoadClient_Flags(t *testing.T) {
	cfg, err := LoadClient([]string{
		"--server", "https://tasks.example.com/",
		"--db", "/tmp/replica.db",
		"--identity", "alice",
		"--max-sync-attempts", "5",
		"--sync-backoff", "2s",
		"modify", "1", "--not-a-flag",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://tasks.example.com", cfg.ServerURL)
	assert.Equal(t, "/tmp/replica.db", cfg.DBPath)
	assert.Equal(t, "alice", cfg.Identity)
	assert.Equal(t, uint64(5), cfg.MaxSyncAttempts)
	assert.Equal(t, 2*time.Second, cfg.SyncBackoff)
	// флаги после команды принадлежат команде
	assert.Equal(t, []string{"modify", "1", "--not-a-flag"}, cfg.Args)
}

func TestLoadClient_Env(t *testing.T) {
	t.Setenv("GOPHTASK_IDENTITY", "bob")
	t.Setenv("GOPHTASK_PASSPHRASE_FILE", "/run/secrets/passphrase")
	t.Setenv("GOPHTASK_SERVER", "http://env:9000")

	cfg, err := LoadClient([]string{"--server", "http://flag:9000", "sync"})
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.Identity)
	assert.Equal(t, "/run/secrets/passphrase", cfg.PassphraseFile)
	// флаг важнее окружения
	assert.Equal(t, "http://flag:9000", cfg.ServerURL)
}

func TestLoadClient_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gophtask.yaml")
	content := "identity: carol\ntoken: file-token\nmax-sync-attempts: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadClient([]string{"--config", path, "status"})
	require.NoError(t, err)

	assert.Equal(t, "carol", cfg.Identity)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, uint64(3), cfg.MaxSyncAttempts)
}

func TestLoadClient_MissingConfigFile(t *testing.T) {
	_, err := LoadClient([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoadClient_UnknownFlag(t *testing.T) {
	_, err := LoadClient([]string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestLoadServer(t *testing.T) {
	cfg, err := LoadServer([]string{"--address", ":9090", "--jwt-secret", "s3cret", "--log-format", "json", "serve"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Address)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"serve"}, cfg.Args)
	assert.Equal(t, 600, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
}

func TestLoadServer_InvalidRateLimit(t *testing.T) {
	_, err := LoadServer([]string{"--rate-limit", "-1"})
	require.Error(t, err)

	_, err = LoadServer([]string{"--rate-limit", "10", "--rate-window", "0s"})
	require.Error(t, err)

	cfg, err := LoadServer([]string{"--rate-limit", "0", "--rate-window", "0s"})
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RateLimit)
}

func TestLoadServer_InvalidLogFormat(t *testing.T) {
	_, err := LoadServer([]string{"--log-format", "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	_, err := LoadClient([]string{"--log-level", "loud", "list"})
	assert.Error(t, err)

	_, err = LoadServer([]string{"--log-level", "loud"})
	assert.Error(t, err)
}

func TestLoadServer_Help(t *testing.T) {
	_, err := LoadServer([]string{"--help"})
	assert.ErrorIs(t, err, ErrHelp)
}
