package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iudanet/gophtask/internal/client/iocli"
	"github.com/iudanet/gophtask/internal/client/sync"
	"github.com/iudanet/gophtask/internal/client/taskdb"
	"github.com/iudanet/gophtask/internal/validation"
)

// Passphrases описывает источники пароля шифрования
type Passphrases struct {
	FromConfig string // флаг --passphrase, GOPHTASK_PASSPHRASE или файл конфигурации
	FromFile   string // путь к файлу с паролем
}

// Cli выполняет команды gophtask над локальной репликой
type Cli struct {
	io          iocli.IO
	db          *taskdb.TaskDB
	syncService sync.Service
	now         func() time.Time
}

// New creates the command runner. syncService may be nil when the replica
// is used without a server; the sync command then fails.
func New(io iocli.IO, db *taskdb.TaskDB, syncService sync.Service) *Cli {
	return &Cli{
		io:          io,
		db:          db,
		syncService: syncService,
		now:         time.Now,
	}
}

// SetSyncService подключает синхронизацию после того, как известен ключ шифрования
func (c *Cli) SetSyncService(s sync.Service) {
	c.syncService = s
}

// NeedsSync reports whether running args talks to the server
func NeedsSync(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "sync":
		return true
	case "add", "modify", "done", "purge":
		_, found := trailingFlag(args[1:], "--sync")
		return found
	default:
		return false
	}
}

// ReadPassphrase returns the encryption passphrase from the first available source:
// 1. --passphrase flag, GOPHTASK_PASSPHRASE environment variable or config file
// 2. File specified with --passphrase-file
// 3. Interactive prompt (fallback)
func (c *Cli) ReadPassphrase(p Passphrases) (string, error) {
	passphrase, err := c.getPassphrase(p)
	if err != nil {
		return "", fmt.Errorf("failed to get passphrase: %w", err)
	}

	if err := validation.ValidatePassphrase(passphrase); err != nil {
		return "", fmt.Errorf("invalid passphrase: %w", err)
	}

	return passphrase, nil
}

func (c *Cli) getPassphrase(p Passphrases) (string, error) {
	// Priority 1: flag / env / config
	if p.FromConfig != "" {
		return p.FromConfig, nil
	}

	// Priority 2: File
	if p.FromFile != "" {
		content, err := os.ReadFile(p.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase file: %w", err)
		}
		// Убираем trailing newline/whitespace
		passphrase := strings.TrimSpace(string(content))
		if passphrase == "" {
			return "", fmt.Errorf("passphrase file is empty")
		}
		return passphrase, nil
	}

	// Priority 3: Interactive prompt (fallback)
	passphrase, err := c.io.ReadPassword("Encryption passphrase: ")
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase from stdin: %w", err)
	}
	if passphrase == "" {
		return "", fmt.Errorf("passphrase cannot be empty")
	}

	return passphrase, nil
}

// PrintUsage печатает справку по командам
func (c *Cli) PrintUsage() {
	c.io.Println(usageText)
}

const usageText = `gophtask - local-first task list

Usage:
  gophtask [OPTIONS] COMMAND [ARGS]

Options:
  --version                  Show version information
  --config PATH              Config file (yaml, json or toml)
  --server URL               Server URL (default: http://localhost:8080)
  --db PATH                  Path to local database (default: gophtask.db)
  --identity NAME            Identity shared by replicas that sync together
  --token TOKEN              Access token issued by 'gophtask-server token'
  --passphrase PASSPHRASE    Encryption passphrase (not recommended, use env var or file)
  --passphrase-file PATH     Path to file containing the encryption passphrase
  --max-sync-attempts N      Give up sync after N rejected pushes (0: never)
  --sync-backoff DURATION    Initial delay between bounded sync attempts

Every option can also be set with a GOPHTASK_* environment variable,
e.g. GOPHTASK_IDENTITY or GOPHTASK_PASSPHRASE_FILE.

Commands:
  add <description>             Create a pending task
  modify <id> <prop>=<value>... Set properties; <prop>= removes a property
  done <id>                     Mark a task completed
  purge <id>                    Delete a task entirely
  list                          Show pending tasks
  info <id>                     Show all properties of a task
  sync                          Synchronize with the server
  status                        Show replica status

<id> is a working set number as shown by 'list', or a task UUID.
add, modify, done and purge accept a trailing --sync to synchronize right after the change.

Examples:
  gophtask add buy milk
  gophtask modify 1 project=home priority=H
  gophtask done 1 --sync
  GOPHTASK_PASSPHRASE_FILE=~/.gophtask-passphrase gophtask sync`
