package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtask/internal/client/iocli"
	"github.com/iudanet/gophtask/internal/client/storage/memory"
	"github.com/iudanet/gophtask/internal/client/sync"
	"github.com/iudanet/gophtask/internal/client/taskdb"
	"github.com/iudanet/gophtask/internal/models"
)

var fixedNow = time.Date(2024, 4, 1, 8, 30, 0, 0, time.UTC)

// newTestCli создает Cli на in-memory реплике и буфере вывода
func newTestCli(t *testing.T, syncService sync.Service) (*Cli, *bytes.Buffer) {
	t.Helper()
	st := memory.New()
	t.Cleanup(func() { _ = st.Close() })

	out := &bytes.Buffer{}
	c := New(iocli.New(strings.NewReader(""), out), taskdb.New(st, nil), syncService)
	c.now = func() time.Time { return fixedNow }
	return c, out
}

func run(t *testing.T, c *Cli, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, c.Run(context.Background(), args))
	return out.String()
}

func TestRun_AddListInfo(t *testing.T) {
	c, out := newTestCli(t, nil)

	output := run(t, c, out, "add", "buy", "milk")
	assert.Contains(t, output, "Created task 1")

	output = run(t, c, out, "list")
	assert.Contains(t, output, "buy milk")
	assert.Contains(t, output, "1 task(s)")

	output = run(t, c, out, "info", "1")
	assert.Contains(t, output, "Description: buy milk")
	assert.Contains(t, output, "Status:      pending")
	assert.Contains(t, output, "entry = 2024-04-01T08:30:00Z")
	assert.Contains(t, output, "ID:          1")
}

func TestRun_AddStoresProperties(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCli(t, nil)
	run(t, c, out, "add", "write report")

	records, err := c.db.AllTasks(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.Task{
		models.PropDescription: "write report",
		models.PropStatus:      models.StatusPending,
		models.PropEntry:       "2024-04-01T08:30:00Z",
		models.PropModified:    "2024-04-01T08:30:00Z",
	}, records[0].Task)

	// create + 4 свойства
	ops, err := c.db.Operations(ctx)
	require.NoError(t, err)
	assert.Len(t, ops, 5)
}

func TestRun_Modify(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCli(t, nil)
	run(t, c, out, "add", "task")

	output := run(t, c, out, "modify", "1", "project=home", "priority=H")
	assert.Contains(t, output, "Modified task")

	ws, err := c.db.WorkingSet(ctx)
	require.NoError(t, err)
	task, err := c.db.GetTask(ctx, ws[1].UUID)
	require.NoError(t, err)
	assert.Equal(t, "home", task["project"])
	assert.Equal(t, "H", task["priority"])

	// пустое значение удаляет свойство
	run(t, c, out, "modify", ws[1].UUID.String(), "project=")
	task, err = c.db.GetTask(ctx, ws[1].UUID)
	require.NoError(t, err)
	assert.NotContains(t, task, "project")
}

func TestRun_DoneRenumbersOnList(t *testing.T) {
	c, out := newTestCli(t, nil)
	run(t, c, out, "add", "first")
	run(t, c, out, "add", "second")

	output := run(t, c, out, "done", "1")
	assert.Contains(t, output, "Completed task")
	assert.Contains(t, output, "'first'")

	output = run(t, c, out, "list")
	assert.NotContains(t, output, "first")
	assert.Contains(t, output, "second")
	assert.Contains(t, output, "1 task(s)")

	output = run(t, c, out, "info", "1")
	assert.Contains(t, output, "Description: second")
}

func TestRun_DoneTwice(t *testing.T) {
	c, out := newTestCli(t, nil)
	run(t, c, out, "add", "task")
	run(t, c, out, "done", "1")

	output := run(t, c, out, "done", "1")
	assert.Contains(t, output, "already completed")
}

func TestRun_Purge(t *testing.T) {
	ctx := context.Background()
	c, out := newTestCli(t, nil)
	run(t, c, out, "add", "task")

	ws, err := c.db.WorkingSet(ctx)
	require.NoError(t, err)
	id := ws[1].UUID

	output := run(t, c, out, "purge", id.String())
	assert.Contains(t, output, "Purged task "+id.String())

	ids, err := c.db.AllTaskUUIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	output = run(t, c, out, "list")
	assert.Contains(t, output, "No pending tasks.")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		errMsg string
		args   []string
	}{
		{name: "no command", args: nil, errMsg: "missing command"},
		{name: "unknown command", args: []string{"frobnicate"}, errMsg: "unknown command: frobnicate"},
		{name: "add without description", args: []string{"add"}, errMsg: "missing description"},
		{name: "modify without changes", args: []string{"modify", "1"}, errMsg: "missing arguments"},
		{name: "done unknown number", args: []string{"done", "7"}, errMsg: "no task with id 7"},
		{name: "info bad id", args: []string{"info", "abc"}, errMsg: "invalid task id"},
		{name: "purge missing uuid", args: []string{"purge", "83a2f9ef-f455-4195-b92e-a54c161eebfc"}, errMsg: "task not found"},
		{name: "sync not configured", args: []string{"sync"}, errMsg: "sync is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCli(t, nil)
			err := c.Run(context.Background(), tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRun_ModifyInvalidAssignment(t *testing.T) {
	c, out := newTestCli(t, nil)
	run(t, c, out, "add", "task")

	err := c.Run(context.Background(), []string{"modify", "1", "=value"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid modification")
}

func TestRun_AutoSync(t *testing.T) {
	mockSync := &sync.ServiceMock{
		SyncFunc: func(ctx context.Context) (*taskdb.SyncResult, error) {
			return &taskdb.SyncResult{PushedOperations: 5, Attempts: 1}, nil
		},
	}
	c, out := newTestCli(t, mockSync)

	output := run(t, c, out, "add", "task", "--sync")

	assert.Len(t, mockSync.SyncCalls(), 1)
	assert.Contains(t, output, "Created task 1")
	assert.Contains(t, output, "Pushed to server:   5 operation(s)")

	run(t, c, out, "list")
	assert.Len(t, mockSync.SyncCalls(), 1, "list never syncs")
}

func TestRunSync_Output(t *testing.T) {
	mockSync := &sync.ServiceMock{
		SyncFunc: func(ctx context.Context) (*taskdb.SyncResult, error) {
			return &taskdb.SyncResult{PulledVersions: 3, PushedOperations: 2, Skipped: 1, Attempts: 2}, nil
		},
	}
	c, out := newTestCli(t, mockSync)

	output := run(t, c, out, "sync")

	assert.Contains(t, output, "Starting synchronization with server...")
	assert.Contains(t, output, "Synchronization completed successfully")
	assert.Contains(t, output, "Pulled from server: 3 version(s)")
	assert.Contains(t, output, "Pushed to server:   2 operation(s)")
	assert.Contains(t, output, "Attempts:           2")
	assert.Contains(t, output, "Skipped (errors):   1")
}

func TestSetSyncService(t *testing.T) {
	c, out := newTestCli(t, nil)

	err := c.Run(context.Background(), []string{"sync"})
	require.Error(t, err)

	mockSync := &sync.ServiceMock{
		SyncFunc: func(ctx context.Context) (*taskdb.SyncResult, error) {
			return &taskdb.SyncResult{Attempts: 1}, nil
		},
	}
	c.SetSyncService(mockSync)

	output := run(t, c, out, "sync")
	assert.Len(t, mockSync.SyncCalls(), 1)
	assert.Contains(t, output, "Synchronization completed successfully")
}

func TestRunSync_Fails(t *testing.T) {
	mockSync := &sync.ServiceMock{
		SyncFunc: func(ctx context.Context) (*taskdb.SyncResult, error) {
			return nil, errors.New("sync failed")
		},
	}
	c, _ := newTestCli(t, mockSync)

	err := c.Run(context.Background(), []string{"sync"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync failed")
}

func TestRunStatus(t *testing.T) {
	c, out := newTestCli(t, nil)

	output := run(t, c, out, "status")
	assert.Contains(t, output, "Tasks:          0")
	assert.Contains(t, output, "All changes synchronized")

	run(t, c, out, "add", "task")
	output = run(t, c, out, "status")
	assert.Contains(t, output, "Tasks:          1")
	assert.Contains(t, output, "Server version: 0")
	assert.Contains(t, output, "Pending sync: 5 operation(s)")
}

func TestRun_Help(t *testing.T) {
	c, out := newTestCli(t, nil)
	output := run(t, c, out, "help")
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "GOPHTASK_")
}

func TestNeedsSync(t *testing.T) {
	assert.True(t, NeedsSync([]string{"sync"}))
	assert.True(t, NeedsSync([]string{"done", "1", "--sync"}))
	assert.False(t, NeedsSync([]string{"add", "--sync", "buy", "milk"}))
	assert.False(t, NeedsSync([]string{"list"}))
	assert.False(t, NeedsSync([]string{"list", "--sync"}))
	assert.False(t, NeedsSync([]string{"add", "buy", "milk"}))
	assert.False(t, NeedsSync(nil))
}

func TestTrailingFlag(t *testing.T) {
	rest, found := trailingFlag([]string{"a", "b", "--sync"}, "--sync")
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, rest)

	rest, found = trailingFlag([]string{"a", "--sync", "b"}, "--sync")
	assert.False(t, found)
	assert.Equal(t, []string{"a", "--sync", "b"}, rest)

	rest, found = trailingFlag(nil, "--sync")
	assert.False(t, found)
	assert.Empty(t, rest)
}

func TestRun_SyncFlagInsideDescription(t *testing.T) {
	mockSync := &sync.ServiceMock{
		SyncFunc: func(ctx context.Context) (*taskdb.SyncResult, error) {
			return &taskdb.SyncResult{}, nil
		},
	}
	c, out := newTestCli(t, mockSync)

	run(t, c, out, "add", "remove", "--sync", "flag")
	assert.Empty(t, mockSync.SyncCalls())

	output := run(t, c, out, "info", "1")
	assert.Contains(t, output, "remove --sync flag")
}

func TestReadPassphrase_FromConfig(t *testing.T) {
	c := &Cli{}

	passphrase, err := c.ReadPassphrase(Passphrases{FromConfig: "config passphrase", FromFile: "/nonexistent"})

	require.NoError(t, err)
	assert.Equal(t, "config passphrase", passphrase)
}

func TestReadPassphrase_FromFile(t *testing.T) {
	c := &Cli{}
	path := filepath.Join(t.TempDir(), "passphrase.txt")
	require.NoError(t, os.WriteFile(path, []byte("file passphrase 456\n"), 0600))

	passphrase, err := c.ReadPassphrase(Passphrases{FromFile: path})

	require.NoError(t, err)
	assert.Equal(t, "file passphrase 456", passphrase)
}

func TestReadPassphrase_EmptyFile(t *testing.T) {
	c := &Cli{}
	path := filepath.Join(t.TempDir(), "passphrase.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

	_, err := c.ReadPassphrase(Passphrases{FromFile: path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "passphrase file is empty")
}

func TestReadPassphrase_Prompt(t *testing.T) {
	mockIO := &iocli.IOMock{
		ReadPasswordFunc: func(prompt string) (string, error) {
			return "prompted passphrase", nil
		},
	}
	c := &Cli{io: mockIO}

	passphrase, err := c.ReadPassphrase(Passphrases{})

	require.NoError(t, err)
	assert.Equal(t, "prompted passphrase", passphrase)
	require.Len(t, mockIO.ReadPasswordCalls(), 1)
	assert.Equal(t, "Encryption passphrase: ", mockIO.ReadPasswordCalls()[0].Prompt)
}

func TestReadPassphrase_TooShort(t *testing.T) {
	c := &Cli{}

	_, err := c.ReadPassphrase(Passphrases{FromConfig: "short"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid passphrase")
}
