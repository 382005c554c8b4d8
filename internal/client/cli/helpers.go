package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/models"
)

// resolveTask находит задачу по номеру в рабочем наборе или по UUID
func (c *Cli) resolveTask(ctx context.Context, ref string) (uuid.UUID, error) {
	if index, err := strconv.ParseUint(ref, 10, 64); err == nil {
		ws, err := c.db.WorkingSet(ctx)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to get working set: %w", err)
		}
		if index == 0 || index >= uint64(len(ws)) || !ws[index].Valid {
			return uuid.Nil, fmt.Errorf("no task with id %d, run 'gophtask list' to refresh ids", index)
		}
		return ws[index].UUID, nil
	}

	id, err := uuid.Parse(ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid task id %q: expected a number or a UUID", ref)
	}

	if _, err := c.db.GetTask(ctx, id); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return uuid.Nil, fmt.Errorf("task not found with UUID: %s", id)
		}
		return uuid.Nil, fmt.Errorf("failed to get task: %w", err)
	}
	return id, nil
}

// update применяет набор изменений свойств одной задачи
func (c *Cli) update(ctx context.Context, id uuid.UUID, changes map[string]*string) error {
	now := c.now()
	for _, prop := range sortedKeys(changes) {
		op := models.NewUpdate(id, prop, changes[prop], now)
		if err := c.db.Apply(ctx, op); err != nil {
			return fmt.Errorf("failed to update %s: %w", prop, err)
		}
	}
	return nil
}

// parseAssignments разбирает аргументы вида prop=value; prop= удаляет свойство
func parseAssignments(args []string) (map[string]*string, error) {
	changes := make(map[string]*string, len(args))
	for _, arg := range args {
		prop, value, ok := strings.Cut(arg, "=")
		if !ok || prop == "" {
			return nil, fmt.Errorf("invalid modification %q: expected <property>=<value>", arg)
		}
		if value == "" {
			changes[prop] = nil
			continue
		}
		changes[prop] = &value
	}
	return changes, nil
}

func timestamp(t time.Time) *string {
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func strPtr(s string) *string {
	return &s
}

func shortUUID(id uuid.UUID) string {
	return id.String()[:8]
}
