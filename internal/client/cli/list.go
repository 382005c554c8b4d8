package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/models"
)

func (c *Cli) runList(ctx context.Context) error {
	// Номера задач пересчитываются только здесь
	if err := c.db.RebuildWorkingSet(ctx, models.Task.IsPending); err != nil {
		return fmt.Errorf("failed to rebuild working set: %w", err)
	}

	ws, err := c.db.WorkingSet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get working set: %w", err)
	}

	if len(ws) <= 1 {
		c.io.Println("No pending tasks.")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUUID\tDescription")
	_, _ = fmt.Fprintln(w, "--\t----\t-----------")

	count := 0
	for index, slot := range ws {
		if !slot.Valid {
			continue
		}
		task, err := c.db.GetTask(ctx, slot.UUID)
		if errors.Is(err, storage.ErrTaskNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", index, shortUUID(slot.UUID), task[models.PropDescription])
		count++
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write task list: %w", err)
	}

	c.io.Println()
	c.io.Printf("%d task(s)\n", count)
	return nil
}
