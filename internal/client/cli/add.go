package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/gophtask/internal/models"
)

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return fmt.Errorf("missing description. Usage: gophtask add <description>")
	}

	id := uuid.New()
	if err := c.db.Apply(ctx, models.NewCreate(id)); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	now := c.now()
	err := c.update(ctx, id, map[string]*string{
		models.PropDescription: strPtr(description),
		models.PropStatus:      strPtr(models.StatusPending),
		models.PropEntry:       timestamp(now),
		models.PropModified:    timestamp(now),
	})
	if err != nil {
		return err
	}

	index, err := c.db.AddToWorkingSet(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to add task to working set: %w", err)
	}

	c.io.Printf("Created task %d (%s).\n", index, id)
	return nil
}
