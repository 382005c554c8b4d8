package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/gophtask/internal/models"
)

func (c *Cli) runModify(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing arguments. Usage: gophtask modify <id> <property>=<value>...")
	}

	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return err
	}

	changes, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}
	if _, ok := changes[models.PropModified]; !ok {
		changes[models.PropModified] = timestamp(c.now())
	}

	if err := c.update(ctx, id, changes); err != nil {
		return err
	}

	c.io.Printf("Modified task %s.\n", shortUUID(id))
	return nil
}

func (c *Cli) runDone(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("missing task id. Usage: gophtask done <id>")
	}

	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return err
	}

	task, err := c.db.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	if task[models.PropStatus] == models.StatusCompleted {
		c.io.Printf("Task %s is already completed.\n", shortUUID(id))
		return nil
	}

	now := c.now()
	err = c.update(ctx, id, map[string]*string{
		models.PropStatus:   strPtr(models.StatusCompleted),
		models.PropEnd:      timestamp(now),
		models.PropModified: timestamp(now),
	})
	if err != nil {
		return err
	}

	c.io.Printf("Completed task %s '%s'.\n", shortUUID(id), task[models.PropDescription])
	return nil
}
