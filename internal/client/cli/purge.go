package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/gophtask/internal/models"
)

// runPurge удаляет задачу целиком; на других репликах она исчезнет после sync
func (c *Cli) runPurge(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("missing task id. Usage: gophtask purge <id>")
	}

	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return err
	}

	if err := c.db.Apply(ctx, models.NewDelete(id)); err != nil {
		return fmt.Errorf("failed to purge task: %w", err)
	}

	c.io.Printf("Purged task %s.\n", id)
	return nil
}
