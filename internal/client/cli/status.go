package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Replica Status ===")
	c.io.Println()

	tasks, err := c.db.AllTaskUUIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tasks: %w", err)
	}
	base, err := c.db.BaseVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get base version: %w", err)
	}

	c.io.Printf("Tasks:          %d\n", len(tasks))
	c.io.Printf("Server version: %d\n", base)

	ops, err := c.db.Operations(ctx)
	if err != nil {
		// Не прерываем выполнение
		c.io.Printf("\nWarning: Failed to get pending sync count: %v\n", err)
		return nil
	}

	c.io.Println()
	if len(ops) > 0 {
		c.io.Printf("⚠️  Pending sync: %d operation(s) waiting to be synchronized\n", len(ops))
		c.io.Println("Run 'gophtask sync' to synchronize with server.")
	} else {
		c.io.Println("✓ All changes synchronized with server")
	}

	return nil
}
