package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runSync(ctx context.Context) error {
	if c.syncService == nil {
		return fmt.Errorf("sync is not configured: set --identity and --token")
	}

	c.io.Println("=== Synchronization ===")
	c.io.Println()
	c.io.Println("Starting synchronization with server...")

	result, err := c.syncService.Sync(ctx)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Synchronization completed successfully!")
	c.io.Println()
	c.io.Printf("Pulled from server: %d version(s)\n", result.PulledVersions)
	c.io.Printf("Pushed to server:   %d operation(s)\n", result.PushedOperations)
	if result.Attempts > 1 {
		c.io.Printf("Attempts:           %d\n", result.Attempts)
	}
	if result.Skipped > 0 {
		c.io.Printf("Skipped (errors):   %d\n", result.Skipped)
	}

	return nil
}
