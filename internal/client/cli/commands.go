package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду args[0] с аргументами args[1:]
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return fmt.Errorf("missing command")
	}

	command, args := args[0], args[1:]
	args, autoSync := trailingFlag(args, "--sync")

	var err error
	switch command {
	case "add":
		err = c.runAdd(ctx, args)
	case "modify":
		err = c.runModify(ctx, args)
	case "done":
		err = c.runDone(ctx, args)
	case "purge":
		err = c.runPurge(ctx, args)
	case "list":
		return c.runList(ctx)
	case "info":
		return c.runInfo(ctx, args)
	case "sync":
		return c.runSync(ctx)
	case "status":
		return c.runStatus(ctx)
	case "help":
		c.PrintUsage()
		return nil
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}

	if err != nil || !autoSync {
		return err
	}
	return c.runSync(ctx)
}

// trailingFlag снимает flag, только если он последний аргумент:
// в середине описания задачи это обычное слово
func trailingFlag(args []string, flag string) ([]string, bool) {
	if len(args) == 0 || args[len(args)-1] != flag {
		return args, false
	}
	return args[:len(args)-1], true
}
