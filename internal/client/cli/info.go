package cli

import (
	"context"
	"fmt"
	"sort"
	"text/template"

	"github.com/google/uuid"

	"github.com/iudanet/gophtask/internal/models"
)

type property struct {
	Name  string
	Value string
}

type taskInfo struct {
	Task       models.Task
	Properties []property
	Index      uint64
	UUID       uuid.UUID
}

var infoTmpl = template.Must(template.New("info").Parse(taskInfoTemplate))

func (c *Cli) runInfo(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("missing task id. Usage: gophtask info <id>")
	}

	id, err := c.resolveTask(ctx, args[0])
	if err != nil {
		return err
	}

	task, err := c.db.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	info := taskInfo{UUID: id, Task: task}
	for _, name := range sortedKeys(task) {
		info.Properties = append(info.Properties, property{Name: name, Value: task[name]})
	}

	ws, err := c.db.WorkingSet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get working set: %w", err)
	}
	for i, slot := range ws {
		if slot.Valid && slot.UUID == id {
			info.Index = uint64(i)
			break
		}
	}

	if err := infoTmpl.Execute(c.io, info); err != nil {
		return fmt.Errorf("failed to render task: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
