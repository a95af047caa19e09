package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
)

func init() {
	Register(&DeleteCmd{})
	Register(&DeleteAllCmd{})
}

// DeleteCmd implements the delete command.
type DeleteCmd struct{}

func (c *DeleteCmd) Name() string      { return "delete" }
func (c *DeleteCmd) Aliases() []string { return []string{"rm"} }
func (c *DeleteCmd) Synopsis() string  { return "Delete a task" }
func (c *DeleteCmd) Usage() string     { return "task-cli delete <id>" }
func (c *DeleteCmd) NeedsStore() bool  { return true }

func (c *DeleteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DeleteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var id string
	if len(args) > 0 {
		id = args[0]
	}

	task, err := svc.Delete(ctx, id)
	if err != nil {
		return report(errOut, err)
	}

	fmt.Fprintf(out, "Task deleted: %s\n", task.ID)
	return exitcode.Success
}

// DeleteAllCmd implements the delete-all command.
// There is no confirmation step here; the interactive menu asks instead.
type DeleteAllCmd struct{}

func (c *DeleteAllCmd) Name() string      { return "delete-all" }
func (c *DeleteAllCmd) Aliases() []string { return nil }
func (c *DeleteAllCmd) Synopsis() string  { return "Delete all tasks" }
func (c *DeleteAllCmd) Usage() string     { return "task-cli delete-all" }
func (c *DeleteAllCmd) NeedsStore() bool  { return true }

func (c *DeleteAllCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DeleteAllCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	n, err := svc.DeleteAll(ctx)
	if err != nil {
		return report(errOut, err)
	}

	fmt.Fprintf(out, "Deleted %d task(s)\n", n)
	return exitcode.Success
}
