package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command.
type UpdateCmd struct{}

func (c *UpdateCmd) Name() string      { return "update" }
func (c *UpdateCmd) Aliases() []string { return nil }
func (c *UpdateCmd) Synopsis() string  { return "Change a task description" }
func (c *UpdateCmd) Usage() string     { return "task-cli update <id> <description...>" }
func (c *UpdateCmd) NeedsStore() bool  { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var id, desc string
	if len(args) > 0 {
		id = args[0]
		desc = strings.Join(args[1:], " ")
	}

	task, err := svc.Update(ctx, id, desc)
	if err != nil {
		return report(errOut, err)
	}

	fmt.Fprintf(out, "Task updated: %s\n", task.ID)
	return exitcode.Success
}
