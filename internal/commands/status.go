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
	Register(NewStatusCmd("done", service.StatusDone))
	Register(NewStatusCmd("in-progress", service.StatusInProgress))
}

// StatusCmd implements the done and in-progress commands.
type StatusCmd struct {
	name     string
	status   service.Status
	synopsis string
}

// NewStatusCmd creates a command that moves a task to status.
func NewStatusCmd(name string, status service.Status) *StatusCmd {
	return &StatusCmd{
		name:     name,
		status:   status,
		synopsis: "Mark a task " + strings.ReplaceAll(string(status), "-", " "),
	}
}

func (c *StatusCmd) Name() string      { return c.name }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return c.synopsis }
func (c *StatusCmd) Usage() string     { return "task-cli " + c.name + " <id>" }
func (c *StatusCmd) NeedsStore() bool  { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	var id string
	if len(args) > 0 {
		id = args[0]
	}

	task, err := svc.MarkStatus(ctx, id, c.status)
	if err != nil {
		return report(errOut, err)
	}

	fmt.Fprintf(out, "Task %s marked %s\n", task.ID, task.Status)
	return exitcode.Success
}
