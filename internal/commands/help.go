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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "task-cli help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  task-cli                                  Start the interactive menu
  task-cli add [common flags] <description...>
  task-cli list [common flags]
  task-cli update [common flags] <id> <description...>
  task-cli done [common flags] <id>
  task-cli in-progress [common flags] <id>
  task-cli delete [common flags] <id>
  task-cli delete-all [common flags]
  task-cli help
  task-cli version

Common flags:
  --config <dir>   Override config directory
  --file <path>    Use this task file (.json, .yaml or .yml)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
