package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/logging"
	"taskcli/internal/menu"
	"taskcli/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the task store during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
// in is the input stream for the interactive menu.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, in io.Reader) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       in,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> interactive menu
	if len(args) == 0 {
		return d.runMenu(ctx, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command, so a leading flag is an unknown command too
	cmd, ok := d.registry.Find(cmdName)
	if !ok || strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(out, "unknown command: %s\n", cmdName)
		fmt.Fprintln(out, "Run 'task-cli help' for usage.")
		return exitcode.Success
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	file      string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.file, "file", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Flag mistakes are user errors: report them and exit normally
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.Success
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.Success
	}

	cfg, code := d.config(common, errOut)
	if cfg == nil {
		return code
	}

	var svc service.Service
	if cmd.NeedsStore() {
		logger := logging.New(errOut, cfg.LogLevel, cfg.Debug)
		var err error
		svc, err = d.factory(ctx, cfg, logger)
		if err != nil {
			return reportFactoryError(errOut, logger, err)
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

func (d *Dispatcher) runMenu(ctx context.Context, out, errOut io.Writer) int {
	cfg, code := d.config(commonFlags{}, errOut)
	if cfg == nil {
		return code
	}

	logger := logging.New(errOut, cfg.LogLevel, cfg.Debug)
	svc, err := d.factory(ctx, cfg, logger)
	if err != nil {
		return reportFactoryError(errOut, logger, err)
	}

	m := menu.New(svc, d.in, out, menu.WithLogger(logger), menu.WithQuiet(cfg.Quiet))
	if err := m.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return exitcode.Interrupted
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.InputError
	}
	return exitcode.Success
}

// config builds the Config for a run. A nil Config means the run must stop
// with the returned exit code.
func (d *Dispatcher) config(common commonFlags, errOut io.Writer) (*config.Config, int) {
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.ConfigError
	}
	cfg.FileOverride = common.file
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	return cfg, exitcode.Success
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	// Check for missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
	}

	return errStr
}

func reportFactoryError(errOut io.Writer, logger *log.Logger, err error) int {
	if cause := service.Cause(err); cause != nil {
		logger.Debug("store setup failed", "err", cause)
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.StoreError
}
