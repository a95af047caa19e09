// Package menu implements the interactive prompt loop used when task-cli
// is started without a command.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"taskcli/internal/logging"
	"taskcli/internal/output"
	"taskcli/internal/service"
)

// Menu choices, in display order.
const (
	ChoiceList       = "1"
	ChoiceAdd        = "2"
	ChoiceUpdate     = "3"
	ChoiceDone       = "4"
	ChoiceInProgress = "5"
	ChoiceDelete     = "6"
	ChoiceDeleteAll  = "7"
	ChoiceExit       = "8"
)

const menuText = `
Task Manager
1. List tasks
2. Add task
3. Update task
4. Mark task done
5. Mark task in-progress
6. Delete task
7. Delete all tasks
8. Exit
`

// Prompts shown while waiting for input.
const (
	PromptChoice      = "Choose an option: "
	PromptDescription = "Enter task description: "
	PromptID          = "Enter task ID: "
	PromptConfirm     = "Are you sure you want to delete all tasks? (y/N): "
)

// Menu is a blocking read-prompt-act loop over a single input stream.
type Menu struct {
	svc    service.Service
	in     io.Reader
	out    io.Writer
	logger *log.Logger
	quiet  bool

	lines   <-chan inputLine
	readErr error
}

// inputLine is one line read from the input, or the error that ended it.
type inputLine struct {
	text string
	err  error
}

// Option configures a Menu.
type Option func(*Menu)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Menu) { m.logger = logger }
}

// WithQuiet suppresses the "no tasks found" notice.
func WithQuiet(quiet bool) Option {
	return func(m *Menu) { m.quiet = quiet }
}

// New creates a Menu reading from in and writing prompts and results to out.
func New(svc service.Service, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		svc:    svc,
		in:     in,
		out:    out,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the menu until the exit choice is made, input ends or ctx is
// cancelled. User and store errors are printed and the loop continues; a
// failure to read input or the ctx error is returned. If the input is an
// io.Closer it is closed on return.
func (m *Menu) Run(ctx context.Context) error {
	if c, ok := m.in.(io.Closer); ok {
		defer c.Close()
	}
	done := make(chan struct{})
	defer close(done)
	m.lines = readLines(m.in, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt(ctx, PromptChoice)
		if !ok {
			return m.inputErr(ctx)
		}

		if choice == ChoiceExit {
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		}
		if !m.dispatch(ctx, choice) {
			return m.inputErr(ctx)
		}
	}
}

// readLines feeds lines from in to the returned channel until in fails or
// done is closed. The final line may lack a newline. Lines have no length limit.
func readLines(in io.Reader, done <-chan struct{}) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		r := bufio.NewReader(in)
		for {
			text, err := r.ReadString('\n')
			if text != "" {
				select {
				case lines <- inputLine{text: text}:
				case <-done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					select {
					case lines <- inputLine{err: err}:
					case <-done:
					}
				}
				return
			}
		}
	}()
	return lines
}

// dispatch runs one menu choice. It returns false when input ended or ctx
// was cancelled before the choice completed.
func (m *Menu) dispatch(ctx context.Context, choice string) bool {
	switch choice {
	case ChoiceList:
		tasks, err := m.svc.List(ctx)
		if err != nil {
			return m.fail(ctx, err)
		}
		output.FormatTasks(m.out, tasks, m.quiet)

	case ChoiceAdd:
		desc, ok := m.prompt(ctx, PromptDescription)
		if !ok {
			return false
		}
		task, err := m.svc.Add(ctx, desc)
		if err != nil {
			return m.fail(ctx, err)
		}
		fmt.Fprintf(m.out, "Task added: %s\n", output.TaskLine(task))

	case ChoiceUpdate:
		id, ok := m.prompt(ctx, PromptID)
		if !ok {
			return false
		}
		desc, ok := m.prompt(ctx, PromptDescription)
		if !ok {
			return false
		}
		task, err := m.svc.Update(ctx, id, desc)
		if err != nil {
			return m.fail(ctx, err)
		}
		fmt.Fprintf(m.out, "Task updated: %s\n", task.ID)

	case ChoiceDone, ChoiceInProgress:
		status := service.StatusDone
		if choice == ChoiceInProgress {
			status = service.StatusInProgress
		}
		id, ok := m.prompt(ctx, PromptID)
		if !ok {
			return false
		}
		task, err := m.svc.MarkStatus(ctx, id, status)
		if err != nil {
			return m.fail(ctx, err)
		}
		fmt.Fprintf(m.out, "Task %s marked %s\n", task.ID, task.Status)

	case ChoiceDelete:
		id, ok := m.prompt(ctx, PromptID)
		if !ok {
			return false
		}
		task, err := m.svc.Delete(ctx, id)
		if err != nil {
			return m.fail(ctx, err)
		}
		fmt.Fprintf(m.out, "Task deleted: %s\n", task.ID)

	case ChoiceDeleteAll:
		answer, ok := m.prompt(ctx, PromptConfirm)
		if !ok {
			return false
		}
		if !confirmed(answer) {
			fmt.Fprintln(m.out, "Delete all cancelled.")
			return true
		}
		n, err := m.svc.DeleteAll(ctx)
		if err != nil {
			return m.fail(ctx, err)
		}
		fmt.Fprintf(m.out, "Deleted %d task(s)\n", n)

	default:
		fmt.Fprintf(m.out, "error: invalid choice: %q (enter 1-8)\n", choice)
	}
	return true
}

// prompt writes p and reads one trimmed line. ok is false once input has
// ended or ctx is cancelled, so a line is never acted on after cancellation.
func (m *Menu) prompt(ctx context.Context, p string) (line string, ok bool) {
	fmt.Fprint(m.out, p)
	if ctx.Err() == nil {
		select {
		case l, open := <-m.lines:
			switch {
			case !open:
			case l.err != nil:
				m.readErr = l.err
			case ctx.Err() == nil:
				return strings.TrimSpace(l.text), true
			}
		case <-ctx.Done():
		}
	}
	fmt.Fprintln(m.out)
	return "", false
}

// inputErr reports why reading stopped: the ctx error, the read error, or
// nil when input simply ended.
func (m *Menu) inputErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		m.logger.Debug("interrupted, leaving menu")
		return err
	}
	if m.readErr != nil {
		return fmt.Errorf("read input: %w", m.readErr)
	}
	m.logger.Debug("input closed, leaving menu")
	return nil
}

// fail reports a failed operation. It returns false when the failure came
// from cancellation, which ends the menu instead.
func (m *Menu) fail(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	m.report(err)
	return true
}

func (m *Menu) report(err error) {
	if cause := service.Cause(err); cause != nil {
		m.logger.Debug("store failure", "err", cause)
	}
	var nf *service.NotFoundError
	var verr *service.ValidationError
	if !errors.As(err, &nf) && !errors.As(err, &verr) && !service.IsStoreError(err) {
		m.logger.Error("operation failed", "err", err)
	}
	fmt.Fprintf(m.out, "error: %v\n", err)
}

func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
