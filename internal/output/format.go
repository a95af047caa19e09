// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskcli/internal/service"
)

// TimeLayout is the timestamp layout used in task lines.
const TimeLayout = time.RFC3339

// FormatTask writes a single task line.
// Format: "{ID}  {STATUS:<11}  {DESCRIPTION}  (created {TS}, updated {TS})\n"
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%s\n", TaskLine(task))
}

// TaskLine returns the task line without a trailing newline.
func TaskLine(task service.Task) string {
	return fmt.Sprintf("%s  %-11s  %s  (created %s, updated %s)",
		task.ID,
		task.Status,
		normalizeDescription(task.Description),
		task.CreatedAt.UTC().Format(TimeLayout),
		task.UpdatedAt.UTC().Format(TimeLayout),
	)
}

// FormatTasks writes every task in order. An empty collection prints
// "no tasks found" unless quiet is set.
func FormatTasks(w io.Writer, tasks []service.Task, quiet bool) {
	if len(tasks) == 0 {
		if !quiet {
			fmt.Fprintln(w, "no tasks found")
		}
		return
	}
	for _, task := range tasks {
		FormatTask(w, task)
	}
}

// normalizeDescription replaces newlines with spaces so each task stays on one line.
func normalizeDescription(desc string) string {
	desc = strings.ReplaceAll(desc, "\r", " ")
	return strings.ReplaceAll(desc, "\n", " ")
}
