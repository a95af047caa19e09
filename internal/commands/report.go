package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskcli/internal/exitcode"
	"taskcli/internal/service"
)

// report prints err on errOut and maps it to an exit code.
// Only store failures are fatal; validation and not-found errors are
// reported and the command still exits successfully. Cancellation exits
// silently with Interrupted.
func report(errOut io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		return exitcode.Interrupted
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	if service.IsStoreError(err) {
		return exitcode.StoreError
	}
	return exitcode.Success
}
