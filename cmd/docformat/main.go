// Package main is the entry point for the docformat CLI.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/docformat-toolkit/docformat/pkg/errors"
)

// exitInterrupted is the conventional exit status after SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := Execute(ctx)
	interrupted := ctx.Err() != nil
	stop()

	reportError(os.Stderr, err)
	os.Exit(exitCode(err, interrupted))
}

// reportedError marks an error the command already showed to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reportError(w io.Writer, err error) {
	var reported *reportedError
	if err == nil || stderrors.As(err, &reported) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func exitCode(err error, interrupted bool) int {
	if interrupted {
		return exitInterrupted
	}
	return errors.ExitCode(err)
}
