package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/matzehuels/depviz/internal/cli"
	"github.com/matzehuels/depviz/pkg/errors"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1   // validation or processing error
	exitUnexpected  = 2   // anything not classified
	exitInterrupted = 130 // standard shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	code := exitCode(err)
	if code != exitOK && code != exitInterrupted {
		fmt.Fprintln(os.Stderr, message(err))
	}
	cancel()
	os.Exit(code)
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.GetCode(err) != "":
		return exitFailure
	case strings.HasPrefix(err.Error(), "unknown command"),
		strings.HasPrefix(err.Error(), "accepts "),
		strings.HasPrefix(err.Error(), "requires at least"),
		strings.HasPrefix(err.Error(), "invalid argument"):
		return exitFailure
	}
	return exitUnexpected
}

func message(err error) string {
	if code := errors.GetCode(err); code != "" {
		return fmt.Sprintf("Error [%s]: %s", code, strings.TrimPrefix(err.Error(), string(code)+": "))
	}
	return "Unexpected error: " + err.Error()
}
