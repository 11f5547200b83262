// Command studio is the creator toolkit CLI: batch rewriting, story editing,
// long-form writing, image generation and text chunking through the creator
// backend.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return execute(ctx, newRootCmd(stdin, stdout, stderr), args, stderr)
}

// execute runs cmd and maps the outcome to an exit code: 0 on success, 1 on
// error and 2 when a command panics.
func execute(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "studio: internal error: %v\n", r)
			code = 2
		}
	}()

	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
