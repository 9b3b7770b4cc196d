package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"reliable-inventory/internal/adapters/cli"
	"reliable-inventory/internal/app"
)

// Run starts the interactive operator shell. Each line is an invctl command, with or
// without a leading slash. It returns when the reader is exhausted or on /exit.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, w io.Writer) {
	fmt.Fprintln(w, "Inventory operator shell")
	fmt.Fprintln(w, "Type help for commands, add for a guided placement, exit to quit.")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	for {
		fmt.Fprint(w, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "/"))

		if input != "" {
			tokens := strings.Fields(input)
			switch strings.ToLower(tokens[0]) {
			case "exit", "quit", "e", "q":
				fmt.Fprintln(w, "Goodbye!")
				return
			case "add":
				if len(tokens) == 1 {
					handleAdd(ctx, reader, svc, w)
					break
				}
				runCommand(ctx, svc, tokens, w)
			default:
				runCommand(ctx, svc, tokens, w)
			}
		}

		if readErr != nil {
			return
		}
	}
}

func runCommand(ctx context.Context, svc app.ApplicationService, tokens []string, w io.Writer) {
	err := cli.Execute(ctx, svc, tokens, w)
	switch {
	case err == nil:
	case errors.Is(err, cli.ErrInconsistent):
		fmt.Fprintln(w, "WARNING: inconsistencies found.")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
