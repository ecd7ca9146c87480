package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitStatus(err))
	}
}

// exitStatus maps scan failures to their error code and everything else to 1.
func exitStatus(err error) int {
	var scanErr *scanError
	if errors.As(err, &scanErr) {
		return scanErr.code.ExitStatus()
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
