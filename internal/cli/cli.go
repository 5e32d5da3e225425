// Package cli holds the small amount of driver plumbing shared by the three
// translator binaries (jackc, vmtranslate, hackasm): signal-aware context,
// stdio wiring and diagnostic reporting, grounded on the teacher's
// internal/maincmd + github.com/mna/mainer split between a thin main and a
// testable Cmd.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

// Context returns a background context canceled on the first interrupt
// signal, the same convention used for all three tools.
func Context() context.Context {
	return mainer.CancelOnSignal(context.Background(), os.Interrupt)
}

// Report writes err to stdio.Stderr, if non-nil, and returns the matching
// exit code. Each stage's error already renders in the
// "Error: <kind>: <detail>" shape (see internal/diag), so this does no
// further formatting.
func Report(stdio mainer.Stdio, err error) mainer.ExitCode {
	if err == nil {
		return mainer.Success
	}
	fmt.Fprintln(stdio.Stderr, err)
	return mainer.Failure
}
