package cli

import (
	"context"
	"fmt"

	"github.com/vitortiger/utm-tracker-saas/internal/client/session"
)

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	switch {
	case snap.State == session.StateVerifying:
		return "(verifying)"
	case snap.User != nil:
		return fmt.Sprintf("(%s)", snap.User.Email)
	default:
		return "(signed out)"
	}
}

// Root verifies the stored session and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to UTM Tracker CLI (type 'help' for commands)")

	if err := a.session.Start(ctx); err != nil {
		a.logger.Warn(ctx, "session start failed", "error", err)
	}
	a.takeExpired() // a rejected stored credential is reported below

	if u := a.session.User(); u != nil {
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	} else {
		fmt.Fprintln(a.out, "Not signed in. Use 'login' or 'register'.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
