package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s, _ := a.status.Load().(string)
	if s == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", s)
}

// Root prints the banner and runs the REPL on the App reader.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to Ananta Club CLI (type 'help' for commands)")
	if a.isAuthenticated() {
		fmt.Fprintln(a.out, "Signed in from a previous session.")
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
