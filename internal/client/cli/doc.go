// Package cli provides the interactive Ananta Club command-line client.
//
// It wires configuration, the local credential store, the API client, the
// session store and the profile resolver, then runs a REPL that exercises
// the member flows: sign in with an OTP, view and refresh the profile,
// edit it, and sign out.
//
// The REPL is started via App.Run(ctx), which restores the session and
// blocks until the user exits. See App, Root and runREPL for details.
package cli
