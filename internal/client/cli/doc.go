// Package cli provides the interactive UTM tracker command-line client.
//
// It wires configuration, the local session store, the API gateway and the
// session manager, then runs a REPL. On start the stored session is
// verified against the server; when any request is later rejected with
// 401 the session is dropped and the prompt returns to its signed-out
// state.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
