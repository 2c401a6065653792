// Package cli provides the interactive moneytracker command-line client.
//
// It wires configuration, the REST API client and a REPL. A background
// watcher keeps probing the server so the prompt shows whether it is
// reachable.
//
// Key features:
//   - Register / Login / Logout
//   - Manage people: list, add, delete, recalculate a balance
//   - Send and receive money, browse history, reverse a transaction
//   - Export the ledger as CSV into ./statements
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
