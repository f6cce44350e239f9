// Package cli provides the interactive bfadmin command-line client.
//
// It wires configuration, the local session database, the backend API client
// and the services into a REPL. On start a stored session is restored; from
// there the user works with the dashboard:
//   - login / logout / me
//   - dashboard (stats and pricing), logs, refresh
//   - whitelists: list with filters, add, delete, pause
//   - resellers (admin): list, add, credit, debit, toggle, delete
//   - backend: show, override or reset the backend URL
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
