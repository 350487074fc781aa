// Package cli provides the interactive glucosync command-line client.
//
// It wires configuration, the local database, the remote client, the
// reconciliation engine and the background scheduler, then runs a REPL.
// Readings are always saved locally first; the "kulus_sync" job pushes and
// pulls them in the background while the online status watcher tracks
// reachability of the remote service.
//
// Commands:
//   - add, list, show <id>, delete <id>, clear
//   - sync (push pending readings, then pull the current user's readings)
//   - stats [day|week|month|quarter|year]
//   - export <csv|json|txt> [upload]
//   - user <name>, alerts on|off, status, logout, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
