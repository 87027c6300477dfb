// Package cli provides the interactive ScaleHub command-line client.
//
// It wires configuration, local session storage, the hub API services, and
// an interactive REPL. Typical flow: restore a saved session, start a
// background connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout with a session that survives restarts
//   - Device management: list, show, add, edit, delete
//   - Product catalog: fetch from a scale, browse with expiry status,
//     edit single products, push back to the scale
//   - Auto-update settings per device
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
