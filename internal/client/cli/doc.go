// Package cli provides the interactive UrGuide command-line client.
//
// It wires configuration, local storage, the API client and the session
// components, then runs a REPL. The session is restored from the stored
// token at startup; while the user works, a background watcher picks up
// logins and logouts made by another process sharing the same database.
//
// Key features:
//   - Signup / Login / Logout, Whoami
//   - Profile editing
//   - Browsing and creating guides, listing one's own guides
//   - Listing matches, liking guides and dismissing matches
//
// A session whose token no longer resolves to a user is reported with a
// prompt to log in again.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
