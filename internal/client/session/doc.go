// Package session owns the client's authentication state.
//
// Store persists the raw session token in the local database and notifies
// subscribers when it changes. Manager turns the current token into a
// resolved user record: it decodes the token's claims locally, fetches the
// user through the API and publishes a State snapshot to its subscribers.
//
// A token change always starts a new generation. Results of a fetch that
// belongs to an older generation are discarded, so the published user
// always corresponds to the latest token.
package session
