// Package common contains shared constants and sentinel errors used across
// UrGuide client components.
package common

// TokenStorageKey is the durable key-value slot holding the session token.
const TokenStorageKey = "UrGuide-token"

// LastUsernameKey holds the username decoded from the most recent token.
// It is a display hint only and survives logout.
const LastUsernameKey = "UrGuide-last-username"

// RequestIDHeaderName is attached to every outbound API request.
const RequestIDHeaderName = "X-Request-ID"
