// Package metadata persists small named string values (the session token,
// the last used username) in the local database.
package metadata

import (
	"context"
)

// Repository is a key/value view over the metadata table.
// Get reports found=false when the key has no row.
type Repository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
