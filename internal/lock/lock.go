// Package lock serializes work on individual accounts.
package lock

import (
	"context"
	"slices"
)

// Locker acquires exclusive access to a set of keys. The returned function releases them.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

// normalize sorts and deduplicates keys so that every caller acquires them in the same order
func normalize(keys []string) []string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
