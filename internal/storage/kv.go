// Package storage provides the persistent key/value contract the coordinator
// mirrors its session into, a JSON-file backend for it, and a typed
// credential wrapper over the authToken, refreshToken and userInfo keys.
package storage

import "context"

// KV is a flat string key/value store that survives process restarts.
// Missing keys are omitted from Get results rather than reported as errors.
type KV interface {
	// Get returns the values stored under keys. Absent keys are not in the map.
	Get(ctx context.Context, keys ...string) (map[string]string, error)
	// Set stores every item, overwriting existing values.
	Set(ctx context.Context, items map[string]string) error
	// Remove deletes keys. Removing an absent key is not an error.
	Remove(ctx context.Context, keys ...string) error
}
