// Package storage is the durable client-side key/value store that outlives a
// process: the bearer token and the wishlist/cart preference sets.
package storage

import "errors"

// Fixed keys used by the client.
const (
	KeyToken    = "token"    // Bearer token string
	KeyWishlist = "wishlist" // JSON array of product IDs
	KeyCart     = "cart"     // JSON array of product IDs
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage key not found")

// Repo defines the durable key/value operations. Writes are synchronous: once
// Set or Remove returns nil the change is durable.
type Repo interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error
	Remove(key string) error
}
