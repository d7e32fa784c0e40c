package session

import "errors"

// Sentinel errors returned by RegionCollection.ResourceFor and Resource.
var (
	// ErrNilKey is returned when a resource key is nil.
	ErrNilKey = errors.New("session: nil resource key")
	// ErrKeyNotComparable is returned when a resource key cannot be used as a map key.
	ErrKeyNotComparable = errors.New("session: resource key is not comparable")
	// ErrNilBuilder is returned when no build function is given.
	ErrNilBuilder = errors.New("session: nil resource builder")
	// ErrResourceType is returned by Resource when the cached resource has a
	// different type than requested.
	ErrResourceType = errors.New("session: cached resource has unexpected type")
)
