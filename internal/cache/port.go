package cache

// Cache is the title -> movie document store.
//
// Entries live for the whole process: there is no eviction and no TTL.
// Once a key holds a value, that value is never replaced.
type Cache interface {
	// Get returns the stored value and true, or "" and false on a miss.
	Get(key string) (string, bool)

	// Put stores value under key unless key is already present.
	Put(key string, value string)
}
