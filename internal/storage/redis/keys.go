package redis

import "fmt"

// Key prefix for all authstore data
const keyPrefix = "authstore"

// snapshotKey returns the Redis key for a named store's snapshot
func snapshotKey(name string) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, name)
}
