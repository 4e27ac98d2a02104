// Package repository provides the typed CRUD façades over the document
// store: entity defaulting, derived queries, and the error contracts the
// services rely on. Repositories add no retry logic; storage errors pass
// through unmodified in kind.
package repository

import "time"

// nowMillis is the default clock. Repositories stamp createdAt/updatedAt
// themselves; the store never assigns timestamps.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
