// Package persistence provides the sqlite-backed store that supplies and
// persists pattern, solution, and decision records for the learning
// engine, plus Q-table snapshots.
package persistence

import "errors"

// Store errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrStoreInit   = errors.New("store initialization failed")
	ErrStoreError  = errors.New("store database error")
	ErrStoreClosed = errors.New("store is closed")
)
