// Package memory implements an in-memory client state repository for
// development and testing. State is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"healthweb/internal/domain"
)

type entry struct {
	value     string
	updatedAt time.Time
}

// DB implements an in-memory client state store.
type DB struct {
	mu      sync.Mutex
	clients map[string]map[string]entry
	now     func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		clients: make(map[string]map[string]entry),
		now:     time.Now,
	}
}

// Ensure interfaces are met.
var _ domain.StateRepository = (*DB)(nil)

// --- StateRepository ---

// GetState returns the value stored under key for clientID.
func (db *DB) GetState(ctx context.Context, clientID, key string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.clients[clientID][key]
	return e.value, ok, nil
}

// PutState stores value under key for clientID, replacing any previous value.
func (db *DB) PutState(ctx context.Context, clientID, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	m, ok := db.clients[clientID]
	if !ok {
		m = make(map[string]entry)
		db.clients[clientID] = m
	}
	m[key] = entry{value: value, updatedAt: db.now().UTC()}
	return nil
}

// DeleteState removes key for clientID. Missing keys are not an error.
func (db *DB) DeleteState(ctx context.Context, clientID, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	m, ok := db.clients[clientID]
	if !ok {
		return nil
	}
	delete(m, key)
	if len(m) == 0 {
		delete(db.clients, clientID)
	}
	return nil
}

// PurgeStateBefore deletes every client whose newest value was written
// before cutoff and returns how many values were removed. A client's keys
// are kept or removed together.
func (db *DB) PurgeStateBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var n int64
	for id, m := range db.clients {
		var newest time.Time
		for _, e := range m {
			if e.updatedAt.After(newest) {
				newest = e.updatedAt
			}
		}
		if newest.Before(cutoff) {
			n += int64(len(m))
			delete(db.clients, id)
		}
	}
	return n, nil
}
