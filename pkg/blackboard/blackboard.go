// Package blackboard implements the shared key-value store behaviours
// use to communicate across branches, independent of traversal order.
//
// Access is mediated by clients: each client registers the keys it may
// read and write, and every get/set is checked against that set. The
// store is an explicit handle rather than a process-wide singleton, so
// tests can construct isolated boards and hosts can own several.
package blackboard

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/arbor/pkg/domain"
)

// keyMetadata tracks which clients hold read and write permission on a
// single key.
type keyMetadata struct {
	read  map[uuid.UUID]struct{}
	write map[uuid.UUID]struct{}
}

func newKeyMetadata() *keyMetadata {
	return &keyMetadata{
		read:  make(map[uuid.UUID]struct{}),
		write: make(map[uuid.UUID]struct{}),
	}
}

func (m *keyMetadata) orphaned() bool {
	return len(m.read) == 0 && len(m.write) == 0
}

// Blackboard is a permissioned key-value store shared by all behaviours
// of one (or several) trees.
//
// A single mutex guards storage and permission metadata together, so a
// permission check is always atomic with the mutation it gates.
type Blackboard struct {
	mu       sync.RWMutex
	storage  map[string]any
	metadata map[string]*keyMetadata
	clients  map[uuid.UUID]*Client
}

// New creates an empty blackboard.
func New() *Blackboard {
	return &Blackboard{
		storage:  make(map[string]any),
		metadata: make(map[string]*keyMetadata),
		clients:  make(map[uuid.UUID]*Client),
	}
}

// Register creates a client with fixed read and write key sets.
// Re-registering an existing id replaces its previous permissions.
// Registered keys appear in Keys() even before a value is written.
func (b *Blackboard) Register(name string, id uuid.UUID, read, write []string) *Client {
	b.mu.Lock()
	defer b.mu.Unlock()

	if previous, ok := b.clients[id]; ok {
		b.removePermissions(previous)
	}

	client := &Client{
		board: b,
		name:  name,
		id:    id,
		read:  make(map[string]struct{}, len(read)),
		write: make(map[string]struct{}, len(write)),
	}
	for _, key := range read {
		client.read[key] = struct{}{}
		b.meta(key).read[id] = struct{}{}
	}
	for _, key := range write {
		client.write[key] = struct{}{}
		b.meta(key).write[id] = struct{}{}
	}
	b.clients[id] = client
	return client
}

// meta returns the metadata record for a key, creating it if needed.
// Callers must hold the write lock.
func (b *Blackboard) meta(key string) *keyMetadata {
	m, ok := b.metadata[key]
	if !ok {
		m = newKeyMetadata()
		b.metadata[key] = m
	}
	return m
}

// removePermissions strips a client from every key's permission sets.
// Callers must hold the write lock.
func (b *Blackboard) removePermissions(c *Client) {
	for key := range c.read {
		if m, ok := b.metadata[key]; ok {
			delete(m.read, c.id)
		}
	}
	for key := range c.write {
		if m, ok := b.metadata[key]; ok {
			delete(m.write, c.id)
		}
	}
	delete(b.clients, c.id)
}

// Keys returns the sorted set of keys registered by any client.
// Registration, not presence of a value, defines the key space.
func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.metadata))
	for key := range b.metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// KeysFilteredByRegex returns the registered keys matching the pattern.
func (b *Blackboard) KeysFilteredByRegex(pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid key pattern: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for key := range b.metadata {
		if re.MatchString(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// KeysFilteredByClients returns the keys on which any of the given
// clients holds a read or write permission.
func (b *Blackboard) KeysFilteredByClients(ids ...uuid.UUID) []string {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var keys []string
	for key, m := range b.metadata {
		if touchesAny(m, wanted) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func touchesAny(m *keyMetadata, ids map[uuid.UUID]struct{}) bool {
	for id := range m.read {
		if _, ok := ids[id]; ok {
			return true
		}
	}
	for id := range m.write {
		if _, ok := ids[id]; ok {
			return true
		}
	}
	return false
}

// Snapshot returns a shallow copy of the stored values, for rendering
// and external logging.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := make(map[string]any, len(b.storage))
	for key, value := range b.storage {
		snap[key] = value
	}
	return snap
}

// walkPath descends a dotted sub-field path through nested
// map[string]any values. Any missing or non-map segment maps to
// ErrKeyNotFound, uniformly with an absent top-level key.
func walkPath(value any, path string) (any, error) {
	for _, segment := range strings.Split(path, ".") {
		fields, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("sub-field %q: %w", segment, domain.ErrKeyNotFound)
		}
		value, ok = fields[segment]
		if !ok {
			return nil, fmt.Errorf("sub-field %q: %w", segment, domain.ErrKeyNotFound)
		}
	}
	return value, nil
}
