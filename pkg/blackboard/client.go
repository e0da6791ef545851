package blackboard

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aretw0/arbor/pkg/domain"
)

// Client is a registered accessor with fixed read and write key sets.
// Permissions are established at registration and immutable until the
// client re-registers.
type Client struct {
	board *Blackboard
	name  string
	id    uuid.UUID
	read  map[string]struct{}
	write map[string]struct{}
}

// Name returns the client's display name.
func (c *Client) Name() string { return c.name }

// ID returns the client's unique identifier.
func (c *Client) ID() uuid.UUID { return c.id }

// Get returns the value stored under key. A dotted key ("pose.altitude")
// resolves the top-level key, then walks nested map[string]any fields;
// a missing sub-field fails with ErrKeyNotFound just like a missing key.
// Permission is checked on the top-level key, before existence, so a
// client without read access learns nothing about the key space.
func (c *Client) Get(key string) (any, error) {
	head, rest, _ := strings.Cut(key, ".")
	if _, ok := c.read[head]; !ok {
		return nil, fmt.Errorf("client %q cannot read %q: %w", c.name, head, domain.ErrPermissionDenied)
	}

	c.board.mu.RLock()
	defer c.board.mu.RUnlock()

	value, ok := c.board.storage[head]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", head, domain.ErrKeyNotFound)
	}
	if rest == "" {
		return value, nil
	}
	return walkPath(value, rest)
}

// Set stores value under key. With overwrite false, an existing value
// fails with ErrAlreadyExists, supporting first-come-first-served
// initialisation. Mutations are immediately visible to every client.
func (c *Client) Set(key string, value any, overwrite bool) error {
	if _, ok := c.write[key]; !ok {
		return fmt.Errorf("client %q cannot write %q: %w", c.name, key, domain.ErrPermissionDenied)
	}

	c.board.mu.Lock()
	defer c.board.mu.Unlock()

	if !overwrite {
		if _, exists := c.board.storage[key]; exists {
			return fmt.Errorf("key %q: %w", key, domain.ErrAlreadyExists)
		}
	}
	c.board.storage[key] = value
	return nil
}

// Unset removes the value stored under key. The key's registration (and
// the permissions on it) survive, so a later Set may recreate it.
func (c *Client) Unset(key string) error {
	if _, ok := c.write[key]; !ok {
		return fmt.Errorf("client %q cannot write %q: %w", c.name, key, domain.ErrPermissionDenied)
	}

	c.board.mu.Lock()
	defer c.board.mu.Unlock()

	if _, exists := c.board.storage[key]; !exists {
		return fmt.Errorf("key %q: %w", key, domain.ErrKeyNotFound)
	}
	delete(c.board.storage, key)
	return nil
}

// Unregister removes the client from every key's permission sets. With
// clear set, values whose keys retain no reader or writer afterwards are
// garbage collected.
func (c *Client) Unregister(clear bool) {
	c.board.mu.Lock()
	defer c.board.mu.Unlock()

	c.board.removePermissions(c)
	if !clear {
		return
	}
	for key := range c.read {
		c.board.collect(key)
	}
	for key := range c.write {
		c.board.collect(key)
	}
}

// collect drops a key's value and metadata once no client retains any
// permission on it. Callers must hold the write lock.
func (b *Blackboard) collect(key string) {
	if m, ok := b.metadata[key]; ok && m.orphaned() {
		delete(b.storage, key)
		delete(b.metadata, key)
	}
}
