// Package redis persists tick snapshots to Redis, so an operator can
// inspect a running tree's recent history from outside the process.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/tree"
)

// ErrNoSnapshot is returned when no tick has been recorded yet.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// Snapshot is one recorded tick: the root's outcome plus a copy of the
// blackboard at that moment.
type Snapshot struct {
	Tick       int            `json:"tick"`
	Root       string         `json:"root"`
	Status     domain.Status  `json:"status"`
	Blackboard map[string]any `json:"blackboard"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// Recorder writes snapshots to Redis. Each record updates a "latest"
// key and appends to a capped history list, in one pipeline.
type Recorder struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	keep   int64
}

type Option func(*Recorder)

// WithTTL sets the expiration for the latest-snapshot key.
func WithTTL(ttl time.Duration) Option {
	return func(r *Recorder) {
		r.ttl = ttl
	}
}

// WithPrefix sets the key prefix for snapshots.
func WithPrefix(prefix string) Option {
	return func(r *Recorder) {
		r.prefix = prefix
	}
}

// WithHistory sets how many past ticks the history list keeps.
func WithHistory(keep int64) Option {
	return func(r *Recorder) {
		r.keep = keep
	}
}

// New creates a recorder with its own Redis client.
func New(address, password string, db int, opts ...Option) *Recorder {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a recorder over an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Recorder {
	r := &Recorder{
		client: client,
		prefix: "arbor:tree:",
		ttl:    0, // No expiration by default
		keep:   100,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Recorder) latestKey() string {
	return r.prefix + "latest"
}

func (r *Recorder) historyKey() string {
	return r.prefix + "history"
}

// Record persists one snapshot of the tree and board.
func (r *Recorder) Record(ctx context.Context, t *tree.BehaviourTree, board *blackboard.Blackboard) error {
	snapshot := Snapshot{
		Tick:       t.Count(),
		Root:       t.Root().Name(),
		Status:     t.Root().Status(),
		Blackboard: board.Snapshot(),
		RecordedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.latestKey(), data, r.ttl)
	pipe.RPush(ctx, r.historyKey(), data)
	pipe.LTrim(ctx, r.historyKey(), -r.keep, -1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Latest retrieves the most recently recorded snapshot.
func (r *Recorder) Latest(ctx context.Context) (*Snapshot, error) {
	val, err := r.client.Get(ctx, r.latestKey()).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// History returns the recorded snapshots, oldest first.
func (r *Recorder) History(ctx context.Context) ([]Snapshot, error) {
	vals, err := r.client.LRange(ctx, r.historyKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	snapshots := make([]Snapshot, 0, len(vals))
	for _, val := range vals {
		var snapshot Snapshot
		if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// PostTickHandler adapts the recorder into a tree handler. Recording
// errors are reported through onError; pass nil to drop them.
func (r *Recorder) PostTickHandler(ctx context.Context, board *blackboard.Blackboard, onError func(error)) tree.Handler {
	return func(t *tree.BehaviourTree) {
		if err := r.Record(ctx, t, board); err != nil && onError != nil {
			onError(err)
		}
	}
}

// Close closes the redis client.
func (r *Recorder) Close() error {
	return r.client.Close()
}
