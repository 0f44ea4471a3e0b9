// Package store defines the set-oriented key-value backend the graph is
// built on, with Redis, SQLite and in-memory implementations.
package store

import (
	"context"
	"errors"
)

// ErrNoMember is returned by RandomMember when the set is empty.
var ErrNoMember = errors.New("store: set has no members")

// SetStore is the set-algebra contract the graph layer consumes.
// All mutating operations are idempotent: adding a present member or
// removing an absent one is a no-op, never an error.
type SetStore interface {
	// Add unions members into the set at key.
	Add(ctx context.Context, key string, members ...string) error

	// Remove deletes members from the set at key.
	Remove(ctx context.Context, key string, members ...string) error

	// Members returns all members of the set, unordered.
	Members(ctx context.Context, key string) ([]string, error)

	// Card returns the set's cardinality. Absent keys count as empty.
	Card(ctx context.Context, key string) (int64, error)

	// IsMember reports whether member is in the set at key.
	IsMember(ctx context.Context, key, member string) (bool, error)

	// Inter returns the intersection of the sets at keys.
	Inter(ctx context.Context, keys ...string) ([]string, error)

	// Diff returns members of the set at key that are in none of the others.
	Diff(ctx context.Context, key string, others ...string) ([]string, error)

	// RandomMember returns one uniformly-random member without removing
	// it. Successive calls may repeat. Empty set yields ErrNoMember.
	RandomMember(ctx context.Context, key string) (string, error)

	// Batch begins a pipelined batch. Queued commands execute as a
	// single round trip in issue order; results are ordered but the
	// batch is not isolated from concurrent commands.
	Batch() Batch

	// Close releases the backend connection or file handle.
	Close() error
}

// Batch queues commands for one pipelined round trip.
type Batch interface {
	Add(key string, members ...string)
	Remove(key string, members ...string)

	// RandomMember queues a random-member draw and returns a handle
	// whose value is available after Exec.
	RandomMember(key string) *MemberCmd

	// Exec runs all queued commands in issue order. It returns the
	// first transport error; per-draw "set empty" conditions are
	// reported on the individual MemberCmd, not here.
	Exec(ctx context.Context) error
}

// MemberCmd is the deferred result of a batched RandomMember draw.
type MemberCmd struct {
	val string
	err error
}

// NewMemberCmd returns an unresolved command handle. Only Batch
// implementations need this.
func NewMemberCmd() *MemberCmd {
	return &MemberCmd{}
}

// Val returns the drawn member, empty until Exec has run.
func (c *MemberCmd) Val() string { return c.val }

// Err returns ErrNoMember for draws against an empty set, or the
// transport error that failed the batch.
func (c *MemberCmd) Err() error { return c.err }

// SetResult resolves the command. Called by Batch implementations
// during Exec.
func (c *MemberCmd) SetResult(val string, err error) {
	c.val = val
	c.err = err
}
