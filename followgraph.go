// Package followgraph maintains a directed follows relationship between
// identities on top of a set-oriented key-value store, and answers
// set-algebra queries over it: intersection, difference, membership,
// cardinality, and bounded duplicate-free random sampling.
package followgraph

import (
	"context"

	"followgraph/store"
)

// Version of the followgraph library
const Version = "0.1.0"

// User is one node of the follows graph: an identity plus its two owned
// sets, "following" and "followers". The store is injected; a User is
// cheap to construct and holds no state beyond its derived keys.
type User struct {
	id     string
	prefix string
	store  store.SetStore

	followingKey string
	followersKey string
}

// Option configures a User.
type Option func(*User)

// WithPrefix namespaces all keys derived for this user, e.g. "app:".
func WithPrefix(prefix string) Option {
	return func(u *User) {
		u.prefix = prefix
	}
}

// NewUser creates a graph node for id backed by st.
func NewUser(st store.SetStore, id string, opts ...Option) *User {
	u := &User{id: id, store: st}
	for _, opt := range opts {
		opt(u)
	}
	u.followingKey = u.keyOf(id, "following")
	u.followersKey = u.keyOf(id, "followers")
	return u
}

// Identity returns the user's identity value.
func (u *User) Identity() string {
	return u.id
}

func (u *User) keyOf(id, set string) string {
	return u.prefix + "user:" + id + ":" + set
}

// Follow records that u follows each target: u joins the target's
// followers set and the target joins u's following set, both mutations
// for all targets pipelined as a single round trip. Following someone
// twice is a no-op.
func (u *User) Follow(ctx context.Context, targets ...interface{}) error {
	ids, err := Identities(targets...)
	if err != nil {
		return wrapError("Follow", err)
	}
	if len(ids) == 0 {
		return nil
	}
	batch := u.store.Batch()
	for _, t := range ids {
		batch.Add(u.keyOf(t, "followers"), u.id)
		batch.Add(u.followingKey, t)
	}
	return wrapError("Follow", batch.Exec(ctx))
}

// Unfollow is the mirror of Follow. Unfollowing a non-followee is a no-op.
func (u *User) Unfollow(ctx context.Context, targets ...interface{}) error {
	ids, err := Identities(targets...)
	if err != nil {
		return wrapError("Unfollow", err)
	}
	if len(ids) == 0 {
		return nil
	}
	batch := u.store.Batch()
	for _, t := range ids {
		batch.Remove(u.keyOf(t, "followers"), u.id)
		batch.Remove(u.followingKey, t)
	}
	return wrapError("Unfollow", batch.Exec(ctx))
}

// Following returns every identity u follows.
func (u *User) Following(ctx context.Context) ([]string, error) {
	members, err := u.store.Members(ctx, u.followingKey)
	return members, wrapError("Following", err)
}

// Followers returns every identity following u.
func (u *User) Followers(ctx context.Context) ([]string, error) {
	members, err := u.store.Members(ctx, u.followersKey)
	return members, wrapError("Followers", err)
}

// CountFollowing returns how many identities u follows.
func (u *User) CountFollowing(ctx context.Context) (int64, error) {
	n, err := u.store.Card(ctx, u.followingKey)
	return n, wrapError("CountFollowing", err)
}

// CountFollowers returns how many identities follow u.
func (u *User) CountFollowers(ctx context.Context) (int64, error) {
	n, err := u.store.Card(ctx, u.followersKey)
	return n, wrapError("CountFollowers", err)
}

// IsFollowing reports whether u follows target.
func (u *User) IsFollowing(ctx context.Context, target interface{}) (bool, error) {
	id, err := oneIdentity(target)
	if err != nil {
		return false, wrapError("IsFollowing", err)
	}
	ok, err := u.store.IsMember(ctx, u.followingKey, id)
	return ok, wrapError("IsFollowing", err)
}

// HasFollower reports whether target follows u.
func (u *User) HasFollower(ctx context.Context, target interface{}) (bool, error) {
	id, err := oneIdentity(target)
	if err != nil {
		return false, wrapError("HasFollower", err)
	}
	ok, err := u.store.IsMember(ctx, u.followersKey, id)
	return ok, wrapError("HasFollower", err)
}

// CommonFollowers returns the followers u shares with every other.
func (u *User) CommonFollowers(ctx context.Context, others ...interface{}) ([]string, error) {
	return u.common(ctx, "CommonFollowers", "followers", u.followersKey, others)
}

// CommonFollowing returns the identities both u and every other follow.
func (u *User) CommonFollowing(ctx context.Context, others ...interface{}) ([]string, error) {
	return u.common(ctx, "CommonFollowing", "following", u.followingKey, others)
}

// DifferentFollowers returns u's followers that follow none of the others.
// The difference is taken in argument order; it is not symmetric.
func (u *User) DifferentFollowers(ctx context.Context, others ...interface{}) ([]string, error) {
	return u.different(ctx, "DifferentFollowers", "followers", u.followersKey, others)
}

// DifferentFollowing returns the identities u follows that none of the
// others follow.
func (u *User) DifferentFollowing(ctx context.Context, others ...interface{}) ([]string, error) {
	return u.different(ctx, "DifferentFollowing", "following", u.followingKey, others)
}

// RandomFollowers returns up to k distinct random followers of u.
func (u *User) RandomFollowers(ctx context.Context, k int) ([]string, error) {
	members, err := u.randomSample(ctx, u.followersKey, k)
	return members, wrapError("RandomFollowers", err)
}

// RandomFollowing returns up to k distinct random identities u follows.
func (u *User) RandomFollowing(ctx context.Context, k int) ([]string, error) {
	members, err := u.randomSample(ctx, u.followingKey, k)
	return members, wrapError("RandomFollowing", err)
}

func (u *User) common(ctx context.Context, op, set, ownKey string, others []interface{}) ([]string, error) {
	keys, err := u.setKeys(set, ownKey, others)
	if err != nil {
		return nil, wrapError(op, err)
	}
	members, err := u.store.Inter(ctx, keys...)
	return members, wrapError(op, err)
}

func (u *User) different(ctx context.Context, op, set, ownKey string, others []interface{}) ([]string, error) {
	keys, err := u.setKeys(set, ownKey, others)
	if err != nil {
		return nil, wrapError(op, err)
	}
	members, err := u.store.Diff(ctx, keys[0], keys[1:]...)
	return members, wrapError(op, err)
}

func (u *User) setKeys(set, ownKey string, others []interface{}) ([]string, error) {
	ids, err := Identities(others...)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, ownKey)
	for _, id := range ids {
		keys = append(keys, u.keyOf(id, set))
	}
	return keys, nil
}

// randomSample applies the cardinality pre-check before delegating to
// the sampler: you cannot sample more members than exist, so when the
// whole set fits in k it is returned outright.
func (u *User) randomSample(ctx context.Context, key string, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}
	total, err := u.store.Card(ctx, key)
	if err != nil {
		return nil, err
	}
	if total <= int64(k) {
		return u.store.Members(ctx, key)
	}
	return sampleDistinct(ctx, u.store, key, k, total)
}
