package followgraph

import (
	"context"
	"testing"

	"followgraph/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(t *testing.T) (context.Context, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	return context.Background(), st
}

func TestFollowSymmetry(t *testing.T) {
	ctx, st := newTestGraph(t)
	a := NewUser(st, "alice")
	b := NewUser(st, "bob")

	require.NoError(t, a.Follow(ctx, b))

	following, err := a.IsFollowing(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, following)

	follower, err := b.HasFollower(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, follower)

	// The reverse direction was not created.
	reverse, err := b.IsFollowing(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestUnfollowRestoresState(t *testing.T) {
	ctx, st := newTestGraph(t)
	a := NewUser(st, "alice")
	b := NewUser(st, "bob")

	require.NoError(t, a.Follow(ctx, b))
	require.NoError(t, a.Unfollow(ctx, b))

	following, err := a.IsFollowing(ctx, b)
	require.NoError(t, err)
	assert.False(t, following)

	list, err := a.Following(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = b.Followers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Unfollowing again is a no-op, not an error.
	require.NoError(t, a.Unfollow(ctx, b))
}

func TestFollowIdempotent(t *testing.T) {
	ctx, st := newTestGraph(t)
	a := NewUser(st, "alice")

	require.NoError(t, a.Follow(ctx, "bob"))
	require.NoError(t, a.Follow(ctx, "bob"))

	n, err := a.CountFollowing(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = NewUser(st, "bob").CountFollowers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFollowManyTargetsOneBatch(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{SetStore: store.NewMemory()}
	a := NewUser(st, "alice")

	require.NoError(t, a.Follow(ctx, "bob", "carol", []string{"dave"}))
	assert.Equal(t, 1, st.batches, "all targets should share one batch")

	n, err := a.CountFollowing(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestCommonFollowers(t *testing.T) {
	ctx, st := newTestGraph(t)
	a := NewUser(st, "alice")
	b := NewUser(st, "bob")

	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, NewUser(st, id).Follow(ctx, a))
	}
	for _, id := range []string{"u2", "u3", "u4"} {
		require.NoError(t, NewUser(st, id).Follow(ctx, b))
	}

	common, err := a.CommonFollowers(ctx, b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u2", "u3"}, common)
}

func TestDifferentFollowingIsAsymmetric(t *testing.T) {
	ctx, st := newTestGraph(t)
	a := NewUser(st, "alice")
	b := NewUser(st, "bob")

	require.NoError(t, a.Follow(ctx, "u1", "u2", "u3"))
	require.NoError(t, b.Follow(ctx, "u3", "u4"))

	aMinusB, err := a.DifferentFollowing(ctx, b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, aMinusB)

	bMinusA, err := b.DifferentFollowing(ctx, a)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u4"}, bMinusA)
}

func TestRandomFollowersSampling(t *testing.T) {
	ctx, st := newTestGraph(t)
	a := NewUser(st, "alice")

	members := make([]string, 10)
	for i := range members {
		members[i] = string(rune('a'+i)) + "-user"
		require.NoError(t, NewUser(st, members[i]).Follow(ctx, a))
	}

	sample, err := a.RandomFollowers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, sample, 5)
	assertDistinctSubset(t, sample, members)
}

func TestRandomFollowersWholeSetWhenKExceeds(t *testing.T) {
	ctx, st := newTestGraph(t)
	a := NewUser(st, "alice")

	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, NewUser(st, id).Follow(ctx, a))
	}

	sample, err := a.RandomFollowers(ctx, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2", "u3"}, sample)
}

func TestRandomFollowingZeroK(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{SetStore: store.NewMemory()}
	a := NewUser(st, "alice")

	sample, err := a.RandomFollowing(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, sample)
	assert.Zero(t, st.batches, "k=0 must not touch the store")
}

func TestRandomFollowingSamplingNonDestructive(t *testing.T) {
	ctx, st := newTestGraph(t)
	a := NewUser(st, "alice")

	members := []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	require.NoError(t, a.Follow(ctx, members))

	_, err := a.RandomFollowing(ctx, 2)
	require.NoError(t, err)

	n, err := a.CountFollowing(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(members)), n, "sampling must not remove members")
}

func TestWithPrefixSeparatesNamespaces(t *testing.T) {
	ctx, st := newTestGraph(t)
	a1 := NewUser(st, "alice", WithPrefix("app1:"))
	a2 := NewUser(st, "alice", WithPrefix("app2:"))

	require.NoError(t, a1.Follow(ctx, "bob"))

	following, err := a2.IsFollowing(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, following, "prefixes must not share keys")
}

func TestFollowRejectsBadTarget(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{SetStore: store.NewMemory()}
	a := NewUser(st, "alice")

	err := a.Follow(ctx, "bob", struct{}{})
	require.ErrorIs(t, err, ErrBadIdentity)
	assert.Zero(t, st.batches, "rejected arguments must not reach the store")
}

func TestFollowNoTargets(t *testing.T) {
	ctx := context.Background()
	st := &countingStore{SetStore: store.NewMemory()}
	a := NewUser(st, "alice")

	require.NoError(t, a.Follow(ctx))
	assert.Zero(t, st.batches)
}
