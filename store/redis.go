package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a SetStore backed by a Redis server. The client is injected;
// its lifecycle (dial, close) belongs to the host application.
type Redis struct {
	client redis.UniversalClient
}

// NewRedis wraps an existing Redis client.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Add unions members into the set at key via SADD.
func (r *Redis) Add(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	return r.client.SAdd(ctx, key, anyMembers(members)...).Err()
}

// Remove deletes members from the set at key via SREM.
func (r *Redis) Remove(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	return r.client.SRem(ctx, key, anyMembers(members)...).Err()
}

// Members returns all members of the set at key.
func (r *Redis) Members(ctx context.Context, key string) ([]string, error) {
	return r.client.SMembers(ctx, key).Result()
}

// Card returns the set's cardinality.
func (r *Redis) Card(ctx context.Context, key string) (int64, error) {
	return r.client.SCard(ctx, key).Result()
}

// IsMember reports whether member is in the set at key.
func (r *Redis) IsMember(ctx context.Context, key, member string) (bool, error) {
	return r.client.SIsMember(ctx, key, member).Result()
}

// Inter returns the intersection of the sets at keys.
func (r *Redis) Inter(ctx context.Context, keys ...string) ([]string, error) {
	return r.client.SInter(ctx, keys...).Result()
}

// Diff returns members of the set at key that are in none of the others.
func (r *Redis) Diff(ctx context.Context, key string, others ...string) ([]string, error) {
	return r.client.SDiff(ctx, append([]string{key}, others...)...).Result()
}

// RandomMember returns one uniformly-random member via SRANDMEMBER.
func (r *Redis) RandomMember(ctx context.Context, key string) (string, error) {
	val, err := r.client.SRandMember(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoMember
	}
	return val, err
}

// Batch begins a Redis pipeline.
func (r *Redis) Batch() Batch {
	return &redisBatch{pipe: r.client.Pipeline()}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

type redisBatch struct {
	pipe  redis.Pipeliner
	draws []redisDraw
}

type redisDraw struct {
	src *redis.StringCmd
	dst *MemberCmd
}

func (b *redisBatch) Add(key string, members ...string) {
	if len(members) == 0 {
		return
	}
	// The queueing context is unused; Exec's context drives the round trip.
	b.pipe.SAdd(context.Background(), key, anyMembers(members)...)
}

func (b *redisBatch) Remove(key string, members ...string) {
	if len(members) == 0 {
		return
	}
	b.pipe.SRem(context.Background(), key, anyMembers(members)...)
}

func (b *redisBatch) RandomMember(key string) *MemberCmd {
	cmd := &MemberCmd{}
	b.draws = append(b.draws, redisDraw{
		src: b.pipe.SRandMember(context.Background(), key),
		dst: cmd,
	})
	return cmd
}

func (b *redisBatch) Exec(ctx context.Context) error {
	_, err := b.pipe.Exec(ctx)
	for _, d := range b.draws {
		val, derr := d.src.Result()
		if errors.Is(derr, redis.Nil) {
			derr = ErrNoMember
		}
		d.dst.SetResult(val, derr)
	}
	b.draws = nil
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

func anyMembers(members []string) []interface{} {
	out := make([]interface{}, len(members))
	for i, m := range members {
		out[i] = m
	}
	return out
}
