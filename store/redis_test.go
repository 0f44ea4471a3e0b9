package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client)
}

func TestRedis_Contract(t *testing.T) {
	testSetStore(t, newTestRedis(t))
}

func TestRedis_PipelineSurvivesEmptyDraws(t *testing.T) {
	ctx := context.Background()
	r := newTestRedis(t)

	// A pipeline whose only failures are empty-set draws must not
	// report a transport error.
	b := r.Batch()
	b.Add("s", "a")
	d1 := b.RandomMember("s:void")
	d2 := b.RandomMember("s")
	if err := b.Exec(ctx); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if d1.Err() != ErrNoMember {
		t.Errorf("expected ErrNoMember, got %v", d1.Err())
	}
	if d2.Err() != nil || d2.Val() != "a" {
		t.Errorf("expected draw a, got %q (%v)", d2.Val(), d2.Err())
	}
}
