package store

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// testSetStore runs the SetStore contract against one backend.
func testSetStore(t *testing.T, st SetStore) {
	t.Helper()
	ctx := context.Background()

	if err := st.Add(ctx, "s:a", "u1", "u2", "u3"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Adding a present member is a no-op.
	if err := st.Add(ctx, "s:a", "u2"); err != nil {
		t.Fatalf("re-Add failed: %v", err)
	}

	members, err := st.Members(ctx, "s:a")
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	sort.Strings(members)
	if len(members) != 3 || members[0] != "u1" || members[1] != "u2" || members[2] != "u3" {
		t.Errorf("unexpected members: %v", members)
	}

	n, err := st.Card(ctx, "s:a")
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected cardinality 3, got %d", n)
	}
	if n, _ := st.Card(ctx, "s:absent"); n != 0 {
		t.Errorf("absent set should have cardinality 0, got %d", n)
	}

	ok, err := st.IsMember(ctx, "s:a", "u2")
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !ok {
		t.Error("u2 should be a member")
	}
	if ok, _ := st.IsMember(ctx, "s:a", "u9"); ok {
		t.Error("u9 should not be a member")
	}

	if err := st.Remove(ctx, "s:a", "u2"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	// Removing an absent member is a no-op.
	if err := st.Remove(ctx, "s:a", "u2"); err != nil {
		t.Fatalf("re-Remove failed: %v", err)
	}
	if n, _ := st.Card(ctx, "s:a"); n != 2 {
		t.Errorf("expected cardinality 2 after remove, got %d", n)
	}

	if err := st.Add(ctx, "s:b", "u3", "u4"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	inter, err := st.Inter(ctx, "s:a", "s:b")
	if err != nil {
		t.Fatalf("Inter failed: %v", err)
	}
	if len(inter) != 1 || inter[0] != "u3" {
		t.Errorf("expected intersection [u3], got %v", inter)
	}

	diff, err := st.Diff(ctx, "s:a", "s:b")
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if len(diff) != 1 || diff[0] != "u1" {
		t.Errorf("expected difference [u1], got %v", diff)
	}

	v, err := st.RandomMember(ctx, "s:a")
	if err != nil {
		t.Fatalf("RandomMember failed: %v", err)
	}
	if v != "u1" && v != "u3" {
		t.Errorf("random member %q not in set", v)
	}
	if _, err := st.RandomMember(ctx, "s:empty"); !errors.Is(err, ErrNoMember) {
		t.Errorf("expected ErrNoMember for empty set, got %v", err)
	}

	testBatch(t, st)
}

// testBatch checks that queued commands execute in issue order: draws
// against a set created earlier in the same batch must see it.
func testBatch(t *testing.T, st SetStore) {
	t.Helper()
	ctx := context.Background()

	b := st.Batch()
	b.Add("s:c", "x", "y")
	b.Remove("s:a", "u1")
	draws := make([]*MemberCmd, 4)
	for i := range draws {
		draws[i] = b.RandomMember("s:c")
	}
	empty := b.RandomMember("s:nothing")

	if err := b.Exec(ctx); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}

	for i, d := range draws {
		if d.Err() != nil {
			t.Fatalf("draw %d failed: %v", i, d.Err())
		}
		if v := d.Val(); v != "x" && v != "y" {
			t.Errorf("draw %d returned %q, not a member of s:c", i, v)
		}
	}
	if !errors.Is(empty.Err(), ErrNoMember) {
		t.Errorf("draw on empty set: expected ErrNoMember, got %v", empty.Err())
	}

	if ok, _ := st.IsMember(ctx, "s:a", "u1"); ok {
		t.Error("batched Remove did not apply")
	}
	if n, _ := st.Card(ctx, "s:c"); n != 2 {
		t.Errorf("expected s:c cardinality 2, got %d", n)
	}
}
