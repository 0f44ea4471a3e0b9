package store

import (
	"context"
	"math/rand/v2"
	"sync"
)

// Memory is an in-memory SetStore, mainly for tests and embedding.
type Memory struct {
	sets map[string]*memberSet
	mu   sync.RWMutex
}

// memberSet keeps a slice alongside the index so a random draw is O(1).
type memberSet struct {
	index map[string]int
	list  []string
}

func newMemberSet() *memberSet {
	return &memberSet{index: make(map[string]int)}
}

func (s *memberSet) add(member string) {
	if _, ok := s.index[member]; ok {
		return
	}
	s.index[member] = len(s.list)
	s.list = append(s.list, member)
}

func (s *memberSet) remove(member string) {
	i, ok := s.index[member]
	if !ok {
		return
	}
	last := len(s.list) - 1
	s.list[i] = s.list[last]
	s.index[s.list[i]] = i
	s.list = s.list[:last]
	delete(s.index, member)
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{sets: make(map[string]*memberSet)}
}

func (m *Memory) set(key string) *memberSet {
	s, ok := m.sets[key]
	if !ok {
		s = newMemberSet()
		m.sets[key] = s
	}
	return s
}

// Add unions members into the set at key.
func (m *Memory) Add(ctx context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.set(key)
	for _, v := range members {
		s.add(v)
	}
	return nil
}

// Remove deletes members from the set at key.
func (m *Memory) Remove(ctx context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[key]
	if !ok {
		return nil
	}
	for _, v := range members {
		s.remove(v)
	}
	return nil
}

// Members returns all members of the set at key.
func (m *Memory) Members(ctx context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sets[key]
	if !ok {
		return []string{}, nil
	}
	out := make([]string, len(s.list))
	copy(out, s.list)
	return out, nil
}

// Card returns the set's cardinality.
func (m *Memory) Card(ctx context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sets[key]
	if !ok {
		return 0, nil
	}
	return int64(len(s.list)), nil
}

// IsMember reports whether member is in the set at key.
func (m *Memory) IsMember(ctx context.Context, key, member string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sets[key]
	if !ok {
		return false, nil
	}
	_, ok = s.index[member]
	return ok, nil
}

// Inter returns the intersection of the sets at keys.
func (m *Memory) Inter(ctx context.Context, keys ...string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(keys) == 0 {
		return []string{}, nil
	}
	first, ok := m.sets[keys[0]]
	if !ok {
		return []string{}, nil
	}
	out := []string{}
	for _, v := range first.list {
		in := true
		for _, k := range keys[1:] {
			s, ok := m.sets[k]
			if !ok {
				return []string{}, nil
			}
			if _, ok := s.index[v]; !ok {
				in = false
				break
			}
		}
		if in {
			out = append(out, v)
		}
	}
	return out, nil
}

// Diff returns members of the set at key that are in none of the others.
func (m *Memory) Diff(ctx context.Context, key string, others ...string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	base, ok := m.sets[key]
	if !ok {
		return []string{}, nil
	}
	out := []string{}
	for _, v := range base.list {
		excluded := false
		for _, k := range others {
			if s, ok := m.sets[k]; ok {
				if _, ok := s.index[v]; ok {
					excluded = true
					break
				}
			}
		}
		if !excluded {
			out = append(out, v)
		}
	}
	return out, nil
}

// RandomMember returns one uniformly-random member.
func (m *Memory) RandomMember(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sets[key]
	if !ok || len(s.list) == 0 {
		return "", ErrNoMember
	}
	return s.list[rand.IntN(len(s.list))], nil
}

// Batch begins a pipelined batch against the store.
func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error {
	return nil
}

type memoryBatch struct {
	store *Memory
	ops   []func()
}

func (b *memoryBatch) Add(key string, members ...string) {
	b.ops = append(b.ops, func() {
		s := b.store.set(key)
		for _, v := range members {
			s.add(v)
		}
	})
}

func (b *memoryBatch) Remove(key string, members ...string) {
	b.ops = append(b.ops, func() {
		if s, ok := b.store.sets[key]; ok {
			for _, v := range members {
				s.remove(v)
			}
		}
	})
}

func (b *memoryBatch) RandomMember(key string) *MemberCmd {
	cmd := &MemberCmd{}
	b.ops = append(b.ops, func() {
		s, ok := b.store.sets[key]
		if !ok || len(s.list) == 0 {
			cmd.SetResult("", ErrNoMember)
			return
		}
		cmd.SetResult(s.list[rand.IntN(len(s.list))], nil)
	})
	return cmd
}

// Exec applies all queued operations in issue order under one lock.
func (b *memoryBatch) Exec(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		op()
	}
	b.ops = nil
	return nil
}
