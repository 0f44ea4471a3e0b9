package followgraph

import (
	"context"

	"followgraph/store"
)

// oversample is the per-round multiplier on k. Random-member draws are
// with replacement, so a round of exactly k draws tends to collide with
// itself; doubling the batch amortizes that at the cost of one larger
// round trip.
const oversample = 2

// sampleDistinct draws up to k distinct members from the set at key,
// whose cardinality is total. Draws happen in pipelined rounds of
// oversample*k random-member commands; results are deduplicated across
// rounds and returned in order of first acquisition.
//
// The loop stops as soon as k distinct members are held, when every
// member of the set has been seen, or after total rounds. Hitting the
// round bound returns the accumulator as a partial result, not an error.
//
// Because each draw is uniform with replacement, the result is an
// approximately-uniform sample, not an exact without-replacement one.
// Tests should assert distinctness and membership, not exact
// distribution. Sampling never mutates the source set.
func sampleDistinct(ctx context.Context, st store.SetStore, key string, k int, total int64) ([]string, error) {
	picked := []string{}
	if k <= 0 || total <= 0 {
		return picked, nil
	}

	seen := make(map[string]struct{}, k)

	// The bound scales with the set size so the loop stays finite even
	// when k approaches the cardinality and fresh members get rare.
	for round := int64(0); round < total; round++ {
		batch := st.Batch()
		draws := make([]*store.MemberCmd, oversample*k)
		for i := range draws {
			draws[i] = batch.RandomMember(key)
		}
		if err := batch.Exec(ctx); err != nil {
			return nil, err
		}

		for _, d := range draws {
			if d.Err() != nil {
				continue
			}
			v := d.Val()
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			picked = append(picked, v)
			if len(picked) == k {
				return picked, nil
			}
		}

		// Saturated: every member is already in hand.
		if int64(len(picked)) >= total {
			return picked, nil
		}
	}

	return picked, nil
}
