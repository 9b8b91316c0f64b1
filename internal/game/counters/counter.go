package counters

import (
	"fmt"
	"sort"
)

// Counters is a collection of counters keyed by kind. Counts never go below zero.
type Counters struct {
	counts map[Kind]int
}

// New creates an empty counter collection.
func New() *Counters {
	return &Counters{counts: make(map[Kind]int)}
}

// Add places amount counters of the given kind.
func (cs *Counters) Add(kind Kind, amount int) {
	if amount <= 0 {
		return
	}
	if cs.counts == nil {
		cs.counts = make(map[Kind]int)
	}
	cs.counts[kind] += amount
}

// Remove takes up to amount counters of the given kind and returns how many were removed.
func (cs *Counters) Remove(kind Kind, amount int) int {
	if amount <= 0 || cs.counts == nil {
		return 0
	}
	have := cs.counts[kind]
	if amount > have {
		amount = have
	}
	if have-amount == 0 {
		delete(cs.counts, kind)
	} else {
		cs.counts[kind] = have - amount
	}
	return amount
}

// Set overwrites the count of a kind. Negative values are rejected.
func (cs *Counters) Set(kind Kind, count int) error {
	if count < 0 {
		return fmt.Errorf("counter %q cannot be negative (%d)", kind, count)
	}
	if cs.counts == nil {
		cs.counts = make(map[Kind]int)
	}
	if count == 0 {
		delete(cs.counts, kind)
		return nil
	}
	cs.counts[kind] = count
	return nil
}

// Count returns the number of counters of a kind.
func (cs *Counters) Count(kind Kind) int {
	if cs == nil || cs.counts == nil {
		return 0
	}
	return cs.counts[kind]
}

// Has reports whether any counter of the kind is present.
func (cs *Counters) Has(kind Kind) bool {
	return cs.Count(kind) > 0
}

// Total returns the number of counters of all kinds.
func (cs *Counters) Total() int {
	if cs == nil {
		return 0
	}
	total := 0
	for _, n := range cs.counts {
		total += n
	}
	return total
}

// Boost sums the power/toughness delta of all boost counters.
func (cs *Counters) Boost() (power, toughness int) {
	if cs == nil {
		return 0, 0
	}
	for kind, n := range cs.counts {
		p, t, ok := kind.Boost()
		if !ok {
			continue
		}
		power += p * n
		toughness += t * n
	}
	return power, toughness
}

// Annihilate removes matching pairs of +1/+1 and -1/-1 counters.
// Returns the number of pairs removed.
func (cs *Counters) Annihilate() int {
	plus, minus := cs.Count(KindP1P1), cs.Count(KindM1M1)
	pairs := plus
	if minus < pairs {
		pairs = minus
	}
	if pairs == 0 {
		return 0
	}
	cs.Remove(KindP1P1, pairs)
	cs.Remove(KindM1M1, pairs)
	return pairs
}

// Clear removes every counter.
func (cs *Counters) Clear() {
	cs.counts = make(map[Kind]int)
}

// Copy returns a deep copy of the collection.
func (cs *Counters) Copy() *Counters {
	out := New()
	if cs == nil {
		return out
	}
	for k, v := range cs.counts {
		out.counts[k] = v
	}
	return out
}

// View is a counter as exposed in observations.
type View struct {
	Kind  Kind `json:"kind"`
	Count int  `json:"count"`
}

// Views returns the counters sorted by kind.
func (cs *Counters) Views() []View {
	if cs == nil || len(cs.counts) == 0 {
		return nil
	}
	views := make([]View, 0, len(cs.counts))
	for k, v := range cs.counts {
		views = append(views, View{Kind: k, Count: v})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Kind < views[j].Kind })
	return views
}
