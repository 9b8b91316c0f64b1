package mana

import (
	"fmt"
	"sort"
)

type altKind int

const (
	altNone altKind = iota
	altGeneric
	altLife
)

// requirement is a single-mana demand in the matching search.
type requirement struct {
	accepts   []ManaType
	alt       altKind
	altAmount int
}

// Use records which available unit paid for part of a cost, and with which type.
type Use struct {
	Unit     int
	SourceID string
	Type     ManaType
}

// PaymentPlan describes how a cost is paid from a set of available units.
type PaymentPlan struct {
	Uses     []Use
	LifePaid int
	XValue   int
}

// SourceIDs returns the ids of the mana sources the plan taps, in plan order.
func (p *PaymentPlan) SourceIDs() []string {
	if p == nil {
		return nil
	}
	var ids []string
	for _, use := range p.Uses {
		if use.SourceID != "" {
			ids = append(ids, use.SourceID)
		}
	}
	return ids
}

// CanPay reports whether the available units can pay the cost with X = xValue.
func CanPay(cost *ManaCost, xValue int, available []Unit) bool {
	_, err := PlanPayment(cost, xValue, available, 0)
	return err == nil
}

// PlanPayment finds an assignment of available units to the symbols of cost.
//
// Colored requirements are matched first, least flexible units first (pool mana, then
// single-color sources, then multi-color sources). If an assignment leaves a later
// requirement unsatisfiable the search backtracks. Generic mana is paid last from
// whatever remains. Phyrexian symbols may be paid with 2 life each while lifeBudget allows.
func PlanPayment(cost *ManaCost, xValue int, available []Unit, lifeBudget int) (*PaymentPlan, error) {
	if cost == nil {
		return &PaymentPlan{}, nil
	}
	if xValue < 0 {
		return nil, fmt.Errorf("%w: negative X (%d)", ErrInsufficientMana, xValue)
	}
	if cost.X == 0 {
		xValue = 0
	}

	m := &matcher{
		units:      available,
		used:       make([]bool, len(available)),
		reqs:       buildRequirements(cost),
		generic:    cost.Generic + cost.X*xValue,
		lifeBudget: lifeBudget,
	}
	m.order = preferenceOrder(available)

	if m.generic+len(m.reqs) > len(available)+m.lifeBudget/2 && !m.hasGenericAlternatives() {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientMana, m.generic+len(m.reqs), len(available))
	}
	if !m.solve(0, 0) {
		return nil, fmt.Errorf("%w: cannot pay %s", ErrInsufficientMana, cost.String())
	}
	return &PaymentPlan{Uses: m.uses, LifePaid: m.life, XValue: xValue}, nil
}

// MaxX returns the largest X value the available units can pay for, or -1 if even X=0 fails.
func MaxX(cost *ManaCost, available []Unit) int {
	if !CanPay(cost, 0, available) {
		return -1
	}
	if cost == nil || cost.X == 0 {
		return 0
	}
	best := 0
	for x := 1; x <= len(available); x++ {
		if !CanPay(cost, x, available) {
			break
		}
		best = x
	}
	return best
}

// Pay pays the cost from the pool and returns the resulting pool.
// The input pool is never modified, so a failed payment leaves it unchanged.
func Pay(cost *ManaCost, xValue int, pool Pool) (Pool, error) {
	next, _, err := PayWithLife(cost, xValue, pool, 0)
	return next, err
}

// PayWithLife is Pay with permission to spend up to lifeBudget life on phyrexian symbols.
// It returns the new pool and the life that must be paid.
func PayWithLife(cost *ManaCost, xValue int, pool Pool, lifeBudget int) (Pool, int, error) {
	plan, err := PlanPayment(cost, xValue, pool.Units(), lifeBudget)
	if err != nil {
		return pool, 0, err
	}
	next := pool.Clone()
	for _, use := range plan.Uses {
		next[use.Type]--
		if next[use.Type] <= 0 {
			delete(next, use.Type)
		}
	}
	return next, plan.LifePaid, nil
}

func buildRequirements(cost *ManaCost) []requirement {
	var reqs []requirement
	for _, mt := range AllTypes {
		for i := 0; i < cost.Colored[mt]; i++ {
			reqs = append(reqs, requirement{accepts: []ManaType{mt}})
		}
	}
	hybrids := make([]HybridCost, len(cost.Hybrid))
	copy(hybrids, cost.Hybrid)
	// Two-color hybrids first, then {2/C}, then phyrexian: the later kinds have a non-mana fallback.
	sort.SliceStable(hybrids, func(i, j int) bool { return hybridRank(hybrids[i]) < hybridRank(hybrids[j]) })
	for _, h := range hybrids {
		req := requirement{accepts: h.Options}
		switch {
		case h.Phyrexian:
			req.alt = altLife
			req.altAmount = 2
		case h.Generic > 0:
			req.alt = altGeneric
			req.altAmount = h.Generic
		}
		reqs = append(reqs, req)
	}
	return reqs
}

func hybridRank(h HybridCost) int {
	switch {
	case h.Phyrexian:
		return 2
	case h.Generic > 0:
		return 1
	default:
		return 0
	}
}

func preferenceOrder(units []Unit) []int {
	order := make([]int, len(units))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ua, ub := units[order[a]], units[order[b]]
		if ua.FromSource() != ub.FromSource() {
			return !ua.FromSource()
		}
		return len(ua.Produces) < len(ub.Produces)
	})
	return order
}

type matcher struct {
	units      []Unit
	order      []int
	used       []bool
	reqs       []requirement
	generic    int
	lifeBudget int
	life       int
	uses       []Use
}

func (m *matcher) hasGenericAlternatives() bool {
	for _, r := range m.reqs {
		if r.alt != altNone {
			return true
		}
	}
	return false
}

func (m *matcher) solve(i, extraGeneric int) bool {
	if i == len(m.reqs) {
		return m.payGeneric(m.generic + extraGeneric)
	}
	req := m.reqs[i]
	tried := make(map[string]bool)
	for _, idx := range m.order {
		if m.used[idx] {
			continue
		}
		unit := m.units[idx]
		mt, ok := producible(unit, req.accepts)
		if !ok {
			continue
		}
		// Units with the same signature are interchangeable; trying one is enough.
		key := unit.signature() + "|" + string(mt)
		if tried[key] {
			continue
		}
		tried[key] = true

		m.used[idx] = true
		m.uses = append(m.uses, Use{Unit: idx, SourceID: unit.SourceID, Type: mt})
		if m.solve(i+1, extraGeneric) {
			return true
		}
		m.uses = m.uses[:len(m.uses)-1]
		m.used[idx] = false
	}

	switch req.alt {
	case altGeneric:
		return m.solve(i+1, extraGeneric+req.altAmount)
	case altLife:
		if m.life+req.altAmount <= m.lifeBudget {
			m.life += req.altAmount
			if m.solve(i+1, extraGeneric) {
				return true
			}
			m.life -= req.altAmount
		}
	}
	return false
}

func (m *matcher) payGeneric(amount int) bool {
	if amount <= 0 {
		return true
	}
	var picked []int
	for _, idx := range m.order {
		if len(picked) == amount {
			break
		}
		if !m.used[idx] && len(m.units[idx].Produces) > 0 {
			picked = append(picked, idx)
		}
	}
	if len(picked) < amount {
		return false
	}
	for _, idx := range picked {
		unit := m.units[idx]
		mt := unit.Produces[0]
		if unit.CanProduce(ManaColorless) {
			mt = ManaColorless
		}
		m.used[idx] = true
		m.uses = append(m.uses, Use{Unit: idx, SourceID: unit.SourceID, Type: mt})
	}
	return true
}

func producible(unit Unit, accepts []ManaType) (ManaType, bool) {
	for _, mt := range accepts {
		if unit.CanProduce(mt) {
			return mt, true
		}
	}
	return "", false
}
