package mana

import "sort"

// ModifierKind orders cost modifications in the pipeline.
type ModifierKind int

const (
	// ModifierAlternative replaces the base cost entirely.
	ModifierAlternative ModifierKind = iota
	// ModifierTax increases the cost.
	ModifierTax
	// ModifierReduction decreases the cost; generic mana never goes below zero.
	ModifierReduction
)

var modifierKindNames = map[ModifierKind]string{
	ModifierAlternative: "ALTERNATIVE",
	ModifierTax:         "TAX",
	ModifierReduction:   "REDUCTION",
}

func (k ModifierKind) String() string {
	if name, ok := modifierKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Modifier is one cost modification effect.
type Modifier struct {
	ID          string
	SourceID    string
	Kind        ModifierKind
	Timestamp   int64
	Generic     int
	Colored     map[ManaType]int
	Alternative *ManaCost
	AppliesTo   func(objectID string) bool
}

func (m Modifier) applies(objectID string) bool {
	return m.AppliesTo == nil || m.AppliesTo(objectID)
}

// Pipeline applies cost modifiers in a fixed order: alternative costs, then taxes,
// then reductions; within a kind by timestamp.
type Pipeline struct {
	modifiers []Modifier
}

// NewPipeline creates a pipeline from the given modifiers.
func NewPipeline(modifiers ...Modifier) *Pipeline {
	p := &Pipeline{}
	for _, m := range modifiers {
		p.Add(m)
	}
	return p
}

// Add registers a modifier.
func (p *Pipeline) Add(m Modifier) {
	p.modifiers = append(p.modifiers, m)
	sort.SliceStable(p.modifiers, func(i, j int) bool {
		if p.modifiers[i].Kind != p.modifiers[j].Kind {
			return p.modifiers[i].Kind < p.modifiers[j].Kind
		}
		return p.modifiers[i].Timestamp < p.modifiers[j].Timestamp
	})
}

// Remove deletes a modifier by ID.
func (p *Pipeline) Remove(id string) {
	for i, m := range p.modifiers {
		if m.ID == id {
			p.modifiers = append(p.modifiers[:i], p.modifiers[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered modifiers.
func (p *Pipeline) Len() int {
	return len(p.modifiers)
}

// Apply returns the cost of objectID after every applicable modifier. The base cost is not modified.
func (p *Pipeline) Apply(objectID string, base *ManaCost) *ManaCost {
	cost := base.Clone()
	if p == nil {
		return cost
	}
	alternativeUsed := false
	for _, m := range p.modifiers {
		if !m.applies(objectID) {
			continue
		}
		switch m.Kind {
		case ModifierAlternative:
			// Only one alternative cost can be applied.
			if m.Alternative != nil && !alternativeUsed {
				cost = m.Alternative.Clone()
				alternativeUsed = true
			}
		case ModifierTax:
			cost.Generic += m.Generic
			for mt, n := range m.Colored {
				cost.Colored[mt] += n
			}
		case ModifierReduction:
			cost.Generic -= m.Generic
			if cost.Generic < 0 {
				cost.Generic = 0
			}
			for mt, n := range m.Colored {
				cost.Colored[mt] -= n
				if cost.Colored[mt] <= 0 {
					delete(cost.Colored, mt)
				}
			}
		}
	}
	return cost
}
