package effects

import (
	"sort"
	"strings"
	"sync"
)

// Layer corresponds to the rules layers for continuous effects.
type Layer int

const (
	LayerCopy Layer = 1 + iota
	LayerControl
	LayerText
	LayerType
	LayerColor
	LayerAbility
	LayerPowerToughness
)

var layerOrder = []Layer{
	LayerCopy,
	LayerControl,
	LayerText,
	LayerType,
	LayerColor,
	LayerAbility,
	LayerPowerToughness,
}

// Sublayer orders effects inside layer 7. Other layers use SublayerNone.
type Sublayer int

const (
	SublayerNone Sublayer = iota
	// Sublayer7a holds characteristic-defining abilities.
	Sublayer7a
	// Sublayer7b holds effects that set power and toughness.
	Sublayer7b
	// Sublayer7c holds modifications, including counters.
	Sublayer7c
	// Sublayer7d holds power/toughness switches.
	Sublayer7d
)

var ptSublayers = []Sublayer{Sublayer7a, Sublayer7b, Sublayer7c, Sublayer7d}

// Snapshot is the set of characteristics of one object while continuous effects are folded in.
type Snapshot struct {
	ObjectID      string          `json:"object_id"`
	OwnerID       string          `json:"owner_id"`
	ControllerID  string          `json:"controller_id"`
	Name          string          `json:"name"`
	Types         []string        `json:"types"`
	Subtypes      []string        `json:"subtypes,omitempty"`
	Supertypes    []string        `json:"supertypes,omitempty"`
	Colors        []string        `json:"colors,omitempty"`
	Keywords      map[string]bool `json:"keywords,omitempty"`
	HasPT         bool            `json:"has_pt"`
	BasePower     int             `json:"base_power"`
	BaseToughness int             `json:"base_toughness"`
	Power         int             `json:"power"`
	Toughness     int             `json:"toughness"`
	AttachedTo    string          `json:"attached_to,omitempty"`
}

// Reset restores power and toughness to their base values.
func (s *Snapshot) Reset() {
	s.Power = s.BasePower
	s.Toughness = s.BaseToughness
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Types = append([]string(nil), s.Types...)
	out.Subtypes = append([]string(nil), s.Subtypes...)
	out.Supertypes = append([]string(nil), s.Supertypes...)
	out.Colors = append([]string(nil), s.Colors...)
	out.Keywords = make(map[string]bool, len(s.Keywords))
	for k, v := range s.Keywords {
		out.Keywords[k] = v
	}
	return &out
}

// HasType returns true if the snapshot includes the provided card type.
func (s *Snapshot) HasType(typeName string) bool {
	return containsFold(s.Types, typeName)
}

// HasSubtype returns true if the snapshot includes the provided subtype.
func (s *Snapshot) HasSubtype(subtype string) bool {
	return containsFold(s.Subtypes, subtype)
}

// HasSupertype returns true if the snapshot includes the provided supertype.
func (s *Snapshot) HasSupertype(supertype string) bool {
	return containsFold(s.Supertypes, supertype)
}

// HasKeyword returns true if the snapshot currently has the keyword ability.
func (s *Snapshot) HasKeyword(keyword string) bool {
	return s.Keywords[normalize(keyword)]
}

// AddKeyword grants a keyword ability.
func (s *Snapshot) AddKeyword(keyword string) {
	if s.Keywords == nil {
		s.Keywords = make(map[string]bool)
	}
	s.Keywords[normalize(keyword)] = true
}

// IsCreature is shorthand for HasType("creature").
func (s *Snapshot) IsCreature() bool {
	return s.HasType("creature")
}

// KeywordList returns the keywords in sorted order.
func (s *Snapshot) KeywordList() []string {
	out := make([]string, 0, len(s.Keywords))
	for k, v := range s.Keywords {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(list []string, want string) bool {
	want = normalize(want)
	for _, v := range list {
		if normalize(v) == want {
			return true
		}
	}
	return false
}

// ContinuousEffect modifies object characteristics while it is registered.
type ContinuousEffect interface {
	ID() string
	SourceID() string
	Layer() Layer
	Sublayer() Sublayer
	Timestamp() int64
	Duration() Duration
	AppliesTo(*Snapshot) bool
	Apply(*Snapshot)
}

// LayerSystem is the registry of continuous effects. Characteristics are never stored
// on objects; they are recomputed by folding the registry over a base snapshot.
type LayerSystem struct {
	mu      sync.RWMutex
	effects map[string]ContinuousEffect
}

// NewLayerSystem constructs an empty layer system.
func NewLayerSystem() *LayerSystem {
	return &LayerSystem{
		effects: make(map[string]ContinuousEffect),
	}
}

// AddEffect registers a continuous effect and returns its identifier.
func (ls *LayerSystem) AddEffect(effect ContinuousEffect) string {
	if effect == nil || effect.ID() == "" {
		return ""
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.effects[effect.ID()] = effect
	return effect.ID()
}

// RemoveEffect removes a registered effect by ID.
func (ls *LayerSystem) RemoveEffect(id string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	delete(ls.effects, id)
}

// Len returns the number of registered effects.
func (ls *LayerSystem) Len() int {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	return len(ls.effects)
}

// Effects returns every registered effect in layer, sublayer then timestamp order.
func (ls *LayerSystem) Effects() []ContinuousEffect {
	ls.mu.RLock()
	defer ls.mu.RUnlock()
	out := make([]ContinuousEffect, 0, len(ls.effects))
	for _, e := range ls.effects {
		out = append(out, e)
	}
	sortEffects(out)
	return out
}

// Apply folds every registered effect, plus any extra effects, into the snapshot.
func (ls *LayerSystem) Apply(snapshot *Snapshot, extra ...ContinuousEffect) {
	ls.ApplyThrough(snapshot, LayerPowerToughness, extra...)
}

// ApplyThrough folds effects up to and including maxLayer. Looking up a controller
// only needs layers 1 and 2, which keeps control-dependent filters from recursing.
func (ls *LayerSystem) ApplyThrough(snapshot *Snapshot, maxLayer Layer, extra ...ContinuousEffect) {
	if snapshot == nil {
		return
	}
	all := ls.Effects()
	for _, e := range extra {
		if e != nil {
			all = append(all, e)
		}
	}
	sortEffects(all)

	for _, layer := range layerOrder {
		if layer > maxLayer {
			break
		}
		if layer != LayerPowerToughness {
			applyGroup(snapshot, filterGroup(all, layer, SublayerNone))
			continue
		}
		snapshot.Reset()
		if !snapshot.HasPT {
			continue
		}
		for _, sub := range ptSublayers {
			applyGroup(snapshot, filterGroup(all, layer, sub))
		}
	}
}

func filterGroup(all []ContinuousEffect, layer Layer, sub Sublayer) []ContinuousEffect {
	var group []ContinuousEffect
	for _, e := range all {
		if e.Layer() != layer {
			continue
		}
		es := e.Sublayer()
		if layer == LayerPowerToughness && es == SublayerNone {
			es = Sublayer7c
		}
		if layer != LayerPowerToughness {
			es = SublayerNone
		}
		if es == sub {
			group = append(group, e)
		}
	}
	return group
}

func applyGroup(snapshot *Snapshot, group []ContinuousEffect) {
	for _, e := range orderByDependency(group, snapshot) {
		if e.AppliesTo(snapshot) {
			e.Apply(snapshot)
		}
	}
}

// orderByDependency orders a group of same-layer effects. An effect A depends on B when
// applying B first changes whether A applies; B then goes first. Independent effects
// keep timestamp order, and effects caught in a dependency loop fall back to it.
func orderByDependency(group []ContinuousEffect, snapshot *Snapshot) []ContinuousEffect {
	n := len(group)
	if n < 2 {
		return group
	}
	dependsOn := make([][]bool, n)
	for i := range group {
		dependsOn[i] = make([]bool, n)
		before := group[i].AppliesTo(snapshot.Clone())
		for j := range group {
			if i == j {
				continue
			}
			trial := snapshot.Clone()
			if group[j].AppliesTo(trial) {
				group[j].Apply(trial)
			}
			dependsOn[i][j] = group[i].AppliesTo(trial) != before
		}
	}

	placed := make([]bool, n)
	out := make([]ContinuousEffect, 0, n)
	for len(out) < n {
		next := -1
		for i := 0; i < n && next < 0; i++ {
			if placed[i] {
				continue
			}
			ready := true
			for j := 0; j < n; j++ {
				if !placed[j] && dependsOn[i][j] && !dependsOn[j][i] {
					ready = false
					break
				}
			}
			if ready {
				next = i
			}
		}
		if next < 0 {
			// Loop: take the earliest remaining by timestamp.
			for i := 0; i < n; i++ {
				if !placed[i] {
					next = i
					break
				}
			}
		}
		placed[next] = true
		out = append(out, group[next])
	}
	return out
}

func sortEffects(effects []ContinuousEffect) {
	sort.SliceStable(effects, func(i, j int) bool {
		a, b := effects[i], effects[j]
		if a.Layer() != b.Layer() {
			return a.Layer() < b.Layer()
		}
		if a.Sublayer() != b.Sublayer() {
			return a.Sublayer() < b.Sublayer()
		}
		if a.Timestamp() != b.Timestamp() {
			return a.Timestamp() < b.Timestamp()
		}
		return a.ID() < b.ID()
	})
}
