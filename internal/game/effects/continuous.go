package effects

// Filter selects the objects a continuous effect applies to.
type Filter func(*Snapshot) bool

// Spec carries the bookkeeping shared by every continuous effect.
type Spec struct {
	ID         string
	SourceID   string
	Timestamp  int64
	Duration   Duration
	// AffectedID locks the effect onto one object. It is used as the filter when
	// Filter is nil.
	AffectedID string
	Filter     Filter
}

// Object returns a filter matching a single object id.
func Object(id string) Filter {
	return func(s *Snapshot) bool { return s.ObjectID == id }
}

type baseEffect struct {
	spec     Spec
	layer    Layer
	sublayer Sublayer
}

func (b baseEffect) ID() string         { return b.spec.ID }
func (b baseEffect) SourceID() string   { return b.spec.SourceID }
func (b baseEffect) Layer() Layer       { return b.layer }
func (b baseEffect) Sublayer() Sublayer { return b.sublayer }
func (b baseEffect) Timestamp() int64   { return b.spec.Timestamp }

func (b baseEffect) Duration() Duration {
	if b.spec.Duration == "" {
		return DurationPermanent
	}
	return b.spec.Duration
}

func (b baseEffect) AffectedID() string { return b.spec.AffectedID }

func (b baseEffect) AppliesTo(s *Snapshot) bool {
	if b.spec.Filter != nil {
		return b.spec.Filter(s)
	}
	if b.spec.AffectedID != "" {
		return s.ObjectID == b.spec.AffectedID
	}
	return true
}

// PowerToughnessModifier adds to power and toughness (layer 7c).
type PowerToughnessModifier struct {
	baseEffect
	Power     int
	Toughness int
}

// NewPowerToughnessModifier creates a +X/+Y effect.
func NewPowerToughnessModifier(spec Spec, power, toughness int) *PowerToughnessModifier {
	return &PowerToughnessModifier{
		baseEffect: baseEffect{spec: spec, layer: LayerPowerToughness, sublayer: Sublayer7c},
		Power:      power,
		Toughness:  toughness,
	}
}

// Apply implements ContinuousEffect.
func (e *PowerToughnessModifier) Apply(s *Snapshot) {
	s.Power += e.Power
	s.Toughness += e.Toughness
}

// SetBasePowerToughness sets power and toughness to fixed values (layer 7b).
type SetBasePowerToughness struct {
	baseEffect
	Power     int
	Toughness int
}

// NewSetBasePowerToughness creates an "is a base X/Y" effect.
func NewSetBasePowerToughness(spec Spec, power, toughness int) *SetBasePowerToughness {
	return &SetBasePowerToughness{
		baseEffect: baseEffect{spec: spec, layer: LayerPowerToughness, sublayer: Sublayer7b},
		Power:      power,
		Toughness:  toughness,
	}
}

// Apply implements ContinuousEffect.
func (e *SetBasePowerToughness) Apply(s *Snapshot) {
	s.Power = e.Power
	s.Toughness = e.Toughness
}

// PowerToughnessSwitch exchanges power and toughness (layer 7d).
type PowerToughnessSwitch struct {
	baseEffect
}

// NewPowerToughnessSwitch creates a switch effect.
func NewPowerToughnessSwitch(spec Spec) *PowerToughnessSwitch {
	return &PowerToughnessSwitch{baseEffect{spec: spec, layer: LayerPowerToughness, sublayer: Sublayer7d}}
}

// Apply implements ContinuousEffect.
func (e *PowerToughnessSwitch) Apply(s *Snapshot) {
	s.Power, s.Toughness = s.Toughness, s.Power
}

// KeywordGrant gives keyword abilities (layer 6).
type KeywordGrant struct {
	baseEffect
	Keywords []string
}

// NewKeywordGrant creates an effect granting the keywords.
func NewKeywordGrant(spec Spec, keywords ...string) *KeywordGrant {
	return &KeywordGrant{
		baseEffect: baseEffect{spec: spec, layer: LayerAbility},
		Keywords:   keywords,
	}
}

// Apply implements ContinuousEffect.
func (e *KeywordGrant) Apply(s *Snapshot) {
	for _, k := range e.Keywords {
		s.AddKeyword(k)
	}
}

// TypeAddition adds card types and subtypes (layer 4). An object that becomes a
// creature without printed power and toughness is 0/0 until a layer 7 effect says otherwise.
type TypeAddition struct {
	baseEffect
	Types    []string
	Subtypes []string
}

// NewTypeAddition creates a type-adding effect.
func NewTypeAddition(spec Spec, types []string, subtypes []string) *TypeAddition {
	return &TypeAddition{
		baseEffect: baseEffect{spec: spec, layer: LayerType},
		Types:      types,
		Subtypes:   subtypes,
	}
}

// Apply implements ContinuousEffect.
func (e *TypeAddition) Apply(s *Snapshot) {
	for _, t := range e.Types {
		if !s.HasType(t) {
			s.Types = append(s.Types, t)
		}
	}
	for _, st := range e.Subtypes {
		if !s.HasSubtype(st) {
			s.Subtypes = append(s.Subtypes, st)
		}
	}
	if s.IsCreature() && !s.HasPT {
		s.HasPT = true
		s.BasePower, s.BaseToughness = 0, 0
	}
}

// ControlChange gives control of the affected objects to a player (layer 2).
type ControlChange struct {
	baseEffect
	ControllerID string
}

// NewControlChange creates a control-changing effect.
func NewControlChange(spec Spec, controllerID string) *ControlChange {
	return &ControlChange{
		baseEffect:   baseEffect{spec: spec, layer: LayerControl},
		ControllerID: controllerID,
	}
}

// Apply implements ContinuousEffect.
func (e *ControlChange) Apply(s *Snapshot) {
	s.ControllerID = e.ControllerID
}

// ColorSet replaces the colors of the affected objects (layer 5).
type ColorSet struct {
	baseEffect
	Colors []string
}

// NewColorSet creates a color-setting effect.
func NewColorSet(spec Spec, colors ...string) *ColorSet {
	return &ColorSet{
		baseEffect: baseEffect{spec: spec, layer: LayerColor},
		Colors:     colors,
	}
}

// Apply implements ContinuousEffect.
func (e *ColorSet) Apply(s *Snapshot) {
	s.Colors = append([]string(nil), e.Colors...)
}
