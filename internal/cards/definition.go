// Package cards holds the static card definitions an engine interprets: printed
// characteristics plus effect templates for spells and abilities.
package cards

import (
	"strings"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/targeting"
)

// EffectKind names one primitive effect a spell or ability can have.
type EffectKind string

const (
	EffectDamage       EffectKind = "damage"
	EffectDestroy      EffectKind = "destroy"
	EffectExile        EffectKind = "exile"
	EffectBounce       EffectKind = "bounce"
	EffectDraw         EffectKind = "draw"
	EffectDiscard      EffectKind = "discard"
	EffectGainLife     EffectKind = "gain_life"
	EffectLoseLife     EffectKind = "lose_life"
	EffectPump         EffectKind = "pump"
	EffectAddCounters  EffectKind = "add_counters"
	EffectCreateToken  EffectKind = "create_token"
	EffectCounterSpell EffectKind = "counter_spell"
	EffectTap          EffectKind = "tap"
	EffectUntap        EffectKind = "untap"
	EffectAddMana      EffectKind = "add_mana"
	EffectMill         EffectKind = "mill"
	EffectRegenerate   EffectKind = "regenerate"
	EffectGainControl  EffectKind = "gain_control"
	// EffectRollDie rolls an Amount-sided die; later amount_x effects use the result.
	EffectRollDie EffectKind = "roll_die"
	// EffectFlipCoin flips a coin; on tails the remaining effects are skipped.
	EffectFlipCoin EffectKind = "flip_coin"
)

var effectKinds = map[EffectKind]bool{
	EffectDamage: true, EffectDestroy: true, EffectExile: true, EffectBounce: true,
	EffectDraw: true, EffectDiscard: true, EffectGainLife: true, EffectLoseLife: true,
	EffectPump: true, EffectAddCounters: true, EffectCreateToken: true, EffectCounterSpell: true,
	EffectTap: true, EffectUntap: true, EffectAddMana: true, EffectMill: true,
	EffectRegenerate: true, EffectGainControl: true, EffectRollDie: true, EffectFlipCoin: true,
}

// TargetSame reuses the target chosen for the previous targeted effect of the same ability.
const TargetSame = "same"

// TokenTemplate describes a token an effect creates.
type TokenTemplate struct {
	Name      string   `yaml:"name" json:"name"`
	Types     []string `yaml:"types" json:"types"`
	Subtypes  []string `yaml:"subtypes,omitempty" json:"subtypes,omitempty"`
	Colors    []string `yaml:"colors,omitempty" json:"colors,omitempty"`
	Power     int      `yaml:"power" json:"power"`
	Toughness int      `yaml:"toughness" json:"toughness"`
	Keywords  []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// Definition converts the template into a card definition for the token objects.
func (t *TokenTemplate) Definition() *Definition {
	p, tough := t.Power, t.Toughness
	return &Definition{
		ID:        "token:" + strings.ToLower(strings.ReplaceAll(t.Name, " ", "_")),
		Name:      t.Name,
		Types:     t.Types,
		Subtypes:  t.Subtypes,
		Colors:    t.Colors,
		Power:     &p,
		Toughness: &tough,
		Keywords:  t.Keywords,
		cost:      &mana.ManaCost{Colored: map[mana.ManaType]int{}},
	}
}

// EffectTemplate is one step of a spell or ability's effect.
type EffectTemplate struct {
	Kind EffectKind `yaml:"kind" json:"kind"`
	// Target is a targeting.TargetType, "same", or empty for untargeted effects that
	// apply to the controller (draw, gain_life) or the source ("self").
	Target    string         `yaml:"target,omitempty" json:"target,omitempty"`
	Amount    int            `yaml:"amount,omitempty" json:"amount,omitempty"`
	AmountX   bool           `yaml:"amount_x,omitempty" json:"amount_x,omitempty"`
	Power     int            `yaml:"power,omitempty" json:"power,omitempty"`
	Toughness int            `yaml:"toughness,omitempty" json:"toughness,omitempty"`
	Keywords  []string       `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Produces  []string       `yaml:"produces,omitempty" json:"produces,omitempty"`
	Counter   counters.Kind  `yaml:"counter,omitempty" json:"counter,omitempty"`
	Token     *TokenTemplate `yaml:"token,omitempty" json:"token,omitempty"`
	// Duration is "end_of_turn" (default for pump and gain_control) or "permanent".
	Duration string `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// TargetType returns the effect's target requirement. "same" reports TargetNone; the
// caller resolves it against the previous targeted effect.
func (e EffectTemplate) TargetType() targeting.TargetType {
	if e.Target == TargetSame {
		return targeting.TargetNone
	}
	t, err := targeting.ParseTargetType(e.Target)
	if err != nil {
		return targeting.TargetNone
	}
	return t
}

// Targets reports whether the effect takes a target slot of its own.
func (e EffectTemplate) Targets() bool {
	return e.TargetType().Targets()
}

// ManaTypes parses Produces into mana types.
func (e EffectTemplate) ManaTypes() []mana.ManaType {
	out := make([]mana.ManaType, 0, len(e.Produces))
	for _, p := range e.Produces {
		if mt, err := mana.ParseType(p); err == nil {
			out = append(out, mt)
		}
	}
	return out
}

// TriggerEvent names the event a triggered ability waits for.
type TriggerEvent string

const (
	// TriggerEnters fires when the source enters the battlefield.
	TriggerEnters TriggerEvent = "enters"
	// TriggerDies fires when the source is put into a graveyard from the battlefield.
	TriggerDies TriggerEvent = "dies"
	// TriggerUpkeep fires at the beginning of its controller's upkeep.
	TriggerUpkeep TriggerEvent = "upkeep"
	// TriggerAttacks fires when the source is declared as an attacker.
	TriggerAttacks TriggerEvent = "attacks"
	// TriggerEndStep fires at the beginning of its controller's end step.
	TriggerEndStep TriggerEvent = "end_step"
	// TriggerCastSpell fires when its controller casts a spell.
	TriggerCastSpell TriggerEvent = "cast_spell"
)

var triggerEvents = map[TriggerEvent]bool{
	TriggerEnters: true, TriggerDies: true, TriggerUpkeep: true,
	TriggerAttacks: true, TriggerEndStep: true, TriggerCastSpell: true,
}

// TriggeredTemplate is a triggered ability.
type TriggeredTemplate struct {
	Event   TriggerEvent     `yaml:"event" json:"event"`
	Effects []EffectTemplate `yaml:"effects" json:"effects"`
	// NonCreature restricts cast_spell triggers to noncreature spells.
	NonCreature bool `yaml:"noncreature,omitempty" json:"noncreature,omitempty"`
}

// ActivatedTemplate is an activated ability.
type ActivatedTemplate struct {
	Cost          string           `yaml:"cost,omitempty" json:"cost,omitempty"`
	Tap           bool             `yaml:"tap,omitempty" json:"tap,omitempty"`
	SacrificeSelf bool             `yaml:"sacrifice_self,omitempty" json:"sacrifice_self,omitempty"`
	PayLife       int              `yaml:"pay_life,omitempty" json:"pay_life,omitempty"`
	Discard       int              `yaml:"discard,omitempty" json:"discard,omitempty"`
	Loyalty       int              `yaml:"loyalty,omitempty" json:"loyalty,omitempty"`
	Sorcery       bool             `yaml:"sorcery,omitempty" json:"sorcery,omitempty"`
	Equip         bool             `yaml:"equip,omitempty" json:"equip,omitempty"`
	Effects       []EffectTemplate `yaml:"effects" json:"effects"`

	cost *mana.ManaCost
}

// ManaCost returns the parsed mana part of the activation cost.
func (a *ActivatedTemplate) ManaCost() *mana.ManaCost {
	if a.cost != nil {
		return a.cost
	}
	return parseOrZero(a.Cost)
}

// IsManaAbility reports whether the ability only adds mana without targeting.
// Mana abilities resolve immediately and do not use the stack.
func (a *ActivatedTemplate) IsManaAbility() bool {
	if len(a.Effects) == 0 || a.Loyalty != 0 || a.Equip {
		return false
	}
	for _, e := range a.Effects {
		if e.Kind != EffectAddMana || e.Targets() {
			return false
		}
	}
	return true
}

// IsLoyalty reports whether the ability is a planeswalker loyalty ability.
func (a *ActivatedTemplate) IsLoyalty() bool {
	return a.Loyalty != 0
}

// UsesSorceryTiming reports whether the ability may only be activated at sorcery speed.
func (a *ActivatedTemplate) UsesSorceryTiming() bool {
	return a.Sorcery || a.Equip || a.Loyalty != 0
}

// StaticKind names a static ability.
type StaticKind string

const (
	StaticAnthem          StaticKind = "anthem"
	StaticKeyword         StaticKind = "keyword"
	StaticCostReduction   StaticKind = "cost_reduction"
	StaticCostTax         StaticKind = "cost_tax"
	StaticSetBasePT       StaticKind = "set_base_pt"
	StaticAddType         StaticKind = "add_type"
	StaticAttachedBoost   StaticKind = "attached_boost"
	StaticAttachedKeyword StaticKind = "attached_keyword"
	StaticDieExile        StaticKind = "die_exile"
)

var staticKinds = map[StaticKind]bool{
	StaticAnthem: true, StaticKeyword: true, StaticCostReduction: true, StaticCostTax: true,
	StaticSetBasePT: true, StaticAddType: true, StaticAttachedBoost: true,
	StaticAttachedKeyword: true, StaticDieExile: true,
}

// Filter selects the objects or spells a static ability affects.
type Filter struct {
	// Controller is "you", "opponent" or empty for any.
	Controller string `yaml:"controller,omitempty" json:"controller,omitempty"`
	// Types match a card type or subtype; "noncreature" matches anything that is not a creature.
	Types       []string `yaml:"types,omitempty" json:"types,omitempty"`
	ExcludeSelf bool     `yaml:"exclude_self,omitempty" json:"exclude_self,omitempty"`
}

// StaticTemplate is a static ability.
type StaticTemplate struct {
	Kind      StaticKind `yaml:"kind" json:"kind"`
	Filter    Filter     `yaml:"filter,omitempty" json:"filter,omitempty"`
	Power     int        `yaml:"power,omitempty" json:"power,omitempty"`
	Toughness int        `yaml:"toughness,omitempty" json:"toughness,omitempty"`
	Keyword   string     `yaml:"keyword,omitempty" json:"keyword,omitempty"`
	Amount    int        `yaml:"amount,omitempty" json:"amount,omitempty"`
	Types     []string   `yaml:"types,omitempty" json:"types,omitempty"`
}

// AdditionalCost lists non-mana costs a spell requires in addition to its mana cost.
type AdditionalCost struct {
	// Sacrifice is a card type the caster must sacrifice one of, e.g. "creature".
	Sacrifice string `yaml:"sacrifice,omitempty" json:"sacrifice,omitempty"`
	PayLife   int    `yaml:"pay_life,omitempty" json:"pay_life,omitempty"`
	Discard   int    `yaml:"discard,omitempty" json:"discard,omitempty"`
}

// IsZero reports whether there is no additional cost.
func (a *AdditionalCost) IsZero() bool {
	return a == nil || (a.Sacrifice == "" && a.PayLife == 0 && a.Discard == 0)
}

// Definition is the static description of one card.
type Definition struct {
	ID             string              `yaml:"id" json:"id"`
	Name           string              `yaml:"name" json:"name"`
	ManaCost       string              `yaml:"mana_cost,omitempty" json:"mana_cost,omitempty"`
	Types          []string            `yaml:"types" json:"types"`
	Subtypes       []string            `yaml:"subtypes,omitempty" json:"subtypes,omitempty"`
	Supertypes     []string            `yaml:"supertypes,omitempty" json:"supertypes,omitempty"`
	Colors         []string            `yaml:"colors,omitempty" json:"colors,omitempty"`
	Power          *int                `yaml:"power,omitempty" json:"power,omitempty"`
	Toughness      *int                `yaml:"toughness,omitempty" json:"toughness,omitempty"`
	Loyalty        int                 `yaml:"loyalty,omitempty" json:"loyalty,omitempty"`
	Keywords       []string            `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Text           string              `yaml:"text,omitempty" json:"text,omitempty"`
	Spell          []EffectTemplate    `yaml:"spell,omitempty" json:"spell,omitempty"`
	Triggered      []TriggeredTemplate `yaml:"triggered,omitempty" json:"triggered,omitempty"`
	Activated      []ActivatedTemplate `yaml:"activated,omitempty" json:"activated,omitempty"`
	Static         []StaticTemplate    `yaml:"static,omitempty" json:"static,omitempty"`
	Enchant        string              `yaml:"enchant,omitempty" json:"enchant,omitempty"`
	Equip          string              `yaml:"equip,omitempty" json:"equip,omitempty"`
	AdditionalCost *AdditionalCost     `yaml:"additional_cost,omitempty" json:"additional_cost,omitempty"`

	cost *mana.ManaCost
}

// Cost returns the parsed mana cost. Definitions in a Table are parsed once when the
// table is built and are read-only afterwards.
func (d *Definition) Cost() *mana.ManaCost {
	if d.cost != nil {
		return d.cost
	}
	return parseOrZero(d.ManaCost)
}

func parseOrZero(s string) *mana.ManaCost {
	cost, err := mana.ParseCost(s)
	if err != nil {
		return &mana.ManaCost{Colored: map[mana.ManaType]int{}}
	}
	return cost
}

// HasType reports whether the card has the given card type.
func (d *Definition) HasType(name string) bool {
	return containsFold(d.Types, name)
}

// HasSupertype reports whether the card has the given supertype.
func (d *Definition) HasSupertype(name string) bool {
	return containsFold(d.Supertypes, name)
}

// HasKeyword reports whether the card has the printed keyword.
func (d *Definition) HasKeyword(name string) bool {
	return containsFold(d.Keywords, name)
}

// IsLand reports whether the card is a land.
func (d *Definition) IsLand() bool { return d.HasType("land") }

// IsCreature reports whether the card is a creature.
func (d *Definition) IsCreature() bool { return d.HasType("creature") }

// IsInstant reports whether the card is an instant.
func (d *Definition) IsInstant() bool { return d.HasType("instant") }

// IsAura reports whether the card is an Aura.
func (d *Definition) IsAura() bool { return d.Enchant != "" }

// IsEquipment reports whether the card is an Equipment.
func (d *Definition) IsEquipment() bool { return containsFold(d.Subtypes, "equipment") }

// IsPermanent reports whether the card becomes a permanent when it resolves.
func (d *Definition) IsPermanent() bool {
	return !d.HasType("instant") && !d.HasType("sorcery")
}

// HasFlash reports whether the card may be cast at instant speed.
func (d *Definition) HasFlash() bool {
	return d.IsInstant() || d.HasKeyword("flash")
}

// PrintedPT returns the printed power and toughness, and whether the card has them.
func (d *Definition) PrintedPT() (int, int, bool) {
	if d.Power == nil || d.Toughness == nil {
		return 0, 0, false
	}
	return *d.Power, *d.Toughness, true
}

// ColorList returns the card's colors, derived from its mana cost when not printed.
func (d *Definition) ColorList() []string {
	if len(d.Colors) > 0 {
		return append([]string(nil), d.Colors...)
	}
	var out []string
	for _, mt := range d.Cost().ColorIdentity() {
		out = append(out, strings.ToLower(string(mt)))
	}
	return out
}

// ManaAbilities returns the indexes of the card's mana abilities.
func (d *Definition) ManaAbilities() []int {
	var out []int
	for i := range d.Activated {
		if d.Activated[i].IsManaAbility() {
			out = append(out, i)
		}
	}
	return out
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// Ints is a helper for tables written in Go: it returns pointers to p and t.
func Ints(p, t int) (*int, *int) {
	return &p, &t
}
