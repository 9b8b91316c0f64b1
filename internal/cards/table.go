package cards

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/targeting"
)

var (
	// ErrInvalidDefinition is returned when a card definition is malformed.
	ErrInvalidDefinition = errors.New("invalid card definition")
	// ErrUnknownCard is returned for card ids missing from a table.
	ErrUnknownCard = errors.New("unknown card")
	// ErrGlobalInitialized is returned when the process-wide table is set twice.
	ErrGlobalInitialized = errors.New("card table already initialized")
)

// Deck is a named list of card ids.
type Deck struct {
	Name  string   `yaml:"name" json:"name"`
	Cards []string `yaml:"cards" json:"cards"`
}

// Table is an immutable set of validated card definitions and decks.
type Table struct {
	defs  map[string]*Definition
	ids   []string
	decks map[string]Deck
}

// NewTable validates every definition and deck and builds a table. Any malformed
// entry fails the whole table.
func NewTable(defs []*Definition, decks ...Deck) (*Table, error) {
	t := &Table{
		defs:  make(map[string]*Definition, len(defs)),
		decks: make(map[string]Deck, len(decks)),
	}
	for _, def := range defs {
		if def == nil {
			return nil, fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
		}
		if err := validate(def); err != nil {
			return nil, err
		}
		if _, dup := t.defs[def.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, def.ID)
		}
		t.defs[def.ID] = def
		t.ids = append(t.ids, def.ID)
	}
	sort.Strings(t.ids)

	for _, deck := range decks {
		if deck.Name == "" || len(deck.Cards) == 0 {
			return nil, fmt.Errorf("%w: deck %q is empty", ErrInvalidDefinition, deck.Name)
		}
		for _, id := range deck.Cards {
			if _, ok := t.defs[id]; !ok {
				return nil, fmt.Errorf("%w: deck %q references %q", ErrUnknownCard, deck.Name, id)
			}
		}
		t.decks[deck.Name] = Deck{Name: deck.Name, Cards: append([]string(nil), deck.Cards...)}
	}
	return t, nil
}

// Get returns the definition for id.
func (t *Table) Get(id string) (*Definition, bool) {
	if t == nil {
		return nil, false
	}
	def, ok := t.defs[id]
	return def, ok
}

// Lookup is Get with an error for unknown ids.
func (t *Table) Lookup(id string) (*Definition, error) {
	def, ok := t.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return def, nil
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}

// IDs returns every card id in sorted order.
func (t *Table) IDs() []string {
	return append([]string(nil), t.ids...)
}

// Deck returns the named deck.
func (t *Table) Deck(name string) (Deck, bool) {
	deck, ok := t.decks[name]
	if !ok {
		return Deck{}, false
	}
	return Deck{Name: deck.Name, Cards: append([]string(nil), deck.Cards...)}, true
}

// DeckNames returns the deck names in sorted order.
func (t *Table) DeckNames() []string {
	names := make([]string, 0, len(t.decks))
	for name := range t.decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	globalMu    sync.RWMutex
	globalTable *Table
)

// InitGlobal installs the process-wide card table. It may be called once, before any
// game starts; the table is read-only afterwards and shared by every game.
func InitGlobal(t *Table) error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidDefinition)
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalTable != nil {
		return ErrGlobalInitialized
	}
	globalTable = t
	return nil
}

// Global returns the process-wide card table, or nil before InitGlobal.
func Global() *Table {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalTable
}

func validate(def *Definition) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidDefinition, def.ID, fmt.Sprintf(format, args...))
	}
	if strings.TrimSpace(def.ID) == "" {
		return fmt.Errorf("%w: missing id (name %q)", ErrInvalidDefinition, def.Name)
	}
	if strings.TrimSpace(def.Name) == "" {
		return fail("missing name")
	}
	if len(def.Types) == 0 {
		return fail("missing types")
	}
	cost, err := mana.ParseCost(def.ManaCost)
	if err != nil {
		return fail("mana cost: %v", err)
	}
	def.cost = cost

	if def.IsCreature() {
		if _, _, ok := def.PrintedPT(); !ok {
			return fail("creature without power/toughness")
		}
	}
	if def.HasType("planeswalker") && def.Loyalty <= 0 {
		return fail("planeswalker without loyalty")
	}
	if def.Enchant != "" {
		if _, err := targeting.ParseTargetType(def.Enchant); err != nil {
			return fail("enchant: %v", err)
		}
	}
	if !def.IsPermanent() && len(def.Spell) == 0 {
		return fail("instant or sorcery without effects")
	}
	if err := validateEffects(def.Spell); err != nil {
		return fail("spell: %v", err)
	}
	for i := range def.Triggered {
		tr := &def.Triggered[i]
		if !triggerEvents[tr.Event] {
			return fail("triggered %d: unknown event %q", i, tr.Event)
		}
		if err := validateEffects(tr.Effects); err != nil {
			return fail("triggered %d: %v", i, err)
		}
	}
	for i := range def.Activated {
		ab := &def.Activated[i]
		cost, err := mana.ParseCost(ab.Cost)
		if err != nil {
			return fail("activated %d cost: %v", i, err)
		}
		ab.cost = cost
		if len(ab.Effects) == 0 && !ab.Equip {
			return fail("activated %d has no effects", i)
		}
		if err := validateEffects(ab.Effects); err != nil {
			return fail("activated %d: %v", i, err)
		}
	}
	if def.Equip != "" && !hasEquipAbility(def) {
		cost, err := mana.ParseCost(def.Equip)
		if err != nil {
			return fail("equip cost: %v", err)
		}
		def.Activated = append(def.Activated, ActivatedTemplate{Cost: def.Equip, Equip: true, Sorcery: true, cost: cost})
	}
	for i, st := range def.Static {
		if !staticKinds[st.Kind] {
			return fail("static %d: unknown kind %q", i, st.Kind)
		}
		switch st.Kind {
		case StaticKeyword, StaticAttachedKeyword:
			if st.Keyword == "" {
				return fail("static %d: %s without keyword", i, st.Kind)
			}
		case StaticCostReduction, StaticCostTax:
			if st.Amount <= 0 {
				return fail("static %d: %s needs a positive amount", i, st.Kind)
			}
		case StaticAddType:
			if len(st.Types) == 0 {
				return fail("static %d: add_type without types", i)
			}
		}
		if c := st.Filter.Controller; c != "" && c != "you" && c != "opponent" {
			return fail("static %d: unknown filter controller %q", i, c)
		}
	}
	if ac := def.AdditionalCost; ac != nil && (ac.PayLife < 0 || ac.Discard < 0) {
		return fail("negative additional cost")
	}
	return nil
}

func validateEffects(effects []EffectTemplate) error {
	targeted := false
	for i, e := range effects {
		if !effectKinds[e.Kind] {
			return fmt.Errorf("effect %d: unknown kind %q", i, e.Kind)
		}
		if e.Target == TargetSame {
			if !targeted {
				return fmt.Errorf("effect %d: %q with no earlier target", i, TargetSame)
			}
		} else if _, err := targeting.ParseTargetType(e.Target); err != nil {
			return fmt.Errorf("effect %d: %v", i, err)
		}
		if e.Targets() {
			targeted = true
		}
		switch e.Kind {
		case EffectAddMana:
			if len(e.ManaTypes()) == 0 || len(e.ManaTypes()) != len(e.Produces) {
				return fmt.Errorf("effect %d: add_mana needs valid produces", i)
			}
		case EffectCreateToken:
			if e.Token == nil || len(e.Token.Types) == 0 {
				return fmt.Errorf("effect %d: create_token needs a token", i)
			}
		case EffectAddCounters:
			if e.Counter == "" {
				return fmt.Errorf("effect %d: add_counters needs a counter kind", i)
			}
			if _, _, ok := e.Counter.Boost(); !ok && !knownCounter(e.Counter) {
				return fmt.Errorf("effect %d: unknown counter %q", i, e.Counter)
			}
		case EffectRollDie:
			if e.Amount < 2 {
				return fmt.Errorf("effect %d: roll_die needs at least 2 sides", i)
			}
		}
		if e.Duration != "" && e.Duration != "end_of_turn" && e.Duration != "permanent" {
			return fmt.Errorf("effect %d: unknown duration %q", i, e.Duration)
		}
	}
	return nil
}

func knownCounter(k counters.Kind) bool {
	switch k {
	case counters.KindLoyalty, counters.KindPoison, counters.KindCharge:
		return true
	}
	return false
}

func hasEquipAbility(def *Definition) bool {
	for _, ab := range def.Activated {
		if ab.Equip {
			return true
		}
	}
	return false
}
