package game

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/targeting"
)

// ActionKind names an action a player can take.
type ActionKind string

const (
	ActionPass              ActionKind = "PASS"
	ActionPlayLand          ActionKind = "PLAY_LAND"
	ActionCastSpell         ActionKind = "CAST_SPELL"
	ActionActivateAbility   ActionKind = "ACTIVATE_ABILITY"
	ActionDeclareAttacker   ActionKind = "DECLARE_ATTACKER"
	ActionUndeclareAttacker ActionKind = "UNDECLARE_ATTACKER"
	ActionConfirmAttackers  ActionKind = "CONFIRM_ATTACKERS"
	ActionDeclareBlocker    ActionKind = "DECLARE_BLOCKER"
	ActionUndeclareBlocker  ActionKind = "UNDECLARE_BLOCKER"
	ActionConfirmBlockers   ActionKind = "CONFIRM_BLOCKERS"
	ActionOrderBlockers     ActionKind = "ORDER_BLOCKERS"
	ActionDiscard           ActionKind = "DISCARD"
	ActionMulligan          ActionKind = "MULLIGAN"
	ActionKeepHand          ActionKind = "KEEP_HAND"
	ActionBottomCard        ActionKind = "BOTTOM_CARD"
	ActionConcede           ActionKind = "CONCEDE"
)

// Action is one player choice. Which fields matter depends on Kind:
//
//	PLAY_LAND, DISCARD, BOTTOM_CARD    ObjectID is the card in hand
//	CAST_SPELL                         ObjectID, Targets, X, Sacrifice
//	ACTIVATE_ABILITY                   ObjectID, Ability, Targets, X, Mana
//	DECLARE_ATTACKER                   ObjectID is the attacker, Attack the player or planeswalker attacked
//	DECLARE_BLOCKER                    ObjectID is the blocker, Attack the attacker it blocks
//	UNDECLARE_ATTACKER/BLOCKER         ObjectID
//	ORDER_BLOCKERS                     ObjectID is the attacker, Order its blockers in damage order
type Action struct {
	Kind      ActionKind     `json:"kind"`
	Player    string         `json:"player"`
	ObjectID  string         `json:"object_id,omitempty"`
	Ability   int            `json:"ability,omitempty"`
	Targets   []rules.Target `json:"targets,omitempty"`
	X         int            `json:"x,omitempty"`
	Mana      mana.ManaType  `json:"mana,omitempty"`
	Sacrifice string         `json:"sacrifice,omitempty"`
	Attack    string         `json:"attack,omitempty"`
	Order     []string       `json:"order,omitempty"`
}

// Key renders the action as a stable string. Two actions with the same key are the same choice.
func (a Action) Key() string {
	var b strings.Builder
	b.WriteString(string(a.Kind))
	b.WriteString("|" + a.Player)
	b.WriteString("|" + a.ObjectID)
	b.WriteString("|" + strconv.Itoa(a.Ability))
	b.WriteString("|")
	for i, t := range a.Targets {
		if i > 0 {
			b.WriteString(",")
		}
		if t.Player {
			b.WriteString("p:")
		}
		b.WriteString(t.ID)
	}
	b.WriteString("|" + strconv.Itoa(a.X))
	b.WriteString("|" + string(a.Mana))
	b.WriteString("|" + a.Sacrifice)
	b.WriteString("|" + a.Attack)
	b.WriteString("|" + strings.Join(a.Order, ","))
	return b.String()
}

func (a Action) String() string {
	if a.ObjectID == "" {
		return fmt.Sprintf("%s(%s)", a.Kind, a.Player)
	}
	return fmt.Sprintf("%s(%s, %s)", a.Kind, a.Player, a.ObjectID)
}

// ActionSet is the legal action mask: action key to action.
type ActionSet map[string]Action

// Contains reports whether a is in the set.
func (s ActionSet) Contains(a Action) bool {
	_, ok := s[a.Key()]
	return ok
}

// Sorted returns the actions ordered by key.
func (s ActionSet) Sorted() []Action {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Action, len(keys))
	for i, k := range keys {
		out[i] = s[k]
	}
	return out
}

var errNotActing = errors.New("player is not the one to act")

// ActingPlayer returns the player expected to act next: the holder of a pending
// decision, otherwise the priority holder.
func (g *Game) ActingPlayer() string {
	if g.over {
		return ""
	}
	if g.decision != nil {
		return g.decision.Player
	}
	return g.turn.PriorityPlayer()
}

// targetSlots lists the target requirement of each targeted effect, in order.
func targetSlots(effs []cards.EffectTemplate) []targeting.TargetType {
	var slots []targeting.TargetType
	for _, e := range effs {
		if e.Targets() {
			slots = append(slots, e.TargetType())
		}
	}
	return slots
}

// spellSlots returns the target requirements for casting def. An Aura targets what it enchants.
func spellSlots(def *cards.Definition) []targeting.TargetType {
	if def.IsAura() {
		t, err := targeting.ParseTargetType(def.Enchant)
		if err != nil {
			return nil
		}
		return []targeting.TargetType{t}
	}
	return targetSlots(def.Spell)
}

func abilitySlots(ab *cards.ActivatedTemplate) []targeting.TargetType {
	if ab.Equip {
		return []targeting.TargetType{targeting.TargetCreatureYouControl}
	}
	return targetSlots(ab.Effects)
}

func (g *Game) checkTargets(player, source string, slots []targeting.TargetType, chosen []rules.Target) error {
	if len(chosen) != len(slots) {
		return fmt.Errorf("need %d targets, got %d", len(slots), len(chosen))
	}
	for i, req := range slots {
		if err := g.validator.Validate(player, source, req, chosen[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAction is the single legality routine. LegalActions keeps exactly the
// candidates it accepts and Step refuses every action it rejects.
func (g *Game) validateAction(a Action) error {
	if g.over {
		return ErrGameOver
	}
	p, ok := g.players[a.Player]
	if !ok || p.Lost {
		return fmt.Errorf("unknown or eliminated player %q", a.Player)
	}
	if a.Kind == ActionConcede {
		if !g.opts.AllowConcede {
			return errors.New("conceding is disabled")
		}
		return nil
	}
	if a.Player != g.ActingPlayer() {
		return errNotActing
	}
	if g.decision != nil {
		return g.validateDecision(a)
	}

	switch a.Kind {
	case ActionPass:
		return nil
	case ActionPlayLand:
		return g.validatePlayLand(a)
	case ActionCastSpell:
		return g.validateCast(a)
	case ActionActivateAbility:
		return g.validateActivate(a)
	}
	return fmt.Errorf("%s is not allowed while holding priority", a.Kind)
}

func (g *Game) handCard(player, id string) (*GameObject, error) {
	obj, ok := g.objects[id]
	if !ok || obj.Zone != rules.ZoneHand || obj.Owner != player {
		return nil, fmt.Errorf("%s is not in %s's hand", id, player)
	}
	return obj, nil
}

func (g *Game) validatePlayLand(a Action) error {
	obj, err := g.handCard(a.Player, a.ObjectID)
	if err != nil {
		return err
	}
	if !obj.def.IsLand() {
		return fmt.Errorf("%s is not a land", obj.CardID)
	}
	return rules.CheckTiming(g.timingContext(a.Player), rules.TimingLand)
}

func (g *Game) validateCast(a Action) error {
	obj, err := g.handCard(a.Player, a.ObjectID)
	if err != nil {
		return err
	}
	def := obj.def
	if def.IsLand() {
		return fmt.Errorf("%s is a land", obj.CardID)
	}
	timing := rules.TimingSorcery
	if def.HasFlash() {
		timing = rules.TimingInstant
	}
	if err := rules.CheckTiming(g.timingContext(a.Player), timing); err != nil {
		return err
	}

	cost := g.spellCost(obj.ID)
	if a.X < 0 || (cost.X == 0 && a.X != 0) {
		return fmt.Errorf("invalid X %d", a.X)
	}
	if err := g.checkTargets(a.Player, obj.ID, spellSlots(def), a.Targets); err != nil {
		return err
	}

	reservedLife := 0
	if ac := def.AdditionalCost; !ac.IsZero() {
		if err := g.checkAdditionalCost(a, obj, ac); err != nil {
			return fmt.Errorf("%w: %v", ErrUnpayableAdditionalCost, err)
		}
		reservedLife = ac.PayLife
	} else if a.Sacrifice != "" {
		return errors.New("nothing to sacrifice for")
	}
	if !g.canAfford(a.Player, cost, a.X, a.Sacrifice, reservedLife) {
		return fmt.Errorf("%w: %s", ErrInsufficientMana, cost)
	}
	return nil
}

func (g *Game) checkAdditionalCost(a Action, spell *GameObject, ac *cards.AdditionalCost) error {
	if ac.Sacrifice != "" {
		sac, ok := g.objects[a.Sacrifice]
		if !ok || sac.Zone != rules.ZoneBattlefield || g.controllerOf(sac.ID) != a.Player {
			return fmt.Errorf("must sacrifice a %s you control", ac.Sacrifice)
		}
		snap, _ := g.Characteristics(sac.ID)
		if !snap.HasType(ac.Sacrifice) {
			return fmt.Errorf("%s is not a %s", sac.CardID, ac.Sacrifice)
		}
		for _, t := range a.Targets {
			if t.ID == sac.ID {
				return errors.New("cannot sacrifice a target")
			}
		}
	} else if a.Sacrifice != "" {
		return errors.New("nothing to sacrifice for")
	}
	p := g.players[a.Player]
	if ac.PayLife > 0 && p.Life < ac.PayLife {
		return fmt.Errorf("cannot pay %d life", ac.PayLife)
	}
	if ac.Discard > 0 && p.Hand.Len()-1 < ac.Discard {
		return fmt.Errorf("cannot discard %d cards", ac.Discard)
	}
	return nil
}

func (g *Game) validateActivate(a Action) error {
	obj, ok := g.objects[a.ObjectID]
	if !ok || obj.Zone != rules.ZoneBattlefield || g.controllerOf(obj.ID) != a.Player {
		return fmt.Errorf("%s is not a permanent you control", a.ObjectID)
	}
	if obj.def == nil || a.Ability < 0 || a.Ability >= len(obj.def.Activated) {
		return fmt.Errorf("%s has no ability %d", obj.CardID, a.Ability)
	}
	ab := &obj.def.Activated[a.Ability]

	timing := rules.TimingInstant
	switch {
	case ab.IsManaAbility():
		timing = rules.TimingManaAbility
	case ab.UsesSorceryTiming():
		timing = rules.TimingSorcery
	}
	if err := rules.CheckTiming(g.timingContext(a.Player), timing); err != nil {
		return err
	}

	exclude := ""
	if ab.Tap {
		if !g.canTapForAbility(obj, a.Player) {
			return fmt.Errorf("%s cannot be tapped", obj.CardID)
		}
		exclude = obj.ID
	}
	if ab.IsLoyalty() {
		if obj.loyaltyTurn == g.turn.TurnNumber() {
			return errors.New("a loyalty ability was already activated this turn")
		}
		if ab.Loyalty < 0 && obj.Counters.Count(counters.KindLoyalty) < -ab.Loyalty {
			return fmt.Errorf("%w: not enough loyalty", ErrUnpayableAdditionalCost)
		}
	}
	p := g.players[a.Player]
	if ab.PayLife > 0 && p.Life < ab.PayLife {
		return fmt.Errorf("%w: cannot pay %d life", ErrUnpayableAdditionalCost, ab.PayLife)
	}
	if ab.Discard > 0 && p.Hand.Len() < ab.Discard {
		return fmt.Errorf("%w: cannot discard %d cards", ErrUnpayableAdditionalCost, ab.Discard)
	}

	cost := ab.ManaCost()
	if a.X < 0 || (cost.X == 0 && a.X != 0) {
		return fmt.Errorf("invalid X %d", a.X)
	}
	if ab.IsManaAbility() {
		if len(a.Targets) != 0 {
			return errors.New("mana abilities do not target")
		}
		if a.Mana != "" && !producesType(ab, a.Mana) {
			return fmt.Errorf("%s cannot produce %s", obj.CardID, a.Mana)
		}
	} else if err := g.checkTargets(a.Player, obj.ID, abilitySlots(ab), a.Targets); err != nil {
		return err
	}
	if ab.Equip && len(a.Targets) == 1 && a.Targets[0].ID == obj.AttachedTo {
		return errors.New("already attached to that creature")
	}
	if !g.canAfford(a.Player, cost, a.X, exclude, ab.PayLife) {
		return fmt.Errorf("%w: %s", ErrInsufficientMana, cost)
	}
	return nil
}

func producesType(ab *cards.ActivatedTemplate, mt mana.ManaType) bool {
	for _, e := range ab.Effects {
		for _, p := range e.ManaTypes() {
			if p == mt {
				return true
			}
		}
	}
	return false
}
