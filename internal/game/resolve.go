package game

import (
	"strconv"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/effects"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"go.uber.org/zap"
)

// resolution carries what the effects of one resolving spell or ability need.
type resolution struct {
	item       rules.StackItem
	controller string
	source     string
	legality   rules.LegalityResult
	x          int
	rolled     int
	hasRolled  bool
	// mana is the type chosen for a mana ability whose effect can produce several.
	mana mana.ManaType
}

func (r *resolution) amount(e cards.EffectTemplate) int {
	if !e.AmountX {
		return e.Amount
	}
	if r.hasRolled {
		return r.rolled
	}
	return r.x
}

// runEffects applies effects in order. Effects whose target slot became illegal do
// nothing; the rest of the spell still resolves.
func (g *Game) runEffects(r *resolution, effs []cards.EffectTemplate) {
	slot := -1
	for _, e := range effs {
		var target *rules.Target
		switch {
		case e.Target == cards.TargetSame:
			if slot < 0 || slot >= len(r.item.Targets) || r.legality.SlotIllegal(slot) {
				continue
			}
			target = &r.item.Targets[slot]
		case e.Targets():
			slot++
			if slot >= len(r.item.Targets) || r.legality.SlotIllegal(slot) {
				continue
			}
			target = &r.item.Targets[slot]
		}
		if !g.applyEffect(r, e, target) {
			return
		}
	}
}

// affectedPlayer is the player an effect applies to: its target, or the controller.
func (r *resolution) affectedPlayer(target *rules.Target) (string, bool) {
	if target == nil {
		return r.controller, true
	}
	if target.Player {
		return target.ID, true
	}
	return "", false
}

// affectedObject is the object an effect applies to: its target, or the source for "self".
func (g *Game) affectedObject(r *resolution, e cards.EffectTemplate, target *rules.Target) (*GameObject, bool) {
	id := ""
	switch {
	case target != nil && !target.Player:
		id = target.ID
	case target == nil && e.Target == "self":
		id = r.source
	}
	obj, ok := g.objects[id]
	if !ok || obj.Zone != rules.ZoneBattlefield {
		return nil, false
	}
	return obj, true
}

func effectDuration(e cards.EffectTemplate) effects.Duration {
	if e.Duration == "permanent" {
		return effects.DurationPermanent
	}
	return effects.DurationEndOfTurn
}

// applyEffect applies one effect and reports whether the remaining effects should run.
func (g *Game) applyEffect(r *resolution, e cards.EffectTemplate, target *rules.Target) bool {
	amount := r.amount(e)
	switch e.Kind {
	case cards.EffectDamage:
		if target != nil {
			g.dealDamage(r.source, *target, amount)
		}
	case cards.EffectDestroy:
		if obj, ok := g.affectedObject(r, e, target); ok {
			g.destroy(obj.ID, r.source, false)
		}
	case cards.EffectExile:
		if obj, ok := g.affectedObject(r, e, target); ok {
			g.moveOrLog(obj.ID, rules.ZoneBattlefield, rules.ZoneExile)
		}
	case cards.EffectBounce:
		if obj, ok := g.affectedObject(r, e, target); ok {
			g.moveOrLog(obj.ID, rules.ZoneBattlefield, rules.ZoneHand)
		}
	case cards.EffectDraw:
		if p, ok := r.affectedPlayer(target); ok {
			g.draw(p, amount)
		}
	case cards.EffectDiscard:
		if p, ok := r.affectedPlayer(target); ok {
			g.discardRandom(p, amount)
		}
	case cards.EffectGainLife:
		if p, ok := r.affectedPlayer(target); ok {
			g.changeLife(p, amount, r.source)
		}
	case cards.EffectLoseLife:
		if p, ok := r.affectedPlayer(target); ok {
			g.changeLife(p, -amount, r.source)
		}
	case cards.EffectPump:
		if obj, ok := g.affectedObject(r, e, target); ok {
			g.pump(r, obj.ID, e)
		}
	case cards.EffectAddCounters:
		if obj, ok := g.affectedObject(r, e, target); ok {
			obj.Counters.Add(e.Counter, amount)
			g.events.Publish(rules.NewEventWithAmount(rules.EventCountersChanged, obj.ID, r.source, r.controller, amount))
		}
	case cards.EffectCreateToken:
		if amount < 1 {
			amount = 1
		}
		g.createToken(e.Token, r.controller, amount)
	case cards.EffectCounterSpell:
		if target != nil {
			g.counterSpell(target.ID, r.source)
		}
	case cards.EffectTap:
		if obj, ok := g.affectedObject(r, e, target); ok {
			g.tap(obj.ID)
		}
	case cards.EffectUntap:
		if obj, ok := g.affectedObject(r, e, target); ok {
			g.untap(obj.ID)
		}
	case cards.EffectAddMana:
		types := e.ManaTypes()
		mt := types[0]
		if r.mana != "" {
			mt = r.mana
		}
		if amount < 1 {
			amount = 1
		}
		g.players[r.controller].Pool.Add(mt, amount)
	case cards.EffectMill:
		if p, ok := r.affectedPlayer(target); ok {
			g.mill(p, amount)
		}
	case cards.EffectRegenerate:
		if obj, ok := g.affectedObject(r, e, target); ok {
			g.replacements.Add(effects.NewRegenerationShield(g.ids.next("effect"), r.source, obj.ID, g.nextTimestamp()))
		}
	case cards.EffectGainControl:
		if obj, ok := g.affectedObject(r, e, target); ok && g.controllerOf(obj.ID) != r.controller {
			g.layers.AddEffect(effects.NewControlChange(effects.Spec{
				ID:         g.ids.next("effect"),
				SourceID:   r.source,
				Timestamp:  g.nextTimestamp(),
				Duration:   effectDuration(e),
				AffectedID: obj.ID,
			}, r.controller))
			obj.SummoningSick = true
		}
	case cards.EffectRollDie:
		r.rolled = g.rng.Intn(e.Amount) + 1
		r.hasRolled = true
		g.lastRoll = r.rolled
		evt := rules.NewEventWithAmount(rules.EventDieRolled, "", r.source, r.controller, r.rolled)
		evt.Metadata = map[string]string{"sides": strconv.Itoa(e.Amount)}
		g.events.Publish(evt)
	case cards.EffectFlipCoin:
		heads := g.rng.Intn(2) == 0
		evt := rules.NewEvent(rules.EventCoinFlipped, "", r.source, r.controller)
		evt.Flag = heads
		g.events.Publish(evt)
		return heads
	}
	return true
}

func (g *Game) pump(r *resolution, id string, e cards.EffectTemplate) {
	spec := effects.Spec{
		SourceID:   r.source,
		Timestamp:  g.nextTimestamp(),
		Duration:   effectDuration(e),
		AffectedID: id,
	}
	if e.Power != 0 || e.Toughness != 0 {
		spec.ID = g.ids.next("effect")
		g.layers.AddEffect(effects.NewPowerToughnessModifier(spec, e.Power, e.Toughness))
	}
	if len(e.Keywords) > 0 {
		spec.ID = g.ids.next("effect")
		g.layers.AddEffect(effects.NewKeywordGrant(spec, e.Keywords...))
	}
}

func (g *Game) moveOrLog(id string, from, to rules.Zone) string {
	newID, err := g.Move(id, from, to, PositionBottom)
	if err != nil {
		if g.logger != nil {
			g.logger.Error("failed to move object", zap.String("object_id", id), zap.Error(err))
		}
		return ""
	}
	return newID
}

// dealDamage deals damage from source after prevention. Damage to a player reduces
// life, damage to a planeswalker removes loyalty, damage to a creature is marked on it.
func (g *Game) dealDamage(source string, target rules.Target, amount int) int {
	if amount <= 0 {
		return 0
	}
	controller := g.controllerOf(source)
	evt := rules.NewEventWithAmount(rules.EventDamage, target.ID, source, controller, amount)
	evt.Flag = target.Player
	evt, _ = g.replacements.Apply(evt)
	if evt.Amount <= 0 {
		prevented := rules.NewEventWithAmount(rules.EventDamagePrevented, target.ID, source, controller, amount)
		g.events.Publish(prevented)
		return 0
	}
	amount = evt.Amount
	srcSnap, _ := g.Characteristics(source)

	if target.Player {
		p, ok := g.players[target.ID]
		if !ok || p.Lost {
			return 0
		}
		g.events.Publish(evt)
		g.changeLife(target.ID, -amount, source)
	} else {
		obj, ok := g.objects[target.ID]
		if !ok || obj.Zone != rules.ZoneBattlefield {
			return 0
		}
		g.events.Publish(evt)
		snap, _ := g.Characteristics(obj.ID)
		if snap.HasType("planeswalker") {
			obj.Counters.Remove(counters.KindLoyalty, amount)
		}
		if snap.IsCreature() {
			obj.Damage += amount
			if srcSnap != nil && srcSnap.HasKeyword("deathtouch") {
				obj.DeathtouchDamaged = true
			}
		}
	}
	if srcSnap != nil && srcSnap.HasKeyword("lifelink") && controller != "" {
		g.changeLife(controller, amount, source)
	}
	return amount
}

// destroy destroys a permanent unless it is indestructible or a regeneration shield
// replaces the destruction. It reports whether the permanent left the battlefield.
func (g *Game) destroy(id, source string, noRegenerate bool) bool {
	obj, ok := g.objects[id]
	if !ok || obj.Zone != rules.ZoneBattlefield {
		return false
	}
	if g.hasKeyword(id, "indestructible") {
		return false
	}
	evt := rules.NewEvent(rules.EventDestroy, id, source, g.controllerOf(id))
	if noRegenerate {
		evt.Metadata = map[string]string{"no_regenerate": "true"}
	}
	evt, replaced := g.replacements.Apply(evt)
	if replaced && evt.Type == rules.EventRegenerated {
		g.tap(id)
		obj.Damage = 0
		obj.DeathtouchDamaged = false
		if g.combat != nil {
			g.combat.remove(id)
		}
		g.events.Publish(evt)
		return false
	}
	g.events.Publish(evt)
	return g.moveOrLog(id, rules.ZoneBattlefield, rules.ZoneGraveyard) != ""
}

// counterSpell removes a spell from the stack and puts it into its owner's graveyard.
func (g *Game) counterSpell(id, source string) {
	item, ok := g.stack.Remove(id)
	if !ok {
		return
	}
	if obj, exists := g.objects[id]; exists && obj.Zone == rules.ZoneStack {
		g.moveOrLog(id, rules.ZoneStack, rules.ZoneGraveyard)
	}
	g.events.Publish(rules.NewEvent(rules.EventCountered, item.ID, source, item.Controller))
}

func (g *Game) discard(player, id string) {
	newID := g.moveOrLog(id, rules.ZoneHand, rules.ZoneGraveyard)
	if newID != "" {
		g.events.Publish(rules.NewEvent(rules.EventDiscard, newID, "", player))
	}
}

// discardRandom discards n cards at random using the game RNG.
func (g *Game) discardRandom(player string, n int) {
	hand := g.players[player].Hand
	for i := 0; i < n && hand.Len() > 0; i++ {
		ids := hand.IDs()
		g.discard(player, ids[g.rng.Intn(len(ids))])
	}
}

func (g *Game) mill(player string, n int) {
	lib := g.players[player].Library
	for i := 0; i < n; i++ {
		top, ok := lib.Top()
		if !ok {
			return
		}
		g.moveOrLog(top, rules.ZoneLibrary, rules.ZoneGraveyard)
	}
}
