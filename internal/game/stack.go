package game

import (
	"fmt"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/targeting"
	"go.uber.org/zap"
)

func (g *Game) playLand(a Action) error {
	newID, err := g.Move(a.ObjectID, rules.ZoneHand, rules.ZoneBattlefield, PositionBottom)
	if err != nil {
		return err
	}
	g.players[a.Player].LandsPlayed++
	g.events.Publish(rules.NewEvent(rules.EventLandPlayed, newID, newID, a.Player))
	return nil
}

// castSpell pays every cost of a validated cast and puts the spell on the stack.
// The spell keeps its object id on the stack, and the stack item shares it.
func (g *Game) castSpell(a Action) error {
	obj := g.objects[a.ObjectID]
	def := obj.def
	cost := g.spellCost(obj.ID)

	x, err := g.payMana(a.Player, cost, a.X, a.Sacrifice, obj.ID)
	if err != nil {
		return err
	}
	if ac := def.AdditionalCost; !ac.IsZero() {
		if ac.PayLife > 0 {
			g.changeLife(a.Player, -ac.PayLife, obj.ID)
		}
		if ac.Sacrifice != "" {
			if _, err := g.Move(a.Sacrifice, rules.ZoneBattlefield, rules.ZoneGraveyard, PositionBottom); err != nil {
				return fmt.Errorf("sacrifice: %w", err)
			}
		}
		if ac.Discard > 0 {
			discarded := 0
			for _, id := range g.players[a.Player].Hand.IDs() {
				if discarded == ac.Discard {
					break
				}
				if id != obj.ID {
					g.discard(a.Player, id)
					discarded++
				}
			}
		}
	}

	if _, err := g.Move(obj.ID, rules.ZoneHand, rules.ZoneStack, PositionBottom); err != nil {
		return err
	}
	obj.ChosenX = x
	item := rules.StackItem{
		ID:          obj.ID,
		Controller:  a.Player,
		Description: def.Name,
		Kind:        rules.StackItemKindSpell,
		SourceID:    obj.ID,
		CardID:      obj.CardID,
		Targets:     append([]rules.Target(nil), a.Targets...),
		XValue:      x,
	}
	if err := g.stack.Push(item); err != nil {
		return err
	}
	evt := rules.NewEvent(rules.EventSpellCast, obj.ID, obj.ID, a.Player)
	evt.Metadata = map[string]string{"card_id": obj.CardID}
	if def.IsCreature() {
		evt.Metadata["creature"] = "true"
	}
	g.events.Publish(evt)
	if g.logger != nil {
		g.logger.Debug("spell cast",
			zap.String("player", a.Player),
			zap.String("card_id", obj.CardID),
			zap.String("object_id", obj.ID),
			zap.Int("x", x),
		)
	}
	return nil
}

// activateAbility pays the costs of a validated activation. Mana abilities resolve
// at once; every other ability goes on the stack.
func (g *Game) activateAbility(a Action) error {
	obj := g.objects[a.ObjectID]
	ab := &obj.def.Activated[a.Ability]

	exclude := ""
	if ab.Tap {
		exclude = obj.ID
	}
	x, err := g.payMana(a.Player, ab.ManaCost(), a.X, exclude, obj.ID)
	if err != nil {
		return err
	}
	if ab.Tap {
		g.tap(obj.ID)
	}
	if ab.PayLife > 0 {
		g.changeLife(a.Player, -ab.PayLife, obj.ID)
	}
	for i := 0; i < ab.Discard; i++ {
		if top, ok := g.players[a.Player].Hand.Top(); ok {
			g.discard(a.Player, top)
		}
	}
	if ab.IsLoyalty() {
		if ab.Loyalty > 0 {
			obj.Counters.Add(counters.KindLoyalty, ab.Loyalty)
		} else {
			obj.Counters.Remove(counters.KindLoyalty, -ab.Loyalty)
		}
		obj.loyaltyTurn = g.turn.TurnNumber()
		g.events.Publish(rules.NewEventWithAmount(rules.EventCountersChanged, obj.ID, obj.ID, a.Player, ab.Loyalty))
	}

	activated := rules.NewEvent(rules.EventAbilityActivated, obj.ID, obj.ID, a.Player)
	activated.Amount = a.Ability

	if ab.IsManaAbility() {
		r := &resolution{controller: a.Player, source: obj.ID, x: x, mana: a.Mana}
		g.runEffects(r, ab.Effects)
		g.events.Publish(activated)
		return nil
	}

	item := rules.StackItem{
		ID:          g.ids.next("ability"),
		Controller:  a.Player,
		Description: obj.def.Name + " ability",
		Kind:        rules.StackItemKindActivated,
		SourceID:    obj.ID,
		CardID:      obj.CardID,
		Ability:     a.Ability,
		Targets:     append([]rules.Target(nil), a.Targets...),
		XValue:      x,
	}
	if err := g.stack.Push(item); err != nil {
		return err
	}
	if ab.SacrificeSelf {
		if _, err := g.Move(obj.ID, rules.ZoneBattlefield, rules.ZoneGraveyard, PositionBottom); err != nil {
			return fmt.Errorf("sacrifice: %w", err)
		}
	}
	g.events.Publish(activated)
	return nil
}

// harmful reports whether an effect is bad for what it targets. Triggered abilities
// choose opposing targets for harmful effects and their controller's otherwise.
func harmful(e cards.EffectTemplate) bool {
	switch e.Kind {
	case cards.EffectDamage, cards.EffectDestroy, cards.EffectExile, cards.EffectBounce,
		cards.EffectDiscard, cards.EffectLoseLife, cards.EffectTap, cards.EffectMill,
		cards.EffectCounterSpell, cards.EffectGainControl:
		return true
	case cards.EffectPump:
		return e.Power < 0 || e.Toughness < 0
	}
	return false
}

// chooseTargets picks targets for a triggered ability: for each slot the first legal
// candidate on the preferred side, else the first legal candidate at all.
func (g *Game) chooseTargets(controller, source string, effs []cards.EffectTemplate) ([]rules.Target, bool) {
	var out []rules.Target
	for _, e := range effs {
		if !e.Targets() {
			continue
		}
		candidates := g.validator.Candidates(controller, source, e.TargetType())
		if len(candidates) == 0 {
			return nil, false
		}
		pick := candidates[0]
		wantOpponent := harmful(e)
		for _, c := range candidates {
			owner := c.ID
			if !c.Player {
				owner = g.controllerOf(c.ID)
			}
			if (owner != controller) == wantOpponent {
				pick = c
				break
			}
		}
		out = append(out, pick)
	}
	return out, true
}

// pushTriggers puts every queued triggered ability on the stack in APNAP order and
// reports how many were pushed.
func (g *Game) pushTriggers() (int, error) {
	pending := g.queue.Drain(g.order, g.turn.ActivePlayer())
	pushed := 0
	for _, p := range pending {
		cardID := g.triggerCards[p.TriggerID]
		def, err := g.definition(cardID)
		if err != nil || p.Ability >= len(def.Triggered) {
			continue
		}
		if pl, ok := g.players[p.Controller]; !ok || pl.Lost {
			continue
		}
		tr := def.Triggered[p.Ability]
		targets, ok := g.chooseTargets(p.Controller, p.SourceID, tr.Effects)
		if !ok {
			if g.logger != nil {
				g.logger.Debug("trigger has no legal targets", zap.String("source_id", p.SourceID), zap.String("card_id", cardID))
			}
			continue
		}
		item := rules.StackItem{
			ID:          g.ids.next("trigger"),
			Controller:  p.Controller,
			Description: def.Name + " trigger",
			Kind:        rules.StackItemKindTriggered,
			SourceID:    p.SourceID,
			CardID:      cardID,
			Ability:     p.Ability,
			Targets:     targets,
		}
		if err := g.stack.Push(item); err != nil {
			return pushed, err
		}
		pushed++
		g.events.Publish(rules.NewEvent(rules.EventAbilityTriggered, item.ID, p.SourceID, p.Controller))
	}
	return pushed, nil
}

// itemSlots returns the target requirement of each target of a stack item.
func (g *Game) itemSlots(item rules.StackItem, def *cards.Definition) []targeting.TargetType {
	switch item.Kind {
	case rules.StackItemKindSpell:
		return spellSlots(def)
	case rules.StackItemKindActivated:
		if item.Ability < len(def.Activated) {
			return abilitySlots(&def.Activated[item.Ability])
		}
	case rules.StackItemKindTriggered:
		if item.Ability < len(def.Triggered) {
			return targetSlots(def.Triggered[item.Ability].Effects)
		}
	}
	return nil
}

// resolveTop resolves the top of the stack. Targets are re-validated, never re-chosen;
// an item whose targets are all illegal fizzles.
func (g *Game) resolveTop() error {
	item, err := g.stack.Pop()
	if err != nil {
		return err
	}
	def, err := g.definition(item.CardID)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", item.ID, err)
	}
	slots := g.itemSlots(item, def)
	legality := rules.CheckStackItemLegality(item, func(it rules.StackItem, i int, t rules.Target) bool {
		return i < len(slots) && g.validator.Validate(it.Controller, it.SourceID, slots[i], t) == nil
	})
	if !legality.Legal {
		g.fizzle(item, legality.Reason)
		return nil
	}

	r := &resolution{item: item, controller: item.Controller, source: item.SourceID, legality: legality, x: item.XValue}
	switch item.Kind {
	case rules.StackItemKindSpell:
		if def.IsPermanent() {
			if _, err := g.Move(item.ID, rules.ZoneStack, rules.ZoneBattlefield, PositionBottom); err != nil {
				return err
			}
			if def.IsAura() && len(item.Targets) == 1 {
				g.objects[item.ID].AttachedTo = item.Targets[0].ID
			}
		} else {
			g.runEffects(r, def.Spell)
			if obj, ok := g.objects[item.ID]; ok && obj.Zone == rules.ZoneStack {
				if _, err := g.Move(item.ID, rules.ZoneStack, rules.ZoneGraveyard, PositionBottom); err != nil {
					return err
				}
			}
		}
	case rules.StackItemKindActivated:
		ab := &def.Activated[item.Ability]
		if ab.Equip {
			if src, ok := g.objects[item.SourceID]; ok && src.Zone == rules.ZoneBattlefield && g.controllerOf(src.ID) == item.Controller {
				src.AttachedTo = item.Targets[0].ID
			}
		} else {
			g.runEffects(r, ab.Effects)
		}
	case rules.StackItemKindTriggered:
		g.runEffects(r, def.Triggered[item.Ability].Effects)
	}

	g.events.Publish(rules.NewEvent(rules.EventStackResolved, item.ID, item.SourceID, item.Controller))
	if g.logger != nil {
		g.logger.Debug("stack item resolved",
			zap.String("item_id", item.ID),
			zap.String("kind", string(item.Kind)),
			zap.String("card_id", item.CardID),
		)
	}
	return nil
}

// fizzle removes an item whose targets are all illegal without any effect.
func (g *Game) fizzle(item rules.StackItem, reason string) {
	if item.Kind == rules.StackItemKindSpell {
		if obj, ok := g.objects[item.ID]; ok && obj.Zone == rules.ZoneStack {
			g.moveOrLog(item.ID, rules.ZoneStack, rules.ZoneGraveyard)
		}
	}
	evt := rules.NewEvent(rules.EventFizzled, item.ID, item.SourceID, item.Controller)
	evt.Description = reason
	g.events.Publish(evt)
	if g.logger != nil {
		g.logger.Warn("stack item fizzled",
			zap.String("item_id", item.ID),
			zap.String("card_id", item.CardID),
			zap.String("reason", reason),
		)
	}
}
