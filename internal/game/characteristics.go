package game

import (
	"strings"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/effects"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
)

// baseSnapshot returns the printed characteristics of an object.
func (g *Game) baseSnapshot(obj *GameObject) *effects.Snapshot {
	snap := &effects.Snapshot{
		ObjectID:     obj.ID,
		OwnerID:      obj.Owner,
		ControllerID: obj.Controller,
		AttachedTo:   obj.AttachedTo,
		Keywords:     make(map[string]bool),
	}
	def := obj.def
	if def == nil {
		return snap
	}
	snap.Name = def.Name
	snap.Types = append([]string(nil), def.Types...)
	snap.Subtypes = append([]string(nil), def.Subtypes...)
	snap.Supertypes = append([]string(nil), def.Supertypes...)
	snap.Colors = def.ColorList()
	for _, k := range def.Keywords {
		snap.AddKeyword(k)
	}
	if p, t, ok := def.PrintedPT(); ok {
		snap.HasPT = true
		snap.BasePower, snap.BaseToughness = p, t
	}
	snap.Reset()
	return snap
}

// Characteristics computes the current characteristics of an object. Permanents fold
// every applicable continuous effect and their power/toughness counters; objects in
// other zones have their printed characteristics. Nothing is cached between calls.
func (g *Game) Characteristics(id string) (*effects.Snapshot, bool) {
	obj, ok := g.objects[id]
	if !ok {
		return nil, false
	}
	snap := g.baseSnapshot(obj)
	if obj.Zone != rules.ZoneBattlefield {
		return snap, true
	}
	var extra []effects.ContinuousEffect
	if p, t := obj.Counters.Boost(); p != 0 || t != 0 {
		extra = append(extra, effects.NewPowerToughnessModifier(effects.Spec{
			ID:         "counters:" + id,
			SourceID:   id,
			AffectedID: id,
			Duration:   effects.DurationWhileOnBattlefield,
		}, p, t))
	}
	g.layers.Apply(snap, extra...)
	return snap, true
}

// controllerOf returns the controller of an object after control-changing effects.
func (g *Game) controllerOf(id string) string {
	obj, ok := g.objects[id]
	if !ok {
		return ""
	}
	if obj.Zone != rules.ZoneBattlefield {
		return obj.Controller
	}
	snap := g.baseSnapshot(obj)
	g.layers.ApplyThrough(snap, effects.LayerControl)
	return snap.ControllerID
}

func (g *Game) hasKeyword(id, keyword string) bool {
	snap, ok := g.Characteristics(id)
	return ok && snap.HasKeyword(keyword)
}

func (g *Game) isCreature(id string) bool {
	snap, ok := g.Characteristics(id)
	return ok && snap.IsCreature()
}

// permanentFilter builds the affected-object test for a static ability of source.
func (g *Game) permanentFilter(sourceID string, f cards.Filter) effects.Filter {
	return func(s *effects.Snapshot) bool {
		obj, ok := g.objects[s.ObjectID]
		if !ok || obj.Zone != rules.ZoneBattlefield {
			return false
		}
		if f.ExcludeSelf && s.ObjectID == sourceID {
			return false
		}
		if !matchesController(f.Controller, s.ControllerID, g.controllerOf(sourceID)) {
			return false
		}
		if len(f.Types) == 0 {
			return s.IsCreature()
		}
		return matchesTypes(f.Types, s.HasType, s.HasSubtype)
	}
}

func matchesController(rule, controller, sourceController string) bool {
	switch rule {
	case "you":
		return controller == sourceController
	case "opponent":
		return controller != sourceController
	}
	return true
}

func matchesTypes(types []string, hasType, hasSubtype func(string) bool) bool {
	for _, t := range types {
		if strings.EqualFold(t, "noncreature") {
			if !hasType("creature") {
				return true
			}
			continue
		}
		if hasType(t) || hasSubtype(t) {
			return true
		}
	}
	return false
}

// registerPermanent installs the static and triggered abilities of a permanent that
// just entered the battlefield.
func (g *Game) registerPermanent(obj *GameObject) {
	if obj.def == nil {
		return
	}
	for _, st := range obj.def.Static {
		g.addStatic(obj, st)
	}
	for i, tr := range obj.def.Triggered {
		g.registerTrigger(obj, i, tr)
	}
}

func (g *Game) addStatic(obj *GameObject, st cards.StaticTemplate) {
	src := obj.ID
	spec := effects.Spec{
		ID:        g.ids.next("effect"),
		SourceID:  src,
		Timestamp: obj.Timestamp,
		Duration:  effects.DurationWhileOnBattlefield,
		Filter:    g.permanentFilter(src, st.Filter),
	}
	attached := func(s *effects.Snapshot) bool {
		host := g.objects[src]
		return host != nil && host.AttachedTo != "" && host.AttachedTo == s.ObjectID
	}

	switch st.Kind {
	case cards.StaticAnthem:
		g.layers.AddEffect(effects.NewPowerToughnessModifier(spec, st.Power, st.Toughness))
	case cards.StaticKeyword:
		g.layers.AddEffect(effects.NewKeywordGrant(spec, st.Keyword))
	case cards.StaticSetBasePT:
		g.layers.AddEffect(effects.NewSetBasePowerToughness(spec, st.Power, st.Toughness))
	case cards.StaticAddType:
		g.layers.AddEffect(effects.NewTypeAddition(spec, st.Types, nil))
	case cards.StaticAttachedBoost:
		spec.Filter = attached
		g.layers.AddEffect(effects.NewPowerToughnessModifier(spec, st.Power, st.Toughness))
	case cards.StaticAttachedKeyword:
		spec.Filter = attached
		g.layers.AddEffect(effects.NewKeywordGrant(spec, st.Keyword))
	case cards.StaticDieExile:
		g.replacements.Add(effects.NewZoneChangeReplacement(spec.ID, src, obj.Timestamp,
			effects.DurationWhileOnBattlefield, "", rules.ZoneGraveyard, rules.ZoneExile, nil))
	case cards.StaticCostReduction, cards.StaticCostTax:
		kind := mana.ModifierReduction
		if st.Kind == cards.StaticCostTax {
			kind = mana.ModifierTax
		}
		filter := st.Filter
		g.costs.Add(mana.Modifier{
			ID:        spec.ID,
			SourceID:  src,
			Kind:      kind,
			Timestamp: obj.Timestamp,
			Generic:   st.Amount,
			AppliesTo: func(spellID string) bool { return g.costApplies(src, filter, spellID) },
		})
		g.costSources[src] = append(g.costSources[src], spec.ID)
	}
}

// costApplies reports whether a cost modifier of source affects the spell spellID.
func (g *Game) costApplies(sourceID string, f cards.Filter, spellID string) bool {
	spell, ok := g.objects[spellID]
	if !ok || spell.def == nil {
		return false
	}
	if !matchesController(f.Controller, spell.Controller, g.controllerOf(sourceID)) {
		return false
	}
	if len(f.Types) == 0 {
		return true
	}
	def := spell.def
	hasSub := func(s string) bool {
		for _, st := range def.Subtypes {
			if strings.EqualFold(st, s) {
				return true
			}
		}
		return false
	}
	return matchesTypes(f.Types, def.HasType, hasSub)
}

func (g *Game) removeCostModifiers(sourceID string) {
	for _, id := range g.costSources[sourceID] {
		g.costs.Remove(id)
	}
	delete(g.costSources, sourceID)
}

func (g *Game) registerTrigger(obj *GameObject, index int, tr cards.TriggeredTemplate) {
	src := obj.ID
	trigger := rules.AbilityTrigger{
		ID:         g.ids.next("trigger"),
		SourceID:   src,
		Controller: obj.Controller,
		Ability:    index,
	}
	stepIs := func(step rules.Step) func(rules.Event) bool {
		return func(e rules.Event) bool {
			return e.Metadata["step"] == step.String() && e.PlayerID == g.controllerOf(src)
		}
	}
	switch tr.Event {
	case cards.TriggerEnters:
		trigger.EventType = rules.EventEntersBattlefield
		trigger.Condition = func(e rules.Event) bool { return e.TargetID == src }
	case cards.TriggerDies:
		trigger.EventType = rules.EventDies
		trigger.Condition = func(e rules.Event) bool { return e.TargetID == src }
	case cards.TriggerAttacks:
		trigger.EventType = rules.EventAttackDeclared
		trigger.Condition = func(e rules.Event) bool { return e.TargetID == src }
	case cards.TriggerUpkeep:
		trigger.EventType = rules.EventStepChange
		trigger.Condition = stepIs(rules.StepUpkeep)
	case cards.TriggerEndStep:
		trigger.EventType = rules.EventStepChange
		trigger.Condition = stepIs(rules.StepEnd)
	case cards.TriggerCastSpell:
		nonCreature := tr.NonCreature
		trigger.EventType = rules.EventSpellCast
		trigger.Condition = func(e rules.Event) bool {
			if e.Controller != g.controllerOf(src) {
				return false
			}
			return !nonCreature || e.Metadata["creature"] != "true"
		}
	default:
		return
	}
	g.triggers.Register(trigger)
	g.triggerCards[trigger.ID] = obj.CardID
}
