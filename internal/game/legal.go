package game

import (
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/targeting"
)

const (
	// maxTargetCombinations caps the target tuples enumerated for one spell or ability.
	maxTargetCombinations = 64
	// maxOrderedBlockers is the largest blocker group whose damage orders are all
	// enumerated. Larger groups offer only their declaration order.
	maxOrderedBlockers = 4
)

// LegalActions returns every action the acting player may take. Each candidate is
// checked with validateAction, so every returned action is accepted by Step.
func (g *Game) LegalActions() ActionSet {
	return g.LegalActionsFor(g.ActingPlayer())
}

// LegalActionsFor returns the actions player may take now. Players other than the
// acting player can only concede, and only when conceding is enabled.
func (g *Game) LegalActionsFor(player string) ActionSet {
	out := make(ActionSet)
	if g.over {
		return out
	}
	if p, ok := g.players[player]; !ok || p.Lost {
		return out
	}
	add := func(a Action) {
		if g.validateAction(a) == nil {
			out[a.Key()] = a
		}
	}
	add(Action{Kind: ActionConcede, Player: player})
	if player != g.ActingPlayer() {
		return out
	}
	if g.decision != nil {
		for _, a := range g.decisionCandidates(player) {
			add(a)
		}
		return out
	}

	add(Action{Kind: ActionPass, Player: player})
	p := g.players[player]
	for _, id := range p.Hand.ids {
		obj := g.objects[id]
		if obj.def.IsLand() {
			add(Action{Kind: ActionPlayLand, Player: player, ObjectID: id})
			continue
		}
		for _, a := range g.castCandidates(player, obj) {
			add(a)
		}
	}
	for _, id := range g.battlefield.ids {
		obj := g.objects[id]
		if obj.def == nil || g.controllerOf(id) != player {
			continue
		}
		for i := range obj.def.Activated {
			for _, a := range g.activateCandidates(player, obj, i) {
				add(a)
			}
		}
	}
	return out
}

// onlyPassLegal reports whether passing priority is the only thing the priority
// holder can do, ignoring concession and mana abilities that lead nowhere.
func (g *Game) onlyPassLegal() bool {
	for _, a := range g.LegalActions() {
		switch a.Kind {
		case ActionPass, ActionConcede:
		case ActionActivateAbility:
			if ab := &g.objects[a.ObjectID].def.Activated[a.Ability]; !ab.IsManaAbility() {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// targetTuples enumerates one candidate target per slot, up to maxTargetCombinations tuples.
func (g *Game) targetTuples(player, source string, slots []targeting.TargetType) [][]rules.Target {
	tuples := [][]rules.Target{nil}
	for _, req := range slots {
		candidates := g.validator.Candidates(player, source, req)
		var next [][]rules.Target
		for _, prefix := range tuples {
			for _, c := range candidates {
				if len(next) == maxTargetCombinations {
					break
				}
				tuple := append(append([]rules.Target(nil), prefix...), c)
				next = append(next, tuple)
			}
		}
		tuples = next
		if len(tuples) == 0 {
			return nil
		}
	}
	return tuples
}

func xValues(cost *mana.ManaCost, limit int) []int {
	if cost.X == 0 || limit <= 0 {
		return []int{0}
	}
	out := make([]int, 0, limit+1)
	for x := 0; x <= limit; x++ {
		out = append(out, x)
	}
	return out
}

func (g *Game) castCandidates(player string, obj *GameObject) []Action {
	def := obj.def
	timing := rules.TimingSorcery
	if def.HasFlash() {
		timing = rules.TimingInstant
	}
	if rules.CheckTiming(g.timingContext(player), timing) != nil {
		return nil
	}
	cost := g.spellCost(obj.ID)
	sacrifices := []string{""}
	if ac := def.AdditionalCost; !ac.IsZero() && ac.Sacrifice != "" {
		sacrifices = nil
		for _, id := range g.battlefield.ids {
			if g.controllerOf(id) != player {
				continue
			}
			if snap, _ := g.Characteristics(id); snap.HasType(ac.Sacrifice) {
				sacrifices = append(sacrifices, id)
			}
		}
	}
	var out []Action
	for _, sac := range sacrifices {
		maxX := g.maxX(player, cost, sac)
		if maxX < 0 {
			continue
		}
		for _, targets := range g.targetTuples(player, obj.ID, spellSlots(def)) {
			for _, x := range xValues(cost, maxX) {
				out = append(out, Action{
					Kind:      ActionCastSpell,
					Player:    player,
					ObjectID:  obj.ID,
					Targets:   targets,
					X:         x,
					Sacrifice: sac,
				})
			}
		}
	}
	return out
}

func (g *Game) activateCandidates(player string, obj *GameObject, index int) []Action {
	ab := &obj.def.Activated[index]
	exclude := ""
	if ab.Tap {
		exclude = obj.ID
	}
	cost := ab.ManaCost()
	maxX := g.maxX(player, cost, exclude)
	if maxX < 0 {
		return nil
	}
	base := Action{Kind: ActionActivateAbility, Player: player, ObjectID: obj.ID, Ability: index}
	if ab.IsManaAbility() {
		var out []Action
		for _, e := range ab.Effects {
			for _, mt := range e.ManaTypes() {
				a := base
				a.Mana = mt
				out = append(out, a)
			}
		}
		return out
	}
	var out []Action
	for _, targets := range g.targetTuples(player, obj.ID, abilitySlots(ab)) {
		for _, x := range xValues(cost, maxX) {
			a := base
			a.Targets = targets
			a.X = x
			out = append(out, a)
		}
	}
	return out
}

func (g *Game) decisionCandidates(player string) []Action {
	d := g.decision
	var out []Action
	switch d.Kind {
	case DecisionMulligan:
		out = append(out,
			Action{Kind: ActionKeepHand, Player: player},
			Action{Kind: ActionMulligan, Player: player},
		)
	case DecisionBottom:
		for _, id := range g.players[player].Hand.ids {
			out = append(out, Action{Kind: ActionBottomCard, Player: player, ObjectID: id})
		}
	case DecisionDiscard:
		for _, id := range g.players[player].Hand.ids {
			out = append(out, Action{Kind: ActionDiscard, Player: player, ObjectID: id})
		}
	case DecisionDeclareAttackers:
		targets := g.attackTargets(player)
		for _, id := range g.eligibleAttackers(player) {
			for _, t := range targets {
				out = append(out, Action{Kind: ActionDeclareAttacker, Player: player, ObjectID: id, Attack: t})
			}
		}
		for _, decl := range g.combat.attackDraft {
			out = append(out, Action{Kind: ActionUndeclareAttacker, Player: player, ObjectID: decl.Attacker})
		}
		out = append(out, Action{Kind: ActionConfirmAttackers, Player: player})
	case DecisionDeclareBlockers:
		for _, id := range g.battlefield.ids {
			if g.controllerOf(id) != player {
				continue
			}
			for _, att := range g.combat.attackOrder {
				out = append(out, Action{Kind: ActionDeclareBlocker, Player: player, ObjectID: id, Attack: att})
			}
		}
		for _, decl := range g.combat.blockDraft {
			out = append(out, Action{Kind: ActionUndeclareBlocker, Player: player, ObjectID: decl.Blocker})
		}
		out = append(out, Action{Kind: ActionConfirmBlockers, Player: player})
	case DecisionOrderBlockers:
		blockers := g.combat.Blocks[d.Attacker]
		orders := [][]string{append([]string(nil), blockers...)}
		if len(blockers) <= maxOrderedBlockers {
			orders = permutations(blockers)
		}
		for _, order := range orders {
			out = append(out, Action{Kind: ActionOrderBlockers, Player: player, ObjectID: d.Attacker, Order: order})
		}
	}
	return out
}

// permutations returns every ordering of ids, starting with ids itself.
func permutations(ids []string) [][]string {
	if len(ids) <= 1 {
		return [][]string{append([]string(nil), ids...)}
	}
	var out [][]string
	for i := range ids {
		rest := make([]string, 0, len(ids)-1)
		rest = append(rest, ids[:i]...)
		rest = append(rest, ids[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{ids[i]}, p...))
		}
	}
	return out
}
