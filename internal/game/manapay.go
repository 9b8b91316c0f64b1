package game

import (
	"fmt"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
)

// manaSource is an untapped permanent whose tap ability adds one mana.
type manaSource struct {
	id       string
	ability  int
	produces []mana.ManaType
}

// simpleManaAbility reports whether ab is "{T}: add one mana" with no other cost,
// the kind of ability a payment may activate on the player's behalf.
func simpleManaAbility(ab *cards.ActivatedTemplate) bool {
	if !ab.IsManaAbility() || !ab.Tap || !ab.ManaCost().IsZero() || ab.SacrificeSelf || ab.PayLife > 0 || ab.Discard > 0 {
		return false
	}
	return len(ab.Effects) == 1 && ab.Effects[0].Amount <= 1
}

// canTapForAbility reports whether a permanent controlled by player can pay a {T} cost now.
func (g *Game) canTapForAbility(obj *GameObject, player string) bool {
	if obj.Zone != rules.ZoneBattlefield || obj.Tapped || g.controllerOf(obj.ID) != player {
		return false
	}
	if g.isCreature(obj.ID) && obj.SummoningSick && !g.hasKeyword(obj.ID, "haste") {
		return false
	}
	return true
}

func (g *Game) manaSources(player, exclude string) []manaSource {
	var out []manaSource
	for _, id := range g.battlefield.ids {
		if id == exclude {
			continue
		}
		obj := g.objects[id]
		if obj.def == nil || !g.canTapForAbility(obj, player) {
			continue
		}
		for i := range obj.def.Activated {
			ab := &obj.def.Activated[i]
			if simpleManaAbility(ab) {
				out = append(out, manaSource{id: id, ability: i, produces: ab.Effects[0].ManaTypes()})
				break
			}
		}
	}
	return out
}

// availableMana returns the player's pool followed by their untapped mana sources.
func (g *Game) availableMana(player, exclude string) []mana.Unit {
	units := g.players[player].Pool.Units()
	for _, src := range g.manaSources(player, exclude) {
		units = append(units, mana.Unit{SourceID: src.id, Produces: src.produces})
	}
	return units
}

func (g *Game) lifeBudget(player string) int {
	if life := g.players[player].Life; life > 0 {
		return life
	}
	return 0
}

func (g *Game) canAfford(player string, cost *mana.ManaCost, x int, exclude string, reservedLife int) bool {
	budget := g.lifeBudget(player) - reservedLife
	if budget < 0 {
		return false
	}
	_, err := mana.PlanPayment(cost, x, g.availableMana(player, exclude), budget)
	return err == nil
}

func (g *Game) maxX(player string, cost *mana.ManaCost, exclude string) int {
	return mana.MaxX(cost, g.availableMana(player, exclude))
}

// payMana pays cost for player from their pool and untapped mana sources, with
// phyrexian symbols paid in life when mana runs out. On failure nothing changes.
func (g *Game) payMana(player string, cost *mana.ManaCost, x int, exclude, source string) (int, error) {
	p := g.players[player]
	plan, err := mana.PlanPayment(cost, x, g.availableMana(player, exclude), g.lifeBudget(player))
	if err != nil {
		return 0, fmt.Errorf("pay %s: %w", cost, err)
	}
	next := p.Pool.Clone()
	for _, use := range plan.Uses {
		if use.SourceID != "" {
			g.tap(use.SourceID)
			continue
		}
		next[use.Type]--
		if next[use.Type] <= 0 {
			delete(next, use.Type)
		}
	}
	p.Pool = next
	if plan.LifePaid > 0 {
		g.changeLife(player, -plan.LifePaid, source)
	}
	return plan.XValue, nil
}

// emptyPools empties every mana pool. Called whenever a step ends.
func (g *Game) emptyPools() {
	for _, p := range g.players {
		if p.Pool.Total() > 0 {
			p.Pool = mana.NewPool()
		}
	}
}

// spellCost returns the cost of casting spellID after cost modifiers.
func (g *Game) spellCost(spellID string) *mana.ManaCost {
	obj := g.objects[spellID]
	if obj == nil || obj.def == nil {
		return &mana.ManaCost{Colored: map[mana.ManaType]int{}}
	}
	return g.costs.Apply(spellID, obj.def.Cost())
}
