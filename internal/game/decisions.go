package game

import (
	"errors"
	"fmt"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"go.uber.org/zap"
)

// DecisionKind names a choice that must be made before anyone receives priority.
type DecisionKind string

const (
	DecisionMulligan         DecisionKind = "MULLIGAN"
	DecisionBottom           DecisionKind = "BOTTOM"
	DecisionDeclareAttackers DecisionKind = "DECLARE_ATTACKERS"
	DecisionDeclareBlockers  DecisionKind = "DECLARE_BLOCKERS"
	DecisionOrderBlockers    DecisionKind = "ORDER_BLOCKERS"
	DecisionDiscard          DecisionKind = "DISCARD"
)

// Decision is a pending choice owned by one player.
type Decision struct {
	Kind   DecisionKind `json:"kind"`
	Player string       `json:"player"`
	// Count is the number of cards still to bottom or discard.
	Count int `json:"count,omitempty"`
	// Attacker is the attacker whose blockers are being ordered.
	Attacker string `json:"attacker,omitempty"`
}

func (g *Game) validateDecision(a Action) error {
	d := g.decision
	switch d.Kind {
	case DecisionMulligan:
		switch a.Kind {
		case ActionKeepHand:
			return nil
		case ActionMulligan:
			if g.players[a.Player].Mulligans >= g.opts.HandSize {
				return errors.New("no more mulligans")
			}
			return nil
		}
	case DecisionBottom:
		if a.Kind == ActionBottomCard {
			_, err := g.handCard(a.Player, a.ObjectID)
			return err
		}
	case DecisionDiscard:
		if a.Kind == ActionDiscard {
			_, err := g.handCard(a.Player, a.ObjectID)
			return err
		}
	case DecisionDeclareAttackers:
		return g.validateAttackChoice(a)
	case DecisionDeclareBlockers:
		return g.validateBlockChoice(a)
	case DecisionOrderBlockers:
		if a.Kind == ActionOrderBlockers {
			if a.ObjectID != d.Attacker {
				return fmt.Errorf("blockers of %s are being ordered", d.Attacker)
			}
			if !isPermutation(a.Order, g.combat.Blocks[d.Attacker]) {
				return fmt.Errorf("order must list the blockers of %s exactly once", d.Attacker)
			}
			return nil
		}
	}
	return fmt.Errorf("%s is not allowed during %s", a.Kind, d.Kind)
}

func (g *Game) validateAttackChoice(a Action) error {
	c := g.combat
	switch a.Kind {
	case ActionDeclareAttacker:
		for _, d := range c.attackDraft {
			if d.Attacker == a.ObjectID {
				return fmt.Errorf("%s is already attacking", a.ObjectID)
			}
		}
		if err := g.canAttack(a.ObjectID, a.Player); err != nil {
			return err
		}
		if !g.validAttackTarget(a.Player, a.Attack) {
			return fmt.Errorf("%s cannot be attacked", a.Attack)
		}
		return nil
	case ActionUndeclareAttacker:
		for _, d := range c.attackDraft {
			if d.Attacker == a.ObjectID {
				return nil
			}
		}
		return fmt.Errorf("%s is not attacking", a.ObjectID)
	case ActionConfirmAttackers:
		return g.validateAttacks(a.Player, c.attackDraft)
	}
	return fmt.Errorf("%s is not allowed while declaring attackers", a.Kind)
}

func (g *Game) validateBlockChoice(a Action) error {
	c := g.combat
	switch a.Kind {
	case ActionDeclareBlocker:
		for _, d := range c.blockDraft {
			if d.Blocker == a.ObjectID {
				return fmt.Errorf("%s is already blocking", a.ObjectID)
			}
		}
		return g.canBlock(a.ObjectID, a.Attack, a.Player)
	case ActionUndeclareBlocker:
		for _, d := range c.blockDraft {
			if d.Blocker == a.ObjectID {
				return nil
			}
		}
		return fmt.Errorf("%s is not blocking", a.ObjectID)
	case ActionConfirmBlockers:
		return g.validateBlocks(a.Player, c.blockDraft)
	}
	return fmt.Errorf("%s is not allowed while declaring blockers", a.Kind)
}

// applyDecision carries out a validated decision action.
func (g *Game) applyDecision(a Action) error {
	d := g.decision
	p := g.players[a.Player]
	switch a.Kind {
	case ActionMulligan:
		p.Mulligans++
		for _, id := range p.Hand.IDs() {
			if _, err := g.Move(id, rules.ZoneHand, rules.ZoneLibrary, PositionTop); err != nil {
				return err
			}
		}
		g.shuffle(a.Player)
		g.draw(a.Player, g.opts.HandSize)
		g.events.Publish(rules.NewEventWithAmount(rules.EventMulligan, a.Player, "", a.Player, p.Mulligans))
		if g.logger != nil {
			g.logger.Debug("mulligan", zap.String("player", a.Player), zap.Int("mulligans", p.Mulligans))
		}
	case ActionKeepHand:
		p.Kept = true
		if n := min(p.Mulligans, p.Hand.Len()); n > 0 {
			g.decision = &Decision{Kind: DecisionBottom, Player: a.Player, Count: n}
			return nil
		}
		return g.nextMulligan()
	case ActionBottomCard:
		if _, err := g.Move(a.ObjectID, rules.ZoneHand, rules.ZoneLibrary, PositionBottom); err != nil {
			return err
		}
		d.Count--
		if d.Count <= 0 || p.Hand.Len() == 0 {
			return g.nextMulligan()
		}
	case ActionDiscard:
		g.discard(a.Player, a.ObjectID)
		d.Count--
		if d.Count <= 0 || p.Hand.Len() == 0 {
			g.decision = nil
			g.finishCleanup()
		}

	case ActionDeclareAttacker:
		g.combat.attackDraft = append(g.combat.attackDraft, AttackDeclaration{Attacker: a.ObjectID, Target: a.Attack})
	case ActionUndeclareAttacker:
		g.combat.remove(a.ObjectID)
	case ActionConfirmAttackers:
		draft := append([]AttackDeclaration(nil), g.combat.attackDraft...)
		if err := g.DeclareAttackers(a.Player, draft); err != nil {
			return err
		}
		g.decision = nil
	case ActionDeclareBlocker:
		g.combat.blockDraft = append(g.combat.blockDraft, BlockDeclaration{Blocker: a.ObjectID, Attacker: a.Attack})
	case ActionUndeclareBlocker:
		kept := g.combat.blockDraft[:0]
		for _, b := range g.combat.blockDraft {
			if b.Blocker != a.ObjectID {
				kept = append(kept, b)
			}
		}
		g.combat.blockDraft = kept
	case ActionConfirmBlockers:
		draft := append([]BlockDeclaration(nil), g.combat.blockDraft...)
		if err := g.DeclareBlockers(a.Player, draft); err != nil {
			return err
		}
		g.nextBlockDecision()
	case ActionOrderBlockers:
		if err := g.SetDamageOrder(a.ObjectID, a.Order); err != nil {
			return err
		}
		g.nextOrderDecision()
	default:
		return fmt.Errorf("unexpected decision action %s", a.Kind)
	}
	return nil
}

// nextMulligan hands the mulligan decision to the next player in turn order who has
// not kept, or starts the first turn when everyone has.
func (g *Game) nextMulligan() error {
	for _, id := range rules.APNAPOrder(g.order, g.startingPlayer) {
		if p := g.players[id]; !p.Kept && !p.Lost {
			g.decision = &Decision{Kind: DecisionMulligan, Player: id}
			return nil
		}
	}
	g.decision = nil
	return g.beginStep()
}

// nextBlockDecision asks the next defending player for blocks, then the attacking
// player for the damage order of every multiply blocked attacker.
func (g *Game) nextBlockDecision() {
	c := g.combat
	for len(c.defendersPending) > 0 {
		player := c.defendersPending[0]
		if g.players[player].Lost {
			c.defendersPending = c.defendersPending[1:]
			continue
		}
		g.decision = &Decision{Kind: DecisionDeclareBlockers, Player: player}
		return
	}
	c.orderNeeded = nil
	for _, att := range c.attackOrder {
		if len(c.Blocks[att]) >= 2 {
			c.orderNeeded = append(c.orderNeeded, att)
		}
	}
	g.nextOrderDecision()
}

func (g *Game) nextOrderDecision() {
	c := g.combat
	if len(c.orderNeeded) == 0 {
		g.decision = nil
		return
	}
	g.decision = &Decision{Kind: DecisionOrderBlockers, Player: c.AttackingPlayer, Attacker: c.orderNeeded[0]}
}
