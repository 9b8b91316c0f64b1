package game

import (
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"go.uber.org/zap"
)

// advanceLimit bounds the number of automatic transitions one call to advance may make.
const advanceLimit = 10000

// LossTurnLimit is the reason recorded when a game ends by the turn limit.
const LossTurnLimit = "turn_limit"

// stabilize runs state-based actions and puts waiting triggers on the stack until
// neither has anything left to do. It runs before a player receives priority.
func (g *Game) stabilize() error {
	limit := g.opts.TriggerIterationLimit
	if limit <= 0 {
		limit = DefaultOptions().TriggerIterationLimit
	}
	for i := 0; i < limit; i++ {
		if err := g.checkStateBasedActions(); err != nil {
			return err
		}
		if g.over {
			return nil
		}
		pushed, err := g.pushTriggers()
		if err != nil {
			return err
		}
		if pushed == 0 && g.queue.Len() == 0 {
			return nil
		}
		if pushed > 0 {
			g.priority.Reset()
			g.priorityOpen = true
		}
	}
	return triggerFault(limit)
}

// priorityStart is the player who receives priority first: the active player, or the
// next live player when the active player has left the game.
func (g *Game) priorityStart() string {
	active := g.turn.ActivePlayer()
	if p := g.players[active]; p != nil && !p.Lost {
		return active
	}
	return g.nextLivePlayer(active)
}

// advance moves the game forward until a player must act or the game ends.
// Steps without priority are skipped, and with AutoPass so are windows in which
// passing is the only legal action.
func (g *Game) advance() error {
	for i := 0; i < advanceLimit; i++ {
		if err := g.stabilize(); err != nil {
			return err
		}
		if g.over || g.decision != nil {
			return nil
		}
		if !g.stack.IsEmpty() {
			g.priorityOpen = true
		}
		if g.priorityOpen {
			if g.opts.AutoPass && g.onlyPassLegal() {
				if err := g.pass(g.turn.PriorityPlayer()); err != nil {
					return err
				}
				continue
			}
			return nil
		}
		if err := g.nextStep(); err != nil {
			return err
		}
	}
	return &InternalFaultError{Op: "advance", Iterations: advanceLimit, Detail: "no player was asked to act"}
}

// pass records a priority pass. When every live player has passed in succession the
// top of the stack resolves, or with an empty stack the step ends.
func (g *Game) pass(player string) error {
	if !g.priority.Pass(player) {
		g.turn.SetPriority(g.priority.Next(player))
		return nil
	}
	g.priority.Reset()
	if g.stack.IsEmpty() {
		g.priorityOpen = false
		return nil
	}
	if err := g.resolveTop(); err != nil {
		return err
	}
	g.turn.SetPriority(g.priorityStart())
	return nil
}

// actionTaken resets the pass count after a player does something other than pass.
// Priority returns to the active player.
func (g *Game) actionTaken() {
	g.priority.Reset()
	g.priorityOpen = true
	g.turn.SetPriority(g.priorityStart())
}

// nextStep ends the current step and begins the next one.
func (g *Game) nextStep() error {
	g.emptyPools()
	step := g.turn.CurrentStep()
	switch step {
	case rules.StepDeclareBlockers:
		g.turn.SetFirstStrike(g.combatHasFirstStrike())
	case rules.StepEndCombat:
		g.endCombat()
	}
	next := ""
	if step == rules.StepCleanup {
		next = g.nextLivePlayer(g.turn.ActivePlayer())
	}
	g.turn.AdvanceStep(next)
	return g.beginStep()
}

// beginStep performs the turn-based actions of the step just entered.
func (g *Game) beginStep() error {
	step := g.turn.CurrentStep()
	active := g.turn.ActivePlayer()
	g.priority.Reset()
	g.priorityOpen = step.GrantsPriority()
	g.turn.SetPriority(g.priorityStart())

	if step == rules.StepUntap {
		if g.turn.TurnNumber() > g.opts.MaxTurns && g.opts.MaxTurns > 0 {
			g.endByTurnLimit()
			return nil
		}
		g.events.Publish(rules.NewEventWithAmount(rules.EventTurnBegin, active, "", active, g.turn.TurnNumber()))
	}
	evt := rules.NewEvent(rules.EventStepChange, "", "", active)
	evt.Metadata = map[string]string{"step": step.String(), "phase": g.turn.CurrentPhase().String()}
	g.events.Publish(evt)
	if g.logger != nil {
		g.logger.Debug("step",
			zap.Int("turn", g.turn.TurnNumber()),
			zap.String("step", step.String()),
			zap.String("active_player", active),
		)
	}

	switch step {
	case rules.StepUntap:
		g.untapStep(active)
	case rules.StepDraw:
		if g.turn.TurnNumber() == 1 && active == g.startingPlayer {
			break
		}
		g.draw(active, 1)
	case rules.StepBeginCombat:
		g.combat = newCombatState(active)
	case rules.StepDeclareAttackers:
		if g.combat == nil {
			g.combat = newCombatState(active)
		}
		if len(g.eligibleAttackers(active)) > 0 {
			g.decision = &Decision{Kind: DecisionDeclareAttackers, Player: active}
		} else {
			g.combat.declared = true
			g.priorityOpen = false
		}
	case rules.StepDeclareBlockers:
		if g.combat == nil || len(g.combat.attackOrder) == 0 {
			g.priorityOpen = false
			break
		}
		g.combat.defendersPending = g.defendingPlayers()
		g.nextBlockDecision()
	case rules.StepFirstStrikeDamage:
		if g.combat != nil {
			g.combatDamage(true)
		}
	case rules.StepCombatDamage:
		if g.combat == nil || len(g.combat.attackOrder) == 0 {
			g.priorityOpen = false
			break
		}
		g.combatDamage(false)
	case rules.StepEndCombat:
		if !g.combatHappened {
			g.priorityOpen = false
		}
	case rules.StepCleanup:
		p := g.players[active]
		if excess := p.Hand.Len() - g.opts.MaxHandSize; excess > 0 && !p.Lost {
			g.decision = &Decision{Kind: DecisionDiscard, Player: active, Count: excess}
			break
		}
		g.finishCleanup()
	}
	return nil
}

func (g *Game) untapStep(active string) {
	g.combatHappened = false
	for _, p := range g.players {
		p.LandsPlayed = 0
	}
	for _, id := range g.battlefield.IDs() {
		if g.controllerOf(id) != active {
			continue
		}
		g.untap(id)
		g.objects[id].SummoningSick = false
	}
}

// finishCleanup removes marked damage and ends "until end of turn" effects.
func (g *Game) finishCleanup() {
	for _, id := range g.battlefield.ids {
		obj := g.objects[id]
		obj.Damage = 0
		obj.DeathtouchDamaged = false
	}
	g.layers.CleanupEndOfTurn()
	g.replacements.CleanupEndOfTurn()
}

// endByTurnLimit ends a game that reached the turn limit. The highest life total
// wins and a tie is a draw.
func (g *Game) endByTurnLimit() {
	best, bestLife, tied := "", 0, false
	for _, id := range g.livePlayers() {
		life := g.players[id].Life
		switch {
		case best == "" || life > bestLife:
			best, bestLife, tied = id, life, false
		case life == bestLife:
			tied = true
		}
	}
	if tied {
		g.endGame("", true, LossTurnLimit)
		return
	}
	g.endGame(best, false, LossTurnLimit)
}
