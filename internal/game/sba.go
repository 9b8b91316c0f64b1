package game

import (
	"fmt"
	"sort"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/targeting"
	"go.uber.org/zap"
)

// Reasons a player can lose the game.
const (
	LossLife       = "life"
	LossPoison     = "poison"
	LossEmptyDraw  = "empty_library"
	LossConcession = "concession"
)

// sbaBatch is everything one state-based action check found. The whole batch is
// applied at once, so every check in a pass sees the same state.
type sbaBatch struct {
	losses      map[string]string
	toGraveyard []string
	destroy     []string
	unattach    []string
	annihilate  []string
	ceaseTokens []string
}

func (b *sbaBatch) empty() bool {
	return len(b.losses) == 0 && len(b.toGraveyard) == 0 && len(b.destroy) == 0 &&
		len(b.unattach) == 0 && len(b.annihilate) == 0 && len(b.ceaseTokens) == 0
}

func (b *sbaBatch) size() int {
	return len(b.losses) + len(b.toGraveyard) + len(b.destroy) + len(b.unattach) +
		len(b.annihilate) + len(b.ceaseTokens)
}

// checkStateBasedActions applies state-based actions until none apply. It fails with
// an InternalFaultError when no fixed point is reached within the iteration limit.
func (g *Game) checkStateBasedActions() error {
	limit := g.opts.SBAIterationLimit
	if limit <= 0 {
		limit = DefaultOptions().SBAIterationLimit
	}
	for i := 0; i < limit; i++ {
		if g.over {
			return nil
		}
		batch := g.collectStateBasedActions()
		if batch.empty() {
			return nil
		}
		g.applyStateBasedActions(batch)
	}
	if g.over {
		return nil
	}
	if batch := g.collectStateBasedActions(); batch.empty() {
		return nil
	}
	return &InternalFaultError{Op: "state-based actions", Iterations: limit, Detail: "no fixed point"}
}

func (g *Game) collectStateBasedActions() *sbaBatch {
	b := &sbaBatch{losses: make(map[string]string)}
	for _, id := range g.order {
		p := g.players[id]
		switch {
		case p.Lost:
		case p.Life <= 0:
			b.losses[id] = LossLife
		case p.Poison >= 10:
			b.losses[id] = LossPoison
		case p.drewFromEmpty:
			b.losses[id] = LossEmptyDraw
		}
	}

	legends := make(map[string][]string)
	for _, id := range g.battlefield.ids {
		obj := g.objects[id]
		snap, _ := g.Characteristics(id)
		if snap.IsCreature() {
			switch {
			case snap.Toughness <= 0:
				b.toGraveyard = append(b.toGraveyard, id)
				continue
			case snap.HasKeyword("indestructible"):
			case obj.Damage >= snap.Toughness || (obj.DeathtouchDamaged && obj.Damage > 0):
				b.destroy = append(b.destroy, id)
			}
		}
		if snap.HasType("planeswalker") && obj.Counters.Count(counters.KindLoyalty) <= 0 {
			b.toGraveyard = append(b.toGraveyard, id)
			continue
		}
		if obj.def != nil && obj.def.IsAura() && !g.auraAttachmentLegal(obj) {
			b.toGraveyard = append(b.toGraveyard, id)
			continue
		}
		if obj.AttachedTo != "" && snap.HasSubtype("equipment") && !g.isCreature(obj.AttachedTo) {
			b.unattach = append(b.unattach, id)
		}
		if obj.Counters.Has(counters.KindP1P1) && obj.Counters.Has(counters.KindM1M1) {
			b.annihilate = append(b.annihilate, id)
		}
		if snap.HasSupertype("legendary") {
			key := snap.ControllerID + "|" + snap.Name
			legends[key] = append(legends[key], id)
		}
	}
	keys := make([]string, 0, len(legends))
	for k := range legends {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if ids := legends[k]; len(ids) > 1 {
			keep := g.chooseLegend(ids)
			for _, id := range ids {
				if id != keep {
					b.toGraveyard = append(b.toGraveyard, id)
				}
			}
		}
	}

	for _, id := range g.sortedObjectIDs() {
		obj := g.objects[id]
		if obj.IsToken && obj.Zone != rules.ZoneBattlefield {
			b.ceaseTokens = append(b.ceaseTokens, id)
		}
	}
	return b
}

// auraAttachmentLegal reports whether an Aura is attached to something it can enchant.
func (g *Game) auraAttachmentLegal(aura *GameObject) bool {
	host, ok := g.objects[aura.AttachedTo]
	if !ok || host.Zone != rules.ZoneBattlefield {
		return false
	}
	req, err := targeting.ParseTargetType(aura.def.Enchant)
	if err != nil {
		return false
	}
	snap, _ := g.Characteristics(host.ID)
	switch req {
	case targeting.TargetCreature:
		return snap.IsCreature()
	case targeting.TargetCreatureYouControl:
		return snap.IsCreature() && snap.ControllerID == g.controllerOf(aura.ID)
	}
	return true
}

// chooseLegend picks the legendary permanent that survives the legend rule. Without
// a chooser the newest one stays.
func (g *Game) chooseLegend(ids []string) string {
	if g.opts.LegendChooser != nil {
		controller := g.controllerOf(ids[0])
		if pick := g.opts.LegendChooser(controller, append([]string(nil), ids...)); pick != "" {
			for _, id := range ids {
				if id == pick {
					return pick
				}
			}
		}
	}
	keep := ids[0]
	for _, id := range ids[1:] {
		if g.objects[id].Timestamp > g.objects[keep].Timestamp {
			keep = id
		}
	}
	return keep
}

func (g *Game) sortedObjectIDs() []string {
	ids := make([]string, 0, len(g.objects))
	for id := range g.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (g *Game) applyStateBasedActions(b *sbaBatch) {
	for _, id := range b.annihilate {
		if obj, ok := g.objects[id]; ok {
			if n := obj.Counters.Annihilate(); n > 0 {
				g.events.Publish(rules.NewEventWithAmount(rules.EventCountersChanged, id, "", obj.Controller, -n))
			}
		}
	}
	for _, id := range b.unattach {
		if obj, ok := g.objects[id]; ok {
			obj.AttachedTo = ""
		}
	}
	for _, id := range b.toGraveyard {
		if obj, ok := g.objects[id]; ok && obj.Zone == rules.ZoneBattlefield {
			g.moveOrLog(id, rules.ZoneBattlefield, rules.ZoneGraveyard)
		}
	}
	for _, id := range b.destroy {
		g.destroy(id, "", false)
	}
	for _, id := range b.ceaseTokens {
		g.removeToken(id)
	}

	evt := rules.NewEventWithAmount(rules.EventStateBasedAction, "", "", "", b.size())
	g.events.Publish(evt)

	// Every loser in the batch leaves together; if none remain the game is a draw.
	losers := make([]string, 0, len(b.losses))
	var lost []string
	for _, id := range g.order {
		if reason, ok := b.losses[id]; ok {
			losers = append(losers, id+":"+reason)
			if g.markLost(id, reason) {
				lost = append(lost, id)
			}
		}
	}
	for _, id := range lost {
		g.removeLoser(id)
	}
	if len(lost) > 0 {
		g.settleAfterLoss(lost, b.losses[lost[len(lost)-1]])
	}
	if g.logger != nil && len(losers) > 0 {
		g.logger.Debug("state-based actions applied", zap.Int("actions", b.size()), zap.Strings("losers", losers))
	}
}

// removeToken deletes a token that has left the battlefield.
func (g *Game) removeToken(id string) {
	obj, ok := g.objects[id]
	if !ok {
		return
	}
	if z := g.container(obj.Zone, obj.Owner); z != nil {
		z.remove(id)
	}
	if obj.Zone == rules.ZoneStack {
		g.stack.Remove(id)
	}
	delete(g.objects, id)
}

// playerLoses removes a player from the game. Objects they own leave the game and the
// game ends when at most one player remains.
func (g *Game) playerLoses(player, reason string) {
	if !g.markLost(player, reason) {
		return
	}
	g.removeLoser(player)
	g.settleAfterLoss([]string{player}, reason)
}

// markLost records a loss. It reports false when the player had already lost.
func (g *Game) markLost(player, reason string) bool {
	p := g.players[player]
	if p.Lost {
		return false
	}
	p.Lost = true
	p.LossReason = reason
	evt := rules.NewEvent(rules.EventPlayerLost, player, "", player)
	evt.Description = reason
	g.events.Publish(evt)
	if g.logger != nil {
		g.logger.Info("player lost", zap.String("game_id", g.ID), zap.String("player", player), zap.String("reason", reason))
	}
	return true
}

// removeLoser takes a player who lost out of priority, combat and the battlefield.
func (g *Game) removeLoser(player string) {
	g.priority.SetPlayers(g.livePlayers())
	g.removePlayerObjects(player)
	if g.combat != nil {
		g.combat.defendersPending = without(g.combat.defendersPending, player)
	}
}

// settleAfterLoss ends the game when at most one player is left, and otherwise moves
// priority and pending decisions off the players who just lost.
func (g *Game) settleAfterLoss(lost []string, reason string) {
	live := g.livePlayers()
	switch len(live) {
	case 0:
		g.endGame("", true, reason)
		return
	case 1:
		g.endGame(live[0], false, reason)
		return
	}
	for _, player := range lost {
		if g.turn.PriorityPlayer() == player {
			g.turn.SetPriority(g.nextLivePlayer(player))
		}
		if g.decision != nil && g.decision.Player == player {
			var orphaned *Decision
			orphaned, g.decision = g.decision, nil
			g.resumeDecision(orphaned)
		}
	}
}

// resumeDecision moves the game past a decision whose owner left the game.
func (g *Game) resumeDecision(d *Decision) {
	switch d.Kind {
	case DecisionMulligan, DecisionBottom:
		if err := g.nextMulligan(); err != nil && g.logger != nil {
			g.logger.Error("failed to resume mulligans", zap.String("game_id", g.ID), zap.Error(err))
		}
	case DecisionDeclareAttackers:
		if g.combat != nil {
			g.combat.declared = true
			g.combat.attackDraft = nil
		}
	case DecisionDeclareBlockers:
		if g.combat != nil {
			g.combat.blockDraft = nil
			g.nextBlockDecision()
		}
	case DecisionOrderBlockers:
		if g.combat != nil {
			g.nextOrderDecision()
		}
	case DecisionDiscard:
		g.finishCleanup()
	}
}

// removePlayerObjects takes everything a departed player owns out of the game and
// ends control effects that gave them other players' permanents.
func (g *Game) removePlayerObjects(player string) {
	for _, id := range g.battlefield.IDs() {
		obj := g.objects[id]
		if obj.Owner == player {
			g.moveOrLog(id, rules.ZoneBattlefield, rules.ZoneExile)
		}
	}
	for _, item := range g.stack.List() {
		if item.Controller != player {
			continue
		}
		g.stack.Remove(item.ID)
		if obj, ok := g.objects[item.ID]; ok && obj.Zone == rules.ZoneStack {
			g.moveOrLog(item.ID, rules.ZoneStack, rules.ZoneExile)
		}
	}
	for _, id := range g.battlefield.IDs() {
		if g.controllerOf(id) == player {
			g.layers.RemoveAffecting(id)
		}
	}
}

func (g *Game) endGame(winner string, draw bool, reason string) {
	if g.over {
		return
	}
	g.over = true
	g.winner = winner
	g.isDraw = draw
	g.reason = reason
	evt := rules.NewEvent(rules.EventGameOver, winner, "", winner)
	evt.Flag = draw
	evt.Description = reason
	g.events.Publish(evt)
	if g.logger != nil {
		g.logger.Info("game over",
			zap.String("game_id", g.ID),
			zap.String("winner", winner),
			zap.Bool("draw", draw),
			zap.String("reason", reason),
			zap.Int("turn", g.turn.TurnNumber()),
		)
	}
}

// triggerFault is reported when triggered abilities keep feeding each other.
func triggerFault(limit int) error {
	return &InternalFaultError{Op: "triggered abilities", Iterations: limit, Detail: fmt.Sprintf("more than %d trigger batches", limit)}
}
