package game

import (
	"fmt"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"go.uber.org/zap"
)

// AttackDeclaration assigns one attacker to the player or planeswalker it attacks.
type AttackDeclaration struct {
	Attacker string `json:"attacker"`
	Target   string `json:"target"`
}

// BlockDeclaration assigns one blocker to the attacker it blocks.
type BlockDeclaration struct {
	Blocker  string `json:"blocker"`
	Attacker string `json:"attacker"`
}

// CombatState is the combat of the current turn. It exists from the beginning of
// combat step until the end of combat step.
type CombatState struct {
	AttackingPlayer string
	// Attackers maps each attacking creature to the player or planeswalker it attacks.
	Attackers map[string]string
	// Blocks maps each attacker to its blockers in declaration order.
	Blocks map[string][]string
	// Blocking maps each blocker to the attacker it blocks.
	Blocking map[string]string
	// DamageOrder is the attacking player's damage assignment order per attacker.
	DamageOrder      map[string][]string
	FirstStrikeDealt map[string]bool

	attackOrder []string
	blocked     map[string]bool
	declared    bool
	orderNeeded []string

	attackDraft      []AttackDeclaration
	blockDraft       []BlockDeclaration
	defendersPending []string
}

func newCombatState(attackingPlayer string) *CombatState {
	return &CombatState{
		AttackingPlayer:  attackingPlayer,
		Attackers:        make(map[string]string),
		Blocks:           make(map[string][]string),
		Blocking:         make(map[string]string),
		DamageOrder:      make(map[string][]string),
		FirstStrikeDealt: make(map[string]bool),
		blocked:          make(map[string]bool),
	}
}

// AttackerIDs returns the attackers in declaration order.
func (c *CombatState) AttackerIDs() []string {
	return append([]string(nil), c.attackOrder...)
}

// participants returns the attackers followed by their blockers.
func (c *CombatState) participants() []string {
	out := append([]string(nil), c.attackOrder...)
	for _, att := range c.attackOrder {
		out = append(out, c.Blocks[att]...)
	}
	return out
}

// IsBlocked reports whether attacker was blocked. An attacker stays blocked even
// after all its blockers are removed from combat.
func (c *CombatState) IsBlocked(attacker string) bool {
	return c.blocked[attacker]
}

// remove takes an object out of combat.
func (c *CombatState) remove(id string) {
	if _, ok := c.Attackers[id]; ok {
		delete(c.Attackers, id)
		delete(c.DamageOrder, id)
		for i, a := range c.attackOrder {
			if a == id {
				c.attackOrder = append(c.attackOrder[:i], c.attackOrder[i+1:]...)
				break
			}
		}
		for _, b := range c.Blocks[id] {
			delete(c.Blocking, b)
		}
		delete(c.Blocks, id)
	}
	if att, ok := c.Blocking[id]; ok {
		delete(c.Blocking, id)
		c.Blocks[att] = without(c.Blocks[att], id)
		c.DamageOrder[att] = without(c.DamageOrder[att], id)
	}
	c.orderNeeded = without(c.orderNeeded, id)
	for i, d := range c.attackDraft {
		if d.Attacker == id || d.Target == id {
			c.attackDraft = append(c.attackDraft[:i], c.attackDraft[i+1:]...)
			break
		}
	}
	kept := c.blockDraft[:0]
	for _, d := range c.blockDraft {
		if d.Blocker != id && d.Attacker != id {
			kept = append(kept, d)
		}
	}
	c.blockDraft = kept
}

func without(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// canAttack reports why id cannot attack for player, or nil.
func (g *Game) canAttack(id, player string) error {
	obj, ok := g.objects[id]
	if !ok || obj.Zone != rules.ZoneBattlefield {
		return fmt.Errorf("%s is not on the battlefield", id)
	}
	snap, _ := g.Characteristics(id)
	switch {
	case snap.ControllerID != player:
		return fmt.Errorf("%s is not controlled by %s", id, player)
	case !snap.IsCreature():
		return fmt.Errorf("%s is not a creature", id)
	case obj.Tapped:
		return fmt.Errorf("%s is tapped", id)
	case obj.SummoningSick && !snap.HasKeyword("haste"):
		return fmt.Errorf("%s has summoning sickness", id)
	case snap.HasKeyword("defender"):
		return fmt.Errorf("%s has defender", id)
	}
	return nil
}

// attackTargets lists what player may attack: each opponent and each planeswalker they control.
func (g *Game) attackTargets(player string) []string {
	out := g.opponents(player)
	for _, id := range g.battlefield.ids {
		snap, _ := g.Characteristics(id)
		if snap.HasType("planeswalker") && snap.ControllerID != player && !g.players[snap.ControllerID].Lost {
			out = append(out, id)
		}
	}
	return out
}

func (g *Game) validAttackTarget(player, target string) bool {
	for _, t := range g.attackTargets(player) {
		if t == target {
			return true
		}
	}
	return false
}

func (g *Game) eligibleAttackers(player string) []string {
	var out []string
	for _, id := range g.battlefield.ids {
		if g.canAttack(id, player) == nil {
			out = append(out, id)
		}
	}
	return out
}

func (g *Game) validateAttacks(player string, decls []AttackDeclaration) error {
	if g.combat == nil || g.turn.CurrentStep() != rules.StepDeclareAttackers || g.combat.declared {
		return fmt.Errorf("%w: attackers cannot be declared now", ErrIllegalAction)
	}
	if player != g.turn.ActivePlayer() {
		return fmt.Errorf("%w: only the active player attacks", ErrIllegalAction)
	}
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if seen[d.Attacker] {
			return fmt.Errorf("%w: %s declared twice", ErrIllegalAction, d.Attacker)
		}
		seen[d.Attacker] = true
		if err := g.canAttack(d.Attacker, player); err != nil {
			return fmt.Errorf("%w: %v", ErrIllegalAction, err)
		}
		if !g.validAttackTarget(player, d.Target) {
			return fmt.Errorf("%w: %s cannot be attacked", ErrIllegalAction, d.Target)
		}
	}
	return nil
}

// DeclareAttackers validates the whole set of attacks and then applies it: attackers
// without vigilance tap, and each attack is announced so attack triggers fire.
func (g *Game) DeclareAttackers(player string, decls []AttackDeclaration) error {
	if err := g.validateAttacks(player, decls); err != nil {
		return err
	}
	c := g.combat
	for _, d := range decls {
		if !g.hasKeyword(d.Attacker, "vigilance") {
			g.tap(d.Attacker)
		}
		c.Attackers[d.Attacker] = d.Target
		c.attackOrder = append(c.attackOrder, d.Attacker)
		evt := rules.NewEvent(rules.EventAttackDeclared, d.Attacker, d.Attacker, player)
		evt.Metadata = map[string]string{"defender": d.Target}
		g.events.Publish(evt)
	}
	c.declared = true
	c.attackDraft = nil
	g.combatHappened = len(decls) > 0
	if g.logger != nil {
		g.logger.Debug("attackers declared", zap.String("player", player), zap.Int("count", len(decls)))
	}
	return nil
}

// defenderOf returns the player defending against attacker.
func (g *Game) defenderOf(attacker string) string {
	target, ok := g.combat.Attackers[attacker]
	if !ok {
		return ""
	}
	if _, isPlayer := g.players[target]; isPlayer {
		return target
	}
	return g.controllerOf(target)
}

// defendingPlayers returns the attacked players in APNAP order.
func (g *Game) defendingPlayers() []string {
	attacked := make(map[string]bool)
	for _, a := range g.combat.attackOrder {
		attacked[g.defenderOf(a)] = true
	}
	var out []string
	for _, p := range rules.APNAPOrder(g.order, g.turn.ActivePlayer()) {
		if attacked[p] && !g.players[p].Lost {
			out = append(out, p)
		}
	}
	return out
}

// canBlock reports why blocker cannot block attacker for player, or nil.
// Restrictions on the number of blockers are checked on the whole set.
func (g *Game) canBlock(blocker, attacker, player string) error {
	obj, ok := g.objects[blocker]
	if !ok || obj.Zone != rules.ZoneBattlefield {
		return fmt.Errorf("%s is not on the battlefield", blocker)
	}
	snap, _ := g.Characteristics(blocker)
	if snap.ControllerID != player || !snap.IsCreature() {
		return fmt.Errorf("%s is not a creature controlled by %s", blocker, player)
	}
	if obj.Tapped {
		return fmt.Errorf("%s is tapped", blocker)
	}
	if _, attacking := g.combat.Attackers[attacker]; !attacking {
		return fmt.Errorf("%s is not attacking", attacker)
	}
	if g.defenderOf(attacker) != player {
		return fmt.Errorf("%s is not attacking %s", attacker, player)
	}
	if g.hasKeyword(attacker, "flying") && !snap.HasKeyword("flying") && !snap.HasKeyword("reach") {
		return fmt.Errorf("%s cannot block a flying creature", blocker)
	}
	return nil
}

func (g *Game) validateBlocks(player string, decls []BlockDeclaration) error {
	if g.combat == nil || g.turn.CurrentStep() != rules.StepDeclareBlockers {
		return fmt.Errorf("%w: blockers cannot be declared now", ErrIllegalBlockAssignment)
	}
	if len(g.combat.defendersPending) == 0 || g.combat.defendersPending[0] != player {
		return fmt.Errorf("%w: %s is not declaring blockers", ErrIllegalBlockAssignment, player)
	}
	used := make(map[string]bool, len(decls))
	per := make(map[string]int)
	for _, d := range decls {
		if used[d.Blocker] {
			return fmt.Errorf("%w: %s blocks more than one attacker", ErrIllegalBlockAssignment, d.Blocker)
		}
		used[d.Blocker] = true
		if err := g.canBlock(d.Blocker, d.Attacker, player); err != nil {
			return fmt.Errorf("%w: %v", ErrIllegalBlockAssignment, err)
		}
		per[d.Attacker]++
	}
	for attacker, n := range per {
		if n == 1 && g.hasKeyword(attacker, "menace") {
			return fmt.Errorf("%w: %s has menace and needs two or more blockers", ErrIllegalBlockAssignment, attacker)
		}
	}
	return nil
}

// DeclareBlockers validates the whole set of blocks for one defending player and then applies it.
func (g *Game) DeclareBlockers(player string, decls []BlockDeclaration) error {
	if err := g.validateBlocks(player, decls); err != nil {
		return err
	}
	c := g.combat
	for _, d := range decls {
		c.Blocks[d.Attacker] = append(c.Blocks[d.Attacker], d.Blocker)
		c.Blocking[d.Blocker] = d.Attacker
		c.blocked[d.Attacker] = true
		evt := rules.NewEvent(rules.EventBlockDeclared, d.Blocker, d.Attacker, player)
		g.events.Publish(evt)
	}
	for attacker, blockers := range c.Blocks {
		c.DamageOrder[attacker] = append([]string(nil), blockers...)
	}
	c.defendersPending = c.defendersPending[1:]
	c.blockDraft = nil
	if g.logger != nil {
		g.logger.Debug("blockers declared", zap.String("player", player), zap.Int("count", len(decls)))
	}
	return nil
}

// SetDamageOrder records the attacking player's damage assignment order for attacker.
func (g *Game) SetDamageOrder(attacker string, order []string) error {
	if g.combat == nil {
		return fmt.Errorf("%w: no combat", ErrIllegalAction)
	}
	if !isPermutation(order, g.combat.Blocks[attacker]) {
		return fmt.Errorf("%w: order must list the blockers of %s exactly once", ErrIllegalAction, attacker)
	}
	g.combat.DamageOrder[attacker] = append([]string(nil), order...)
	g.combat.orderNeeded = without(g.combat.orderNeeded, attacker)
	return nil
}

func isPermutation(order, set []string) bool {
	if len(order) != len(set) {
		return false
	}
	count := make(map[string]int, len(set))
	for _, id := range set {
		count[id]++
	}
	for _, id := range order {
		if count[id] == 0 {
			return false
		}
		count[id]--
	}
	return true
}

func (g *Game) combatHasFirstStrike() bool {
	if g.combat == nil {
		return false
	}
	check := func(id string) bool {
		return g.hasKeyword(id, "first_strike") || g.hasKeyword(id, "double_strike")
	}
	for _, a := range g.combat.attackOrder {
		if check(a) {
			return true
		}
	}
	for b := range g.combat.Blocking {
		if check(b) {
			return true
		}
	}
	return false
}

type damageAssignment struct {
	source string
	target rules.Target
	amount int
}

// dealsDamageThisStep reports whether a combatant deals damage in the current damage step.
func (g *Game) dealsDamageThisStep(id string, firstStrikeStep bool) bool {
	first := g.hasKeyword(id, "first_strike")
	double := g.hasKeyword(id, "double_strike")
	if firstStrikeStep {
		return first || double
	}
	if !g.turn.HasFirstStrikeStep() {
		return true
	}
	return double || !g.combat.FirstStrikeDealt[id]
}

// lethalDamage is the damage that is lethal to a creature given damage already marked on it.
func (g *Game) lethalDamage(id string, deathtouch bool) int {
	snap, ok := g.Characteristics(id)
	if !ok {
		return 0
	}
	lethal := snap.Toughness - g.objects[id].Damage
	if lethal < 0 {
		lethal = 0
	}
	if deathtouch && lethal > 1 {
		lethal = 1
	}
	return lethal
}

// assignCombatDamage computes every combat damage assignment of the step before any
// of it is dealt.
func (g *Game) assignCombatDamage(firstStrikeStep bool) []damageAssignment {
	c := g.combat
	var out []damageAssignment
	for _, att := range c.attackOrder {
		if !g.dealsDamageThisStep(att, firstStrikeStep) {
			continue
		}
		snap, _ := g.Characteristics(att)
		if snap.Power <= 0 {
			continue
		}
		out = append(out, g.assignAttackerDamage(att, snap.Power, snap.HasKeyword("deathtouch"), snap.HasKeyword("trample"))...)
	}
	for _, att := range c.attackOrder {
		for _, b := range c.Blocks[att] {
			if !g.dealsDamageThisStep(b, firstStrikeStep) {
				continue
			}
			snap, _ := g.Characteristics(b)
			if snap.Power > 0 {
				out = append(out, damageAssignment{source: b, target: rules.Target{ID: att}, amount: snap.Power})
			}
		}
	}
	return out
}

func (g *Game) attackTarget(att string) (rules.Target, bool) {
	target := g.combat.Attackers[att]
	if _, isPlayer := g.players[target]; isPlayer {
		return rules.Target{ID: target, Player: true}, !g.players[target].Lost
	}
	obj, ok := g.objects[target]
	return rules.Target{ID: target}, ok && obj.Zone == rules.ZoneBattlefield
}

// assignAttackerDamage splits an attacker's damage over its blockers in damage order:
// each blocker gets lethal damage before the next one gets any, and what is left goes
// to the last blocker, or to the attacked player or planeswalker with trample.
func (g *Game) assignAttackerDamage(att string, power int, deathtouch, trample bool) []damageAssignment {
	c := g.combat
	if !c.blocked[att] {
		if target, ok := g.attackTarget(att); ok {
			return []damageAssignment{{source: att, target: target, amount: power}}
		}
		return nil
	}
	order := c.DamageOrder[att]
	if len(order) == 0 {
		order = c.Blocks[att]
	}
	if len(order) == 0 {
		if target, ok := g.attackTarget(att); ok && trample {
			return []damageAssignment{{source: att, target: target, amount: power}}
		}
		return nil
	}

	var out []damageAssignment
	remaining := power
	amounts := make([]int, len(order))
	for i, b := range order {
		if remaining == 0 {
			break
		}
		amt := g.lethalDamage(b, deathtouch)
		if amt > remaining {
			amt = remaining
		}
		amounts[i] = amt
		remaining -= amt
	}
	if remaining > 0 {
		if target, ok := g.attackTarget(att); ok && trample {
			out = append(out, damageAssignment{source: att, target: target, amount: remaining})
		} else {
			amounts[len(order)-1] += remaining
		}
	}
	for i, b := range order {
		if amounts[i] > 0 {
			out = append(out, damageAssignment{source: att, target: rules.Target{ID: b}, amount: amounts[i]})
		}
	}
	return out
}

// combatDamage deals the damage of one combat damage step simultaneously.
func (g *Game) combatDamage(firstStrikeStep bool) {
	if g.combat == nil || len(g.combat.attackOrder) == 0 {
		return
	}
	if firstStrikeStep {
		// A creature with first strike now skips regular damage even if it assigned none.
		for _, id := range g.combat.participants() {
			if g.dealsDamageThisStep(id, true) {
				g.combat.FirstStrikeDealt[id] = true
			}
		}
	}
	assignments := g.assignCombatDamage(firstStrikeStep)
	for _, a := range assignments {
		g.dealDamage(a.source, a.target, a.amount)
	}
	if g.logger != nil {
		g.logger.Debug("combat damage dealt",
			zap.Bool("first_strike", firstStrikeStep),
			zap.Int("assignments", len(assignments)),
		)
	}
}

func (g *Game) endCombat() {
	g.combat = nil
	g.layers.CleanupEndOfCombat()
}

// loyalty returns the loyalty counters on a planeswalker.
func loyalty(obj *GameObject) int {
	return obj.Counters.Count(counters.KindLoyalty)
}
