package game

import (
	"testing"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attack declares p1's attackers against target and moves to p2's block decision.
func (h *harness) attack(target string, attackers ...string) {
	h.t.Helper()
	h.passUntil(rules.StepDeclareAttackers)
	require.NotNil(h.t, h.g.decision)
	require.Equal(h.t, DecisionDeclareAttackers, h.g.decision.Kind)
	for _, id := range attackers {
		h.step(Action{Kind: ActionDeclareAttacker, Player: "p1", ObjectID: id, Attack: target})
	}
	h.step(Action{Kind: ActionConfirmAttackers, Player: "p1"})
	h.passUntil(rules.StepDeclareBlockers)
	require.NotNil(h.t, h.g.decision)
	require.Equal(h.t, DecisionDeclareBlockers, h.g.decision.Kind)
}

// block declares p2's blockers, blocker then attacker, and confirms them.
func (h *harness) block(pairs ...string) {
	h.t.Helper()
	for i := 0; i+1 < len(pairs); i += 2 {
		h.step(Action{Kind: ActionDeclareBlocker, Player: "p2", ObjectID: pairs[i], Attack: pairs[i+1]})
	}
	h.step(Action{Kind: ActionConfirmBlockers, Player: "p2"})
}

func TestFirstStrikeKillsBlockerBeforeItDealsDamage(t *testing.T) {
	h := newHarness(t)
	knight := h.battlefield("p1", "white_knight")
	lions := h.battlefield("p2", "savannah_lions")

	h.attack("p2", knight)
	h.block(lions, knight)
	h.passUntil(rules.StepFirstStrikeDamage)
	require.Equal(t, rules.StepFirstStrikeDamage, h.g.turn.CurrentStep())
	assert.Equal(t, []string{"savannah_lions"}, h.cardsIn("p2", rules.ZoneGraveyard))

	h.passUntil(rules.StepCombatDamage)
	assert.Zero(t, h.g.objects[knight].Damage)
	assert.Contains(t, h.g.Battlefield(), knight)
}

func TestRegularBlockerStrikesBackAfterFirstStrike(t *testing.T) {
	h := newHarness(t)
	knight := h.battlefield("p1", "white_knight")
	giant := h.battlefield("p2", "hill_giant")

	h.attack("p2", knight)
	h.block(giant, knight)
	h.passUntil(rules.StepCombatDamage)

	assert.Equal(t, 2, h.g.objects[giant].Damage)
	assert.Equal(t, []string{"white_knight"}, h.cardsIn("p1", rules.ZoneGraveyard))
}

func TestDoubleStrikeDealsDamageTwice(t *testing.T) {
	h := newHarness(t)
	ace := h.battlefield("p1", "fencing_ace")

	h.attack("p2", ace)
	h.block()
	h.passUntil(rules.StepFirstStrikeDamage)
	assert.Equal(t, 19, h.player("p2").Life)
	h.passUntil(rules.StepCombatDamage)
	assert.Equal(t, 18, h.player("p2").Life)
}

func TestFirstStrikerPumpedAfterFirstDamageDoesNotHitAgain(t *testing.T) {
	striker := &cards.Definition{
		ID:       "test_striker",
		Name:     "Test Striker",
		ManaCost: "{1}{W}",
		Types:    []string{"Creature"},
		Keywords: []string{"first_strike"},
	}
	striker.Power, striker.Toughness = cards.Ints(0, 2)
	h := newHarness(t, striker)
	attacker := h.battlefield("p1", "test_striker")
	h.battlefield("p1", "forest")
	growth := h.hand("p1", "giant_growth")

	h.attack("p2", attacker)
	h.block()
	h.passUntil(rules.StepFirstStrikeDamage)
	require.Equal(t, rules.StepFirstStrikeDamage, h.g.turn.CurrentStep())
	assert.True(t, h.g.combat.FirstStrikeDealt[attacker])

	h.step(Action{Kind: ActionCastSpell, Player: "p1", ObjectID: growth, Targets: []rules.Target{{ID: attacker}}})
	h.pass()
	h.pass()
	snap, ok := h.g.Characteristics(attacker)
	require.True(t, ok)
	require.Equal(t, 3, snap.Power)

	h.passUntil(rules.StepCombatDamage)
	assert.Equal(t, 20, h.player("p2").Life)
}

func TestDeathtouchDamageIsLethal(t *testing.T) {
	h := newHarness(t)
	rats := h.battlefield("p1", "typhoid_rats")
	giant := h.battlefield("p2", "hill_giant")

	h.attack("p2", rats)
	h.block(giant, rats)
	h.passUntil(rules.StepCombatDamage)

	assert.Equal(t, []string{"hill_giant"}, h.cardsIn("p2", rules.ZoneGraveyard))
	assert.Equal(t, []string{"typhoid_rats"}, h.cardsIn("p1", rules.ZoneGraveyard))
}

func TestDeathtouchNeedsOneDamagePerBlocker(t *testing.T) {
	h := newHarness(t)
	nighthawk := h.battlefield("p1", "vampire_nighthawk")
	a := h.battlefield("p2", "giant_spider")
	b := h.battlefield("p2", "giant_spider")

	h.attack("p2", nighthawk)
	h.block(a, nighthawk, b, nighthawk)
	require.NotNil(t, h.g.decision)
	require.Equal(t, DecisionOrderBlockers, h.g.decision.Kind)
	h.step(Action{Kind: ActionOrderBlockers, Player: "p1", ObjectID: nighthawk, Order: []string{a, b}})
	h.passUntil(rules.StepCombatDamage)

	assert.Equal(t, []string{"giant_spider", "giant_spider"}, h.cardsIn("p2", rules.ZoneGraveyard))
	assert.Equal(t, 22, h.player("p1").Life, "lifelink counts damage dealt to creatures")
}

func TestLifelinkGainsLifeOnPlayerDamage(t *testing.T) {
	h := newHarness(t)
	nighthawk := h.battlefield("p1", "vampire_nighthawk")

	h.attack("p2", nighthawk)
	h.block()
	h.passUntil(rules.StepCombatDamage)

	assert.Equal(t, 18, h.player("p2").Life)
	assert.Equal(t, 22, h.player("p1").Life)
}

func TestMenaceNeedsTwoBlockers(t *testing.T) {
	h := newHarness(t)
	brute := h.battlefield("p1", "boggart_brute")
	first := h.battlefield("p2", "grizzly_bears")
	second := h.battlefield("p2", "grizzly_bears")

	h.attack("p2", brute)
	h.step(Action{Kind: ActionDeclareBlocker, Player: "p2", ObjectID: first, Attack: brute})

	confirm := Action{Kind: ActionConfirmBlockers, Player: "p2"}
	assert.False(t, h.g.LegalActions().Contains(confirm))
	before := h.checksum()
	_, err := h.engine.Step(h.ctx, confirm)
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, before, h.checksum())

	err = h.g.DeclareBlockers("p2", []BlockDeclaration{{Blocker: first, Attacker: brute}})
	assert.ErrorIs(t, err, ErrIllegalBlockAssignment)
	assert.False(t, h.g.combat.IsBlocked(brute))

	h.step(Action{Kind: ActionDeclareBlocker, Player: "p2", ObjectID: second, Attack: brute})
	h.step(confirm)
	assert.True(t, h.g.combat.IsBlocked(brute))
	assert.ElementsMatch(t, []string{first, second}, h.g.combat.Blocks[brute])
}

func TestAttackingPlaneswalkerRemovesLoyalty(t *testing.T) {
	h := newHarness(t)
	giant := h.battlefield("p1", "hill_giant")
	chandra := h.battlefield("p2", "chandra_novice")

	h.attack(chandra, giant)
	h.block()
	h.passUntil(rules.StepCombatDamage)

	assert.Equal(t, 1, loyalty(h.g.objects[chandra]))
	assert.Equal(t, 20, h.player("p2").Life)
}

func TestLethalAttackOnPlaneswalkerPutsItInGraveyard(t *testing.T) {
	h := newHarness(t)
	dreadmaw := h.battlefield("p1", "colossal_dreadmaw")
	chandra := h.battlefield("p2", "chandra_novice")

	h.attack(chandra, dreadmaw)
	h.block()
	h.passUntil(rules.StepCombatDamage)

	assert.Equal(t, []string{"chandra_novice"}, h.cardsIn("p2", rules.ZoneGraveyard))
	assert.Equal(t, 20, h.player("p2").Life)
}
