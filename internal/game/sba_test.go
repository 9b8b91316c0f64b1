package game

import (
	"testing"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndestructibleCreatureSurvivesLethalDamage(t *testing.T) {
	h := newHarness(t)
	myr := h.battlefield("p1", "darksteel_myr")
	h.g.objects[myr].Damage = 1

	require.NoError(t, h.g.checkStateBasedActions())
	assert.Contains(t, h.g.Battlefield(), myr)
	assert.Equal(t, 1, h.g.objects[myr].Damage)

	h.g.objects[myr].DeathtouchDamaged = true
	require.NoError(t, h.g.checkStateBasedActions())
	assert.Contains(t, h.g.Battlefield(), myr)

	assert.False(t, h.g.destroy(myr, "", false))
	assert.Contains(t, h.g.Battlefield(), myr)
}

func TestSimultaneousLossIsDraw(t *testing.T) {
	h := newHarness(t)
	h.player("p1").Life = 0
	h.player("p2").Life = -3

	require.NoError(t, h.g.checkStateBasedActions())
	require.True(t, h.g.over)
	assert.True(t, h.g.isDraw)
	assert.Empty(t, h.g.winner)
	assert.True(t, h.player("p1").Lost)
	assert.True(t, h.player("p2").Lost)
	assert.Equal(t, LossLife, h.g.reason)
	assert.Equal(t, map[string]float64{"p1": 0, "p2": 0}, h.g.rewards())

	res := h.g.result()
	assert.True(t, res.Draw)
	assert.Empty(t, res.Winner)
	assert.Equal(t, 1, countEvents(h.g, rules.EventGameOver))
}

func TestSingleLossStillNamesWinner(t *testing.T) {
	h := newHarness(t)
	h.player("p2").Poison = 10

	require.NoError(t, h.g.checkStateBasedActions())
	require.True(t, h.g.over)
	assert.False(t, h.g.isDraw)
	assert.Equal(t, "p1", h.g.winner)
	assert.Equal(t, LossPoison, h.player("p2").LossReason)
}

func TestRegenerationShieldReplacesDestruction(t *testing.T) {
	h := newHarness(t)
	h.battlefield("p1", "swamp")
	skeletons := h.battlefield("p1", "drudge_skeletons")

	var activate *Action
	for _, a := range h.g.LegalActions() {
		if a.Kind == ActionActivateAbility && a.ObjectID == skeletons {
			a := a
			activate = &a
		}
	}
	require.NotNil(t, activate, "regenerate ability offered")
	h.step(*activate)
	require.Equal(t, 1, h.g.stack.Len())
	h.pass()
	h.pass()
	require.True(t, h.g.stack.IsEmpty())

	h.g.objects[skeletons].Damage = 1
	require.NoError(t, h.g.checkStateBasedActions())
	assert.Contains(t, h.g.Battlefield(), skeletons)
	assert.True(t, h.g.objects[skeletons].Tapped)
	assert.Zero(t, h.g.objects[skeletons].Damage)
	assert.Equal(t, 1, countEvents(h.g, rules.EventRegenerated))

	// The shield is used up.
	h.g.objects[skeletons].Damage = 1
	require.NoError(t, h.g.checkStateBasedActions())
	assert.Equal(t, []string{"drudge_skeletons"}, h.cardsIn("p1", rules.ZoneGraveyard))
}

func TestEquipmentOnNonCreatureIsUnattached(t *testing.T) {
	h := newHarness(t)
	land := h.battlefield("p1", "mountain")
	splitter := h.battlefield("p1", "bonesplitter")
	h.g.objects[splitter].AttachedTo = land

	require.NoError(t, h.g.checkStateBasedActions())
	assert.Empty(t, h.g.objects[splitter].AttachedTo)
	assert.Contains(t, h.g.Battlefield(), splitter)
}

func TestEquipmentStaysWhenCreatureDies(t *testing.T) {
	h := newHarness(t)
	bears := h.battlefield("p1", "grizzly_bears")
	splitter := h.battlefield("p1", "bonesplitter")
	h.g.objects[splitter].AttachedTo = bears
	snap, ok := h.g.Characteristics(bears)
	require.True(t, ok)
	require.Equal(t, 4, snap.Power)

	h.g.objects[bears].Damage = 2
	require.NoError(t, h.g.checkStateBasedActions())
	assert.Equal(t, []string{"grizzly_bears"}, h.cardsIn("p1", rules.ZoneGraveyard))
	assert.Contains(t, h.g.Battlefield(), splitter)
	assert.Empty(t, h.g.objects[splitter].AttachedTo)
}

func TestPlusAndMinusCountersAnnihilate(t *testing.T) {
	h := newHarness(t)
	bears := h.battlefield("p1", "grizzly_bears")
	h.g.objects[bears].Counters.Add(counters.KindP1P1, 2)
	h.g.objects[bears].Counters.Add(counters.KindM1M1, 1)

	require.NoError(t, h.g.checkStateBasedActions())
	obj := h.g.objects[bears]
	assert.Equal(t, 1, obj.Counters.Count(counters.KindP1P1))
	assert.Zero(t, obj.Counters.Count(counters.KindM1M1))
	snap, ok := h.g.Characteristics(bears)
	require.True(t, ok)
	assert.Equal(t, 3, snap.Power)
	assert.Equal(t, 3, snap.Toughness)
}

func TestMinusCountersKillCreature(t *testing.T) {
	h := newHarness(t)
	lions := h.battlefield("p1", "savannah_lions")
	h.g.objects[lions].Counters.Add(counters.KindM1M1, 1)

	require.NoError(t, h.g.checkStateBasedActions())
	assert.Equal(t, []string{"savannah_lions"}, h.cardsIn("p1", rules.ZoneGraveyard))
}

func TestPlaneswalkerWithoutLoyaltyGoesToGraveyard(t *testing.T) {
	h := newHarness(t)
	chandra := h.battlefield("p2", "chandra_novice")
	require.Equal(t, 4, loyalty(h.g.objects[chandra]))

	h.g.objects[chandra].Counters.Remove(counters.KindLoyalty, 4)
	require.NoError(t, h.g.checkStateBasedActions())
	assert.Equal(t, []string{"chandra_novice"}, h.cardsIn("p2", rules.ZoneGraveyard))
}
