package mana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func source(id string, types ...ManaType) Unit {
	return Unit{SourceID: id, Produces: types}
}

func TestPayColoredThenGeneric(t *testing.T) {
	pool := Pool{ManaGreen: 2, ManaRed: 1}

	next, err := Pay(MustParseCost("{1}{G}"), 0, pool)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Total())
	assert.Equal(t, 3, pool.Total(), "input pool must not change")
}

func TestPayIsIdempotentOnFailure(t *testing.T) {
	pool := Pool{ManaGreen: 1, ManaRed: 1}
	before := pool.Clone()

	next, err := Pay(MustParseCost("{U}{U}"), 0, pool)
	require.ErrorIs(t, err, ErrInsufficientMana)
	assert.True(t, before.Equal(pool))
	assert.True(t, before.Equal(next))
}

func TestPlanBacktracksOverFlexibleSources(t *testing.T) {
	// A dual land must be saved for the blue requirement even though it is listed first.
	units := []Unit{
		source("dual", ManaWhite, ManaBlue),
		source("plains", ManaWhite),
	}
	plan, err := PlanPayment(MustParseCost("{W}{U}"), 0, units, 0)
	require.NoError(t, err)

	paid := map[string]ManaType{}
	for _, use := range plan.Uses {
		paid[use.SourceID] = use.Type
	}
	assert.Equal(t, ManaWhite, paid["plains"])
	assert.Equal(t, ManaBlue, paid["dual"])
}

func TestPlanHybridReservesAnyColorSource(t *testing.T) {
	units := []Unit{
		source("any", ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen),
		source("mountain", ManaRed),
	}
	// {G/U} must take the any-color source, otherwise {R} and {G/U} cannot both be paid.
	assert.True(t, CanPay(MustParseCost("{R}{G/U}"), 0, units))
	assert.False(t, CanPay(MustParseCost("{R}{R}{G/U}"), 0, units))
}

func TestPlanTwoGenericHybridFallsBackToGeneric(t *testing.T) {
	units := []Unit{source("a", ManaRed), source("b", ManaRed)}
	assert.True(t, CanPay(MustParseCost("{2/B}"), 0, units))
	assert.False(t, CanPay(MustParseCost("{2/B}"), 0, units[:1]))
}

func TestPhyrexianUsesLifeWhenAllowed(t *testing.T) {
	plan, err := PlanPayment(MustParseCost("{B/P}"), 0, nil, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.LifePaid)

	_, err = PlanPayment(MustParseCost("{B/P}"), 0, nil, 1)
	assert.ErrorIs(t, err, ErrInsufficientMana)
}

func TestMaxX(t *testing.T) {
	pool := Pool{ManaRed: 4}
	assert.Equal(t, 3, MaxX(MustParseCost("{X}{R}"), pool.Units()))
	assert.Equal(t, -1, MaxX(MustParseCost("{X}{U}"), pool.Units()))
}

func TestGenericPrefersPoolManaOverSources(t *testing.T) {
	units := append(Pool{ManaColorless: 1}.Units(), source("forest", ManaGreen))
	plan, err := PlanPayment(MustParseCost("{1}"), 0, units, 0)
	require.NoError(t, err)
	assert.Empty(t, plan.SourceIDs())
}

func TestPlanBacktracksWhenGreedyChoiceStrandsAColor(t *testing.T) {
	// Greedy gives "azorius" to {W}; the search must undo that to find {U}.
	units := []Unit{
		source("azorius", ManaWhite, ManaBlue),
		source("orzhov", ManaWhite, ManaBlack),
	}
	plan, err := PlanPayment(MustParseCost("{W}{U}"), 0, units, 0)
	require.NoError(t, err)
	require.Len(t, plan.Uses, 2)
	for _, use := range plan.Uses {
		if use.SourceID == "azorius" {
			assert.Equal(t, ManaBlue, use.Type)
		} else {
			assert.Equal(t, ManaWhite, use.Type)
		}
	}
}
