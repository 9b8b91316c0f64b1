package counters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersNeverNegative(t *testing.T) {
	cs := New()
	cs.Add(KindLoyalty, 3)

	removed := cs.Remove(KindLoyalty, 5)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 0, cs.Count(KindLoyalty))
	assert.False(t, cs.Has(KindLoyalty))

	require.Error(t, cs.Set(KindPoison, -1))
	require.NoError(t, cs.Set(KindPoison, 2))
	assert.Equal(t, 2, cs.Count(KindPoison))
}

func TestCountersBoostAndAnnihilate(t *testing.T) {
	cs := New()
	cs.Add(KindP1P1, 3)
	cs.Add(KindM1M1, 1)
	cs.Add(KindCharge, 4)

	p, tough := cs.Boost()
	assert.Equal(t, 2, p)
	assert.Equal(t, 2, tough)

	assert.Equal(t, 1, cs.Annihilate())
	assert.Equal(t, 2, cs.Count(KindP1P1))
	assert.Equal(t, 0, cs.Count(KindM1M1))
	assert.Equal(t, 0, cs.Annihilate())
}

func TestKindBoostParsing(t *testing.T) {
	p, tough, ok := BoostKind(2, -1).Boost()
	require.True(t, ok)
	assert.Equal(t, 2, p)
	assert.Equal(t, -1, tough)

	_, _, ok = KindLoyalty.Boost()
	assert.False(t, ok)
}
