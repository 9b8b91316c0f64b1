package mana

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineOrdersAlternativeTaxReduction(t *testing.T) {
	p := NewPipeline(
		Modifier{ID: "reduce", Kind: ModifierReduction, Generic: 2, Timestamp: 1},
		Modifier{ID: "tax", Kind: ModifierTax, Generic: 1, Timestamp: 2},
	)

	cost := p.Apply("spell", MustParseCost("{1}{R}"))
	// 1 + 1 tax - 2 reduction floors at zero generic.
	assert.Equal(t, 0, cost.Generic)
	assert.Equal(t, 1, cost.Colored[ManaRed])

	p.Add(Modifier{ID: "alt", Kind: ModifierAlternative, Alternative: MustParseCost("{3}"), Timestamp: 3})
	cost = p.Apply("spell", MustParseCost("{1}{R}"))
	assert.Equal(t, 2, cost.Generic, "alternative {3}, +1 tax, -2 reduction")
	assert.Equal(t, 0, cost.Colored[ManaRed])
}

func TestPipelineRespectsAppliesTo(t *testing.T) {
	p := NewPipeline(Modifier{
		ID:        "creatures-only",
		Kind:      ModifierReduction,
		Generic:   1,
		AppliesTo: func(id string) bool { return id == "bear" },
	})
	base := MustParseCost("{1}{G}")
	assert.Equal(t, 0, p.Apply("bear", base).Generic)
	assert.Equal(t, 1, p.Apply("bolt", base).Generic)
	assert.Equal(t, 1, base.Generic)

	p.Remove("creatures-only")
	assert.Equal(t, 0, p.Len())
}
