package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTiming(t *testing.T) {
	main := TimingContext{
		Player:         "p1",
		ActivePlayer:   "p1",
		PriorityPlayer: "p1",
		Step:           StepMain1,
		StackEmpty:     true,
		LandLimit:      1,
	}

	tests := []struct {
		name   string
		mutate func(*TimingContext)
		timing Timing
		ok     bool
	}{
		{"sorcery in own main", func(*TimingContext) {}, TimingSorcery, true},
		{"land in own main", func(*TimingContext) {}, TimingLand, true},
		{"land drop used", func(c *TimingContext) { c.LandsPlayed = 1 }, TimingLand, false},
		{"sorcery on opponent turn", func(c *TimingContext) { c.ActivePlayer = "p2" }, TimingSorcery, false},
		{"instant on opponent turn", func(c *TimingContext) { c.ActivePlayer = "p2" }, TimingInstant, true},
		{"sorcery with stack", func(c *TimingContext) { c.StackEmpty = false }, TimingSorcery, false},
		{"instant with stack", func(c *TimingContext) { c.StackEmpty = false }, TimingInstant, true},
		{"sorcery in combat", func(c *TimingContext) { c.Step = StepDeclareBlockers }, TimingSorcery, false},
		{"no priority", func(c *TimingContext) { c.PriorityPlayer = "p2" }, TimingInstant, false},
		{"pending decision", func(c *TimingContext) { c.PendingDecision = true }, TimingManaAbility, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := main
			tt.mutate(&ctx)
			err := CheckTiming(ctx, tt.timing)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrTimingRestriction)
			}
		})
	}
}

func TestCheckStackItemLegality(t *testing.T) {
	item := StackItem{ID: "s", Targets: []Target{{ID: "a"}, {ID: "b"}}}
	alive := map[string]bool{"a": true}
	check := func(_ StackItem, _ int, tg Target) bool { return alive[tg.ID] }

	res := CheckStackItemLegality(item, check)
	assert.True(t, res.Legal)
	assert.Equal(t, []Target{{ID: "b"}}, res.Illegal)
	assert.True(t, res.SlotIllegal(1))
	assert.False(t, res.SlotIllegal(0))

	delete(alive, "a")
	res = CheckStackItemLegality(item, check)
	assert.False(t, res.Legal)
	assert.Len(t, res.Illegal, 2)

	assert.True(t, CheckStackItemLegality(StackItem{ID: "untargeted"}, check).Legal)
}
