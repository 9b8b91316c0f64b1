package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnManagerSequence(t *testing.T) {
	tm := NewTurnManager("Alice")

	expected := []struct {
		phase Phase
		step  Step
	}{
		{PhaseBeginning, StepUntap},
		{PhaseBeginning, StepUpkeep},
		{PhaseBeginning, StepDraw},
		{PhasePrecombatMain, StepMain1},
		{PhaseCombat, StepBeginCombat},
		{PhaseCombat, StepDeclareAttackers},
		{PhaseCombat, StepDeclareBlockers},
		{PhaseCombat, StepCombatDamage},
		{PhaseCombat, StepEndCombat},
		{PhasePostcombatMain, StepMain2},
		{PhaseEnding, StepEnd},
		{PhaseEnding, StepCleanup},
	}

	for i, exp := range expected {
		if tm.CurrentPhase() != exp.phase {
			t.Fatalf("step %d: expected phase %s, got %s", i, exp.phase, tm.CurrentPhase())
		}
		if tm.CurrentStep() != exp.step {
			t.Fatalf("step %d: expected step %s, got %s", i, exp.step, tm.CurrentStep())
		}
		if i < len(expected)-1 {
			tm.AdvanceStep("")
		}
	}
}

func TestTurnManagerAdvanceWrapsTurn(t *testing.T) {
	tm := NewTurnManager("Alice")

	for i := 0; i < 11; i++ {
		tm.AdvanceStep("")
		if tm.TurnNumber() != 1 {
			t.Fatalf("expected to remain on turn 1, got turn %d at step %d", tm.TurnNumber(), i)
		}
	}

	tm.SetPriority("Alice")
	phase, step := tm.AdvanceStep("Bob")
	if tm.TurnNumber() != 2 {
		t.Fatalf("expected turn number 2 after wrap, got %d", tm.TurnNumber())
	}
	if tm.ActivePlayer() != "Bob" || tm.PriorityPlayer() != "Bob" {
		t.Fatalf("expected Bob active with priority, got %s/%s", tm.ActivePlayer(), tm.PriorityPlayer())
	}
	if phase != PhaseBeginning || step != StepUntap {
		t.Fatalf("expected new turn to start at BEGINNING/UNTAP, got %s/%s", phase, step)
	}
}

func TestTurnManagerFirstStrikeStep(t *testing.T) {
	tm := NewTurnManager("Alice")
	for tm.CurrentStep() != StepDeclareBlockers {
		tm.AdvanceStep("")
	}

	tm.SetFirstStrike(true)
	assert.Equal(t, StepDeclareBlockers, tm.CurrentStep())
	assert.True(t, tm.HasFirstStrikeStep())

	_, step := tm.AdvanceStep("")
	assert.Equal(t, StepFirstStrikeDamage, step)
	_, step = tm.AdvanceStep("")
	assert.Equal(t, StepCombatDamage, step)

	for tm.CurrentStep() != StepCleanup {
		tm.AdvanceStep("")
	}
	tm.AdvanceStep("Bob")
	assert.False(t, tm.HasFirstStrikeStep(), "first strike step only lasts one turn")
	assert.NotContains(t, tm.Steps(), StepFirstStrikeDamage)
}

func TestStepPredicates(t *testing.T) {
	assert.True(t, StepMain1.IsMain())
	assert.True(t, StepMain2.IsMain())
	assert.False(t, StepEnd.IsMain())
	assert.True(t, StepDeclareBlockers.IsCombat())
	assert.False(t, StepMain2.IsCombat())
	assert.False(t, StepUntap.GrantsPriority())
	assert.False(t, StepCleanup.GrantsPriority())
	assert.True(t, StepUpkeep.GrantsPriority())

	text, err := StepCombatDamage.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "COMBAT_DAMAGE", string(text))
}
