package rules

import (
	"fmt"
	"strings"
)

// Phase represents the broad phases of a turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// MarshalText renders the phase by name in observations.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepMain1
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepFirstStrikeDamage
	StepCombatDamage
	StepEndCombat
	StepMain2
	StepEnd
	StepCleanup
)

var stepNames = map[Step]string{
	StepUntap:             "UNTAP",
	StepUpkeep:            "UPKEEP",
	StepDraw:              "DRAW",
	StepMain1:             "MAIN1",
	StepBeginCombat:       "BEGIN_COMBAT",
	StepDeclareAttackers:  "DECLARE_ATTACKERS",
	StepDeclareBlockers:   "DECLARE_BLOCKERS",
	StepFirstStrikeDamage: "FIRST_STRIKE_DAMAGE",
	StepCombatDamage:      "COMBAT_DAMAGE",
	StepEndCombat:         "END_COMBAT",
	StepMain2:             "MAIN2",
	StepEnd:               "END",
	StepCleanup:           "CLEANUP",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// MarshalText renders the step by name in observations.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsMain reports whether the step is one of the two main phases.
func (s Step) IsMain() bool {
	return s == StepMain1 || s == StepMain2
}

// IsCombat reports whether the step belongs to the combat phase.
func (s Step) IsCombat() bool {
	return s >= StepBeginCombat && s <= StepEndCombat
}

// GrantsPriority reports whether players normally receive priority during the step.
// Untap and cleanup do not.
func (s Step) GrantsPriority() bool {
	return s != StepUntap && s != StepCleanup
}

type turnEntry struct {
	phase Phase
	step  Step
}

var baseTurnSequence = []turnEntry{
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

// buildTurnSequence returns the step table, with the first strike damage step
// placed in front of regular combat damage when firstStrike is set.
func buildTurnSequence(firstStrike bool) []turnEntry {
	sequence := make([]turnEntry, 0, len(baseTurnSequence)+1)
	for _, entry := range baseTurnSequence {
		if firstStrike && entry.step == StepCombatDamage {
			sequence = append(sequence, turnEntry{PhaseCombat, StepFirstStrikeDamage})
		}
		sequence = append(sequence, entry)
	}
	return sequence
}

// TurnManager tracks the active player, the priority holder and the step machine.
type TurnManager struct {
	orderIndex     int
	turnNumber     int
	activePlayer   string
	priorityPlayer string
	sequence       []turnEntry
	firstStrike    bool
}

// NewTurnManager creates a new turn manager initialized at turn 1, untap step.
func NewTurnManager(activePlayer string) *TurnManager {
	active := strings.TrimSpace(activePlayer)
	return &TurnManager{
		turnNumber:     1,
		activePlayer:   active,
		priorityPlayer: active,
		sequence:       buildTurnSequence(false),
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return tm.sequence[tm.orderIndex].phase
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return tm.sequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() string {
	return tm.activePlayer
}

// PriorityPlayer returns the player who currently has priority.
func (tm *TurnManager) PriorityPlayer() string {
	return tm.priorityPlayer
}

// SetPriority sets the player who currently has priority.
func (tm *TurnManager) SetPriority(player string) {
	tm.priorityPlayer = strings.TrimSpace(player)
}

// AdvanceStep moves to the next step. Past cleanup the turn number is incremented and
// the turn passes to nextActivePlayer if provided. Priority always reverts to the active
// player at the start of a step.
func (tm *TurnManager) AdvanceStep(nextActivePlayer string) (Phase, Step) {
	tm.orderIndex++
	if tm.orderIndex >= len(tm.sequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		if next := strings.TrimSpace(nextActivePlayer); next != "" {
			tm.activePlayer = next
		}
		tm.sequence = buildTurnSequence(false)
		tm.firstStrike = false
	}
	tm.priorityPlayer = tm.activePlayer
	return tm.CurrentPhase(), tm.CurrentStep()
}

// SetFirstStrike adds or removes the first strike damage step for the current turn.
// It must be called before combat damage begins; the current step is preserved.
func (tm *TurnManager) SetFirstStrike(enabled bool) {
	if tm.firstStrike == enabled {
		return
	}
	current := tm.CurrentStep()
	tm.sequence = buildTurnSequence(enabled)
	tm.firstStrike = enabled
	for i, entry := range tm.sequence {
		if entry.step == current {
			tm.orderIndex = i
			return
		}
	}
	tm.orderIndex = 0
}

// HasFirstStrikeStep reports whether this turn's sequence has a first strike damage step.
func (tm *TurnManager) HasFirstStrikeStep() bool {
	return tm.firstStrike
}

// Steps returns the steps of the current turn sequence in order.
func (tm *TurnManager) Steps() []Step {
	steps := make([]Step, len(tm.sequence))
	for i, entry := range tm.sequence {
		steps[i] = entry.step
	}
	return steps
}
