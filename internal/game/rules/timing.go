package rules

import (
	"errors"
	"fmt"
)

// ErrTimingRestriction is returned when an action is taken at a time the rules do not allow.
var ErrTimingRestriction = errors.New("timing restriction")

// Timing names the timing permission an action needs.
type Timing int

const (
	// TimingInstant may be used whenever the player has priority.
	TimingInstant Timing = iota
	// TimingSorcery needs the player's own main phase with an empty stack.
	TimingSorcery
	// TimingLand is sorcery timing plus an unused land drop.
	TimingLand
	// TimingManaAbility may be used whenever the player has priority, and does not use the stack.
	TimingManaAbility
)

var timingNames = map[Timing]string{
	TimingInstant:     "INSTANT",
	TimingSorcery:     "SORCERY",
	TimingLand:        "LAND",
	TimingManaAbility: "MANA_ABILITY",
}

func (t Timing) String() string {
	if name, ok := timingNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TIMING_%d", int(t))
}

// TimingContext is the slice of game state that timing checks depend on.
type TimingContext struct {
	Player          string
	ActivePlayer    string
	PriorityPlayer  string
	Step            Step
	StackEmpty      bool
	LandsPlayed     int
	LandLimit       int
	PendingDecision bool
}

// CheckTiming reports whether player may take an action with timing t now.
// It is the single routine behind both action enumeration and action application.
func CheckTiming(ctx TimingContext, t Timing) error {
	if ctx.PendingDecision {
		return fmt.Errorf("%w: a decision is pending", ErrTimingRestriction)
	}
	if ctx.Player == "" || ctx.Player != ctx.PriorityPlayer {
		return fmt.Errorf("%w: %s does not have priority", ErrTimingRestriction, ctx.Player)
	}
	switch t {
	case TimingInstant, TimingManaAbility:
		return nil
	case TimingSorcery, TimingLand:
		if ctx.Player != ctx.ActivePlayer {
			return fmt.Errorf("%w: %s timing outside own turn", ErrTimingRestriction, t)
		}
		if !ctx.Step.IsMain() {
			return fmt.Errorf("%w: %s timing outside a main phase (%s)", ErrTimingRestriction, t, ctx.Step)
		}
		if !ctx.StackEmpty {
			return fmt.Errorf("%w: %s timing with a non-empty stack", ErrTimingRestriction, t)
		}
		if t == TimingLand && ctx.LandsPlayed >= ctx.LandLimit {
			return fmt.Errorf("%w: land drop already used (%d/%d)", ErrTimingRestriction, ctx.LandsPlayed, ctx.LandLimit)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown timing %d", ErrTimingRestriction, int(t))
	}
}
