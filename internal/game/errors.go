package game

import (
	"errors"
	"fmt"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
)

var (
	// ErrInvalidZoneTransition is returned when an object is not in the zone a move expects.
	ErrInvalidZoneTransition = errors.New("invalid zone transition")
	// ErrInsufficientMana is returned when a cost cannot be paid with the available mana.
	ErrInsufficientMana = mana.ErrInsufficientMana
	// ErrUnpayableAdditionalCost is returned when a non-mana cost cannot be paid.
	ErrUnpayableAdditionalCost = errors.New("unpayable additional cost")
	// ErrIllegalStackOperation is returned for pops on an empty stack and similar misuse.
	ErrIllegalStackOperation = rules.ErrIllegalStackOperation
	// ErrIllegalBlockAssignment is returned when a set of blocks violates a blocking restriction.
	ErrIllegalBlockAssignment = errors.New("illegal block assignment")
	// ErrIllegalAction is returned for actions outside the legal set. State is not modified.
	ErrIllegalAction = errors.New("illegal action")
	// ErrGameOver is returned when stepping a finished game.
	ErrGameOver = errors.New("game is over")
	// ErrNotStarted is returned when stepping before Reset.
	ErrNotStarted = errors.New("game not started")
)

// InternalFaultError marks a broken internal invariant, such as state-based actions
// that never reach a fixed point. It is not recoverable: an engine that reports one
// keeps returning it until the next Reset.
type InternalFaultError struct {
	Op         string
	Iterations int
	Detail     string
}

func (e *InternalFaultError) Error() string {
	if e.Iterations > 0 {
		return fmt.Sprintf("internal fault in %s after %d iterations: %s", e.Op, e.Iterations, e.Detail)
	}
	return fmt.Sprintf("internal fault in %s: %s", e.Op, e.Detail)
}

// IsInternalFault reports whether err wraps an *InternalFaultError.
func IsInternalFault(err error) bool {
	var fault *InternalFaultError
	return errors.As(err, &fault)
}
