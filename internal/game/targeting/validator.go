package targeting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
)

// ErrInvalidTarget is returned when a chosen target does not satisfy its requirement.
var ErrInvalidTarget = errors.New("invalid target")

// ObjectInfo is what target validation needs to know about an object.
type ObjectInfo struct {
	ID           string
	Zone         rules.Zone
	ControllerID string
	Types        []string
	Hexproof     bool
	Shroud       bool
}

func (o ObjectInfo) hasType(name string) bool {
	for _, t := range o.Types {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

// PlayerInfo is what target validation needs to know about a player.
type PlayerInfo struct {
	ID   string
	Lost bool
}

// Accessor gives the validator read access to game state.
type Accessor interface {
	Object(id string) (ObjectInfo, bool)
	Player(id string) (PlayerInfo, bool)
	// Players returns player ids in turn order.
	Players() []string
	// Battlefield returns permanent ids in zone order.
	Battlefield() []string
	// Stack returns the ids of spell objects on the stack, bottom first.
	Stack() []string
}

// Validator checks targets against requirements.
type Validator struct {
	state Accessor
}

// NewValidator creates a validator over the given state.
func NewValidator(state Accessor) *Validator {
	return &Validator{state: state}
}

// Validate checks that target is a legal choice of type req for a spell or ability
// controlled by chooser with source sourceID.
func (v *Validator) Validate(chooser, sourceID string, req TargetType, target rules.Target) error {
	if v == nil || v.state == nil {
		return fmt.Errorf("%w: validator not initialized", ErrInvalidTarget)
	}
	if !req.Targets() {
		return fmt.Errorf("%w: %s does not target", ErrInvalidTarget, req)
	}

	if target.Player {
		if !req.AllowsPlayers() {
			return fmt.Errorf("%w: %s is a player but requirement is %s", ErrInvalidTarget, target.ID, req)
		}
		player, ok := v.state.Player(target.ID)
		if !ok || player.Lost {
			return fmt.Errorf("%w: player %s is not in the game", ErrInvalidTarget, target.ID)
		}
		if req == TargetOpponent && target.ID == chooser {
			return fmt.Errorf("%w: %s is not an opponent", ErrInvalidTarget, target.ID)
		}
		return nil
	}

	if !req.AllowsObjects() {
		return fmt.Errorf("%w: %s is an object but requirement is %s", ErrInvalidTarget, target.ID, req)
	}
	obj, ok := v.state.Object(target.ID)
	if !ok {
		return fmt.Errorf("%w: %s not found", ErrInvalidTarget, target.ID)
	}

	switch req {
	case TargetSpell:
		if obj.Zone != rules.ZoneStack {
			return fmt.Errorf("%w: %s is not on the stack", ErrInvalidTarget, target.ID)
		}
		if obj.ID == sourceID {
			return fmt.Errorf("%w: a spell cannot target itself", ErrInvalidTarget)
		}
		return nil
	case TargetCreature, TargetCreatureYouControl:
		if obj.Zone != rules.ZoneBattlefield || !obj.hasType("creature") {
			return fmt.Errorf("%w: %s is not a creature on the battlefield", ErrInvalidTarget, target.ID)
		}
		if req == TargetCreatureYouControl && obj.ControllerID != chooser {
			return fmt.Errorf("%w: %s is not controlled by %s", ErrInvalidTarget, target.ID, chooser)
		}
	case TargetAny:
		if obj.Zone != rules.ZoneBattlefield || !(obj.hasType("creature") || obj.hasType("planeswalker")) {
			return fmt.Errorf("%w: %s is not a creature or planeswalker", ErrInvalidTarget, target.ID)
		}
	case TargetPermanent:
		if obj.Zone != rules.ZoneBattlefield {
			return fmt.Errorf("%w: %s is not a permanent", ErrInvalidTarget, target.ID)
		}
	}

	if obj.Shroud {
		return fmt.Errorf("%w: %s has shroud", ErrInvalidTarget, target.ID)
	}
	if obj.Hexproof && obj.ControllerID != chooser {
		return fmt.Errorf("%w: %s has hexproof", ErrInvalidTarget, target.ID)
	}
	return nil
}

// Candidates lists every legal choice for req, players first and then objects in zone order.
func (v *Validator) Candidates(chooser, sourceID string, req TargetType) []rules.Target {
	if v == nil || v.state == nil || !req.Targets() {
		return nil
	}
	var out []rules.Target
	if req.AllowsPlayers() {
		for _, id := range v.state.Players() {
			t := rules.Target{ID: id, Player: true}
			if v.Validate(chooser, sourceID, req, t) == nil {
				out = append(out, t)
			}
		}
	}
	if req.AllowsObjects() {
		ids := v.state.Battlefield()
		if req == TargetSpell {
			ids = v.state.Stack()
		}
		for _, id := range ids {
			t := rules.Target{ID: id}
			if v.Validate(chooser, sourceID, req, t) == nil {
				out = append(out, t)
			}
		}
	}
	return out
}
