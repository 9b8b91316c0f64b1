package targeting

import (
	"fmt"
	"strings"
)

// TargetType is the kind of target a spell or ability requires.
type TargetType string

const (
	// TargetNone means the effect does not target.
	TargetNone TargetType = "none"
	// TargetAny is any creature, planeswalker or player.
	TargetAny TargetType = "any"
	// TargetCreature is a creature on the battlefield.
	TargetCreature TargetType = "creature"
	// TargetCreatureYouControl is a creature on the battlefield controlled by the chooser.
	TargetCreatureYouControl TargetType = "creature_you_control"
	// TargetPlayer is any player still in the game.
	TargetPlayer TargetType = "player"
	// TargetOpponent is an opponent of the chooser still in the game.
	TargetOpponent TargetType = "opponent"
	// TargetPermanent is any permanent.
	TargetPermanent TargetType = "permanent"
	// TargetSpell is a spell on the stack other than the source.
	TargetSpell TargetType = "spell"
	// TargetSelf means the effect applies to its own source without targeting.
	TargetSelf TargetType = "self"
)

var knownTypes = map[TargetType]bool{
	TargetNone:               true,
	TargetAny:                true,
	TargetCreature:           true,
	TargetCreatureYouControl: true,
	TargetPlayer:             true,
	TargetOpponent:           true,
	TargetPermanent:          true,
	TargetSpell:              true,
	TargetSelf:               true,
}

// ParseTargetType converts a card-table string into a TargetType. Empty means none.
func ParseTargetType(s string) (TargetType, error) {
	t := TargetType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return TargetNone, nil
	}
	if !knownTypes[t] {
		return "", fmt.Errorf("unknown target type %q", s)
	}
	return t, nil
}

// Targets reports whether the type actually uses the targeting rules.
func (t TargetType) Targets() bool {
	return t != TargetNone && t != TargetSelf && t != ""
}

// AllowsPlayers reports whether a player can be a legal choice.
func (t TargetType) AllowsPlayers() bool {
	return t == TargetAny || t == TargetPlayer || t == TargetOpponent
}

// AllowsObjects reports whether an object can be a legal choice.
func (t TargetType) AllowsObjects() bool {
	switch t {
	case TargetAny, TargetCreature, TargetCreatureYouControl, TargetPermanent, TargetSpell:
		return true
	}
	return false
}
