package game

import (
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
)

// Player is one seat at the table.
type Player struct {
	ID     string
	Life   int
	Poison int
	Pool   mana.Pool

	LandsPlayed int
	LandLimit   int

	Lost       bool
	LossReason string

	Mulligans int
	Kept      bool

	// drewFromEmpty is set by a draw from an empty library and read by the next SBA check.
	drewFromEmpty bool

	Library   *Zone
	Hand      *Zone
	Graveyard *Zone
	Exile     *Zone
	Command   *Zone
}

func newPlayer(id string, life int) *Player {
	return &Player{
		ID:        id,
		Life:      life,
		Pool:      mana.NewPool(),
		LandLimit: 1,
		Library:   newZone(rules.ZoneLibrary, id),
		Hand:      newZone(rules.ZoneHand, id),
		Graveyard: newZone(rules.ZoneGraveyard, id),
		Exile:     newZone(rules.ZoneExile, id),
		Command:   newZone(rules.ZoneCommand, id),
	}
}

// zone returns the player's own container for kind, or nil for shared zones.
func (p *Player) zone(kind rules.Zone) *Zone {
	switch kind {
	case rules.ZoneLibrary:
		return p.Library
	case rules.ZoneHand:
		return p.Hand
	case rules.ZoneGraveyard:
		return p.Graveyard
	case rules.ZoneExile:
		return p.Exile
	case rules.ZoneCommand:
		return p.Command
	}
	return nil
}

func (p *Player) zones() []*Zone {
	return []*Zone{p.Library, p.Hand, p.Graveyard, p.Exile, p.Command}
}
