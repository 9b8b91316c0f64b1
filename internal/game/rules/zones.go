package rules

// Zone identifies one of the game zones an object can occupy.
type Zone string

const (
	ZoneLibrary     Zone = "LIBRARY"
	ZoneHand        Zone = "HAND"
	ZoneBattlefield Zone = "BATTLEFIELD"
	ZoneGraveyard   Zone = "GRAVEYARD"
	ZoneExile       Zone = "EXILE"
	ZoneStack       Zone = "STACK"
	ZoneCommand     Zone = "COMMAND"
)

// AllZones lists every zone in a stable order.
var AllZones = []Zone{ZoneLibrary, ZoneHand, ZoneBattlefield, ZoneGraveyard, ZoneExile, ZoneStack, ZoneCommand}

// Valid reports whether z names a known zone.
func (z Zone) Valid() bool {
	for _, known := range AllZones {
		if z == known {
			return true
		}
	}
	return false
}

// Shared reports whether the zone is shared by all players rather than owned by one.
func (z Zone) Shared() bool {
	return z == ZoneBattlefield || z == ZoneStack
}

// Hidden reports whether the zone's contents are hidden from opponents.
func (z Zone) Hidden() bool {
	return z == ZoneLibrary || z == ZoneHand
}

// RefreshesIdentity reports whether an object entering the zone becomes a new object
// with no memory of its previous existence.
func (z Zone) RefreshesIdentity() bool {
	return z == ZoneLibrary || z == ZoneHand || z == ZoneGraveyard
}
