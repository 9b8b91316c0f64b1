package game

import (
	"fmt"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/effects"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"go.uber.org/zap"
)

// Position says where a moved object is placed in its new zone. Only libraries are
// ordered by position; every other zone appends in arrival order.
type Position int

const (
	// PositionTop puts the object on top of a library.
	PositionTop Position = 0
	// PositionBottom puts the object at the bottom of a library, or at the end of any other zone.
	PositionBottom Position = -1
)

// Zone is an insertion-ordered container of object ids. For libraries index 0 is the top.
type Zone struct {
	kind  rules.Zone
	owner string
	ids   []string
}

func newZone(kind rules.Zone, owner string) *Zone {
	return &Zone{kind: kind, owner: owner}
}

// Kind returns the zone kind.
func (z *Zone) Kind() rules.Zone { return z.kind }

// Owner returns the owning player, empty for shared zones.
func (z *Zone) Owner() string { return z.owner }

// IDs returns a copy of the ids in zone order.
func (z *Zone) IDs() []string { return append([]string(nil), z.ids...) }

// Len returns the number of objects in the zone.
func (z *Zone) Len() int { return len(z.ids) }

// Contains reports whether id is in the zone.
func (z *Zone) Contains(id string) bool {
	return z.indexOf(id) >= 0
}

// Top returns the first id of the zone.
func (z *Zone) Top() (string, bool) {
	if len(z.ids) == 0 {
		return "", false
	}
	return z.ids[0], true
}

func (z *Zone) indexOf(id string) int {
	for i, v := range z.ids {
		if v == id {
			return i
		}
	}
	return -1
}

func (z *Zone) insert(id string, pos Position) {
	if z.kind != rules.ZoneLibrary || pos == PositionBottom || int(pos) >= len(z.ids) {
		z.ids = append(z.ids, id)
		return
	}
	idx := int(pos)
	if idx < 0 {
		idx = 0
	}
	z.ids = append(z.ids, "")
	copy(z.ids[idx+1:], z.ids[idx:])
	z.ids[idx] = id
}

func (z *Zone) remove(id string) bool {
	idx := z.indexOf(id)
	if idx < 0 {
		return false
	}
	z.ids = append(z.ids[:idx], z.ids[idx+1:]...)
	return true
}

func (z *Zone) replace(oldID, newID string) {
	if idx := z.indexOf(oldID); idx >= 0 {
		z.ids[idx] = newID
	}
}

// container returns the zone holding objects of kind for owner.
func (g *Game) container(kind rules.Zone, owner string) *Zone {
	switch kind {
	case rules.ZoneBattlefield:
		return g.battlefield
	case rules.ZoneStack:
		return g.stackZone
	}
	if p := g.players[owner]; p != nil {
		return p.zone(kind)
	}
	return nil
}

// Move relocates an object from one zone to another and returns its id afterwards.
//
// Zone-change replacement effects may send the object somewhere else. An object
// entering a library, hand or graveyard becomes a new object with a new id and
// no memory of its previous existence; one leaving the battlefield loses all
// battlefield-only state and the effects it generated. Events carry the old id
// as TargetID and the new one in Metadata["new_id"].
func (g *Game) Move(id string, from, to rules.Zone, pos Position) (string, error) {
	obj, ok := g.objects[id]
	if !ok {
		return "", fmt.Errorf("%w: object %s not found", ErrInvalidZoneTransition, id)
	}
	if obj.Zone != from {
		return "", fmt.Errorf("%w: %s is in %s, not %s", ErrInvalidZoneTransition, id, obj.Zone, from)
	}
	if !to.Valid() {
		return "", fmt.Errorf("%w: unknown zone %q", ErrInvalidZoneTransition, to)
	}

	evt := rules.NewEvent(rules.EventZoneChange, id, id, obj.Controller)
	evt.PlayerID = obj.Owner
	evt.FromZone = from
	evt.Zone = to
	evt, _ = g.replacements.Apply(evt)
	to = evt.Zone

	src := g.container(from, obj.Owner)
	dst := g.container(to, obj.Owner)
	if src == nil || dst == nil || !src.Contains(id) {
		return "", fmt.Errorf("%w: %s has no %s -> %s container", ErrInvalidZoneTransition, id, from, to)
	}

	var lastKnown *effects.Snapshot
	if from == rules.ZoneBattlefield {
		lastKnown, _ = g.Characteristics(id)
	}

	src.remove(id)
	if from == rules.ZoneBattlefield {
		g.leaveBattlefield(obj)
	}

	newID := id
	if to.RefreshesIdentity() {
		newID = g.ids.next("object")
		delete(g.objects, id)
		obj.ID = newID
		g.objects[newID] = obj
	}
	obj.Zone = to
	dst.insert(newID, pos)

	if to == rules.ZoneBattlefield {
		g.enterBattlefield(obj)
	}

	evt.Metadata = withMeta(evt.Metadata, "new_id", newID)
	if lastKnown != nil && lastKnown.IsCreature() {
		evt.Metadata["creature"] = "true"
	}
	g.events.Publish(evt)
	if to == rules.ZoneBattlefield {
		etb := rules.NewEvent(rules.EventEntersBattlefield, newID, newID, obj.Controller)
		etb.FromZone = from
		etb.Zone = to
		g.events.Publish(etb)
	}
	if from == rules.ZoneBattlefield && to == rules.ZoneGraveyard && lastKnown != nil && lastKnown.IsCreature() {
		dies := rules.NewEvent(rules.EventDies, id, id, lastKnown.ControllerID)
		dies.FromZone = from
		dies.Zone = to
		dies.Metadata = map[string]string{"new_id": newID, "name": lastKnown.Name}
		g.events.Publish(dies)
	}
	if from == rules.ZoneBattlefield {
		g.triggers.UnregisterSource(id)
	}

	if g.logger != nil {
		g.logger.Debug("object moved",
			zap.String("object_id", id),
			zap.String("new_id", newID),
			zap.String("card_id", obj.CardID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
	}
	return newID, nil
}

func (g *Game) leaveBattlefield(obj *GameObject) {
	id := obj.ID
	g.layers.RemoveBySource(id)
	g.layers.RemoveAffecting(id)
	g.replacements.RemoveBySource(id)
	g.removeCostModifiers(id)
	if g.combat != nil {
		g.combat.remove(id)
	}
	obj.clearBattlefieldState()
}

func (g *Game) enterBattlefield(obj *GameObject) {
	obj.Timestamp = g.nextTimestamp()
	obj.SummoningSick = true
	obj.EnteredTurn = g.turn.TurnNumber()
	if obj.def != nil && obj.def.Loyalty > 0 {
		obj.Counters.Add(counters.KindLoyalty, obj.def.Loyalty)
	}
	g.registerPermanent(obj)
}

// CheckZoneIntegrity verifies that every object is listed in exactly one zone and
// that the zone matches the object's own record.
func (g *Game) CheckZoneIntegrity() error {
	seen := make(map[string]rules.Zone, len(g.objects))
	check := func(z *Zone) error {
		for _, id := range z.ids {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("object %s is in both %s and %s", id, prev, z.kind)
			}
			seen[id] = z.kind
			obj, ok := g.objects[id]
			if !ok {
				return fmt.Errorf("zone %s lists unknown object %s", z.kind, id)
			}
			if obj.Zone != z.kind {
				return fmt.Errorf("object %s is listed in %s but records %s", id, z.kind, obj.Zone)
			}
		}
		return nil
	}
	zones := []*Zone{g.battlefield, g.stackZone}
	for _, pid := range g.order {
		zones = append(zones, g.players[pid].zones()...)
	}
	for _, z := range zones {
		if err := check(z); err != nil {
			return err
		}
	}
	for id := range g.objects {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("object %s is in no zone", id)
		}
	}
	return nil
}

func withMeta(meta map[string]string, key, value string) map[string]string {
	if meta == nil {
		meta = make(map[string]string)
	}
	meta[key] = value
	return meta
}
