package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bear(id, controller string) *Snapshot {
	return &Snapshot{
		ObjectID:      id,
		OwnerID:       controller,
		ControllerID:  controller,
		Name:          "Grizzly Bears",
		Types:         []string{"Creature"},
		Subtypes:      []string{"Bear"},
		HasPT:         true,
		BasePower:     2,
		BaseToughness: 2,
	}
}

func controlledBy(player string) Filter {
	return func(s *Snapshot) bool { return s.ControllerID == player && s.IsCreature() }
}

func TestLayerSystemAppliesEffects(t *testing.T) {
	system := NewLayerSystem()
	system.AddEffect(NewPowerToughnessModifier(Spec{ID: "pump", Timestamp: 1, Filter: controlledBy("alice")}, 0, 1))

	snapshot := bear("c1", "alice")
	system.Apply(snapshot)
	assert.Equal(t, 2, snapshot.Power)
	assert.Equal(t, 3, snapshot.Toughness)

	other := bear("c2", "bob")
	system.Apply(other)
	assert.Equal(t, 2, other.Toughness)
}

func TestLayerSevenSublayerOrder(t *testing.T) {
	system := NewLayerSystem()
	target := Object("c1")
	// Registered in reverse order of application to show sublayers win over timestamps.
	system.AddEffect(NewPowerToughnessSwitch(Spec{ID: "switch", Timestamp: 1, Filter: target}))
	system.AddEffect(NewPowerToughnessModifier(Spec{ID: "plus", Timestamp: 2, Filter: target}, 3, 0))
	system.AddEffect(NewSetBasePowerToughness(Spec{ID: "set", Timestamp: 3, Filter: target}, 0, 1))

	snapshot := bear("c1", "alice")
	system.Apply(snapshot)
	// set 0/1, then +3/+0 = 3/1, then switch = 1/3
	assert.Equal(t, 1, snapshot.Power)
	assert.Equal(t, 3, snapshot.Toughness)
}

func TestLayerCounterEffectPassedAsExtra(t *testing.T) {
	system := NewLayerSystem()
	snapshot := bear("c1", "alice")
	system.Apply(snapshot, NewPowerToughnessModifier(Spec{ID: "counters", AffectedID: "c1"}, 2, 2))
	assert.Equal(t, 4, snapshot.Power)
	assert.Equal(t, 0, system.Len(), "extra effects are not registered")
}

func TestTypeAdditionMakesCreature(t *testing.T) {
	system := NewLayerSystem()
	land := &Snapshot{ObjectID: "l1", ControllerID: "alice", Types: []string{"Land"}}
	system.AddEffect(NewTypeAddition(Spec{ID: "animate", Timestamp: 1, AffectedID: "l1"}, []string{"Creature"}, []string{"Elemental"}))
	system.AddEffect(NewSetBasePowerToughness(Spec{ID: "animate-pt", Timestamp: 1, AffectedID: "l1"}, 3, 3))
	system.AddEffect(NewPowerToughnessModifier(Spec{ID: "anthem", Timestamp: 2, Filter: controlledBy("alice")}, 1, 1))

	system.Apply(land)
	require.True(t, land.IsCreature())
	assert.True(t, land.HasSubtype("elemental"))
	assert.Equal(t, 4, land.Power)
	assert.Equal(t, 4, land.Toughness)
}

func TestControlChangeUsesLayerTwo(t *testing.T) {
	system := NewLayerSystem()
	system.AddEffect(NewControlChange(Spec{ID: "steal", Timestamp: 5, AffectedID: "c1"}, "bob"))
	system.AddEffect(NewPowerToughnessModifier(Spec{ID: "bob-anthem", Timestamp: 1, Filter: controlledBy("bob")}, 1, 1))

	snapshot := bear("c1", "alice")
	system.ApplyThrough(snapshot, LayerControl)
	assert.Equal(t, "bob", snapshot.ControllerID)
	assert.Equal(t, 0, snapshot.Power, "layer 7 was not evaluated")

	full := bear("c1", "alice")
	system.Apply(full)
	assert.Equal(t, 3, full.Power, "anthem sees the new controller")
}

func TestDependencyOrderingWithinLayer(t *testing.T) {
	system := NewLayerSystem()
	// Elementals get flying; the newer effect makes c1 an Elemental.
	system.AddEffect(NewKeywordGrant(Spec{ID: "a-flying", Timestamp: 1, Filter: func(s *Snapshot) bool {
		return s.HasSubtype("Elemental")
	}}, "flying"))
	system.AddEffect(NewTypeAddition(Spec{ID: "b-type", Timestamp: 2, AffectedID: "c1"}, nil, []string{"Elemental"}))

	snapshot := bear("c1", "alice")
	system.Apply(snapshot)
	assert.True(t, snapshot.HasKeyword("flying"), "type change lives in an earlier layer")

	// Same layer: B (newer) changes whether A applies, so B goes first.
	system = NewLayerSystem()
	system.AddEffect(NewPowerToughnessSwitch(Spec{ID: "a", Timestamp: 1, Filter: func(s *Snapshot) bool {
		return s.Power >= 3
	}}))
	system.AddEffect(NewPowerToughnessSwitch(Spec{ID: "b", Timestamp: 2, AffectedID: "c1"}))

	group := system.Effects()
	s := bear("c1", "alice")
	s.Power, s.Toughness = 1, 4
	ordered := orderByDependency(group, s)
	require.Len(t, ordered, 2)
	assert.Equal(t, "b", ordered[0].ID())
}

func TestDependencyLoopFallsBackToTimestamp(t *testing.T) {
	// Each effect turns the other off: a loop.
	a := NewKeywordGrant(Spec{ID: "a", Timestamp: 1, Filter: func(s *Snapshot) bool { return !s.HasKeyword("b") }}, "a")
	b := NewKeywordGrant(Spec{ID: "b", Timestamp: 2, Filter: func(s *Snapshot) bool { return !s.HasKeyword("a") }}, "b")

	ordered := orderByDependency([]ContinuousEffect{a, b}, bear("c1", "alice"))
	assert.Equal(t, "a", ordered[0].ID())
	assert.Equal(t, "b", ordered[1].ID())
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := bear("c1", "alice")
	s.AddKeyword("Trample")
	c := s.Clone()
	c.Types = append(c.Types, "Artifact")
	c.AddKeyword("flying")
	assert.False(t, s.HasType("artifact"))
	assert.False(t, s.HasKeyword("flying"))
	assert.Equal(t, []string{"trample"}, s.KeywordList())
}
