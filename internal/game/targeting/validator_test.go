package targeting

import (
	"testing"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState struct {
	objects map[string]ObjectInfo
	players map[string]PlayerInfo
	order   []string
	field   []string
	stack   []string
}

func (f *fakeState) Object(id string) (ObjectInfo, bool) { o, ok := f.objects[id]; return o, ok }
func (f *fakeState) Player(id string) (PlayerInfo, bool) { p, ok := f.players[id]; return p, ok }
func (f *fakeState) Players() []string                   { return f.order }
func (f *fakeState) Battlefield() []string               { return f.field }
func (f *fakeState) Stack() []string                     { return f.stack }

func newFakeState() *fakeState {
	return &fakeState{
		objects: map[string]ObjectInfo{
			"bear":    {ID: "bear", Zone: rules.ZoneBattlefield, ControllerID: "p2", Types: []string{"Creature"}},
			"hexbear": {ID: "hexbear", Zone: rules.ZoneBattlefield, ControllerID: "p2", Types: []string{"Creature"}, Hexproof: true},
			"mine":    {ID: "mine", Zone: rules.ZoneBattlefield, ControllerID: "p1", Types: []string{"Creature"}, Hexproof: true},
			"land":    {ID: "land", Zone: rules.ZoneBattlefield, ControllerID: "p2", Types: []string{"Land"}},
			"bolt":    {ID: "bolt", Zone: rules.ZoneStack, ControllerID: "p2", Types: []string{"Instant"}},
			"shock":   {ID: "shock", Zone: rules.ZoneStack, ControllerID: "p1", Types: []string{"Instant"}},
			"dead":    {ID: "dead", Zone: rules.ZoneGraveyard, ControllerID: "p2", Types: []string{"Creature"}},
		},
		players: map[string]PlayerInfo{"p1": {ID: "p1"}, "p2": {ID: "p2"}},
		order:   []string{"p1", "p2"},
		field:   []string{"bear", "hexbear", "mine", "land"},
		stack:   []string{"bolt", "shock"},
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator(newFakeState())

	tests := []struct {
		name   string
		req    TargetType
		target rules.Target
		ok     bool
	}{
		{"creature", TargetCreature, rules.Target{ID: "bear"}, true},
		{"land is not a creature", TargetCreature, rules.Target{ID: "land"}, false},
		{"graveyard creature", TargetCreature, rules.Target{ID: "dead"}, false},
		{"opponent hexproof", TargetCreature, rules.Target{ID: "hexbear"}, false},
		{"own hexproof", TargetCreature, rules.Target{ID: "mine"}, true},
		{"any player", TargetAny, rules.Target{ID: "p2", Player: true}, true},
		{"self is not an opponent", TargetOpponent, rules.Target{ID: "p1", Player: true}, false},
		{"player for creature", TargetCreature, rules.Target{ID: "p2", Player: true}, false},
		{"permanent land", TargetPermanent, rules.Target{ID: "land"}, true},
		{"spell", TargetSpell, rules.Target{ID: "bolt"}, true},
		{"spell targets itself", TargetSpell, rules.Target{ID: "shock"}, false},
		{"missing", TargetAny, rules.Target{ID: "ghost"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate("p1", "shock", tt.req, tt.target)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTarget)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	state := newFakeState()
	v := NewValidator(state)

	got := v.Candidates("p1", "shock", TargetAny)
	require.Len(t, got, 4)
	assert.Equal(t, rules.Target{ID: "p1", Player: true}, got[0])
	assert.Equal(t, rules.Target{ID: "bear"}, got[2])
	assert.Equal(t, rules.Target{ID: "mine"}, got[3])

	assert.Equal(t, []rules.Target{{ID: "bolt"}}, v.Candidates("p1", "shock", TargetSpell))
	assert.Nil(t, v.Candidates("p1", "shock", TargetSelf))

	state.players["p2"] = PlayerInfo{ID: "p2", Lost: true}
	assert.Empty(t, v.Candidates("p1", "", TargetOpponent))
}

func TestParseTargetType(t *testing.T) {
	tt, err := ParseTargetType(" Creature ")
	require.NoError(t, err)
	assert.Equal(t, TargetCreature, tt)

	tt, err = ParseTargetType("")
	require.NoError(t, err)
	assert.False(t, tt.Targets())

	_, err = ParseTargetType("planet")
	assert.Error(t, err)
}
