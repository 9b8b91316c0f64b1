package game

import (
	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
)

// GameObject is a card, token or spell in some zone. It stores only state that is not a
// characteristic; characteristics are computed by Game.Characteristics on every query.
type GameObject struct {
	ID         string
	CardID     string
	Owner      string
	Controller string
	Zone       rules.Zone

	Tapped            bool
	SummoningSick     bool
	Damage            int
	DeathtouchDamaged bool
	Counters          *counters.Counters
	AttachedTo        string
	Timestamp         int64

	IsToken bool
	IsCopy  bool
	ChosenX int

	EnteredTurn int
	// loyaltyTurn is the last turn a loyalty ability of this permanent was activated.
	loyaltyTurn int

	def *cards.Definition
}

// Definition returns the card definition the object was created from.
func (o *GameObject) Definition() *cards.Definition {
	return o.def
}

// clearBattlefieldState drops everything that does not survive leaving the battlefield.
func (o *GameObject) clearBattlefieldState() {
	o.Tapped = false
	o.SummoningSick = false
	o.Damage = 0
	o.DeathtouchDamaged = false
	o.Counters.Clear()
	o.AttachedTo = ""
	o.ChosenX = 0
	o.loyaltyTurn = 0
	o.Controller = o.Owner
}
