package selfplay

import (
	"math/rand"

	"github.com/CarterRock49/MTG-AI-Project/internal/game"
)

// Agent picks one of the legal actions for the acting player.
type Agent interface {
	Choose(obs game.Observation, legal []game.Action) game.Action
}

// RandomAgent chooses uniformly among legal actions.
type RandomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent creates an agent with its own seeded source.
func NewRandomAgent(seed int64) *RandomAgent {
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

// Choose implements Agent. legal must not be empty.
func (a *RandomAgent) Choose(_ game.Observation, legal []game.Action) game.Action {
	return legal[a.rng.Intn(len(legal))]
}

// PassiveAgent keeps its hand and passes whenever it can. It is a baseline opponent.
type PassiveAgent struct{}

// Choose implements Agent.
func (PassiveAgent) Choose(_ game.Observation, legal []game.Action) game.Action {
	for _, kind := range []game.ActionKind{game.ActionKeepHand, game.ActionPass, game.ActionConfirmAttackers, game.ActionConfirmBlockers} {
		for _, a := range legal {
			if a.Kind == kind {
				return a
			}
		}
	}
	return legal[0]
}
