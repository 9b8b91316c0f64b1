package driver

import "github.com/CarterRock49/MTG-AI-Project/internal/game"

// Request types a client may send.
const (
	TypeReset       = "reset"
	TypeStep        = "step"
	TypeLegal       = "legal"
	TypeObservation = "observation"
	TypeError       = "error"
)

// Request is one client message.
type Request struct {
	Type string `json:"type"`
	// Index selects an action from the sorted legal action list.
	Index *int `json:"index,omitempty"`
	// Action is applied as given when Index is absent.
	Action *game.Action `json:"action,omitempty"`
	// Seed, on reset, starts a fresh engine with this seed.
	Seed *int64 `json:"seed,omitempty"`
}

// Response answers every request.
type Response struct {
	Type        string             `json:"type"`
	Observation *game.Observation  `json:"observation,omitempty"`
	Legal       []game.Action      `json:"legal,omitempty"`
	Reward      float64            `json:"reward"`
	Rewards     map[string]float64 `json:"rewards,omitempty"`
	Terminal    bool               `json:"terminal"`
	Result      *game.Result       `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
}
