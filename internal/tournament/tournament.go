package tournament

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TournamentState represents the state of a tournament
type TournamentState int

const (
	TournamentStateWaiting TournamentState = iota
	TournamentStateInProgress
	TournamentStateFinished
)

func (s TournamentState) String() string {
	switch s {
	case TournamentStateWaiting:
		return "WAITING"
	case TournamentStateInProgress:
		return "IN_PROGRESS"
	case TournamentStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Points awarded per match.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// GamePlayer plays one game between decks, seated in order, and returns the
// index of the winning deck or -1 for a draw.
type GamePlayer interface {
	PlayGame(ctx context.Context, seed int64, decks []string) (int, error)
}

// Player is a deck entered in the tournament.
type Player struct {
	Name     string `json:"name"`
	Points   int    `json:"points"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
	Byes     int    `json:"byes"`
	GameWins int    `json:"game_wins"`
	Games    int    `json:"games"`
}

// Pairing is one match of a round. An empty Player2 is a bye.
type Pairing struct {
	Player1     string `json:"player1"`
	Player2     string `json:"player2,omitempty"`
	Winner      string `json:"winner,omitempty"`
	Player1Wins int    `json:"player1_wins"`
	Player2Wins int    `json:"player2_wins"`
	Draws       int    `json:"draws"`
	Played      bool   `json:"played"`
}

// Round represents a tournament round
type Round struct {
	Number   int        `json:"number"`
	Pairings []*Pairing `json:"pairings"`
	Finished bool       `json:"finished"`
}

// Tournament is a Swiss event between decks. Matches are best of
// 2*WinsRequired-1 games.
type Tournament struct {
	ID           string
	Name         string
	State        TournamentState
	Players      map[string]*Player
	PlayerOrder  []string // Maintains insertion order
	Rounds       []*Round
	CurrentRound int
	NumRounds    int
	WinsRequired int
	Seed         int64
	CreateTime   time.Time
	StartTime    *time.Time
	EndTime      *time.Time
	Winner       string

	met    map[string]bool
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewTournament creates a tournament in the waiting state.
func NewTournament(name string, numRounds, winsRequired int, seed int64, logger *zap.Logger) *Tournament {
	if winsRequired <= 0 {
		winsRequired = 1
	}
	return &Tournament{
		ID:           uuid.New().String(),
		Name:         name,
		State:        TournamentStateWaiting,
		Players:      make(map[string]*Player),
		PlayerOrder:  make([]string, 0),
		Rounds:       make([]*Round, 0),
		NumRounds:    numRounds,
		WinsRequired: winsRequired,
		Seed:         seed,
		CreateTime:   time.Now(),
		met:          make(map[string]bool),
		logger:       logger,
	}
}

// AddPlayer enters a deck.
func (t *Tournament) AddPlayer(deck string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return fmt.Errorf("tournament already started")
	}
	if _, exists := t.Players[deck]; exists {
		return fmt.Errorf("deck %s already entered", deck)
	}
	t.Players[deck] = &Player{Name: deck}
	t.PlayerOrder = append(t.PlayerOrder, deck)
	return nil
}

// GetPlayerCount returns the number of entered decks.
func (t *Tournament) GetPlayerCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.Players)
}

// GetState returns the current tournament state
func (t *Tournament) GetState() TournamentState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// Start moves the tournament into progress and pairs the first round.
func (t *Tournament) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return fmt.Errorf("tournament already started")
	}
	if len(t.Players) < 2 {
		return fmt.Errorf("not enough players")
	}
	if t.NumRounds <= 0 {
		t.NumRounds = swissRounds(len(t.Players))
	}

	now := time.Now()
	t.StartTime = &now
	t.State = TournamentStateInProgress
	t.createRound()
	return nil
}

// swissRounds is the number of rounds that can separate an undefeated winner.
func swissRounds(players int) int {
	rounds := 0
	for n := 1; n < players; n *= 2 {
		rounds++
	}
	return rounds
}

func (t *Tournament) createRound() *Round {
	t.CurrentRound++
	round := &Round{
		Number:   t.CurrentRound,
		Pairings: t.generatePairings(),
	}
	t.Rounds = append(t.Rounds, round)
	return round
}

func matchKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// generatePairings pairs players with similar points, avoiding rematches when
// another opponent in the remaining field is available. The lowest ranked
// player without a bye gets one when the field is odd.
func (t *Tournament) generatePairings() []*Pairing {
	ranked := t.ranked()

	pairings := make([]*Pairing, 0, len(ranked)/2+1)
	if len(ranked)%2 == 1 {
		byeIdx := len(ranked) - 1
		for i := len(ranked) - 1; i >= 0; i-- {
			if ranked[i].Byes == 0 {
				byeIdx = i
				break
			}
		}
		bye := ranked[byeIdx]
		ranked = append(ranked[:byeIdx:byeIdx], ranked[byeIdx+1:]...)
		pairings = append(pairings, &Pairing{Player1: bye.Name})
	}

	for len(ranked) > 0 {
		first := ranked[0]
		opp := 1
		for j := 1; j < len(ranked); j++ {
			if !t.met[matchKey(first.Name, ranked[j].Name)] {
				opp = j
				break
			}
		}
		pairings = append(pairings, &Pairing{Player1: first.Name, Player2: ranked[opp].Name})
		rest := make([]*Player, 0, len(ranked)-2)
		rest = append(rest, ranked[1:opp]...)
		ranked = append(rest, ranked[opp+1:]...)
	}
	return pairings
}

// ranked returns players by points, then game wins, then entry order.
func (t *Tournament) ranked() []*Player {
	order := make(map[string]int, len(t.PlayerOrder))
	players := make([]*Player, 0, len(t.PlayerOrder))
	for i, name := range t.PlayerOrder {
		order[name] = i
		players = append(players, t.Players[name])
	}
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GameWins != b.GameWins {
			return a.GameWins > b.GameWins
		}
		return order[a.Name] < order[b.Name]
	})
	return players
}

// RecordMatchResult records the game score of a pairing in the given round.
func (t *Tournament) RecordMatchResult(roundNum int, player1, player2 string, player1Wins, player2Wins, draws int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recordMatchResult(roundNum, player1, player2, player1Wins, player2Wins, draws)
}

func (t *Tournament) recordMatchResult(roundNum int, player1, player2 string, player1Wins, player2Wins, draws int) error {
	if roundNum <= 0 || roundNum > len(t.Rounds) {
		return fmt.Errorf("invalid round number")
	}
	round := t.Rounds[roundNum-1]

	for _, pairing := range round.Pairings {
		if pairing.Player1 == player2 && pairing.Player2 == player1 {
			player1, player2 = player2, player1
			player1Wins, player2Wins = player2Wins, player1Wins
		}
		if pairing.Player1 != player1 || pairing.Player2 != player2 {
			continue
		}
		if pairing.Played {
			return fmt.Errorf("pairing %s vs %s already recorded", player1, player2)
		}
		pairing.Played = true
		pairing.Player1Wins = player1Wins
		pairing.Player2Wins = player2Wins
		pairing.Draws = draws

		p1, p2 := t.Players[player1], t.Players[player2]
		p1.GameWins += player1Wins
		p2.GameWins += player2Wins
		games := player1Wins + player2Wins + draws
		p1.Games += games
		p2.Games += games
		t.met[matchKey(player1, player2)] = true

		switch {
		case player1Wins > player2Wins:
			pairing.Winner = player1
			p1.Wins++
			p1.Points += PointsWin
			p2.Losses++
		case player2Wins > player1Wins:
			pairing.Winner = player2
			p2.Wins++
			p2.Points += PointsWin
			p1.Losses++
		default:
			p1.Draws++
			p1.Points += PointsDraw
			p2.Draws++
			p2.Points += PointsDraw
		}
		return nil
	}
	return fmt.Errorf("pairing not found")
}

// PlayRound plays every match of the current round, then pairs the next round or
// finishes the tournament.
func (t *Tournament) PlayRound(ctx context.Context, player GamePlayer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateInProgress {
		return fmt.Errorf("tournament is %s", t.State)
	}
	round := t.Rounds[len(t.Rounds)-1]
	for idx, pairing := range round.Pairings {
		if pairing.Player2 == "" {
			bye := t.Players[pairing.Player1]
			bye.Byes++
			bye.Wins++
			bye.Points += PointsWin
			pairing.Winner = pairing.Player1
			pairing.Played = true
			continue
		}
		if err := t.playMatch(ctx, player, round.Number, idx, pairing); err != nil {
			return err
		}
	}
	round.Finished = true

	if t.logger != nil {
		t.logger.Info("tournament round finished",
			zap.String("tournament_id", t.ID),
			zap.Int("round", round.Number),
			zap.Int("pairings", len(round.Pairings)),
		)
	}

	if t.CurrentRound >= t.NumRounds {
		t.finish()
		return nil
	}
	t.createRound()
	return nil
}

func (t *Tournament) playMatch(ctx context.Context, player GamePlayer, roundNum, idx int, pairing *Pairing) error {
	var wins [2]int
	draws := 0
	maxGames := 2*t.WinsRequired + 1
	for g := 0; g < maxGames && wins[0] < t.WinsRequired && wins[1] < t.WinsRequired; g++ {
		// Alternate who sits first.
		decks := []string{pairing.Player1, pairing.Player2}
		if g%2 == 1 {
			decks[0], decks[1] = decks[1], decks[0]
		}
		seed := t.Seed + int64(roundNum)*10_000 + int64(idx)*100 + int64(g)
		winner, err := player.PlayGame(ctx, seed, decks)
		if err != nil {
			return fmt.Errorf("round %d %s vs %s game %d: %w", roundNum, pairing.Player1, pairing.Player2, g+1, err)
		}
		switch {
		case winner < 0:
			draws++
		case decks[winner] == pairing.Player1:
			wins[0]++
		default:
			wins[1]++
		}
	}
	return t.recordMatchResult(roundNum, pairing.Player1, pairing.Player2, wins[0], wins[1], draws)
}

func (t *Tournament) finish() {
	now := time.Now()
	t.EndTime = &now
	t.State = TournamentStateFinished
	if ranked := t.ranked(); len(ranked) > 0 {
		t.Winner = ranked[0].Name
	}
	if t.logger != nil {
		t.logger.Info("tournament finished",
			zap.String("tournament_id", t.ID),
			zap.String("winner", t.Winner),
			zap.Int("rounds", t.CurrentRound),
		)
	}
}

// Run starts the tournament if needed and plays every remaining round.
func (t *Tournament) Run(ctx context.Context, player GamePlayer) error {
	if t.GetState() == TournamentStateWaiting {
		if err := t.Start(); err != nil {
			return err
		}
	}
	for t.GetState() == TournamentStateInProgress {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.PlayRound(ctx, player); err != nil {
			return err
		}
	}
	return nil
}

// Standings returns copies of the players in rank order.
func (t *Tournament) Standings() []Player {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ranked := t.ranked()
	out := make([]Player, len(ranked))
	for i, p := range ranked {
		out[i] = *p
	}
	return out
}

// TournamentSnapshot captures a consistent view of a tournament.
type TournamentSnapshot struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	State        string          `json:"state"`
	Winner       string          `json:"winner,omitempty"`
	Standings    []Player        `json:"standings"`
	Rounds       []RoundSnapshot `json:"rounds"`
	CurrentRound int             `json:"current_round"`
	NumRounds    int             `json:"num_rounds"`
	WinsRequired int             `json:"wins_required"`
	CreateTime   time.Time       `json:"create_time"`
	StartTime    *time.Time      `json:"start_time,omitempty"`
	EndTime      *time.Time      `json:"end_time,omitempty"`
}

// RoundSnapshot captures round data for external use.
type RoundSnapshot struct {
	Number   int       `json:"number"`
	Finished bool      `json:"finished"`
	Pairings []Pairing `json:"pairings"`
}

// Snapshot returns a consistent copy of the tournament state.
func (t *Tournament) Snapshot() TournamentSnapshot {
	standings := t.Standings()

	t.mu.RLock()
	defer t.mu.RUnlock()

	rounds := make([]RoundSnapshot, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		pairings := make([]Pairing, 0, len(r.Pairings))
		for _, p := range r.Pairings {
			pairings = append(pairings, *p)
		}
		rounds = append(rounds, RoundSnapshot{
			Number:   r.Number,
			Finished: r.Finished,
			Pairings: pairings,
		})
	}

	return TournamentSnapshot{
		ID:           t.ID,
		Name:         t.Name,
		State:        t.State.String(),
		Winner:       t.Winner,
		Standings:    standings,
		Rounds:       rounds,
		CurrentRound: t.CurrentRound,
		NumRounds:    t.NumRounds,
		WinsRequired: t.WinsRequired,
		CreateTime:   t.CreateTime,
		StartTime:    cloneTime(t.StartTime),
		EndTime:      cloneTime(t.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
