package watchers

import "github.com/CarterRock49/MTG-AI-Project/internal/game/rules"

// Watcher observes game events and accumulates state from them.
type Watcher interface {
	Watch(event rules.Event)
	Reset()
}

// SpellsCastWatcher tracks spells cast by players.
type SpellsCastWatcher struct {
	spellsCast     map[string][]string // playerID -> list of spell IDs
	creatureSpells map[string]int
}

// NewSpellsCastWatcher creates a new spells cast watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	w := &SpellsCastWatcher{}
	w.Reset()
	return w
}

// Watch implements the Watcher interface.
func (w *SpellsCastWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventSpellCast || event.Controller == "" {
		return
	}
	w.spellsCast[event.Controller] = append(w.spellsCast[event.Controller], event.TargetID)
	if event.Metadata["creature"] == "true" {
		w.creatureSpells[event.Controller]++
	}
}

// Reset clears the watcher's state.
func (w *SpellsCastWatcher) Reset() {
	w.spellsCast = make(map[string][]string)
	w.creatureSpells = make(map[string]int)
}

// GetSpellsCast returns the spells a player has cast, in cast order.
func (w *SpellsCastWatcher) GetSpellsCast(playerID string) []string {
	return append([]string(nil), w.spellsCast[playerID]...)
}

// GetCount returns the number of spells a player has cast.
func (w *SpellsCastWatcher) GetCount(playerID string) int {
	return len(w.spellsCast[playerID])
}

// GetCreatureCount returns the number of creature spells a player has cast.
func (w *SpellsCastWatcher) GetCreatureCount(playerID string) int {
	return w.creatureSpells[playerID]
}

// CreaturesDiedWatcher tracks creatures put into a graveyard from the battlefield.
type CreaturesDiedWatcher struct {
	creaturesDiedByController map[string]int
	names                     []string
}

// NewCreaturesDiedWatcher creates a new creatures died watcher.
func NewCreaturesDiedWatcher() *CreaturesDiedWatcher {
	w := &CreaturesDiedWatcher{}
	w.Reset()
	return w
}

// Watch implements the Watcher interface.
func (w *CreaturesDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDies {
		return
	}
	if event.Controller != "" {
		w.creaturesDiedByController[event.Controller]++
	}
	if name := event.Metadata["name"]; name != "" {
		w.names = append(w.names, name)
	}
}

// Reset clears the watcher's state.
func (w *CreaturesDiedWatcher) Reset() {
	w.creaturesDiedByController = make(map[string]int)
	w.names = nil
}

// GetAmountByController returns the number of creatures that died under a controller.
func (w *CreaturesDiedWatcher) GetAmountByController(controllerID string) int {
	return w.creaturesDiedByController[controllerID]
}

// GetTotalAmount returns the total number of creatures that died.
func (w *CreaturesDiedWatcher) GetTotalAmount() int {
	total := 0
	for _, count := range w.creaturesDiedByController {
		total += count
	}
	return total
}

// Names returns the names of the creatures that died, in order.
func (w *CreaturesDiedWatcher) Names() []string {
	return append([]string(nil), w.names...)
}

// CardsDrawnWatcher tracks cards drawn by players.
type CardsDrawnWatcher struct {
	cardsDrawn map[string]int
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	w := &CardsDrawnWatcher{}
	w.Reset()
	return w
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDrawCard || event.Controller == "" {
		return
	}
	w.cardsDrawn[event.Controller]++
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.cardsDrawn = make(map[string]int)
}

// GetCount returns the number of cards drawn by a player.
func (w *CardsDrawnWatcher) GetCount(playerID string) int {
	return w.cardsDrawn[playerID]
}

// DamageWatcher tracks damage dealt, by the controller of the source.
type DamageWatcher struct {
	dealt         map[string]int
	dealtToPlayer map[string]int
	taken         map[string]int
}

// NewDamageWatcher creates a new damage watcher.
func NewDamageWatcher() *DamageWatcher {
	w := &DamageWatcher{}
	w.Reset()
	return w
}

// Watch implements the Watcher interface.
func (w *DamageWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDamage || event.Amount <= 0 {
		return
	}
	if event.Controller != "" {
		w.dealt[event.Controller] += event.Amount
		if event.Flag {
			w.dealtToPlayer[event.Controller] += event.Amount
		}
	}
	if event.Flag {
		w.taken[event.TargetID] += event.Amount
	}
}

// Reset clears the watcher's state.
func (w *DamageWatcher) Reset() {
	w.dealt = make(map[string]int)
	w.dealtToPlayer = make(map[string]int)
	w.taken = make(map[string]int)
}

// Dealt returns the damage dealt by sources a player controlled.
func (w *DamageWatcher) Dealt(playerID string) int { return w.dealt[playerID] }

// DealtToPlayers returns the part of Dealt that was dealt to players.
func (w *DamageWatcher) DealtToPlayers(playerID string) int { return w.dealtToPlayer[playerID] }

// Taken returns the damage dealt to a player.
func (w *DamageWatcher) Taken(playerID string) int { return w.taken[playerID] }

// PermanentsEnteredWatcher tracks permanents entering the battlefield.
type PermanentsEnteredWatcher struct {
	entered map[string][]string
	lands   map[string]int
}

// NewPermanentsEnteredWatcher creates a new permanents entered watcher.
func NewPermanentsEnteredWatcher() *PermanentsEnteredWatcher {
	w := &PermanentsEnteredWatcher{}
	w.Reset()
	return w
}

// Watch implements the Watcher interface.
func (w *PermanentsEnteredWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventEntersBattlefield:
		if event.Controller != "" {
			w.entered[event.Controller] = append(w.entered[event.Controller], event.TargetID)
		}
	case rules.EventLandPlayed:
		if event.Controller != "" {
			w.lands[event.Controller]++
		}
	}
}

// Reset clears the watcher's state.
func (w *PermanentsEnteredWatcher) Reset() {
	w.entered = make(map[string][]string)
	w.lands = make(map[string]int)
}

// GetPermanentsEntered returns the permanents that entered under a controller.
func (w *PermanentsEnteredWatcher) GetPermanentsEntered(controllerID string) []string {
	return append([]string(nil), w.entered[controllerID]...)
}

// GetLandsPlayed returns the number of lands a player played.
func (w *PermanentsEnteredWatcher) GetLandsPlayed(playerID string) int {
	return w.lands[playerID]
}

// PlayerStats summarizes one player's game.
type PlayerStats struct {
	SpellsCast        int `json:"spells_cast"`
	CreatureSpells    int `json:"creature_spells"`
	CardsDrawn        int `json:"cards_drawn"`
	LandsPlayed       int `json:"lands_played"`
	PermanentsEntered int `json:"permanents_entered"`
	CreaturesLost     int `json:"creatures_lost"`
	DamageDealt       int `json:"damage_dealt"`
	DamageToPlayers   int `json:"damage_to_players"`
	DamageTaken       int `json:"damage_taken"`
}

// Stats runs the standard watchers over a game's events.
type Stats struct {
	Spells  *SpellsCastWatcher
	Died    *CreaturesDiedWatcher
	Drawn   *CardsDrawnWatcher
	Damage  *DamageWatcher
	Entered *PermanentsEnteredWatcher
}

// NewStats creates the standard watcher set.
func NewStats() *Stats {
	return &Stats{
		Spells:  NewSpellsCastWatcher(),
		Died:    NewCreaturesDiedWatcher(),
		Drawn:   NewCardsDrawnWatcher(),
		Damage:  NewDamageWatcher(),
		Entered: NewPermanentsEnteredWatcher(),
	}
}

func (s *Stats) all() []Watcher {
	return []Watcher{s.Spells, s.Died, s.Drawn, s.Damage, s.Entered}
}

// Watch implements the Watcher interface.
func (s *Stats) Watch(event rules.Event) {
	for _, w := range s.all() {
		w.Watch(event)
	}
}

// Reset clears every watcher.
func (s *Stats) Reset() {
	for _, w := range s.all() {
		w.Reset()
	}
}

// Player returns the summary for one player.
func (s *Stats) Player(playerID string) PlayerStats {
	return PlayerStats{
		SpellsCast:        s.Spells.GetCount(playerID),
		CreatureSpells:    s.Spells.GetCreatureCount(playerID),
		CardsDrawn:        s.Drawn.GetCount(playerID),
		LandsPlayed:       s.Entered.GetLandsPlayed(playerID),
		PermanentsEntered: len(s.Entered.GetPermanentsEntered(playerID)),
		CreaturesLost:     s.Died.GetAmountByController(playerID),
		DamageDealt:       s.Damage.Dealt(playerID),
		DamageToPlayers:   s.Damage.DealtToPlayers(playerID),
		DamageTaken:       s.Damage.Taken(playerID),
	}
}

// Summary returns the summary of every player in ids, keyed by player.
func (s *Stats) Summary(ids []string) map[string]PlayerStats {
	out := make(map[string]PlayerStats, len(ids))
	for _, id := range ids {
		out[id] = s.Player(id)
	}
	return out
}
