package game

import (
	"fmt"
	"math/rand"

	"github.com/CarterRock49/MTG-AI-Project/internal/cards"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/effects"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/targeting"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/watchers"
	"go.uber.org/zap"
)

const historyLimit = 256

// Game is the complete state of one match. It is owned by a single Engine and is
// not safe for concurrent use on its own.
type Game struct {
	ID     string
	Seed   int64
	table  *cards.Table
	opts   Options
	logger *zap.Logger
	rng    *rand.Rand
	ids    *idGenerator

	players     map[string]*Player
	order       []string
	objects     map[string]*GameObject
	battlefield *Zone
	stackZone   *Zone

	stack        *rules.StackManager
	turn         *rules.TurnManager
	priority     *rules.PriorityTracker
	events       *rules.EventBus
	triggers     *rules.TriggerManager
	queue        *rules.TriggerQueue
	layers       *effects.LayerSystem
	replacements *effects.ReplacementManager
	costs        *mana.Pipeline
	costSources  map[string][]string
	validator    *targeting.Validator
	tokenDefs    map[string]*cards.Definition
	// triggerCards maps a registered trigger to its card, which outlives the source id.
	triggerCards map[string]string
	stats        *watchers.Stats

	combat         *CombatState
	decision       *Decision
	timestamp      int64
	lastRoll       int
	combatHappened bool
	startingPlayer string
	// priorityOpen is set while players hold priority in the current step.
	priorityOpen bool

	over   bool
	winner string
	isDraw bool
	reason string

	history []rules.Event
}

func newGame(table *cards.Table, opts Options, logger *zap.Logger, gameID string, seed int64) *Game {
	g := &Game{
		ID:           gameID,
		Seed:         seed,
		table:        table,
		opts:         opts,
		logger:       logger,
		rng:          rand.New(rand.NewSource(seed)),
		ids:          newIDGenerator(gameID),
		players:      make(map[string]*Player, len(opts.Players)),
		order:        append([]string(nil), opts.Players...),
		objects:      make(map[string]*GameObject),
		battlefield:  newZone(rules.ZoneBattlefield, ""),
		stackZone:    newZone(rules.ZoneStack, ""),
		stack:        rules.NewStackManager(),
		events:       rules.NewEventBus(),
		triggers:     rules.NewTriggerManager(),
		queue:        rules.NewTriggerQueue(),
		layers:       effects.NewLayerSystem(),
		replacements: effects.NewReplacementManager(logger),
		costs:        mana.NewPipeline(),
		costSources:  make(map[string][]string),
		tokenDefs:    make(map[string]*cards.Definition),
		triggerCards: make(map[string]string),
		stats:        watchers.NewStats(),
	}
	for _, id := range g.order {
		g.players[id] = newPlayer(id, opts.StartingLife)
	}
	g.startingPlayer = g.order[g.rng.Intn(len(g.order))]
	g.turn = rules.NewTurnManager(g.startingPlayer)
	g.priority = rules.NewPriorityTracker(g.order)
	g.validator = targeting.NewValidator(targetView{g})

	g.events.Subscribe(g.record)
	g.events.Subscribe(g.collectTriggers)
	g.events.Subscribe(g.stats.Watch)
	return g
}

func (g *Game) record(e rules.Event) {
	g.history = append(g.history, e)
	if len(g.history) > historyLimit {
		g.history = g.history[len(g.history)-historyLimit:]
	}
}

func (g *Game) collectTriggers(e rules.Event) {
	pending := g.triggers.Handle(e)
	for i := range pending {
		if obj, ok := g.objects[pending[i].SourceID]; ok && obj.Zone == rules.ZoneBattlefield {
			pending[i].Controller = g.controllerOf(obj.ID)
		}
	}
	g.queue.Add(pending...)
}

func (g *Game) nextTimestamp() int64 {
	g.timestamp++
	return g.timestamp
}

// Object returns the object with id.
func (g *Game) Object(id string) (*GameObject, bool) {
	obj, ok := g.objects[id]
	return obj, ok
}

// Player returns the player with id.
func (g *Game) Player(id string) (*Player, bool) {
	p, ok := g.players[id]
	return p, ok
}

// Battlefield returns the permanent ids in the order they entered.
func (g *Game) Battlefield() []string {
	return g.battlefield.IDs()
}

// Events returns the most recent events, oldest first.
func (g *Game) Events() []rules.Event {
	return append([]rules.Event(nil), g.history...)
}

func (g *Game) livePlayers() []string {
	var out []string
	for _, id := range g.order {
		if !g.players[id].Lost {
			out = append(out, id)
		}
	}
	return out
}

func (g *Game) opponents(player string) []string {
	var out []string
	for _, id := range g.livePlayers() {
		if id != player {
			out = append(out, id)
		}
	}
	return out
}

// nextLivePlayer returns the first live player after player in turn order.
func (g *Game) nextLivePlayer(player string) string {
	n := len(g.order)
	start := 0
	for i, id := range g.order {
		if id == player {
			start = i
			break
		}
	}
	for k := 1; k <= n; k++ {
		id := g.order[(start+k)%n]
		if !g.players[id].Lost {
			return id
		}
	}
	return player
}

func (g *Game) definition(cardID string) (*cards.Definition, error) {
	if def, ok := g.tokenDefs[cardID]; ok {
		return def, nil
	}
	return g.table.Lookup(cardID)
}

// newObject creates an object for def owned by owner at the bottom of zone.
func (g *Game) newObject(def *cards.Definition, owner string, zone rules.Zone, token bool) (*GameObject, error) {
	container := g.container(zone, owner)
	if container == nil {
		return nil, fmt.Errorf("%w: no %s zone for %s", ErrInvalidZoneTransition, zone, owner)
	}
	obj := &GameObject{
		ID:         g.ids.next("object"),
		CardID:     def.ID,
		Owner:      owner,
		Controller: owner,
		Zone:       zone,
		Counters:   counters.New(),
		IsToken:    token,
		def:        def,
	}
	g.objects[obj.ID] = obj
	container.insert(obj.ID, PositionBottom)
	if zone == rules.ZoneBattlefield {
		g.enterBattlefield(obj)
		etb := rules.NewEvent(rules.EventEntersBattlefield, obj.ID, obj.ID, owner)
		etb.Zone = zone
		g.events.Publish(etb)
	}
	return obj, nil
}

// createToken puts count tokens described by tmpl onto the battlefield under controller.
func (g *Game) createToken(tmpl *cards.TokenTemplate, controller string, count int) []string {
	def := tmpl.Definition()
	g.tokenDefs[def.ID] = def
	var ids []string
	for i := 0; i < count; i++ {
		obj, err := g.newObject(def, controller, rules.ZoneBattlefield, true)
		if err != nil {
			continue
		}
		ids = append(ids, obj.ID)
		g.events.Publish(rules.NewEvent(rules.EventTokenCreated, obj.ID, obj.ID, controller))
	}
	return ids
}

// draw moves n cards from the top of player's library to their hand. Drawing from
// an empty library marks the player for the next state-based action check.
func (g *Game) draw(player string, n int) {
	p := g.players[player]
	for i := 0; i < n; i++ {
		top, ok := p.Library.Top()
		if !ok {
			p.drewFromEmpty = true
			return
		}
		newID, err := g.Move(top, rules.ZoneLibrary, rules.ZoneHand, PositionBottom)
		if err != nil {
			continue
		}
		g.events.Publish(rules.NewEvent(rules.EventDrawCard, newID, "", player))
	}
}

func (g *Game) shuffle(player string) {
	ids := g.players[player].Library.ids
	g.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}

func (g *Game) changeLife(player string, delta int, source string) {
	if delta == 0 {
		return
	}
	p := g.players[player]
	p.Life += delta
	g.events.Publish(rules.NewEventWithAmount(rules.EventLifeChange, player, source, player, delta))
}

func (g *Game) tap(id string) {
	obj := g.objects[id]
	if obj == nil || obj.Tapped {
		return
	}
	obj.Tapped = true
	g.events.Publish(rules.NewEvent(rules.EventTapped, id, "", obj.Controller))
}

func (g *Game) untap(id string) {
	obj := g.objects[id]
	if obj == nil || !obj.Tapped {
		return
	}
	obj.Tapped = false
	g.events.Publish(rules.NewEvent(rules.EventUntapped, id, "", obj.Controller))
}

func (g *Game) timingContext(player string) rules.TimingContext {
	ctx := rules.TimingContext{
		Player:          player,
		ActivePlayer:    g.turn.ActivePlayer(),
		PriorityPlayer:  g.turn.PriorityPlayer(),
		Step:            g.turn.CurrentStep(),
		StackEmpty:      g.stack.IsEmpty(),
		PendingDecision: g.decision != nil,
	}
	if p := g.players[player]; p != nil {
		ctx.LandsPlayed = p.LandsPlayed
		ctx.LandLimit = p.LandLimit
	}
	return ctx
}

// targetView adapts the game to the targeting accessor.
type targetView struct{ g *Game }

func (v targetView) Object(id string) (targeting.ObjectInfo, bool) {
	obj, ok := v.g.objects[id]
	if !ok {
		return targeting.ObjectInfo{}, false
	}
	snap, _ := v.g.Characteristics(id)
	return targeting.ObjectInfo{
		ID:           id,
		Zone:         obj.Zone,
		ControllerID: snap.ControllerID,
		Types:        snap.Types,
		Hexproof:     snap.HasKeyword("hexproof"),
		Shroud:       snap.HasKeyword("shroud"),
	}, true
}

func (v targetView) Player(id string) (targeting.PlayerInfo, bool) {
	p, ok := v.g.players[id]
	if !ok {
		return targeting.PlayerInfo{}, false
	}
	return targeting.PlayerInfo{ID: id, Lost: p.Lost}, true
}

func (v targetView) Players() []string     { return append([]string(nil), v.g.order...) }
func (v targetView) Battlefield() []string { return v.g.battlefield.IDs() }
func (v targetView) Stack() []string       { return v.g.stackZone.IDs() }
