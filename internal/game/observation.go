package game

import (
	"sort"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/counters"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/mana"
	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
)

// Observation is a complete, stable snapshot of a game. Objects carry their
// computed characteristics. Slices are in zone order.
type Observation struct {
	GameID         string       `json:"game_id"`
	Turn           int          `json:"turn"`
	Phase          string       `json:"phase"`
	Step           string       `json:"step"`
	ActivePlayer   string       `json:"active_player"`
	PriorityPlayer string       `json:"priority_player"`
	ActingPlayer   string       `json:"acting_player"`
	Players        []PlayerView `json:"players"`
	Battlefield    []ObjectView `json:"battlefield"`
	Stack          []StackView  `json:"stack"`
	Combat         *CombatView  `json:"combat,omitempty"`
	Decision       *Decision    `json:"decision,omitempty"`
	Terminal       bool         `json:"terminal"`
	Winner         string       `json:"winner,omitempty"`
	Draw           bool         `json:"draw"`
	Reason         string       `json:"reason,omitempty"`
}

// PlayerView is one player in an observation.
type PlayerView struct {
	ID          string                `json:"id"`
	Life        int                   `json:"life"`
	Poison      int                   `json:"poison"`
	Pool        mana.Pool             `json:"pool,omitempty"`
	LibrarySize int                   `json:"library_size"`
	Hand        []ObjectView          `json:"hand"`
	Graveyard   []ObjectView          `json:"graveyard"`
	Exile       []ObjectView          `json:"exile"`
	LandsPlayed int                   `json:"lands_played"`
	Mulligans   int                   `json:"mulligans"`
	Lost        bool                  `json:"lost"`
	LossReason  string                `json:"loss_reason,omitempty"`
}

// ObjectView is one object with its current characteristics.
type ObjectView struct {
	ID            string          `json:"id"`
	CardID        string          `json:"card_id"`
	Name          string          `json:"name"`
	Owner         string          `json:"owner"`
	Controller    string          `json:"controller"`
	Zone          rules.Zone      `json:"zone"`
	Types         []string        `json:"types"`
	Subtypes      []string        `json:"subtypes,omitempty"`
	Supertypes    []string        `json:"supertypes,omitempty"`
	Colors        []string        `json:"colors,omitempty"`
	Keywords      []string        `json:"keywords,omitempty"`
	HasPT         bool            `json:"has_pt"`
	Power         int             `json:"power"`
	Toughness     int             `json:"toughness"`
	Damage        int             `json:"damage"`
	Tapped        bool            `json:"tapped"`
	SummoningSick bool            `json:"summoning_sick"`
	Counters      []counters.View `json:"counters,omitempty"`
	AttachedTo    string          `json:"attached_to,omitempty"`
	IsToken       bool            `json:"is_token"`
}

// StackView is one stack item, top of stack last.
type StackView struct {
	ID          string              `json:"id"`
	Kind        rules.StackItemKind `json:"kind"`
	Controller  string              `json:"controller"`
	SourceID    string              `json:"source_id"`
	CardID      string              `json:"card_id"`
	Description string              `json:"description"`
	Targets     []rules.Target      `json:"targets,omitempty"`
	X           int                 `json:"x,omitempty"`
}

// CombatView is the combat in progress.
type CombatView struct {
	AttackingPlayer string              `json:"attacking_player"`
	Attackers       []AttackDeclaration `json:"attackers"`
	Blocks          []BlockDeclaration  `json:"blocks"`
	DamageOrder     map[string][]string `json:"damage_order,omitempty"`
	Pending         []AttackDeclaration `json:"pending_attackers,omitempty"`
	PendingBlocks   []BlockDeclaration  `json:"pending_blockers,omitempty"`
}

func (g *Game) objectView(id string) ObjectView {
	obj := g.objects[id]
	snap, _ := g.Characteristics(id)
	return ObjectView{
		ID:            id,
		CardID:        obj.CardID,
		Name:          snap.Name,
		Owner:         obj.Owner,
		Controller:    snap.ControllerID,
		Zone:          obj.Zone,
		Types:         snap.Types,
		Subtypes:      snap.Subtypes,
		Supertypes:    snap.Supertypes,
		Colors:        snap.Colors,
		Keywords:      snap.KeywordList(),
		HasPT:         snap.HasPT,
		Power:         snap.Power,
		Toughness:     snap.Toughness,
		Damage:        obj.Damage,
		Tapped:        obj.Tapped,
		SummoningSick: obj.SummoningSick,
		Counters:      obj.Counters.Views(),
		AttachedTo:    obj.AttachedTo,
		IsToken:       obj.IsToken,
	}
}

func (g *Game) zoneViews(z *Zone) []ObjectView {
	out := make([]ObjectView, 0, z.Len())
	for _, id := range z.ids {
		out = append(out, g.objectView(id))
	}
	return out
}

// observe builds the observation of the current state.
func (g *Game) observe() Observation {
	obs := Observation{
		GameID:         g.ID,
		Turn:           g.turn.TurnNumber(),
		Phase:          g.turn.CurrentPhase().String(),
		Step:           g.turn.CurrentStep().String(),
		ActivePlayer:   g.turn.ActivePlayer(),
		PriorityPlayer: g.turn.PriorityPlayer(),
		ActingPlayer:   g.ActingPlayer(),
		Battlefield:    g.zoneViews(g.battlefield),
		Terminal:       g.over,
		Winner:         g.winner,
		Draw:           g.isDraw,
		Reason:         g.reason,
	}
	for _, id := range g.order {
		p := g.players[id]
		obs.Players = append(obs.Players, PlayerView{
			ID:          id,
			Life:        p.Life,
			Poison:      p.Poison,
			Pool:        p.Pool.Clone(),
			LibrarySize: p.Library.Len(),
			Hand:        g.zoneViews(p.Hand),
			Graveyard:   g.zoneViews(p.Graveyard),
			Exile:       g.zoneViews(p.Exile),
			LandsPlayed: p.LandsPlayed,
			Mulligans:   p.Mulligans,
			Lost:        p.Lost,
			LossReason:  p.LossReason,
		})
	}
	for _, item := range g.stack.List() {
		obs.Stack = append(obs.Stack, StackView{
			ID:          item.ID,
			Kind:        item.Kind,
			Controller:  item.Controller,
			SourceID:    item.SourceID,
			CardID:      item.CardID,
			Description: item.Description,
			Targets:     append([]rules.Target(nil), item.Targets...),
			X:           item.XValue,
		})
	}
	if c := g.combat; c != nil {
		view := &CombatView{
			AttackingPlayer: c.AttackingPlayer,
			DamageOrder:     make(map[string][]string, len(c.DamageOrder)),
			Pending:         append([]AttackDeclaration(nil), c.attackDraft...),
			PendingBlocks:   append([]BlockDeclaration(nil), c.blockDraft...),
		}
		for _, att := range c.attackOrder {
			view.Attackers = append(view.Attackers, AttackDeclaration{Attacker: att, Target: c.Attackers[att]})
			for _, b := range c.Blocks[att] {
				view.Blocks = append(view.Blocks, BlockDeclaration{Blocker: b, Attacker: att})
			}
			if order := c.DamageOrder[att]; len(order) > 0 {
				view.DamageOrder[att] = append([]string(nil), order...)
			}
		}
		obs.Combat = view
	}
	if g.decision != nil {
		d := *g.decision
		obs.Decision = &d
	}
	return obs
}

// Player returns the view of player id.
func (o Observation) Player(id string) (PlayerView, bool) {
	for _, p := range o.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}

// Permanent returns the battlefield view of id.
func (o Observation) Permanent(id string) (ObjectView, bool) {
	for _, v := range o.Battlefield {
		if v.ID == id {
			return v, true
		}
	}
	return ObjectView{}, false
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
