package rules

import (
	"sort"
	"sync"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	EventZoneChange        EventType = "ZONE_CHANGE"
	EventEntersBattlefield EventType = "ENTERS_THE_BATTLEFIELD"
	EventDies              EventType = "DIES"
	EventDrawCard          EventType = "DRAW_CARD"
	EventDiscard           EventType = "DISCARD"
	EventLandPlayed        EventType = "LAND_PLAYED"
	EventDestroy           EventType = "DESTROY"
	EventDamage            EventType = "DAMAGE"
	EventDamagePrevented   EventType = "DAMAGE_PREVENTED"
	EventLifeChange        EventType = "LIFE_CHANGE"
	EventCountersChanged   EventType = "COUNTERS_CHANGED"
	EventTapped            EventType = "TAPPED"
	EventUntapped          EventType = "UNTAPPED"
	EventSpellCast         EventType = "SPELL_CAST"
	EventAbilityActivated  EventType = "ABILITY_ACTIVATED"
	EventAbilityTriggered  EventType = "ABILITY_TRIGGERED"
	EventStackResolved     EventType = "STACK_RESOLVED"
	EventFizzled           EventType = "FIZZLED"
	EventCountered         EventType = "COUNTERED"
	EventStepChange        EventType = "STEP_CHANGE"
	EventTurnBegin         EventType = "TURN_BEGIN"
	EventAttackDeclared    EventType = "ATTACK_DECLARED"
	EventBlockDeclared     EventType = "BLOCK_DECLARED"
	EventRegenerated       EventType = "REGENERATED"
	EventTokenCreated      EventType = "TOKEN_CREATED"
	EventDieRolled         EventType = "DIE_ROLLED"
	EventCoinFlipped       EventType = "COIN_FLIPPED"
	EventStateBasedAction  EventType = "STATE_BASED_ACTION"
	EventMulligan          EventType = "MULLIGAN"
	EventPlayerLost        EventType = "PLAYER_LOST"
	EventGameOver          EventType = "GAME_OVER"
)

// Event captures a rules-relevant occurrence. Sequence is assigned by the bus and
// orders events deterministically within a game.
type Event struct {
	Sequence    int               `json:"sequence"`
	Type        EventType         `json:"type"`
	TargetID    string            `json:"target_id,omitempty"`
	SourceID    string            `json:"source_id,omitempty"`
	Controller  string            `json:"controller,omitempty"`
	PlayerID    string            `json:"player_id,omitempty"`
	Amount      int               `json:"amount,omitempty"`
	Flag        bool              `json:"flag,omitempty"`
	FromZone    Zone              `json:"from_zone,omitempty"`
	Zone        Zone              `json:"zone,omitempty"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType // empty matches every event
	callback  Listener
}

// EventBus is a synchronous publish/subscribe bus. Listeners run in subscription order.
type EventBus struct {
	mu         sync.Mutex
	subs       []subscription
	nextHandle int
	sequence   int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.SubscribeTyped("", listener)
}

// SubscribeTyped registers a listener for one event type and returns a handle.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: listener})
	return handle
}

// Unsubscribe removes the listener identified by handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subs {
		if sub.handle == handle {
			bus.subs = append(bus.subs[:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish stamps the event with the next sequence number and delivers it.
// Listeners may publish further events; those are delivered after the current one.
func (bus *EventBus) Publish(event Event) Event {
	bus.mu.Lock()
	bus.sequence++
	event.Sequence = bus.sequence
	subs := make([]subscription, len(bus.subs))
	copy(subs, bus.subs)
	bus.mu.Unlock()

	for _, sub := range subs {
		if sub.eventType == "" || sub.eventType == event.Type {
			sub.callback(event)
		}
	}
	return event
}

// Sequence returns the sequence number of the last published event.
func (bus *EventBus) Sequence() int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.sequence
}

// NewEvent creates an event with the common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, controllerID string) Event {
	return Event{
		Type:       eventType,
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: controllerID,
		PlayerID:   controllerID,
	}
}

// NewEventWithAmount creates an event carrying a numeric amount.
func NewEventWithAmount(eventType EventType, targetID, sourceID, controllerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Amount = amount
	return evt
}

// SortEvents orders events by sequence.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].Sequence < events[j].Sequence })
}
