package rules

import (
	"sort"
	"sync"
)

// AbilityTrigger reacts to one event type for one source. Ability indexes the
// triggered ability on the source's card definition.
type AbilityTrigger struct {
	ID         string
	SourceID   string
	Controller string
	EventType  EventType
	Ability    int
	Condition  func(Event) bool
	Once       bool

	seq int
}

// PendingTrigger is a triggered ability waiting to be put on the stack.
type PendingTrigger struct {
	TriggerID  string `json:"trigger_id"`
	SourceID   string `json:"source_id"`
	Controller string `json:"controller"`
	Ability    int    `json:"ability"`
	Event      Event  `json:"event"`

	seq int
}

// TriggerManager stores ability triggers and matches them against events.
type TriggerManager struct {
	mu       sync.Mutex
	triggers map[string]AbilityTrigger
	seq      int
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{
		triggers: make(map[string]AbilityTrigger),
	}
}

// Register adds a trigger. The trigger ID must be set by the caller.
func (tm *TriggerManager) Register(trigger AbilityTrigger) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.seq++
	trigger.seq = tm.seq
	tm.triggers[trigger.ID] = trigger
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	delete(tm.triggers, id)
}

// UnregisterSource removes every trigger registered for sourceID.
func (tm *TriggerManager) UnregisterSource(sourceID string) int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	removed := 0
	for id, trigger := range tm.triggers {
		if trigger.SourceID == sourceID {
			delete(tm.triggers, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of registered triggers.
func (tm *TriggerManager) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.triggers)
}

// Handle evaluates the event against all registered triggers and returns the
// pending triggers it produces, in registration order.
func (tm *TriggerManager) Handle(event Event) []PendingTrigger {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if len(tm.triggers) == 0 {
		return nil
	}

	matched := make([]AbilityTrigger, 0, 4)
	for _, trigger := range tm.triggers {
		if trigger.EventType != event.Type {
			continue
		}
		if trigger.Condition != nil && !trigger.Condition(event) {
			continue
		}
		matched = append(matched, trigger)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	pending := make([]PendingTrigger, 0, len(matched))
	for _, trigger := range matched {
		pending = append(pending, PendingTrigger{
			TriggerID:  trigger.ID,
			SourceID:   trigger.SourceID,
			Controller: trigger.Controller,
			Ability:    trigger.Ability,
			Event:      event,
		})
		if trigger.Once {
			delete(tm.triggers, trigger.ID)
		}
	}
	return pending
}

// TriggerQueue holds triggered abilities that have triggered but are not yet on the
// stack. They are drained as one batch before a player would receive priority.
type TriggerQueue struct {
	pending []PendingTrigger
	seq     int
}

// NewTriggerQueue creates an empty queue.
func NewTriggerQueue() *TriggerQueue {
	return &TriggerQueue{}
}

// Add enqueues triggers preserving their order.
func (q *TriggerQueue) Add(triggers ...PendingTrigger) {
	for _, t := range triggers {
		q.seq++
		t.seq = q.seq
		q.pending = append(q.pending, t)
	}
}

// Len returns the number of queued triggers.
func (q *TriggerQueue) Len() int {
	return len(q.pending)
}

// Pending returns a copy of the queued triggers in arrival order.
func (q *TriggerQueue) Pending() []PendingTrigger {
	return append([]PendingTrigger(nil), q.pending...)
}

// Drain empties the queue and returns its triggers in APNAP order: grouped by
// controller starting with the active player and following turn order, and in
// arrival order within one controller. Triggers are pushed in the returned order,
// so the last non-active player's triggers resolve first.
func (q *TriggerQueue) Drain(turnOrder []string, active string) []PendingTrigger {
	if len(q.pending) == 0 {
		return nil
	}
	rank := make(map[string]int, len(turnOrder))
	for i, p := range APNAPOrder(turnOrder, active) {
		rank[p] = i
	}
	out := q.pending
	q.pending = nil
	sort.SliceStable(out, func(i, j int) bool {
		ri, okI := rank[out[i].Controller]
		rj, okJ := rank[out[j].Controller]
		if !okI {
			ri = len(rank)
		}
		if !okJ {
			rj = len(rank)
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].seq < out[j].seq
	})
	return out
}
