package rules

import (
	"errors"
	"fmt"
	"sync"
)

// ErrIllegalStackOperation is returned when the stack is manipulated in a way the rules forbid.
var ErrIllegalStackOperation = errors.New("illegal stack operation")

// StackItemKind describes the type of object on the stack.
type StackItemKind string

const (
	// StackItemKindSpell represents a spell cast by a player.
	StackItemKindSpell StackItemKind = "SPELL"
	// StackItemKindActivated represents an activated ability.
	StackItemKindActivated StackItemKind = "ACTIVATED"
	// StackItemKindTriggered represents a triggered ability.
	StackItemKindTriggered StackItemKind = "TRIGGERED"
)

// Target is a target chosen when the item was put on the stack.
type Target struct {
	ID     string `json:"id"`
	Player bool   `json:"player,omitempty"`
}

// StackItem represents a single object on the stack. Targets, modes and X are
// fixed when the item is pushed; resolution re-validates them but never re-chooses.
type StackItem struct {
	ID          string            `json:"id"`
	Controller  string            `json:"controller"`
	Description string            `json:"description"`
	Kind        StackItemKind     `json:"kind"`
	SourceID    string            `json:"source_id"`
	CardID      string            `json:"card_id"`
	Ability     int               `json:"ability"`
	Targets     []Target          `json:"targets,omitempty"`
	Modes       []int             `json:"modes,omitempty"`
	XValue      int               `json:"x_value,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// HasTargets reports whether the item was put on the stack with at least one target.
func (si StackItem) HasTargets() bool {
	return len(si.Targets) > 0
}

// TargetIDs returns the ids of the chosen targets in order.
func (si StackItem) TargetIDs() []string {
	ids := make([]string, len(si.Targets))
	for i, t := range si.Targets {
		ids[i] = t.ID
	}
	return ids
}

// StackManager manages the game stack.
type StackManager struct {
	mu    sync.Mutex
	items []StackItem
}

// NewStackManager creates a new stack manager.
func NewStackManager() *StackManager {
	return &StackManager{
		items: make([]StackItem, 0, 16),
	}
}

// Push adds an item to the top of the stack.
func (sm *StackManager) Push(item StackItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: stack item without id", ErrIllegalStackOperation)
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, existing := range sm.items {
		if existing.ID == item.ID {
			return fmt.Errorf("%w: duplicate stack item %s", ErrIllegalStackOperation, item.ID)
		}
	}
	sm.items = append(sm.items, item)
	return nil
}

// Pop removes the top item from the stack.
func (sm *StackManager) Pop() (StackItem, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if len(sm.items) == 0 {
		return StackItem{}, fmt.Errorf("%w: pop from empty stack", ErrIllegalStackOperation)
	}

	idx := len(sm.items) - 1
	item := sm.items[idx]
	sm.items = sm.items[:idx]
	return item, nil
}

// Remove deletes an item from anywhere in the stack by ID.
func (sm *StackManager) Remove(id string) (StackItem, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for idx := len(sm.items) - 1; idx >= 0; idx-- {
		if sm.items[idx].ID == id {
			item := sm.items[idx]
			sm.items = append(sm.items[:idx], sm.items[idx+1:]...)
			return item, true
		}
	}
	return StackItem{}, false
}

// Get returns the item with the given id.
func (sm *StackManager) Get(id string) (StackItem, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, item := range sm.items {
		if item.ID == id {
			return item, true
		}
	}
	return StackItem{}, false
}

// Peek returns the top item without removing it.
func (sm *StackManager) Peek() (StackItem, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if len(sm.items) == 0 {
		return StackItem{}, false
	}
	return sm.items[len(sm.items)-1], true
}

// List returns a copy of all stack items (topmost last).
func (sm *StackManager) List() []StackItem {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	cpy := make([]StackItem, len(sm.items))
	copy(cpy, sm.items)
	return cpy
}

// Len returns the number of items on the stack.
func (sm *StackManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.items)
}

// IsEmpty returns whether the stack is empty.
func (sm *StackManager) IsEmpty() bool {
	return sm.Len() == 0
}

// Clear empties the stack and returns what was on it.
func (sm *StackManager) Clear() []StackItem {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	items := sm.items
	sm.items = make([]StackItem, 0, 16)
	return items
}
