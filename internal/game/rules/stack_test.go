package rules

import (
	"errors"
	"testing"
)

func TestStackManagerPushPop(t *testing.T) {
	sm := NewStackManager()

	if err := sm.Push(StackItem{ID: "first", Controller: "Alice", Kind: StackItemKindSpell}); err != nil {
		t.Fatalf("push first: %v", err)
	}
	if err := sm.Push(StackItem{ID: "second", Controller: "Bob", Kind: StackItemKindTriggered}); err != nil {
		t.Fatalf("push second: %v", err)
	}
	if sm.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", sm.Len())
	}

	item, err := sm.Pop()
	if err != nil {
		t.Fatalf("unexpected error popping top: %v", err)
	}
	if item.ID != "second" {
		t.Fatalf("expected LIFO order (second), got %s", item.ID)
	}

	item, err = sm.Pop()
	if err != nil {
		t.Fatalf("unexpected error popping second item: %v", err)
	}
	if item.ID != "first" {
		t.Fatalf("expected first, got %s", item.ID)
	}
	if !sm.IsEmpty() {
		t.Fatalf("expected stack to be empty")
	}
}

func TestStackManagerPopEmpty(t *testing.T) {
	sm := NewStackManager()
	if _, err := sm.Pop(); !errors.Is(err, ErrIllegalStackOperation) {
		t.Fatalf("expected ErrIllegalStackOperation, got %v", err)
	}
}

func TestStackManagerRejectsDuplicates(t *testing.T) {
	sm := NewStackManager()
	if err := sm.Push(StackItem{ID: "a"}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := sm.Push(StackItem{ID: "a"}); !errors.Is(err, ErrIllegalStackOperation) {
		t.Fatalf("expected duplicate push to fail, got %v", err)
	}
	if err := sm.Push(StackItem{}); !errors.Is(err, ErrIllegalStackOperation) {
		t.Fatalf("expected push without id to fail, got %v", err)
	}
}

func TestStackManagerRemoveAndPeek(t *testing.T) {
	sm := NewStackManager()
	for _, id := range []string{"a", "b", "c"} {
		if err := sm.Push(StackItem{ID: id}); err != nil {
			t.Fatalf("push %s: %v", id, err)
		}
	}

	removed, ok := sm.Remove("b")
	if !ok || removed.ID != "b" {
		t.Fatalf("expected to remove b, got %v %v", removed, ok)
	}
	top, ok := sm.Peek()
	if !ok || top.ID != "c" {
		t.Fatalf("expected c on top, got %v", top)
	}
	list := sm.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "c" {
		t.Fatalf("unexpected stack contents %v", list)
	}
	if _, ok := sm.Remove("missing"); ok {
		t.Fatalf("expected removing a missing id to fail")
	}
}
