package effects

import "sort"

// Duration represents how long an effect lasts.
type Duration string

const (
	// DurationEndOfTurn effects expire in the cleanup step.
	DurationEndOfTurn Duration = "EndOfTurn"
	// DurationEndOfCombat effects expire at the end of combat step.
	DurationEndOfCombat Duration = "EndOfCombat"
	// DurationWhileOnBattlefield effects last while their source is on the battlefield.
	DurationWhileOnBattlefield Duration = "WhileOnBattlefield"
	// DurationPermanent effects last indefinitely.
	DurationPermanent Duration = "Permanent"
)

// CleanupEndOfTurn removes effects that last until end of turn and returns their ids.
func (ls *LayerSystem) CleanupEndOfTurn() []string {
	return ls.removeWhere(func(e ContinuousEffect) bool {
		return e.Duration() == DurationEndOfTurn || e.Duration() == DurationEndOfCombat
	})
}

// CleanupEndOfCombat removes effects that last until end of combat.
func (ls *LayerSystem) CleanupEndOfCombat() []string {
	return ls.removeWhere(func(e ContinuousEffect) bool {
		return e.Duration() == DurationEndOfCombat
	})
}

// RemoveBySource removes the effects a source generates while it is on the battlefield.
// Effects with a fixed duration outlive their source and are kept.
func (ls *LayerSystem) RemoveBySource(sourceID string) []string {
	return ls.removeWhere(func(e ContinuousEffect) bool {
		return e.SourceID() == sourceID && e.Duration() == DurationWhileOnBattlefield
	})
}

// RemoveAffecting removes effects locked onto objectID, used when that object leaves
// the battlefield and its previous existence ends.
func (ls *LayerSystem) RemoveAffecting(objectID string) []string {
	return ls.removeWhere(func(e ContinuousEffect) bool {
		locked, ok := e.(interface{ AffectedID() string })
		return ok && locked.AffectedID() == objectID
	})
}

func (ls *LayerSystem) removeWhere(match func(ContinuousEffect) bool) []string {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	var removed []string
	for id, e := range ls.effects {
		if match(e) {
			removed = append(removed, id)
			delete(ls.effects, id)
		}
	}
	sortStrings(removed)
	return removed
}

func sortStrings(s []string) {
	sort.Strings(s)
}
