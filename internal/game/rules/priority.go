package rules

// PriorityTracker counts consecutive priority passes. A step or the top of the stack
// advances only when every live player has passed in succession without acting.
type PriorityTracker struct {
	order  []string
	passed map[string]bool
}

// NewPriorityTracker creates a tracker over the given turn order.
func NewPriorityTracker(order []string) *PriorityTracker {
	pt := &PriorityTracker{passed: make(map[string]bool)}
	pt.SetPlayers(order)
	return pt
}

// SetPlayers replaces the set of live players in turn order and resets the count.
func (pt *PriorityTracker) SetPlayers(order []string) {
	pt.order = append([]string(nil), order...)
	pt.Reset()
}

// Players returns the live players in turn order.
func (pt *PriorityTracker) Players() []string {
	return append([]string(nil), pt.order...)
}

// Pass records a pass by player and reports whether all live players have now
// passed in succession.
func (pt *PriorityTracker) Pass(player string) bool {
	pt.passed[player] = true
	return pt.AllPassed()
}

// AllPassed reports whether every live player has passed since the last reset.
func (pt *PriorityTracker) AllPassed() bool {
	if len(pt.order) == 0 {
		return false
	}
	for _, p := range pt.order {
		if !pt.passed[p] {
			return false
		}
	}
	return true
}

// Passes returns the number of consecutive passes recorded.
func (pt *PriorityTracker) Passes() int {
	return len(pt.passed)
}

// Reset clears the pass count. Called whenever a player takes an action, an item
// resolves or a new step begins.
func (pt *PriorityTracker) Reset() {
	for k := range pt.passed {
		delete(pt.passed, k)
	}
}

// Next returns the live player after current in turn order, wrapping around.
func (pt *PriorityTracker) Next(current string) string {
	if len(pt.order) == 0 {
		return ""
	}
	for i, p := range pt.order {
		if p == current {
			return pt.order[(i+1)%len(pt.order)]
		}
	}
	return pt.order[0]
}

// APNAP returns the live players starting from active and continuing in turn order.
func (pt *PriorityTracker) APNAP(active string) []string {
	return APNAPOrder(pt.order, active)
}

// APNAPOrder rotates order so that it begins with active.
func APNAPOrder(order []string, active string) []string {
	start := 0
	for i, p := range order {
		if p == active {
			start = i
			break
		}
	}
	out := make([]string, 0, len(order))
	out = append(out, order[start:]...)
	out = append(out, order[:start]...)
	return out
}
