package rules

// TargetCheck reports whether the target chosen for slot index of item is still legal.
type TargetCheck func(item StackItem, index int, target Target) bool

// LegalityResult is the outcome of re-validating a stack item before it resolves.
type LegalityResult struct {
	Legal        bool
	Reason       string
	Illegal      []Target
	IllegalSlots []int
}

// SlotIllegal reports whether the target in slot index failed re-validation.
func (r LegalityResult) SlotIllegal(index int) bool {
	for _, i := range r.IllegalSlots {
		if i == index {
			return true
		}
	}
	return false
}

// CheckStackItemLegality re-validates the item's targets. An item with targets whose
// targets have all become illegal does not resolve; it fizzles. Items without targets
// are always legal. Targets that are still legal are not re-chosen.
func CheckStackItemLegality(item StackItem, check TargetCheck) LegalityResult {
	if !item.HasTargets() || check == nil {
		return LegalityResult{Legal: true}
	}
	var res LegalityResult
	for i, target := range item.Targets {
		if !check(item, i, target) {
			res.Illegal = append(res.Illegal, target)
			res.IllegalSlots = append(res.IllegalSlots, i)
		}
	}
	if len(res.Illegal) == len(item.Targets) {
		res.Reason = "all targets illegal"
		return res
	}
	res.Legal = true
	return res
}
