package counters

import (
	"strconv"
	"strings"
)

// Kind identifies a counter kind.
type Kind string

const (
	KindLoyalty Kind = "loyalty"
	KindPoison  Kind = "poison"
	KindCharge  Kind = "charge"
	KindP1P1    Kind = "+1/+1"
	KindM1M1    Kind = "-1/-1"
	KindP1P0    Kind = "+1/+0"
	KindP0P1    Kind = "+0/+1"
)

// Boost returns the power/toughness delta a single counter of this kind grants.
// Returns ok=false for kinds that do not modify power or toughness.
func (k Kind) Boost() (power, toughness int, ok bool) {
	name := strings.TrimSpace(string(k))
	left, right, found := strings.Cut(name, "/")
	if !found {
		return 0, 0, false
	}
	p, ok := parseBoostValue(left)
	if !ok {
		return 0, 0, false
	}
	t, ok := parseBoostValue(right)
	if !ok {
		return 0, 0, false
	}
	return p, t, true
}

func parseBoostValue(s string) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BoostKind builds the kind name for a power/toughness counter, e.g. "+1/+1".
func BoostKind(power, toughness int) Kind {
	return Kind(formatBoost(power) + "/" + formatBoost(toughness))
}

func formatBoost(v int) string {
	if v < 0 {
		return strconv.Itoa(v)
	}
	return "+" + strconv.Itoa(v)
}
