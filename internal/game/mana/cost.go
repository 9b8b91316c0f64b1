package mana

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInsufficientMana is returned when the available mana cannot satisfy a cost.
	ErrInsufficientMana = errors.New("insufficient mana")
	// ErrUnknownSymbol is returned for unparseable mana symbols.
	ErrUnknownSymbol = errors.New("unknown mana symbol")
)

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ManaCost represents a parsed mana cost.
type ManaCost struct {
	Generic int
	Colored map[ManaType]int // includes ManaColorless for {C}
	X       int              // number of {X} symbols
	Hybrid  []HybridCost
}

// HybridCost is a symbol that can be paid in more than one way:
// {W/U} (either color), {2/B} (black or two generic), {B/P} (black or 2 life).
type HybridCost struct {
	Options   []ManaType
	Generic   int
	Phyrexian bool
}

// ParseCost parses a mana cost string such as "{1}{G}", "{X}{R}", "{W/U}", "{2/B}" or "{B/P}".
func ParseCost(costStr string) (*ManaCost, error) {
	cost := &ManaCost{Colored: make(map[ManaType]int)}
	costStr = strings.TrimSpace(costStr)
	if costStr == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(costStr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, costStr)
	}
	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		switch {
		case symbol == "X":
			cost.X++
		case symbolToType[symbol] != "":
			cost.Colored[symbolToType[symbol]]++
		case strings.Contains(symbol, "/"):
			hybrid, err := parseHybridCost(symbol)
			if err != nil {
				return nil, err
			}
			cost.Hybrid = append(cost.Hybrid, hybrid)
		default:
			num, err := strconv.Atoi(symbol)
			if err != nil || num < 0 {
				return nil, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
			}
			cost.Generic += num
		}
	}
	return cost, nil
}

// MustParseCost parses a cost and panics on error. Intended for static tables and tests.
func MustParseCost(costStr string) *ManaCost {
	cost, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

func parseHybridCost(symbol string) (HybridCost, error) {
	left, right, _ := strings.Cut(symbol, "/")
	if right == "P" {
		mt, ok := symbolToType[left]
		if !ok || mt == ManaColorless {
			return HybridCost{}, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
		}
		return HybridCost{Options: []ManaType{mt}, Phyrexian: true}, nil
	}
	if n, err := strconv.Atoi(left); err == nil {
		mt, ok := symbolToType[right]
		if !ok || n <= 0 {
			return HybridCost{}, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
		}
		return HybridCost{Options: []ManaType{mt}, Generic: n}, nil
	}
	a, okA := symbolToType[left]
	b, okB := symbolToType[right]
	if !okA || !okB || a == b {
		return HybridCost{}, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
	}
	return HybridCost{Options: []ManaType{a, b}}, nil
}

// Clone returns a deep copy of the cost.
func (mc *ManaCost) Clone() *ManaCost {
	if mc == nil {
		return &ManaCost{Colored: make(map[ManaType]int)}
	}
	out := &ManaCost{
		Generic: mc.Generic,
		Colored: make(map[ManaType]int, len(mc.Colored)),
		X:       mc.X,
		Hybrid:  make([]HybridCost, len(mc.Hybrid)),
	}
	for k, v := range mc.Colored {
		out.Colored[k] = v
	}
	for i, h := range mc.Hybrid {
		out.Hybrid[i] = HybridCost{
			Options:   append([]ManaType(nil), h.Options...),
			Generic:   h.Generic,
			Phyrexian: h.Phyrexian,
		}
	}
	return out
}

// IsZero reports whether the cost requires no mana at all (ignoring X).
func (mc *ManaCost) IsZero() bool {
	if mc == nil {
		return true
	}
	if mc.Generic > 0 || len(mc.Hybrid) > 0 {
		return false
	}
	for _, n := range mc.Colored {
		if n > 0 {
			return false
		}
	}
	return true
}

// ManaValue returns the mana value of the cost with X treated as xValue.
func (mc *ManaCost) ManaValue(xValue int) int {
	if mc == nil {
		return 0
	}
	total := mc.Generic + mc.X*xValue
	for _, n := range mc.Colored {
		total += n
	}
	for _, h := range mc.Hybrid {
		if h.Generic > 1 {
			total += h.Generic
		} else {
			total++
		}
	}
	return total
}

// ColorIdentity returns the colors appearing in the cost in WUBRG order.
func (mc *ManaCost) ColorIdentity() []ManaType {
	if mc == nil {
		return nil
	}
	seen := make(map[ManaType]bool)
	for mt, n := range mc.Colored {
		if n > 0 && mt != ManaColorless {
			seen[mt] = true
		}
	}
	for _, h := range mc.Hybrid {
		for _, mt := range h.Options {
			seen[mt] = true
		}
	}
	var out []ManaType
	for _, mt := range Colors {
		if seen[mt] {
			out = append(out, mt)
		}
	}
	return out
}

// String renders the cost back into symbol form.
func (mc *ManaCost) String() string {
	if mc == nil {
		return ""
	}
	var parts []string
	for i := 0; i < mc.X; i++ {
		parts = append(parts, "{X}")
	}
	if mc.Generic > 0 {
		parts = append(parts, fmt.Sprintf("{%d}", mc.Generic))
	}
	for _, mt := range AllTypes {
		for i := 0; i < mc.Colored[mt]; i++ {
			parts = append(parts, "{"+mt.Symbol()+"}")
		}
	}
	hybrids := make([]string, 0, len(mc.Hybrid))
	for _, h := range mc.Hybrid {
		switch {
		case h.Phyrexian:
			hybrids = append(hybrids, fmt.Sprintf("{%s/P}", h.Options[0].Symbol()))
		case h.Generic > 0:
			hybrids = append(hybrids, fmt.Sprintf("{%d/%s}", h.Generic, h.Options[0].Symbol()))
		default:
			hybrids = append(hybrids, fmt.Sprintf("{%s/%s}", h.Options[0].Symbol(), h.Options[1].Symbol()))
		}
	}
	sort.Strings(hybrids)
	parts = append(parts, hybrids...)
	if len(parts) == 0 {
		return "{0}"
	}
	return strings.Join(parts, "")
}
