package mana

import (
	"fmt"
	"sort"
	"strings"
)

// ManaType represents a type of mana.
type ManaType string

const (
	ManaWhite     ManaType = "WHITE"
	ManaBlue      ManaType = "BLUE"
	ManaBlack     ManaType = "BLACK"
	ManaRed       ManaType = "RED"
	ManaGreen     ManaType = "GREEN"
	ManaColorless ManaType = "COLORLESS"
)

// AllTypes lists every mana type in canonical WUBRG+C order.
var AllTypes = []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless}

// Colors lists the five colors.
var Colors = []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen}

var symbolToType = map[string]ManaType{
	"W": ManaWhite,
	"U": ManaBlue,
	"B": ManaBlack,
	"R": ManaRed,
	"G": ManaGreen,
	"C": ManaColorless,
}

var typeToSymbol = map[ManaType]string{
	ManaWhite:     "W",
	ManaBlue:      "U",
	ManaBlack:     "B",
	ManaRed:       "R",
	ManaGreen:     "G",
	ManaColorless: "C",
}

// ParseType converts a one-letter symbol ("G") or a full name ("green") into a ManaType.
func ParseType(s string) (ManaType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if mt, ok := symbolToType[s]; ok {
		return mt, nil
	}
	for _, mt := range AllTypes {
		if string(mt) == s {
			return mt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, s)
}

// Symbol returns the one-letter symbol for the type.
func (mt ManaType) Symbol() string {
	return typeToSymbol[mt]
}

// Pool is a player's mana pool: mana type to available amount.
// Pool values are treated as immutable by the payment functions; they return new pools.
type Pool map[ManaType]int

// NewPool creates an empty pool.
func NewPool() Pool {
	return make(Pool)
}

// Add adds mana of a type.
func (p Pool) Add(mt ManaType, amount int) {
	if amount <= 0 {
		return
	}
	p[mt] += amount
}

// Get returns the amount of a mana type.
func (p Pool) Get(mt ManaType) int {
	return p[mt]
}

// Total returns the total amount of mana in the pool.
func (p Pool) Total() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Clone returns a deep copy.
func (p Pool) Clone() Pool {
	out := make(Pool, len(p))
	for k, v := range p {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// Equal reports whether two pools hold the same mana.
func (p Pool) Equal(other Pool) bool {
	for _, mt := range AllTypes {
		if p[mt] != other[mt] {
			return false
		}
	}
	return true
}

// Units expands the pool into one single-type unit per mana.
func (p Pool) Units() []Unit {
	units := make([]Unit, 0, p.Total())
	for _, mt := range AllTypes {
		for i := 0; i < p[mt]; i++ {
			units = append(units, Unit{Produces: []ManaType{mt}})
		}
	}
	return units
}

// String renders the pool as symbols, e.g. "{G}{G}{C}".
func (p Pool) String() string {
	var b strings.Builder
	for _, mt := range AllTypes {
		for i := 0; i < p[mt]; i++ {
			b.WriteString("{" + mt.Symbol() + "}")
		}
	}
	return b.String()
}

// Unit is one mana that is available to pay a cost: either mana already in the pool
// (SourceID empty, one produced type) or an untapped mana source that can produce
// one of several types.
type Unit struct {
	SourceID string
	Produces []ManaType
}

// FromSource reports whether the unit is an untapped source rather than pool mana.
func (u Unit) FromSource() bool {
	return u.SourceID != ""
}

// CanProduce reports whether the unit can produce the mana type.
func (u Unit) CanProduce(mt ManaType) bool {
	for _, p := range u.Produces {
		if p == mt {
			return true
		}
	}
	return false
}

func (u Unit) signature() string {
	parts := make([]string, len(u.Produces))
	for i, p := range u.Produces {
		parts[i] = string(p)
	}
	sort.Strings(parts)
	prefix := "P:"
	if u.FromSource() {
		prefix = "S:"
	}
	return prefix + strings.Join(parts, ",")
}
