package cards

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a card table.
type File struct {
	Cards []*Definition `yaml:"cards"`
	Decks []Deck        `yaml:"decks,omitempty"`
}

// LoadFile reads a YAML card table. Unknown fields are rejected so that typos in
// effect templates fail at load time rather than mid-game.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML card table.
func Parse(data []byte) (*Table, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidDefinition, err)
	}
	return NewTable(file.Cards, file.Decks...)
}

// Marshal renders definitions and decks in the file layout.
func Marshal(defs []*Definition, decks []Deck) ([]byte, error) {
	return yaml.Marshal(File{Cards: defs, Decks: decks})
}

// Schema creates the card_definitions table. List columns hold comma-separated
// values and abilities holds the YAML-encoded ability templates.
const Schema = `
CREATE TABLE IF NOT EXISTS card_definitions (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	mana_cost   TEXT NOT NULL DEFAULT '',
	types       TEXT NOT NULL,
	subtypes    TEXT NOT NULL DEFAULT '',
	supertypes  TEXT NOT NULL DEFAULT '',
	colors      TEXT NOT NULL DEFAULT '',
	power       INTEGER,
	toughness   INTEGER,
	loyalty     INTEGER NOT NULL DEFAULT 0,
	keywords    TEXT NOT NULL DEFAULT '',
	enchant     TEXT NOT NULL DEFAULT '',
	equip       TEXT NOT NULL DEFAULT '',
	abilities   TEXT NOT NULL DEFAULT ''
)`

// Querier is the subset of *pgxpool.Pool used to read definitions.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Execer is the subset of *pgxpool.Pool and pgx.Tx used to write definitions.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Abilities is the YAML document stored in the abilities column.
type Abilities struct {
	Spell          []EffectTemplate    `yaml:"spell,omitempty"`
	Triggered      []TriggeredTemplate `yaml:"triggered,omitempty"`
	Activated      []ActivatedTemplate `yaml:"activated,omitempty"`
	Static         []StaticTemplate    `yaml:"static,omitempty"`
	AdditionalCost *AdditionalCost     `yaml:"additional_cost,omitempty"`
	Text           string              `yaml:"text,omitempty"`
}

// LoadPostgres reads every row of card_definitions into a table.
func LoadPostgres(ctx context.Context, db Querier, decks ...Deck) (*Table, error) {
	rows, err := db.Query(ctx, `
		SELECT id, name, mana_cost, types, subtypes, supertypes, colors,
		       power, toughness, loyalty, keywords, enchant, equip, abilities
		FROM card_definitions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query card definitions: %w", err)
	}
	defer rows.Close()

	var defs []*Definition
	for rows.Next() {
		var (
			def                                 Definition
			types, subtypes, supertypes, colors string
			keywords, abilities                 string
			power, toughness                    *int32
			loyalty                             int32
		)
		if err := rows.Scan(&def.ID, &def.Name, &def.ManaCost, &types, &subtypes, &supertypes, &colors,
			&power, &toughness, &loyalty, &keywords, &def.Enchant, &def.Equip, &abilities); err != nil {
			return nil, fmt.Errorf("scan card definition: %w", err)
		}
		def.Types = SplitList(types)
		def.Subtypes = SplitList(subtypes)
		def.Supertypes = SplitList(supertypes)
		def.Colors = SplitList(colors)
		def.Keywords = SplitList(keywords)
		def.Loyalty = int(loyalty)
		if power != nil && toughness != nil {
			def.Power, def.Toughness = Ints(int(*power), int(*toughness))
		}
		if strings.TrimSpace(abilities) != "" {
			var ab Abilities
			if err := yaml.Unmarshal([]byte(abilities), &ab); err != nil {
				return nil, fmt.Errorf("%w: %s abilities: %v", ErrInvalidDefinition, def.ID, err)
			}
			def.Spell, def.Triggered, def.Activated, def.Static = ab.Spell, ab.Triggered, ab.Activated, ab.Static
			def.AdditionalCost, def.Text = ab.AdditionalCost, ab.Text
		}
		defs = append(defs, &def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card definitions: %w", err)
	}
	return NewTable(defs, decks...)
}

// UpsertPostgres writes one definition into card_definitions.
func UpsertPostgres(ctx context.Context, db Execer, def *Definition) error {
	abilities, err := yaml.Marshal(Abilities{
		Spell:          def.Spell,
		Triggered:      def.Triggered,
		Activated:      withoutEquip(def.Activated),
		Static:         def.Static,
		AdditionalCost: def.AdditionalCost,
		Text:           def.Text,
	})
	if err != nil {
		return fmt.Errorf("encode abilities for %s: %w", def.ID, err)
	}
	var power, toughness *int
	if p, t, ok := def.PrintedPT(); ok {
		power, toughness = &p, &t
	}
	_, err = db.Exec(ctx, `
		INSERT INTO card_definitions (id, name, mana_cost, types, subtypes, supertypes, colors,
			power, toughness, loyalty, keywords, enchant, equip, abilities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, mana_cost = EXCLUDED.mana_cost, types = EXCLUDED.types,
			subtypes = EXCLUDED.subtypes, supertypes = EXCLUDED.supertypes, colors = EXCLUDED.colors,
			power = EXCLUDED.power, toughness = EXCLUDED.toughness, loyalty = EXCLUDED.loyalty,
			keywords = EXCLUDED.keywords, enchant = EXCLUDED.enchant, equip = EXCLUDED.equip,
			abilities = EXCLUDED.abilities`,
		def.ID, def.Name, def.ManaCost, JoinList(def.Types), JoinList(def.Subtypes), JoinList(def.Supertypes),
		JoinList(def.Colors), power, toughness, def.Loyalty, JoinList(def.Keywords), def.Enchant, def.Equip,
		string(abilities))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", def.ID, err)
	}
	return nil
}

func withoutEquip(abilities []ActivatedTemplate) []ActivatedTemplate {
	var out []ActivatedTemplate
	for _, ab := range abilities {
		if !ab.Equip {
			out = append(out, ab)
		}
	}
	return out
}

// SplitList parses a comma-separated column value.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinList renders a list column value.
func JoinList(list []string) string {
	return strings.Join(list, ",")
}
