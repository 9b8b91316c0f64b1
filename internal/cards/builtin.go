package cards

import "github.com/CarterRock49/MTG-AI-Project/internal/game/counters"

func land(id, name, subtype string, produces ...string) *Definition {
	def := &Definition{
		ID:    id,
		Name:  name,
		Types: []string{"Land"},
		Activated: []ActivatedTemplate{{
			Tap:     true,
			Effects: []EffectTemplate{{Kind: EffectAddMana, Amount: 1, Produces: produces}},
		}},
	}
	if subtype != "" {
		def.Supertypes = []string{"Basic"}
		def.Subtypes = []string{subtype}
	}
	return def
}

func creature(id, name, cost string, power, toughness int, subtypes []string, keywords ...string) *Definition {
	p, t := Ints(power, toughness)
	return &Definition{
		ID:        id,
		Name:      name,
		ManaCost:  cost,
		Types:     []string{"Creature"},
		Subtypes:  subtypes,
		Power:     p,
		Toughness: t,
		Keywords:  keywords,
	}
}

func spell(id, name, cost, cardType string, effects ...EffectTemplate) *Definition {
	return &Definition{
		ID:       id,
		Name:     name,
		ManaCost: cost,
		Types:    []string{cardType},
		Spell:    effects,
	}
}

func permanent(id, name, cost, cardType string, statics ...StaticTemplate) *Definition {
	return &Definition{
		ID:       id,
		Name:     name,
		ManaCost: cost,
		Types:    []string{cardType},
		Static:   statics,
	}
}

var (
	soldierToken = &TokenTemplate{Name: "Soldier", Types: []string{"Creature"}, Subtypes: []string{"Soldier"}, Colors: []string{"white"}, Power: 1, Toughness: 1}
	spiritToken  = &TokenTemplate{Name: "Spirit", Types: []string{"Creature"}, Subtypes: []string{"Spirit"}, Colors: []string{"white"}, Power: 1, Toughness: 1, Keywords: []string{"flying"}}
	zombieToken  = &TokenTemplate{Name: "Zombie", Types: []string{"Creature"}, Subtypes: []string{"Zombie"}, Colors: []string{"black"}, Power: 2, Toughness: 2}
)

// BuiltinDefinitions returns fresh copies of the basic card set.
func BuiltinDefinitions() []*Definition {
	defs := []*Definition{
		land("plains", "Plains", "Plains", "W"),
		land("island", "Island", "Island", "U"),
		land("swamp", "Swamp", "Swamp", "B"),
		land("mountain", "Mountain", "Mountain", "R"),
		land("forest", "Forest", "Forest", "G"),
		land("wastes", "Wastes", "", "C"),
		land("sunpetal_grove", "Sunpetal Grove", "", "W", "G"),
		land("sulfur_falls", "Sulfur Falls", "", "U", "R"),

		creature("savannah_lions", "Savannah Lions", "{W}", 2, 1, []string{"Cat"}),
		creature("grizzly_bears", "Grizzly Bears", "{1}{G}", 2, 2, []string{"Bear"}),
		creature("hill_giant", "Hill Giant", "{3}{R}", 3, 3, []string{"Giant"}),
		creature("serra_angel", "Serra Angel", "{3}{W}{W}", 4, 4, []string{"Angel"}, "flying", "vigilance"),
		creature("giant_spider", "Giant Spider", "{3}{G}", 2, 4, []string{"Spider"}, "reach"),
		creature("raging_goblin", "Raging Goblin", "{R}", 1, 1, []string{"Goblin"}, "haste"),
		creature("white_knight", "White Knight", "{W}{W}", 2, 2, []string{"Human", "Knight"}, "first_strike"),
		creature("fencing_ace", "Fencing Ace", "{1}{W}", 1, 1, []string{"Human", "Soldier"}, "double_strike"),
		creature("boggart_brute", "Boggart Brute", "{2}{R}", 3, 2, []string{"Goblin"}, "menace"),
		creature("typhoid_rats", "Typhoid Rats", "{B}", 1, 1, []string{"Rat"}, "deathtouch"),
		creature("vampire_nighthawk", "Vampire Nighthawk", "{1}{B}{B}", 2, 3, []string{"Vampire"}, "flying", "deathtouch", "lifelink"),
		creature("colossal_dreadmaw", "Colossal Dreadmaw", "{4}{G}{G}", 6, 6, []string{"Dinosaur"}, "trample"),
		creature("wall_of_stone", "Wall of Stone", "{1}{R}{R}", 0, 8, []string{"Wall"}, "defender"),
		creature("gladecover_scout", "Gladecover Scout", "{G}", 1, 1, []string{"Elf"}, "hexproof"),
		creature("darksteel_myr", "Darksteel Myr", "{3}", 0, 1, []string{"Myr"}, "indestructible"),
		creature("boros_recruit", "Boros Recruit", "{R/W}", 1, 1, []string{"Goblin", "Soldier"}, "first_strike"),
		creature("flash_bear", "Ambush Bear", "{1}{G}", 2, 2, []string{"Bear"}, "flash"),
	}

	elves := creature("llanowar_elves", "Llanowar Elves", "{G}", 1, 1, []string{"Elf", "Druid"})
	elves.Activated = []ActivatedTemplate{{Tap: true, Effects: []EffectTemplate{{Kind: EffectAddMana, Amount: 1, Produces: []string{"G"}}}}}

	skeletons := creature("drudge_skeletons", "Drudge Skeletons", "{1}{B}", 1, 1, []string{"Skeleton"})
	skeletons.Activated = []ActivatedTemplate{{Cost: "{B}", Effects: []EffectTemplate{{Kind: EffectRegenerate, Target: "self"}}}}

	visionary := creature("elvish_visionary", "Elvish Visionary", "{1}{G}", 1, 1, []string{"Elf", "Shaman"})
	visionary.Triggered = []TriggeredTemplate{{Event: TriggerEnters, Effects: []EffectTemplate{{Kind: EffectDraw, Amount: 1}}}}

	dissenter := creature("doomed_dissenter", "Doomed Dissenter", "{1}{B}", 1, 1, []string{"Human"})
	dissenter.Triggered = []TriggeredTemplate{{Event: TriggerDies, Effects: []EffectTemplate{{Kind: EffectCreateToken, Amount: 1, Token: zombieToken}}}}

	pyromancer := creature("prodigal_pyromancer", "Prodigal Pyromancer", "{2}{R}", 1, 1, []string{"Human", "Wizard"})
	pyromancer.Activated = []ActivatedTemplate{{Tap: true, Effects: []EffectTemplate{{Kind: EffectDamage, Target: "any", Amount: 1}}}}

	hellrider := creature("hellrider", "Hellrider", "{2}{R}{R}", 3, 3, []string{"Devil"}, "haste")
	hellrider.Triggered = []TriggeredTemplate{{Event: TriggerAttacks, Effects: []EffectTemplate{{Kind: EffectDamage, Target: "opponent", Amount: 1}}}}

	watcher := creature("twilight_watcher", "Twilight Watcher", "{2}{W}", 2, 3, []string{"Human", "Cleric"})
	watcher.Triggered = []TriggeredTemplate{{Event: TriggerEndStep, Effects: []EffectTemplate{{Kind: EffectGainLife, Amount: 1}}}}

	swiftspear := creature("monastery_swiftspear", "Monastery Swiftspear", "{R}", 1, 2, []string{"Human", "Monk"}, "haste")
	swiftspear.Triggered = []TriggeredTemplate{{Event: TriggerCastSpell, NonCreature: true, Effects: []EffectTemplate{{Kind: EffectPump, Target: "self", Power: 1, Toughness: 1}}}}

	sparkmage := creature("sparkmage_apprentice", "Sparkmage Apprentice", "{1}{R}", 1, 1, []string{"Human", "Wizard"})
	sparkmage.Triggered = []TriggeredTemplate{{Event: TriggerEnters, Effects: []EffectTemplate{{Kind: EffectDamage, Target: "opponent", Amount: 1}}}}

	isamaru := creature("isamaru", "Isamaru, Hound of Konda", "{W}", 2, 2, []string{"Dog"})
	isamaru.Supertypes = []string{"Legendary"}

	thalia := creature("thalia", "Thalia, Guardian of Thraben", "{1}{W}", 2, 1, []string{"Human", "Soldier"}, "first_strike")
	thalia.Supertypes = []string{"Legendary"}
	thalia.Static = []StaticTemplate{{Kind: StaticCostTax, Amount: 1, Filter: Filter{Types: []string{"noncreature"}}}}

	warchief := creature("goblin_warchief", "Goblin Warchief", "{1}{R}{R}", 2, 2, []string{"Goblin", "Warrior"})
	warchief.Static = []StaticTemplate{
		{Kind: StaticCostReduction, Amount: 1, Filter: Filter{Controller: "you", Types: []string{"Goblin"}}},
		{Kind: StaticKeyword, Keyword: "haste", Filter: Filter{Controller: "you", Types: []string{"Goblin"}}},
	}

	lord := creature("elvish_archdruid", "Elvish Champion", "{1}{G}{G}", 2, 2, []string{"Elf"})
	lord.Static = []StaticTemplate{{Kind: StaticAnthem, Power: 1, Toughness: 1, Filter: Filter{Types: []string{"Elf"}, ExcludeSelf: true}}}

	chandra := &Definition{
		ID:       "chandra_novice",
		Name:     "Chandra, Novice Pyromancer",
		ManaCost: "{2}{R}{R}",
		Types:    []string{"Planeswalker"},
		Subtypes: []string{"Chandra"},
		Loyalty:  4,
		Activated: []ActivatedTemplate{
			{Loyalty: 1, Effects: []EffectTemplate{{Kind: EffectDamage, Target: "opponent", Amount: 2}}},
			{Loyalty: -3, Effects: []EffectTemplate{{Kind: EffectDamage, Target: "creature", Amount: 4}}},
		},
	}
	chandra.Supertypes = []string{"Legendary"}

	holyStrength := permanent("holy_strength", "Holy Strength", "{W}", "Enchantment",
		StaticTemplate{Kind: StaticAttachedBoost, Power: 1, Toughness: 2})
	holyStrength.Subtypes = []string{"Aura"}
	holyStrength.Enchant = "creature"

	rancor := permanent("rancor", "Rancor", "{G}", "Enchantment",
		StaticTemplate{Kind: StaticAttachedBoost, Power: 2},
		StaticTemplate{Kind: StaticAttachedKeyword, Keyword: "trample"})
	rancor.Subtypes = []string{"Aura"}
	rancor.Enchant = "creature"

	bonesplitter := permanent("bonesplitter", "Bonesplitter", "{1}", "Artifact",
		StaticTemplate{Kind: StaticAttachedBoost, Power: 2})
	bonesplitter.Subtypes = []string{"Equipment"}
	bonesplitter.Equip = "{1}"

	arena := permanent("phyrexian_arena", "Phyrexian Arena", "{1}{B}{B}", "Enchantment")
	arena.Triggered = []TriggeredTemplate{{Event: TriggerUpkeep, Effects: []EffectTemplate{
		{Kind: EffectDraw, Amount: 1},
		{Kind: EffectLoseLife, Amount: 1},
	}}}

	boneSplinters := spell("bone_splinters", "Bone Splinters", "{B}", "Sorcery",
		EffectTemplate{Kind: EffectDestroy, Target: "creature"})
	boneSplinters.AdditionalCost = &AdditionalCost{Sacrifice: "creature"}

	defs = append(defs,
		elves, skeletons, visionary, dissenter, pyromancer, hellrider, watcher, swiftspear,
		sparkmage, isamaru, thalia, warchief, lord, chandra, holyStrength, rancor, bonesplitter, arena,
		boneSplinters,

		permanent("glorious_anthem", "Glorious Anthem", "{1}{W}{W}", "Enchantment",
			StaticTemplate{Kind: StaticAnthem, Power: 1, Toughness: 1, Filter: Filter{Controller: "you"}}),
		permanent("levitation", "Levitation", "{2}{U}{U}", "Enchantment",
			StaticTemplate{Kind: StaticKeyword, Keyword: "flying", Filter: Filter{Controller: "you"}}),
		permanent("rest_in_peace", "Rest in Peace", "{1}{W}", "Enchantment",
			StaticTemplate{Kind: StaticDieExile}),

		spell("lightning_bolt", "Lightning Bolt", "{R}", "Instant",
			EffectTemplate{Kind: EffectDamage, Target: "any", Amount: 3}),
		spell("shock", "Shock", "{R}", "Instant",
			EffectTemplate{Kind: EffectDamage, Target: "any", Amount: 2}),
		spell("lava_axe", "Lava Axe", "{4}{R}", "Sorcery",
			EffectTemplate{Kind: EffectDamage, Target: "player", Amount: 5}),
		spell("fireball", "Fireball", "{X}{R}", "Sorcery",
			EffectTemplate{Kind: EffectDamage, Target: "any", AmountX: true}),
		spell("murder", "Murder", "{1}{B}{B}", "Instant",
			EffectTemplate{Kind: EffectDestroy, Target: "creature"}),
		spell("swords_to_plowshares", "Swords to Plowshares", "{W}", "Instant",
			EffectTemplate{Kind: EffectExile, Target: "creature"}),
		spell("unsummon", "Unsummon", "{U}", "Instant",
			EffectTemplate{Kind: EffectBounce, Target: "creature"}),
		spell("counterspell", "Counterspell", "{U}{U}", "Instant",
			EffectTemplate{Kind: EffectCounterSpell, Target: "spell"}),
		spell("divination", "Divination", "{2}{U}", "Sorcery",
			EffectTemplate{Kind: EffectDraw, Amount: 2}),
		spell("gitaxian_probe", "Gitaxian Probe", "{U/P}", "Sorcery",
			EffectTemplate{Kind: EffectDraw, Amount: 1}),
		spell("giant_growth", "Giant Growth", "{G}", "Instant",
			EffectTemplate{Kind: EffectPump, Target: "creature", Power: 3, Toughness: 3}),
		spell("dismember", "Dismember", "{1}{B/P}{B/P}", "Instant",
			EffectTemplate{Kind: EffectPump, Target: "creature", Power: -5, Toughness: -5}),
		spell("mind_rot", "Mind Rot", "{2}{B}", "Sorcery",
			EffectTemplate{Kind: EffectDiscard, Target: "opponent", Amount: 2}),
		spell("sign_in_blood", "Sign in Blood", "{B}{B}", "Sorcery",
			EffectTemplate{Kind: EffectDraw, Amount: 2},
			EffectTemplate{Kind: EffectLoseLife, Amount: 2}),
		spell("healing_salve", "Healing Salve", "{W}", "Instant",
			EffectTemplate{Kind: EffectGainLife, Amount: 3}),
		spell("stream_of_life", "Stream of Life", "{X}{G}", "Sorcery",
			EffectTemplate{Kind: EffectGainLife, AmountX: true}),
		spell("raise_the_alarm", "Raise the Alarm", "{1}{W}", "Instant",
			EffectTemplate{Kind: EffectCreateToken, Amount: 2, Token: soldierToken}),
		spell("spectral_procession", "Spectral Procession", "{2/W}{2/W}{2/W}", "Sorcery",
			EffectTemplate{Kind: EffectCreateToken, Amount: 3, Token: spiritToken}),
		spell("battlegrowth", "Battlegrowth", "{G}", "Instant",
			EffectTemplate{Kind: EffectAddCounters, Target: "creature", Amount: 1, Counter: counters.KindP1P1}),
		spell("frost_breath", "Frost Breath", "{2}{U}", "Instant",
			EffectTemplate{Kind: EffectTap, Target: "creature"}),
		spell("tome_scour", "Tome Scour", "{U}", "Sorcery",
			EffectTemplate{Kind: EffectMill, Target: "player", Amount: 5}),
		spell("act_of_treason", "Act of Treason", "{2}{R}", "Sorcery",
			EffectTemplate{Kind: EffectGainControl, Target: "creature"},
			EffectTemplate{Kind: EffectUntap, Target: TargetSame},
			EffectTemplate{Kind: EffectPump, Target: TargetSame, Keywords: []string{"haste"}}),
		spell("dice_bolt", "Chaos Bolt", "{2}{R}", "Sorcery",
			EffectTemplate{Kind: EffectRollDie, Amount: 6},
			EffectTemplate{Kind: EffectDamage, Target: "any", AmountX: true}),
		spell("coin_blast", "Gambler's Blast", "{1}{R}", "Instant",
			EffectTemplate{Kind: EffectFlipCoin},
			EffectTemplate{Kind: EffectDamage, Target: "opponent", Amount: 4}),
		spell("dark_ritual", "Dark Ritual", "{B}", "Instant",
			EffectTemplate{Kind: EffectAddMana, Amount: 3, Produces: []string{"B"}}),
	)
	return defs
}

func repeat(id string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = id
	}
	return out
}

func deckOf(name string, groups ...[]string) Deck {
	var cardsList []string
	for _, g := range groups {
		cardsList = append(cardsList, g...)
	}
	return Deck{Name: name, Cards: cardsList}
}

// BuiltinDecks returns the 40-card decks built from the basic set.
func BuiltinDecks() []Deck {
	return []Deck{
		deckOf("red_aggro",
			repeat("mountain", 17),
			repeat("raging_goblin", 3), repeat("monastery_swiftspear", 3), repeat("boggart_brute", 3),
			repeat("hill_giant", 2), repeat("hellrider", 2), repeat("prodigal_pyromancer", 2),
			repeat("sparkmage_apprentice", 2), repeat("goblin_warchief", 1),
			repeat("lightning_bolt", 2), repeat("shock", 1), repeat("fireball", 1), repeat("lava_axe", 1),
		),
		deckOf("green_stompy",
			repeat("forest", 17),
			repeat("llanowar_elves", 3), repeat("grizzly_bears", 3), repeat("elvish_visionary", 2),
			repeat("giant_spider", 2), repeat("colossal_dreadmaw", 2), repeat("gladecover_scout", 2),
			repeat("elvish_archdruid", 2), repeat("flash_bear", 1),
			repeat("giant_growth", 2), repeat("rancor", 2), repeat("battlegrowth", 1), repeat("stream_of_life", 1),
		),
		deckOf("white_weenie",
			repeat("plains", 17),
			repeat("savannah_lions", 3), repeat("white_knight", 2), repeat("fencing_ace", 2),
			repeat("serra_angel", 2), repeat("twilight_watcher", 2), repeat("isamaru", 1), repeat("thalia", 1),
			repeat("glorious_anthem", 2), repeat("holy_strength", 2), repeat("raise_the_alarm", 2),
			repeat("swords_to_plowshares", 2), repeat("healing_salve", 1), repeat("bonesplitter", 1),
		),
		deckOf("black_control",
			repeat("swamp", 17),
			repeat("typhoid_rats", 3), repeat("vampire_nighthawk", 2), repeat("drudge_skeletons", 2),
			repeat("doomed_dissenter", 2), repeat("darksteel_myr", 1),
			repeat("murder", 3), repeat("bone_splinters", 2), repeat("mind_rot", 2), repeat("sign_in_blood", 2),
			repeat("dismember", 1), repeat("phyrexian_arena", 1), repeat("dark_ritual", 2),
		),
	}
}

// Builtin returns a table of the basic set and decks.
func Builtin() *Table {
	t, err := NewTable(BuiltinDefinitions(), BuiltinDecks()...)
	if err != nil {
		panic(err) // the builtin set is static
	}
	return t
}
