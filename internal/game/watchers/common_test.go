package watchers

import (
	"testing"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
)

func TestSpellsCastWatcher(t *testing.T) {
	watcher := NewSpellsCastWatcher()

	if watcher.GetCount("player1") != 0 {
		t.Fatalf("expected 0 spells cast, got %d", watcher.GetCount("player1"))
	}

	watcher.Watch(rules.NewEvent(rules.EventSpellCast, "spell1", "spell1", "player1"))
	creature := rules.NewEvent(rules.EventSpellCast, "spell2", "spell2", "player1")
	creature.Metadata = map[string]string{"creature": "true"}
	watcher.Watch(creature)

	if watcher.GetCount("player1") != 2 {
		t.Fatalf("expected 2 spells cast, got %d", watcher.GetCount("player1"))
	}
	if watcher.GetCreatureCount("player1") != 1 {
		t.Fatalf("expected 1 creature spell, got %d", watcher.GetCreatureCount("player1"))
	}
	if got := watcher.GetSpellsCast("player1"); len(got) != 2 || got[0] != "spell1" {
		t.Fatalf("unexpected spells %v", got)
	}

	watcher.Reset()
	if watcher.GetCount("player1") != 0 {
		t.Fatalf("expected 0 spells cast after reset, got %d", watcher.GetCount("player1"))
	}
}

func TestCreaturesDiedWatcher(t *testing.T) {
	watcher := NewCreaturesDiedWatcher()

	event := rules.NewEvent(rules.EventDies, "creature1", "creature1", "player1")
	event.Metadata = map[string]string{"name": "Grizzly Bears"}
	watcher.Watch(event)
	watcher.Watch(rules.NewEvent(rules.EventDies, "creature2", "creature2", "player2"))
	watcher.Watch(rules.NewEvent(rules.EventZoneChange, "creature3", "creature3", "player2"))

	if got := watcher.GetAmountByController("player1"); got != 1 {
		t.Fatalf("expected 1 creature died for player1, got %d", got)
	}
	if got := watcher.GetTotalAmount(); got != 2 {
		t.Fatalf("expected 2 creatures died, got %d", got)
	}
	if names := watcher.Names(); len(names) != 1 || names[0] != "Grizzly Bears" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestCardsDrawnWatcher(t *testing.T) {
	watcher := NewCardsDrawnWatcher()
	for i := 0; i < 3; i++ {
		watcher.Watch(rules.NewEvent(rules.EventDrawCard, "card", "", "player1"))
	}
	if watcher.GetCount("player1") != 3 {
		t.Fatalf("expected 3 cards drawn, got %d", watcher.GetCount("player1"))
	}
	if watcher.GetCount("player2") != 0 {
		t.Fatalf("expected 0 cards drawn for player2, got %d", watcher.GetCount("player2"))
	}
}

func TestDamageWatcher(t *testing.T) {
	watcher := NewDamageWatcher()

	toPlayer := rules.NewEventWithAmount(rules.EventDamage, "player2", "bolt", "player1", 3)
	toPlayer.Flag = true
	watcher.Watch(toPlayer)
	watcher.Watch(rules.NewEventWithAmount(rules.EventDamage, "bears", "bolt", "player1", 2))
	watcher.Watch(rules.NewEventWithAmount(rules.EventDamage, "bears", "bolt", "player1", 0))

	if got := watcher.Dealt("player1"); got != 5 {
		t.Fatalf("expected 5 damage dealt, got %d", got)
	}
	if got := watcher.DealtToPlayers("player1"); got != 3 {
		t.Fatalf("expected 3 damage to players, got %d", got)
	}
	if got := watcher.Taken("player2"); got != 3 {
		t.Fatalf("expected player2 to take 3, got %d", got)
	}
}

func TestStatsSummary(t *testing.T) {
	stats := NewStats()
	stats.Watch(rules.NewEvent(rules.EventLandPlayed, "forest", "forest", "player1"))
	stats.Watch(rules.NewEvent(rules.EventEntersBattlefield, "forest", "forest", "player1"))
	stats.Watch(rules.NewEvent(rules.EventSpellCast, "spell", "spell", "player2"))

	summary := stats.Summary([]string{"player1", "player2"})
	if summary["player1"].LandsPlayed != 1 || summary["player1"].PermanentsEntered != 1 {
		t.Fatalf("unexpected player1 stats %+v", summary["player1"])
	}
	if summary["player2"].SpellsCast != 1 {
		t.Fatalf("unexpected player2 stats %+v", summary["player2"])
	}

	stats.Reset()
	if got := stats.Player("player1"); got != (PlayerStats{}) {
		t.Fatalf("expected empty stats after reset, got %+v", got)
	}
}
