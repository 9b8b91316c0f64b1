package effects

import (
	"sort"
	"sync"

	"github.com/CarterRock49/MTG-AI-Project/internal/game/rules"
	"go.uber.org/zap"
)

// ReplacementEffect watches for an event that is about to happen and modifies or
// replaces it. A replacement effect gets one opportunity per event.
type ReplacementEffect interface {
	ID() string
	SourceID() string
	Duration() Duration
	Timestamp() int64

	// ChecksEventType is the cheap first filter.
	ChecksEventType(eventType rules.EventType) bool
	// Applies checks the specific event.
	Applies(event rules.Event) bool
	// ReplaceEvent returns the modified event and whether the original event has been
	// completely replaced, in which case no further replacement effects apply.
	ReplaceEvent(event rules.Event) (rules.Event, bool)
	// Exhausted reports whether the effect is used up and should be removed.
	Exhausted() bool
}

type baseReplacement struct {
	id        string
	sourceID  string
	duration  Duration
	timestamp int64
}

func (b *baseReplacement) ID() string         { return b.id }
func (b *baseReplacement) SourceID() string   { return b.sourceID }
func (b *baseReplacement) Duration() Duration { return b.duration }
func (b *baseReplacement) Timestamp() int64   { return b.timestamp }

// ZoneChangeReplacement sends an object to a different zone, e.g. "if a creature
// would die, exile it instead".
type ZoneChangeReplacement struct {
	baseReplacement
	From    rules.Zone
	To      rules.Zone
	NewZone rules.Zone
	// Match restricts the replacement to some objects; nil matches all.
	Match func(objectID string) bool
}

// NewZoneChangeReplacement creates a zone change replacement.
func NewZoneChangeReplacement(id, sourceID string, timestamp int64, duration Duration, from, to, newZone rules.Zone, match func(string) bool) *ZoneChangeReplacement {
	return &ZoneChangeReplacement{
		baseReplacement: baseReplacement{id: id, sourceID: sourceID, duration: duration, timestamp: timestamp},
		From:            from,
		To:              to,
		NewZone:         newZone,
		Match:           match,
	}
}

// ChecksEventType implements ReplacementEffect.
func (e *ZoneChangeReplacement) ChecksEventType(eventType rules.EventType) bool {
	return eventType == rules.EventZoneChange
}

// Applies implements ReplacementEffect.
func (e *ZoneChangeReplacement) Applies(event rules.Event) bool {
	if e.From != "" && event.FromZone != e.From {
		return false
	}
	if e.To != "" && event.Zone != e.To {
		return false
	}
	return e.Match == nil || e.Match(event.TargetID)
}

// ReplaceEvent implements ReplacementEffect. The zone change still happens, to a different zone.
func (e *ZoneChangeReplacement) ReplaceEvent(event rules.Event) (rules.Event, bool) {
	if event.Metadata == nil {
		event.Metadata = make(map[string]string)
	}
	event.Metadata["replaced_by"] = e.ID()
	event.Metadata["original_zone"] = string(event.Zone)
	event.Zone = e.NewZone
	return event, false
}

// Exhausted implements ReplacementEffect.
func (e *ZoneChangeReplacement) Exhausted() bool { return false }

// RegenerationShield replaces the next destruction of a permanent this turn. The
// permanent is tapped, all damage is removed and it is removed from combat instead.
type RegenerationShield struct {
	baseReplacement
	ObjectID string
	used     bool
}

// NewRegenerationShield creates a one-shot shield for objectID lasting until end of turn.
func NewRegenerationShield(id, sourceID, objectID string, timestamp int64) *RegenerationShield {
	return &RegenerationShield{
		baseReplacement: baseReplacement{id: id, sourceID: sourceID, duration: DurationEndOfTurn, timestamp: timestamp},
		ObjectID:        objectID,
	}
}

// ChecksEventType implements ReplacementEffect.
func (e *RegenerationShield) ChecksEventType(eventType rules.EventType) bool {
	return eventType == rules.EventDestroy
}

// Applies implements ReplacementEffect. Destruction that says it can't be regenerated is not replaced.
func (e *RegenerationShield) Applies(event rules.Event) bool {
	if e.used || event.TargetID != e.ObjectID {
		return false
	}
	return event.Metadata["no_regenerate"] != "true"
}

// ReplaceEvent implements ReplacementEffect.
func (e *RegenerationShield) ReplaceEvent(event rules.Event) (rules.Event, bool) {
	e.used = true
	event.Type = rules.EventRegenerated
	return event, true
}

// Exhausted implements ReplacementEffect.
func (e *RegenerationShield) Exhausted() bool { return e.used }

// DamagePrevention prevents damage dealt to a target. A positive shield prevents
// only that much damage in total; a zero shield prevents all of it.
type DamagePrevention struct {
	baseReplacement
	TargetID    string
	SourceCheck string
	shield      int
	unlimited   bool
}

// NewDamagePrevention creates a prevention effect. amount 0 prevents all damage.
func NewDamagePrevention(id, sourceID, targetID string, amount int, timestamp int64, duration Duration) *DamagePrevention {
	return &DamagePrevention{
		baseReplacement: baseReplacement{id: id, sourceID: sourceID, duration: duration, timestamp: timestamp},
		TargetID:        targetID,
		shield:          amount,
		unlimited:       amount <= 0,
	}
}

// Shield returns the remaining damage the effect will prevent.
func (e *DamagePrevention) Shield() int { return e.shield }

// ChecksEventType implements ReplacementEffect.
func (e *DamagePrevention) ChecksEventType(eventType rules.EventType) bool {
	return eventType == rules.EventDamage
}

// Applies implements ReplacementEffect.
func (e *DamagePrevention) Applies(event rules.Event) bool {
	if e.TargetID != "" && event.TargetID != e.TargetID {
		return false
	}
	if e.SourceCheck != "" && event.SourceID != e.SourceCheck {
		return false
	}
	return event.Amount > 0 && (e.unlimited || e.shield > 0)
}

// ReplaceEvent implements ReplacementEffect.
func (e *DamagePrevention) ReplaceEvent(event rules.Event) (rules.Event, bool) {
	if e.unlimited {
		event.Amount = 0
		return event, true
	}
	prevented := event.Amount
	if prevented > e.shield {
		prevented = e.shield
	}
	e.shield -= prevented
	event.Amount -= prevented
	return event, event.Amount == 0
}

// Exhausted implements ReplacementEffect.
func (e *DamagePrevention) Exhausted() bool { return !e.unlimited && e.shield <= 0 }

// ReplacementManager holds active replacement effects and runs events through them.
type ReplacementManager struct {
	mu      sync.Mutex
	effects map[string]ReplacementEffect
	logger  *zap.Logger
}

// NewReplacementManager creates an empty manager.
func NewReplacementManager(logger *zap.Logger) *ReplacementManager {
	return &ReplacementManager{
		effects: make(map[string]ReplacementEffect),
		logger:  logger,
	}
}

// Add registers a replacement effect.
func (rm *ReplacementManager) Add(effect ReplacementEffect) {
	if effect == nil || effect.ID() == "" {
		return
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.effects[effect.ID()] = effect
}

// Remove unregisters a replacement effect.
func (rm *ReplacementManager) Remove(id string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.effects, id)
}

// RemoveBySource removes effects generated by sourceID that last while it is on the battlefield.
func (rm *ReplacementManager) RemoveBySource(sourceID string) {
	rm.removeWhere(func(e ReplacementEffect) bool {
		return e.SourceID() == sourceID && e.Duration() == DurationWhileOnBattlefield
	})
}

// CleanupEndOfTurn removes replacement effects that end this turn.
func (rm *ReplacementManager) CleanupEndOfTurn() {
	rm.removeWhere(func(e ReplacementEffect) bool {
		return e.Duration() == DurationEndOfTurn || e.Duration() == DurationEndOfCombat
	})
}

// Len returns the number of active effects.
func (rm *ReplacementManager) Len() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.effects)
}

// Apply runs the event through every applicable replacement effect, each at most
// once, in timestamp order. It returns the final event and whether it was completely
// replaced.
func (rm *ReplacementManager) Apply(event rules.Event) (rules.Event, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	applied := make(map[string]bool)
	for {
		effect := rm.nextApplicable(event, applied)
		if effect == nil {
			return event, false
		}
		applied[effect.ID()] = true
		var replaced bool
		event, replaced = effect.ReplaceEvent(event)
		if rm.logger != nil {
			rm.logger.Debug("replacement effect applied",
				zap.String("effect_id", effect.ID()),
				zap.String("event_type", string(event.Type)),
				zap.String("target_id", event.TargetID),
			)
		}
		if effect.Exhausted() {
			delete(rm.effects, effect.ID())
		}
		if replaced {
			return event, true
		}
	}
}

func (rm *ReplacementManager) nextApplicable(event rules.Event, applied map[string]bool) ReplacementEffect {
	var candidates []ReplacementEffect
	for id, e := range rm.effects {
		if applied[id] || !e.ChecksEventType(event.Type) || !e.Applies(event) {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Timestamp() != candidates[j].Timestamp() {
			return candidates[i].Timestamp() < candidates[j].Timestamp()
		}
		return candidates[i].ID() < candidates[j].ID()
	})
	return candidates[0]
}

func (rm *ReplacementManager) removeWhere(match func(ReplacementEffect) bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for id, e := range rm.effects {
		if match(e) {
			delete(rm.effects, id)
		}
	}
}
