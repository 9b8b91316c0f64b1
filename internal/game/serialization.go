package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Checksum computes a deterministic checksum of an observation. Two games that made
// the same moves from the same seed have the same checksum after every step.
func Checksum(obs Observation) string {
	sum := sha256.Sum256([]byte(canonical(obs)))
	return hex.EncodeToString(sum[:])
}

// canonical renders an observation line by line, with maps in key order and zones
// in zone order.
func canonical(obs Observation) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%s|%s|%s|%t|%s|%t|%s\n",
		obs.GameID, obs.Turn, obs.Phase, obs.Step,
		obs.ActivePlayer, obs.PriorityPlayer,
		obs.Terminal, obs.Winner, obs.Draw, obs.Reason,
	)
	for _, p := range obs.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%d|%d|%s|%d|%d|%d|%t\n",
			p.ID, p.Life, p.Poison, p.Pool.String(),
			p.LibrarySize, p.LandsPlayed, p.Mulligans, p.Lost,
		)
		writeObjects(&buf, "  HAND", p.Hand)
		writeObjects(&buf, "  GRAVEYARD", p.Graveyard)
		writeObjects(&buf, "  EXILE", p.Exile)
	}
	writeObjects(&buf, "BATTLEFIELD", obs.Battlefield)

	// Stack order matters.
	for i, item := range obs.Stack {
		targets := make([]string, len(item.Targets))
		for j, t := range item.Targets {
			targets[j] = t.ID
		}
		fmt.Fprintf(&buf, "STACK:%d|%s|%s|%s|%s|%d\n", i, item.ID, item.Kind, item.Controller, strings.Join(targets, ","), item.X)
	}
	if c := obs.Combat; c != nil {
		fmt.Fprintf(&buf, "COMBAT:%s\n", c.AttackingPlayer)
		for _, a := range c.Attackers {
			fmt.Fprintf(&buf, "  ATTACK:%s>%s\n", a.Attacker, a.Target)
		}
		for _, b := range c.Blocks {
			fmt.Fprintf(&buf, "  BLOCK:%s>%s\n", b.Blocker, b.Attacker)
		}
		for _, att := range sortedKeys(c.DamageOrder) {
			fmt.Fprintf(&buf, "  ORDER:%s=%s\n", att, strings.Join(c.DamageOrder[att], ","))
		}
	}
	if d := obs.Decision; d != nil {
		fmt.Fprintf(&buf, "DECISION:%s|%s|%d|%s\n", d.Kind, d.Player, d.Count, d.Attacker)
	}
	return buf.String()
}

func writeObjects(buf *bytes.Buffer, label string, objs []ObjectView) {
	for _, o := range objs {
		fmt.Fprintf(buf, "%s:%s|%s|%s|%s|%d/%d|%d|%t|%t|%s|%s",
			label, o.ID, o.CardID, o.Owner, o.Controller,
			o.Power, o.Toughness, o.Damage, o.Tapped, o.SummoningSick,
			o.AttachedTo, strings.Join(o.Keywords, ","),
		)
		for _, c := range o.Counters {
			fmt.Fprintf(buf, "|%s=%d", c.Kind, c.Count)
		}
		buf.WriteString("\n")
	}
}
