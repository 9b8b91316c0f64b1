package game

import (
	"strconv"

	"github.com/google/uuid"
)

// idGenerator hands out object, stack item and effect ids. Ids are name-based
// uuids under a per-game namespace, so a replayed game sees the same ids.
type idGenerator struct {
	namespace uuid.UUID
	seq       uint64
}

func newIDGenerator(gameID string) *idGenerator {
	return &idGenerator{namespace: uuid.NewSHA1(uuid.NameSpaceOID, []byte(gameID))}
}

func (g *idGenerator) next(kind string) string {
	g.seq++
	return uuid.NewSHA1(g.namespace, []byte(kind+":"+strconv.FormatUint(g.seq, 10))).String()
}

// gameIDFor derives the id of the episode-th game played with seed.
func gameIDFor(seed int64, episode int) string {
	name := "mtg-game:" + strconv.FormatInt(seed, 10) + ":" + strconv.Itoa(episode)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
