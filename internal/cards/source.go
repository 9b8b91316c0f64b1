package cards

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Card table sources.
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// LoadSource builds a table from the named source. Tables read from Postgres use the
// built-in decks, since decks are not stored there.
func LoadSource(ctx context.Context, source, path, dsn string) (*Table, error) {
	switch source {
	case "", SourceBuiltin:
		return Builtin(), nil
	case SourceFile:
		return LoadFile(path)
	case SourcePostgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect to card database: %w", err)
		}
		defer pool.Close()
		return LoadPostgres(ctx, pool, BuiltinDecks()...)
	default:
		return nil, fmt.Errorf("unknown card source %q", source)
	}
}
