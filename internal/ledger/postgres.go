package ledger

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres backs the ledger with a table keyed by request id, so marks
// survive process restarts. Enabled by setting DATABASE_URL.
type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	p := &Postgres{Pool: pool}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("ledger: read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		sql, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("ledger: read %s: %w", name, err)
		}
		if _, err := p.Pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("ledger: apply %s: %w", name, err)
		}
	}
	return nil
}

func (p *Postgres) Seen(ctx context.Context, id string) (bool, error) {
	var seen bool
	err := p.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM relayed_requests WHERE id=$1)`, id).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("ledger: seen %s: %w", id, err)
	}
	return seen, nil
}

func (p *Postgres) MarkSent(ctx context.Context, id string) error {
	_, err := p.Pool.Exec(ctx,
		`INSERT INTO relayed_requests(id) VALUES($1) ON CONFLICT (id) DO NOTHING`, id)
	if err != nil {
		return fmt.Errorf("ledger: mark %s: %w", id, err)
	}
	return nil
}

func (p *Postgres) Close() { p.Pool.Close() }
