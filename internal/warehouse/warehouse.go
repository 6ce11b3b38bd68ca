// Package warehouse loads enriched transactions into Postgres using pgx v5.
// The transformer replaces the target date's partition on each run, so a
// re-run of the same day never double-loads: matching rows are deleted inside
// the same transaction as the COPY.
package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salespipe/internal/catalog"
	"salespipe/internal/sales"
)

// Config holds warehouse loader configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // fully qualified target table name, e.g. "sales.enriched_transactions"
}

// Loader writes enriched rows into the warehouse table.
type Loader struct {
	pool *pgxpool.Pool
	cfg  Config
}

// New constructs a Loader. Call Close when done.
func New(ctx context.Context, cfg Config) (*Loader, error) {
	if cfg.Table == "" {
		return nil, fmt.Errorf("warehouse: table is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Loader{pool: pool, cfg: cfg}, nil
}

// Close releases the connection pool.
func (l *Loader) Close() {
	l.pool.Close()
}

// Load replaces the runDate partition of the target table with the enriched
// set, inside one transaction. It returns the number of rows copied.
func (l *Loader) Load(ctx context.Context, runDate time.Time, enriched []sales.Enriched, passthrough []string) (int64, error) {
	cols := sales.EnrichedColumns(passthrough)

	rows := make([][]any, len(enriched))
	for i, e := range enriched {
		rows[i] = copyValues(e, passthrough)
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	del := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		pgFQN(l.cfg.Table), pgIdent(catalog.ColDate))
	if _, err := tx.Exec(ctx, del, runDate.Format(catalog.DateLayout)); err != nil {
		return 0, fmt.Errorf("clear partition: %w", err)
	}

	n, err := tx.CopyFrom(ctx, splitFQN(l.cfg.Table), cols, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// copyValues builds the typed COPY row for one enriched record, in
// EnrichedColumns order. Passthrough attributes are text columns.
func copyValues(e sales.Enriched, passthrough []string) []any {
	vals := make([]any, 0, 7+len(passthrough)+22)
	vals = append(vals,
		e.ID,
		e.Date,
		e.Region,
		e.Product,
		e.Quantity,
		e.Price,
		e.Customer,
	)
	for _, col := range passthrough {
		vals = append(vals, e.Attrs[col])
	}
	vals = append(vals,
		e.Revenue,
		e.Year, e.Month, e.Day, e.MonthName, e.DayName,
		e.DayOfWeek, e.Quarter, e.WeekOfYear,
		e.IsWeekend, e.IsBusinessDay,
		e.RevenueTier, e.ProductCategory, e.CustomerSegment,
		e.PricePercentile, e.IsHighValue, e.IsBulkOrder, e.QuantityPercentile,
		e.RegionRevenue, e.RegionRank, e.RegionAvgRevenue, e.AboveRegionAvg,
	)
	return vals
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "sales.enriched_transactions".
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// splitFQN converts a possibly schema-qualified name into a pgx.Identifier.
func splitFQN(fqn string) pgx.Identifier {
	return pgx.Identifier(strings.Split(fqn, "."))
}
