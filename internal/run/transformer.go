package run

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"salespipe/internal/catalog"
	"salespipe/internal/enrich"
	"salespipe/internal/metrics"
	"salespipe/internal/objectstore"
	"salespipe/internal/parser/csv"
	"salespipe/internal/sales"
	"salespipe/internal/summarystore"
	"salespipe/internal/warehouse"
	"salespipe/pkg/records"
)

// Transformer executes the stage-two job for one run date: read the cleaned
// file, derive the analytical columns, publish the enriched file to the
// aggregates zone, and optionally load it into the warehouse.
type Transformer struct {
	Cat       catalog.Catalog
	Store     objectstore.Store
	Warehouse *warehouse.Loader   // optional
	Summaries *summarystore.Store // optional
	Workers   int
	Log       zerolog.Logger
}

// Run processes the cleaned file for date (YYYY-MM-DD) and returns the run
// report. The enriched file is written only after every record has been
// derived; any record that fails the stage-one postconditions aborts the run.
func (t *Transformer) Run(ctx context.Context, date string) (sales.RunReport, error) {
	runDate, err := ParseDate(date)
	if err != nil {
		return sales.RunReport{}, err
	}

	passthrough, txs, err := t.readCleaned(ctx, date)
	if err != nil {
		return sales.RunReport{}, err
	}
	metrics.RecordRows(JobTransformer, "input", int64(len(txs)))

	start := time.Now()
	engine := enrich.NewEngine(t.Cat, t.Workers)
	enriched, report, err := engine.Enrich(ctx, runDate, txs)
	metrics.RecordStage(JobTransformer, "enrich", err, time.Since(start))
	if err != nil {
		return sales.RunReport{}, err
	}
	metrics.RecordRows(JobTransformer, "enriched", int64(len(enriched)))

	if err := t.publish(ctx, date, passthrough, enriched); err != nil {
		return sales.RunReport{}, err
	}

	if t.Warehouse != nil {
		start := time.Now()
		n, err := t.Warehouse.Load(ctx, runDate, enriched, passthrough)
		metrics.RecordStage(JobTransformer, "load", err, time.Since(start))
		if err != nil {
			return sales.RunReport{}, fmt.Errorf("warehouse load: %w", err)
		}
		metrics.RecordRows(JobTransformer, "loaded", n)
	}

	t.Log.Info().
		Str("run_id", report.RunID).
		Str("date", date).
		Int("rows", report.Rows).
		Int("columns_before", report.ColumnsBefore).
		Int("columns_after", report.ColumnsAfter).
		Float64("total_revenue", report.TotalRevenue).
		Dur("elapsed", report.Elapsed).
		Msg("enrichment run complete")

	if t.Summaries != nil {
		if err := t.Summaries.Put(ctx, JobTransformer, date, report); err != nil {
			t.Log.Warn().Err(err).Msg("summary store write failed")
		}
	}

	return report, nil
}

// readCleaned fetches the cleaned file and converts its rows back into
// transactions. The cleaned file is this pipeline's own output, so a value
// that no longer parses means the processed zone was corrupted or bypassed;
// the run aborts rather than re-validating.
func (t *Transformer) readCleaned(ctx context.Context, date string) ([]string, []sales.Transaction, error) {
	start := time.Now()
	rc, err := t.Store.Open(ctx, objectstore.ZoneProcessed, objectstore.Key(date, ".csv"))
	if err != nil {
		metrics.RecordStage(JobTransformer, "parse", err, time.Since(start))
		return nil, nil, err
	}
	defer rc.Close()

	p := csv.NewParser(csv.Options{TrimSpace: true})
	header, rows, err := p.Parse(rc)
	if err == nil && len(rows) == 0 {
		err = fmt.Errorf("%s.csv: %w", date, ErrEmptyInput)
	}
	metrics.RecordStage(JobTransformer, "parse", err, time.Since(start))
	if err != nil {
		return nil, nil, err
	}

	passthrough := csv.Passthrough(header, catalog.CoreColumns())
	txs := make([]sales.Transaction, len(rows))
	for i, rec := range rows {
		tx, err := parseTransaction(rec, passthrough)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w (%w)", i+2, err, enrich.ErrNotValidated)
		}
		txs[i] = tx
	}
	return passthrough, txs, nil
}

// parseTransaction converts one cleaned-file record into a Transaction.
func parseTransaction(rec records.Record, passthrough []string) (sales.Transaction, error) {
	quantity, err := strconv.Atoi(rec.String(catalog.ColQuantity))
	if err != nil {
		return sales.Transaction{}, fmt.Errorf("quantity: %w", err)
	}
	price, err := strconv.ParseFloat(rec.String(catalog.ColPrice), 64)
	if err != nil {
		return sales.Transaction{}, fmt.Errorf("price: %w", err)
	}
	date, err := time.Parse(catalog.DateLayout, rec.String(catalog.ColDate))
	if err != nil {
		return sales.Transaction{}, fmt.Errorf("transaction date: %w", err)
	}

	tx := sales.Transaction{
		ID:       rec.String(catalog.ColTransactionID),
		Date:     date,
		Region:   rec.String(catalog.ColRegion),
		Product:  rec.String(catalog.ColProduct),
		Quantity: quantity,
		Price:    price,
		Customer: rec.String(catalog.ColCustomerID),
	}
	if len(passthrough) > 0 {
		tx.Attrs = make(map[string]string, len(passthrough))
		tx.AttrOrder = passthrough
		for _, name := range passthrough {
			tx.Attrs[name] = rec.String(name)
		}
	}
	return tx, nil
}

// publish writes the enriched file to the aggregates zone.
func (t *Transformer) publish(ctx context.Context, date string, passthrough []string, enriched []sales.Enriched) error {
	start := time.Now()
	err := t.writeOutput(ctx, date, passthrough, enriched)
	metrics.RecordStage(JobTransformer, "publish", err, time.Since(start))
	return err
}

func (t *Transformer) writeOutput(ctx context.Context, date string, passthrough []string, enriched []sales.Enriched) error {
	rows := make([][]string, len(enriched))
	for i, e := range enriched {
		rows[i] = e.Row(passthrough)
	}
	data, err := csv.Encode(sales.EnrichedColumns(passthrough), rows)
	if err != nil {
		return fmt.Errorf("encode enriched file: %w", err)
	}
	return t.Store.Write(ctx, objectstore.ZoneAggregates, objectstore.Key(date, ".csv"), data)
}
