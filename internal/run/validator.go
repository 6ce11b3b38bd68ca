package run

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"salespipe/internal/catalog"
	"salespipe/internal/metrics"
	"salespipe/internal/objectstore"
	"salespipe/internal/parser/csv"
	"salespipe/internal/sales"
	"salespipe/internal/summarystore"
	"salespipe/internal/validator"
	"salespipe/pkg/records"
)

// Validator executes the stage-one job for one run date: read the raw feed,
// partition it into cleaned and rejected rows, and publish both to the
// processed zone.
type Validator struct {
	Cat       catalog.Catalog
	Store     objectstore.Store
	Summaries *summarystore.Store // optional
	Log       zerolog.Logger
}

// Run processes the feed for date (YYYY-MM-DD) and returns the validation
// summary. The cleaned and rejected files are written only after the whole
// input has been partitioned.
func (v *Validator) Run(ctx context.Context, date string) (sales.ValidationSummary, error) {
	runDate, err := ParseDate(date)
	if err != nil {
		return sales.ValidationSummary{}, err
	}

	header, rows, err := v.readRaw(ctx, date)
	if err != nil {
		return sales.ValidationSummary{}, err
	}
	passthrough := csv.Passthrough(header, catalog.CoreColumns())
	metrics.RecordRows(JobValidator, "input", int64(len(rows)))

	start := time.Now()
	engine := validator.NewEngine(v.Cat, runDate)
	accepted, rejected, summary := engine.Validate(rows, passthrough)
	metrics.RecordStage(JobValidator, "validate", nil, time.Since(start))

	metrics.RecordRows(JobValidator, "accepted", int64(summary.Accepted))
	metrics.RecordRows(JobValidator, "rejected", int64(summary.Rejected))
	for reason, n := range summary.ByReason {
		metrics.RecordRows(JobValidator, "rejected_"+string(reason), int64(n))
	}

	if err := v.publish(ctx, date, header, passthrough, accepted, rejected); err != nil {
		return sales.ValidationSummary{}, err
	}

	v.Log.Info().
		Str("run_id", summary.RunID).
		Str("date", date).
		Int("input", summary.Input).
		Int("accepted", summary.Accepted).
		Int("rejected", summary.Rejected).
		Dur("elapsed", summary.Elapsed).
		Msg("validation run complete")

	if v.Summaries != nil {
		if err := v.Summaries.Put(ctx, JobValidator, date, summary); err != nil {
			v.Log.Warn().Err(err).Msg("summary store write failed")
		}
	}

	return summary, nil
}

// readRaw fetches and parses the raw feed for the run date.
func (v *Validator) readRaw(ctx context.Context, date string) ([]string, []records.Record, error) {
	start := time.Now()
	rc, err := v.Store.Open(ctx, objectstore.ZoneRaw, objectstore.Key(date, ".csv"))
	if err != nil {
		metrics.RecordStage(JobValidator, "parse", err, time.Since(start))
		return nil, nil, err
	}
	defer rc.Close()

	p := csv.NewParser(csv.Options{
		Comma:     delimiter(v.Cat),
		TrimSpace: true,
		HeaderMap: v.Cat.HeaderMap,
	})
	header, rows, err := p.Parse(rc)
	metrics.RecordStage(JobValidator, "parse", err, time.Since(start))
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s.csv: %w", date, ErrEmptyInput)
	}
	return header, rows, nil
}

// publish writes the cleaned and rejected files to the processed zone.
func (v *Validator) publish(ctx context.Context, date string, header, passthrough []string, accepted []sales.Transaction, rejected []sales.Rejection) error {
	start := time.Now()
	err := v.writeOutputs(ctx, date, header, passthrough, accepted, rejected)
	metrics.RecordStage(JobValidator, "publish", err, time.Since(start))
	return err
}

func (v *Validator) writeOutputs(ctx context.Context, date string, header, passthrough []string, accepted []sales.Transaction, rejected []sales.Rejection) error {
	cleanedHeader := sales.BaseColumns(passthrough)
	cleanedRows := make([][]string, len(accepted))
	for i, tx := range accepted {
		cleanedRows[i] = tx.Row(passthrough)
	}
	cleaned, err := csv.Encode(cleanedHeader, cleanedRows)
	if err != nil {
		return fmt.Errorf("encode cleaned file: %w", err)
	}

	rejectedHeader := append([]string{"line", "reason"}, header...)
	rejectedRows := make([][]string, len(rejected))
	for i, r := range rejected {
		row := make([]string, 0, len(rejectedHeader))
		row = append(row, fmt.Sprintf("%d", r.Line), string(r.Reason))
		for _, col := range header {
			row = append(row, r.Raw[col])
		}
		rejectedRows[i] = row
	}
	rejects, err := csv.Encode(rejectedHeader, rejectedRows)
	if err != nil {
		return fmt.Errorf("encode rejected file: %w", err)
	}

	if err := v.Store.Write(ctx, objectstore.ZoneProcessed, objectstore.Key(date, ".csv"), cleaned); err != nil {
		return err
	}
	return v.Store.Write(ctx, objectstore.ZoneProcessed, objectstore.Key(date, ".rejected.csv"), rejects)
}
