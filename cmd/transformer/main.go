// Command transformer runs stage two of the sales pipeline for one run date:
// it reads the cleaned file from the processed zone, derives the analytical
// columns, publishes the enriched file to the aggregates zone, and optionally
// loads it into the warehouse.
//
// Usage:
//
//	transformer [flags] [date]
//
// date is YYYY-MM-DD and defaults to today (UTC).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"salespipe/internal/catalog"
	"salespipe/internal/logger"
	"salespipe/internal/metrics"
	"salespipe/internal/metrics/datadog"
	"salespipe/internal/metrics/prompush"
	"salespipe/internal/objectstore"
	"salespipe/internal/run"
	"salespipe/internal/summarystore"
	"salespipe/internal/warehouse"
)

func main() {
	var (
		catalogPath    string
		validateOnly   bool
		storeKind      string
		dataDir        string
		gcsBucket      string
		metricsBackend string
		pushgatewayURL string
		dogstatsdAddr  string
		summaryRedis   string
		warehouseDSN   string
		workers        int
	)

	flag.StringVar(&catalogPath, "catalog", "configs/catalog.json", "rule catalog JSON path")
	flag.BoolVar(&validateOnly, "validate", false, "validate the catalog and exit")
	flag.StringVar(&storeKind, "store", "local", "object store backend (local, gcs)")
	flag.StringVar(&dataDir, "data-dir", "data", "root directory for the local object store")
	flag.StringVar(&gcsBucket, "gcs-bucket", "", "GCS bucket name (store=gcs)")
	flag.StringVar(&metricsBackend, "metrics-backend", "none", "metrics backend (pushgateway, datadog, none)")
	flag.StringVar(&pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&dogstatsdAddr, "dogstatsd-addr", "", "DogStatsD address (metrics-backend=datadog)")
	flag.StringVar(&summaryRedis, "summary-redis", "", "Redis address for run summaries (empty disables)")
	flag.StringVar(&warehouseDSN, "warehouse-dsn", "", "Postgres DSN for the warehouse load (empty disables)")
	flag.IntVar(&workers, "workers", 0, "enrichment workers (0 = GOMAXPROCS)")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	log := logger.New(run.JobTransformer)
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	date := flag.Arg(0)
	if date == "" {
		date = time.Now().UTC().Format(catalog.DateLayout)
	}

	cat, err := loadCatalog(catalogPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog")
	}
	if validateOnly {
		log.Info().Str("path", catalogPath).Msg("catalog is valid")
		return
	}

	ctx := context.Background()

	store, cleanup, err := newStore(ctx, storeKind, dataDir, gcsBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("object store")
	}
	defer cleanup()

	setupMetrics(metricsBackend, pushgatewayURL, dogstatsdAddr, log)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Warn().Err(err).Msg("metrics flush failed")
		}
	}()

	var summaries *summarystore.Store
	if summaryRedis != "" {
		summaries, err = summarystore.New(ctx, summaryRedis)
		if err != nil {
			log.Fatal().Err(err).Msg("summary store")
		}
		defer summaries.Close()
	}

	var loader *warehouse.Loader
	if warehouseDSN != "" {
		loader, err = warehouse.New(ctx, warehouse.Config{
			DSN:   warehouseDSN,
			Table: cat.Warehouse.Table,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("warehouse")
		}
		defer loader.Close()
	}

	job := &run.Transformer{
		Cat:       cat,
		Store:     store,
		Warehouse: loader,
		Summaries: summaries,
		Workers:   workers,
		Log:       log,
	}
	report, err := job.Run(ctx, date)
	if err != nil {
		log.Fatal().Err(err).Str("date", date).Msg("enrichment run failed")
	}
	run.PrintReport(os.Stdout, report)
}

// loadCatalog reads the catalog and refuses to start on error-severity lint
// issues. Warnings are logged and tolerated.
func loadCatalog(path string, log zerolog.Logger) (catalog.Catalog, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return catalog.Catalog{}, err
	}

	issues := catalog.Validate(cat)
	hasError := false
	for _, iss := range issues {
		if iss.Severity == catalog.SeverityError {
			hasError = true
			log.Error().Str("path", iss.Path).Msg(iss.Message)
		} else {
			log.Warn().Str("path", iss.Path).Msg(iss.Message)
		}
	}
	if hasError {
		return catalog.Catalog{}, errors.New("catalog has errors")
	}
	return cat, nil
}

// newStore builds the configured object store and a cleanup func.
func newStore(ctx context.Context, kind, dataDir, bucket string) (objectstore.Store, func(), error) {
	switch kind {
	case "local":
		return objectstore.NewLocal(dataDir), func() {}, nil
	case "gcs":
		g, err := objectstore.NewGCS(ctx, bucket)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

// setupMetrics installs the selected metrics backend; failures degrade to the
// nop backend rather than blocking the run.
func setupMetrics(backend, gwURL, ddAddr string, log zerolog.Logger) {
	switch backend {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(run.JobTransformer, gwURL)
		if err != nil {
			log.Warn().Err(err).Msg("pushgateway backend init failed; metrics disabled")
			return
		}
		metrics.SetBackend(b)

	case "datadog":
		if ddAddr == "" {
			ddAddr = os.Getenv("DOGSTATSD_ADDR")
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: ddAddr, Namespace: "salespipe."})
		if err != nil {
			log.Warn().Err(err).Msg("datadog backend init failed; metrics disabled")
			return
		}
		metrics.SetBackend(b)

	case "", "none":
		// nop backend remains

	default:
		log.Warn().Str("backend", backend).Msg("unknown metrics backend; metrics disabled")
	}
}
