package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	pyroscope "github.com/grafana/pyroscope-go"

	"main/internal/obs"
	"main/internal/ops"
	"main/internal/reformat"
	"main/internal/sink"
	"main/internal/split"
	"main/internal/store"
)

func main() {
	outDir := flag.String("out", "", "Output directory (overrides config)")
	configPath := flag.String("config", "", "Path to JSON config")
	workers := flag.Int("workers", 0, "Parallel file workers (overrides config)")
	framingFlag := flag.String("framing", "auto", "Record framing: auto|fixed|prefixed")
	perSymbol := flag.Bool("per-symbol", false, "Split CSV output per symbol")
	instruments := flag.String("instruments", "", "Comma-separated instrument filter (e.g. FUTIDX,FUTSTK)")
	progress := flag.Int("progress", 0, "Log progress every N records (overrides config)")
	maxRecord := flag.Int("max-record", 0, "Max declared record length in prefixed framing")
	storeDSN := flag.String("store-dsn", "", "PostgreSQL connection string for the summary store")
	pyroAddr := flag.String("pyroscope", "", "Pyroscope server address (enables profiling)")
	memReport := flag.Duration("mem-report", 0, "Memory report interval (0 disables)")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatalf("no input files; usage: reformat [flags] <dump files>")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *progress > 0 {
		cfg.Progress = *progress
	}
	if *maxRecord > 0 {
		cfg.MaxRecord = *maxRecord
	}
	if *perSymbol {
		cfg.PerSymbol = true
	}
	if *storeDSN != "" {
		cfg.Store.ConnString = *storeDSN
	}
	if *instruments != "" {
		cfg.Instruments = make(map[string]bool)
		for _, name := range strings.Split(*instruments, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Instruments[name] = true
			}
		}
	}

	framing, err := parseFraming(*framingFlag)
	if err != nil {
		log.Fatalf("invalid framing: %v", err)
	}

	if *pyroAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "dump/reformat",
			ServerAddress:   *pyroAddr,
			Logger:          emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Printf("pyroscope stop failed: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *memReport > 0 {
		var reporter obs.MemoryReporter
		go reporter.Run(ctx, *memReport)
	}

	metrics := obs.NewMetrics(cfg.Registry)
	ref, err := reformat.New(reformat.Options{
		Registry:        cfg.Registry,
		Framing:         framing,
		MaxRecordLength: cfg.MaxRecord,
		Instruments:     cfg.Instruments,
		ProgressEvery:   cfg.Progress,
		Metrics:         metrics,
	})
	if err != nil {
		log.Fatalf("reformatter init failed: %v", err)
	}
	batch, err := reformat.NewBatch(ref, cfg.Workers)
	if err != nil {
		log.Fatalf("batch init failed: %v", err)
	}
	csv, err := sink.NewCSV(cfg.OutputDir, cfg.PerSymbol)
	if err != nil {
		log.Fatalf("csv sink init failed: %v", err)
	}

	var db *store.Store
	if cfg.Store.ConnString != "" {
		db, err = store.Open(cfg.Store.ConnString)
		if err != nil {
			log.Fatalf("summary store init failed: %v", err)
		}
		defer db.Close()
	}

	var aborted, failed int
	batch.Run(ctx, paths, func(res *reformat.FileResult) {
		if res.Aborted {
			aborted++
		}
		if err := csv.WriteResult(res, cfg.Registry); err != nil {
			log.Printf("%s: csv write failed: %v", res.Source, err)
			failed++
		}
		if cfg.Summary {
			if err := sink.WriteSummary(cfg.OutputDir, res, cfg.Registry); err != nil {
				log.Printf("%s: summary write failed: %v", res.Source, err)
				failed++
			}
		}
		if db != nil {
			if err := db.SaveSummary(sink.NewSummary(res, cfg.Registry)); err != nil {
				log.Printf("%s: summary store failed: %v", res.Source, err)
			}
		}
	})

	snap := metrics.Snapshot()
	log.Printf("files=%d aborted=%d decoded=%v malformed=%d truncated=%d unknown=%d enum_warnings=%d field_errors=%d latency=%+v",
		snap.FilesProcessed, snap.FilesAborted, snap.DecodedByType, snap.Malformed,
		snap.Truncated, snap.UnknownType, snap.EnumWarnings, snap.FieldErrors, snap.FileLatency)

	if aborted > 0 || failed > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) (ops.Loaded, error) {
	if path == "" {
		return ops.Default(), nil
	}
	return ops.Load(path)
}

func parseFraming(name string) (split.Framing, error) {
	switch name {
	case "", "auto":
		return 0, nil
	case "fixed":
		return split.FramingFixed, nil
	case "prefixed":
		return split.FramingPrefixed, nil
	default:
		return 0, fmt.Errorf("unsupported framing: %s", name)
	}
}

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
