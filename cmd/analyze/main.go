package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"main/internal/analysis"
	"main/internal/store"
)

func main() {
	outPath := flag.String("out", "", "Aggregate report CSV path (default stdout)")
	detailDir := flag.String("detail-dir", "", "Directory for per-file instrument and bucket rollups")
	storeDSN := flag.String("store-dsn", "", "PostgreSQL connection string for the summary store")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		log.Fatalf("no input files; usage: analyze [flags] <trade csv files>")
	}

	out := os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create report failed: %v", err)
		}
		defer file.Close()
		out = file
	}

	var db *store.Store
	if *storeDSN != "" {
		var err error
		db, err = store.Open(*storeDSN)
		if err != nil {
			log.Fatalf("summary store init failed: %v", err)
		}
		defer db.Close()
	}

	w := csv.NewWriter(out)
	if err := w.Write(analysis.Report{}.CSVHeader()); err != nil {
		log.Fatalf("write report header failed: %v", err)
	}

	failed := 0
	for _, path := range paths {
		trades, err := analysis.LoadTrades(path)
		if err != nil {
			log.Printf("%s: load failed: %v", path, err)
			failed++
			continue
		}
		result, err := analysis.Analyze(path, trades)
		if err != nil {
			log.Printf("%s: analyze failed: %v", path, err)
			failed++
			continue
		}

		if err := w.Write(result.Report.CSVRecord()); err != nil {
			log.Fatalf("write report row failed: %v", err)
		}
		if *detailDir != "" {
			if err := writeDetails(*detailDir, path, result); err != nil {
				log.Printf("%s: detail write failed: %v", path, err)
				failed++
			}
		}
		if db != nil {
			if err := db.SaveInstrumentStats(path, result.Instruments); err != nil {
				log.Printf("%s: instrument store failed: %v", path, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush report failed: %v", err)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func writeDetails(dir, source string, result *analysis.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	instruments := make([][]string, 0, len(result.Instruments)+1)
	instruments = append(instruments, analysis.InstrumentStat{}.CSVHeader())
	for _, st := range result.Instruments {
		instruments = append(instruments, st.CSVRecord())
	}
	if err := writeCSV(filepath.Join(dir, base+"-instruments.csv"), instruments); err != nil {
		return err
	}

	buckets := make([][]string, 0, len(result.Buckets)+1)
	buckets = append(buckets, analysis.BucketStat{}.CSVHeader())
	for _, st := range result.Buckets {
		buckets = append(buckets, st.CSVRecord())
	}
	return writeCSV(filepath.Join(dir, base+"-buckets.csv"), buckets)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
