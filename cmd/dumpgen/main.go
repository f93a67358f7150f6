package main

import (
	"flag"
	"log"
	"strings"

	"main/internal/mdg"
	"main/internal/ops"
)

func main() {
	outPath := flag.String("out", "synthetic.dat", "Output dump path (.jrn gets length prefixes)")
	configPath := flag.String("config", "", "Path to JSON config")
	records := flag.Int("records", 0, "Number of records to generate (overrides config)")
	seed := flag.Int64("seed", 0, "Random seed (overrides config)")
	symbols := flag.String("symbols", "", "Comma-separated symbol list (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	gen := cfg.Generator
	if *records > 0 {
		gen.Records = *records
	}
	if *seed != 0 {
		gen.Seed = *seed
	}
	if *symbols != "" {
		gen.Symbols = nil
		for _, name := range strings.Split(*symbols, ",") {
			if name = strings.TrimSpace(name); name != "" {
				gen.Symbols = append(gen.Symbols, name)
			}
		}
	}

	generator, err := mdg.NewGenerator(cfg.Registry, gen)
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}
	written, err := mdg.WriteFile(*outPath, generator)
	if err != nil {
		log.Fatalf("generate failed after %d records: %v", written, err)
	}
	log.Printf("wrote %d records to %s", written, *outPath)
}

func loadConfig(path string) (ops.Loaded, error) {
	if path == "" {
		return ops.Default(), nil
	}
	return ops.Load(path)
}
