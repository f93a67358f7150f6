package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"main/internal/ops"
	"main/internal/record"
	"main/internal/split"
	"main/pkg/exception"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	framingFlag := flag.String("framing", "auto", "Record framing: auto|fixed|prefixed")
	decode := flag.Bool("decode", false, "Decode fields instead of printing boundaries only")
	limit := flag.Int("limit", 0, "Stop after N records (0=all)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: inspect [flags] <dump file>")
	}
	path := flag.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	framing := split.FramingForPath(path)
	switch *framingFlag {
	case "", "auto":
	case "fixed":
		framing = split.FramingFixed
	case "prefixed":
		framing = split.FramingPrefixed
	default:
		log.Fatalf("unsupported framing: %s", *framingFlag)
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("open failed: %v", err)
	}
	defer file.Close()

	sp := split.New(file, cfg.Registry, framing, split.Options{})
	var index int
	for {
		raw, err := sp.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Printf("%06d offset=%d error: %v\n", index+1, raw.Offset, err)
			if framing == split.FramingFixed || !stderrors.Is(err, exception.ErrUnknownRecordType) {
				break
			}
			index++
			continue
		}
		index++

		name := "unknown"
		if sch, ok := cfg.Registry.SchemaFor(raw.Type); ok {
			name = sch.Name
		}
		fmt.Printf("%06d offset=%d type=%d (%s) len=%d\n", index, raw.Offset, uint16(raw.Type), name, len(raw.Bytes))

		if *decode {
			printDecoded(cfg, raw)
		}
		if *limit > 0 && index >= *limit {
			break
		}
	}
}

func printDecoded(cfg ops.Loaded, raw record.RawRecord) {
	sch, ok := cfg.Registry.SchemaFor(raw.Type)
	if !ok {
		return
	}
	row, err := record.Decode(raw, sch)
	if err != nil {
		fmt.Printf("  decode failed: %v\n", err)
		return
	}
	for _, f := range row.Fields {
		fmt.Printf("  %s=%s\n", f.Name, f.Value.String())
	}
}

func loadConfig(path string) (ops.Loaded, error) {
	if path == "" {
		return ops.Default(), nil
	}
	return ops.Load(path)
}
