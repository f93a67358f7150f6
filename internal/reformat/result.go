package reformat

import (
	"time"

	"main/internal/record"
	"main/internal/schema"
)

// FileResult is the outcome of reformatting one input file. It is owned by
// the worker that produced it and handed to the collector once complete.
type FileResult struct {
	Source  string
	Framing string

	// RowsByType groups decoded rows for per-type CSV emission.
	RowsByType map[schema.RecordType][]record.Row

	TotalRecords       int // every record boundary attempt
	DecodedRecords     int
	MalformedRecords   int // rejected wholesale (bad length, unknown type)
	TruncatedRecords   int // trailing partial record, benign
	UnknownTypeRecords int
	EnumWarnings       int // unknown enum codes kept as raw values
	FieldErrors        int // error-marker cells in otherwise sound records
	FilteredRecords    int // dropped by the instrument filter

	Aborted  bool // framing lost or unreadable source
	AbortErr error
	Elapsed  time.Duration
}

// CorruptionRatio is the share of record attempts that could not be decoded.
// Callers use it to decide whether to trust the file at all.
func (r *FileResult) CorruptionRatio() float64 {
	if r.TotalRecords == 0 {
		return 0
	}
	return float64(r.MalformedRecords) / float64(r.TotalRecords)
}

// Rows returns the decoded rows of one type.
func (r *FileResult) Rows(t schema.RecordType) []record.Row {
	return r.RowsByType[t]
}
