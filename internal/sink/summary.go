package sink

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/yanun0323/errors"

	"main/internal/reformat"
	"main/internal/schema"
)

// Summary is the per-file sidecar written next to the CSV output. It carries
// everything a downstream job needs to decide whether to trust the file.
type Summary struct {
	Source          string `json:"source"`
	Framing         string `json:"framing"`
	RegistryVersion string `json:"registry_version"`

	TotalRecords       int            `json:"total_records"`
	DecodedRecords     int            `json:"decoded_records"`
	RowsByType         map[string]int `json:"rows_by_type"`
	MalformedRecords   int            `json:"malformed_records"`
	TruncatedRecords   int            `json:"truncated_records"`
	UnknownTypeRecords int            `json:"unknown_type_records"`
	EnumWarnings       int            `json:"enum_warnings"`
	FieldErrors        int            `json:"field_errors"`
	FilteredRecords    int            `json:"filtered_records"`

	CorruptionRatio float64 `json:"corruption_ratio"`
	Aborted         bool    `json:"aborted"`
	AbortReason     string  `json:"abort_reason,omitempty"`
	ElapsedMillis   int64   `json:"elapsed_ms"`
}

// NewSummary flattens a FileResult for serialization.
func NewSummary(res *reformat.FileResult, reg *schema.Registry) Summary {
	sum := Summary{
		Source:             res.Source,
		Framing:            res.Framing,
		RegistryVersion:    reg.Version(),
		TotalRecords:       res.TotalRecords,
		DecodedRecords:     res.DecodedRecords,
		RowsByType:         make(map[string]int, len(res.RowsByType)),
		MalformedRecords:   res.MalformedRecords,
		TruncatedRecords:   res.TruncatedRecords,
		UnknownTypeRecords: res.UnknownTypeRecords,
		EnumWarnings:       res.EnumWarnings,
		FieldErrors:        res.FieldErrors,
		FilteredRecords:    res.FilteredRecords,
		CorruptionRatio:    res.CorruptionRatio(),
		Aborted:            res.Aborted,
		ElapsedMillis:      res.Elapsed.Milliseconds(),
	}
	if res.AbortErr != nil {
		sum.AbortReason = res.AbortErr.Error()
	}
	for t, rows := range res.RowsByType {
		name := "unknown"
		if sch, ok := reg.SchemaFor(t); ok {
			name = sch.Name
		}
		sum.RowsByType[name] = len(rows)
	}
	return sum
}

// WriteSummary writes the sidecar as <base>-summary.json in dir.
func WriteSummary(dir string, res *reformat.FileResult, reg *schema.Registry) error {
	sum := NewSummary(res, reg)
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal summary")
	}
	data = append(data, '\n')

	path := filepath.Join(dir, sourceBase(res.Source)+"-summary.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write summary").With("path", path)
	}
	return nil
}
