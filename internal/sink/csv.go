// Package sink serializes decoded rows and per-file summaries. Sinks are
// owned by the batch collector and never shared across goroutines.
package sink

import (
	"bufio"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/yanun0323/errors"

	"main/internal/record"
	"main/internal/reformat"
	"main/internal/schema"
)

// CSVSink writes one CSV per record type present in a result. In per-symbol
// mode it instead splits the type's rows into one file per symbol, appending
// across input files the way the original per-security output worked.
type CSVSink struct {
	dir       string
	perSymbol bool

	buf   []byte
	cells []string
}

// NewCSV creates the output directory and a sink writing into it.
func NewCSV(dir string, perSymbol bool) (*CSVSink, error) {
	if dir == "" {
		return nil, errors.New("csv sink requires an output directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	return &CSVSink{dir: dir, perSymbol: perSymbol}, nil
}

// WriteResult emits every record type of the result. Malformed records are
// already excluded; they only appear in the summary.
func (s *CSVSink) WriteResult(res *reformat.FileResult, reg *schema.Registry) error {
	base := sourceBase(res.Source)
	for _, t := range reg.Types() {
		rows := res.RowsByType[t]
		if len(rows) == 0 {
			continue
		}
		sch, ok := reg.SchemaFor(t)
		if !ok {
			continue
		}
		if s.perSymbol {
			if err := s.writePerSymbol(sch, rows); err != nil {
				return err
			}
			continue
		}
		path := filepath.Join(s.dir, base+"-"+sch.Name+".csv")
		if err := s.writeFile(path, sch, rows); err != nil {
			return err
		}
	}
	return nil
}

func (s *CSVSink) writeFile(path string, sch *schema.RecordSchema, rows []record.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv file").With("path", path)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	w := csv.NewWriter(buf)
	if err := w.Write(sch.FieldNames()); err != nil {
		return errors.Wrap(err, "write csv header").With("path", path)
	}
	for _, row := range rows {
		if err := w.Write(s.render(row)); err != nil {
			return errors.Wrap(err, "write csv row").With("path", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush csv").With("path", path)
	}
	return buf.Flush()
}

func (s *CSVSink) writePerSymbol(sch *schema.RecordSchema, rows []record.Row) error {
	groups := make(map[string][]record.Row)
	var order []string
	for _, row := range rows {
		symbol := "UNKNOWN"
		if v, ok := row.Field("symbol"); ok && v.Text != "" {
			symbol = v.Text
		}
		if _, seen := groups[symbol]; !seen {
			order = append(order, symbol)
		}
		groups[symbol] = append(groups[symbol], row)
	}

	for _, symbol := range order {
		path := filepath.Join(s.dir, sanitizeSymbol(symbol)+"-"+sch.Name+".csv")
		if err := s.appendFile(path, sch, groups[symbol]); err != nil {
			return err
		}
	}
	return nil
}

func (s *CSVSink) appendFile(path string, sch *schema.RecordSchema, rows []record.Row) error {
	info, statErr := os.Stat(path)
	fresh := statErr != nil || info.Size() == 0

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open csv file").With("path", path)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	w := csv.NewWriter(buf)
	if fresh {
		if err := w.Write(sch.FieldNames()); err != nil {
			return errors.Wrap(err, "write csv header").With("path", path)
		}
	}
	for _, row := range rows {
		if err := w.Write(s.render(row)); err != nil {
			return errors.Wrap(err, "write csv row").With("path", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush csv").With("path", path)
	}
	return buf.Flush()
}

func (s *CSVSink) render(row record.Row) []string {
	if cap(s.cells) < len(row.Fields) {
		s.cells = make([]string, len(row.Fields))
	}
	s.cells = s.cells[:len(row.Fields)]
	for i, f := range row.Fields {
		s.buf = f.Value.AppendString(s.buf[:0])
		s.cells[i] = string(s.buf)
	}
	return s.cells
}

func sourceBase(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func sanitizeSymbol(symbol string) string {
	out := make([]byte, 0, len(symbol))
	for i := 0; i < len(symbol); i++ {
		c := symbol[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
