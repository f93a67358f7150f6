// Package reformat drives the splitter/decoder pipeline across whole files
// and batches of files.
package reformat

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/obs"
	"main/internal/record"
	"main/internal/schema"
	"main/internal/split"
	"main/pkg/exception"
)

// Options configures a Reformatter. The registry is shared and read-only;
// one Reformatter may serve many concurrent Process calls.
type Options struct {
	Registry *schema.Registry

	// Framing forces a discipline; zero selects by file extension.
	Framing split.Framing

	// MaxRecordLength bounds declared lengths in prefixed framing.
	MaxRecordLength int

	// Instruments, when non-empty, keeps only order/trade rows whose
	// instrument column matches. The original pipeline extracted FUTIDX and
	// FUTSTK this way.
	Instruments map[string]bool

	// ProgressEvery logs a progress line after this many records. Zero
	// disables progress reporting.
	ProgressEvery int

	Metrics *obs.Metrics
}

// Reformatter decodes dump files into grouped rows.
type Reformatter struct {
	opts Options
}

// New validates the options and creates a Reformatter.
func New(opts Options) (*Reformatter, error) {
	if opts.Registry == nil {
		return nil, errors.New("reformatter requires a schema registry")
	}
	if opts.MaxRecordLength < 0 {
		return nil, errors.New("max record length must be >= 0")
	}
	if opts.ProgressEvery < 0 {
		return nil, errors.New("progress interval must be >= 0")
	}
	return &Reformatter{opts: opts}, nil
}

// Process decodes one file. Record-level problems land in the result's
// counters; the returned error is reserved for unreadable sources. A lost
// framing marks the result aborted but prior rows are kept.
func (f *Reformatter) Process(ctx context.Context, path string) (*FileResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dump file")
	}
	defer file.Close()

	framing := f.opts.Framing
	if framing == 0 {
		framing = split.FramingForPath(path)
	}
	res := &FileResult{
		Source:     path,
		Framing:    framing.String(),
		RowsByType: make(map[schema.RecordType][]record.Row),
	}

	start := time.Now()
	f.run(ctx, split.New(file, f.opts.Registry, framing, split.Options{
		MaxRecordLength: f.opts.MaxRecordLength,
	}), framing, res)
	res.Elapsed = time.Since(start)

	f.opts.Metrics.ObserveFile(res.Aborted, res.Elapsed)
	return res, nil
}

func (f *Reformatter) run(ctx context.Context, sp *split.Splitter, framing split.Framing, res *FileResult) {
	for {
		select {
		case <-ctx.Done():
			res.Aborted = true
			res.AbortErr = ctx.Err()
			return
		default:
		}

		raw, err := sp.Next()
		if err == nil {
			f.consume(raw, res)
			if f.opts.ProgressEvery > 0 && res.TotalRecords%f.opts.ProgressEvery == 0 {
				logs.Infof("%s: %d records", res.Source, res.TotalRecords)
			}
			continue
		}

		switch {
		case err == io.EOF:
			return

		case stderrors.Is(err, exception.ErrTruncatedRecord):
			res.TotalRecords++
			res.TruncatedRecords++
			f.opts.Metrics.AddTruncated(1)
			return

		case stderrors.Is(err, exception.ErrUnknownRecordType):
			res.TotalRecords++
			res.UnknownTypeRecords++
			res.MalformedRecords++
			f.opts.Metrics.AddUnknownType(1)
			f.opts.Metrics.AddMalformed(1)
			if framing == split.FramingFixed {
				// cannot locate the next boundary; reading on would decode garbage
				res.Aborted = true
				res.AbortErr = errors.Wrap(exception.ErrFramingLost, err.Error())
				return
			}
			logs.Warnf("%s: skipped unknown record type: %v", res.Source, err)

		case stderrors.Is(err, exception.ErrMalformedRecordLength),
			stderrors.Is(err, exception.ErrRecordTooLarge):
			res.TotalRecords++
			res.MalformedRecords++
			f.opts.Metrics.AddMalformed(1)
			res.Aborted = true
			res.AbortErr = errors.Wrap(exception.ErrFramingLost, err.Error())
			return

		default:
			res.Aborted = true
			res.AbortErr = err
			return
		}
	}
}

func (f *Reformatter) consume(raw record.RawRecord, res *FileResult) {
	res.TotalRecords++

	sch, ok := f.opts.Registry.SchemaFor(raw.Type)
	if !ok {
		// prefixed framing hands back bodies it skipped; fixed never gets here
		res.MalformedRecords++
		f.opts.Metrics.AddMalformed(1)
		return
	}

	row, err := record.Decode(raw, sch)
	if err != nil {
		res.MalformedRecords++
		f.opts.Metrics.AddMalformed(1)
		logs.Warnf("%s: malformed %s record: %v", res.Source, sch.Name, err)
		return
	}

	res.DecodedRecords++
	res.EnumWarnings += row.Warnings
	res.FieldErrors += row.FieldErrors
	f.opts.Metrics.IncDecoded(row.Type)
	f.opts.Metrics.AddEnumWarnings(row.Warnings)
	f.opts.Metrics.AddFieldErrors(row.FieldErrors)

	if f.filtered(row) {
		res.FilteredRecords++
		return
	}
	res.RowsByType[row.Type] = append(res.RowsByType[row.Type], row)
}

func (f *Reformatter) filtered(row record.Row) bool {
	if len(f.opts.Instruments) == 0 {
		return false
	}
	v, ok := row.Field("instrument")
	if !ok {
		return false
	}
	return !f.opts.Instruments[v.Text]
}
