// Package split walks a raw byte stream and yields framed record bodies.
package split

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/yanun0323/errors"

	"main/internal/record"
	"main/internal/schema"
	"main/pkg/exception"
)

// Framing is the record-boundary discipline of a source file.
type Framing uint8

const (
	// FramingFixed derives each record's length from the schema selected by
	// the discriminator at the record start. Dump files (.dat).
	FramingFixed Framing = iota + 1
	// FramingPrefixed reads an explicit u16 length before each body.
	// Journal files (.jrn).
	FramingPrefixed
)

func (f Framing) String() string {
	switch f {
	case FramingFixed:
		return "fixed"
	case FramingPrefixed:
		return "prefixed"
	default:
		return "unknown"
	}
}

// FramingForPath picks the discipline from the file extension.
func FramingForPath(path string) Framing {
	if strings.EqualFold(filepath.Ext(path), ".jrn") {
		return FramingPrefixed
	}
	return FramingFixed
}

// Options bounds record extraction.
type Options struct {
	// MaxRecordLength rejects absurd declared lengths in prefixed framing.
	// Zero means no limit beyond the u16 prefix itself.
	MaxRecordLength int
}

// Splitter yields successive record bodies from a byte source. It is a
// single-pass, lazy reader: each Next call resolves exactly one record
// boundary. The returned body is only valid until the next call.
type Splitter struct {
	r       *bufio.Reader
	reg     *schema.Registry
	framing Framing
	opts    Options
	offset  int64
	head    [2]byte
	body    []byte
}

// New wraps a reader with record framing.
func New(r io.Reader, reg *schema.Registry, framing Framing, opts Options) *Splitter {
	return &Splitter{
		r:       bufio.NewReader(r),
		reg:     reg,
		framing: framing,
		opts:    opts,
	}
}

// Next returns the next raw record.
//
// io.EOF marks a clean end of stream. exception.ErrTruncatedRecord marks
// trailing bytes shorter than one record. exception.ErrUnknownRecordType is
// returned with the offending discriminator; under fixed framing the caller
// must stop (the next boundary is unknowable), under prefixed framing the
// body has already been consumed and the caller may continue.
// exception.ErrMalformedRecordLength and exception.ErrRecordTooLarge are
// fatal to the stream.
func (s *Splitter) Next() (record.RawRecord, error) {
	switch s.framing {
	case FramingFixed:
		return s.nextFixed()
	case FramingPrefixed:
		return s.nextPrefixed()
	default:
		return record.RawRecord{}, errors.New("splitter framing not set")
	}
}

func (s *Splitter) nextFixed() (record.RawRecord, error) {
	start := s.offset
	n, err := io.ReadFull(s.r, s.head[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			return record.RawRecord{}, io.EOF
		}
		s.offset += int64(n)
		return record.RawRecord{Offset: start}, errors.Wrap(exception.ErrTruncatedRecord, "partial discriminator").
			With("offset", start)
	}
	s.offset += 2

	disc := schema.RecordType(uint16(s.head[0])<<8 | uint16(s.head[1]))
	sch, ok := s.reg.SchemaFor(disc)
	if !ok {
		return record.RawRecord{Type: disc, Offset: start},
			errors.Wrap(exception.ErrUnknownRecordType, "fixed framing cannot advance").
				With("discriminator", uint16(disc)).
				With("offset", start)
	}

	s.grow(sch.Length)
	copy(s.body, s.head[:])
	n, err = io.ReadFull(s.r, s.body[schema.DiscriminatorSize:])
	s.offset += int64(n)
	if err != nil {
		return record.RawRecord{Type: disc, Offset: start},
			errors.Wrap(exception.ErrTruncatedRecord, "record body short").
				With("schema", sch.Name).
				With("want", sch.Length).
				With("got", schema.DiscriminatorSize+n).
				With("offset", start)
	}
	return record.RawRecord{Type: disc, Offset: start, Bytes: s.body}, nil
}

func (s *Splitter) nextPrefixed() (record.RawRecord, error) {
	prefixAt := s.offset
	n, err := io.ReadFull(s.r, s.head[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			return record.RawRecord{}, io.EOF
		}
		s.offset += int64(n)
		return record.RawRecord{Offset: prefixAt}, errors.Wrap(exception.ErrTruncatedRecord, "partial length prefix").
			With("offset", prefixAt)
	}
	s.offset += 2

	declared := int(uint16(s.head[0])<<8 | uint16(s.head[1]))
	if declared < schema.DiscriminatorSize {
		return record.RawRecord{Offset: prefixAt},
			errors.Wrap(exception.ErrMalformedRecordLength, "declared length below discriminator size").
				With("declared", declared).
				With("offset", prefixAt)
	}
	if s.opts.MaxRecordLength > 0 && declared > s.opts.MaxRecordLength {
		return record.RawRecord{Offset: prefixAt},
			errors.Wrap(exception.ErrRecordTooLarge, "declared length over limit").
				With("declared", declared).
				With("limit", s.opts.MaxRecordLength).
				With("offset", prefixAt)
	}

	start := s.offset
	s.grow(declared)
	n, err = io.ReadFull(s.r, s.body)
	s.offset += int64(n)
	if err != nil {
		return record.RawRecord{Offset: start},
			errors.Wrap(exception.ErrTruncatedRecord, "record body short").
				With("declared", declared).
				With("got", n).
				With("offset", start)
	}

	disc := schema.RecordType(uint16(s.body[0])<<8 | uint16(s.body[1]))
	raw := record.RawRecord{Type: disc, Offset: start, Bytes: s.body}
	if _, ok := s.reg.SchemaFor(disc); !ok {
		// body already consumed; the caller can keep going
		return raw, errors.Wrap(exception.ErrUnknownRecordType, "skipped by declared length").
			With("discriminator", uint16(disc)).
			With("offset", start)
	}
	return raw, nil
}

func (s *Splitter) grow(n int) {
	if cap(s.body) < n {
		s.body = make([]byte, n)
	}
	s.body = s.body[:n]
}
