package mdg

import (
	"bufio"
	"io"
	"math"
	"os"

	"github.com/yanun0323/errors"

	"main/internal/split"
)

// Writer frames encoded record bodies into a stream. Fixed framing writes
// bodies back to back; prefixed framing puts a big-endian u16 body length
// before each record.
type Writer struct {
	w       *bufio.Writer
	framing split.Framing
}

// NewWriter wraps an output stream.
func NewWriter(w io.Writer, framing split.Framing) *Writer {
	return &Writer{w: bufio.NewWriter(w), framing: framing}
}

// Write appends one record body.
func (w *Writer) Write(body []byte) error {
	if w.framing == split.FramingPrefixed {
		if len(body) > math.MaxUint16 {
			return errors.Errorf("record body %d bytes exceeds u16 prefix", len(body))
		}
		if _, err := w.w.Write([]byte{byte(len(body) >> 8), byte(len(body))}); err != nil {
			return errors.Wrap(err, "write length prefix")
		}
	}
	if _, err := w.w.Write(body); err != nil {
		return errors.Wrap(err, "write record body")
	}
	return nil
}

// Flush drains the buffer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// WriteFile generates a full synthetic dump at path. The framing follows the
// file extension, so a .jrn path gets length prefixes.
func WriteFile(path string, g *Generator) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "create dump file")
	}
	defer file.Close()

	w := NewWriter(file, split.FramingForPath(path))
	for i := 0; i < g.Records(); i++ {
		body, _, err := g.Next()
		if err != nil {
			return i, err
		}
		if err := w.Write(body); err != nil {
			return i, err
		}
	}
	if err := w.Flush(); err != nil {
		return g.Records(), errors.Wrap(err, "flush dump file")
	}
	return g.Records(), nil
}
