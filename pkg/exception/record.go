package exception

import "errors"

// Record-level conditions. Splitter and decoder return these as sentinels so
// the reformatter can pick a recovery policy per framing discipline.
var (
	ErrUnknownRecordType     = errors.New("record: unknown record type")
	ErrTruncatedRecord       = errors.New("record: truncated record at end of stream")
	ErrMalformedRecordLength = errors.New("record: malformed record length")
	ErrFramingLost           = errors.New("record: framing lost")
	ErrRecordTooLarge        = errors.New("record: declared length exceeds limit")
)
