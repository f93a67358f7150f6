package exception

import "errors"

// Field-level conditions. ErrUnknownEnumValue is warning-class: the decoder
// keeps the raw code in the row instead of failing the record.
var (
	ErrFieldDecode      = errors.New("field: decode failed")
	ErrFieldEncode      = errors.New("field: encode failed")
	ErrUnknownEnumValue = errors.New("field: unknown enum value")
)
