package codec

import (
	"strconv"

	"github.com/yanun0323/errors"

	"main/pkg/scanner"
)

// Decimal is an exact fixed-point value: Integer scaled by 10^Scale.
// Prices never touch floating point on the decode/emit path.
type Decimal struct {
	Integer int64
	Scale   int
}

func (d Decimal) AppendString(buf []byte) []byte {
	return appendScaledInt(buf, d.Integer, d.Scale)
}

func (d Decimal) String() string {
	return string(d.AppendString(nil))
}

func appendScaledInt(buf []byte, value int64, scale int) []byte {
	if scale <= 0 {
		return strconv.AppendInt(buf, value, 10)
	}

	neg := value < 0
	u := uint64(value)
	if neg {
		u = uint64(^value) + 1
	}

	var tmp [32]byte
	digits := strconv.AppendUint(tmp[:0], u, 10)

	if neg {
		buf = append(buf, '-')
	}

	if len(digits) <= scale {
		buf = append(buf, '0', '.')
		for i := 0; i < scale-len(digits); i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
		return buf
	}

	idx := len(digits) - scale
	buf = append(buf, digits[:idx]...)
	buf = append(buf, '.')
	buf = append(buf, digits[idx:]...)
	return buf
}

// ParseDecimal parses a plain decimal literal like "100.25" into a Decimal
// at the requested scale. More fractional digits than the scale allows is an
// error; fewer are zero-padded.
func ParseDecimal(s string, scale int) (Decimal, error) {
	if scale < 0 {
		return Decimal{}, errors.Errorf("negative scale %d", scale)
	}
	b := []byte(s)
	neg := false
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		neg = b[0] == '-'
		b = b[1:]
	}
	if len(b) == 0 {
		return Decimal{}, errors.Errorf("empty decimal literal %q", s)
	}

	intPart := b
	var fracPart []byte
	for i, c := range b {
		if c == '.' {
			intPart = b[:i]
			fracPart = b[i+1:]
			break
		}
	}
	if len(intPart) == 0 || !scanner.AllDigits(intPart) {
		return Decimal{}, errors.Errorf("invalid decimal literal %q", s)
	}
	if len(fracPart) > 0 && !scanner.AllDigits(fracPart) {
		return Decimal{}, errors.Errorf("invalid decimal literal %q", s)
	}
	if len(fracPart) > scale {
		return Decimal{}, errors.Errorf("decimal literal %q exceeds scale %d", s, scale)
	}

	v, ok := scanner.ParseUintDigits(intPart)
	if !ok {
		return Decimal{}, errors.Errorf("invalid decimal literal %q", s)
	}
	for i := 0; i < scale; i++ {
		v *= 10
		if i < len(fracPart) {
			v += uint64(fracPart[i] - '0')
		}
	}
	if v > uint64(1)<<63-1 {
		return Decimal{}, errors.Errorf("decimal literal %q overflows", s)
	}
	out := int64(v)
	if neg {
		out = -out
	}
	return Decimal{Integer: out, Scale: scale}, nil
}

// QuotientScaled computes num/den rendered at the given scale with
// round-half-up, using integer arithmetic only. Used for VWAP-style ratios
// where the numerator is already scaled (e.g. price*qty in price scale).
func QuotientScaled(num, den int64, scale int) (Decimal, error) {
	if den == 0 {
		return Decimal{}, errors.New("division by zero")
	}
	neg := false
	if num < 0 {
		neg = !neg
		num = -num
	}
	if den < 0 {
		neg = !neg
		den = -den
	}
	q := num / den
	r := num % den
	// round half up on the remainder
	if 2*r >= den {
		q++
	}
	if neg {
		q = -q
	}
	return Decimal{Integer: q, Scale: scale}, nil
}
