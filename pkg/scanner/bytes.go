package scanner

// TrimRightPad strips trailing pad bytes. Leading and internal pad bytes are
// kept; exchange text fields only pad on the right.
func TrimRightPad(b []byte, pads ...byte) []byte {
	end := len(b)
	for end > 0 {
		c := b[end-1]
		matched := false
		for _, p := range pads {
			if c == p {
				matched = true
				break
			}
		}
		if !matched {
			break
		}
		end--
	}
	return b[:end]
}

func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func AllDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if !IsDigit(c) {
			return false
		}
	}
	return true
}

// ParseUintDigits parses an unsigned decimal number from ASCII digits.
// Returns false on empty input, a non-digit byte, or overflow.
func ParseUintDigits(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var v uint64
	for _, c := range b {
		if !IsDigit(c) {
			return 0, false
		}
		d := uint64(c - '0')
		if v > (^uint64(0)-d)/10 {
			return 0, false
		}
		v = v*10 + d
	}
	return v, true
}

func IsPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7e
}
