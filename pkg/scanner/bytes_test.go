package scanner

import (
	"bytes"
	"testing"
)

func TestTrimRightPad(t *testing.T) {
	testCases := []struct {
		desc     string
		input    []byte
		pads     []byte
		expected []byte
	}{
		{"spaces", []byte("NIFTY     "), []byte{' '}, []byte("NIFTY")},
		{"nuls", []byte("FO\x00\x00"), []byte{' ', 0}, []byte("FO")},
		{"mixed", []byte("AB \x00 \x00"), []byte{' ', 0}, []byte("AB")},
		{"internal kept", []byte("A B  "), []byte{' '}, []byte("A B")},
		{"all pad", []byte("    "), []byte{' '}, []byte{}},
		{"empty", []byte{}, []byte{' '}, []byte{}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := TrimRightPad(tc.input, tc.pads...)
			if !bytes.Equal(got, tc.expected) {
				t.Fatalf("trim mismatch! should be %q but got %q", tc.expected, got)
			}
		})
	}
}

func TestParseUintDigits(t *testing.T) {
	testCases := []struct {
		desc     string
		input    string
		expected uint64
		ok       bool
	}{
		{"simple", "12345", 12345, true},
		{"zero", "0", 0, true},
		{"leading zeros", "0042", 42, true},
		{"max", "18446744073709551615", ^uint64(0), true},
		{"overflow", "18446744073709551616", 0, false},
		{"empty", "", 0, false},
		{"non digit", "12a4", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, ok := ParseUintDigits([]byte(tc.input))
			if ok != tc.ok || got != tc.expected {
				t.Fatalf("parse mismatch! should be (%d,%v) but got (%d,%v)", tc.expected, tc.ok, got, ok)
			}
		})
	}
}

func TestAllDigits(t *testing.T) {
	if AllDigits(nil) {
		t.Fatalf("empty input should not count as digits")
	}
	if !AllDigits([]byte("0123456789")) {
		t.Fatalf("digits rejected")
	}
	if AllDigits([]byte("12.3")) {
		t.Fatalf("dot accepted")
	}
}

func TestIsPrintableASCII(t *testing.T) {
	if !IsPrintableASCII(' ') || !IsPrintableASCII('~') || !IsPrintableASCII('A') {
		t.Fatalf("printable range rejected")
	}
	if IsPrintableASCII(0x1F) || IsPrintableASCII(0x7F) || IsPrintableASCII(0x00) {
		t.Fatalf("non-printable accepted")
	}
}
