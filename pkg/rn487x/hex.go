package rn487x

import "fmt"

const hexDigits = "0123456789ABCDEF"

// AppendHex appends v as width uppercase hex digits, zero padded on the
// left. Digits above width are dropped.
func AppendHex(dst []byte, v uint32, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		var nibble uint32
		if i < 8 {
			nibble = (v >> (uint(i) * 4)) & 0xf
		}
		dst = append(dst, hexDigits[nibble])
	}
	return dst
}

// EncodeHex formats v as width uppercase hex digits.
func EncodeHex(v uint32, width int) string {
	return string(AppendHex(make([]byte, 0, width), v, width))
}

// AppendHexBytes appends two hex digits per byte of p.
func AppendHexBytes(dst []byte, p []byte) []byte {
	for _, b := range p {
		dst = AppendHex(dst, uint32(b), 2)
	}
	return dst
}

// DecodeNibble converts one uppercase hex digit. Anything else decodes to 0.
func DecodeNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// DecodeWord accumulates digits left to right, 4 bits each.
func DecodeWord(digits []byte) uint32 {
	var v uint32
	for _, c := range digits {
		v = v<<4 | uint32(DecodeNibble(c))
	}
	return v
}

// DecodeHexBytes appends one byte per pair of digits. A trailing odd digit
// is ignored. Decoding is lenient like DecodeNibble.
func DecodeHexBytes(dst []byte, digits []byte) []byte {
	for i := 0; i+1 < len(digits); i += 2 {
		dst = append(dst, DecodeNibble(digits[i])<<4|DecodeNibble(digits[i+1]))
	}
	return dst
}

// IsHexDigit reports whether c is an uppercase hex digit.
func IsHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}

// ParseHexBytes strictly parses an even number of hex digits. Lowercase
// digits are accepted.
func ParseHexBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd number of hex digits in %q", s)
	}
	digits := []byte(s)
	for i, c := range digits {
		if c >= 'a' && c <= 'f' {
			digits[i] = c - 'a' + 'A'
		} else if !IsHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit %q in %q", c, s)
		}
	}
	return DecodeHexBytes(make([]byte, 0, len(digits)/2), digits), nil
}
