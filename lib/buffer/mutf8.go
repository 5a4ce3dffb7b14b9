package buffer

import (
	"unicode/utf16"
	"unicode/utf8"
)

// MaxUTFLength is the largest encoded length that fits the 2-byte prefix
const MaxUTFLength = 0xFFFF

// ModifiedUTF8Len returns the number of bytes s occupies in modified UTF-8
// (without the length prefix) and whether s is pure 7-bit ASCII without NUL
// characters, in which case the encoding equals the raw bytes of s.
func ModifiedUTF8Len(s string) (n int, ascii bool) {
	ascii = true
	for _, r := range s {
		switch {
		case r >= 0x01 && r <= 0x7F:
			n++
		case r <= 0x7FF:
			n += 2
			ascii = false
		case r > 0xFFFF:
			// surrogate pair, three bytes per half
			n += 6
			ascii = false
		default:
			n += 3
			ascii = false
		}
	}
	return n, ascii
}

// AppendModifiedUTF8 appends the modified UTF-8 encoding of s (without the
// length prefix) to dst.
func AppendModifiedUTF8(dst []byte, s string) []byte {
	for _, r := range s {
		switch {
		case r >= 0x01 && r <= 0x7F:
			dst = append(dst, byte(r))
		case r <= 0x7FF:
			dst = append(dst, byte(0xC0|(r>>6)&0x1F), byte(0x80|r&0x3F))
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			dst = appendUnit3(dst, hi)
			dst = appendUnit3(dst, lo)
		default:
			dst = appendUnit3(dst, r)
		}
	}
	return dst
}

func appendUnit3(dst []byte, u rune) []byte {
	return append(dst, byte(0xE0|(u>>12)&0x0F), byte(0x80|(u>>6)&0x3F), byte(0x80|u&0x3F))
}

// DecodeModifiedUTF8 decodes modified UTF-8 bytes (without the length prefix).
// Unpaired surrogates are replaced with utf8.RuneError.
func DecodeModifiedUTF8(b []byte) (string, error) {
	// fast path for the common all ASCII case
	ascii := true
	for _, c := range b {
		if c == 0 || c > 0x7F {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}

	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch c >> 4 {
		case 0, 1, 2, 3, 4, 5, 6, 7:
			units = append(units, uint16(c))
			i++
		case 12, 13:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", ErrMalformedUTF
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case 14:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", ErrMalformedUTF
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", ErrMalformedUTF
		}
	}

	out := make([]byte, 0, len(b))
	for _, r := range utf16.Decode(units) {
		out = utf8.AppendRune(out, r)
	}
	return string(out), nil
}
