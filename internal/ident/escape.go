package ident

import (
	"strings"
	"unicode/utf8"
)

// Unescape decodes CSS escape sequences in an identifier to its canonical
// form: a backslash followed by 1-6 hex digits plus an optional trailing
// whitespace character, or a backslash followed by one literal character.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		i++
		if i >= len(s) {
			// Trailing lone backslash decodes to the replacement character.
			b.WriteRune(utf8.RuneError)
			break
		}
		if isHexDigit(s[i]) {
			code := 0
			n := 0
			for i < len(s) && n < 6 && isHexDigit(s[i]) {
				code = code<<4 | hexVal(s[i])
				i++
				n++
			}
			// One whitespace character may terminate the escape.
			if i < len(s) && isCSSWhitespace(s[i]) {
				if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
					i++
				}
				i++
			}
			if code == 0 || code > utf8.MaxRune || (code >= 0xD800 && code <= 0xDFFF) {
				b.WriteRune(utf8.RuneError)
			} else {
				b.WriteRune(rune(code))
			}
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

// Escape serializes s as a CSS identifier using the standard
// serialize-an-identifier rules.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for _, r := range s {
		switch {
		case r == 0:
			b.WriteRune(utf8.RuneError)
		case r <= 0x1F || r == 0x7F:
			writeHexEscape(&b, r)
		case i == 0 && r >= '0' && r <= '9':
			writeHexEscape(&b, r)
		case i == 1 && r >= '0' && r <= '9' && s[0] == '-':
			writeHexEscape(&b, r)
		case i == 0 && r == '-' && len(s) == 1:
			b.WriteString(`\-`)
		case r >= 0x80 || r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
		i++
	}
	return b.String()
}

// EscapeSuffix serializes s as the tail of a CSS identifier, for text that
// follows a prefix such as "--". The leading-digit and lone-hyphen rules do
// not apply because the prefix already anchors the identifier start, so a
// digit serializes as itself rather than a hex escape.
func EscapeSuffix(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == 0:
			b.WriteRune(utf8.RuneError)
		case r <= 0x1F || r == 0x7F:
			writeHexEscape(&b, r)
		case r >= 0x80 || r == '-' || r == '_' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeHexEscape(b *strings.Builder, r rune) {
	const hex = "0123456789abcdef"
	b.WriteByte('\\')
	if r == 0 {
		b.WriteByte('0')
	} else {
		var digits [8]byte
		n := 0
		for v := uint32(r); v > 0; v >>= 4 {
			digits[n] = hex[v&0xF]
			n++
		}
		for n > 0 {
			n--
			b.WriteByte(digits[n])
		}
	}
	b.WriteByte(' ')
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

func isCSSWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// ValidToken reports whether tok fits the restrictive character class used
// when deciding that an attribute value or string literal is a token list
// rather than ordinary prose.
func ValidToken(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}
