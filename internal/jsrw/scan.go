// Package jsrw rewrites identifier references inside JavaScript string and
// template literals. Code outside literals is never touched: the scanner
// only has to be exact about where literals begin and end, which takes a
// streaming tokenizer that understands comments, both quote styles,
// template interpolation holes and regex literals.
package jsrw

import "strings"

type chunkKind int

const (
	chunkCode chunkKind = iota
	chunkComment
	chunkString       // quoted literal including its quotes
	chunkTemplateText // template body text between delimiters and holes
	chunkRegex
)

// chunk is one scanner output piece. Concatenating chunk texts in emit
// order reproduces the input byte-for-byte.
type chunk struct {
	kind chunkKind
	text string
	// holeFree marks the entire body of a template literal that contains
	// no ${} interpolation holes.
	holeFree bool
}

// regexKeywords are words after which a '/' begins a regex literal rather
// than division.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true,
	"of": true, "new": true, "delete": true, "void": true, "throw": true,
	"case": true, "do": true, "else": true, "yield": true, "await": true,
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '$'
}

func isJSSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

type scanner struct {
	src  string
	emit func(chunk)
}

func scan(src string, emit func(chunk)) {
	s := &scanner{src: src, emit: emit}
	s.code(0, false)
}

// code scans program text from i, emitting literal chunks as they appear.
// When inHole is true it stops at the '}' closing a template hole and
// returns its index; otherwise it runs to the end of input.
func (s *scanner) code(i int, inHole bool) int {
	src := s.src
	start := i
	braces := 0
	lastSig := byte(0)
	word := ""
	flush := func(end int) {
		if end > start {
			s.emit(chunk{kind: chunkCode, text: src[start:end]})
		}
	}
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			flush(i)
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}
			s.emit(chunk{kind: chunkComment, text: src[i:j]})
			i, start = j, j
			continue

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			flush(i)
			j := len(src)
			if end := strings.Index(src[i+2:], "*/"); end >= 0 {
				j = i + 2 + end + 2
			}
			s.emit(chunk{kind: chunkComment, text: src[i:j]})
			i, start = j, j
			continue

		case c == '\'' || c == '"':
			flush(i)
			j := s.quoted(i)
			s.emit(chunk{kind: chunkString, text: src[i:j]})
			i, start = j, j
			lastSig, word = '"', ""
			continue

		case c == '`':
			flush(i)
			i = s.template(i)
			start = i
			lastSig, word = '`', ""
			continue

		case c == '/' && regexAllowed(lastSig, word):
			flush(i)
			j := s.regex(i)
			s.emit(chunk{kind: chunkRegex, text: src[i:j]})
			i, start = j, j
			// A regex value reads like a parenthesized expression: the next
			// '/' would be division.
			lastSig, word = ')', ""
			continue
		}

		if c == '{' {
			braces++
		} else if c == '}' {
			if inHole && braces == 0 {
				flush(i)
				return i
			}
			braces--
		}
		if isWordChar(c) {
			if isWordChar(lastSig) {
				word += string(c)
			} else {
				word = string(c)
			}
			lastSig = c
		} else if !isJSSpace(c) {
			lastSig, word = c, ""
		}
		i++
	}
	flush(i)
	return i
}

// regexAllowed decides the regex-versus-division ambiguity of '/': a regex
// can only start where an expression is expected.
func regexAllowed(lastSig byte, word string) bool {
	if lastSig == 0 {
		return true
	}
	if isWordChar(lastSig) {
		return regexKeywords[word]
	}
	switch lastSig {
	case ')', ']', '.', '"', '\'', '`':
		return false
	}
	return true
}

// quoted returns the index just past the string literal starting at i.
// An unterminated string stops at the newline so the rest of the file
// still scans.
func (s *scanner) quoted(i int) int {
	src := s.src
	q := src[i]
	j := i + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case q:
			return j + 1
		case '\n':
			return j
		}
		j++
	}
	return j
}

// regex returns the index just past the regex literal starting at i,
// including trailing flags. '/' inside a character class does not end it.
func (s *scanner) regex(i int) int {
	src := s.src
	j := i + 1
	inClass := false
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				j++
				for j < len(src) && isWordChar(src[j]) {
					j++
				}
				return j
			}
		case '\n':
			return j
		}
		j++
	}
	return j
}

// template scans the template literal whose opening backtick sits at i and
// returns the index just past its closing backtick. Hole code is scanned
// recursively, so nested strings, comments and templates inside ${} are
// handled like top-level code.
func (s *scanner) template(i int) int {
	src := s.src
	s.emit(chunk{kind: chunkCode, text: "`"})
	i++
	textStart := i
	sawHole := false
	flushText := func(end int, holeFree bool) {
		if end > textStart || holeFree {
			s.emit(chunk{kind: chunkTemplateText, text: src[textStart:end], holeFree: holeFree})
		}
	}
	for i < len(src) {
		switch {
		case src[i] == '\\':
			i += 2
		case src[i] == '`':
			flushText(i, !sawHole)
			s.emit(chunk{kind: chunkCode, text: "`"})
			return i + 1
		case src[i] == '$' && i+1 < len(src) && src[i+1] == '{':
			flushText(i, false)
			sawHole = true
			s.emit(chunk{kind: chunkCode, text: "${"})
			end := s.code(i+2, true)
			if end < len(src) {
				s.emit(chunk{kind: chunkCode, text: "}"})
				i = end + 1
			} else {
				i = end
			}
			textStart = i
		default:
			i++
		}
	}
	flushText(i, !sawHole)
	return i
}
