// Package shader mangles and minifies GLSL source found in untagged JS
// template literals. Each shader is self-contained: harvesting, allocation
// and rewriting all happen within one template body, seeded with every
// identifier the shader mentions so generated names never shadow anything.
package shader

import "strings"

// Kind tags a shader token.
type Kind int

const (
	// KindIdent is an identifier or keyword.
	KindIdent Kind = iota
	// KindNumber is an integer or float literal.
	KindNumber
	// KindOperator is any single punctuation character.
	KindOperator
	// KindComment is a line or block comment.
	KindComment
	// KindWhitespace is a run of blanks and newlines.
	KindWhitespace
	// KindDirective is a whole preprocessor line, excluding the newline.
	KindDirective
)

// Token is one lexical element of a shader source.
type Token struct {
	Kind Kind
	Text string
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Tokenize splits GLSL-like source into a lossless token stream:
// concatenating the token texts reproduces the input.
func Tokenize(src string) []Token {
	var toks []Token
	atLineStart := true
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isSpace(c):
			j := i
			for j < len(src) && isSpace(src[j]) {
				j++
			}
			toks = append(toks, Token{KindWhitespace, src[i:j]})
			if strings.ContainsRune(src[i:j], '\n') {
				atLineStart = true
			}
			i = j
			continue

		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}
			toks = append(toks, Token{KindComment, src[i:j]})
			i = j

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			j := strings.Index(src[i+2:], "*/")
			if j < 0 {
				toks = append(toks, Token{KindComment, src[i:]})
				i = len(src)
			} else {
				end := i + 2 + j + 2
				toks = append(toks, Token{KindComment, src[i:end]})
				i = end
			}

		case c == '#' && atLineStart:
			j := i
			for j < len(src) {
				if src[j] == '\n' {
					// Backslash continuations keep the directive going.
					k := j - 1
					for k >= i && src[k] == '\r' {
						k--
					}
					if k >= i && src[k] == '\\' {
						j++
						continue
					}
					break
				}
				j++
			}
			toks = append(toks, Token{KindDirective, src[i:j]})
			i = j

		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentChar(src[j]) {
				j++
			}
			toks = append(toks, Token{KindIdent, src[i:j]})
			i = j

		case isDigit(c) || c == '.' && i+1 < len(src) && isDigit(src[i+1]):
			toks = append(toks, Token{KindNumber, scanNumber(src, &i)})

		default:
			toks = append(toks, Token{KindOperator, src[i : i+1]})
			i++
		}
		atLineStart = false
	}
	return toks
}

func scanNumber(src string, i *int) string {
	start := *i
	j := *i
	if src[j] == '0' && j+1 < len(src) && (src[j+1] == 'x' || src[j+1] == 'X') {
		j += 2
		for j < len(src) && (isDigit(src[j]) || src[j] >= 'a' && src[j] <= 'f' || src[j] >= 'A' && src[j] <= 'F') {
			j++
		}
	} else {
		for j < len(src) && (isDigit(src[j]) || src[j] == '.') {
			j++
		}
		if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
			k := j + 1
			if k < len(src) && (src[k] == '+' || src[k] == '-') {
				k++
			}
			if k < len(src) && isDigit(src[k]) {
				for k < len(src) && isDigit(src[k]) {
					k++
				}
				j = k
			}
		}
	}
	// Type suffixes: f, F, u, U, lf, LF.
	for j < len(src) && (src[j] == 'f' || src[j] == 'F' || src[j] == 'u' || src[j] == 'U' || src[j] == 'l' || src[j] == 'L') {
		j++
	}
	*i = j
	return src[start:j]
}
