package shader

import "strings"

// Minify strips comments and redundant whitespace from shader source and
// shortens float literals. Preprocessor directives keep their own lines.
func Minify(src string) string {
	toks := Tokenize(src)

	// Drop comments and whitespace up front; the writer reinserts the
	// minimum separation the grammar needs.
	var sig []Token
	for _, t := range toks {
		switch t.Kind {
		case KindComment, KindWhitespace:
		case KindNumber:
			sig = append(sig, Token{KindNumber, shortenFloat(t.Text)})
		case KindDirective:
			sig = append(sig, Token{KindDirective, minifyDirective(t.Text)})
		default:
			sig = append(sig, t)
		}
	}

	var b strings.Builder
	b.Grow(len(src))
	for i, t := range sig {
		if t.Kind == KindDirective {
			// A directive ends at a newline, so it must start one too when
			// anything precedes it.
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(t.Text)
			if i+1 < len(sig) {
				b.WriteByte('\n')
			}
			continue
		}
		if i > 0 && needsSeparator(sig[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// needsSeparator reports whether dropping all whitespace between prev and
// next would fuse them into a different token.
func needsSeparator(prev, next Token) bool {
	if prev.Kind == KindDirective {
		return false // the writer already emitted a newline
	}
	p := prev.Text[len(prev.Text)-1]
	n := next.Text[0]
	if isIdentChar(p) && isIdentChar(n) {
		return true
	}
	// "1." + "5" or "a" + ".5" style fusions.
	if (isIdentChar(p) || p == '.') && (isIdentChar(n) || n == '.') && (prev.Kind == KindNumber || next.Kind == KindNumber) {
		return true
	}
	// "-" "-" would become decrement, "+" "+" increment.
	if (p == '-' && n == '-') || (p == '+' && n == '+') {
		return true
	}
	return false
}

// shortenFloat removes redundant digits from a float literal: trailing
// fractional zeros, a lone zero integer part, but never the digits of an
// integer literal.
func shortenFloat(lit string) string {
	dot := strings.IndexByte(lit, '.')
	if dot < 0 || strings.ContainsAny(lit, "eExX") {
		return lit
	}
	// Split off any type suffix.
	end := len(lit)
	for end > dot+1 && !isDigit(lit[end-1]) {
		end--
	}
	num, suffix := lit[:end], lit[end:]

	intPart := num[:dot]
	frac := num[dot+1:]
	frac = strings.TrimRight(frac, "0")
	for len(intPart) > 1 && intPart[0] == '0' {
		intPart = intPart[1:]
	}
	if intPart == "0" && frac != "" {
		intPart = ""
	}
	// "0.0" collapses to "0." rather than a bare dot.
	if intPart == "" && frac == "" {
		intPart = "0"
	}
	return intPart + "." + frac + suffix
}

// minifyDirective collapses internal runs of blanks in a preprocessor line.
// #include arguments are kept verbatim.
func minifyDirective(d string) string {
	rest := strings.TrimLeft(d, "# \t")
	if strings.HasPrefix(rest, "include") {
		return "#" + rest[:len("include")] + strings.TrimRight(rest[len("include"):], " \t")
	}
	fields := strings.Fields(d)
	// Collapsing to one line makes continuation backslashes meaningless.
	kept := fields[:0]
	for _, f := range fields {
		if f != "\\" {
			kept = append(kept, f)
		}
	}
	out := strings.Join(kept, " ")
	// Reattach the name to the hash when TrimLeft separated them.
	if strings.HasPrefix(out, "# ") {
		out = "#" + out[2:]
	}
	return out
}
