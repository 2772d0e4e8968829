package cssrw

import (
	"math/big"
	"strings"
)

// dimension is an exact rational value with an optional unit. The sign is
// carried by the numerator; big.Rat keeps the fraction in lowest terms.
type dimension struct {
	val  *big.Rat
	unit string
}

// calcToken kinds form a tagged-variant stream so the precedence and unit
// rules below stay auditable.
type calcTokenKind int

const (
	calcNumber calcTokenKind = iota
	calcOperator
	calcLParen
	calcRParen
)

type calcToken struct {
	kind calcTokenKind
	op   byte
	val  *big.Rat
	unit string
}

// Functions whose values are unavailable at build time; any occurrence in
// the expression aborts folding.
var calcOpaqueFuncs = []string{"var(", "env(", "min(", "max(", "clamp(", "calc("}

// foldCalc attempts exact static folding of the balanced inner text of a
// calc() expression. It returns the folded literal, or ok=false to abstain.
func foldCalc(inner string) (string, bool) {
	low := asciiLower(inner)
	for _, fn := range calcOpaqueFuncs {
		if strings.Contains(low, fn) {
			return "", false
		}
	}

	toks, ok := lexCalc(inner)
	if !ok {
		return "", false
	}
	p := &calcParser{toks: toks}
	d, ok := p.expr()
	if !ok || p.pos != len(p.toks) {
		return "", false
	}
	return formatDimension(d)
}

func lexCalc(s string) ([]calcToken, bool) {
	var toks []calcToken
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++
		case c == '(':
			toks = append(toks, calcToken{kind: calcLParen})
			i++
		case c == ')':
			toks = append(toks, calcToken{kind: calcRParen})
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, calcToken{kind: calcOperator, op: c})
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
				i++
			}
			// Scientific notation parses exactly: the mantissa is a decimal
			// fraction and the exponent only shifts powers of ten.
			if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
				j := i + 1
				if j < len(s) && (s[j] == '+' || s[j] == '-') {
					j++
				}
				if j < len(s) && s[j] >= '0' && s[j] <= '9' {
					for j < len(s) && s[j] >= '0' && s[j] <= '9' {
						j++
					}
					i = j
				}
			}
			num := s[start:i]
			if strings.HasPrefix(num, ".") {
				num = "0" + num
			}
			if strings.HasSuffix(num, ".") {
				num += "0"
			}
			r, ok := new(big.Rat).SetString(num)
			if !ok {
				return nil, false
			}
			unitStart := i
			for i < len(s) && (s[i] >= 'a' && s[i] <= 'z' || s[i] >= 'A' && s[i] <= 'Z' || s[i] == '%') {
				i++
			}
			toks = append(toks, calcToken{kind: calcNumber, val: r, unit: asciiLower(s[unitStart:i])})
		default:
			return nil, false
		}
	}
	return toks, true
}

// calcParser implements the standard grammar:
//
//	expr   := term (('+'|'-') term)*
//	term   := factor (('*'|'/') factor)*
//	factor := ('+'|'-') factor | '(' expr ')' | number-with-optional-unit
type calcParser struct {
	toks []calcToken
	pos  int
}

func (p *calcParser) peekOp() (byte, bool) {
	if p.pos < len(p.toks) && p.toks[p.pos].kind == calcOperator {
		return p.toks[p.pos].op, true
	}
	return 0, false
}

func (p *calcParser) expr() (dimension, bool) {
	left, ok := p.term()
	if !ok {
		return dimension{}, false
	}
	for {
		op, isOp := p.peekOp()
		if !isOp || (op != '+' && op != '-') {
			return left, true
		}
		p.pos++
		right, ok := p.term()
		if !ok {
			return dimension{}, false
		}
		// Addition and subtraction require identical units.
		if left.unit != right.unit {
			return dimension{}, false
		}
		if op == '+' {
			left.val = new(big.Rat).Add(left.val, right.val)
		} else {
			left.val = new(big.Rat).Sub(left.val, right.val)
		}
	}
}

func (p *calcParser) term() (dimension, bool) {
	left, ok := p.factor()
	if !ok {
		return dimension{}, false
	}
	for {
		op, isOp := p.peekOp()
		if !isOp || (op != '*' && op != '/') {
			return left, true
		}
		p.pos++
		right, ok := p.factor()
		if !ok {
			return dimension{}, false
		}
		if op == '*' {
			// At most one operand may carry a unit.
			if left.unit != "" && right.unit != "" {
				return dimension{}, false
			}
			unit := left.unit
			if unit == "" {
				unit = right.unit
			}
			left = dimension{val: new(big.Rat).Mul(left.val, right.val), unit: unit}
		} else {
			// The divisor must be a unitless, nonzero number.
			if right.unit != "" || right.val.Sign() == 0 {
				return dimension{}, false
			}
			left = dimension{val: new(big.Rat).Quo(left.val, right.val), unit: left.unit}
		}
	}
}

func (p *calcParser) factor() (dimension, bool) {
	if p.pos >= len(p.toks) {
		return dimension{}, false
	}
	t := p.toks[p.pos]
	switch t.kind {
	case calcOperator:
		if t.op != '+' && t.op != '-' {
			return dimension{}, false
		}
		p.pos++
		d, ok := p.factor()
		if !ok {
			return dimension{}, false
		}
		if t.op == '-' {
			d.val = new(big.Rat).Neg(d.val)
		}
		return d, true
	case calcLParen:
		p.pos++
		d, ok := p.expr()
		if !ok {
			return dimension{}, false
		}
		if p.pos >= len(p.toks) || p.toks[p.pos].kind != calcRParen {
			return dimension{}, false
		}
		p.pos++
		return d, true
	case calcNumber:
		p.pos++
		return dimension{val: t.val, unit: t.unit}, true
	}
	return dimension{}, false
}

// formatDimension renders an exact rational dimension as minimal CSS text.
// Only terminating decimal expansions are emitted: the reduced denominator
// must factor into twos and fives alone.
func formatDimension(d dimension) (string, bool) {
	if d.val.Sign() == 0 {
		// Zero renders bare regardless of unit.
		return "0", true
	}

	den := new(big.Int).Set(d.val.Denom())
	two := big.NewInt(2)
	five := big.NewInt(5)
	ten := big.NewInt(10)
	shift := 0
	for {
		q, r := new(big.Int).QuoRem(den, two, new(big.Int))
		if r.Sign() != 0 {
			break
		}
		den = q
		shift++
	}
	fives := 0
	for {
		q, r := new(big.Int).QuoRem(den, five, new(big.Int))
		if r.Sign() != 0 {
			break
		}
		den = q
		fives++
	}
	if den.Cmp(big.NewInt(1)) != 0 {
		return "", false
	}
	if fives > shift {
		shift = fives
	}

	scaled := new(big.Int).Mul(new(big.Int).Abs(d.val.Num()), new(big.Int).Exp(ten, big.NewInt(int64(shift)), nil))
	scaled.Quo(scaled, d.val.Denom())
	digits := scaled.String()
	for len(digits) <= shift {
		digits = "0" + digits
	}

	intPart := digits[:len(digits)-shift]
	fracPart := digits[len(digits)-shift:]
	fracPart = strings.TrimRight(fracPart, "0")

	var b strings.Builder
	if d.val.Sign() < 0 {
		b.WriteByte('-')
	}
	// Pure fractions render without the leading zero integer part.
	if intPart != "0" || fracPart == "" {
		b.WriteString(intPart)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	b.WriteString(d.unit)
	return b.String(), true
}
