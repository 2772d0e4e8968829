package ident

import "sort"

// Alphabets for generated short names. Classes, ids and shader locals must
// begin with a letter, so they draw from letters only. A custom property
// name is whatever follows "--", where digits are legal from the first
// character, so that category trades uppercase for digits.
const (
	alphabetLetters     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphabetLowerDigits = "abcdefghijklmnopqrstuvwxyz0123456789"
)

func alphabetFor(c Category) string {
	if c == CustomProperty {
		return alphabetLowerDigits
	}
	return alphabetLetters
}

// ShortName returns the i-th string of the bijective base-N sequence over
// alphabet: every 1-character string, then every 2-character string, and so
// on, with no gaps and no collisions. Unlike positional base conversion
// there is no zero digit, so "a" and "aa" are distinct entries.
func ShortName(i int, alphabet string) string {
	n := len(alphabet)
	var buf [8]byte
	w := len(buf)
	for i >= 0 {
		w--
		buf[w] = alphabet[i%n]
		i = i/n - 1
	}
	return string(buf[w:])
}

// RenameMap is an injective canonical-name to short-name mapping, computed
// once per pass and immutable afterwards.
type RenameMap map[string]string

// encodedLen measures a name as it appears in source: CSS categories count
// the escaped serialization, shader locals are plain bytes. Custom
// properties serialize after a "--" prefix, where a leading digit needs no
// escape.
func encodedLen(c Category, name string) int {
	switch c {
	case ShaderLocal:
		return len(name)
	case CustomProperty:
		return len(EscapeSuffix(name))
	}
	return len(Escape(name))
}

func eligible(c Category, r *Record) bool {
	switch c {
	case Class, ID:
		// Declared-but-unreferenced names may be constructed dynamically
		// outside static reach; leave them untouched.
		return r.Declared && r.Referenced
	case CustomProperty:
		return r.Declared
	default:
		return true
	}
}

// Allocate produces the rename map for one category from a completed
// harvest. The harvest must already cover the entire corpus: the same
// canonical name receives one consistent short name wherever it occurs.
func (h *Harvest) Allocate(c Category) RenameMap {
	var cands []*Record
	for _, r := range h.tally(c) {
		if eligible(c, r) {
			cands = append(cands, r)
		}
	}

	// Most valuable renames first: usage count, then encoded byte length,
	// with lexical order as the deterministic tiebreak.
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		la, lb := encodedLen(c, a.Name), encodedLen(c, b.Name)
		if la != lb {
			return la > lb
		}
		return a.Name < b.Name
	})

	alphabet := alphabetFor(c)
	m := make(RenameMap, len(cands))
	used := make(map[string]struct{}, len(cands))
	next := 0
	for _, r := range cands {
		var short string
		for {
			short = ShortName(next, alphabet)
			next++
			if _, taken := used[short]; taken {
				continue
			}
			// A short name equal to any real corpus name would shadow it.
			if h.IsReserved(short) {
				continue
			}
			break
		}
		// The counter stays advanced even when the candidate is rejected,
		// so a consumed name is never reused.
		if encodedLen(c, short) >= encodedLen(c, r.Name) {
			continue
		}
		m[r.Name] = short
		used[short] = struct{}{}
	}
	return m
}
