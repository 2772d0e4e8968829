// Package ident harvests renameable identifiers across a build output tree
// and allocates collision-free shorter names ranked by usage.
//
// All state is scoped to a single optimization pass: a Harvest accumulates
// per-category tallies plus a corpus-wide reserved-name set while files are
// scanned, and Allocate turns a completed Harvest into frozen rename maps.
// Nothing here is module-level mutable state; callers thread the Harvest
// through explicitly so the engine stays pure and testable per pass.
package ident

// Category identifies one renameable identifier namespace.
type Category int

const (
	// CustomProperty is a CSS custom property; the canonical name excludes
	// the leading "--".
	CustomProperty Category = iota
	// Class is a CSS class selector / class attribute token.
	Class
	// ID is a CSS id selector / id attribute token.
	ID
	// ShaderLocal is an identifier local to a single GLSL source.
	ShaderLocal
)

// String returns the category name used in reports and tests.
func (c Category) String() string {
	switch c {
	case CustomProperty:
		return "customProperty"
	case Class:
		return "class"
	case ID:
		return "id"
	case ShaderLocal:
		return "shaderLocal"
	}
	return "unknown"
}

// Record tracks one canonical identifier within a pass.
type Record struct {
	// Name is the unescaped, decoded form used as the map key.
	Name string
	// RawForms holds every literal spelling seen in source. Different escape
	// sequences for the same character all decode to one canonical name.
	RawForms map[string]struct{}
	// Count is the total number of occurrences across the corpus.
	Count int
	// Declared marks the defining site: a CSS selector for classes and ids,
	// a custom property declaration for variables.
	Declared bool
	// Referenced marks a use outside the CSS declaration: an HTML attribute
	// token or a JS string/template token list.
	Referenced bool
}

// Tally accumulates records for one category.
type Tally map[string]*Record

func (t Tally) record(name, raw string, n int) *Record {
	r, ok := t[name]
	if !ok {
		r = &Record{Name: name, RawForms: make(map[string]struct{})}
		t[name] = r
	}
	if raw != "" {
		r.RawForms[raw] = struct{}{}
	}
	r.Count += n
	return r
}

// Harvest aggregates identifier occurrences across the whole corpus for a
// single pass. Merge is commutative, so per-file harvests may be combined
// in any order.
type Harvest struct {
	tallies  map[Category]Tally
	reserved map[string]struct{}
}

// NewHarvest returns an empty harvest.
func NewHarvest() *Harvest {
	return &Harvest{
		tallies:  make(map[Category]Tally),
		reserved: make(map[string]struct{}),
	}
}

func (h *Harvest) tally(c Category) Tally {
	t, ok := h.tallies[c]
	if !ok {
		t = make(Tally)
		h.tallies[c] = t
	}
	return t
}

// Reserve marks a name as occurring verbatim somewhere in the corpus.
// No generated short name may equal a reserved name.
func (h *Harvest) Reserve(name string) {
	if name != "" {
		h.reserved[name] = struct{}{}
	}
}

// IsReserved reports whether name occurs verbatim in the corpus.
func (h *Harvest) IsReserved(name string) bool {
	_, ok := h.reserved[name]
	return ok
}

// Note records one occurrence of name in category c. raw is the literal
// spelling found in source ("" when identical to the canonical name).
func (h *Harvest) Note(c Category, name, raw string) {
	h.tally(c).record(name, raw, 1)
	h.Reserve(name)
}

// NoteDeclared records an occurrence at the identifier's defining site.
func (h *Harvest) NoteDeclared(c Category, name, raw string) {
	h.tally(c).record(name, raw, 1).Declared = true
	h.Reserve(name)
}

// NoteReferenced records an occurrence outside the CSS declaration.
func (h *Harvest) NoteReferenced(c Category, name, raw string) {
	h.tally(c).record(name, raw, 1).Referenced = true
	h.Reserve(name)
}

// IsDeclared reports whether name has a recorded declaration in category c.
// Reference harvesting uses this to tell identifier token lists apart from
// ordinary prose, so declarations must be merged in first.
func (h *Harvest) IsDeclared(c Category, name string) bool {
	r, ok := h.tally(c)[name]
	return ok && r.Declared
}

// Count returns the occurrence count for name in category c.
func (h *Harvest) Count(c Category, name string) int {
	if r, ok := h.tally(c)[name]; ok {
		return r.Count
	}
	return 0
}

// Merge folds other into h. Counts add and flag/set unions commute, so the
// final harvest does not depend on per-file ordering.
func (h *Harvest) Merge(other *Harvest) {
	for c, t := range other.tallies {
		dst := h.tally(c)
		for name, r := range t {
			merged := dst.record(name, "", r.Count)
			for raw := range r.RawForms {
				merged.RawForms[raw] = struct{}{}
			}
			merged.Declared = merged.Declared || r.Declared
			merged.Referenced = merged.Referenced || r.Referenced
		}
	}
	for name := range other.reserved {
		h.reserved[name] = struct{}{}
	}
}
