// Package constraints models the PER-visible constraint set attached to an
// ASN.1 type or field: value range, size range, permitted alphabet, and
// extensibility. It is consumed by lib/per to choose an encoding strategy
// and is never mutated once built.
package constraints

// Range is a bound on an integer value or an element count. A nil Lo or Hi
// means that bound is absent (MIN or MAX in ASN.1 notation).
type Range struct {
	Lo *int64
	Hi *int64
}

// Fixed reports whether the range admits exactly one value.
func (r *Range) Fixed() bool {
	return r != nil && r.Lo != nil && r.Hi != nil && *r.Lo == *r.Hi
}

// Bounded reports whether both bounds are present.
func (r *Range) Bounded() bool {
	return r != nil && r.Lo != nil && r.Hi != nil
}

// SemiConstrained reports whether only the lower bound is present.
func (r *Range) SemiConstrained() bool {
	return r != nil && r.Lo != nil && r.Hi == nil
}

// Count returns hi-lo+1 for a bounded range. Callers must check Bounded first.
func (r *Range) Count() int64 {
	return *r.Hi - *r.Lo + 1
}

// Value builds a single-value range (lo == hi == v).
func Value(v int64) *Range {
	return &Range{Lo: &v, Hi: &v}
}

// Bounds builds a fully bounded range.
func Bounds(lo, hi int64) *Range {
	return &Range{Lo: &lo, Hi: &hi}
}

// AtLeast builds a semi-constrained range (lower bound only).
func AtLeast(lo int64) *Range {
	return &Range{Lo: &lo}
}

// Alphabet is an ordered set of permitted code points for a known-multiplier
// character string type (IA5, Visible, Printable, Numeric, BMP, Universal).
// A nil or empty Alphabet means "the type's entire native alphabet".
type Alphabet []rune

// Index returns the position of r within the alphabet and whether it was
// found. Callers only use this when len(a) > 0.
func (a Alphabet) Index(r rune) (int, bool) {
	for i, c := range a {
		if c == r {
			return i, true
		}
	}
	return 0, false
}

// Set is the constraint descriptor carried by-value into every codec call.
// Any of its fields may be nil/zero, meaning that dimension is unconstrained.
type Set struct {
	Value             *Range
	ValueExtensible   bool
	Size              *Range
	SizeExtensible    bool
	PermittedAlphabet Alphabet
}

// Extensible reports whether any dimension of the constraint is extensible.
func (s Set) Extensible() bool {
	return s.ValueExtensible || s.SizeExtensible
}

// None is the empty/unconstrained constraint set.
var None = Set{}
