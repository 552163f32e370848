package per

import (
	"reflect"
	"testing"

	"github.com/thebagchi/asn1codec/lib/tags"
)

func TestSequencePreambleRoundTrip(t *testing.T) {
	tests := []struct {
		name            string
		extensible      bool
		extensionPres   bool
		optionalPresent []bool
	}{
		{"no optionals no extension", false, false, nil},
		{"two optionals none present", false, false, []bool{false, false}},
		{"two optionals one present", false, false, []bool{true, false}},
		{"extensible with extension", true, true, []bool{true, true, false}},
		{"extensible without extension", true, false, []bool{false}},
	}
	for _, aligned := range []bool{true, false} {
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				e := NewEncoder(aligned)
				if err := e.EncodeSequencePreamble(tc.extensible, tc.extensionPres, tc.optionalPresent); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				gotExt, gotPresent, err := d.DecodeSequencePreamble(tc.extensible, len(tc.optionalPresent))
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if tc.extensible && gotExt != tc.extensionPres {
					t.Errorf("extension present = %v, want %v", gotExt, tc.extensionPres)
				}
				if len(tc.optionalPresent) > 0 && !reflect.DeepEqual(gotPresent, tc.optionalPresent) {
					t.Errorf("optional present = %v, want %v", gotPresent, tc.optionalPresent)
				}
			})
		}
	}
}

func TestExtensionPreambleRoundTrip(t *testing.T) {
	present := []bool{true, false, true, true, false}
	for _, aligned := range []bool{true, false} {
		e := NewEncoder(aligned)
		if err := e.EncodeExtensionPreamble(present); err != nil {
			t.Fatalf("encode: %v", err)
		}
		d := NewDecoder(e.Bytes(), aligned)
		got, err := d.DecodeExtensionPreamble()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, present) {
			t.Errorf("got %v, want %v", got, present)
		}
	}
}

func TestOpenTypeRoundTrip(t *testing.T) {
	for _, aligned := range []bool{true, false} {
		e := NewEncoder(aligned)
		if err := e.EncodeOpenType(func(sub *Encoder) error {
			return sub.EncodeInteger(42, nil, nil, false)
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
		d := NewDecoder(e.Bytes(), aligned)
		var got int64
		if err := d.DecodeOpenType(func(sub *Decoder) error {
			v, err := sub.DecodeUnconstrainedWholeNumber()
			got = v
			return err
		}); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != 42 {
			t.Errorf("got %d, want 42", got)
		}
	}
}

func TestChoiceIndexRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		rootCount  int
		extensible bool
		extended   bool
	}{
		{"single root alternative", 0, 1, false, false},
		{"root alternative among several", 2, 5, false, false},
		{"extensible root choice", 1, 3, true, false},
		{"extensible extension choice", 7, 3, true, true},
	}
	for _, aligned := range []bool{true, false} {
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				e := NewEncoder(aligned)
				if err := e.EncodeChoiceIndex(tc.index, tc.rootCount, tc.extensible, tc.extended); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				idx, ext, err := d.DecodeChoiceIndex(tc.rootCount, tc.extensible)
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if idx != tc.index {
					t.Errorf("index = %d, want %d", idx, tc.index)
				}
				if ext != tc.extended {
					t.Errorf("extended = %v, want %v", ext, tc.extended)
				}
			})
		}
	}
}

func TestSequenceOfRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		lb, ub  *uint64
		extensi bool
	}{
		{"fixed small count", 8, u64(8), u64(8), false},
		{"bounded variable count", 3, u64(0), u64(10), false},
		{"unconstrained", 5, nil, nil, false},
		{"extensible within root", 4, u64(0), u64(10), true},
		{"extensible beyond root", 20, u64(0), u64(10), true},
		{"large fragmented", 70000, nil, nil, false},
	}
	for _, aligned := range []bool{true, false} {
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				e := NewEncoder(aligned)
				values := make([]int64, tc.count)
				for i := range values {
					values[i] = int64(i)
				}
				err := e.EncodeSequenceOf(tc.count, tc.lb, tc.ub, tc.extensi, func(i int) error {
					return e.EncodeInteger(values[i], nil, nil, false)
				})
				if err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				var got []int64
				n, err := d.DecodeSequenceOf(tc.lb, tc.ub, tc.extensi, func(i int) error {
					v, err := d.DecodeUnconstrainedWholeNumber()
					if err != nil {
						return err
					}
					got = append(got, v)
					return nil
				})
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if n != tc.count {
					t.Fatalf("decoded %d elements, want %d", n, tc.count)
				}
				for i, v := range got {
					if v != values[i] {
						t.Errorf("element %d = %d, want %d", i, v, values[i])
					}
				}
			})
		}
	}
}

// TestSetPreambleCanonicalOrder verifies that a SET's fields, declared out
// of tag order, get reordered onto the wire in ascending tag order and
// restored to declaration order on decode.
func TestSetPreambleCanonicalOrder(t *testing.T) {
	// Declaration order: field 0 has the highest tag, field 2 the lowest.
	fields := []tags.Field{
		{Name: "c", Tag: tags.Tag{Class: tags.ContextSpecific, Number: 2}, Presence: tags.Required},
		{Name: "b", Tag: tags.Tag{Class: tags.ContextSpecific, Number: 1}, Presence: tags.Optional},
		{Name: "a", Tag: tags.Tag{Class: tags.ContextSpecific, Number: 0}, Presence: tags.Optional},
	}
	// Optional fields in declaration order: b (present), a (absent).
	optionalPresent := []bool{true, false}

	for _, aligned := range []bool{true, false} {
		e := NewEncoder(aligned)
		order, err := e.EncodeSetPreamble(false, false, fields, optionalPresent)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		wantOrder := []int{2, 1, 0}
		if !reflect.DeepEqual(order, wantOrder) {
			t.Fatalf("order = %v, want %v", order, wantOrder)
		}

		d := NewDecoder(e.Bytes(), aligned)
		_, canonicalPresent, gotOrder, inverse, err := d.DecodeSetPreamble(false, fields, len(optionalPresent))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(gotOrder, wantOrder) {
			t.Fatalf("decoded order = %v, want %v", gotOrder, wantOrder)
		}
		// Canonical order is a(absent), b(present): reversed from declaration.
		if !reflect.DeepEqual(canonicalPresent, []bool{false, true}) {
			t.Fatalf("canonical present = %v, want [false true]", canonicalPresent)
		}
		for i, fieldIdx := range gotOrder {
			if inverse[fieldIdx] != i {
				t.Errorf("inverse[%d] = %d, want %d", fieldIdx, inverse[fieldIdx], i)
			}
		}
	}
}
