package per

import (
	"fmt"
	"testing"
)

// dref dereferences a pointer and returns its string representation.
// If the pointer is nil, returns "NIL".
func dref[T any](ptr *T) string {
	if ptr == nil {
		return "NIL"
	}
	return fmt.Sprintf("%v", *ptr)
}

func i64(v int64) *int64 { return &v }

func TestWriteBool(t *testing.T) {
	tests := []struct {
		input   bool
		aligned bool
		output  []byte
	}{
		{true, true, []byte{0x80}},
		{false, true, []byte{0x00}},
		{true, false, []byte{0x80}},
		{false, false, []byte{0x00}},
	}
	for _, tc := range tests {
		name := fmt.Sprintf("VALUE_%v_ALIGNED_%v", tc.input, tc.aligned)
		t.Run(name, func(t *testing.T) {
			encoder := NewEncoder(tc.aligned)
			if err := encoder.EncodeBoolean(tc.input); err != nil {
				t.Fatalf("EncodeBoolean() error = %v", err)
			}
			result := encoder.Bytes()
			if len(result) != len(tc.output) {
				t.Fatalf("EncodeBoolean() returned %d bytes, expected %d", len(result), len(tc.output))
			}
			for i := range result {
				if result[i] != tc.output[i] {
					t.Errorf("EncodeBoolean() at position %d = %02x, expected %02x", i, result[i], tc.output[i])
				}
			}
		})
	}
}

func TestWriteInteger(t *testing.T) {
	tests := []struct {
		value      int64
		lb, ub     *int64
		extensible bool
		aligned    bool
		output     []byte
	}{
		// Unconstrained 4096: X.691 clause 13 (11.8) whole-number encoding with a
		// length determinant, byte-oriented regardless of PER variant.
		{value: 4096, aligned: false, output: []byte{0x02, 0x10, 0x00}},
		// Fully constrained small range fits in a single octet/bit field.
		{value: 5, lb: i64(0), ub: i64(15), aligned: true, output: []byte{0x50}},
		{value: 5, lb: i64(0), ub: i64(15), aligned: false, output: []byte{0x50}},
	}
	for _, tc := range tests {
		name := fmt.Sprintf("VALUE_%d_LB_%s_UB_%s_ALIGNED_%v", tc.value, dref(tc.lb), dref(tc.ub), tc.aligned)
		t.Run(name, func(t *testing.T) {
			encoder := NewEncoder(tc.aligned)
			if err := encoder.EncodeInteger(tc.value, tc.lb, tc.ub, tc.extensible); err != nil {
				t.Fatalf("EncodeInteger() error = %v", err)
			}
			result := encoder.Bytes()
			if len(result) != len(tc.output) {
				t.Fatalf("EncodeInteger() returned %d bytes (%x), expected %d (%x)",
					len(result), result, len(tc.output), tc.output)
			}
			for i := range result {
				if result[i] != tc.output[i] {
					t.Errorf("EncodeInteger() at position %d = %02x, expected %02x", i, result[i], tc.output[i])
				}
			}
		})
	}
}
