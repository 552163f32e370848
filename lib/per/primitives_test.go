package per

import (
	"encoding/asn1"
	"fmt"
	"math"
	"testing"
)

func TestEnumeratedRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		value      uint64
		count      uint64
		extensible bool
	}{
		{"first of four", 0, 4, false},
		{"last of four", 3, 4, false},
		{"within root", 1, 3, true},
		{"beyond root", 5, 3, true},
	}
	for _, aligned := range []bool{true, false} {
		for _, tc := range tests {
			t.Run(fmt.Sprintf("%s_ALIGNED_%v", tc.name, aligned), func(t *testing.T) {
				e := NewEncoder(aligned)
				if err := e.EncodeEnumerated(tc.value, tc.count, tc.extensible); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				got, err := d.DecodeEnumerated(tc.count, tc.extensible)
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got != tc.value {
					t.Errorf("got %d, want %d", got, tc.value)
				}
			})
		}
	}
}

func TestRealRoundTrip(t *testing.T) {
	values := []float64{
		0.0, math.Copysign(0, -1), 1.0, -1.0, 0.5, 3.14159, -2.71828,
		1e10, 1e-10, math.Inf(1), math.Inf(-1), math.NaN(),
	}
	for _, aligned := range []bool{true, false} {
		for _, value := range values {
			t.Run(fmt.Sprintf("VALUE_%v_ALIGNED_%v", value, aligned), func(t *testing.T) {
				e := NewEncoder(aligned)
				if err := e.EncodeReal(value); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				got, err := d.DecodeReal()
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				switch {
				case math.IsNaN(value):
					if !math.IsNaN(got) {
						t.Errorf("got %v, want NaN", got)
					}
				case value == 0:
					if got != 0 || math.Signbit(got) != math.Signbit(value) {
						t.Errorf("got %v (signbit %v), want %v (signbit %v)",
							got, math.Signbit(got), value, math.Signbit(value))
					}
				default:
					if got != value {
						t.Errorf("got %v, want %v", got, value)
					}
				}
			})
		}
	}
}

func TestMakeRealRoundTripsThroughMakeFloat64(t *testing.T) {
	for _, value := range []float64{1.0, -1.0, 0.5, 100.25, -0.125} {
		mantissa, exponent, base := MakeReal(value)
		got := MakeFloat64(mantissa, exponent, base)
		if got != value {
			t.Errorf("MakeFloat64(MakeReal(%v)) = %v, want %v", value, got, value)
		}
	}
}

func TestNullRoundTrip(t *testing.T) {
	for _, aligned := range []bool{true, false} {
		t.Run(fmt.Sprintf("ALIGNED_%v", aligned), func(t *testing.T) {
			e := NewEncoder(aligned)
			if err := e.EncodeNull(); err != nil {
				t.Fatalf("encode: %v", err)
			}
			if len(e.Bytes()) != 0 {
				t.Errorf("EncodeNull() wrote %d bytes, want 0", len(e.Bytes()))
			}
			d := NewDecoder(e.Bytes(), aligned)
			if err := d.DecodeNull(); err != nil {
				t.Fatalf("decode: %v", err)
			}
		})
	}
}

func TestObjectIdentifierRoundTrip(t *testing.T) {
	tests := []asn1.ObjectIdentifier{
		{1, 2, 840, 113549},
		{2, 5, 4, 3},
		{0, 0},
	}
	for _, aligned := range []bool{true, false} {
		for _, oid := range tests {
			t.Run(fmt.Sprintf("%v_ALIGNED_%v", oid, aligned), func(t *testing.T) {
				e := NewEncoder(aligned)
				if err := e.EncodeObjectIdentifier(oid); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				got, err := d.DecodeObjectIdentifier()
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if !got.Equal(oid) {
					t.Errorf("got %v, want %v", got, oid)
				}
			})
		}
	}
}

// TestBitStringWholeValueForm exercises EncodeBitString/DecodeBitString's
// fixed-length non-fragmented bit-field form (clauses 16.9/16.10), as
// distinct from the unconstrained fragmenting path already covered by
// TestBitStringFragmentBoundaries.
func TestBitStringWholeValueForm(t *testing.T) {
	tests := []struct {
		name   string
		bits   int
		lb, ub *uint64
	}{
		{"fixed small (<=16 bits, no alignment)", 12, u64(12), u64(12)},
		{"fixed large (>16 bits, octet-aligned)", 100, u64(100), u64(100)},
	}
	for _, aligned := range []bool{true, false} {
		for _, tc := range tests {
			t.Run(fmt.Sprintf("%s_ALIGNED_%v", tc.name, aligned), func(t *testing.T) {
				raw := make([]byte, (tc.bits+7)/8)
				for i := range raw {
					raw[i] = byte(0xA5 + i)
				}
				value := &asn1.BitString{Bytes: raw, BitLength: tc.bits}
				e := NewEncoder(aligned)
				if err := e.EncodeBitString(value, tc.lb, tc.ub, false); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				got, err := d.DecodeBitString(tc.lb, tc.ub, false)
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got.BitLength != tc.bits {
					t.Fatalf("bit length = %d, want %d", got.BitLength, tc.bits)
				}
			})
		}
	}
}
