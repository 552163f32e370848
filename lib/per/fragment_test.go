package per

import (
	"bytes"
	"encoding/asn1"
	"fmt"
	"testing"

	"github.com/thebagchi/asn1codec/lib/constraints"
)

// Exact fragment boundaries per clause 11.9.3.8: FRAGMENT_SIZE multiples
// 1x/2x/3x/4x (16384/32768/49152/65536) are the one case where the
// remaining count after a fragment header is zero. A terminating
// non-fragment determinant (possibly zero-length) must still follow.
var fragmentBoundaries = []int{16384, 32768, 49152, 65536}

func TestOctetStringFragmentBoundaries(t *testing.T) {
	for _, aligned := range []bool{true, false} {
		for _, n := range fragmentBoundaries {
			t.Run(fmt.Sprintf("N_%d_ALIGNED_%v", n, aligned), func(t *testing.T) {
				value := make([]byte, n)
				for i := range value {
					value[i] = byte(i)
				}
				e := NewEncoder(aligned)
				if err := e.EncodeOctetString(value, nil, nil, false); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				got, err := d.DecodeOctetString(nil, nil, false)
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if !bytes.Equal(got, value) {
					t.Fatalf("got %d bytes, want %d", len(got), len(value))
				}
				if len(d.Remainder()) != 0 {
					t.Errorf("unconsumed trailing bytes: %d", len(d.Remainder()))
				}
			})
		}
	}
}

func TestBitStringFragmentBoundaries(t *testing.T) {
	for _, aligned := range []bool{true, false} {
		for _, n := range fragmentBoundaries {
			t.Run(fmt.Sprintf("N_%d_ALIGNED_%v", n, aligned), func(t *testing.T) {
				bytesLen := (n + 7) / 8
				raw := make([]byte, bytesLen)
				for i := range raw {
					raw[i] = byte(i)
				}
				value := &asn1.BitString{Bytes: raw, BitLength: n}
				e := NewEncoder(aligned)
				if err := e.EncodeBitString(value, nil, nil, false); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				got, err := d.DecodeBitString(nil, nil, false)
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got.BitLength != n {
					t.Fatalf("bit length = %d, want %d", got.BitLength, n)
				}
				if !bytes.Equal(got.Bytes, raw) {
					t.Fatalf("got %d bytes, want %d", len(got.Bytes), len(raw))
				}
			})
		}
	}
}

func TestKnownMultiplierStringFragmentBoundaries(t *testing.T) {
	for _, aligned := range []bool{true, false} {
		for _, n := range []int{16384, 32768} {
			t.Run(fmt.Sprintf("N_%d_ALIGNED_%v", n, aligned), func(t *testing.T) {
				runes := make([]byte, n)
				for i := range runes {
					runes[i] = byte('A' + i%26)
				}
				value := string(runes)
				e := NewEncoder(aligned)
				if err := e.EncodeKnownMultiplierString(value, KindIA5String, constraints.Set{}); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				got, err := d.DecodeKnownMultiplierString(KindIA5String, constraints.Set{})
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got != value {
					t.Fatalf("got %d chars, want %d", len(got), len(value))
				}
			})
		}
	}
}

func TestSequenceOfFragmentBoundaries(t *testing.T) {
	for _, aligned := range []bool{true, false} {
		for _, n := range []int{16384, 32768} {
			t.Run(fmt.Sprintf("N_%d_ALIGNED_%v", n, aligned), func(t *testing.T) {
				values := make([]int64, n)
				for i := range values {
					values[i] = int64(i)
				}
				e := NewEncoder(aligned)
				err := e.EncodeSequenceOf(n, nil, nil, false, func(i int) error {
					return e.EncodeInteger(values[i], nil, nil, false)
				})
				if err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				count := 0
				got, err := d.DecodeSequenceOf(nil, nil, false, func(i int) error {
					v, err := d.DecodeUnconstrainedWholeNumber()
					if err != nil {
						return err
					}
					if v != values[i] {
						t.Errorf("element %d = %d, want %d", i, v, values[i])
					}
					count++
					return nil
				})
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got != n {
					t.Fatalf("decoded %d elements, want %d", got, n)
				}
				if count != n {
					t.Fatalf("callback invoked %d times, want %d", count, n)
				}
			})
		}
	}
}
