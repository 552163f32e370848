package oer

import (
	"math/big"
	"testing"
)

func TestLengthRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 127, 128, 255, 256, 65535, 70000} {
		encoded := EncodeLength(n)
		got, consumed, err := DecodeLength(encoded, OER)
		if err != nil {
			t.Fatalf("decode(%d): %v", n, err)
		}
		if consumed != len(encoded) {
			t.Errorf("consumed %d, want %d", consumed, len(encoded))
		}
		if got != n {
			t.Errorf("got %d, want %d", got, n)
		}
	}
}

func TestBooleanRoundTrip(t *testing.T) {
	for _, c := range []Canonical{OER, COER} {
		for _, value := range []bool{true, false} {
			encoded := EncodeBoolean(value)
			got, consumed, err := DecodeBoolean(encoded, c)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if consumed != 1 {
				t.Errorf("consumed %d, want 1", consumed)
			}
			if got != value {
				t.Errorf("got %v, want %v", got, value)
			}
		}
	}
}

func TestUnconstrainedIntegerRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, 128, -128, -129, 1000000, -1000000}
	for _, c := range []Canonical{OER, COER} {
		for _, v := range values {
			value := big.NewInt(v)
			encoded := EncodeUnconstrainedInteger(value)
			got, consumed, err := DecodeUnconstrainedInteger(encoded, c)
			if err != nil {
				t.Fatalf("decode(%d): %v", v, err)
			}
			if consumed != len(encoded) {
				t.Errorf("consumed %d, want %d", consumed, len(encoded))
			}
			if got.Cmp(value) != 0 {
				t.Errorf("got %v, want %v", got, value)
			}
		}
	}
}

func TestFixedIntegerRoundTrip(t *testing.T) {
	tests := []struct {
		value    int64
		numBytes int
	}{
		{0, 1}, {127, 1}, {-128, 1}, {300, 2}, {-300, 2}, {100000, 4}, {-100000, 4},
	}
	for _, c := range []Canonical{OER, COER} {
		for _, tc := range tests {
			encoded := EncodeFixedInteger(tc.value, tc.numBytes)
			if len(encoded) != tc.numBytes {
				t.Fatalf("encoded length %d, want %d", len(encoded), tc.numBytes)
			}
			got, consumed, err := DecodeFixedInteger(encoded, tc.numBytes, c)
			if err != nil {
				t.Fatalf("decode(%d): %v", tc.value, err)
			}
			if consumed != tc.numBytes {
				t.Errorf("consumed %d, want %d", consumed, tc.numBytes)
			}
			if got != tc.value {
				t.Errorf("got %d, want %d", got, tc.value)
			}
		}
	}
}

func TestOctetStringRoundTrip(t *testing.T) {
	for _, c := range []Canonical{OER, COER} {
		for _, value := range [][]byte{[]byte("hello"), {}, make([]byte, 300)} {
			encoded := EncodeOctetString(value)
			got, consumed, err := DecodeOctetString(encoded, c)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if consumed != len(encoded) {
				t.Errorf("consumed %d, want %d", consumed, len(encoded))
			}
			if string(got) != string(value) {
				t.Errorf("got %d bytes, want %d", len(got), len(value))
			}
		}
	}
}
