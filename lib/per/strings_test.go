package per

import (
	"encoding/hex"
	"testing"

	"github.com/thebagchi/asn1codec/lib/constraints"
)

// Vectors taken from the fixed-width known-multiplier string examples:
// an unconstrained VisibleString writes the raw ASCII code point of each
// character, not its index into the 95-character visible alphabet.
func TestEncodeKnownMultiplierStringVectors(t *testing.T) {
	tests := []struct {
		name    string
		aligned bool
		kind    StringKind
		value   string
		output  string
	}{
		{"aligned visible john", true, KindVisibleString, "John", "04 4A 6F 68 6E"},
		{"unaligned visible john", false, KindVisibleString, "John", "04 95 BF 46 E0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEncoder(tc.aligned)
			if err := e.EncodeKnownMultiplierString(tc.value, tc.kind, constraints.Set{}); err != nil {
				t.Fatalf("encode: %v", err)
			}
			expected, err := hex.DecodeString(stripSpaces(tc.output))
			if err != nil {
				t.Fatalf("bad hex fixture: %v", err)
			}
			result := e.Bytes()
			if hex.EncodeToString(result) != hex.EncodeToString(expected) {
				t.Errorf("got % X, want % X", result, expected)
			}
		})
	}
}

func stripSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r != ' ' {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

func TestKnownMultiplierStringRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		kind  StringKind
		value string
		cs    constraints.Set
	}{
		{"ia5 unconstrained", KindIA5String, "hello world", constraints.Set{}},
		{"visible unconstrained", KindVisibleString, "John", constraints.Set{}},
		{"printable unconstrained", KindPrintableString, "ABC-123", constraints.Set{}},
		{"numeric", KindNumericString, "0123456789", constraints.Set{}},
		{"empty string", KindIA5String, "", constraints.Set{}},
		{"visible with permitted alphabet", KindVisibleString, "ABC", constraints.Set{
			PermittedAlphabet: constraints.Alphabet([]rune("ABCDEFGH")),
		}},
	}
	for _, aligned := range []bool{true, false} {
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				e := NewEncoder(aligned)
				if err := e.EncodeKnownMultiplierString(tc.value, tc.kind, tc.cs); err != nil {
					t.Fatalf("encode: %v", err)
				}
				d := NewDecoder(e.Bytes(), aligned)
				got, err := d.DecodeKnownMultiplierString(tc.kind, tc.cs)
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if got != tc.value {
					t.Errorf("got %q, want %q", got, tc.value)
				}
			})
		}
	}
}

func TestEncodeKnownMultiplierStringUnimplementedKind(t *testing.T) {
	e := NewEncoder(true)
	err := e.EncodeKnownMultiplierString("x", KindBMPString, constraints.Set{})
	if err == nil {
		t.Fatal("expected an error for an unimplemented string kind")
	}
}
