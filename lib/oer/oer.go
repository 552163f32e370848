// Package oer implements the narrow slice of the Octet Encoding Rules
// (ISO/IEC 8825-7) this module needs as an external collaborator to the
// PER core in lib/per: BOOLEAN, INTEGER and OCTET STRING, always
// octet-aligned and with their own length-determinant form. OER/COER are
// intentionally not derived from lib/per's bit-level codec: spec.md's
// non-goals explicitly exclude OER/PER canonical equivalence, and OER's
// length determinant is always an integral number of octets, never a
// bit-packed value, so sharing lib/per's bit-level machinery would not
// save code and would blur a real difference between the two encodings.
package oer

import (
	"math/big"

	"github.com/thebagchi/asn1codec/lib/codecerr"
)

// Canonical selects COER (true) over plain OER (false). The two differ
// only in how much latitude an encoder has in choosing among valid
// encodings of the same value; COER mandates the single canonical one.
// This package always produces the canonical form, so Canonical currently
// only affects error-codec tagging; it is threaded through so a future
// relaxed-OER encoder has a place to branch from.
type Canonical bool

const (
	OER  Canonical = false
	COER Canonical = true
)

func (c Canonical) codec() codecerr.Codec {
	if c {
		return codecerr.COER
	}
	return codecerr.OER
}

// EncodeLength encodes an OER length determinant (clause 8.x): a single
// octet for n < 128, or a long form consisting of a count-of-length-octets
// byte (high bit set) followed by the big-endian length.
func EncodeLength(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var lenBytes []byte
	for n > 0 {
		lenBytes = append([]byte{byte(n & 0xFF)}, lenBytes...)
		n >>= 8
	}
	return append([]byte{byte(0x80 | len(lenBytes))}, lenBytes...)
}

// DecodeLength decodes an OER length determinant and returns the length
// and the number of bytes the determinant itself occupied.
func DecodeLength(data []byte, c Canonical) (n int, consumed int, err error) {
	if len(data) == 0 {
		return 0, 0, codecerr.IncompleteErr(c.codec(), 1)
	}
	first := data[0]
	if first&0x80 == 0 {
		return int(first), 1, nil
	}
	numLenBytes := int(first &^ 0x80)
	if numLenBytes == 0 || len(data) < 1+numLenBytes {
		return 0, 0, codecerr.IncompleteErr(c.codec(), int64(1+numLenBytes-len(data)))
	}
	length := 0
	for _, b := range data[1 : 1+numLenBytes] {
		length = (length << 8) | int(b)
	}
	return length, 1 + numLenBytes, nil
}

// EncodeBoolean encodes a BOOLEAN as a single octet: 0xFF for true, 0x00
// for false (clause 8.8).
func EncodeBoolean(value bool) []byte {
	if value {
		return []byte{0xFF}
	}
	return []byte{0x00}
}

// DecodeBoolean decodes a BOOLEAN octet.
func DecodeBoolean(data []byte, c Canonical) (bool, int, error) {
	if len(data) == 0 {
		return false, 0, codecerr.IncompleteErr(c.codec(), 1)
	}
	return data[0] != 0x00, 1, nil
}

// EncodeUnconstrainedInteger encodes an INTEGER with no PER-visible
// constraint as a length-prefixed minimal-length two's-complement value
// (clause 9.x), mirroring lib/ber.EncodeInteger's minimal-length form but
// with an OER length determinant instead of a BER one.
func EncodeUnconstrainedInteger(value *big.Int) []byte {
	content := minimalTwosComplement(value)
	return append(EncodeLength(len(content)), content...)
}

func minimalTwosComplement(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0x00}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}
		return b
	}
	bitLen := new(big.Int).Not(v).BitLen()
	numBytes := bitLen/8 + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(numBytes*8))
	twos := new(big.Int).Add(v, mod)
	b := twos.Bytes()
	for len(b) < numBytes {
		b = append([]byte{0x00}, b...)
	}
	return b[len(b)-numBytes:]
}

// DecodeUnconstrainedInteger decodes the form EncodeUnconstrainedInteger
// produces and returns the value and the number of bytes consumed.
func DecodeUnconstrainedInteger(data []byte, c Canonical) (*big.Int, int, error) {
	length, lenConsumed, err := DecodeLength(data, c)
	if err != nil {
		return nil, 0, err
	}
	if lenConsumed+length > len(data) {
		return nil, 0, codecerr.IncompleteErr(c.codec(), int64(lenConsumed+length-len(data)))
	}
	content := data[lenConsumed : lenConsumed+length]
	if length == 0 {
		return nil, 0, codecerr.New(c.codec(), codecerr.InvalidLength)
	}
	result := new(big.Int)
	if content[0]&0x80 == 0 {
		result.SetBytes(content)
	} else {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(length*8))
		raw := new(big.Int).SetBytes(content)
		result.Sub(raw, mod)
	}
	return result, lenConsumed + length, nil
}

// EncodeFixedInteger encodes an INTEGER whose PER-visible constraint
// bounds its value to fit exactly numBytes octets, with no length
// determinant (clause 9.x "range is known"): a fixed-width two's-complement
// big-endian value.
func EncodeFixedInteger(value int64, numBytes int) []byte {
	out := make([]byte, numBytes)
	v := uint64(value)
	for i := numBytes - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// DecodeFixedInteger decodes the form EncodeFixedInteger produces.
func DecodeFixedInteger(data []byte, numBytes int, c Canonical) (int64, int, error) {
	if len(data) < numBytes {
		return 0, 0, codecerr.IncompleteErr(c.codec(), int64(numBytes-len(data)))
	}
	var v uint64
	for _, b := range data[:numBytes] {
		v = (v << 8) | uint64(b)
	}
	shift := 64 - numBytes*8
	if shift > 0 && shift < 64 {
		return int64(v<<shift) >> shift, numBytes, nil
	}
	return int64(v), numBytes, nil
}

// EncodeOctetString encodes an unconstrained-length OCTET STRING as a
// length-prefixed byte string (clause 10.x).
func EncodeOctetString(value []byte) []byte {
	return append(EncodeLength(len(value)), value...)
}

// DecodeOctetString decodes the form EncodeOctetString produces.
func DecodeOctetString(data []byte, c Canonical) ([]byte, int, error) {
	length, lenConsumed, err := DecodeLength(data, c)
	if err != nil {
		return nil, 0, err
	}
	if lenConsumed+length > len(data) {
		return nil, 0, codecerr.IncompleteErr(c.codec(), int64(lenConsumed+length-len(data)))
	}
	return data[lenConsumed : lenConsumed+length], lenConsumed + length, nil
}
