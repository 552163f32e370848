package per

import (
	"encoding/asn1"
	"math"

	"github.com/thebagchi/asn1codec/lib/bitbuffer"
	"github.com/thebagchi/asn1codec/lib/codecerr"
)

// Decoder represents a PER decoder. It owns a bit-slice cursor over the
// input and the same alignment bookkeeping as Encoder; it mirrors every
// Encode* method in encode.go with a Decode* counterpart, clause for clause.
type Decoder struct {
	codec   *bitbuffer.Codec
	aligned bool
}

// NewDecoder creates a new PER decoder from encoded data.
// aligned: true for APER, false for UPER.
func NewDecoder(data []byte, aligned bool) *Decoder {
	return &Decoder{
		codec:   bitbuffer.CreateReader(data),
		aligned: aligned,
	}
}

func (d *Decoder) codecTag() codecerr.Codec {
	if d.aligned {
		return codecerr.APER
	}
	return codecerr.UPER
}

// Remainder returns the bytes not yet consumed, after aligning to the next
// byte boundary. Used by the frontend to implement decode_with_remainder.
func (d *Decoder) Remainder() []byte {
	_ = d.codec.Advance()
	return d.codec.Remaining()
}

func signExtend(v uint64, bits uint8) int64 {
	if bits >= 64 {
		return int64(v)
	}
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

// DecodeConstrainedWholeNumber mirrors Encoder.EncodeConstrainedWholeNumber,
// clause 11.5.
func (d *Decoder) DecodeConstrainedWholeNumber(lb, ub int64) (int64, error) {
	vr := ub - lb + 1
	if vr == 1 {
		return lb, nil
	}

	if !d.aligned {
		bits := BitsNonNegativeBinaryInteger(uint64(vr - 1))
		v, err := d.codec.Read(uint8(bits))
		if err != nil {
			return 0, err
		}
		return lb + int64(v), nil
	}

	if vr <= 0xFF {
		var bits int
		switch {
		case vr == 0x02:
			bits = 1
		case vr >= 0x03 && vr <= 0x04:
			bits = 2
		case vr >= 0x05 && vr <= 0x08:
			bits = 3
		case vr >= 0x09 && vr <= 0x10:
			bits = 4
		case vr >= 0x11 && vr <= 0x20:
			bits = 5
		case vr >= 0x21 && vr <= 0x40:
			bits = 6
		case vr >= 0x41 && vr <= 0x80:
			bits = 7
		default:
			bits = 8
		}
		v, err := d.codec.Read(uint8(bits))
		if err != nil {
			return 0, err
		}
		return lb + int64(v), nil
	}
	if vr == 0x100 {
		if err := d.codec.Advance(); err != nil {
			return 0, err
		}
		v, err := d.codec.Read(8)
		if err != nil {
			return 0, err
		}
		return lb + int64(v), nil
	}
	if vr >= 0x101 && vr <= 0x10000 {
		if err := d.codec.Advance(); err != nil {
			return 0, err
		}
		v, err := d.codec.Read(16)
		if err != nil {
			return 0, err
		}
		return lb + int64(v), nil
	}

	var (
		octetsRange = OctetsNonNegativeBinaryIntegerLength(uint64(ub - lb))
		lbRange     = uint64(1)
		ubRange     = uint64(octetsRange)
	)
	octets, _, err := d.DecodeLengthDeterminant(&lbRange, &ubRange)
	if err != nil {
		return 0, err
	}
	if err := d.codec.Advance(); err != nil {
		return 0, err
	}
	v, err := d.codec.Read(uint8(octets * 8))
	if err != nil {
		return 0, err
	}
	return lb + int64(v), nil
}

// DecodeNormallySmallNonNegativeWholeNumber mirrors
// Encoder.EncodeNormallySmallNonNegativeWholeNumber, clause 11.6.
func (d *Decoder) DecodeNormallySmallNonNegativeWholeNumber() (uint64, error) {
	bit, err := d.codec.Read(1)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return d.codec.Read(6)
	}
	v, err := d.DecodeSemiConstrainedWholeNumber(0)
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

// DecodeSemiConstrainedWholeNumber mirrors
// Encoder.EncodeSemiConstrainedWholeNumber, clause 11.7.
func (d *Decoder) DecodeSemiConstrainedWholeNumber(lb int64) (int64, error) {
	if d.aligned {
		if err := d.codec.Advance(); err != nil {
			return 0, err
		}
	}
	octets, _, err := d.DecodeLengthDeterminant(nil, nil)
	if err != nil {
		return 0, err
	}
	v, err := d.codec.Read(uint8(octets * 8))
	if err != nil {
		return 0, err
	}
	return lb + int64(v), nil
}

// DecodeUnconstrainedWholeNumber mirrors
// Encoder.EncodeUnconstrainedWholeNumber, clause 11.8.
func (d *Decoder) DecodeUnconstrainedWholeNumber() (int64, error) {
	if d.aligned {
		if err := d.codec.Advance(); err != nil {
			return 0, err
		}
	}
	octets, _, err := d.DecodeLengthDeterminant(nil, nil)
	if err != nil {
		return 0, err
	}
	v, err := d.codec.Read(uint8(octets * 8))
	if err != nil {
		return 0, err
	}
	return signExtend(v, uint8(octets*8)), nil
}

// DecodeUnconstrainedLength decodes a single length-determinant field,
// clause 11.9. If more is true, n items of payload follow immediately and
// then another length-determinant field; the caller loops until !more.
func (d *Decoder) DecodeUnconstrainedLength() (n uint64, more bool, err error) {
	if d.aligned {
		if err := d.codec.Advance(); err != nil {
			return 0, false, err
		}
	}
	first, err := d.codec.Read(8)
	if err != nil {
		return 0, false, err
	}
	if first&0x80 == 0 {
		return first, false, nil
	}
	if first&0x40 == 0 {
		second, err := d.codec.Read(8)
		if err != nil {
			return 0, false, err
		}
		return ((first & 0x3F) << 8) | second, false, nil
	}
	k := first & 0x3F
	if k < 1 || k > 4 {
		return 0, false, codecerr.Newf(d.codecTag(), codecerr.ParserFail, "invalid fragment multiplier %d", k)
	}
	return k * FRAGMENT_SIZE, true, nil
}

// DecodeNormallySmallLength mirrors Encoder.EncodeNormallySmallLength. If
// more is true, n items of payload follow and then another
// length-determinant field; the caller loops with DecodeUnconstrainedLength
// until !more.
func (d *Decoder) DecodeNormallySmallLength() (n uint64, more bool, err error) {
	bit, err := d.codec.Read(1)
	if err != nil {
		return 0, false, err
	}
	if bit == 0 {
		v, err := d.codec.Read(6)
		if err != nil {
			return 0, false, err
		}
		return v + 1, false, nil
	}
	return d.DecodeUnconstrainedLength()
}

// DecodeLengthDeterminant mirrors Encoder.EncodeLengthDeterminant.
func (d *Decoder) DecodeLengthDeterminant(lb, ub *uint64) (uint64, bool, error) {
	if ub != nil && lb != nil && *ub < MAX_CONSTRAINED_LENGTH {
		v, err := d.DecodeConstrainedWholeNumber(int64(*lb), int64(*ub))
		if err != nil {
			return 0, false, err
		}
		return uint64(v), false, nil
	}
	return d.DecodeUnconstrainedLength()
}

// DecodeBoolean mirrors Encoder.EncodeBoolean, clause 12.
func (d *Decoder) DecodeBoolean() (bool, error) {
	v, err := d.codec.Read(1)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// DecodeEnumerated mirrors Encoder.EncodeEnumerated, clause 14.
func (d *Decoder) DecodeEnumerated(count uint64, extensible bool) (uint64, error) {
	if extensible {
		bit, err := d.codec.Read(1)
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			v, err := d.DecodeNormallySmallNonNegativeWholeNumber()
			if err != nil {
				return 0, err
			}
			return count + v, nil
		}
	}
	v, err := d.DecodeConstrainedWholeNumber(0, int64(count-1))
	if err != nil {
		return 0, err
	}
	return uint64(v), nil
}

// DecodeInteger mirrors Encoder.EncodeInteger, clause 13.
func (d *Decoder) DecodeInteger(lb, ub *int64, extensible bool) (int64, error) {
	if extensible {
		bit, err := d.codec.Read(1)
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			return d.DecodeUnconstrainedWholeNumber()
		}
	}

	if lb != nil && ub != nil && *lb == *ub {
		return *lb, nil
	}
	if lb != nil && ub != nil {
		return d.DecodeConstrainedWholeNumber(*lb, *ub)
	} else if lb != nil && ub == nil {
		return d.DecodeSemiConstrainedWholeNumber(*lb)
	}
	return d.DecodeUnconstrainedWholeNumber()
}

// ReadBits reads count bits and packs them MSB-first into a byte slice,
// zero-padding the trailing partial byte. Mirrors Encoder.WriteBits.
func (d *Decoder) ReadBits(count uint) ([]byte, error) {
	if count == 0 {
		return nil, nil
	}
	num := count / 8
	var out []byte
	if num > 0 {
		b, err := d.codec.ReadBytes(int(num))
		if err != nil {
			return nil, err
		}
		out = b
	}
	remaining := count % 8
	if remaining > 0 {
		v, err := d.codec.Read(uint8(remaining))
		if err != nil {
			return nil, err
		}
		out = append(out, byte(v)<<(8-remaining))
	}
	return out, nil
}

// DecodeBitString mirrors Encoder.EncodeBitString, clause 16.
func (d *Decoder) DecodeBitString(lb, ub *uint64, extensible bool) (*asn1.BitString, error) {
	extended := false
	if extensible {
		bit, err := d.codec.Read(1)
		if err != nil {
			return nil, err
		}
		extended = bit == 1
	}

	if extended {
		zero := uint64(0)
		bytes, n, err := d.DecodeBitStringFragments(&zero, nil)
		if err != nil {
			return nil, err
		}
		return &asn1.BitString{Bytes: bytes, BitLength: int(n)}, nil
	}

	if ub != nil && *ub == 0 {
		return &asn1.BitString{}, nil
	}

	if lb != nil && ub != nil && *lb == *ub && *ub <= 16 {
		bytes, err := d.ReadBits(uint(*ub))
		if err != nil {
			return nil, err
		}
		return &asn1.BitString{Bytes: bytes, BitLength: int(*ub)}, nil
	}

	if lb != nil && ub != nil && *lb == *ub && *ub < 65536 {
		if d.aligned {
			if err := d.codec.Advance(); err != nil {
				return nil, err
			}
		}
		bytes, err := d.ReadBits(uint(*ub))
		if err != nil {
			return nil, err
		}
		return &asn1.BitString{Bytes: bytes, BitLength: int(*ub)}, nil
	}

	if d.aligned {
		if err := d.codec.Advance(); err != nil {
			return nil, err
		}
	}
	bytes, n, err := d.DecodeBitStringFragments(lb, ub)
	if err != nil {
		return nil, err
	}
	return &asn1.BitString{Bytes: bytes, BitLength: int(n)}, nil
}

// DecodeBitStringFragments reads a length-determinant-prefixed, possibly
// fragmented, bit-field and returns its packed bytes and bit count. Shared
// by DecodeBitString, DecodeSequencePreamble and DecodeExtensionPreamble so
// the fragmentation loop exists exactly once.
func (d *Decoder) DecodeBitStringFragments(lb, ub *uint64) ([]byte, uint64, error) {
	if d.aligned {
		if err := d.codec.Advance(); err != nil {
			return nil, 0, err
		}
	}
	var all []byte
	var total uint64
	for {
		n, more, err := d.DecodeLengthDeterminant(lb, ub)
		if err != nil {
			return nil, 0, err
		}
		if n > 0 {
			bits, err := d.ReadBits(uint(n))
			if err != nil {
				return nil, 0, err
			}
			all = append(all, bits...)
			total += n
		}
		if !more {
			break
		}
	}
	return all, total, nil
}

// DecodeOctetString mirrors Encoder.EncodeOctetString, clause 17.
func (d *Decoder) DecodeOctetString(lb, ub *uint64, extensible bool) ([]byte, error) {
	if extensible {
		bit, err := d.codec.Read(1)
		if err != nil {
			return nil, err
		}
		if bit == 1 {
			zero := uint64(0)
			return d.DecodeOctetStringFragments(&zero, nil)
		}
	}

	if ub != nil && *ub == 0 {
		return []byte{}, nil
	}

	if lb != nil && ub != nil && *lb == *ub && *ub <= 2 {
		return d.codec.ReadBytes(int(*ub))
	}

	if lb != nil && ub != nil && *lb == *ub && *ub < 65536 {
		if d.aligned {
			if err := d.codec.Advance(); err != nil {
				return nil, err
			}
		}
		return d.codec.ReadBytes(int(*ub))
	}

	return d.DecodeOctetStringFragments(lb, ub)
}

// DecodeOctetStringFragments mirrors Encoder.EncodeOctetStringFragments.
func (d *Decoder) DecodeOctetStringFragments(lb, ub *uint64) ([]byte, error) {
	if d.aligned {
		if err := d.codec.Advance(); err != nil {
			return nil, err
		}
	}

	all := []byte{}
	for {
		n, more, err := d.DecodeLengthDeterminant(lb, ub)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			b, err := d.codec.ReadBytes(int(n))
			if err != nil {
				return nil, err
			}
			all = append(all, b...)
		}
		if !more {
			break
		}
	}
	return all, nil
}

// DecodeNull mirrors Encoder.EncodeNull, clause 18: NULL has no contents.
func (d *Decoder) DecodeNull() error {
	return nil
}

// buildDERTLV reassembles a minimal DER tag-length-value header around
// content octets, the inverse of the tag/length stripping EncodeObjectIdentifier
// performs before handing the value octets to the PER octet-string codec.
func buildDERTLV(tag byte, content []byte) []byte {
	out := []byte{tag}
	n := len(content)
	if n < 0x80 {
		out = append(out, byte(n))
	} else {
		var lenBytes []byte
		for n > 0 {
			lenBytes = append([]byte{byte(n & 0xFF)}, lenBytes...)
			n >>= 8
		}
		out = append(out, byte(0x80|len(lenBytes)))
		out = append(out, lenBytes...)
	}
	out = append(out, content...)
	return out
}

// DecodeObjectIdentifier mirrors Encoder.EncodeObjectIdentifier, clause 24.
func (d *Decoder) DecodeObjectIdentifier() (asn1.ObjectIdentifier, error) {
	data, err := d.DecodeOctetString(nil, nil, false)
	if err != nil {
		return nil, err
	}
	der := buildDERTLV(0x06, data)
	var oid asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(der, &oid); err != nil {
		return nil, codecerr.Wrap(d.codecTag(), err, "object identifier")
	}
	return oid, nil
}

func decodeSignedBytesBigEndian(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	v := int64(int8(data[0]))
	for _, b := range data[1:] {
		v = (v << 8) | int64(b)
	}
	return v
}

// DecodeReal mirrors Encoder.EncodeReal/MakeReal, ITU-T X.690 §8.5.
func (d *Decoder) DecodeReal() (float64, error) {
	data, err := d.DecodeOctetString(nil, nil, false)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0.0, nil
	}
	first := data[0]
	if first&0x80 == 0 {
		switch first {
		case 0x40:
			return math.Inf(1), nil
		case 0x41:
			return math.Inf(-1), nil
		case 0x42:
			return math.NaN(), nil
		case 0x43:
			return math.Copysign(0, -1), nil
		default:
			return 0, codecerr.Newf(d.codecTag(), codecerr.ParserFail, "unsupported REAL first octet %#x", first)
		}
	}

	sign := 1.0
	if first&0x40 != 0 {
		sign = -1.0
	}
	// Bits 5-4 (base) and bits 3-2 (scaling factor) are always zero for
	// values MakeReal produces; this decoder only reads its own output.
	expFormat := first & 0x03
	pos := 1
	var expLen int
	switch expFormat {
	case 0:
		expLen = 1
	case 1:
		expLen = 2
	case 2:
		expLen = 3
	default:
		if pos >= len(data) {
			return 0, codecerr.IncompleteErr(d.codecTag(), 1)
		}
		expLen = int(data[pos])
		pos++
	}
	if pos+expLen > len(data) {
		return 0, codecerr.IncompleteErr(d.codecTag(), int64(pos+expLen-len(data)))
	}
	exponent := int(decodeSignedBytesBigEndian(data[pos : pos+expLen]))
	pos += expLen

	var mantissa int64
	for _, b := range data[pos:] {
		mantissa = (mantissa << 8) | int64(b)
	}

	return sign * float64(mantissa) * math.Pow(2, float64(exponent)), nil
}
