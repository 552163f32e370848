// Package ber implements the narrow slice of BER/DER/CER (ITU-T X.690) this
// module needs as an external collaborator to the PER core in lib/per:
// BOOLEAN, INTEGER, OCTET STRING and OBJECT IDENTIFIER, encoded/decoded as
// standalone tag-length-value data value encodings. It is not a general
// BER codec; composite/open-type support lives in lib/per and the
// top-level frontend, matching spec.md's "narrow interface" framing for
// every non-PER wire format.
package ber

import (
	"encoding/asn1"
	"math/big"

	"github.com/thebagchi/asn1codec/lib/codecerr"
)

// Variant selects which of the three X.690 encoding rule sets governs the
// length form (and, for OCTET STRING, the chunking behavior) Encode uses.
// Decode accepts any variant's output regardless of which Variant it was
// constructed with, since BER is a superset of DER and CER.
type Variant int

const (
	BER Variant = iota
	DER
	CER
)

func (v Variant) codec() codecerr.Codec {
	switch v {
	case DER:
		return codecerr.DER
	case CER:
		return codecerr.CER
	default:
		return codecerr.BER
	}
}

// cerChunkSize is the maximum primitive content length CER allows before an
// OCTET STRING must be re-encoded as a constructed, indefinite-length
// sequence of <=1000-byte chunks (ITU-T X.690 §9.13/§10.2.2... the 1000
// value comes from §8.21.6 via the clause 10 CER restriction).
const cerChunkSize = 1000

const (
	tagBoolean         = 0x01
	tagInteger         = 0x02
	tagOctetString     = 0x04
	tagObjectIdentifer = 0x06
	classUniversal     = 0x00
	constructedFlag    = 0x20
	indefiniteLength   = 0x80
)

func encodeLength(n int, variant Variant) []byte {
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

func tlv(tag byte, content []byte, variant Variant) []byte {
	out := []byte{tag}
	out = append(out, encodeLength(len(content), variant)...)
	out = append(out, content...)
	return out
}

// readTLV reads one tag-length-value data value encoding from the front of
// data and returns its tag, content and the number of bytes consumed.
// Indefinite-length (constructed) encodings are supported for the CER
// OCTET STRING chunking case only.
func readTLV(data []byte, variant Variant) (tag byte, content []byte, consumed int, err error) {
	if len(data) < 2 {
		return 0, nil, 0, codecerr.IncompleteErr(variant.codec(), int64(2-len(data)))
	}
	tag = data[0]
	first := data[1]
	pos := 2
	if first&indefiniteLength == 0 {
		length := int(first)
		if pos+length > len(data) {
			return 0, nil, 0, codecerr.IncompleteErr(variant.codec(), int64(pos+length-len(data)))
		}
		return tag, data[pos : pos+length], pos + length, nil
	}
	numLenBytes := int(first &^ indefiniteLength)
	if numLenBytes == 0 {
		// Indefinite length: read constructed chunks until 00 00.
		return readIndefiniteChunks(data, tag, pos, variant)
	}
	if pos+numLenBytes > len(data) {
		return 0, nil, 0, codecerr.IncompleteErr(variant.codec(), int64(pos+numLenBytes-len(data)))
	}
	length := 0
	for _, b := range data[pos : pos+numLenBytes] {
		length = (length << 8) | int(b)
	}
	pos += numLenBytes
	if pos+length > len(data) {
		return 0, nil, 0, codecerr.IncompleteErr(variant.codec(), int64(pos+length-len(data)))
	}
	return tag, data[pos : pos+length], pos + length, nil
}

func readIndefiniteChunks(data []byte, tag byte, pos int, variant Variant) (byte, []byte, int, error) {
	var content []byte
	for {
		if pos+2 > len(data) {
			return 0, nil, 0, codecerr.IncompleteErr(variant.codec(), int64(pos+2-len(data)))
		}
		if data[pos] == 0x00 && data[pos+1] == 0x00 {
			pos += 2
			return tag &^ constructedFlag, content, pos, nil
		}
		chunkTag, chunkContent, consumed, err := readTLV(data[pos:], variant)
		if err != nil {
			return 0, nil, 0, err
		}
		if chunkTag != tag&^constructedFlag {
			return 0, nil, 0, codecerr.Newf(variant.codec(), codecerr.ParserFail,
				"constructed chunk tag %#x does not match outer tag %#x", chunkTag, tag)
		}
		content = append(content, chunkContent...)
		pos += consumed
	}
}

// EncodeBoolean encodes a BOOLEAN value (X.690 clause 8.2). CER/DER require
// the content octet to be exactly 0x00 or 0xFF.
func EncodeBoolean(value bool, variant Variant) []byte {
	b := byte(0x00)
	if value {
		b = 0xFF
	}
	return tlv(tagBoolean, []byte{b}, variant)
}

// DecodeBoolean decodes a BOOLEAN data value encoding from the front of
// data and returns the value and the number of bytes consumed.
func DecodeBoolean(data []byte, variant Variant) (bool, int, error) {
	tag, content, consumed, err := readTLV(data, variant)
	if err != nil {
		return false, 0, err
	}
	if tag != classUniversal|tagBoolean {
		return false, 0, codecerr.Newf(variant.codec(), codecerr.ParserFail, "expected BOOLEAN tag, got %#x", tag)
	}
	if len(content) != 1 {
		return false, 0, codecerr.New(variant.codec(), codecerr.InvalidBool)
	}
	if (variant == DER || variant == CER) && content[0] != 0x00 && content[0] != 0xFF {
		return false, 0, codecerr.New(variant.codec(), codecerr.InvalidBool)
	}
	return content[0] != 0x00, consumed, nil
}

// EncodeInteger encodes an INTEGER value (X.690 clause 8.3): minimal-length
// two's-complement big-endian.
func EncodeInteger(value *big.Int, variant Variant) []byte {
	content := value.Bytes()
	if value.Sign() == 0 {
		content = []byte{0x00}
	} else if value.Sign() > 0 {
		if len(content) == 0 || content[0]&0x80 != 0 {
			content = append([]byte{0x00}, content...)
		}
	} else {
		content = twosComplement(value)
	}
	return tlv(tagInteger, content, variant)
}

func twosComplement(v *big.Int) []byte {
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

// DecodeInteger decodes an INTEGER data value encoding.
func DecodeInteger(data []byte, variant Variant) (*big.Int, int, error) {
	tag, content, consumed, err := readTLV(data, variant)
	if err != nil {
		return nil, 0, err
	}
	if tag != classUniversal|tagInteger {
		return nil, 0, codecerr.Newf(variant.codec(), codecerr.ParserFail, "expected INTEGER tag, got %#x", tag)
	}
	if len(content) == 0 {
		return nil, 0, codecerr.New(variant.codec(), codecerr.InvalidLength)
	}
	result := new(big.Int)
	if content[0]&0x80 == 0 {
		result.SetBytes(content)
	} else {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(content)*8))
		raw := new(big.Int).SetBytes(content)
		result.Sub(raw, mod)
	}
	return result, consumed, nil
}

// EncodeOctetString encodes an OCTET STRING value (X.690 clause 8.7). CER
// applies the >1000-byte constructed-chunking rule; BER/DER keep a single
// primitive encoding regardless of length.
func EncodeOctetString(value []byte, variant Variant) []byte {
	if variant != CER || len(value) <= cerChunkSize {
		return tlv(tagOctetString, value, variant)
	}
	var chunks []byte
	for offset := 0; offset < len(value); offset += cerChunkSize {
		end := offset + cerChunkSize
		if end > len(value) {
			end = len(value)
		}
		chunks = append(chunks, tlv(tagOctetString, value[offset:end], variant)...)
	}
	out := []byte{tagOctetString | constructedFlag, indefiniteLength}
	out = append(out, chunks...)
	out = append(out, 0x00, 0x00)
	return out
}

// DecodeOctetString decodes an OCTET STRING data value encoding, including
// the CER constructed/indefinite-length chunked form.
func DecodeOctetString(data []byte, variant Variant) ([]byte, int, error) {
	tag, content, consumed, err := readTLV(data, variant)
	if err != nil {
		return nil, 0, err
	}
	if tag&^constructedFlag != classUniversal|tagOctetString {
		return nil, 0, codecerr.Newf(variant.codec(), codecerr.ParserFail, "expected OCTET STRING tag, got %#x", tag)
	}
	return content, consumed, nil
}

// EncodeObjectIdentifier encodes an OBJECT IDENTIFIER value by delegating
// to encoding/asn1, matching the approach lib/per.EncodeObjectIdentifier
// uses for the wrapped PER form.
func EncodeObjectIdentifier(oid asn1.ObjectIdentifier) ([]byte, error) {
	full, err := asn1.Marshal(oid)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.BER, err, "object identifier")
	}
	return full, nil
}

// DecodeObjectIdentifier decodes an OBJECT IDENTIFIER data value encoding.
func DecodeObjectIdentifier(data []byte, variant Variant) (asn1.ObjectIdentifier, int, error) {
	tag, content, consumed, err := readTLV(data, variant)
	if err != nil {
		return nil, 0, err
	}
	if tag != classUniversal|tagObjectIdentifer {
		return nil, 0, codecerr.Newf(variant.codec(), codecerr.ParserFail, "expected OBJECT IDENTIFIER tag, got %#x", tag)
	}
	der := tlv(tagObjectIdentifer, content, DER)
	var oid asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(der, &oid); err != nil {
		return nil, 0, codecerr.Wrap(variant.codec(), err, "object identifier")
	}
	return oid, consumed, nil
}
