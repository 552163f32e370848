// Package asn1codec is the top-level codec frontend: the Encode/Decode
// entry points a generated (or hand-written) AsnType implementation drives,
// and the canonical-form policy (APER) those entry points apply by default.
package asn1codec

import (
	"github.com/thebagchi/asn1codec/lib/codecerr"
	"github.com/thebagchi/asn1codec/lib/constraints"
	"github.com/thebagchi/asn1codec/lib/per"
	"github.com/thebagchi/asn1codec/lib/tags"
)

// Encodable is implemented by any type that knows how to write itself
// through a PER encoder. tag is ignored by the PER encoder itself (PER
// never puts tags on the wire) but is threaded through so the same method
// can back a BER-family encoder later without a second interface.
type Encodable interface {
	EncodePER(e *per.Encoder, tag tags.Tag, cs constraints.Set) error
}

// Decodable is the Encodable counterpart; implementations take a pointer
// receiver so DecodePER can populate the value in place.
type Decodable interface {
	DecodePER(d *per.Decoder, tag tags.Tag, cs constraints.Set) error
}

// Encode produces the canonical encoding of value: Aligned PER, no outer
// constraints beyond whatever the type declares on itself.
func Encode(value Encodable) ([]byte, error) {
	return EncodeWithConstraints(constraints.None, value)
}

// EncodeWithConstraints is Encode with an additional outer constraint
// applied to the root value, as if the caller had declared it at the
// use-site.
func EncodeWithConstraints(cs constraints.Set, value Encodable) ([]byte, error) {
	e := per.NewEncoder(true)
	if err := value.EncodePER(e, tags.Tag{}, cs); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// EncodeUnaligned is Encode using Unaligned PER instead of the canonical
// Aligned form, for interop with peers that negotiated UPER.
func EncodeUnaligned(value Encodable) ([]byte, error) {
	e := per.NewEncoder(false)
	if err := value.EncodePER(e, tags.Tag{}, constraints.None); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Decode parses the canonical (Aligned PER) encoding of value, failing if
// any input remains afterward.
func Decode(data []byte, value Decodable) error {
	return DecodeWithConstraints(constraints.None, data, value)
}

// DecodeWithConstraints is Decode with an additional outer constraint
// applied to the root value.
func DecodeWithConstraints(cs constraints.Set, data []byte, value Decodable) error {
	d := per.NewDecoder(data, true)
	if err := value.DecodePER(d, tags.Tag{}, cs); err != nil {
		return err
	}
	if rest := d.Remainder(); len(rest) > 0 {
		return codecerr.Newf(codecerr.APER, codecerr.UnexpectedExtra, "%d trailing bytes", len(rest))
	}
	return nil
}

// DecodeUnaligned is Decode using Unaligned PER.
func DecodeUnaligned(data []byte, value Decodable) error {
	d := per.NewDecoder(data, false)
	if err := value.DecodePER(d, tags.Tag{}, constraints.None); err != nil {
		return err
	}
	if rest := d.Remainder(); len(rest) > 0 {
		return codecerr.Newf(codecerr.UPER, codecerr.UnexpectedExtra, "%d trailing bytes", len(rest))
	}
	return nil
}

// DecodeWithRemainder decodes value from the front of data and returns
// whatever bytes were not consumed, rather than treating them as an error.
// Used by consumers that concatenate multiple PDUs back to back.
func DecodeWithRemainder(data []byte, value Decodable) ([]byte, error) {
	d := per.NewDecoder(data, true)
	if err := value.DecodePER(d, tags.Tag{}, constraints.None); err != nil {
		return nil, err
	}
	return d.Remainder(), nil
}
