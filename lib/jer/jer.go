// Package jer implements the JSON Encoding Rules (ITU-T X.697) collaborator
// for this module: a thin layer over encoding/json that maps ASN.1 values
// onto their JER JSON representation. Composite types participate by
// implementing json.Marshaler/json.Unmarshaler themselves (the standard Go
// convention) rather than through a parallel interface, so a type that
// already wires encoding/json for debugging or logging gets JER for free.
package jer

import (
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/thebagchi/asn1codec/lib/codecerr"
)

// Marshal encodes value as JER JSON. It is a named wrapper around
// json.Marshal so call sites read as JER operations and errors come back
// tagged with the JER codec identity.
func Marshal(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, codecerr.Wrap(codecerr.JER, err, "marshal")
	}
	return data, nil
}

// Unmarshal decodes JER JSON into value.
func Unmarshal(data []byte, value any) error {
	if err := json.Unmarshal(data, value); err != nil {
		return codecerr.Wrap(codecerr.JER, err, "unmarshal")
	}
	return nil
}

// Integer is the JER representation of an unbounded INTEGER: JSON numbers
// cannot losslessly carry every int64/big.Int value, so X.697 requires
// encoding INTEGER as a JSON string of decimal digits whenever the value
// might exceed the JSON number range; this type always does so, which is
// always a valid (if occasionally more verbose than necessary) encoding.
type Integer struct {
	Value *big.Int
}

func (i Integer) MarshalJSON() ([]byte, error) {
	if i.Value == nil {
		return []byte(`"0"`), nil
	}
	return json.Marshal(i.Value.String())
}

func (i *Integer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// JER also permits a bare JSON number for small INTEGER values;
		// fall back to that form before giving up.
		var n int64
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return codecerr.Wrap(codecerr.JER, err, "integer")
		}
		i.Value = big.NewInt(n)
		return nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return codecerr.Newf(codecerr.JER, codecerr.ParserFail, "invalid integer string %q", s)
	}
	i.Value = v
	return nil
}

// OctetString is the JER representation of OCTET STRING: a base64 string,
// per X.697 clause 11.
type OctetString []byte

func (o OctetString) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(o))
}

func (o *OctetString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return codecerr.Wrap(codecerr.JER, err, "octet string")
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return codecerr.Wrap(codecerr.JER, err, "octet string base64")
	}
	*o = decoded
	return nil
}

// BitString is the JER representation of BIT STRING: a JSON object with
// the bit count and a hex-digit-pair-per-octet string of its bytes, per
// X.697 clause 12.
type BitString struct {
	Length int    `json:"length"`
	Value  string `json:"value"`
}
