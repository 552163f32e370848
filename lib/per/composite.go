package per

import "github.com/thebagchi/asn1codec/lib/tags"

// This file adds the composite-codec layer (sequence, set, choice,
// sequence-of/set-of, and the open-type wrapper used for extension
// additions and unknown CHOICE alternatives) on top of the primitive
// encoders/decoders above, per ITU-T X.691 clauses 19, 20 and 23.
//
// PER never inspects tag values and the composite framing here is
// type-shape driven: the caller supplies the field/element values through
// closures, and this layer only owns the preamble, presence-bitmap,
// extension-bitmap and length-determinant bookkeeping shared by every
// component of this shape. Canonical SET field reordering (clause 8.6) is
// done by EncodeSetPreamble/DecodeSetPreamble, which call lib/tags.SortByTag
// before handing the presence bitmap to EncodeSequencePreamble/
// DecodeSequencePreamble.

func packBits(bits []bool) ([]byte, uint64) {
	n := uint64(len(bits))
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out, n
}

func unpackBits(data []byte, n int) []bool {
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		out[i] = data[i/8]&(1<<uint(7-i%8)) != 0
	}
	return out
}

func (e *Encoder) writePresenceBits(present []bool) error {
	for _, p := range present {
		v := uint64(0)
		if p {
			v = 1
		}
		if err := e.codec.Write(1, v); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) readPresenceBits(n int) ([]bool, error) {
	out := make([]bool, n)
	for i := range out {
		v, err := d.codec.Read(1)
		if err != nil {
			return nil, err
		}
		out[i] = v == 1
	}
	return out, nil
}

// EncodeSequencePreamble writes the clause-19.1 extension bit (when the
// type is extensible) followed by the clause-19.2/19.3 optional/default
// presence bitmap, one bit per field in declaration order whose Presence is
// Optional or Default. The caller then encodes each present field's value,
// in declaration order, with whatever primitive/composite encoder matches
// its type.
func (e *Encoder) EncodeSequencePreamble(extensible, extensionPresent bool, optionalPresent []bool) error {
	if extensible {
		v := uint64(0)
		if extensionPresent {
			v = 1
		}
		if err := e.codec.Write(1, v); err != nil {
			return err
		}
	}
	n := uint64(len(optionalPresent))
	if n == 0 {
		return nil
	}
	if n < MAX_CONSTRAINED_LENGTH {
		return e.writePresenceBits(optionalPresent)
	}
	// 19.3 NOTE: a bitmap wider than 64K is itself length-determinant
	// framed and fragmentable, exactly like a bit string value.
	bytes, _ := packBits(optionalPresent)
	return e.EncodeBitStringFragments(bytes, n, &n, &n)
}

// DecodeSequencePreamble mirrors EncodeSequencePreamble. optionalCount must
// equal the number of Optional/Default fields the schema declares.
func (d *Decoder) DecodeSequencePreamble(extensible bool, optionalCount int) (extensionPresent bool, optionalPresent []bool, err error) {
	if extensible {
		v, err := d.codec.Read(1)
		if err != nil {
			return false, nil, err
		}
		extensionPresent = v == 1
	}
	if optionalCount == 0 {
		return extensionPresent, nil, nil
	}
	n := uint64(optionalCount)
	if n < MAX_CONSTRAINED_LENGTH {
		optionalPresent, err = d.readPresenceBits(optionalCount)
		return extensionPresent, optionalPresent, err
	}
	bytes, total, err := d.DecodeBitStringFragments(&n, &n)
	if err != nil {
		return extensionPresent, nil, err
	}
	return extensionPresent, unpackBits(bytes, int(total)), nil
}

// EncodeExtensionPreamble writes the clause-19.8/23.9 extension-addition
// presence bitmap: a normally-small length giving the number of known
// extension additions, followed by one presence bit per addition.
func (e *Encoder) EncodeExtensionPreamble(present []bool) error {
	n := uint64(len(present))
	if n <= 64 {
		if err := e.codec.Write(1, 0); err != nil {
			return err
		}
		if err := e.codec.Write(6, n-1); err != nil {
			return err
		}
		return e.writePresenceBits(present)
	}
	if err := e.codec.Write(1, 1); err != nil {
		return err
	}
	bytes, _ := packBits(present)
	return e.EncodeBitStringFragments(bytes, n, nil, nil)
}

// DecodeExtensionPreamble mirrors EncodeExtensionPreamble.
func (d *Decoder) DecodeExtensionPreamble() ([]bool, error) {
	bit, err := d.codec.Read(1)
	if err != nil {
		return nil, err
	}
	if bit == 0 {
		v, err := d.codec.Read(6)
		if err != nil {
			return nil, err
		}
		return d.readPresenceBits(int(v + 1))
	}
	bytes, total, err := d.DecodeBitStringFragments(nil, nil)
	if err != nil {
		return nil, err
	}
	return unpackBits(bytes, int(total)), nil
}

// EncodeOpenType wraps the encoding produced by fn as a length-prefixed,
// octet-aligned blob (clause 10.1 "open type" encoding). Used for unknown
// CHOICE alternatives and for every field in an extension addition group.
func (e *Encoder) EncodeOpenType(fn func(*Encoder) error) error {
	sub := NewEncoder(e.aligned)
	if err := fn(sub); err != nil {
		return err
	}
	return e.EncodeOctetString(sub.Bytes(), nil, nil, false)
}

// DecodeOpenType reads a length-prefixed octet-aligned blob and runs fn
// against a fresh sub-decoder over its contents. A caller that does not
// recognize the alternative/extension simply skips calling DecodeOpenType's
// fn body and instead discards the returned bytes via DecodeOctetString.
func (d *Decoder) DecodeOpenType(fn func(*Decoder) error) error {
	data, err := d.DecodeOctetString(nil, nil, false)
	if err != nil {
		return err
	}
	return fn(NewDecoder(data, d.aligned))
}

// EncodeChoiceIndex writes the clause-23 CHOICE discriminant: an
// extensibility bit (if the type is extensible), then either the
// root-alternative index as a constrained whole number (clause 23.6,
// skipped entirely when there is only one root alternative) or the
// extension-alternative index as a normally-small non-negative whole
// number (clause 23.8). The caller encodes the payload afterward, wrapped
// in EncodeOpenType when extended is true.
func (e *Encoder) EncodeChoiceIndex(index, rootCount int, extensible, extended bool) error {
	if extensible {
		v := uint64(0)
		if extended {
			v = 1
		}
		if err := e.codec.Write(1, v); err != nil {
			return err
		}
	}
	if extended {
		return e.EncodeNormallySmallNonNegativeWholeNumber(uint64(index))
	}
	if rootCount <= 1 {
		return nil
	}
	return e.EncodeConstrainedWholeNumber(0, int64(rootCount-1), int64(index))
}

// DecodeChoiceIndex mirrors EncodeChoiceIndex.
func (d *Decoder) DecodeChoiceIndex(rootCount int, extensible bool) (index int, extended bool, err error) {
	if extensible {
		bit, err := d.codec.Read(1)
		if err != nil {
			return 0, false, err
		}
		extended = bit == 1
	}
	if extended {
		v, err := d.DecodeNormallySmallNonNegativeWholeNumber()
		return int(v), true, err
	}
	if rootCount <= 1 {
		return 0, false, nil
	}
	v, err := d.DecodeConstrainedWholeNumber(0, int64(rootCount-1))
	return int(v), false, err
}

// EncodeSequenceOf drives the clause-20 sequence-of/set-of framing: an
// extensibility bit when the element count constraint is extensible,
// followed by a (possibly fragmented) length determinant and the element
// encodings themselves. encodeElem is called once per element index in
// [0, elemCount) in order; PER never reorders SEQUENCE OF/SET OF elements.
func (e *Encoder) EncodeSequenceOf(elemCount int, lb, ub *uint64, extensible bool, encodeElem func(i int) error) error {
	n := uint64(elemCount)
	effLB, effUB := lb, ub
	if extensible {
		extended := false
		if lb != nil && n < *lb {
			extended = true
		}
		if ub != nil && n > *ub {
			extended = true
		}
		v := uint64(0)
		if extended {
			v = 1
		}
		if err := e.codec.Write(1, v); err != nil {
			return err
		}
		if extended {
			zero := uint64(0)
			effLB, effUB = &zero, nil
		}
	}

	if effLB != nil && effUB != nil && *effLB == *effUB && *effUB < MAX_CONSTRAINED_LENGTH {
		for i := 0; i < elemCount; i++ {
			if err := encodeElem(i); err != nil {
				return err
			}
		}
		return nil
	}

	if n == 0 {
		_, _, err := e.EncodeLengthDeterminant(0, effLB, effUB)
		return err
	}

	offset := uint64(0)
	for {
		remaining := n - offset
		length, more, err := e.EncodeLengthDeterminant(remaining, effLB, effUB)
		if err != nil {
			return err
		}
		for i := uint64(0); i < length; i++ {
			if err := encodeElem(int(offset + i)); err != nil {
				return err
			}
		}
		offset += length
		if !more {
			break
		}
	}
	return nil
}

// EncodeSetPreamble applies the clause-8.6 canonical SET field reordering
// to optionalPresent (one entry per Optional/Default field, in declaration
// order) before writing the preamble, and returns the permutation the
// caller must use to walk its field values in canonical (wire) order
// afterward. fields must list every field of the SET, in declaration order,
// including Required ones; optionalPresent must list only the
// Optional/Default ones, also in declaration order.
func (e *Encoder) EncodeSetPreamble(extensible, extensionPresent bool, fields []tags.Field, optionalPresent []bool) (order []int, err error) {
	order = tags.SortByTag(fields)

	canonicalPresent := make([]bool, 0, len(optionalPresent))
	optionalIndex := make(map[int]int, len(optionalPresent))
	oi := 0
	for i, f := range fields {
		if f.Presence != tags.Required {
			optionalIndex[i] = oi
			oi++
		}
	}
	for _, fieldIdx := range order {
		if oi, ok := optionalIndex[fieldIdx]; ok {
			canonicalPresent = append(canonicalPresent, optionalPresent[oi])
		}
	}

	if err := e.EncodeSequencePreamble(extensible, extensionPresent, canonicalPresent); err != nil {
		return nil, err
	}
	return order, nil
}

// DecodeSetPreamble mirrors EncodeSetPreamble: it returns the field presence
// bitmap and the permutation (in canonical/wire order) the caller must use
// to decode field values (order[i] is the declaration-order index of the
// i-th field on the wire), alongside the inverse permutation that maps a
// field's declaration-order index to its canonical (wire) position.
func (d *Decoder) DecodeSetPreamble(extensible bool, fields []tags.Field, optionalCount int) (extensionPresent bool, canonicalPresent []bool, order, inverse []int, err error) {
	order = tags.SortByTag(fields)
	inverse = tags.Invert(order)

	extensionPresent, canonicalPresent, err = d.DecodeSequencePreamble(extensible, optionalCount)
	return extensionPresent, canonicalPresent, order, inverse, err
}

// DecodeSequenceOf mirrors EncodeSequenceOf. decodeElem is called once per
// decoded element with its index in arrival order; it returns the total
// number of elements decoded.
func (d *Decoder) DecodeSequenceOf(lb, ub *uint64, extensible bool, decodeElem func(i int) error) (int, error) {
	effLB, effUB := lb, ub
	if extensible {
		bit, err := d.codec.Read(1)
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			zero := uint64(0)
			effLB, effUB = &zero, nil
		}
	}

	if effLB != nil && effUB != nil && *effLB == *effUB && *effUB < MAX_CONSTRAINED_LENGTH {
		n := int(*effUB)
		for i := 0; i < n; i++ {
			if err := decodeElem(i); err != nil {
				return i, err
			}
		}
		return n, nil
	}

	count := 0
	for {
		n, more, err := d.DecodeLengthDeterminant(effLB, effUB)
		if err != nil {
			return count, err
		}
		for i := uint64(0); i < n; i++ {
			if err := decodeElem(count); err != nil {
				return count, err
			}
			count++
		}
		if !more {
			break
		}
	}
	return count, nil
}
