package per

import (
	"github.com/thebagchi/asn1codec/lib/codecerr"
	"github.com/thebagchi/asn1codec/lib/constraints"
)

// StringKind identifies which known-multiplier character string type a
// call to EncodeKnownMultiplierString/DecodeKnownMultiplierString targets,
// per ITU-T X.691 clause 27.
type StringKind int

const (
	KindIA5String StringKind = iota
	KindVisibleString
	KindPrintableString
	KindNumericString
	KindBMPString
	KindUniversalString
	KindTeletexString
	KindVideotexString
	KindGraphicString
	KindGeneralString
	KindUnrestrictedCharacterString
)

func (k StringKind) String() string {
	switch k {
	case KindIA5String:
		return "IA5String"
	case KindVisibleString:
		return "VisibleString"
	case KindPrintableString:
		return "PrintableString"
	case KindNumericString:
		return "NumericString"
	case KindBMPString:
		return "BMPString"
	case KindUniversalString:
		return "UniversalString"
	case KindTeletexString:
		return "TeletexString"
	case KindVideotexString:
		return "VideotexString"
	case KindGraphicString:
		return "GraphicString"
	case KindGeneralString:
		return "GeneralString"
	case KindUnrestrictedCharacterString:
		return "CHARACTER STRING"
	default:
		return "unknown string kind"
	}
}

// stringMode distinguishes the two character-encoding disciplines clause 27
// uses. modeRawCode writes the character's native code point value
// directly, in just enough bits to hold the type's maximum code point
// (IA5String, VisibleString, PrintableString when unconstrained by an
// explicit permitted alphabet). modeIndexed writes the character's position
// within a specific ordered alphabet (NumericString always; any type once a
// permitted-alphabet constraint narrows it to a specific character set).
type stringMode int

const (
	modeRawCode stringMode = iota
	modeIndexed
)

// Native alphabets for the known-multiplier types this codec fully
// implements, held in ascending code-point order. For modeRawCode kinds
// these are used only to validate membership, never to derive the written
// value.
var (
	ia5Alphabet = func() constraints.Alphabet {
		a := make(constraints.Alphabet, 128)
		for i := range a {
			a[i] = rune(i)
		}
		return a
	}()

	visibleAlphabet = func() constraints.Alphabet {
		a := make(constraints.Alphabet, 0, 95)
		for c := rune(0x20); c <= 0x7E; c++ {
			a = append(a, c)
		}
		return a
	}()

	printableAlphabet = constraints.Alphabet([]rune(
		" '()+,-./0123456789:=?ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"))

	numericAlphabet = constraints.Alphabet([]rune(" 0123456789"))
)

// kindInfo reports the default (no explicit permitted-alphabet constraint)
// mode, maximum native code point (only meaningful for modeRawCode), and
// native alphabet for a string kind. ok is false for the unimplemented
// kinds.
func kindInfo(kind StringKind) (mode stringMode, maxCode rune, native constraints.Alphabet, ok bool) {
	switch kind {
	case KindIA5String:
		return modeRawCode, 0x7F, ia5Alphabet, true
	case KindVisibleString:
		return modeRawCode, 0x7E, visibleAlphabet, true
	case KindPrintableString:
		return modeRawCode, 0x7A, printableAlphabet, true
	case KindNumericString:
		return modeIndexed, 0, numericAlphabet, true
	default:
		// BMPString, UniversalString, TeletexString, VideotexString,
		// GraphicString, GeneralString and the unrestricted character
		// string remain unimplemented: their native alphabets are either
		// very large (16/32-bit code points) or, for the Tx/Vx/Gx legacy
		// string types, not meaningfully specifiable without a registered
		// character-set/escape-sequence table this codec does not carry.
		return 0, 0, nil, false
	}
}

// bitsForCount returns ceil(log2(n)), the number of bits needed to hold n
// distinct values (0..n-1), with a floor of 1 bit.
func bitsForCount(n int) int {
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	if bits == 0 {
		bits = 1
	}
	return bits
}

// alignWidth rounds bits up to the next power of two in {1,2,4,8,16,32},
// the character-width promotion ALIGNED PER applies (clause 27.5.4).
func alignWidth(bits int) int {
	for _, w := range [...]int{1, 2, 4, 8, 16, 32} {
		if bits <= w {
			return w
		}
	}
	return bits
}

func codecTagFor(aligned bool) codecerr.Codec {
	if aligned {
		return codecerr.APER
	}
	return codecerr.UPER
}

// charPlan is the character-width/encoding-discipline decision made once
// per EncodeKnownMultiplierString/DecodeKnownMultiplierString call.
type charPlan struct {
	mode     stringMode
	width    int
	alphabet constraints.Alphabet
}

func planString(aligned bool, kind StringKind, permitted constraints.Alphabet) (charPlan, error) {
	mode, maxCode, native, ok := kindInfo(kind)
	if !ok {
		return charPlan{}, codecerr.New(codecTagFor(aligned), codecerr.NotImplemented).WithField(kind.String())
	}
	if len(permitted) > 0 {
		w := bitsForCount(len(permitted))
		if aligned {
			w = alignWidth(w)
		}
		return charPlan{mode: modeIndexed, width: w, alphabet: permitted}, nil
	}
	if mode == modeIndexed {
		w := bitsForCount(len(native))
		if aligned {
			w = alignWidth(w)
		}
		return charPlan{mode: modeIndexed, width: w, alphabet: native}, nil
	}
	w := bitsForCount(int(maxCode) + 1)
	if aligned {
		w = alignWidth(w)
	}
	return charPlan{mode: modeRawCode, width: w, alphabet: native}, nil
}

func sizeBounds(cs constraints.Set) (lb, ub *uint64) {
	if cs.Size == nil {
		return nil, nil
	}
	if cs.Size.Lo != nil {
		v := uint64(*cs.Size.Lo)
		lb = &v
	}
	if cs.Size.Hi != nil {
		v := uint64(*cs.Size.Hi)
		ub = &v
	}
	return lb, ub
}

// EncodeKnownMultiplierString implements the §4.6 known-multiplier
// character-string protocol: alphabet-constrained (or native) character
// width, "large string" octet alignment, and a (possibly fragmented) size
// determinant. IA5String, VisibleString, PrintableString and NumericString
// are fully supported; BMPString, UniversalString, TeletexString,
// VideotexString, GraphicString, GeneralString and the unrestricted
// character string return a NotImplemented error rather than silently
// producing the wrong bytes.
func (e *Encoder) EncodeKnownMultiplierString(value string, kind StringKind, cs constraints.Set) error {
	runes := []rune(value)
	n := uint64(len(runes))

	lb, ub := sizeBounds(cs)

	if cs.SizeExtensible {
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
			lb, ub = nil, nil
		}
	}

	if ub != nil && *ub == 0 {
		return nil
	}

	plan, err := planString(e.aligned, kind, cs.PermittedAlphabet)
	if err != nil {
		return err
	}

	large := ub == nil || uint64(plan.width)**ub > 16
	if e.aligned && large {
		if err := e.codec.Align(); err != nil {
			return err
		}
	}

	return e.encodeStringBody(runes, lb, ub, plan)
}

func (e *Encoder) encodeStringBody(runes []rune, lb, ub *uint64, plan charPlan) error {
	n := uint64(len(runes))
	if n == 0 {
		_, _, err := e.EncodeLengthDeterminant(0, lb, ub)
		return err
	}

	offset := uint64(0)
	for {
		remaining := n - offset
		length, more, err := e.EncodeLengthDeterminant(remaining, lb, ub)
		if err != nil {
			return err
		}
		for i := uint64(0); i < length; i++ {
			r := runes[offset+i]
			idx, found := plan.alphabet.Index(r)
			if !found {
				return codecerr.Newf(codecTagFor(e.aligned), codecerr.AlphabetConstraintViolation,
					"character %q not permitted", r)
			}
			value := uint64(idx)
			if plan.mode == modeRawCode {
				value = uint64(r)
			}
			if err := e.codec.Write(uint8(plan.width), value); err != nil {
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

// DecodeKnownMultiplierString mirrors EncodeKnownMultiplierString.
func (d *Decoder) DecodeKnownMultiplierString(kind StringKind, cs constraints.Set) (string, error) {
	lb, ub := sizeBounds(cs)

	if cs.SizeExtensible {
		bit, err := d.codec.Read(1)
		if err != nil {
			return "", err
		}
		if bit == 1 {
			lb, ub = nil, nil
		}
	}

	if ub != nil && *ub == 0 {
		return "", nil
	}

	plan, err := planString(d.aligned, kind, cs.PermittedAlphabet)
	if err != nil {
		return "", err
	}

	large := ub == nil || uint64(plan.width)**ub > 16
	if d.aligned && large {
		if err := d.codec.Advance(); err != nil {
			return "", err
		}
	}

	runes, err := d.decodeStringBody(lb, ub, plan)
	if err != nil {
		return "", err
	}
	return string(runes), nil
}

func (d *Decoder) decodeStringBody(lb, ub *uint64, plan charPlan) ([]rune, error) {
	var all []rune
	for {
		n, more, err := d.DecodeLengthDeterminant(lb, ub)
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < n; i++ {
			v, err := d.codec.Read(uint8(plan.width))
			if err != nil {
				return nil, err
			}
			var r rune
			if plan.mode == modeRawCode {
				r = rune(v)
				if _, found := plan.alphabet.Index(r); !found {
					return nil, codecerr.Newf(d.codecTag(), codecerr.AlphabetConstraintViolation,
						"code point %d not permitted", v)
				}
			} else {
				if int(v) >= len(plan.alphabet) {
					return nil, codecerr.Newf(d.codecTag(), codecerr.AlphabetConstraintViolation,
						"index %d out of range for alphabet of size %d", v, len(plan.alphabet))
				}
				r = plan.alphabet[v]
			}
			all = append(all, r)
		}
		if !more {
			break
		}
	}
	return all, nil
}
