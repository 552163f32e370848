// Package codecerr defines the typed, codec-tagged error values shared by
// every wire-format package in this module (lib/per, lib/ber, lib/oer,
// lib/jer). Errors are values, not exceptions: every function in this
// module that can fail returns an error value and discards partial
// output/state on failure, per spec.md §7.
package codecerr

import "fmt"

// Codec identifies which wire format produced an error.
type Codec string

const (
	BER  Codec = "BER"
	DER  Codec = "DER"
	CER  Codec = "CER"
	UPER Codec = "UPER"
	APER Codec = "APER"
	OER  Codec = "OER"
	COER Codec = "COER"
	JER  Codec = "JER"
)

// Kind is the error sub-category, matching the taxonomy in spec.md §7.
type Kind string

const (
	// Input-shape errors.
	Incomplete        Kind = "incomplete"
	UnexpectedExtra   Kind = "unexpected_extra_data"
	ParserFail        Kind = "parser_fail"

	// Constraint errors.
	InvalidLength               Kind = "invalid_length"
	AlphabetConstraintViolation Kind = "alphabet_constraint_not_satisfied"
	ConstraintViolation         Kind = "constraint_not_satisfied"

	// Arithmetic errors.
	IntegerOverflow      Kind = "integer_overflow"
	RangeExceedsPlatform Kind = "range_exceeds_platform_width"
	ExceedsMaxLength     Kind = "exceeds_max_length"

	// Schema errors.
	MissingField             Kind = "missing_field"
	DuplicateField           Kind = "duplicate_field"
	UnknownField             Kind = "unknown_field"
	NoValidChoice            Kind = "no_valid_choice"
	ChoiceIndexNotFound      Kind = "choice_index_not_found"
	RequiredExtensionMissing Kind = "required_extension_not_present"
	TypeNotExtensible        Kind = "type_not_extensible"
	EnumerationIndexNotFound Kind = "enumeration_index_not_found"

	// Content errors.
	InvalidBool                Kind = "invalid_bool"
	InvalidBitString           Kind = "invalid_bit_string"
	FixedStringConversionError Kind = "fixed_string_conversion_failed"
	StringConversionError      Kind = "string_conversion_failed"
	NotImplemented              Kind = "not_implemented"

	// Custom: an opaque wrapped error with context attached.
	Custom Kind = "custom"
)

// Error is the single error type returned by every codec in this module.
type Error struct {
	Kind  Kind
	Codec Codec
	Field string // empty if the error is not localized to a field
	// Needed carries the extra context some Kinds require (e.g. the bits
	// needed for IntegerOverflow, or the bytes needed for Incomplete).
	Needed int64
	// ExpectedLo, ExpectedHi and Actual carry the bounds and actual value for
	// InvalidLength; zero values mean "not applicable".
	ExpectedLo, ExpectedHi, Actual int64
	msg                            string
	wrapped                        error
}

func (e *Error) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Codec, e.Kind, e.msg)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s[%s]: field %q", e.Codec, e.Kind, e.Field)
	}
	return fmt.Sprintf("%s[%s]", e.Codec, e.Kind)
}

// Unwrap exposes the wrapped error, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// WithField returns a copy of e localized to the named field. Used when a
// composite codec catches an error from a sub-field and wants to attach
// the enclosing component's name.
func (e *Error) WithField(name string) *Error {
	cp := *e
	if cp.Field == "" {
		cp.Field = name
	} else {
		cp.Field = name + "." + cp.Field
	}
	return &cp
}

// New builds a bare Error of the given kind/codec.
func New(codec Codec, kind Kind) *Error {
	return &Error{Codec: codec, Kind: kind}
}

// Newf builds an Error with a formatted message.
func Newf(codec Codec, kind Kind, format string, args ...any) *Error {
	return &Error{Codec: codec, Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches context to an arbitrary sub-error (the "Custom" kind).
func Wrap(codec Codec, err error, context string) *Error {
	return &Error{Codec: codec, Kind: Custom, msg: context, wrapped: err}
}

// IncompleteErr builds an incomplete-input error noting how many more bits/
// bytes are needed.
func IncompleteErr(codec Codec, needed int64) *Error {
	return &Error{Codec: codec, Kind: Incomplete, Needed: needed}
}

// LengthErr builds an invalid_length error with the constraint's bounds.
func LengthErr(codec Codec, lo, hi, actual int64) *Error {
	return &Error{Codec: codec, Kind: InvalidLength, ExpectedLo: lo, ExpectedHi: hi, Actual: actual}
}

// OverflowErr builds an integer_overflow error noting the bits required.
func OverflowErr(codec Codec, bitsNeeded int64) *Error {
	return &Error{Codec: codec, Kind: IntegerOverflow, Needed: bitsNeeded}
}
