package asn1codec

import (
	"testing"

	"github.com/thebagchi/asn1codec/lib/constraints"
	"github.com/thebagchi/asn1codec/lib/per"
	"github.com/thebagchi/asn1codec/lib/tags"
)

// widget is a minimal hand-written Encodable/Decodable used to exercise the
// top-level frontend; generated types follow the same shape.
type widget struct {
	Flag  bool
	Count int64
}

func (w widget) EncodePER(e *per.Encoder, _ tags.Tag, _ constraints.Set) error {
	if err := e.EncodeBoolean(w.Flag); err != nil {
		return err
	}
	return e.EncodeInteger(w.Count, nil, nil, false)
}

func (w *widget) DecodePER(d *per.Decoder, _ tags.Tag, _ constraints.Set) error {
	flag, err := d.DecodeBoolean()
	if err != nil {
		return err
	}
	count, err := d.DecodeUnconstrainedWholeNumber()
	if err != nil {
		return err
	}
	w.Flag = flag
	w.Count = count
	return nil
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := widget{Flag: true, Count: 4096}
	encoded, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded widget
	if err := Decode(encoded, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != original {
		t.Errorf("got %+v, want %+v", decoded, original)
	}
}

func TestEncodeUnalignedRoundTrip(t *testing.T) {
	original := widget{Flag: false, Count: -4096}
	encoded, err := EncodeUnaligned(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded widget
	if err := DecodeUnaligned(encoded, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != original {
		t.Errorf("got %+v, want %+v", decoded, original)
	}
}

func TestDecodeWithRemainder(t *testing.T) {
	original := widget{Flag: true, Count: 7}
	encoded, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	trailer := []byte{0xAA, 0xBB}
	var decoded widget
	remainder, err := DecodeWithRemainder(append(encoded, trailer...), &decoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != original {
		t.Errorf("got %+v, want %+v", decoded, original)
	}
	if string(remainder) != string(trailer) {
		t.Errorf("remainder = %v, want %v", remainder, trailer)
	}
}
