package per

import (
	"bytes"
	"fmt"
	"testing"
)

func TestReadBool(t *testing.T) {
	for _, aligned := range []bool{true, false} {
		for _, input := range []bool{true, false} {
			name := fmt.Sprintf("VALUE_%v_ALIGNED_%v", input, aligned)
			t.Run(name, func(t *testing.T) {
				encoder := NewEncoder(aligned)
				if err := encoder.EncodeBoolean(input); err != nil {
					t.Fatalf("EncodeBoolean() error = %v", err)
				}
				decoder := NewDecoder(encoder.Bytes(), aligned)
				result, err := decoder.DecodeBoolean()
				if err != nil {
					t.Fatalf("DecodeBoolean() error = %v", err)
				}
				if result != input {
					t.Errorf("DecodeBoolean() = %v, expected %v", result, input)
				}
			})
		}
	}
}

func TestReadInteger(t *testing.T) {
	tests := []struct {
		value  int64
		lb, ub *int64
	}{
		{value: 4096},
		{value: -4096},
		{value: 5, lb: i64(0), ub: i64(15)},
		{value: 0, lb: i64(0), ub: i64(15)},
		{value: 15, lb: i64(0), ub: i64(15)},
		{value: 1000, lb: i64(0), ub: i64(100000)},
	}
	for _, aligned := range []bool{true, false} {
		for _, tc := range tests {
			name := fmt.Sprintf("VALUE_%d_LB_%s_UB_%s_ALIGNED_%v", tc.value, dref(tc.lb), dref(tc.ub), aligned)
			t.Run(name, func(t *testing.T) {
				encoder := NewEncoder(aligned)
				if err := encoder.EncodeInteger(tc.value, tc.lb, tc.ub, false); err != nil {
					t.Fatalf("EncodeInteger() error = %v", err)
				}
				decoder := NewDecoder(encoder.Bytes(), aligned)
				result, err := decoder.DecodeInteger(tc.lb, tc.ub, false)
				if err != nil {
					t.Fatalf("DecodeInteger() error = %v", err)
				}
				if result != tc.value {
					t.Errorf("DecodeInteger() = %d, expected %d", result, tc.value)
				}
			})
		}
	}
}

func TestReadOctetString(t *testing.T) {
	tests := []struct {
		name   string
		length int
		lb, ub *uint64
	}{
		{name: "short unconstrained", length: 3},
		{name: "empty unconstrained", length: 0},
		{name: "fixed length", length: 4, lb: u64(4), ub: u64(4)},
		{name: "large fragmented", length: 70000},
	}
	for _, aligned := range []bool{true, false} {
		for _, tc := range tests {
			t.Run(fmt.Sprintf("%s_ALIGNED_%v", tc.name, aligned), func(t *testing.T) {
				value := make([]byte, tc.length)
				for i := range value {
					value[i] = byte(i)
				}
				encoder := NewEncoder(aligned)
				if err := encoder.EncodeOctetString(value, tc.lb, tc.ub, false); err != nil {
					t.Fatalf("EncodeOctetString() error = %v", err)
				}
				decoder := NewDecoder(encoder.Bytes(), aligned)
				result, err := decoder.DecodeOctetString(tc.lb, tc.ub, false)
				if err != nil {
					t.Fatalf("DecodeOctetString() error = %v", err)
				}
				if !bytes.Equal(result, value) {
					t.Errorf("DecodeOctetString() returned %d bytes, expected %d", len(result), len(value))
				}
			})
		}
	}
}

func u64(v uint64) *uint64 { return &v }
