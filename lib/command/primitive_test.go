package command

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestPrimitiveMapRoundTrip(t *testing.T) {
	in := map[string]any{
		"null":   nil,
		"bool":   true,
		"byte":   byte(0xF0),
		"char":   uint16('x'),
		"short":  int16(-7),
		"int":    int32(math.MaxInt32),
		"long":   int64(math.MinInt64),
		"float":  float32(1.25),
		"double": math.Pi,
		"string": "grüße",
		"big":    strings.Repeat("b", bigStringUnits+10),
		"bytes":  []byte{1, 2, 3},
		"map":    map[string]any{"inner": int32(1)},
		"list":   []any{int64(1), "two", nil},
	}
	raw, err := MarshalPrimitiveMap(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out, err := UnmarshalPrimitiveMap(raw)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %#v\nout: %#v", in, out)
	}
}

func TestPrimitiveMapDeterministic(t *testing.T) {
	m := map[string]any{"b": int32(2), "a": int32(1), "c": int32(3)}
	first, _ := MarshalPrimitiveMap(m)
	for i := 0; i < 10; i++ {
		again, _ := MarshalPrimitiveMap(m)
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding depends on map iteration order")
		}
	}
	want := []byte{0, 0, 0, 3, 0, 1, 'a', primInt, 0, 0, 0, 1}
	if !bytes.HasPrefix(first, want) {
		t.Errorf("first entry % x, want % x", first[:len(want)], want)
	}
}

func TestPrimitiveMapNil(t *testing.T) {
	raw, _ := MarshalPrimitiveMap(nil)
	if !bytes.Equal(raw, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("nil map encoded as % x", raw)
	}
	m, err := UnmarshalPrimitiveMap(raw)
	if err != nil || m != nil {
		t.Errorf("decoded %v, %v", m, err)
	}
	if m, err := UnmarshalPrimitiveMap(nil); err != nil || m != nil {
		t.Errorf("empty input decoded %v, %v", m, err)
	}
}

func TestPrimitiveMapMalformed(t *testing.T) {
	inputs := [][]byte{
		{0, 0, 0, 1},
		{0, 0, 0, 1, 0, 1, 'a', 99},
		{0, 0, 0, 1, 0, 1, 'a', primInt, 0},
		{0x7F, 0xFF, 0xFF, 0xFF},
	}
	for _, in := range inputs {
		if _, err := UnmarshalPrimitiveMap(in); !errors.Is(err, ErrMalformedPrimitive) {
			t.Errorf("% x: got %v", in, err)
		}
	}
}

func TestNormalizePrimitive(t *testing.T) {
	v, err := NormalizePrimitive(map[string]any{"n": 5, "l": []any{int8(-1)}})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"n": int64(5), "l": []any{byte(0xFF)}}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("normalized to %#v", v)
	}
	if _, err := NormalizePrimitive(uint64(1)); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("uint64 accepted: %v", err)
	}
}
