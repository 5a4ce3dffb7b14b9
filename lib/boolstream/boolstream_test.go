package boolstream

import (
	"bytes"
	"errors"
	"testing"

	"github.com/apache/activemq-openwire-sub001/lib/buffer"
)

func pattern(n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = i%3 == 0 || i%7 == 1
	}
	return bits
}

func TestBooleanStreamRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 63, 64, 255, 256, 65535, 65536, 70000} {
		bits := pattern(n)
		bs := New()
		for _, b := range bits {
			bs.WriteBoolean(b)
		}

		out := buffer.NewOutputStream(0)
		bs.Marshal(out)
		if out.Size() != bs.MarshalledSize() {
			t.Errorf("n=%d: wrote %d bytes, MarshalledSize %d", n, out.Size(), bs.MarshalledSize())
		}

		// extra trailing byte must stay unread
		out.WriteUint8(0xAA)

		in := buffer.NewInputStream(out.Bytes())
		read := New()
		if err := read.Unmarshal(in); err != nil {
			t.Fatalf("n=%d: unmarshal failed: %v", n, err)
		}
		if in.Available() != 1 {
			t.Errorf("n=%d: table consumed %d trailing bytes", n, 1-in.Available())
		}
		if read.Len() != n {
			t.Errorf("n=%d: decoded %d flags", n, read.Len())
		}
		for i, want := range bits {
			got, err := read.ReadBoolean()
			if err != nil {
				t.Fatalf("n=%d: flag %d: %v", n, i, err)
			}
			if got != want {
				t.Fatalf("n=%d: flag %d = %v, want %v", n, i, got, want)
			}
		}
		if _, err := read.ReadBoolean(); !errors.Is(err, ErrExhausted) {
			t.Errorf("n=%d: read past end: got %v, want ErrExhausted", n, err)
		}
	}
}

func TestBooleanStreamLayout(t *testing.T) {
	bs := New()
	for _, b := range []bool{true, false, true, true, false, false, false, false, true} {
		bs.WriteBoolean(b)
	}
	out := buffer.NewOutputStream(0)
	bs.Marshal(out)
	// count 9, then LSB first: 0b00001101, 0b00000001
	want := []byte{9, 0x0D, 0x01}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("got % x, want % x", out.Bytes(), want)
	}
	if bs.String() != "101100001" {
		t.Errorf("String = %s", bs.String())
	}
}

func TestBooleanStreamHeaders(t *testing.T) {
	tests := []struct {
		count  int
		header []byte
	}{
		{63, []byte{63}},
		{64, []byte{0xC0, 64}},
		{255, []byte{0xC0, 0xFF}},
		{256, []byte{0x80, 0x01, 0x00}},
		{65536, []byte{0x40, 0x00, 0x01, 0x00, 0x00}},
	}
	for _, tt := range tests {
		bs := New()
		for i := 0; i < tt.count; i++ {
			bs.WriteBoolean(false)
		}
		out := buffer.NewOutputStream(0)
		bs.Marshal(out)
		if !bytes.HasPrefix(out.Bytes(), tt.header) {
			t.Errorf("count %d: header % x, want % x", tt.count, out.Bytes()[:len(tt.header)], tt.header)
		}
	}
}

func TestMarshalRewinds(t *testing.T) {
	bs := New()
	bs.WriteBoolean(true)
	bs.WriteBoolean(false)
	if v, _ := bs.ReadBoolean(); !v {
		t.Fatalf("first flag should be true")
	}
	bs.Marshal(buffer.NewOutputStream(0))
	if bs.Remaining() != 2 {
		t.Errorf("Marshal did not rewind, %d flags remaining", bs.Remaining())
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, buffer.ErrTruncated},
		{"bad byte marker", []byte{0xC1, 1, 0}, ErrMalformed},
		{"bad short marker", []byte{0x81, 0, 1, 0}, ErrMalformed},
		{"negative count", []byte{0x40, 0xFF, 0xFF, 0xFF, 0xFF}, ErrMalformed},
		{"missing data", []byte{16, 0xFF}, buffer.ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Unmarshal(buffer.NewInputStream(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
