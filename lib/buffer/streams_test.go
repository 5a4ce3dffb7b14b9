package buffer

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestStreamRoundTrip(t *testing.T) {
	out := NewOutputStream(4)
	out.WriteBool(true)
	out.WriteBool(false)
	out.WriteUint8(0xFE)
	out.WriteInt8(-2)
	out.WriteUint16(0xBEEF)
	out.WriteInt16(-300)
	out.WriteInt32(math.MinInt32)
	out.WriteInt64(math.MaxInt64)
	out.WriteFloat32(1.5)
	out.WriteFloat64(-2.25)
	if _, err := out.Write([]byte("raw")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := out.WriteUTF("text"); err != nil {
		t.Fatalf("WriteUTF failed: %v", err)
	}
	if out.Err() != nil {
		t.Fatalf("unexpected stream error: %v", out.Err())
	}

	in := NewInputStream(out.Bytes())
	if v, err := in.ReadBool(); err != nil || !v {
		t.Errorf("ReadBool = %v, %v", v, err)
	}
	if v, err := in.ReadBool(); err != nil || v {
		t.Errorf("ReadBool = %v, %v", v, err)
	}
	if v, err := in.ReadUint8(); err != nil || v != 0xFE {
		t.Errorf("ReadUint8 = %v, %v", v, err)
	}
	if v, err := in.ReadInt8(); err != nil || v != -2 {
		t.Errorf("ReadInt8 = %v, %v", v, err)
	}
	if v, err := in.ReadUint16(); err != nil || v != 0xBEEF {
		t.Errorf("ReadUint16 = %v, %v", v, err)
	}
	if v, err := in.ReadInt16(); err != nil || v != -300 {
		t.Errorf("ReadInt16 = %v, %v", v, err)
	}
	if v, err := in.ReadInt32(); err != nil || v != math.MinInt32 {
		t.Errorf("ReadInt32 = %v, %v", v, err)
	}
	if v, err := in.ReadInt64(); err != nil || v != math.MaxInt64 {
		t.Errorf("ReadInt64 = %v, %v", v, err)
	}
	if v, err := in.ReadFloat32(); err != nil || v != 1.5 {
		t.Errorf("ReadFloat32 = %v, %v", v, err)
	}
	if v, err := in.ReadFloat64(); err != nil || v != -2.25 {
		t.Errorf("ReadFloat64 = %v, %v", v, err)
	}
	if v, err := in.ReadFully(3); err != nil || string(v) != "raw" {
		t.Errorf("ReadFully = %q, %v", v, err)
	}
	if v, err := in.ReadUTF(); err != nil || v != "text" {
		t.Errorf("ReadUTF = %q, %v", v, err)
	}
	if in.Available() != 0 {
		t.Errorf("%d bytes left over", in.Available())
	}
}

func TestOutputStreamBigEndian(t *testing.T) {
	out := NewOutputStream(0)
	out.WriteInt32(0x01020304)
	out.WriteInt16(0x0506)
	want := []byte{1, 2, 3, 4, 5, 6}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("got % x, want % x", out.Bytes(), want)
	}
}

func TestOutputStreamGrowth(t *testing.T) {
	out := NewOutputStream(1)
	payload := bytes.Repeat([]byte{0xAB}, 100)
	out.WriteUint8(1)
	if _, err := out.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out.Size() != 101 {
		t.Errorf("size = %d, want 101", out.Size())
	}
	if out.Capacity() < 101 {
		t.Errorf("capacity %d smaller than size", out.Capacity())
	}
	if out.Bytes()[0] != 1 || !bytes.Equal(out.Bytes()[1:], payload) {
		t.Errorf("content corrupted while growing")
	}
}

func TestOutputStreamIndexedWrites(t *testing.T) {
	out := NewOutputStream(0)
	offset := out.Reserve(4)
	out.WriteUint8(7)
	if err := out.WriteInt32At(offset, int32(out.Size()-4)); err != nil {
		t.Fatalf("WriteInt32At failed: %v", err)
	}
	want := []byte{0, 0, 0, 1, 7}
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("got % x, want % x", out.Bytes(), want)
	}
	if out.Size() != 5 {
		t.Errorf("indexed write moved the position to %d", out.Size())
	}
	if err := out.WriteAt(3, []byte{1, 2, 3}); !errors.Is(err, ErrTruncated) {
		t.Errorf("write past the end: got %v, want ErrTruncated", err)
	}
}

func TestOutputStreamRestart(t *testing.T) {
	out := NewOutputStream(0)
	out.WriteInt64(42)
	out.Restart(256)
	if out.Size() != 0 {
		t.Errorf("size after restart = %d", out.Size())
	}
	if out.Capacity() < 256 {
		t.Errorf("capacity after restart = %d", out.Capacity())
	}
}

func TestInputStreamTruncated(t *testing.T) {
	in := NewInputStream([]byte{1, 2, 3})
	if _, err := in.ReadInt32(); !errors.Is(err, ErrTruncated) {
		t.Errorf("ReadInt32 on 3 bytes: got %v, want ErrTruncated", err)
	}
	// a failed read consumes nothing
	if in.Available() != 3 {
		t.Errorf("available = %d after failed read", in.Available())
	}
	if _, err := in.ReadFully(-1); !errors.Is(err, ErrNegativeLength) {
		t.Errorf("ReadFully(-1): got %v", err)
	}

	// string length claims more bytes than present
	in.Restart([]byte{0, 5, 'a', 'b'})
	if _, err := in.ReadUTF(); !errors.Is(err, ErrTruncated) {
		t.Errorf("short string: got %v, want ErrTruncated", err)
	}
}

func TestInputStreamWindow(t *testing.T) {
	backing := []byte{9, 9, 0, 1, 0, 2, 9}
	in := NewInputStreamView(NewByteViewRange(backing, 2, 4))
	if in.Available() != 4 {
		t.Fatalf("available = %d, want 4", in.Available())
	}
	a, _ := in.ReadInt16()
	b, _ := in.ReadInt16()
	if a != 1 || b != 2 {
		t.Errorf("read %d %d, want 1 2", a, b)
	}
	if in.Position() != 4 {
		t.Errorf("position = %d, want 4", in.Position())
	}
	if _, err := in.ReadUint8(); !errors.Is(err, ErrTruncated) {
		t.Errorf("read past window: got %v", err)
	}

	in.Restart(backing)
	if err := in.Limit(2); err != nil {
		t.Fatalf("Limit failed: %v", err)
	}
	if err := in.Skip(3); !errors.Is(err, ErrTruncated) {
		t.Errorf("skip past limit: got %v", err)
	}
	if err := in.Limit(100); !errors.Is(err, ErrTruncated) {
		t.Errorf("limit larger than window: got %v", err)
	}
}

func TestInputStreamReadViewAliases(t *testing.T) {
	backing := []byte("abcdef")
	in := NewInputStream(backing)
	_ = in.Skip(1)
	v, err := in.ReadView(3)
	if err != nil {
		t.Fatalf("ReadView failed: %v", err)
	}
	if v.ASCII() != "bcd" || v.Offset() != 1 {
		t.Errorf("view = %s at %d", v, v.Offset())
	}
	backing[1] = 'X'
	if v.At(0) != 'X' {
		t.Errorf("view does not alias the backing slice")
	}
}
