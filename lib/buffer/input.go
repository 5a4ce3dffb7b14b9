package buffer

import (
	"encoding/binary"
	"math"
)

// InputStream reads big-endian values from a bounded window of a byte slice.
// Every read fails with ErrTruncated if the window ends before the value.
type InputStream struct {
	buf   []byte
	start int
	pos   int
	limit int
}

// NewInputStream creates a stream over all of b
func NewInputStream(b []byte) *InputStream {
	in := &InputStream{}
	in.Restart(b)
	return in
}

// NewInputStreamView creates a stream over the bytes of v
func NewInputStreamView(v ByteView) *InputStream {
	in := &InputStream{}
	in.RestartView(v)
	return in
}

// Restart rebinds the stream to b without allocating
func (in *InputStream) Restart(b []byte) {
	in.buf = b
	in.start = 0
	in.pos = 0
	in.limit = len(b)
}

// RestartView rebinds the stream to the window of v without allocating
func (in *InputStream) RestartView(v ByteView) {
	in.buf = v.data
	in.start = v.offset
	in.pos = v.offset
	in.limit = v.offset + v.length
}

// Position returns the number of bytes consumed since the start of the window
func (in *InputStream) Position() int { return in.pos - in.start }

// Available returns the number of unread bytes in the window
func (in *InputStream) Available() int { return in.limit - in.pos }

// Limit shrinks the window to the next n bytes
func (in *InputStream) Limit(n int) error {
	if n < 0 {
		return ErrNegativeLength
	}
	if n > in.Available() {
		return ErrTruncated
	}
	in.limit = in.pos + n
	return nil
}

func (in *InputStream) next(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if n > in.limit-in.pos {
		return nil, ErrTruncated
	}
	b := in.buf[in.pos : in.pos+n]
	in.pos += n
	return b, nil
}

// Skip discards n bytes
func (in *InputStream) Skip(n int) error {
	_, err := in.next(n)
	return err
}

func (in *InputStream) ReadBool() (bool, error) {
	v, err := in.ReadUint8()
	return v != 0, err
}

func (in *InputStream) ReadUint8() (uint8, error) {
	b, err := in.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (in *InputStream) ReadInt8() (int8, error) {
	v, err := in.ReadUint8()
	return int8(v), err
}

func (in *InputStream) ReadUint16() (uint16, error) {
	b, err := in.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (in *InputStream) ReadInt16() (int16, error) {
	v, err := in.ReadUint16()
	return int16(v), err
}

func (in *InputStream) ReadInt32() (int32, error) {
	b, err := in.next(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (in *InputStream) ReadInt64() (int64, error) {
	b, err := in.next(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (in *InputStream) ReadFloat32() (float32, error) {
	v, err := in.ReadInt32()
	return math.Float32frombits(uint32(v)), err
}

func (in *InputStream) ReadFloat64() (float64, error) {
	v, err := in.ReadInt64()
	return math.Float64frombits(uint64(v)), err
}

// ReadFully returns a copy of the next n bytes
func (in *InputStream) ReadFully(n int) ([]byte, error) {
	b, err := in.next(n)
	if err != nil {
		return nil, err
	}
	c := make([]byte, n)
	copy(c, b)
	return c, nil
}

// ReadView returns the next n bytes as a view aliasing the stream storage
func (in *InputStream) ReadView(n int) (ByteView, error) {
	if _, err := in.next(n); err != nil {
		return ByteView{}, err
	}
	return ByteView{data: in.buf, offset: in.pos - n, length: n}, nil
}

// ReadUTF reads a 2-byte length prefixed modified UTF-8 string
func (in *InputStream) ReadUTF() (string, error) {
	n, err := in.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := in.next(int(n))
	if err != nil {
		return "", err
	}
	return DecodeModifiedUTF8(b)
}
