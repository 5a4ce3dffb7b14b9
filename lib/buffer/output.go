package buffer

import (
	"encoding/binary"
	"math"
)

const defaultCapacity = 64

// OutputStream is a growable big-endian writer.
//
// Writing primitives never fails. The only failure mode is growth arithmetic
// overflow for pathological sizes; it is sticky: all further writes become
// no-ops and Err() reports the error.
type OutputStream struct {
	buf []byte
	pos int
	err error
}

// NewOutputStream creates a stream with an initial capacity
func NewOutputStream(capacity int) *OutputStream {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &OutputStream{buf: make([]byte, capacity)}
}

// Restart rewinds the stream for a new message and makes sure at least
// capacity bytes are available without reallocating again.
func (o *OutputStream) Restart(capacity int) {
	o.pos = 0
	o.err = nil
	if capacity > len(o.buf) {
		o.buf = make([]byte, capacity)
	}
}

// Size returns the number of bytes written
func (o *OutputStream) Size() int { return o.pos }

// Capacity returns the size of the backing slice
func (o *OutputStream) Capacity() int { return len(o.buf) }

// Bytes returns the written bytes. The slice aliases the stream storage and is
// only valid until the next write or Restart.
func (o *OutputStream) Bytes() []byte { return o.buf[:o.pos] }

// View returns the written bytes as a ByteView
func (o *OutputStream) View() ByteView { return NewByteViewRange(o.buf, 0, o.pos) }

// Err returns the sticky growth error, if any
func (o *OutputStream) Err() error { return o.err }

// ensure grows the backing slice so that n more bytes fit. The capacity is
// doubled until it is large enough.
func (o *OutputStream) ensure(n int) bool {
	if o.err != nil {
		return false
	}
	if n < 0 || o.pos > math.MaxInt-n {
		o.err = ErrBufferOverflow
		return false
	}
	need := o.pos + n
	if need <= len(o.buf) {
		return true
	}
	newCap := len(o.buf)
	if newCap == 0 {
		newCap = defaultCapacity
	}
	for newCap < need {
		if newCap > math.MaxInt/2 {
			newCap = need
			break
		}
		newCap *= 2
	}
	grown := make([]byte, newCap)
	copy(grown, o.buf[:o.pos])
	o.buf = grown
	return true
}

// --------------------------------------------------------------------------
// Sequential writes
// --------------------------------------------------------------------------

// Write implements io.Writer
func (o *OutputStream) Write(p []byte) (int, error) {
	if !o.ensure(len(p)) {
		return 0, o.err
	}
	o.pos += copy(o.buf[o.pos:], p)
	return len(p), nil
}

// Reserve skips n bytes and returns their offset so they can be patched later
// with an indexed write.
func (o *OutputStream) Reserve(n int) int {
	if !o.ensure(n) {
		return o.pos
	}
	offset := o.pos
	clear(o.buf[o.pos : o.pos+n])
	o.pos += n
	return offset
}

func (o *OutputStream) WriteBool(v bool) {
	if v {
		o.WriteUint8(1)
	} else {
		o.WriteUint8(0)
	}
}

func (o *OutputStream) WriteUint8(v uint8) {
	if o.ensure(1) {
		o.buf[o.pos] = v
		o.pos++
	}
}

func (o *OutputStream) WriteInt8(v int8) { o.WriteUint8(uint8(v)) }

func (o *OutputStream) WriteUint16(v uint16) {
	if o.ensure(2) {
		binary.BigEndian.PutUint16(o.buf[o.pos:], v)
		o.pos += 2
	}
}

func (o *OutputStream) WriteInt16(v int16) { o.WriteUint16(uint16(v)) }

func (o *OutputStream) WriteInt32(v int32) {
	if o.ensure(4) {
		binary.BigEndian.PutUint32(o.buf[o.pos:], uint32(v))
		o.pos += 4
	}
}

func (o *OutputStream) WriteInt64(v int64) {
	if o.ensure(8) {
		binary.BigEndian.PutUint64(o.buf[o.pos:], uint64(v))
		o.pos += 8
	}
}

func (o *OutputStream) WriteFloat32(v float32) { o.WriteInt32(int32(math.Float32bits(v))) }

func (o *OutputStream) WriteFloat64(v float64) { o.WriteInt64(int64(math.Float64bits(v))) }

// WriteUTF writes s as a 2-byte length followed by its modified UTF-8
// encoding. Strings whose encoding exceeds MaxUTFLength fail with
// ErrStringTooLong before anything is written.
func (o *OutputStream) WriteUTF(s string) error {
	n, ascii := ModifiedUTF8Len(s)
	if n > MaxUTFLength {
		return ErrStringTooLong
	}
	if !o.ensure(2 + n) {
		return o.err
	}
	binary.BigEndian.PutUint16(o.buf[o.pos:], uint16(n))
	o.pos += 2
	if ascii {
		o.pos += copy(o.buf[o.pos:], s)
		return nil
	}
	encoded := AppendModifiedUTF8(o.buf[o.pos:o.pos], s)
	o.pos += len(encoded)
	return nil
}

// --------------------------------------------------------------------------
// Indexed writes
// --------------------------------------------------------------------------

// WriteAt overwrites already written bytes at offset. The sequential write
// position is not changed.
func (o *OutputStream) WriteAt(offset int, p []byte) error {
	if offset < 0 || offset > o.pos || len(p) > o.pos-offset {
		return ErrTruncated
	}
	copy(o.buf[offset:], p)
	return nil
}

// WriteInt32At patches a big-endian int32 at offset (typically a size prefix
// reserved with Reserve). The sequential write position is not changed.
func (o *OutputStream) WriteInt32At(offset int, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return o.WriteAt(offset, b[:])
}
