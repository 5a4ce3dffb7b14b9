package boolstream

import (
	"errors"
	"fmt"

	"github.com/apache/activemq-openwire-sub001/lib/buffer"
)

var (
	ErrExhausted = errors.New("boolstream: read past the end of the bit table")
	ErrMalformed = errors.New("boolstream: malformed bit table header")
)

const (
	markerByte  = 0xC0
	markerShort = 0x80
	markerInt   = 0x40
	markerMask  = 0xC0
)

// BooleanStream is an ordered, growable sequence of flags
type BooleanStream struct {
	data  []byte
	count int
	read  int
}

// New creates an empty stream ready for writing
func New() *BooleanStream {
	return &BooleanStream{data: make([]byte, 0, 8)}
}

// Reset clears the stream for reuse, keeping the storage
func (bs *BooleanStream) Reset() {
	bs.data = bs.data[:0]
	bs.count = 0
	bs.read = 0
}

// Rewind moves the read cursor back to the first flag
func (bs *BooleanStream) Rewind() { bs.read = 0 }

// Len returns the number of flags in the stream
func (bs *BooleanStream) Len() int { return bs.count }

// Remaining returns the number of flags not read yet
func (bs *BooleanStream) Remaining() int { return bs.count - bs.read }

// WriteBoolean appends a flag
func (bs *BooleanStream) WriteBoolean(v bool) {
	idx := bs.count >> 3
	if idx == len(bs.data) {
		bs.data = append(bs.data, 0)
	}
	if v {
		bs.data[idx] |= 1 << (bs.count & 7)
	}
	bs.count++
}

// ReadBoolean returns the next flag
func (bs *BooleanStream) ReadBoolean() (bool, error) {
	if bs.read >= bs.count {
		return false, ErrExhausted
	}
	v := bs.data[bs.read>>3]&(1<<(bs.read&7)) != 0
	bs.read++
	return v, nil
}

// MarshalledSize returns the number of bytes Marshal writes
func (bs *BooleanStream) MarshalledSize() int {
	return headerSize(bs.count) + len(bs.data)
}

func headerSize(count int) int {
	switch {
	case count < 64:
		return 1
	case count < 256:
		return 2
	case count < 65536:
		return 3
	default:
		return 5
	}
}

// Marshal writes the table and rewinds the read cursor so the flags can be
// replayed by the second marshaling pass.
func (bs *BooleanStream) Marshal(out *buffer.OutputStream) {
	switch {
	case bs.count < 64:
		out.WriteUint8(uint8(bs.count))
	case bs.count < 256:
		out.WriteUint8(markerByte)
		out.WriteUint8(uint8(bs.count))
	case bs.count < 65536:
		out.WriteUint8(markerShort)
		out.WriteUint16(uint16(bs.count))
	default:
		out.WriteUint8(markerInt)
		out.WriteInt32(int32(bs.count))
	}
	_, _ = out.Write(bs.data)
	bs.read = 0
}

// Unmarshal replaces the content of the stream with a table read from in
func (bs *BooleanStream) Unmarshal(in *buffer.InputStream) error {
	head, err := in.ReadUint8()
	if err != nil {
		return err
	}

	var count int
	switch head & markerMask {
	case 0:
		count = int(head)
	case markerByte:
		if head != markerByte {
			return fmt.Errorf("%w: 0x%02x", ErrMalformed, head)
		}
		v, err := in.ReadUint8()
		if err != nil {
			return err
		}
		count = int(v)
	case markerShort:
		if head != markerShort {
			return fmt.Errorf("%w: 0x%02x", ErrMalformed, head)
		}
		v, err := in.ReadUint16()
		if err != nil {
			return err
		}
		count = int(v)
	default:
		if head != markerInt {
			return fmt.Errorf("%w: 0x%02x", ErrMalformed, head)
		}
		v, err := in.ReadInt32()
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("%w: negative bit count %d", ErrMalformed, v)
		}
		count = int(v)
	}

	n := (count + 7) >> 3
	raw, err := in.ReadView(n)
	if err != nil {
		return err
	}
	bs.data = append(bs.data[:0], raw.Bytes()...)
	bs.count = count
	bs.read = 0
	return nil
}

// String renders the flags as a string of 0 and 1 characters
func (bs *BooleanStream) String() string {
	out := make([]byte, bs.count)
	for i := 0; i < bs.count; i++ {
		if bs.data[i>>3]&(1<<(i&7)) != 0 {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}
