package buffer

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// ByteView is an immutable window of Length bytes starting at Offset of a
// backing slice. Several views may share the same backing slice; the zero
// value is the empty (null) view.
type ByteView struct {
	data   []byte
	offset int
	length int
}

// NewByteView creates a view that covers all of b
func NewByteView(b []byte) ByteView {
	return ByteView{data: b, offset: 0, length: len(b)}
}

// NewByteViewRange creates a view of length bytes of b starting at offset.
// It panics if the window does not fit into b.
func NewByteViewRange(b []byte, offset, length int) ByteView {
	if offset < 0 || length < 0 || offset > len(b) || length > len(b)-offset {
		panic(fmt.Sprintf("buffer: view [%d:%d] out of range for %d bytes", offset, offset+length, len(b)))
	}
	return ByteView{data: b, offset: offset, length: length}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Len returns the view's length in bytes
func (v ByteView) Len() int { return v.length }

// Offset returns the offset of the view within its backing slice
func (v ByteView) Offset() int { return v.offset }

// IsNil reports whether the view has no backing storage at all
func (v ByteView) IsNil() bool { return v.data == nil }

// Bytes returns the viewed bytes. The result aliases the backing storage and
// must not be modified.
func (v ByteView) Bytes() []byte {
	if v.data == nil {
		return nil
	}
	return v.data[v.offset : v.offset+v.length : v.offset+v.length]
}

// Copy returns a copy of the viewed bytes
func (v ByteView) Copy() []byte {
	if v.data == nil {
		return nil
	}
	c := make([]byte, v.length)
	copy(c, v.Bytes())
	return c
}

// At returns the byte at index i of the view
func (v ByteView) At(i int) byte {
	if i < 0 || i >= v.length {
		panic(fmt.Sprintf("buffer: index %d out of range for view of %d bytes", i, v.length))
	}
	return v.data[v.offset+i]
}

// Slice returns the sub view [from, to) sharing the same storage
func (v ByteView) Slice(from, to int) ByteView {
	if from < 0 || to < from || to > v.length {
		panic(fmt.Sprintf("buffer: slice [%d:%d] out of range for view of %d bytes", from, to, v.length))
	}
	return ByteView{data: v.data, offset: v.offset + from, length: to - from}
}

// IndexByte returns the index of the first occurrence of c in the view, or -1
func (v ByteView) IndexByte(c byte) int {
	return bytes.IndexByte(v.Bytes(), c)
}

// HasPrefix reports whether the view starts with prefix
func (v ByteView) HasPrefix(prefix []byte) bool {
	return bytes.HasPrefix(v.Bytes(), prefix)
}

// --------------------------------------------------------------------------
// Comparison
// --------------------------------------------------------------------------

// Equal reports whether both views hold the same bytes
func (v ByteView) Equal(o ByteView) bool {
	return bytes.Equal(v.Bytes(), o.Bytes())
}

// Compare orders views by unsigned lexicographic byte content. The result is
// 0 if v == o, -1 if v < o and +1 if v > o.
func (v ByteView) Compare(o ByteView) int {
	return bytes.Compare(v.Bytes(), o.Bytes())
}

// --------------------------------------------------------------------------
// Diagnostics
// --------------------------------------------------------------------------

// ASCII renders the view as ASCII text, printing '.' for non printable bytes
func (v ByteView) ASCII() string {
	b := v.Bytes()
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c < 0x7F {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

// Hex renders the view as lower case hex digits
func (v ByteView) Hex() string {
	return hex.EncodeToString(v.Bytes())
}

// String implements fmt.Stringer
func (v ByteView) String() string {
	if v.data == nil {
		return "ByteView(nil)"
	}
	return fmt.Sprintf("ByteView[%d]{%s}", v.length, v.ASCII())
}
