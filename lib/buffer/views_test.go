package buffer

import (
	"errors"
	"testing"

	"github.com/apache/activemq-openwire-sub001/lib/util"
)

func TestByteViewCompare(t *testing.T) {
	tests := []struct {
		a, b []byte
		want int
	}{
		{[]byte("abc"), []byte("abc"), 0},
		{[]byte("abc"), []byte("abd"), -1},
		{[]byte("ab"), []byte("abc"), -1},
		{[]byte{0xFF}, []byte{0x01}, 1}, // unsigned ordering
		{nil, []byte{}, 0},
	}
	for _, tt := range tests {
		if got := NewByteView(tt.a).Compare(NewByteView(tt.b)); got != tt.want {
			t.Errorf("Compare(% x, % x) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestByteViewSlicing(t *testing.T) {
	backing := []byte("--hello--")
	v := NewByteViewRange(backing, 2, 5)
	if v.ASCII() != "hello" {
		t.Fatalf("view = %q", v.ASCII())
	}
	sub := v.Slice(1, 3)
	if sub.ASCII() != "el" || sub.Offset() != 3 {
		t.Errorf("sub view = %q at %d", sub.ASCII(), sub.Offset())
	}
	if v.IndexByte('l') != 2 {
		t.Errorf("IndexByte = %d", v.IndexByte('l'))
	}
	if !v.HasPrefix([]byte("he")) {
		t.Errorf("HasPrefix failed")
	}
	c := v.Copy()
	c[0] = 'j'
	if v.At(0) != 'h' {
		t.Errorf("Copy aliases the backing slice")
	}
}

func TestByteViewRendering(t *testing.T) {
	v := NewByteView([]byte{'A', 0x00, 'z', 0xFF})
	if v.ASCII() != "A.z." {
		t.Errorf("ASCII = %q", v.ASCII())
	}
	if v.Hex() != "41007aff" {
		t.Errorf("Hex = %q", v.Hex())
	}
	var empty ByteView
	if !empty.IsNil() || empty.String() != "ByteView(nil)" {
		t.Errorf("zero view renders as %q", empty.String())
	}
}

func TestByteViewRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for out of range view")
		}
	}()
	NewByteViewRange([]byte{1, 2}, 1, 2)
}

func TestTextView(t *testing.T) {
	tv, err := NewTextView(NewByteView([]byte("ID:broker-1")))
	if err != nil {
		t.Fatalf("NewTextView failed: %v", err)
	}
	if tv.String() != "ID:broker-1" || tv.Len() != 11 {
		t.Errorf("text = %q (%d)", tv.String(), tv.Len())
	}
	if tv.Hash() != util.HashString("ID:broker-1", 0) {
		t.Errorf("hash mismatch")
	}
	if !tv.Equal(TextViewOf("ID:broker-1")) {
		t.Errorf("equal views compare unequal")
	}
	if tv.Compare(TextViewOf("ID:broker-2")) != -1 {
		t.Errorf("ordering wrong")
	}

	// Reset must drop the memo
	if err := tv.Reset(NewByteView([]byte("other"))); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if tv.String() != "other" || tv.Hash() != util.HashString("other", 0) {
		t.Errorf("stale memo after reset: %q", tv.String())
	}

	if _, err := NewTextView(NewByteView([]byte{0xFF, 0xFE})); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("invalid UTF-8: got %v", err)
	}
}
