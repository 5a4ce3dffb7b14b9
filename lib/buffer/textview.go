package buffer

import (
	"strings"
	"unicode/utf8"

	"github.com/apache/activemq-openwire-sub001/lib/util"
)

// TextView is a ByteView holding valid UTF-8. The decoded text and its hash
// are computed lazily and memoized until Reset rebinds the view.
type TextView struct {
	view ByteView

	text    string
	decoded bool
	hash    uint64
	hashed  bool
}

// NewTextView wraps v. It fails with ErrInvalidUTF8 if v is not valid UTF-8.
func NewTextView(v ByteView) (*TextView, error) {
	t := &TextView{}
	if err := t.Reset(v); err != nil {
		return nil, err
	}
	return t, nil
}

// TextViewOf creates a view over the UTF-8 bytes of s with the text memo
// already populated.
func TextViewOf(s string) *TextView {
	return &TextView{view: NewByteView([]byte(s)), text: s, decoded: true}
}

// Reset rebinds the view to v and drops the memoized text and hash
func (t *TextView) Reset(v ByteView) error {
	if !utf8.Valid(v.Bytes()) {
		return ErrInvalidUTF8
	}
	t.view = v
	t.text = ""
	t.decoded = false
	t.hash = 0
	t.hashed = false
	return nil
}

// View returns the raw bytes of the text
func (t *TextView) View() ByteView { return t.view }

// Len returns the encoded length in bytes
func (t *TextView) Len() int { return t.view.Len() }

// String returns the decoded text
func (t *TextView) String() string {
	if !t.decoded {
		t.text = string(t.view.Bytes())
		t.decoded = true
	}
	return t.text
}

// Hash returns the FNV-1a hash of the decoded text
func (t *TextView) Hash() uint64 {
	if !t.hashed {
		t.hash = util.HashString(t.String(), 0)
		t.hashed = true
	}
	return t.hash
}

// Compare orders text views by their decoded text
func (t *TextView) Compare(o *TextView) int {
	return strings.Compare(t.String(), o.String())
}

// Equal reports whether both views decode to the same text
func (t *TextView) Equal(o *TextView) bool {
	if t.Hash() != o.Hash() {
		return false
	}
	return t.String() == o.String()
}
