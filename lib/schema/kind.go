package schema

import "fmt"

// Kind is the declared wire type of a property. Each kind maps to exactly one
// tight and one loose encoding rule.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindString
	KindBytes
	KindNested
	KindCached
	KindThrowable
	KindFixedBytes
	KindArray
	kindCount
)

// NumKinds is the size of a table indexed by Kind
const NumKinds = int(kindCount)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindBool:       "bool",
	KindByte:       "byte",
	KindChar:       "char",
	KindShort:      "short",
	KindInt:        "int",
	KindLong:       "long",
	KindString:     "string",
	KindBytes:      "bytes",
	KindNested:     "nested",
	KindCached:     "cached",
	KindThrowable:  "throwable",
	KindFixedBytes: "fixed-bytes",
	KindArray:      "array",
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

// IsObject reports whether values of this kind are data structures
func (k Kind) IsObject() bool { return k == KindNested || k == KindCached }

// String returns the name of the kind as used in schema documents
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind returns the kind for a schema document name
func ParseKind(s string) (Kind, error) {
	for k := KindBool; k < kindCount; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("schema: unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("schema: cannot encode %s", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
