package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Getter reads a property value from an object
type Getter func(obj any) any

// Setter stores a decoded property value on an object
type Setter func(obj any, v any) error

// Property describes one declared field of a data structure.
//
// Value types by kind: bool, byte, uint16 (char), int16, int32, int64, string,
// []byte (bytes and fixed-bytes), a data structure (nested and cached), the
// broker error type (throwable) and a slice of data structures (array).
type Property struct {
	Name     string
	Kind     Kind
	Version  int // first protocol version carrying the field
	Sequence int // position within the owning schema, starting at 1
	Size     int // size hint, exact length for fixed-bytes

	// Cached selects the cached rule for array elements
	Cached bool

	Get Getter
	Set Setter
}

// AppliesTo reports whether the property is on the wire for version
func (p *Property) AppliesTo(version int) bool { return version >= p.Version }

// IsCached reports whether the property (or its elements) use the cache
func (p *Property) IsCached() bool {
	return p.Kind == KindCached || (p.Kind == KindArray && p.Cached)
}

// IsThrowable reports whether the property carries an exception
func (p *Property) IsThrowable() bool { return p.Kind == KindThrowable }

func (p *Property) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%s %s v%d", p.Sequence, p.Name, p.Kind, p.Version)
	if p.Size > 0 {
		fmt.Fprintf(&sb, " size=%d", p.Size)
	}
	if p.Cached {
		sb.WriteString(" cached")
	}
	return sb.String()
}

// Schema describes a data structure type or an abstract field group.
//
// A schema without a type code is a field group that concrete types extend
// through Base. When marshaling, the base group is processed first. Project
// maps a concrete object to the receiver the group's accessors expect; nil
// means the object itself.
type Schema struct {
	Name     string
	TypeCode byte
	Base     *Schema
	Project  func(obj any) any

	// Since and Until bound the protocol versions the schema applies to.
	// Until 0 means no upper bound.
	Since int
	Until int

	// MarshalAware types get their before/after hooks called
	MarshalAware bool

	// New allocates a blank instance, nil for field groups
	New func() any

	Properties []Property
}

// Abstract reports whether the schema is a field group without a type code
func (s *Schema) Abstract() bool { return s.TypeCode == 0 }

// AppliesTo reports whether the schema is used for version
func (s *Schema) AppliesTo(version int) bool {
	if version < s.Since {
		return false
	}
	return s.Until == 0 || version <= s.Until
}

// Chain returns the schema and its bases, outermost base first
func (s *Schema) Chain() []*Schema {
	var chain []*Schema
	for cur := s; cur != nil; cur = cur.Base {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Ordered returns the own properties sorted by sequence
func (s *Schema) Ordered() []Property {
	props := make([]Property, len(s.Properties))
	copy(props, s.Properties)
	sort.SliceStable(props, func(i, j int) bool { return props[i].Sequence < props[j].Sequence })
	return props
}

// AllProperties returns the inherited and own properties in wire order
func (s *Schema) AllProperties() []Property {
	var props []Property
	for _, group := range s.Chain() {
		props = append(props, group.Ordered()...)
	}
	return props
}

// Property returns the own or inherited property named name
func (s *Schema) Property(name string) (*Property, bool) {
	for cur := s; cur != nil; cur = cur.Base {
		for i := range cur.Properties {
			if cur.Properties[i].Name == name {
				return &cur.Properties[i], true
			}
		}
	}
	return nil, false
}

func (s *Schema) String() string {
	if s.Abstract() {
		return s.Name
	}
	return fmt.Sprintf("%s(%d)", s.Name, s.TypeCode)
}
