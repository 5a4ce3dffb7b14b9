package schema

import (
	"fmt"
	"sort"
)

// MaxVersion is the highest protocol version any schema may declare
const MaxVersion = 12

// ConfigError reports an invalid schema. It is a build time error and never
// the result of decoding data.
type ConfigError struct {
	Schema   string
	Property string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("schema: %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("schema: %s.%s: %s", e.Schema, e.Property, e.Reason)
}

func configErr(s *Schema, p *Property, format string, args ...any) *ConfigError {
	e := &ConfigError{Schema: s.Name, Reason: fmt.Sprintf(format, args...)}
	if p != nil {
		e.Property = p.Name
	}
	return e
}

// Validate checks the schema and its base groups.
//
// The own sequence numbers of every schema must form the range 1..N, names
// must be unique across the chain, versions must be within 1..MaxVersion,
// kinds must be known and fixed-bytes properties need a size.
func Validate(s *Schema) error {
	if s == nil {
		return &ConfigError{Schema: "<nil>", Reason: "nil schema"}
	}
	if s.Name == "" {
		return &ConfigError{Schema: fmt.Sprintf("type %d", s.TypeCode), Reason: "missing name"}
	}
	if s.Since < 0 || s.Since > MaxVersion {
		return configErr(s, nil, "since version %d out of range", s.Since)
	}
	if s.Until != 0 && s.Until < s.Since {
		return configErr(s, nil, "empty version range %d..%d", s.Since, s.Until)
	}
	if !s.Abstract() && s.New == nil && hasAccessors(s) {
		return configErr(s, nil, "concrete type without factory")
	}

	seen := make(map[string]string)
	depth := 0
	for cur := s; cur != nil; cur = cur.Base {
		depth++
		if depth > 16 {
			return configErr(s, nil, "base chain too deep or cyclic")
		}
		if err := validateOwn(cur, seen); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll validates every schema and reports the first failure
func ValidateAll(schemas []*Schema) error {
	for _, s := range schemas {
		if err := Validate(s); err != nil {
			return err
		}
	}
	return nil
}

func hasAccessors(s *Schema) bool {
	for _, g := range s.Chain() {
		for i := range g.Properties {
			if g.Properties[i].Get != nil {
				return true
			}
		}
	}
	return false
}

func validateOwn(s *Schema, seen map[string]string) error {
	seqs := make([]int, 0, len(s.Properties))
	for i := range s.Properties {
		p := &s.Properties[i]
		if p.Name == "" {
			return configErr(s, p, "property %d has no name", i)
		}
		if owner, dup := seen[p.Name]; dup {
			return configErr(s, p, "duplicate property name (also declared by %s)", owner)
		}
		seen[p.Name] = s.Name

		if !p.Kind.Valid() {
			return configErr(s, p, "unknown kind %s", p.Kind)
		}
		if p.Version < 1 || p.Version > MaxVersion {
			return configErr(s, p, "version %d out of range 1..%d", p.Version, MaxVersion)
		}
		if p.Kind == KindFixedBytes && p.Size <= 0 {
			return configErr(s, p, "fixed-bytes property needs a size")
		}
		if p.Cached && p.Kind != KindArray {
			return configErr(s, p, "cached flag on %s property, use the cached kind", p.Kind)
		}
		if p.Sequence < 1 {
			return configErr(s, p, "sequence %d must be positive", p.Sequence)
		}
		if (p.Get == nil) != (p.Set == nil) {
			return configErr(s, p, "getter and setter must be declared together")
		}
		seqs = append(seqs, p.Sequence)
	}

	sort.Ints(seqs)
	for i, seq := range seqs {
		want := i + 1
		switch {
		case seq < want:
			return configErr(s, nil, "duplicate sequence number %d", seq)
		case seq > want:
			return configErr(s, nil, "sequence numbers must be 1..%d, missing %d", len(seqs), want)
		}
	}
	return nil
}
