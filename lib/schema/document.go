package schema

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("schema")

type document struct {
	Types []typeDoc `toml:"type"`
}

type typeDoc struct {
	Name         string        `toml:"name"`
	TypeCode     int           `toml:"type_code,omitempty"`
	Base         string        `toml:"base,omitempty"`
	Since        int           `toml:"since,omitempty"`
	Until        int           `toml:"until,omitempty"`
	MarshalAware bool          `toml:"marshal_aware,omitempty"`
	Properties   []propertyDoc `toml:"property"`
}

type propertyDoc struct {
	Name     string `toml:"name"`
	Kind     Kind   `toml:"kind"`
	Version  int    `toml:"version"`
	Sequence int    `toml:"sequence"`
	Size     int    `toml:"size,omitempty"`
	Cached   bool   `toml:"cached,omitempty"`
}

// LoadTOMLFile reads a schema document from path
func LoadTOMLFile(path string) ([]*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schema load failed (%s): %w", path, err)
	}
	defer f.Close()
	return LoadTOML(f)
}

// LoadTOML parses a schema document. Base references are resolved by name
// within the document. The result is validated; schemas carry no accessors.
func LoadTOML(r io.Reader) ([]*Schema, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("schema parse failed: %w", err)
	}

	byName := make(map[string]*Schema, len(doc.Types))
	out := make([]*Schema, 0, len(doc.Types))
	for _, td := range doc.Types {
		if td.TypeCode < 0 || td.TypeCode > 255 {
			return nil, &ConfigError{Schema: td.Name, Reason: fmt.Sprintf("type code %d out of range", td.TypeCode)}
		}
		s := &Schema{
			Name:         td.Name,
			TypeCode:     byte(td.TypeCode),
			Since:        td.Since,
			Until:        td.Until,
			MarshalAware: td.MarshalAware,
		}
		for _, pd := range td.Properties {
			s.Properties = append(s.Properties, Property{
				Name:     pd.Name,
				Kind:     pd.Kind,
				Version:  pd.Version,
				Sequence: pd.Sequence,
				Size:     pd.Size,
				Cached:   pd.Cached,
			})
		}
		// a name may repeat once per version range, bases resolve to the first
		if _, dup := byName[td.Name]; !dup {
			byName[td.Name] = s
		}
		out = append(out, s)
	}

	for i, td := range doc.Types {
		if td.Base == "" {
			continue
		}
		base, ok := byName[td.Base]
		if !ok {
			return nil, &ConfigError{Schema: td.Name, Reason: fmt.Sprintf("unknown base %q", td.Base)}
		}
		out[i].Base = base
	}

	if err := ValidateAll(out); err != nil {
		return nil, err
	}
	Logger.Debugf("loaded %d schemas", len(out))
	return out, nil
}

// WriteTOML writes the schemas and every base group they reference as a
// schema document. Base groups are written before the types extending them.
func WriteTOML(w io.Writer, schemas []*Schema) error {
	var doc document
	written := make(map[*Schema]bool)
	var add func(s *Schema)
	add = func(s *Schema) {
		if s == nil || written[s] {
			return
		}
		add(s.Base)
		written[s] = true
		td := typeDoc{
			Name:         s.Name,
			TypeCode:     int(s.TypeCode),
			Since:        s.Since,
			Until:        s.Until,
			MarshalAware: s.MarshalAware,
		}
		if s.Base != nil {
			td.Base = s.Base.Name
		}
		for _, p := range s.Ordered() {
			td.Properties = append(td.Properties, propertyDoc{
				Name:     p.Name,
				Kind:     p.Kind,
				Version:  p.Version,
				Sequence: p.Sequence,
				Size:     p.Size,
				Cached:   p.Cached,
			})
		}
		doc.Types = append(doc.Types, td)
	}
	for _, s := range schemas {
		add(s)
	}

	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("schema encode failed: %w", err)
	}
	return nil
}

// Diff compares two schema sets by name and version range and returns a
// human readable line for every difference in wire layout.
func Diff(want, got []*Schema) []string {
	key := func(s *Schema) string { return fmt.Sprintf("%s[%d..%d]", s.Name, s.Since, s.Until) }
	index := make(map[string]*Schema, len(got))
	for _, s := range got {
		index[key(s)] = s
	}

	var diffs []string
	matched := make(map[string]bool)
	for _, w := range want {
		k := key(w)
		g, ok := index[k]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("%s: missing", k))
			continue
		}
		matched[k] = true
		if w.TypeCode != g.TypeCode {
			diffs = append(diffs, fmt.Sprintf("%s: type code %d != %d", k, w.TypeCode, g.TypeCode))
		}
		if baseName(w) != baseName(g) {
			diffs = append(diffs, fmt.Sprintf("%s: base %q != %q", k, baseName(w), baseName(g)))
		}
		wp, gp := w.Ordered(), g.Ordered()
		if len(wp) != len(gp) {
			diffs = append(diffs, fmt.Sprintf("%s: %d properties != %d", k, len(wp), len(gp)))
			continue
		}
		for i := range wp {
			if !sameLayout(&wp[i], &gp[i]) {
				diffs = append(diffs, fmt.Sprintf("%s: property %s != %s", k, wp[i].String(), gp[i].String()))
			}
		}
	}
	for _, g := range got {
		if !matched[key(g)] {
			diffs = append(diffs, fmt.Sprintf("%s: unexpected", key(g)))
		}
	}
	return diffs
}

func baseName(s *Schema) string {
	if s.Base == nil {
		return ""
	}
	return s.Base.Name
}

func sameLayout(a, b *Property) bool {
	return a.Name == b.Name && a.Kind == b.Kind && a.Version == b.Version &&
		a.Sequence == b.Sequence && a.Size == b.Size && a.Cached == b.Cached
}
