package schema

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func testBase() *Schema {
	return &Schema{
		Name: "BaseCommand",
		Properties: []Property{
			{Name: "commandId", Kind: KindInt, Version: 1, Sequence: 1},
			{Name: "responseRequired", Kind: KindBool, Version: 1, Sequence: 2},
		},
	}
}

func testType(base *Schema) *Schema {
	return &Schema{
		Name:     "MessageAck",
		TypeCode: 22,
		Base:     base,
		Since:    1,
		Properties: []Property{
			{Name: "messageCount", Kind: KindInt, Version: 1, Sequence: 3},
			{Name: "destination", Kind: KindCached, Version: 1, Sequence: 1},
			{Name: "ackType", Kind: KindByte, Version: 1, Sequence: 2},
			{Name: "poisonCause", Kind: KindThrowable, Version: 7, Sequence: 4},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := Validate(testType(testBase())); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Schema)
		reason string
	}{
		{"gap", func(s *Schema) { s.Properties[0].Sequence = 5 }, "missing 3"},
		{"duplicate sequence", func(s *Schema) { s.Properties[0].Sequence = 1 }, "duplicate sequence"},
		{"zero sequence", func(s *Schema) { s.Properties[1].Sequence = 0 }, "must be positive"},
		{"duplicate name", func(s *Schema) { s.Properties[0].Name = "ackType" }, "duplicate property name"},
		{"inherited name", func(s *Schema) { s.Properties[0].Name = "commandId" }, "duplicate property name"},
		{"version zero", func(s *Schema) { s.Properties[0].Version = 0 }, "version 0"},
		{"version too high", func(s *Schema) { s.Properties[0].Version = 13 }, "version 13"},
		{"unknown kind", func(s *Schema) { s.Properties[0].Kind = KindInvalid }, "unknown kind"},
		{"fixed without size", func(s *Schema) { s.Properties[0].Kind = KindFixedBytes }, "needs a size"},
		{"cached scalar", func(s *Schema) { s.Properties[0].Cached = true }, "cached flag"},
		{"empty range", func(s *Schema) { s.Since, s.Until = 5, 3 }, "empty version range"},
		{"getter only", func(s *Schema) {
			s.New = func() any { return nil }
			s.Properties[0].Get = func(any) any { return nil }
		}, "getter and setter"},
		{"accessors without factory", func(s *Schema) {
			s.Properties[0].Get = func(any) any { return nil }
			s.Properties[0].Set = func(any, any) error { return nil }
		}, "without factory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testType(testBase())
			tt.mutate(s)
			err := Validate(s)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if !strings.Contains(cfgErr.Error(), tt.reason) {
				t.Errorf("error %q does not mention %q", cfgErr.Error(), tt.reason)
			}
		})
	}
}

func TestValidateBaseSequences(t *testing.T) {
	base := testBase()
	base.Properties[1].Sequence = 3
	err := Validate(testType(base))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Schema != "BaseCommand" {
		t.Errorf("expected error for the base group, got %v", err)
	}
}

func TestWireOrder(t *testing.T) {
	s := testType(testBase())
	var names []string
	for _, p := range s.AllProperties() {
		names = append(names, p.Name)
	}
	want := "commandId responseRequired destination ackType messageCount poisonCause"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("wire order %q, want %q", got, want)
	}

	if p, ok := s.Property("responseRequired"); !ok || p.Kind != KindBool {
		t.Errorf("inherited property lookup failed")
	}
	if _, ok := s.Property("missing"); ok {
		t.Errorf("found a property that does not exist")
	}
}

func TestVersionRange(t *testing.T) {
	s := &Schema{Name: "MessageId", TypeCode: 110, Since: 1, Until: 9}
	if !s.AppliesTo(1) || !s.AppliesTo(9) || s.AppliesTo(10) {
		t.Errorf("bounded range wrong")
	}
	s.Since, s.Until = 10, 0
	if s.AppliesTo(9) || !s.AppliesTo(12) {
		t.Errorf("open range wrong")
	}
}

func TestKindText(t *testing.T) {
	for k := KindBool; k < kindCount; k++ {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil || back != k {
			t.Errorf("%s parsed as %s (%v)", text, back, err)
		}
	}
	if _, err := ParseKind("float"); err == nil {
		t.Errorf("unknown kind accepted")
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	fixed := &Schema{
		Name:     "WireFormatInfo",
		TypeCode: 1,
		Since:    1,
		Properties: []Property{
			{Name: "magic", Kind: KindFixedBytes, Version: 1, Sequence: 1, Size: 8},
			{Name: "brokerPath", Kind: KindArray, Version: 1, Sequence: 2, Cached: true},
		},
	}
	in := []*Schema{testType(testBase()), fixed}

	var buf bytes.Buffer
	if err := WriteTOML(&buf, in); err != nil {
		t.Fatalf("WriteTOML failed: %v", err)
	}
	if !strings.Contains(buf.String(), `kind = "fixed-bytes"`) {
		t.Errorf("kind not written as text:\n%s", buf.String())
	}

	loaded, err := LoadTOML(&buf)
	if err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	// the base group is written as its own entry
	if len(loaded) != 3 {
		t.Fatalf("loaded %d schemas, want 3", len(loaded))
	}
	if loaded[1].Base != loaded[0] {
		t.Errorf("base not resolved")
	}
	if diffs := Diff(append([]*Schema{testBase()}, in...), loaded); len(diffs) != 0 {
		t.Errorf("round trip differences: %v", diffs)
	}
}

func TestLoadTOMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown base", `
[[type]]
name = "X"
type_code = 5
base = "Nope"
`},
		{"sequence gap", `
[[type]]
name = "X"
type_code = 5
  [[type.property]]
  name = "a"
  kind = "int"
  version = 1
  sequence = 2
`},
		{"unknown kind", `
[[type]]
name = "X"
  [[type.property]]
  name = "a"
  kind = "float"
  version = 1
  sequence = 1
`},
		{"type code", `
[[type]]
name = "X"
type_code = 300
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTOML(strings.NewReader(tt.doc)); err == nil {
				t.Errorf("document accepted")
			}
		})
	}
}

func TestDiff(t *testing.T) {
	a := []*Schema{testType(testBase())}
	b := []*Schema{testType(testBase())}
	ackType, ok := b[0].Property("ackType")
	if !ok {
		t.Fatal("ackType not found")
	}
	ackType.Kind = KindShort
	b = append(b, &Schema{Name: "Extra", TypeCode: 99})

	diffs := Diff(a, b)
	if len(diffs) != 2 {
		t.Fatalf("diffs = %v", diffs)
	}
	if !strings.Contains(diffs[0], "ackType") || !strings.Contains(diffs[1], "unexpected") {
		t.Errorf("unexpected diff lines: %v", diffs)
	}
}
