package schema

import (
	"bytes"
	"testing"

	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

func TestDumpThenCheck(t *testing.T) {
	for _, version := range []int{1, 6, schema.MaxVersion} {
		want := command.SchemasFor(version)

		var buf bytes.Buffer
		if err := schema.WriteTOML(&buf, want); err != nil {
			t.Fatalf("v%d: WriteTOML failed: %v", version, err)
		}
		loaded, err := schema.LoadTOML(&buf)
		if err != nil {
			t.Fatalf("v%d: LoadTOML failed: %v", version, err)
		}
		if diffs := Check(want, loaded); len(diffs) != 0 {
			t.Errorf("v%d: unexpected differences: %v", version, diffs)
		}
	}
}

func TestCheckReportsChanges(t *testing.T) {
	want := command.SchemasFor(schema.MaxVersion)

	var buf bytes.Buffer
	if err := schema.WriteTOML(&buf, want); err != nil {
		t.Fatal(err)
	}
	loaded, err := schema.LoadTOML(&buf)
	if err != nil {
		t.Fatal(err)
	}

	// drop one type and renumber a property of another
	var changed []*schema.Schema
	for _, s := range loaded {
		if s.TypeCode == command.MessageAckType {
			continue
		}
		if s.TypeCode == command.SessionInfoType {
			s.Properties[0].Version = 2
		}
		changed = append(changed, s)
	}

	diffs := Check(want, changed)
	if len(diffs) != 2 {
		t.Errorf("got %d differences, want 2: %v", len(diffs), diffs)
	}
}

func TestWithBases(t *testing.T) {
	all := withBases(command.SchemasFor(schema.MaxVersion))
	seen := make(map[*schema.Schema]int)
	for i, s := range all {
		if _, dup := seen[s]; dup {
			t.Fatalf("%s listed twice", s.Name)
		}
		seen[s] = i
		if s.Base != nil {
			if j, ok := seen[s.Base]; !ok || j > i {
				t.Errorf("base %s of %s not listed before it", s.Base.Name, s.Name)
			}
		}
	}
}
