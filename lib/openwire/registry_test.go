package openwire

import (
	"errors"
	"testing"

	"github.com/apache/activemq-openwire-sub001/lib/boolstream"
	"github.com/apache/activemq-openwire-sub001/lib/buffer"
	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

func TestRegistryFor(t *testing.T) {
	for version := MinVersion; version <= MaxVersion; version++ {
		r, err := RegistryFor(version)
		if err != nil {
			t.Fatalf("v%d: %v", version, err)
		}
		again, _ := RegistryFor(version)
		if r != again {
			t.Errorf("v%d: registry built twice", version)
		}
		want := 0
		for _, s := range command.SchemasFor(version) {
			if !s.Abstract() {
				want++
			}
		}
		if r.Len() != want || len(r.Types()) != want {
			t.Errorf("v%d: %d types registered, want %d", version, r.Len(), want)
		}
		if _, ok := r.Lookup(command.MessageAckType); !ok {
			t.Errorf("v%d: MessageAck missing", version)
		}
	}

	for _, v := range []int{0, MaxVersion + 1} {
		if _, err := RegistryFor(v); !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("RegistryFor(%d) err = %v", v, err)
		}
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	base, err := RegistryFor(MaxVersion)
	if err != nil {
		t.Fatal(err)
	}
	r := base.Clone()
	m, _ := base.Lookup(command.MessageAckType)
	var cfgErr *schema.ConfigError
	if err := r.Register(m); !errors.As(err, &cfgErr) {
		t.Errorf("duplicate register err = %v", err)
	}
	if err := r.Register(nullMarshaller{}); !errors.As(err, &cfgErr) {
		t.Errorf("register of type 0 err = %v", err)
	}
}

func TestRegistryChecksAccessors(t *testing.T) {
	s := &schema.Schema{
		Name: "Odd", TypeCode: command.QueueType, Since: 1,
		New: func() any { return &command.Queue{} },
		Properties: []schema.Property{{
			Name: "count", Kind: schema.KindInt, Version: 1, Sequence: 1,
			Get: func(any) any { return int64(0) },
			Set: func(any, any) error { return nil },
		}},
	}
	_, err := NewRegistry(MaxVersion, []*schema.Schema{s})
	var cfgErr *schema.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Property != "count" {
		t.Errorf("err = %v, want a config error for count", err)
	}
}

func TestCustomMarshaller(t *testing.T) {
	base, err := RegistryFor(MaxVersion)
	if err != nil {
		t.Fatal(err)
	}
	r := base.Clone()
	if err := r.Register(pingMarshaller{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := base.Lookup(pingType); ok {
		t.Fatal("clone shares its table with the shared registry")
	}

	for _, tight := range []bool{true, false} {
		cfg := testConfig(MaxVersion, tight)
		enc, err := NewFormatWithRegistry(cfg, r)
		if err != nil {
			t.Fatal(err)
		}
		dec, _ := NewFormatWithRegistry(cfg, r)
		got := mustUnmarshal(t, dec, mustMarshal(t, enc, &ping{seq: 99}))
		if p, ok := got.(*ping); !ok || p.seq != 99 {
			t.Errorf("%s: decoded %#v", encodingName(tight), got)
		}
	}

	if _, err := NewFormatWithRegistry(testConfig(3, true), r); err == nil {
		t.Errorf("registry of another version accepted")
	}
}

const pingType byte = 250

type ping struct{ seq int32 }

func (*ping) DataStructureType() byte { return pingType }

type pingMarshaller struct{}

func (pingMarshaller) DataStructureType() byte { return pingType }
func (pingMarshaller) CreateObject() command.DataStructure { return &ping{} }

func (pingMarshaller) TightMarshal1(*Format, command.DataStructure, *boolstream.BooleanStream) (int, error) {
	return 4, nil
}

func (m pingMarshaller) TightMarshal2(f *Format, o command.DataStructure, out *buffer.OutputStream, _ *boolstream.BooleanStream) error {
	return m.LooseMarshal(f, o, out)
}

func (m pingMarshaller) TightUnmarshal(f *Format, o command.DataStructure, in *buffer.InputStream, _ *boolstream.BooleanStream) error {
	return m.LooseUnmarshal(f, o, in)
}

func (pingMarshaller) LooseMarshal(_ *Format, o command.DataStructure, out *buffer.OutputStream) error {
	out.WriteInt32(o.(*ping).seq)
	return nil
}

func (pingMarshaller) LooseUnmarshal(_ *Format, o command.DataStructure, in *buffer.InputStream) error {
	v, err := in.ReadInt32()
	o.(*ping).seq = v
	return err
}

type nullMarshaller struct{ pingMarshaller }

func (nullMarshaller) DataStructureType() byte { return 0 }
