package openwire

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

// longs covers every compact long bucket
var longs = []int64{0, 1, 0x10000, 1 << 40, -1}

// candidates are the objects tried, in order, for object and array properties
func candidates() []command.DataStructure {
	conn := &command.ConnectionID{Value: "conn-1"}
	producer := &command.ProducerID{ConnectionID: "conn-1", Value: 3, SessionID: 2}
	return []command.DataStructure{
		&command.ConsumerID{ConnectionID: "conn-1", SessionID: 2, Value: 5},
		producer,
		conn,
		&command.SessionID{ConnectionID: "conn-1", Value: 2},
		&command.BrokerID{Value: "broker-a"},
		command.NewQueue("orders"),
		&command.LocalTransactionID{Value: 9, ConnectionID: conn},
		&command.MessageID{ProducerID: producer, ProducerSequenceID: 17, BrokerSequenceID: 1 << 33},
		&command.BrokerInfo{},
		&command.MessageAck{},
	}
}

func sampleValue(p *schema.Property) any {
	seq := p.Sequence
	switch p.Kind {
	case schema.KindBool:
		return true
	case schema.KindByte:
		return byte(seq)
	case schema.KindChar:
		return uint16('A' + seq)
	case schema.KindShort:
		return int16(-100 * seq)
	case schema.KindInt:
		return int32(70000 * seq)
	case schema.KindLong:
		return longs[seq%len(longs)]
	case schema.KindString:
		if seq%2 == 0 {
			return fmt.Sprintf("név-%d", seq)
		}
		return fmt.Sprintf("name-%d", seq)
	case schema.KindBytes:
		return []byte{1, 2, byte(seq)}
	case schema.KindFixedBytes:
		return bytes.Repeat([]byte{'x'}, p.Size)
	case schema.KindThrowable:
		return &command.BrokerError{ExceptionClass: "java.lang.IllegalStateException", Message: "boom", StackTrace: "at a.b(c:1)"}
	}
	return nil
}

// fill sets every property of obj that is on the wire for version
func fill(t *testing.T, obj any, s *schema.Schema, version int) {
	t.Helper()
	objects := candidates()
	for _, group := range s.Chain() {
		target := obj
		if group.Project != nil {
			target = group.Project(obj)
		}
		for i := range group.Properties {
			p := &group.Properties[i]
			if !p.AppliesTo(version) {
				continue
			}
			if err := setSample(p, target, objects); err != nil {
				t.Fatalf("%s.%s: %v", group.Name, p.Name, err)
			}
		}
	}
}

func setSample(p *schema.Property, target any, objects []command.DataStructure) error {
	switch p.Kind {
	case schema.KindNested, schema.KindCached:
		for _, o := range objects {
			if p.Set(target, o) == nil {
				return nil
			}
		}
		return nil
	case schema.KindArray:
		for _, o := range objects {
			if p.Set(target, []command.DataStructure{o, nil, o}) == nil {
				return nil
			}
		}
		return nil
	}
	return p.Set(target, sampleValue(p))
}

func testConfig(version int, tight bool) Config {
	cfg := DefaultConfig()
	cfg.Version = version
	cfg.TightEncoding = tight
	return cfg
}

func newTestFormat(t *testing.T, cfg Config) *Format {
	t.Helper()
	f, err := NewFormat(cfg)
	if err != nil {
		t.Fatalf("NewFormat(%+v): %v", cfg, err)
	}
	return f
}

func mustMarshal(t *testing.T, f *Format, ds command.DataStructure) []byte {
	t.Helper()
	b, err := f.Marshal(ds)
	if err != nil {
		t.Fatalf("Marshal(%T): %v", ds, err)
	}
	return b
}

func mustUnmarshal(t *testing.T, f *Format, b []byte) command.DataStructure {
	t.Helper()
	ds, err := f.Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal(% x): %v", b, err)
	}
	return ds
}

func encodingName(tight bool) string {
	if tight {
		return "tight"
	}
	return "loose"
}
