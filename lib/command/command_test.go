package command

import (
	"errors"
	"reflect"
	"testing"

	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

func TestCatalogueValid(t *testing.T) {
	if err := schema.ValidateAll(Schemas()); err != nil {
		t.Fatalf("built in schemas invalid: %v", err)
	}
}

func TestFactoryMatchesTypeCode(t *testing.T) {
	for _, s := range Schemas() {
		obj := s.New()
		ds, ok := obj.(DataStructure)
		if !ok {
			t.Errorf("%s: factory returned %T", s.Name, obj)
			continue
		}
		if ds.DataStructureType() != s.TypeCode {
			t.Errorf("%s: instance reports type %d, schema %d", s.Name, ds.DataStructureType(), s.TypeCode)
		}
		if _, aware := obj.(MarshalAware); aware != s.MarshalAware {
			t.Errorf("%s: MarshalAware flag %v does not match the type", s.Name, s.MarshalAware)
		}
		if fromNew, ok := New(s.TypeCode); !ok || reflect.TypeOf(fromNew) != reflect.TypeOf(obj) {
			t.Errorf("%s: New(%d) returned %T", s.Name, s.TypeCode, fromNew)
		}
	}
	if _, ok := New(13); ok {
		t.Errorf("New accepted an unused type code")
	}
}

// Every accessor must work on a blank instance through the base projections
func TestAccessorsOnBlankInstances(t *testing.T) {
	for _, s := range Schemas() {
		obj := s.New()
		for _, group := range s.Chain() {
			target := obj
			if group.Project != nil {
				target = group.Project(obj)
			}
			for _, p := range group.Properties {
				v := p.Get(target)
				if err := p.Set(target, v); err != nil {
					t.Errorf("%s.%s: setting the zero value failed: %v", s.Name, p.Name, err)
				}
			}
		}
	}
}

func TestSchemasForVersion(t *testing.T) {
	for v := 1; v <= schema.MaxVersion; v++ {
		seen := make(map[byte]string)
		for _, s := range SchemasFor(v) {
			if other, dup := seen[s.TypeCode]; dup {
				t.Errorf("v%d: type %d claimed by %s and %s", v, s.TypeCode, other, s.Name)
			}
			seen[s.TypeCode] = s.Name
		}
	}

	old, _ := SchemaFor(MessageIDType, 9)
	cur, _ := SchemaFor(MessageIDType, 10)
	if old == cur || old.Properties[0].Name != "producerId" || cur.Properties[0].Name != "textView" {
		t.Errorf("MessageId is not re-specified for version 10")
	}
	if _, ok := SchemaFor(ProducerAckType, 2); ok {
		t.Errorf("ProducerAck must not exist before version 3")
	}
	if s, ok := SchemaByName("BaseCommand"); !ok || !s.Abstract() {
		t.Errorf("BaseCommand group not found")
	}
}

func TestMessageFieldCount(t *testing.T) {
	if n := len(messageSchema.Properties); n != 30 {
		t.Errorf("message has %d properties, want 30", n)
	}
}

func TestArrayAccessorKeepsNullAndEmpty(t *testing.T) {
	p, _ := connectionInfoSchema.Property("brokerPath")
	info := &ConnectionInfo{}

	if v := p.Get(info); v != nil {
		t.Errorf("nil slice read as %#v", v)
	}

	if err := p.Set(info, []DataStructure{}); err != nil {
		t.Fatal(err)
	}
	if info.BrokerPath == nil || len(info.BrokerPath) != 0 {
		t.Errorf("empty array stored as %#v", info.BrokerPath)
	}

	ids := []DataStructure{&BrokerID{Value: "a"}, nil}
	if err := p.Set(info, ids); err != nil {
		t.Fatal(err)
	}
	if info.BrokerPath[0].Value != "a" || info.BrokerPath[1] != nil {
		t.Errorf("elements stored as %#v", info.BrokerPath)
	}

	err := p.Set(info, []DataStructure{&ConnectionID{Value: "x"}})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("wrong element type: got %v", err)
	}
}

func TestObjectAccessorRejectsWrongType(t *testing.T) {
	p, _ := messageAckSchema.Property("consumerId")
	ack := &MessageAck{}
	if err := p.Set(ack, &ProducerID{}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("got %v, want ErrTypeMismatch", err)
	}
	if err := p.Set(ack, &ConsumerID{Value: 3}); err != nil || ack.ConsumerID.Value != 3 {
		t.Errorf("set failed: %v", err)
	}
	if err := p.Set(ack, nil); err != nil || ack.ConsumerID != nil {
		t.Errorf("clearing failed: %v", err)
	}
}

func TestCacheKeys(t *testing.T) {
	a := &ConsumerID{ConnectionID: "c", SessionID: 1, Value: 2}
	b := &ConsumerID{ConnectionID: "c", SessionID: 1, Value: 2}
	if a.CacheKey() != b.CacheKey() {
		t.Errorf("equal ids have different keys")
	}
	if NewQueue("x").CacheKey() != "x" || NewTopic("x").String() != "topic://x" {
		t.Errorf("destination rendering wrong")
	}
	id := &MessageID{ProducerID: &ProducerID{ConnectionID: "p", SessionID: 1, Value: 2}, ProducerSequenceID: 7}
	if id.String() != "p:1:2:7" {
		t.Errorf("message id = %s", id)
	}
	text := &MessageID{TextView: "p:1:2:7"}
	if text.String() != "p:1:2:7" || text.CacheKey() == id.CacheKey() {
		t.Errorf("text view %q shares the key of %q", text.CacheKey(), id.CacheKey())
	}
}

// Values that encode differently must never share a key, the second would be
// sent as a reference to the first
func TestCacheKeysDistinguishValues(t *testing.T) {
	producer := &ProducerID{ConnectionID: "p", SessionID: 1, Value: 2}
	tests := []struct {
		name string
		a, b CacheKeyer
	}{
		{"local tx null connection", &LocalTransactionID{Value: 1}, &LocalTransactionID{Value: 1, ConnectionID: &ConnectionID{}}},
		{"local tx connection", &LocalTransactionID{Value: 1, ConnectionID: &ConnectionID{Value: "a"}}, &LocalTransactionID{Value: 1, ConnectionID: &ConnectionID{Value: "b"}}},
		{"xa null global id", &XATransactionID{FormatID: 1}, &XATransactionID{FormatID: 1, GlobalTransactionID: []byte{}}},
		{"xa null branch", &XATransactionID{FormatID: 1}, &XATransactionID{FormatID: 1, BranchQualifier: []byte{}}},
		{"xa bytes moved", &XATransactionID{GlobalTransactionID: []byte{1}}, &XATransactionID{BranchQualifier: []byte{1}}},
		{"message null producer", &MessageID{ProducerSequenceID: 1}, &MessageID{ProducerID: &ProducerID{}, ProducerSequenceID: 1}},
		{"message broker sequence", &MessageID{ProducerID: producer, BrokerSequenceID: 1}, &MessageID{ProducerID: producer, BrokerSequenceID: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.CacheKey() == tt.b.CacheKey() {
				t.Errorf("both values have key %q", tt.a.CacheKey())
			}
		})
	}

	same := []struct{ a, b CacheKeyer }{
		{&LocalTransactionID{Value: 1, ConnectionID: &ConnectionID{Value: "a"}}, &LocalTransactionID{Value: 1, ConnectionID: &ConnectionID{Value: "a"}}},
		{&XATransactionID{FormatID: 1, GlobalTransactionID: []byte{1}}, &XATransactionID{FormatID: 1, GlobalTransactionID: []byte{1}}},
	}
	for _, tt := range same {
		if tt.a.CacheKey() != tt.b.CacheKey() {
			t.Errorf("equal values have keys %q and %q", tt.a.CacheKey(), tt.b.CacheKey())
		}
	}
}

func TestBrokerError(t *testing.T) {
	if NewBrokerError(nil) != nil {
		t.Errorf("nil error wrapped")
	}
	be := NewBrokerError(errors.New("boom"))
	if be.ExceptionClass != "*errors.errorString" || be.Message != "boom" {
		t.Errorf("wrapped as %#v", be)
	}
	if be.Error() != "*errors.errorString: boom" {
		t.Errorf("Error() = %q", be.Error())
	}
	if NewBrokerError(be) != be {
		t.Errorf("broker error wrapped twice")
	}
}
