package openwire

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/apache/activemq-openwire-sub001/lib/command"
)

func TestCacheEconomy(t *testing.T) {
	for _, tight := range []bool{true, false} {
		t.Run(encodingName(tight), func(t *testing.T) {
			cfg := testConfig(MaxVersion, tight)
			enc, dec := newTestFormat(t, cfg), newTestFormat(t, cfg)

			first := mustMarshal(t, enc, sampleAck())
			second := mustMarshal(t, enc, sampleAck())
			if len(second) >= len(first) {
				t.Errorf("second frame %d bytes, first %d: cache not used", len(second), len(first))
			}

			a := mustUnmarshal(t, dec, first).(*command.MessageAck)
			b := mustUnmarshal(t, dec, second).(*command.MessageAck)
			if a.ConsumerID != b.ConsumerID || a.Destination != b.Destination {
				t.Errorf("references did not resolve to the first decoded objects")
			}
			if b.ConsumerID.String() != "ID:host-1:1:7" || b.Destination.PhysicalName() != "orders" {
				t.Errorf("resolved wrong objects: %v %v", b.ConsumerID, b.Destination)
			}

			encLen, _ := enc.CacheLen()
			_, decLen := dec.CacheLen()
			if encLen != decLen || encLen == 0 {
				t.Errorf("tables out of step: encoder %d, decoder %d", encLen, decLen)
			}

			s := enc.Stats().Snapshot()
			if s.EncodeHits == 0 || s.Marshalled != 2 {
				t.Errorf("stats = %+v", s)
			}
			if d := dec.Stats().Snapshot(); d.DecodeHits != s.EncodeHits || d.DecodeMisses != s.EncodeMisses {
				t.Errorf("decoder stats %+v do not mirror encoder %+v", d, s)
			}
		})
	}
}

func TestCacheKeyByValue(t *testing.T) {
	enc := newTestFormat(t, DefaultConfig())
	mustMarshal(t, enc, &command.SessionInfo{SessionID: &command.SessionID{ConnectionID: "c", Value: 1}})
	before, _ := enc.CacheLen()
	// a different instance with the same identity is sent as a reference
	mustMarshal(t, enc, &command.SessionInfo{SessionID: &command.SessionID{ConnectionID: "c", Value: 1}})
	after, _ := enc.CacheLen()
	if before != 1 || after != 1 {
		t.Errorf("cache sizes %d then %d, want 1 and 1", before, after)
	}
}

// Transaction ids that differ only in null against empty travel as separate
// cache entries and decode to what was sent
func TestCachedTransactionIDsKeepNullAndEmpty(t *testing.T) {
	txs := []command.TransactionID{
		&command.XATransactionID{FormatID: 1},
		&command.XATransactionID{FormatID: 1, GlobalTransactionID: []byte{}},
		&command.XATransactionID{FormatID: 1, GlobalTransactionID: []byte{}, BranchQualifier: []byte{}},
		&command.LocalTransactionID{Value: 1},
		&command.LocalTransactionID{Value: 1, ConnectionID: &command.ConnectionID{}},
	}
	cfg := testConfig(MaxVersion, true)
	enc, dec := newTestFormat(t, cfg), newTestFormat(t, cfg)
	for i, tx := range txs {
		ack := sampleAck()
		ack.TransactionID = tx
		got := mustUnmarshal(t, dec, mustMarshal(t, enc, ack)).(*command.MessageAck)
		if !reflect.DeepEqual(got.TransactionID, tx) {
			t.Errorf("frame %d: transaction id = %#v, want %#v", i, got.TransactionID, tx)
		}
	}
}

func TestCacheDisabled(t *testing.T) {
	for _, tight := range []bool{true, false} {
		cfg := testConfig(MaxVersion, tight)
		cfg.CacheEnabled = false
		enc, dec := newTestFormat(t, cfg), newTestFormat(t, cfg)
		first := mustMarshal(t, enc, sampleAck())
		second := mustMarshal(t, enc, sampleAck())
		if len(first) != len(second) {
			t.Errorf("%s: frames differ in size without a cache: %d vs %d", encodingName(tight), len(first), len(second))
		}
		a := mustUnmarshal(t, dec, first).(*command.MessageAck)
		b := mustUnmarshal(t, dec, second).(*command.MessageAck)
		if a.ConsumerID == b.ConsumerID {
			t.Errorf("%s: objects shared without a cache", encodingName(tight))
		}
		if e, d := enc.CacheLen(); e != 0 || d != 0 {
			t.Errorf("%s: cache filled while disabled", encodingName(tight))
		}
	}
}

func TestCacheCapacity(t *testing.T) {
	for _, tight := range []bool{true, false} {
		cfg := testConfig(MaxVersion, tight)
		cfg.CacheSize = 1
		enc, dec := newTestFormat(t, cfg), newTestFormat(t, cfg)
		for i := 0; i < 3; i++ {
			got := mustUnmarshal(t, dec, mustMarshal(t, enc, sampleAck())).(*command.MessageAck)
			if got.ConsumerID.String() != "ID:host-1:1:7" || got.Destination.PhysicalName() != "orders" {
				t.Fatalf("%s frame %d: decoded %v %v", encodingName(tight), i, got.ConsumerID, got.Destination)
			}
		}
		e, _ := enc.CacheLen()
		_, d := dec.CacheLen()
		if e != 1 || d != 1 {
			t.Errorf("%s: table sizes %d/%d, want 1/1", encodingName(tight), e, d)
		}
	}
}

func TestEncodeRollback(t *testing.T) {
	cfg := DefaultConfig()
	enc, dec := newTestFormat(t, cfg), newTestFormat(t, cfg)

	bad := &command.ConnectionInfo{
		ConnectionID: &command.ConnectionID{Value: "conn-9"},
		ClientID:     strings.Repeat("x", 70000),
	}
	if _, err := enc.Marshal(bad); err == nil {
		t.Fatal("oversized client id accepted")
	}
	if e, _ := enc.CacheLen(); e != 0 {
		t.Fatalf("failed frame left %d entries", e)
	}

	// the connection id must travel in full in the next frame
	good := &command.ConnectionInfo{ConnectionID: &command.ConnectionID{Value: "conn-9"}, ClientID: "client"}
	got := mustUnmarshal(t, dec, mustMarshal(t, enc, good)).(*command.ConnectionInfo)
	if got.ConnectionID == nil || got.ConnectionID.Value != "conn-9" {
		t.Errorf("connection id = %v", got.ConnectionID)
	}
}

func TestDecodeRollback(t *testing.T) {
	cfg := DefaultConfig()
	enc, dec := newTestFormat(t, cfg), newTestFormat(t, cfg)
	frame := mustMarshal(t, enc, sampleAck())

	if _, err := dec.Unmarshal(frame[:len(frame)-1]); !errors.Is(err, ErrDecode) {
		t.Fatalf("truncated frame: err = %v", err)
	}
	if _, d := dec.CacheLen(); d != 0 {
		t.Fatalf("failed frame left %d entries", d)
	}

	// a fresh encoder pairs with the rolled back decoder
	got := mustUnmarshal(t, dec, mustMarshal(t, newTestFormat(t, cfg), sampleAck())).(*command.MessageAck)
	if got.ConsumerID.String() != "ID:host-1:1:7" {
		t.Errorf("consumer id = %v", got.ConsumerID)
	}
}

func TestUnknownCacheID(t *testing.T) {
	cfg := testConfig(MaxVersion, false)
	// loose SessionInfo: base command fields, then a cached reference to id 5
	frame := []byte{command.SessionInfoType, 0, 0, 0, 1, 0, 1, 0, 0, 5}
	_, err := newTestFormat(t, cfg).Unmarshal(frame)
	if !errors.Is(err, ErrUnknownCacheID) || !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want unknown cache id", err)
	}
}

func TestReset(t *testing.T) {
	cfg := DefaultConfig()
	enc, dec := newTestFormat(t, cfg), newTestFormat(t, cfg)
	mustUnmarshal(t, dec, mustMarshal(t, enc, sampleAck()))
	enc.Reset()
	dec.Reset()
	e, _ := enc.CacheLen()
	_, d := dec.CacheLen()
	if e != 0 || d != 0 {
		t.Fatalf("tables not cleared: %d/%d", e, d)
	}
	// after a reset both sides start over in step
	got := mustUnmarshal(t, dec, mustMarshal(t, enc, sampleAck())).(*command.MessageAck)
	if got.Destination.PhysicalName() != "orders" {
		t.Errorf("destination = %v", got.Destination)
	}
}
