package openwire

import (
	"strings"
	"testing"

	"github.com/apache/activemq-openwire-sub001/lib/command"
)

// benchmarkFormats returns the format configurations under test
func benchmarkFormats() map[string]Config {
	tight := DefaultConfig()
	noCache := DefaultConfig()
	noCache.CacheEnabled = false
	loose := DefaultConfig()
	loose.TightEncoding = false
	prefixed := DefaultConfig()
	prefixed.SizePrefix = true
	return map[string]Config{
		"Tight":        tight,
		"TightNoCache": noCache,
		"Loose":        loose,
		"SizePrefix":   prefixed,
	}
}

// benchmarkMessages returns a set of commands for targeted benchmarking
func benchmarkMessages() map[string]func() command.DataStructure {
	producer := &command.ProducerID{ConnectionID: "ID:bench-1", SessionID: 1, Value: 1}
	text := func(body string) func() command.DataStructure {
		return func() command.DataStructure {
			m := &command.TextMessage{}
			m.ProducerID = producer
			m.Destination = command.NewQueue("bench")
			m.MessageID = &command.MessageID{ProducerID: producer, ProducerSequenceID: 1}
			m.SetText(body)
			return m
		}
	}

	wireFormat := func() command.DataStructure {
		cfg := DefaultConfig()
		info, _ := cfg.WireFormatInfo()
		return info
	}

	return map[string]func() command.DataStructure{
		"KeepAlive":      func() command.DataStructure { return &command.KeepAliveInfo{} },
		"MessageAck":     func() command.DataStructure { return sampleAck() },
		"SmallText":      text("hello"),
		"LargeText":      text(strings.Repeat("x", 16*1024)),
		"WireFormatInfo": wireFormat,
	}
}

// BenchmarkMarshal benchmarks marshaling for all configurations with various commands
func BenchmarkMarshal(b *testing.B) {
	messages := benchmarkMessages()

	for name, cfg := range benchmarkFormats() {
		for msgName, build := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				f, err := NewFormat(cfg)
				if err != nil {
					b.Fatalf("Failed to create format: %v", err)
				}
				ds := build()
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := f.Marshal(ds); err != nil {
						b.Fatalf("Failed to marshal: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkUnmarshal benchmarks unmarshaling for all configurations with various commands
func BenchmarkUnmarshal(b *testing.B) {
	messages := benchmarkMessages()

	for name, cfg := range benchmarkFormats() {
		for msgName, build := range messages {
			// Pre-marshal with a fresh format so every frame is self contained
			f, err := NewFormat(cfg)
			if err != nil {
				b.Fatalf("Failed to create format: %v", err)
			}
			frame, err := f.Marshal(build())
			if err != nil {
				b.Fatalf("Failed to marshal %s with %s: %v", msgName, name, err)
			}

			b.Run(name+"_"+msgName, func(b *testing.B) {
				f, err := NewFormat(cfg)
				if err != nil {
					b.Fatalf("Failed to create format: %v", err)
				}
				b.SetBytes(int64(len(frame)))
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := f.Unmarshal(frame); err != nil {
						b.Fatalf("Failed to unmarshal: %v", err)
					}
				}
			})
		}
	}
}
