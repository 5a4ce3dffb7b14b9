package command

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestMessageProperties(t *testing.T) {
	m := &Message{}
	if err := m.SetProperty("count", 3); err != nil {
		t.Fatal(err)
	}
	if err := m.SetProperty("name", "order"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetProperty("bad", struct{}{}); err == nil {
		t.Errorf("unsupported type accepted")
	}
	if err := m.BeforeMarshal(); err != nil {
		t.Fatal(err)
	}
	if len(m.MarshalledProperties) == 0 {
		t.Fatalf("properties not flushed")
	}

	// a received message decodes its properties lazily
	received := &Message{}
	_ = received.BeforeUnmarshal()
	received.MarshalledProperties = m.MarshalledProperties
	names, err := received.PropertyNames()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"count", "name"}) {
		t.Errorf("names = %v", names)
	}
	if v, _ := received.Property("count"); v != int64(3) {
		t.Errorf("count = %#v", v)
	}

	if err := received.RemoveProperty("count"); err != nil {
		t.Fatal(err)
	}
	received.ClearProperties()
	_ = received.BeforeMarshal()
	if received.MarshalledProperties != nil {
		t.Errorf("cleared properties still encoded")
	}
}

func TestMessageCompression(t *testing.T) {
	body := bytes.Repeat([]byte("compress me "), 100)
	m := &BytesMessage{}
	m.SetPayload(body)
	m.SetCompressed(true)
	if err := m.BeforeMarshal(); err != nil {
		t.Fatal(err)
	}
	if !m.Compressed || len(m.Content) >= len(body) {
		t.Fatalf("body not compressed (%d bytes)", len(m.Content))
	}
	got, err := m.Payload()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("payload changed by compression")
	}

	// a second marshal must not compress again
	before := m.Content
	_ = m.BeforeMarshal()
	if !bytes.Equal(before, m.Content) {
		t.Errorf("body compressed twice")
	}
}

func TestTextMessage(t *testing.T) {
	m := &TextMessage{}
	m.SetText("hällo")
	if err := m.BeforeMarshal(); err != nil {
		t.Fatal(err)
	}
	want := append([]byte{0, 0, 0, 6}, []byte("hällo")...)
	if !bytes.Equal(m.Content, want) {
		t.Errorf("content = % x, want % x", m.Content, want)
	}

	received := &TextMessage{}
	_ = received.BeforeUnmarshal()
	received.Content = m.Content
	text, err := received.Text()
	if err != nil || text != "hällo" {
		t.Errorf("Text() = %q, %v", text, err)
	}

	empty := &TextMessage{}
	if text, err := empty.Text(); err != nil || text != "" {
		t.Errorf("empty message text = %q, %v", text, err)
	}

	broken := &TextMessage{}
	broken.Content = []byte{0, 0, 0, 9, 'x'}
	if _, err := broken.Text(); err == nil {
		t.Errorf("truncated text accepted")
	}
}

func TestCompressedTextMessage(t *testing.T) {
	text := strings.Repeat("lorem ipsum ", 200)
	m := &TextMessage{}
	m.SetText(text)
	m.SetCompressed(true)
	if err := m.BeforeMarshal(); err != nil {
		t.Fatal(err)
	}
	received := &TextMessage{}
	received.Content = m.Content
	received.Compressed = m.Compressed
	got, err := received.Text()
	if err != nil || got != text {
		t.Errorf("compressed text did not survive: %v", err)
	}
}

func TestMapMessage(t *testing.T) {
	m := &MapMessage{}
	if err := m.SetEntry("qty", int32(5)); err != nil {
		t.Fatal(err)
	}
	if err := m.SetEntry("tags", []any{"a", true}); err != nil {
		t.Fatal(err)
	}
	if err := m.BeforeMarshal(); err != nil {
		t.Fatal(err)
	}

	received := &MapMessage{}
	received.Content = m.Content
	names, _ := received.EntryNames()
	if !reflect.DeepEqual(names, []string{"qty", "tags"}) {
		t.Errorf("names = %v", names)
	}
	if v, _ := received.Entry("tags"); !reflect.DeepEqual(v, []any{"a", true}) {
		t.Errorf("tags = %#v", v)
	}
}

func TestWireFormatInfoOptions(t *testing.T) {
	info := NewWireFormatInfo(12)
	if !info.Valid() {
		t.Fatalf("fresh info invalid")
	}
	_ = info.SetOption(OptionTightEncodingEnabled, true)
	_ = info.SetOption(OptionCacheSize, int32(1024))
	_ = info.SetOption(OptionMaxFrameSize, int64(1<<20))
	if err := info.BeforeMarshal(); err != nil {
		t.Fatal(err)
	}

	received := &WireFormatInfo{Magic: info.Magic, Version: 12, MarshalledProperties: info.MarshalledProperties}
	if v, ok := received.BoolOption(OptionTightEncodingEnabled); !ok || !v {
		t.Errorf("tight option lost")
	}
	if v, ok := received.IntOption(OptionCacheSize); !ok || v != 1024 {
		t.Errorf("cache size = %d, %v", v, ok)
	}
	if v, ok := received.IntOption(OptionMaxFrameSize); !ok || v != 1<<20 {
		t.Errorf("max frame size = %d, %v", v, ok)
	}
	if _, ok := received.BoolOption("missing"); ok {
		t.Errorf("missing option reported present")
	}

	received.Magic = []byte("ActiveMX")
	if received.Valid() {
		t.Errorf("bad magic accepted")
	}
}
