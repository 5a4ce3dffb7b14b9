package command

import (
	"bytes"

	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

// Magic opens every WireFormatInfo
var Magic = []byte("ActiveMQ")

// Option names understood in a WireFormatInfo
const (
	OptionStackTraceEnabled     = "StackTraceEnabled"
	OptionTCPNoDelayEnabled     = "TcpNoDelayEnabled"
	OptionSizePrefixDisabled    = "SizePrefixDisabled"
	OptionTightEncodingEnabled  = "TightEncodingEnabled"
	OptionCacheEnabled          = "CacheEnabled"
	OptionCacheSize             = "CacheSize"
	OptionMaxInactivityDuration = "MaxInactivityDuration"
	OptionMaxFrameSize          = "MaxFrameSize"
)

// WireFormatInfo advertises the encoding options of one side of a connection
type WireFormatInfo struct {
	Magic                []byte
	Version              int32
	MarshalledProperties []byte

	options primitiveBag
}

func (*WireFormatInfo) DataStructureType() byte { return WireFormatInfoType }

// NewWireFormatInfo creates an info for version with the magic set
func NewWireFormatInfo(version int32) *WireFormatInfo {
	magic := make([]byte, len(Magic))
	copy(magic, Magic)
	return &WireFormatInfo{Magic: magic, Version: version}
}

// Valid reports whether the magic is intact
func (w *WireFormatInfo) Valid() bool { return bytes.Equal(w.Magic, Magic) }

// SetOption stores an option value
func (w *WireFormatInfo) SetOption(name string, v any) error {
	return w.options.set(w.MarshalledProperties, name, v)
}

// Option returns the named option, nil if it is not set
func (w *WireFormatInfo) Option(name string) (any, error) {
	return w.options.get(w.MarshalledProperties, name)
}

// OptionNames returns the sorted option names
func (w *WireFormatInfo) OptionNames() ([]string, error) {
	return w.options.names(w.MarshalledProperties)
}

// BoolOption returns a boolean option and whether it was present
func (w *WireFormatInfo) BoolOption(name string) (bool, bool) {
	v, err := w.Option(name)
	if err != nil {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// IntOption returns an integer option of any width and whether it was present
func (w *WireFormatInfo) IntOption(name string) (int64, bool) {
	v, err := w.Option(name)
	if err != nil {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case byte:
		return int64(n), true
	}
	return 0, false
}

func (w *WireFormatInfo) BeforeMarshal() error {
	raw, changed, err := w.options.flush()
	if err != nil {
		return err
	}
	if changed {
		w.MarshalledProperties = raw
	}
	return nil
}

func (w *WireFormatInfo) AfterMarshal() error { return nil }

func (w *WireFormatInfo) BeforeUnmarshal() error {
	w.options.reset()
	return nil
}

func (w *WireFormatInfo) AfterUnmarshal() error { return nil }

var wireFormatInfoSchema = &schema.Schema{
	Name:         "WireFormatInfo",
	TypeCode:     WireFormatInfoType,
	Since:        1,
	MarshalAware: true,
	New:          func() any { return &WireFormatInfo{} },
	Properties: []schema.Property{
		fixed("magic", 1, 1, 8, func(o *WireFormatInfo) *[]byte { return &o.Magic }),
		field(schema.KindInt, "version", 2, 1, func(o *WireFormatInfo) *int32 { return &o.Version }),
		field(schema.KindBytes, "marshalledProperties", 3, 1, func(o *WireFormatInfo) *[]byte { return &o.MarshalledProperties }),
	},
}
