package openwire

import (
	"fmt"
	"math"
	"strings"

	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

const (
	// MinVersion and MaxVersion bound the supported protocol versions
	MinVersion = 1
	MaxVersion = schema.MaxVersion

	DefaultCacheSize    = 1024
	MaxCacheSize        = 65536
	DefaultMaxFrameSize = 100 << 20
)

// Config holds the options of one Format. The version is the one agreed with
// the peer; negotiating it is the caller's job.
type Config struct {
	// protocol
	Version       int
	TightEncoding bool

	// object cache
	CacheEnabled bool
	CacheSize    int

	// framing
	SizePrefix   bool
	MaxFrameSize int

	// exceptions
	StackTraceEnabled bool
}

// DefaultConfig returns the configuration for the newest version
func DefaultConfig() Config {
	return Config{
		Version:           MaxVersion,
		TightEncoding:     true,
		CacheEnabled:      true,
		CacheSize:         DefaultCacheSize,
		SizePrefix:        false,
		MaxFrameSize:      DefaultMaxFrameSize,
		StackTraceEnabled: true,
	}
}

// Validate checks the option ranges
func (c *Config) Validate() error {
	if c.Version < MinVersion || c.Version > MaxVersion {
		return fmt.Errorf("%w: %d (supported %d..%d)", ErrUnsupportedVersion, c.Version, MinVersion, MaxVersion)
	}
	if c.CacheEnabled && (c.CacheSize < 1 || c.CacheSize > MaxCacheSize) {
		return fmt.Errorf("openwire: cache size %d out of range 1..%d", c.CacheSize, MaxCacheSize)
	}
	if c.MaxFrameSize <= 0 {
		return fmt.Errorf("openwire: max frame size must be positive, got %d", c.MaxFrameSize)
	}
	// the size prefix is a signed 32 bit int
	if int64(c.MaxFrameSize) > math.MaxInt32 {
		return fmt.Errorf("openwire: max frame size %d exceeds %d", c.MaxFrameSize, math.MaxInt32)
	}
	return nil
}

// WireFormatInfo renders the options as the command a peer sends to
// advertise them.
func (c *Config) WireFormatInfo() (*command.WireFormatInfo, error) {
	info := command.NewWireFormatInfo(int32(c.Version))
	options := []struct {
		name  string
		value any
	}{
		{command.OptionTightEncodingEnabled, c.TightEncoding},
		{command.OptionCacheEnabled, c.CacheEnabled},
		{command.OptionCacheSize, int32(c.CacheSize)},
		{command.OptionSizePrefixDisabled, !c.SizePrefix},
		{command.OptionStackTraceEnabled, c.StackTraceEnabled},
		{command.OptionMaxFrameSize, int64(c.MaxFrameSize)},
	}
	for _, o := range options {
		if err := info.SetOption(o.name, o.value); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// ConfigFromWireFormatInfo reads the options a peer advertised. Options the
// peer did not send keep their default values.
func ConfigFromWireFormatInfo(info *command.WireFormatInfo) (Config, error) {
	c := DefaultConfig()
	if !info.Valid() {
		return c, fmt.Errorf("openwire: wire format info has bad magic %q", info.Magic)
	}
	c.Version = int(info.Version)
	if v, ok := info.BoolOption(command.OptionTightEncodingEnabled); ok {
		c.TightEncoding = v
	}
	if v, ok := info.BoolOption(command.OptionCacheEnabled); ok {
		c.CacheEnabled = v
	}
	if v, ok := info.IntOption(command.OptionCacheSize); ok {
		c.CacheSize = int(v)
	}
	if v, ok := info.BoolOption(command.OptionSizePrefixDisabled); ok {
		c.SizePrefix = !v
	}
	if v, ok := info.BoolOption(command.OptionStackTraceEnabled); ok {
		c.StackTraceEnabled = v
	}
	if v, ok := info.IntOption(command.OptionMaxFrameSize); ok {
		c.MaxFrameSize = int(v)
	}
	return c, c.Validate()
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	encoding := "loose"
	if c.TightEncoding {
		encoding = "tight"
	}

	addSection("Protocol")
	addField("Version", fmt.Sprintf("%d", c.Version))
	addField("Encoding", encoding)

	addSection("Object Cache")
	addField("Enabled", fmt.Sprintf("%t", c.CacheEnabled))
	if c.CacheEnabled {
		addField("Size", fmt.Sprintf("%d entries", c.CacheSize))
	}

	addSection("Framing")
	addField("Size Prefix", fmt.Sprintf("%t", c.SizePrefix))
	addField("Max Frame Size", fmt.Sprintf("%d bytes", c.MaxFrameSize))

	addSection("Exceptions")
	addField("Stack Traces", fmt.Sprintf("%t", c.StackTraceEnabled))

	return sb.String()
}
