package codec

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apache/activemq-openwire-sub001/cmd/util"
	"github.com/apache/activemq-openwire-sub001/lib/buffer"
	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/openwire"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// EncodeCmd marshals one command built from the command line
	EncodeCmd = &cobra.Command{
		Use:   "encode [type] [name=value]...",
		Short: "Encodes a command and prints the frame as hex",
		Long: `Encodes a command and prints the frame as hex.

The type is a type name (e.g. MessageAck) or a numeric type code. Scalar
properties are set with name=value pairs, byte arrays are given in hex and
exceptions as class:message.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEncode,
	}

	// DecodeCmd unmarshals frames and prints their property tree
	DecodeCmd = &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decodes frames and prints their properties",
		Long: `Decodes one or more consecutive frames and prints their properties.

The frames are read from the hex argument, from --file as raw bytes or as hex
from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDecode,
	}

	// TypesCmd lists the data structures of the configured version
	TypesCmd = &cobra.Command{
		Use:   "types",
		Short: "Lists the data structure types of the protocol version",
		Args:  cobra.NoArgs,
		RunE:  runTypes,
	}
)

func init() {
	key := "out"
	EncodeCmd.Flags().String(key, "", util.WrapString("Optional path to write the raw frame to instead of printing hex"))
	key = "text"
	EncodeCmd.Flags().String(key, "", util.WrapString("Body of a TextMessage"))

	key = "file"
	DecodeCmd.Flags().String(key, "", util.WrapString("Optional path of a file with raw frames"))
}

// resolveType accepts a type name or a decimal type code
func resolveType(arg string, version int) (*schema.Schema, error) {
	if code, err := strconv.ParseUint(arg, 10, 8); err == nil {
		s, ok := command.SchemaFor(byte(code), version)
		if !ok {
			return nil, fmt.Errorf("no type %d in version %d", code, version)
		}
		return s, nil
	}
	for _, s := range command.SchemasFor(version) {
		if strings.EqualFold(s.Name, arg) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no type %q in version %d", arg, version)
}

func runEncode(cmd *cobra.Command, args []string) error {
	format, err := util.GetFormat()
	if err != nil {
		return err
	}

	s, err := resolveType(args[0], format.Version())
	if err != nil {
		return err
	}
	ds := command.MustNew(s.TypeCode)
	if err := assign(s, ds, args[1:]); err != nil {
		return err
	}
	if cmd.Flags().Changed("text") {
		tm, ok := ds.(*command.TextMessage)
		if !ok {
			return fmt.Errorf("--text requires a TextMessage, got %s", s.Name)
		}
		tm.SetText(viper.GetString("text"))
	}

	frame, err := format.Marshal(ds)
	if err != nil {
		return err
	}
	util.Logger.Infof("encoded %s in %d bytes", s, len(frame))

	if path := viper.GetString("out"); path != "" {
		if err := os.WriteFile(path, frame, 0o644); err != nil {
			return fmt.Errorf("failed to write frame: %v", err)
		}
		fmt.Printf("wrote %d bytes to %s\n", len(frame), path)
		return nil
	}
	fmt.Println(hex.EncodeToString(frame))
	return nil
}

// readInput returns the raw frame bytes from the argument, --file or stdin
func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		return hex.DecodeString(strings.TrimSpace(args[0]))
	}
	if path := viper.GetString("file"); path != "" {
		return os.ReadFile(path)
	}
	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(strings.Join(strings.Fields(string(text)), ""))
}

func runDecode(_ *cobra.Command, args []string) error {
	format, err := util.GetFormat()
	if err != nil {
		return err
	}

	raw, err := readInput(args)
	if err != nil {
		return fmt.Errorf("failed to read input: %v", err)
	}

	d := &dumper{w: os.Stdout, version: format.Version()}
	in := buffer.NewInputStream(raw)
	for frame := 0; in.Available() > 0; frame++ {
		start := in.Position()
		ds, err := format.UnmarshalFrom(in)
		if err != nil {
			return err
		}
		fmt.Printf("frame %d (offset %d, %d bytes): ", frame, start, in.Position()-start)
		d.structure(ds, 0)
	}
	return nil
}

func runTypes(_ *cobra.Command, _ []string) error {
	conf, err := util.GetFormatConfig()
	if err != nil {
		return err
	}
	registry, err := openwire.RegistryFor(conf.Version)
	if err != nil {
		return err
	}

	fmt.Printf("OpenWire version %d: %d types\n\n", conf.Version, registry.Len())
	fmt.Printf("%-6s%-32s%-12s%s\n", "CODE", "NAME", "PROPERTIES", "BASE")
	for _, code := range registry.Types() {
		s, ok := command.SchemaFor(code, conf.Version)
		if !ok {
			fmt.Printf("%-6d%-32s\n", code, "(custom)")
			continue
		}
		n := 0
		for _, p := range s.AllProperties() {
			if p.AppliesTo(conf.Version) {
				n++
			}
		}
		base := "-"
		if s.Base != nil {
			base = s.Base.Name
		}
		fmt.Printf("%-6d%-32s%-12d%s\n", code, s.Name, n, base)
	}
	return nil
}
