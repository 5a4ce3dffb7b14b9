package codec

import (
	"encoding/hex"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

// maxBytesShown limits the hex rendering of byte properties in dumps
const maxBytesShown = 64

// lookupProperty finds name in the chain of s and returns the property
// together with the receiver its accessors expect
func lookupProperty(s *schema.Schema, obj any, name string) (*schema.Property, any, bool) {
	for cur := s; cur != nil; cur = cur.Base {
		for i := range cur.Properties {
			if !strings.EqualFold(cur.Properties[i].Name, name) {
				continue
			}
			target := obj
			if cur.Project != nil {
				target = cur.Project(obj)
			}
			return &cur.Properties[i], target, true
		}
	}
	return nil, nil, false
}

// parseValue converts a command line value to the Go type of kind
func parseValue(p *schema.Property, raw string) (any, error) {
	switch p.Kind {
	case schema.KindBool:
		return strconv.ParseBool(raw)
	case schema.KindByte:
		v, err := strconv.ParseUint(raw, 0, 8)
		return byte(v), err
	case schema.KindChar:
		v, err := strconv.ParseUint(raw, 0, 16)
		return uint16(v), err
	case schema.KindShort:
		v, err := strconv.ParseInt(raw, 0, 16)
		return int16(v), err
	case schema.KindInt:
		v, err := strconv.ParseInt(raw, 0, 32)
		return int32(v), err
	case schema.KindLong:
		return strconv.ParseInt(raw, 0, 64)
	case schema.KindString:
		return raw, nil
	case schema.KindBytes, schema.KindFixedBytes:
		b, err := hex.DecodeString(raw)
		if err != nil {
			return nil, err
		}
		if p.Kind == schema.KindFixedBytes && len(b) != p.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", p.Size, len(b))
		}
		return b, nil
	case schema.KindThrowable:
		class, msg, _ := strings.Cut(raw, ":")
		return &command.BrokerError{ExceptionClass: class, Message: strings.TrimSpace(msg)}, nil
	default:
		return nil, fmt.Errorf("%s properties cannot be set from the command line", p.Kind)
	}
}

// assign parses name=value pairs and stores them on ds
func assign(s *schema.Schema, ds command.DataStructure, pairs []string) error {
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", pair)
		}
		p, target, ok := lookupProperty(s, ds, name)
		if !ok {
			return fmt.Errorf("%s has no property %q", s.Name, name)
		}
		v, err := parseValue(p, raw)
		if err != nil {
			return fmt.Errorf("property %s: %w", p.Name, err)
		}
		if err := p.Set(target, v); err != nil {
			return fmt.Errorf("property %s: %w", p.Name, err)
		}
	}
	return nil
}

// dumper renders decoded structures as an indented property tree
type dumper struct {
	w       io.Writer
	version int
}

func (d *dumper) structure(ds command.DataStructure, indent int) {
	if isNil(ds) {
		fmt.Fprintln(d.w, "null")
		return
	}
	s, ok := command.SchemaFor(ds.DataStructureType(), d.version)
	if !ok {
		fmt.Fprintf(d.w, "%T\n", ds)
		return
	}
	fmt.Fprintln(d.w, s.String())

	pad := strings.Repeat("  ", indent+1)
	for _, group := range s.Chain() {
		target := any(ds)
		if group.Project != nil {
			target = group.Project(ds)
		}
		for _, p := range group.Ordered() {
			if !p.AppliesTo(d.version) {
				continue
			}
			fmt.Fprintf(d.w, "%s%s = ", pad, p.Name)
			d.value(&p, p.Get(target), indent+1)
		}
	}

	if tm, ok := ds.(*command.TextMessage); ok {
		if text, err := tm.Text(); err == nil {
			fmt.Fprintf(d.w, "%stext = %q\n", pad, text)
		}
	}
}

func (d *dumper) value(p *schema.Property, v any, indent int) {
	switch p.Kind {
	case schema.KindNested, schema.KindCached:
		ds, _ := v.(command.DataStructure)
		d.structure(ds, indent)
	case schema.KindArray:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.IsNil() {
			fmt.Fprintln(d.w, "null")
			return
		}
		fmt.Fprintf(d.w, "[%d]\n", rv.Len())
		pad := strings.Repeat("  ", indent+1)
		for i := 0; i < rv.Len(); i++ {
			fmt.Fprintf(d.w, "%s[%d] ", pad, i)
			ds, _ := rv.Index(i).Interface().(command.DataStructure)
			d.structure(ds, indent+1)
		}
	case schema.KindThrowable:
		be, _ := v.(*command.BrokerError)
		if be == nil {
			fmt.Fprintln(d.w, "null")
			return
		}
		fmt.Fprintf(d.w, "%s: %q\n", be.ExceptionClass, be.Message)
	case schema.KindBytes, schema.KindFixedBytes:
		b, _ := v.([]byte)
		if b == nil {
			fmt.Fprintln(d.w, "null")
			return
		}
		if len(b) > maxBytesShown {
			fmt.Fprintf(d.w, "%s... (%d bytes)\n", hex.EncodeToString(b[:maxBytesShown]), len(b))
			return
		}
		fmt.Fprintf(d.w, "%s\n", hex.EncodeToString(b))
	case schema.KindString:
		fmt.Fprintf(d.w, "%q\n", v)
	default:
		fmt.Fprintf(d.w, "%v\n", v)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
