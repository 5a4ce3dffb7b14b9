package openwire

import (
	"fmt"
	"reflect"

	"github.com/apache/activemq-openwire-sub001/lib/boolstream"
	"github.com/apache/activemq-openwire-sub001/lib/buffer"
	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

// Marshaller encodes and decodes the fields of one data structure type.
//
// Tight encoding runs in two passes. TightMarshal1 records every flag in the
// bit table and returns the number of field bytes; TightMarshal2 replays the
// flags and writes exactly that many bytes. The type code itself is written by
// the caller.
type Marshaller interface {
	DataStructureType() byte
	CreateObject() command.DataStructure

	TightMarshal1(f *Format, o command.DataStructure, bs *boolstream.BooleanStream) (int, error)
	TightMarshal2(f *Format, o command.DataStructure, out *buffer.OutputStream, bs *boolstream.BooleanStream) error
	TightUnmarshal(f *Format, o command.DataStructure, in *buffer.InputStream, bs *boolstream.BooleanStream) error

	LooseMarshal(f *Format, o command.DataStructure, out *buffer.OutputStream) error
	LooseUnmarshal(f *Format, o command.DataStructure, in *buffer.InputStream) error
}

// fieldGroup is the compiled form of a schema for one version: its base group
// and its own properties in wire order, with fields from later versions left
// out.
type fieldGroup struct {
	schema *schema.Schema
	base   *fieldGroup
	props  []schema.Property
}

func newFieldGroup(s *schema.Schema, version int, memo map[*schema.Schema]*fieldGroup) *fieldGroup {
	if g, ok := memo[s]; ok {
		return g
	}
	g := &fieldGroup{schema: s}
	if s.Base != nil {
		g.base = newFieldGroup(s.Base, version, memo)
	}
	for _, p := range s.Ordered() {
		if p.AppliesTo(version) {
			g.props = append(g.props, p)
		}
	}
	memo[s] = g
	return g
}

func (g *fieldGroup) target(o any) any {
	if g.schema.Project == nil {
		return o
	}
	return g.schema.Project(o)
}

// check reads every property of a blank instance and verifies the accessor
// returns a value of the declared kind
func (g *fieldGroup) check(o any) error {
	if g.base != nil {
		if err := g.base.check(o); err != nil {
			return err
		}
	}
	t := g.target(o)
	for i := range g.props {
		p := &g.props[i]
		if err := checkValue(p, p.Get(t)); err != nil {
			return &schema.ConfigError{Schema: g.schema.Name, Property: p.Name, Reason: err.Error()}
		}
	}
	return nil
}

func (g *fieldGroup) wrap(p *schema.Property, err error) error {
	return propertyErr(g.schema.Name, p.Name, err)
}

func (g *fieldGroup) tightMarshal1(f *Format, o any, bs *boolstream.BooleanStream) (int, error) {
	rc := 0
	if g.base != nil {
		n, err := g.base.tightMarshal1(f, o, bs)
		if err != nil {
			return 0, err
		}
		rc += n
	}
	t := g.target(o)
	for i := range g.props {
		p := &g.props[i]
		n, err := rules[p.Kind].tightMarshal1(f, p, p.Get(t), bs)
		if err != nil {
			return 0, g.wrap(p, err)
		}
		rc += n
	}
	return rc, nil
}

func (g *fieldGroup) tightMarshal2(f *Format, o any, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	if g.base != nil {
		if err := g.base.tightMarshal2(f, o, out, bs); err != nil {
			return err
		}
	}
	t := g.target(o)
	for i := range g.props {
		p := &g.props[i]
		if err := rules[p.Kind].tightMarshal2(f, p, p.Get(t), out, bs); err != nil {
			return g.wrap(p, err)
		}
	}
	return nil
}

func (g *fieldGroup) tightUnmarshal(f *Format, o any, in *buffer.InputStream, bs *boolstream.BooleanStream) error {
	if g.base != nil {
		if err := g.base.tightUnmarshal(f, o, in, bs); err != nil {
			return err
		}
	}
	t := g.target(o)
	for i := range g.props {
		p := &g.props[i]
		v, err := rules[p.Kind].tightUnmarshal(f, p, in, bs)
		if err == nil {
			err = p.Set(t, v)
		}
		if err != nil {
			return g.wrap(p, err)
		}
	}
	return nil
}

func (g *fieldGroup) looseMarshal(f *Format, o any, out *buffer.OutputStream) error {
	if g.base != nil {
		if err := g.base.looseMarshal(f, o, out); err != nil {
			return err
		}
	}
	t := g.target(o)
	for i := range g.props {
		p := &g.props[i]
		if err := rules[p.Kind].looseMarshal(f, p, p.Get(t), out); err != nil {
			return g.wrap(p, err)
		}
	}
	return nil
}

func (g *fieldGroup) looseUnmarshal(f *Format, o any, in *buffer.InputStream) error {
	if g.base != nil {
		if err := g.base.looseUnmarshal(f, o, in); err != nil {
			return err
		}
	}
	t := g.target(o)
	for i := range g.props {
		p := &g.props[i]
		v, err := rules[p.Kind].looseUnmarshal(f, p, in)
		if err == nil {
			err = p.Set(t, v)
		}
		if err != nil {
			return g.wrap(p, err)
		}
	}
	return nil
}

// schemaMarshaller drives a field group for a concrete type and runs the
// marshal hooks of types that have them
type schemaMarshaller struct {
	fields *fieldGroup
	code   byte
	typ    reflect.Type
	newFn  func() any
	aware  bool
}

func newSchemaMarshaller(s *schema.Schema, version int, memo map[*schema.Schema]*fieldGroup) (*schemaMarshaller, error) {
	blank, ok := s.New().(command.DataStructure)
	if !ok {
		return nil, &schema.ConfigError{Schema: s.Name, Reason: "factory does not return a data structure"}
	}
	if blank.DataStructureType() != s.TypeCode {
		return nil, &schema.ConfigError{
			Schema: s.Name,
			Reason: fmt.Sprintf("factory returns type %d, schema declares %d", blank.DataStructureType(), s.TypeCode),
		}
	}
	m := &schemaMarshaller{
		fields: newFieldGroup(s, version, memo),
		code:   s.TypeCode,
		typ:    reflect.TypeOf(blank),
		newFn:  s.New,
		aware:  s.MarshalAware,
	}
	if err := m.fields.check(blank); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *schemaMarshaller) DataStructureType() byte { return m.code }

func (m *schemaMarshaller) CreateObject() command.DataStructure {
	return m.newFn().(command.DataStructure)
}

func (m *schemaMarshaller) accept(o command.DataStructure) error {
	if reflect.TypeOf(o) != m.typ {
		return fmt.Errorf("%w: %s marshaller cannot handle %T", ErrValueType, m.fields.schema.Name, o)
	}
	return nil
}

func (m *schemaMarshaller) hooks(o command.DataStructure) command.MarshalAware {
	if !m.aware {
		return nil
	}
	h, _ := o.(command.MarshalAware)
	return h
}

func (m *schemaMarshaller) TightMarshal1(f *Format, o command.DataStructure, bs *boolstream.BooleanStream) (int, error) {
	if err := m.accept(o); err != nil {
		return 0, err
	}
	if h := m.hooks(o); h != nil {
		if err := h.BeforeMarshal(); err != nil {
			return 0, err
		}
	}
	return m.fields.tightMarshal1(f, o, bs)
}

func (m *schemaMarshaller) TightMarshal2(f *Format, o command.DataStructure, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	if err := m.fields.tightMarshal2(f, o, out, bs); err != nil {
		return err
	}
	if h := m.hooks(o); h != nil {
		return h.AfterMarshal()
	}
	return nil
}

func (m *schemaMarshaller) TightUnmarshal(f *Format, o command.DataStructure, in *buffer.InputStream, bs *boolstream.BooleanStream) error {
	return m.unmarshal(o, func() error { return m.fields.tightUnmarshal(f, o, in, bs) })
}

func (m *schemaMarshaller) LooseMarshal(f *Format, o command.DataStructure, out *buffer.OutputStream) error {
	if err := m.accept(o); err != nil {
		return err
	}
	h := m.hooks(o)
	if h != nil {
		if err := h.BeforeMarshal(); err != nil {
			return err
		}
	}
	if err := m.fields.looseMarshal(f, o, out); err != nil {
		return err
	}
	if h != nil {
		return h.AfterMarshal()
	}
	return nil
}

func (m *schemaMarshaller) LooseUnmarshal(f *Format, o command.DataStructure, in *buffer.InputStream) error {
	return m.unmarshal(o, func() error { return m.fields.looseUnmarshal(f, o, in) })
}

func (m *schemaMarshaller) unmarshal(o command.DataStructure, fields func() error) error {
	if err := m.accept(o); err != nil {
		return err
	}
	h := m.hooks(o)
	if h != nil {
		if err := h.BeforeUnmarshal(); err != nil {
			return err
		}
	}
	if err := fields(); err != nil {
		return err
	}
	if h != nil {
		return h.AfterUnmarshal()
	}
	return nil
}
