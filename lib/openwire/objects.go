package openwire

import (
	"fmt"
	"reflect"

	"github.com/apache/activemq-openwire-sub001/lib/boolstream"
	"github.com/apache/activemq-openwire-sub001/lib/buffer"
	"github.com/apache/activemq-openwire-sub001/lib/command"
)

// An inline object is its type code followed by its fields. Nested objects put
// a presence flag in front of it. Cached objects add a second flag telling a
// new inline object from a 2 byte reference to an earlier one.

func (f *Format) marshallerFor(o command.DataStructure) (Marshaller, error) {
	m, ok := f.registry.Lookup(o.DataStructureType())
	if !ok {
		return nil, fmt.Errorf("%w: %d (%T)", ErrUnknownType, o.DataStructureType(), o)
	}
	return m, nil
}

// isNil treats typed nil pointers like a missing object
func isNil(o command.DataStructure) bool {
	if o == nil {
		return true
	}
	v := reflect.ValueOf(o)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (f *Format) readObject(in *buffer.InputStream) (Marshaller, command.DataStructure, error) {
	code, err := in.ReadUint8()
	if err != nil {
		return nil, nil, err
	}
	m, ok := f.registry.Lookup(code)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownType, code)
	}
	return m, m.CreateObject(), nil
}

func (f *Format) tightMarshalInline1(o command.DataStructure, bs *boolstream.BooleanStream) (int, error) {
	m, err := f.marshallerFor(o)
	if err != nil {
		return 0, err
	}
	n, err := m.TightMarshal1(f, o, bs)
	return 1 + n, err
}

func (f *Format) tightMarshalInline2(o command.DataStructure, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	m, err := f.marshallerFor(o)
	if err != nil {
		return err
	}
	out.WriteUint8(m.DataStructureType())
	return m.TightMarshal2(f, o, out, bs)
}

func (f *Format) looseMarshalInline(o command.DataStructure, out *buffer.OutputStream) error {
	m, err := f.marshallerFor(o)
	if err != nil {
		return err
	}
	out.WriteUint8(m.DataStructureType())
	return m.LooseMarshal(f, o, out)
}

func (f *Format) tightMarshalNested1(o command.DataStructure, bs *boolstream.BooleanStream) (int, error) {
	present := !isNil(o)
	bs.WriteBoolean(present)
	if !present {
		return 0, nil
	}
	return f.tightMarshalInline1(o, bs)
}

func (f *Format) tightMarshalNested2(o command.DataStructure, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	return f.tightMarshalInline2(o, out, bs)
}

func (f *Format) tightUnmarshalNested(in *buffer.InputStream, bs *boolstream.BooleanStream) (command.DataStructure, error) {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return nil, err
	}
	m, o, err := f.readObject(in)
	if err != nil {
		return nil, err
	}
	return o, m.TightUnmarshal(f, o, in, bs)
}

func (f *Format) looseMarshalNested(o command.DataStructure, out *buffer.OutputStream) error {
	present := !isNil(o)
	out.WriteBool(present)
	if !present {
		return nil
	}
	return f.looseMarshalInline(o, out)
}

func (f *Format) looseUnmarshalNested(in *buffer.InputStream) (command.DataStructure, error) {
	present, err := in.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	m, o, err := f.readObject(in)
	if err != nil {
		return nil, err
	}
	return o, m.LooseUnmarshal(f, o, in)
}

// The id of a new object is taken before its fields are processed, on both
// sides, so objects nested inside it get higher ids.

func (f *Format) tightMarshalCached1(o command.DataStructure, bs *boolstream.BooleanStream) (int, error) {
	if !f.cfg.CacheEnabled {
		return f.tightMarshalNested1(o, bs)
	}
	present := !isNil(o)
	bs.WriteBoolean(present)
	if !present {
		return 0, nil
	}
	key := cacheKeyOf(o)
	if _, ok := f.enc.lookup(key); ok {
		f.stats.encodeHit()
		bs.WriteBoolean(false)
		return 2, nil
	}
	f.stats.encodeMiss()
	bs.WriteBoolean(true)
	f.enc.store(key)
	return f.tightMarshalInline1(o, bs)
}

func (f *Format) tightMarshalCached2(o command.DataStructure, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	if !f.cfg.CacheEnabled {
		return f.tightMarshalNested2(o, out, bs)
	}
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	isNew, err := bs.ReadBoolean()
	if err != nil {
		return err
	}
	if isNew {
		return f.tightMarshalInline2(o, out, bs)
	}
	id, ok := f.enc.lookup(cacheKeyOf(o))
	if !ok {
		return fmt.Errorf("%w: %T changed between passes", ErrUnknownCacheID, o)
	}
	out.WriteUint16(id)
	return nil
}

func (f *Format) tightUnmarshalCached(in *buffer.InputStream, bs *boolstream.BooleanStream) (command.DataStructure, error) {
	if !f.cfg.CacheEnabled {
		return f.tightUnmarshalNested(in, bs)
	}
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return nil, err
	}
	isNew, err := bs.ReadBoolean()
	if err != nil {
		return nil, err
	}
	if !isNew {
		return f.cachedRef(in)
	}
	f.stats.decodeMiss()
	m, o, err := f.readObject(in)
	if err != nil {
		return nil, err
	}
	f.dec.store(o)
	return o, m.TightUnmarshal(f, o, in, bs)
}

func (f *Format) looseMarshalCached(o command.DataStructure, out *buffer.OutputStream) error {
	if !f.cfg.CacheEnabled {
		return f.looseMarshalNested(o, out)
	}
	present := !isNil(o)
	out.WriteBool(present)
	if !present {
		return nil
	}
	key := cacheKeyOf(o)
	if id, ok := f.enc.lookup(key); ok {
		f.stats.encodeHit()
		out.WriteBool(false)
		out.WriteUint16(id)
		return nil
	}
	f.stats.encodeMiss()
	out.WriteBool(true)
	f.enc.store(key)
	return f.looseMarshalInline(o, out)
}

func (f *Format) looseUnmarshalCached(in *buffer.InputStream) (command.DataStructure, error) {
	if !f.cfg.CacheEnabled {
		return f.looseUnmarshalNested(in)
	}
	present, err := in.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	isNew, err := in.ReadBool()
	if err != nil {
		return nil, err
	}
	if !isNew {
		return f.cachedRef(in)
	}
	f.stats.decodeMiss()
	m, o, err := f.readObject(in)
	if err != nil {
		return nil, err
	}
	f.dec.store(o)
	return o, m.LooseUnmarshal(f, o, in)
}

func (f *Format) cachedRef(in *buffer.InputStream) (command.DataStructure, error) {
	id, err := in.ReadUint16()
	if err != nil {
		return nil, err
	}
	o, ok := f.dec.get(id)
	if !ok || o == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCacheID, id)
	}
	f.stats.decodeHit()
	return o, nil
}
