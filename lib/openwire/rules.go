package openwire

import (
	"fmt"

	"github.com/apache/activemq-openwire-sub001/lib/boolstream"
	"github.com/apache/activemq-openwire-sub001/lib/buffer"
	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

// rule holds the tight and loose encoding of one property kind
type rule struct {
	tightMarshal1  func(f *Format, p *schema.Property, v any, bs *boolstream.BooleanStream) (int, error)
	tightMarshal2  func(f *Format, p *schema.Property, v any, out *buffer.OutputStream, bs *boolstream.BooleanStream) error
	tightUnmarshal func(f *Format, p *schema.Property, in *buffer.InputStream, bs *boolstream.BooleanStream) (any, error)
	looseMarshal   func(f *Format, p *schema.Property, v any, out *buffer.OutputStream) error
	looseUnmarshal func(f *Format, p *schema.Property, in *buffer.InputStream) (any, error)
}

// rules is indexed by schema.Kind. It is filled in init because the object
// rules call back into the marshallers, which read the table.
var rules [schema.NumKinds]rule

func init() {
	rules[schema.KindBool] = boolRule()
	rules[schema.KindByte] = scalarRule(1, (*buffer.OutputStream).WriteUint8, (*buffer.InputStream).ReadUint8)
	rules[schema.KindChar] = scalarRule(2, (*buffer.OutputStream).WriteUint16, (*buffer.InputStream).ReadUint16)
	rules[schema.KindShort] = scalarRule(2, (*buffer.OutputStream).WriteInt16, (*buffer.InputStream).ReadInt16)
	rules[schema.KindInt] = scalarRule(4, (*buffer.OutputStream).WriteInt32, (*buffer.InputStream).ReadInt32)
	rules[schema.KindLong] = longRule()
	rules[schema.KindString] = stringRule()
	rules[schema.KindBytes] = bytesRule()
	rules[schema.KindFixedBytes] = fixedBytesRule()
	rules[schema.KindNested] = objectRule(false)
	rules[schema.KindCached] = objectRule(true)
	rules[schema.KindThrowable] = throwableRule()
	rules[schema.KindArray] = arrayRule()
}

func valueOf[V any](p *schema.Property, v any) (V, error) {
	val, ok := v.(V)
	if !ok {
		return val, fmt.Errorf("%w: %s property %s holds %T", ErrValueType, p.Kind, p.Name, v)
	}
	return val, nil
}

func objectOf(p *schema.Property, v any) (command.DataStructure, error) {
	if v == nil {
		return nil, nil
	}
	return valueOf[command.DataStructure](p, v)
}

func listOf(p *schema.Property, v any) ([]command.DataStructure, error) {
	if v == nil {
		return nil, nil
	}
	return valueOf[[]command.DataStructure](p, v)
}

func throwableOf(p *schema.Property, v any) (*command.BrokerError, error) {
	if v == nil {
		return nil, nil
	}
	return valueOf[*command.BrokerError](p, v)
}

// checkValue tells whether v is a legal value for the kind of p
func checkValue(p *schema.Property, v any) error {
	var err error
	switch p.Kind {
	case schema.KindBool:
		_, err = valueOf[bool](p, v)
	case schema.KindByte:
		_, err = valueOf[byte](p, v)
	case schema.KindChar:
		_, err = valueOf[uint16](p, v)
	case schema.KindShort:
		_, err = valueOf[int16](p, v)
	case schema.KindInt:
		_, err = valueOf[int32](p, v)
	case schema.KindLong:
		_, err = valueOf[int64](p, v)
	case schema.KindString:
		_, err = valueOf[string](p, v)
	case schema.KindBytes, schema.KindFixedBytes:
		_, err = valueOf[[]byte](p, v)
	case schema.KindNested, schema.KindCached:
		_, err = objectOf(p, v)
	case schema.KindThrowable:
		_, err = throwableOf(p, v)
	case schema.KindArray:
		_, err = listOf(p, v)
	default:
		err = fmt.Errorf("%w: unknown kind %d", ErrValueType, p.Kind)
	}
	return err
}

func boolRule() rule {
	return rule{
		tightMarshal1: func(_ *Format, p *schema.Property, v any, bs *boolstream.BooleanStream) (int, error) {
			b, err := valueOf[bool](p, v)
			if err != nil {
				return 0, err
			}
			bs.WriteBoolean(b)
			return 0, nil
		},
		tightMarshal2: func(_ *Format, _ *schema.Property, _ any, _ *buffer.OutputStream, bs *boolstream.BooleanStream) error {
			_, err := bs.ReadBoolean()
			return err
		},
		tightUnmarshal: func(_ *Format, _ *schema.Property, _ *buffer.InputStream, bs *boolstream.BooleanStream) (any, error) {
			return bs.ReadBoolean()
		},
		looseMarshal: func(_ *Format, p *schema.Property, v any, out *buffer.OutputStream) error {
			b, err := valueOf[bool](p, v)
			if err != nil {
				return err
			}
			out.WriteBool(b)
			return nil
		},
		looseUnmarshal: func(_ *Format, _ *schema.Property, in *buffer.InputStream) (any, error) {
			return in.ReadBool()
		},
	}
}

// scalarRule encodes a fixed width number the same way in both modes
func scalarRule[V any](size int, write func(*buffer.OutputStream, V), read func(*buffer.InputStream) (V, error)) rule {
	marshal := func(_ *Format, p *schema.Property, v any, out *buffer.OutputStream) error {
		val, err := valueOf[V](p, v)
		if err != nil {
			return err
		}
		write(out, val)
		return nil
	}
	unmarshal := func(_ *Format, _ *schema.Property, in *buffer.InputStream) (any, error) {
		val, err := read(in)
		if err != nil {
			return nil, err
		}
		return val, nil
	}
	return rule{
		tightMarshal1: func(_ *Format, p *schema.Property, v any, _ *boolstream.BooleanStream) (int, error) {
			_, err := valueOf[V](p, v)
			return size, err
		},
		tightMarshal2: func(f *Format, p *schema.Property, v any, out *buffer.OutputStream, _ *boolstream.BooleanStream) error {
			return marshal(f, p, v, out)
		},
		tightUnmarshal: func(f *Format, p *schema.Property, in *buffer.InputStream, _ *boolstream.BooleanStream) (any, error) {
			return unmarshal(f, p, in)
		},
		looseMarshal:   marshal,
		looseUnmarshal: unmarshal,
	}
}

func longRule() rule {
	r := scalarRule(8, (*buffer.OutputStream).WriteInt64, (*buffer.InputStream).ReadInt64)
	r.tightMarshal1 = func(_ *Format, p *schema.Property, v any, bs *boolstream.BooleanStream) (int, error) {
		n, err := valueOf[int64](p, v)
		if err != nil {
			return 0, err
		}
		return tightMarshalLong1(n, bs), nil
	}
	r.tightMarshal2 = func(_ *Format, p *schema.Property, v any, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
		n, err := valueOf[int64](p, v)
		if err != nil {
			return err
		}
		return tightMarshalLong2(n, out, bs)
	}
	r.tightUnmarshal = func(_ *Format, _ *schema.Property, in *buffer.InputStream, bs *boolstream.BooleanStream) (any, error) {
		n, err := tightUnmarshalLong(in, bs)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return r
}

func stringRule() rule {
	return rule{
		tightMarshal1: func(_ *Format, p *schema.Property, v any, bs *boolstream.BooleanStream) (int, error) {
			s, err := valueOf[string](p, v)
			if err != nil {
				return 0, err
			}
			return tightMarshalString1(s, bs)
		},
		tightMarshal2: func(_ *Format, p *schema.Property, v any, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
			s, err := valueOf[string](p, v)
			if err != nil {
				return err
			}
			return tightMarshalString2(s, out, bs)
		},
		tightUnmarshal: func(_ *Format, _ *schema.Property, in *buffer.InputStream, bs *boolstream.BooleanStream) (any, error) {
			s, err := tightUnmarshalString(in, bs)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		looseMarshal: func(_ *Format, p *schema.Property, v any, out *buffer.OutputStream) error {
			s, err := valueOf[string](p, v)
			if err != nil {
				return err
			}
			return looseMarshalString(s, out)
		},
		looseUnmarshal: func(_ *Format, _ *schema.Property, in *buffer.InputStream) (any, error) {
			s, err := looseUnmarshalString(in)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
}

func bytesRule() rule {
	return rule{
		tightMarshal1: func(_ *Format, p *schema.Property, v any, bs *boolstream.BooleanStream) (int, error) {
			b, err := valueOf[[]byte](p, v)
			if err != nil {
				return 0, err
			}
			return tightMarshalBytes1(b, bs), nil
		},
		tightMarshal2: func(_ *Format, p *schema.Property, v any, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
			b, err := valueOf[[]byte](p, v)
			if err != nil {
				return err
			}
			return tightMarshalBytes2(b, out, bs)
		},
		tightUnmarshal: func(_ *Format, _ *schema.Property, in *buffer.InputStream, bs *boolstream.BooleanStream) (any, error) {
			b, err := tightUnmarshalBytes(in, bs)
			if err != nil {
				return nil, err
			}
			return b, nil
		},
		looseMarshal: func(_ *Format, p *schema.Property, v any, out *buffer.OutputStream) error {
			b, err := valueOf[[]byte](p, v)
			if err != nil {
				return err
			}
			return looseMarshalBytes(b, out)
		},
		looseUnmarshal: func(_ *Format, _ *schema.Property, in *buffer.InputStream) (any, error) {
			b, err := looseUnmarshalBytes(in)
			if err != nil {
				return nil, err
			}
			return b, nil
		},
	}
}

func fixedBytesRule() rule {
	check := func(p *schema.Property, v any) ([]byte, error) {
		b, err := valueOf[[]byte](p, v)
		if err != nil {
			return nil, err
		}
		if len(b) != p.Size {
			return nil, fmt.Errorf("%w: %s has %d bytes, want %d", ErrFixedSize, p.Name, len(b), p.Size)
		}
		return b, nil
	}
	marshal := func(_ *Format, p *schema.Property, v any, out *buffer.OutputStream) error {
		b, err := check(p, v)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	}
	unmarshal := func(_ *Format, p *schema.Property, in *buffer.InputStream) (any, error) {
		b, err := in.ReadFully(p.Size)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return rule{
		tightMarshal1: func(_ *Format, p *schema.Property, v any, _ *boolstream.BooleanStream) (int, error) {
			_, err := check(p, v)
			return p.Size, err
		},
		tightMarshal2: func(f *Format, p *schema.Property, v any, out *buffer.OutputStream, _ *boolstream.BooleanStream) error {
			return marshal(f, p, v, out)
		},
		tightUnmarshal: func(f *Format, p *schema.Property, in *buffer.InputStream, _ *boolstream.BooleanStream) (any, error) {
			return unmarshal(f, p, in)
		},
		looseMarshal:   marshal,
		looseUnmarshal: unmarshal,
	}
}

// element is the object rule used for a single value or an array element
type element struct {
	tightMarshal1  func(f *Format, o command.DataStructure, bs *boolstream.BooleanStream) (int, error)
	tightMarshal2  func(f *Format, o command.DataStructure, out *buffer.OutputStream, bs *boolstream.BooleanStream) error
	tightUnmarshal func(f *Format, in *buffer.InputStream, bs *boolstream.BooleanStream) (command.DataStructure, error)
	looseMarshal   func(f *Format, o command.DataStructure, out *buffer.OutputStream) error
	looseUnmarshal func(f *Format, in *buffer.InputStream) (command.DataStructure, error)
}

var (
	nestedElement = element{
		tightMarshal1:  (*Format).tightMarshalNested1,
		tightMarshal2:  (*Format).tightMarshalNested2,
		tightUnmarshal: (*Format).tightUnmarshalNested,
		looseMarshal:   (*Format).looseMarshalNested,
		looseUnmarshal: (*Format).looseUnmarshalNested,
	}
	cachedElement = element{
		tightMarshal1:  (*Format).tightMarshalCached1,
		tightMarshal2:  (*Format).tightMarshalCached2,
		tightUnmarshal: (*Format).tightUnmarshalCached,
		looseMarshal:   (*Format).looseMarshalCached,
		looseUnmarshal: (*Format).looseUnmarshalCached,
	}
)

func elementFor(cached bool) *element {
	if cached {
		return &cachedElement
	}
	return &nestedElement
}

func objectRule(cached bool) rule {
	e := elementFor(cached)
	return rule{
		tightMarshal1: func(f *Format, p *schema.Property, v any, bs *boolstream.BooleanStream) (int, error) {
			o, err := objectOf(p, v)
			if err != nil {
				return 0, err
			}
			return e.tightMarshal1(f, o, bs)
		},
		tightMarshal2: func(f *Format, p *schema.Property, v any, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
			o, err := objectOf(p, v)
			if err != nil {
				return err
			}
			return e.tightMarshal2(f, o, out, bs)
		},
		tightUnmarshal: func(f *Format, _ *schema.Property, in *buffer.InputStream, bs *boolstream.BooleanStream) (any, error) {
			return nilIfAbsent(e.tightUnmarshal(f, in, bs))
		},
		looseMarshal: func(f *Format, p *schema.Property, v any, out *buffer.OutputStream) error {
			o, err := objectOf(p, v)
			if err != nil {
				return err
			}
			return e.looseMarshal(f, o, out)
		},
		looseUnmarshal: func(f *Format, _ *schema.Property, in *buffer.InputStream) (any, error) {
			return nilIfAbsent(e.looseUnmarshal(f, in))
		},
	}
}

// nilIfAbsent keeps a missing object an untyped nil for the setters
func nilIfAbsent(o command.DataStructure, err error) (any, error) {
	if err != nil || o == nil {
		return nil, err
	}
	return o, nil
}

func throwableRule() rule {
	return rule{
		tightMarshal1: func(f *Format, p *schema.Property, v any, bs *boolstream.BooleanStream) (int, error) {
			e, err := throwableOf(p, v)
			if err != nil {
				return 0, err
			}
			return f.tightMarshalThrowable1(e, bs)
		},
		tightMarshal2: func(f *Format, p *schema.Property, v any, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
			e, err := throwableOf(p, v)
			if err != nil {
				return err
			}
			return f.tightMarshalThrowable2(e, out, bs)
		},
		tightUnmarshal: func(f *Format, _ *schema.Property, in *buffer.InputStream, bs *boolstream.BooleanStream) (any, error) {
			e, err := f.tightUnmarshalThrowable(in, bs)
			if err != nil || e == nil {
				return nil, err
			}
			return e, nil
		},
		looseMarshal: func(f *Format, p *schema.Property, v any, out *buffer.OutputStream) error {
			e, err := throwableOf(p, v)
			if err != nil {
				return err
			}
			return f.looseMarshalThrowable(e, out)
		},
		looseUnmarshal: func(f *Format, _ *schema.Property, in *buffer.InputStream) (any, error) {
			e, err := f.looseUnmarshalThrowable(in)
			if err != nil || e == nil {
				return nil, err
			}
			return e, nil
		},
	}
}

// Arrays: presence, a 2 byte count and the elements. Elements may be null.
func arrayRule() rule {
	list := func(p *schema.Property, v any) ([]command.DataStructure, error) {
		l, err := listOf(p, v)
		if err == nil && len(l) > 0xFFFF {
			err = fmt.Errorf("%w: %s has %d", ErrArrayTooLong, p.Name, len(l))
		}
		return l, err
	}
	return rule{
		tightMarshal1: func(f *Format, p *schema.Property, v any, bs *boolstream.BooleanStream) (int, error) {
			l, err := list(p, v)
			if err != nil {
				return 0, err
			}
			bs.WriteBoolean(l != nil)
			if l == nil {
				return 0, nil
			}
			e := elementFor(p.Cached)
			rc := 2
			for _, o := range l {
				n, err := e.tightMarshal1(f, o, bs)
				if err != nil {
					return 0, err
				}
				rc += n
			}
			return rc, nil
		},
		tightMarshal2: func(f *Format, p *schema.Property, v any, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
			l, err := list(p, v)
			if err != nil {
				return err
			}
			present, err := bs.ReadBoolean()
			if err != nil || !present {
				return err
			}
			e := elementFor(p.Cached)
			out.WriteUint16(uint16(len(l)))
			for _, o := range l {
				if err := e.tightMarshal2(f, o, out, bs); err != nil {
					return err
				}
			}
			return nil
		},
		tightUnmarshal: func(f *Format, p *schema.Property, in *buffer.InputStream, bs *boolstream.BooleanStream) (any, error) {
			present, err := bs.ReadBoolean()
			if err != nil || !present {
				return nil, err
			}
			e := elementFor(p.Cached)
			return readList(in, func() (command.DataStructure, error) { return e.tightUnmarshal(f, in, bs) })
		},
		looseMarshal: func(f *Format, p *schema.Property, v any, out *buffer.OutputStream) error {
			l, err := list(p, v)
			if err != nil {
				return err
			}
			out.WriteBool(l != nil)
			if l == nil {
				return nil
			}
			e := elementFor(p.Cached)
			out.WriteUint16(uint16(len(l)))
			for _, o := range l {
				if err := e.looseMarshal(f, o, out); err != nil {
					return err
				}
			}
			return nil
		},
		looseUnmarshal: func(f *Format, p *schema.Property, in *buffer.InputStream) (any, error) {
			present, err := in.ReadBool()
			if err != nil || !present {
				return nil, err
			}
			e := elementFor(p.Cached)
			return readList(in, func() (command.DataStructure, error) { return e.looseUnmarshal(f, in) })
		},
	}
}

func readList(in *buffer.InputStream, next func() (command.DataStructure, error)) (any, error) {
	n, err := in.ReadUint16()
	if err != nil {
		return nil, err
	}
	l := make([]command.DataStructure, n)
	for i := range l {
		if l[i], err = next(); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return l, nil
}
