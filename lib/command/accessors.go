package command

import (
	"fmt"

	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

// The helpers below build schema properties whose accessors work on the
// concrete type T through a field reference, so declaring a property is one
// line per field and no reflection is needed at runtime.

func mismatch(name string, v any) error {
	return fmt.Errorf("%w: %s cannot hold %T", ErrTypeMismatch, name, v)
}

func field[T, V any](kind schema.Kind, name string, seq, version int, ref func(*T) *V) schema.Property {
	return schema.Property{
		Name:     name,
		Kind:     kind,
		Version:  version,
		Sequence: seq,
		Get:      func(obj any) any { return *ref(obj.(*T)) },
		Set: func(obj any, v any) error {
			val, ok := v.(V)
			if !ok {
				return mismatch(name, v)
			}
			*ref(obj.(*T)) = val
			return nil
		},
	}
}

func fixed[T any](name string, seq, version, size int, ref func(*T) *[]byte) schema.Property {
	p := field(schema.KindFixedBytes, name, seq, version, ref)
	p.Size = size
	return p
}

type structure interface {
	comparable
	DataStructure
}

func object[T any, V structure](kind schema.Kind, name string, seq, version int, ref func(*T) *V) schema.Property {
	return schema.Property{
		Name:     name,
		Kind:     kind,
		Version:  version,
		Sequence: seq,
		Get: func(obj any) any {
			var zero V
			v := *ref(obj.(*T))
			if v == zero {
				return nil
			}
			return v
		},
		Set: func(obj any, v any) error {
			if v == nil {
				var zero V
				*ref(obj.(*T)) = zero
				return nil
			}
			val, ok := v.(V)
			if !ok {
				return mismatch(name, v)
			}
			*ref(obj.(*T)) = val
			return nil
		},
	}
}

func nested[T any, V structure](name string, seq, version int, ref func(*T) *V) schema.Property {
	return object(schema.KindNested, name, seq, version, ref)
}

func cached[T any, V structure](name string, seq, version int, ref func(*T) *V) schema.Property {
	return object(schema.KindCached, name, seq, version, ref)
}

// array values travel as []DataStructure, nil for a null array
func array[T any, V structure](name string, seq, version int, cachedElems bool, ref func(*T) *[]V) schema.Property {
	return schema.Property{
		Name:     name,
		Kind:     schema.KindArray,
		Version:  version,
		Sequence: seq,
		Cached:   cachedElems,
		Get: func(obj any) any {
			s := *ref(obj.(*T))
			if s == nil {
				return nil
			}
			var zero V
			out := make([]DataStructure, len(s))
			for i, e := range s {
				if e != zero {
					out[i] = e
				}
			}
			return out
		},
		Set: func(obj any, v any) error {
			if v == nil {
				*ref(obj.(*T)) = nil
				return nil
			}
			in, ok := v.([]DataStructure)
			if !ok {
				return mismatch(name, v)
			}
			out := make([]V, len(in))
			for i, e := range in {
				if e == nil {
					continue
				}
				val, ok := e.(V)
				if !ok {
					return mismatch(name, e)
				}
				out[i] = val
			}
			*ref(obj.(*T)) = out
			return nil
		},
	}
}

func throwable[T any](name string, seq, version int, ref func(*T) **BrokerError) schema.Property {
	return schema.Property{
		Name:     name,
		Kind:     schema.KindThrowable,
		Version:  version,
		Sequence: seq,
		Get: func(obj any) any {
			if e := *ref(obj.(*T)); e != nil {
				return e
			}
			return nil
		},
		Set: func(obj any, v any) error {
			if v == nil {
				*ref(obj.(*T)) = nil
				return nil
			}
			e, ok := v.(*BrokerError)
			if !ok {
				return mismatch(name, v)
			}
			*ref(obj.(*T)) = e
			return nil
		},
	}
}
