package command

import (
	"errors"
	"fmt"
	"sort"

	"github.com/apache/activemq-openwire-sub001/lib/buffer"
)

// Value tags of the primitive map format
const (
	primNull      byte = 0
	primBool      byte = 1
	primByte      byte = 2
	primChar      byte = 3
	primShort     byte = 4
	primInt       byte = 5
	primLong      byte = 6
	primDouble    byte = 7
	primFloat     byte = 8
	primString    byte = 9
	primBytes     byte = 10
	primMap       byte = 11
	primList      byte = 12
	primBigString byte = 13
)

// strings of this many UTF-16 units or more use the big string tag
const bigStringUnits = 8191

const maxPrimitiveDepth = 32

var (
	ErrUnsupportedType    = errors.New("command: unsupported primitive type")
	ErrMalformedPrimitive = errors.New("command: malformed primitive data")
)

// NormalizePrimitive checks that v can be stored in a primitive map and
// returns the value as it will read back. Supported types are nil, bool, byte,
// uint16 (char), int16, int32, int64, float32, float64, string, []byte,
// map[string]any and []any. int is stored as int64 and int8 as byte.
func NormalizePrimitive(v any) (any, error) {
	return normalize(v, 0)
}

func normalize(v any, depth int) (any, error) {
	if depth > maxPrimitiveDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrUnsupportedType, maxPrimitiveDepth)
	}
	switch val := v.(type) {
	case nil, bool, byte, uint16, int16, int32, int64, float32, float64, string, []byte:
		return val, nil
	case int:
		return int64(val), nil
	case int8:
		return byte(val), nil
	case map[string]any:
		if val == nil {
			return nil, nil
		}
		out := make(map[string]any, len(val))
		for k, e := range val {
			n, err := normalize(e, depth+1)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		if val == nil {
			return nil, nil
		}
		out := make([]any, len(val))
		for i, e := range val {
			n, err := normalize(e, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// MarshalPrimitiveMap encodes m with keys in sorted order. A nil map is
// encoded as size -1.
func MarshalPrimitiveMap(m map[string]any) ([]byte, error) {
	out := buffer.NewOutputStream(64)
	if err := writePrimitiveMap(out, m, 0); err != nil {
		return nil, err
	}
	if err := out.Err(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// UnmarshalPrimitiveMap decodes a map written by MarshalPrimitiveMap
func UnmarshalPrimitiveMap(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	in := buffer.NewInputStream(b)
	m, err := readPrimitiveMap(in, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPrimitive, err)
	}
	return m, nil
}

func writePrimitiveMap(out *buffer.OutputStream, m map[string]any, depth int) error {
	if m == nil {
		out.WriteInt32(-1)
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out.WriteInt32(int32(len(keys)))
	for _, k := range keys {
		if err := out.WriteUTF(k); err != nil {
			return fmt.Errorf("key %.32q: %w", k, err)
		}
		if err := writePrimitive(out, m[k], depth+1); err != nil {
			return fmt.Errorf("key %.32q: %w", k, err)
		}
	}
	return nil
}

func writePrimitive(out *buffer.OutputStream, v any, depth int) error {
	if depth > maxPrimitiveDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrUnsupportedType, maxPrimitiveDepth)
	}
	switch val := v.(type) {
	case nil:
		out.WriteUint8(primNull)
	case bool:
		out.WriteUint8(primBool)
		out.WriteBool(val)
	case byte:
		out.WriteUint8(primByte)
		out.WriteUint8(val)
	case int8:
		out.WriteUint8(primByte)
		out.WriteInt8(val)
	case uint16:
		out.WriteUint8(primChar)
		out.WriteUint16(val)
	case int16:
		out.WriteUint8(primShort)
		out.WriteInt16(val)
	case int32:
		out.WriteUint8(primInt)
		out.WriteInt32(val)
	case int64:
		out.WriteUint8(primLong)
		out.WriteInt64(val)
	case int:
		out.WriteUint8(primLong)
		out.WriteInt64(int64(val))
	case float64:
		out.WriteUint8(primDouble)
		out.WriteFloat64(val)
	case float32:
		out.WriteUint8(primFloat)
		out.WriteFloat32(val)
	case string:
		return writePrimitiveString(out, val)
	case []byte:
		out.WriteUint8(primBytes)
		out.WriteInt32(int32(len(val)))
		_, _ = out.Write(val)
	case map[string]any:
		out.WriteUint8(primMap)
		return writePrimitiveMap(out, val, depth)
	case []any:
		out.WriteUint8(primList)
		out.WriteInt32(int32(len(val)))
		for _, e := range val {
			if err := writePrimitive(out, e, depth+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	return nil
}

func writePrimitiveString(out *buffer.OutputStream, s string) error {
	units := 0
	for _, r := range s {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	if units < bigStringUnits {
		out.WriteUint8(primString)
		return out.WriteUTF(s)
	}
	n, _ := buffer.ModifiedUTF8Len(s)
	out.WriteUint8(primBigString)
	out.WriteInt32(int32(n))
	_, err := out.Write(buffer.AppendModifiedUTF8(make([]byte, 0, n), s))
	return err
}

func readPrimitiveMap(in *buffer.InputStream, depth int) (map[string]any, error) {
	size, err := in.ReadInt32()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, nil
	}
	// every entry needs at least three bytes
	if int(size) > in.Available()/3 {
		return nil, buffer.ErrTruncated
	}
	m := make(map[string]any, size)
	for i := int32(0); i < size; i++ {
		k, err := in.ReadUTF()
		if err != nil {
			return nil, err
		}
		v, err := readPrimitive(in, depth+1)
		if err != nil {
			return nil, fmt.Errorf("key %.32q: %w", k, err)
		}
		m[k] = v
	}
	return m, nil
}

func readPrimitive(in *buffer.InputStream, depth int) (any, error) {
	if depth > maxPrimitiveDepth {
		return nil, fmt.Errorf("nesting deeper than %d", maxPrimitiveDepth)
	}
	tag, err := in.ReadUint8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case primNull:
		return nil, nil
	case primBool:
		return in.ReadBool()
	case primByte:
		return in.ReadUint8()
	case primChar:
		return in.ReadUint16()
	case primShort:
		return in.ReadInt16()
	case primInt:
		return in.ReadInt32()
	case primLong:
		return in.ReadInt64()
	case primDouble:
		return in.ReadFloat64()
	case primFloat:
		return in.ReadFloat32()
	case primString:
		return in.ReadUTF()
	case primBigString:
		n, err := in.ReadInt32()
		if err != nil {
			return nil, err
		}
		raw, err := in.ReadView(int(n))
		if err != nil {
			return nil, err
		}
		return buffer.DecodeModifiedUTF8(raw.Bytes())
	case primBytes:
		n, err := in.ReadInt32()
		if err != nil {
			return nil, err
		}
		return in.ReadFully(int(n))
	case primMap:
		m, err := readPrimitiveMap(in, depth)
		if m == nil {
			return nil, err
		}
		return m, err
	case primList:
		n, err := in.ReadInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 || int(n) > in.Available() {
			return nil, buffer.ErrTruncated
		}
		list := make([]any, n)
		for i := range list {
			if list[i], err = readPrimitive(in, depth+1); err != nil {
				return nil, err
			}
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unknown value tag %d", tag)
	}
}
