package openwire

import (
	"fmt"

	"github.com/apache/activemq-openwire-sub001/lib/boolstream"
	"github.com/apache/activemq-openwire-sub001/lib/buffer"
	"github.com/apache/activemq-openwire-sub001/lib/command"
)

// Compact long encoding: two flags select 0, 2, 4 or 8 value bytes. The 2 and
// 4 byte forms carry the low bits unsigned, so small negative numbers take the
// full 8 bytes.

func tightMarshalLong1(v int64, bs *boolstream.BooleanStream) int {
	switch {
	case v == 0:
		bs.WriteBoolean(false)
		bs.WriteBoolean(false)
		return 0
	case uint64(v)&^0xFFFF == 0:
		bs.WriteBoolean(false)
		bs.WriteBoolean(true)
		return 2
	case uint64(v)&^0xFFFFFFFF == 0:
		bs.WriteBoolean(true)
		bs.WriteBoolean(false)
		return 4
	default:
		bs.WriteBoolean(true)
		bs.WriteBoolean(true)
		return 8
	}
}

func readFlags(bs *boolstream.BooleanStream) (bool, bool, error) {
	b1, err := bs.ReadBoolean()
	if err != nil {
		return false, false, err
	}
	b2, err := bs.ReadBoolean()
	return b1, b2, err
}

func tightMarshalLong2(v int64, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	b1, b2, err := readFlags(bs)
	if err != nil {
		return err
	}
	switch {
	case b1 && b2:
		out.WriteInt64(v)
	case b1:
		out.WriteInt32(int32(v))
	case b2:
		out.WriteInt16(int16(v))
	}
	return nil
}

func tightUnmarshalLong(in *buffer.InputStream, bs *boolstream.BooleanStream) (int64, error) {
	b1, b2, err := readFlags(bs)
	if err != nil {
		return 0, err
	}
	switch {
	case b1 && b2:
		return in.ReadInt64()
	case b1:
		v, err := in.ReadInt32()
		return int64(uint32(v)), err
	case b2:
		v, err := in.ReadUint16()
		return int64(v), err
	}
	return 0, nil
}

// Strings: the empty string is the null string.

func tightMarshalString1(s string, bs *boolstream.BooleanStream) (int, error) {
	bs.WriteBoolean(s != "")
	if s == "" {
		return 0, nil
	}
	n, ascii := buffer.ModifiedUTF8Len(s)
	if n > buffer.MaxUTFLength {
		return 0, fmt.Errorf("%w: %d encoded bytes", buffer.ErrStringTooLong, n)
	}
	bs.WriteBoolean(ascii)
	return n + 2, nil
}

func tightMarshalString2(s string, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	ascii, err := bs.ReadBoolean()
	if err != nil {
		return err
	}
	if !ascii {
		return out.WriteUTF(s)
	}
	out.WriteUint16(uint16(len(s)))
	_, err = out.Write([]byte(s))
	return err
}

func tightUnmarshalString(in *buffer.InputStream, bs *boolstream.BooleanStream) (string, error) {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return "", err
	}
	ascii, err := bs.ReadBoolean()
	if err != nil {
		return "", err
	}
	if !ascii {
		return in.ReadUTF()
	}
	n, err := in.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := in.ReadFully(int(n))
	if err != nil {
		return "", err
	}
	// the ascii form only carries bytes 0x01..0x7F, anything else needs the utf form
	for _, c := range b {
		if c == 0 || c > 0x7F {
			return "", fmt.Errorf("%w: byte 0x%02x in ascii string", buffer.ErrMalformedUTF, c)
		}
	}
	return string(b), nil
}

func looseMarshalString(s string, out *buffer.OutputStream) error {
	out.WriteBool(s != "")
	if s == "" {
		return nil
	}
	return out.WriteUTF(s)
}

func looseUnmarshalString(in *buffer.InputStream) (string, error) {
	present, err := in.ReadBool()
	if err != nil || !present {
		return "", err
	}
	return in.ReadUTF()
}

// Byte arrays: tight mode flags null, loose mode writes a zero length for it.

func tightMarshalBytes1(b []byte, bs *boolstream.BooleanStream) int {
	bs.WriteBoolean(b != nil)
	if b == nil {
		return 0
	}
	return 4 + len(b)
}

func tightMarshalBytes2(b []byte, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	return looseMarshalBytes(b, out)
}

func tightUnmarshalBytes(in *buffer.InputStream, bs *boolstream.BooleanStream) ([]byte, error) {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return nil, err
	}
	b, err := looseUnmarshalBytes(in)
	if b == nil && err == nil {
		b = []byte{}
	}
	return b, err
}

func looseMarshalBytes(b []byte, out *buffer.OutputStream) error {
	out.WriteInt32(int32(len(b)))
	_, err := out.Write(b)
	return err
}

func looseUnmarshalBytes(in *buffer.InputStream) ([]byte, error) {
	n, err := in.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", buffer.ErrNegativeLength, n)
	}
	if n == 0 {
		return nil, nil
	}
	return in.ReadFully(int(n))
}

// Throwables carry class, message and, when enabled, the stack trace.

func (f *Format) tightMarshalThrowable1(e *command.BrokerError, bs *boolstream.BooleanStream) (int, error) {
	bs.WriteBoolean(e != nil)
	if e == nil {
		return 0, nil
	}
	rc := 0
	for _, s := range f.throwableStrings(e) {
		n, err := tightMarshalString1(s, bs)
		if err != nil {
			return 0, err
		}
		rc += n
	}
	return rc, nil
}

func (f *Format) tightMarshalThrowable2(e *command.BrokerError, out *buffer.OutputStream, bs *boolstream.BooleanStream) error {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return err
	}
	for _, s := range f.throwableStrings(e) {
		if err := tightMarshalString2(s, out, bs); err != nil {
			return err
		}
	}
	return nil
}

func (f *Format) tightUnmarshalThrowable(in *buffer.InputStream, bs *boolstream.BooleanStream) (*command.BrokerError, error) {
	present, err := bs.ReadBoolean()
	if err != nil || !present {
		return nil, err
	}
	return f.readThrowable(func() (string, error) { return tightUnmarshalString(in, bs) })
}

func (f *Format) looseMarshalThrowable(e *command.BrokerError, out *buffer.OutputStream) error {
	out.WriteBool(e != nil)
	if e == nil {
		return nil
	}
	for _, s := range f.throwableStrings(e) {
		if err := looseMarshalString(s, out); err != nil {
			return err
		}
	}
	return nil
}

func (f *Format) looseUnmarshalThrowable(in *buffer.InputStream) (*command.BrokerError, error) {
	present, err := in.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	return f.readThrowable(func() (string, error) { return looseUnmarshalString(in) })
}

func (f *Format) throwableStrings(e *command.BrokerError) []string {
	if f.cfg.StackTraceEnabled {
		return []string{e.ExceptionClass, e.Message, e.StackTrace}
	}
	return []string{e.ExceptionClass, e.Message}
}

func (f *Format) readThrowable(next func() (string, error)) (*command.BrokerError, error) {
	e := &command.BrokerError{}
	fields := []*string{&e.ExceptionClass, &e.Message}
	if f.cfg.StackTraceEnabled {
		fields = append(fields, &e.StackTrace)
	}
	for _, dst := range fields {
		s, err := next()
		if err != nil {
			return nil, err
		}
		*dst = s
	}
	return e, nil
}
