package openwire

import (
	"errors"
	"fmt"

	"github.com/apache/activemq-openwire-sub001/lib/boolstream"
	"github.com/apache/activemq-openwire-sub001/lib/buffer"
	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("openwire")

// NullType is the type code of the null command
const NullType byte = 0

// Format encodes and decodes commands for one connection. It owns the object
// cache tables of that connection.
//
// The encode path (Marshal, MarshalTo) and the decode path (Unmarshal,
// UnmarshalFrom) share no mutable state, so one goroutine may write while
// another reads. Each path on its own is not safe for concurrent use, and
// Reset must not race with either.
//
// A frame is the optional 4 byte size prefix, the type code and, in tight
// mode, the bit table, followed by the fields.
type Format struct {
	cfg      Config
	registry *Registry
	enc      *encodeCache
	dec      *decodeCache
	stats    *Stats
	encBS    *boolstream.BooleanStream
	decBS    *boolstream.BooleanStream
	in       *buffer.InputStream
}

// NewFormat creates a format using the built-in types of cfg.Version
func NewFormat(cfg Config) (*Format, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r, err := RegistryFor(cfg.Version)
	if err != nil {
		return nil, err
	}
	return newFormat(cfg, r), nil
}

// NewFormatWithRegistry creates a format using a custom registry
func NewFormatWithRegistry(cfg Config, r *Registry) (*Format, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r.Version() != cfg.Version {
		return nil, fmt.Errorf("openwire: registry is for version %d, config wants %d", r.Version(), cfg.Version)
	}
	return newFormat(cfg, r), nil
}

func newFormat(cfg Config, r *Registry) *Format {
	capacity := cfg.CacheSize
	if !cfg.CacheEnabled {
		capacity = 0
	}
	return &Format{
		cfg:      cfg,
		registry: r,
		enc:      newEncodeCache(capacity),
		dec:      newDecodeCache(capacity),
		stats:    newStats(),
		encBS:    boolstream.New(),
		decBS:    boolstream.New(),
		in:       buffer.NewInputStream(nil),
	}
}

// Config returns the options the format was created with
func (f *Format) Config() Config { return f.cfg }

// Version returns the protocol version in use
func (f *Format) Version() int { return f.cfg.Version }

// Registry returns the marshallers in use
func (f *Format) Registry() *Registry { return f.registry }

// Stats returns the statistics of this format
func (f *Format) Stats() *Stats { return f.stats }

// CacheLen returns the number of entries in the encoder and decoder tables
func (f *Format) CacheLen() (encoder, decoder int) { return f.enc.len(), f.dec.len() }

// Reset discards both cache tables, as needed when the connection restarts
func (f *Format) Reset() {
	f.enc.reset()
	f.dec.reset()
}

// Marshal encodes one command into a new byte slice. A nil data structure
// is encoded as the null command.
func (f *Format) Marshal(ds command.DataStructure) ([]byte, error) {
	out := buffer.NewOutputStream(0)
	if err := f.MarshalTo(out, ds); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// MarshalTo appends one encoded command to out. On failure the cache entries
// added for this command are removed again; out may hold a partial frame.
func (f *Format) MarshalTo(out *buffer.OutputStream, ds command.DataStructure) (err error) {
	var code byte
	if !isNil(ds) {
		code = ds.DataStructureType()
	}
	mark := f.enc.mark()
	start := out.Size()
	defer func() {
		if err != nil {
			f.enc.rollback(mark)
			encodeErrors.Inc()
			err = &EncodeError{Type: code, Err: err}
			return
		}
		f.stats.recordMarshal(out.Size() - start)
	}()

	if code == NullType {
		if f.cfg.SizePrefix {
			out.WriteInt32(1)
		}
		out.WriteUint8(NullType)
		return out.Err()
	}

	m, err := f.marshallerFor(ds)
	if err != nil {
		return err
	}
	if f.cfg.TightEncoding {
		err = f.tightMarshal(m, ds, out)
	} else {
		err = f.looseMarshal(m, ds, out)
	}
	if err == nil {
		err = out.Err()
	}
	return err
}

func (f *Format) tightMarshal(m Marshaller, ds command.DataStructure, out *buffer.OutputStream) error {
	f.encBS.Reset()
	n, err := m.TightMarshal1(f, ds, f.encBS)
	if err != nil {
		return err
	}
	size := 1 + f.encBS.MarshalledSize() + n
	if size > f.cfg.MaxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, size, f.cfg.MaxFrameSize)
	}
	if f.cfg.SizePrefix {
		out.WriteInt32(int32(size))
	}
	start := out.Size()
	out.WriteUint8(m.DataStructureType())
	f.encBS.Marshal(out)
	if err := m.TightMarshal2(f, ds, out, f.encBS); err != nil {
		return err
	}
	if written := out.Size() - start; out.Err() == nil && written != size {
		return fmt.Errorf("%w: wrote %d, computed %d", ErrSizeMismatch, written, size)
	}
	marshalTight.Inc()
	marshalBytes.Add(size)
	return nil
}

func (f *Format) looseMarshal(m Marshaller, ds command.DataStructure, out *buffer.OutputStream) error {
	prefix := -1
	if f.cfg.SizePrefix {
		prefix = out.Reserve(4)
	}
	start := out.Size()
	out.WriteUint8(m.DataStructureType())
	if err := m.LooseMarshal(f, ds, out); err != nil {
		return err
	}
	size := out.Size() - start
	if size > f.cfg.MaxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, size, f.cfg.MaxFrameSize)
	}
	if prefix >= 0 {
		if err := out.WriteInt32At(prefix, int32(size)); err != nil {
			return err
		}
	}
	marshalLoose.Inc()
	marshalBytes.Add(size)
	return nil
}

// Unmarshal decodes one command from b. The null command decodes to nil.
func (f *Format) Unmarshal(b []byte) (command.DataStructure, error) {
	f.in.Restart(b)
	return f.UnmarshalFrom(f.in)
}

// UnmarshalFrom decodes the next command from in. Without a size prefix the
// frame is everything that is left in the stream. On failure nothing decoded
// so far is returned and the cache entries of the frame are removed again.
func (f *Format) UnmarshalFrom(in *buffer.InputStream) (ds command.DataStructure, err error) {
	var code byte
	mark := f.dec.mark()
	begin := in.Position()
	defer func() {
		if err != nil {
			f.dec.rollback(mark)
			decodeErrors.Inc()
			Logger.Warningf("dropping frame of type %d: %v", code, err)
			if !errors.Is(err, ErrDecode) {
				err = &DecodeError{Type: code, Offset: in.Position(), Err: err}
			}
			ds = nil
		}
	}()

	frame := in
	if f.cfg.SizePrefix {
		size, err := in.ReadInt32()
		if err != nil {
			return nil, err
		}
		if size < 1 || int(size) > f.cfg.MaxFrameSize {
			return nil, fmt.Errorf("%w: size prefix %d, limit %d", ErrFrameTooLarge, size, f.cfg.MaxFrameSize)
		}
		view, err := in.ReadView(int(size))
		if err != nil {
			return nil, err
		}
		frame = buffer.NewInputStreamView(view)
	} else if in.Available() > f.cfg.MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFrameTooLarge, in.Available(), f.cfg.MaxFrameSize)
	}

	if code, err = frame.ReadUint8(); err != nil {
		return nil, err
	}
	if code == NullType {
		return nil, nil
	}
	m, ok := f.registry.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, code)
	}
	ds = m.CreateObject()
	if f.cfg.TightEncoding {
		err = f.tightUnmarshal(m, ds, frame)
	} else {
		err = m.LooseUnmarshal(f, ds, frame)
		unmarshalLoose.Inc()
	}
	if err != nil {
		return nil, err
	}
	f.stats.recordUnmarshal(in.Position() - begin)
	return ds, nil
}

func (f *Format) tightUnmarshal(m Marshaller, ds command.DataStructure, in *buffer.InputStream) error {
	f.decBS.Reset()
	if err := f.decBS.Unmarshal(in); err != nil {
		return err
	}
	if err := m.TightUnmarshal(f, ds, in, f.decBS); err != nil {
		return err
	}
	if n := f.decBS.Remaining(); n != 0 {
		return fmt.Errorf("%w: %d left", ErrUnusedFlags, n)
	}
	unmarshalTight.Inc()
	return nil
}
