package openwire

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches every *DecodeError
	ErrDecode = errors.New("openwire: decode failed")
	// ErrEncode matches every *EncodeError
	ErrEncode = errors.New("openwire: encode failed")

	ErrUnknownType        = errors.New("openwire: no marshaller for type code")
	ErrUnknownCacheID     = errors.New("openwire: reference to unknown cache id")
	ErrFrameTooLarge      = errors.New("openwire: frame exceeds the maximum frame size")
	ErrSizeMismatch       = errors.New("openwire: second pass size differs from first pass")
	ErrUnsupportedVersion = errors.New("openwire: unsupported protocol version")
	ErrValueType          = errors.New("openwire: property value has the wrong type")
	ErrFixedSize          = errors.New("openwire: fixed size array has the wrong length")
	ErrArrayTooLong       = errors.New("openwire: array has more than 65535 elements")
	ErrUnusedFlags        = errors.New("openwire: bit table has unread flags")
)

// DecodeError reports why a frame could not be decoded. No partially decoded
// object is ever returned together with a DecodeError.
type DecodeError struct {
	Type   byte // type code of the frame, 0 if it was not read yet
	Offset int  // stream position where decoding stopped
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("openwire: decode type %d at offset %d: %v", e.Type, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// EncodeError reports why a data structure could not be encoded. Nothing is
// left in the cache tables by a failed encode.
type EncodeError struct {
	Type byte
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("openwire: encode type %d: %v", e.Type, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Is(target error) bool { return target == ErrEncode }

func propertyErr(schemaName, prop string, err error) error {
	return fmt.Errorf("%s.%s: %w", schemaName, prop, err)
}
