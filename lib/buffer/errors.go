package buffer

import "errors"

var (
	ErrTruncated      = errors.New("buffer: truncated data")
	ErrMalformedUTF   = errors.New("buffer: malformed modified UTF-8")
	ErrStringTooLong  = errors.New("buffer: encoded string exceeds 65535 bytes")
	ErrBufferOverflow = errors.New("buffer: buffer size overflow")
	ErrInvalidUTF8    = errors.New("buffer: text view is not valid UTF-8")
	ErrNegativeLength = errors.New("buffer: negative length")
)
