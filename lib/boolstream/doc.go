/*
Package boolstream implements the packed bit table that precedes the fields of
a tightly encoded command.

During the first tight marshaling pass every presence flag and size decision is
appended to a BooleanStream. The table is then written in front of the fields
and replayed in the same order during the second pass and while unmarshaling.

Wire format:

	header   bit count, self delimiting:
	           count < 64      1 byte  (count)
	           count < 256     0xC0, 1 byte
	           count < 65536   0x80, uint16
	           otherwise       0x40, int32
	data     ceil(count/8) bytes, bits packed LSB first

Because the bit count is recorded, reading more flags than were written is
detected and reported as ErrExhausted instead of silently yielding false.
*/
package boolstream
