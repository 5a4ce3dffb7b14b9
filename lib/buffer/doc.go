// Package buffer provides the byte level building blocks of the OpenWire
// marshaling engine.
//
// Key Components:
//
//   - ByteView: an immutable offset/length window over a byte slice. Views
//     compare by content (unsigned lexicographic order) and can be rendered as
//     ASCII or hex for diagnostics.
//
//   - TextView: a ByteView that is known to hold UTF-8. The decoded string and
//     its hash are computed on first use and memoized.
//
//   - OutputStream: a growable big-endian writer. The backing slice doubles in
//     size when it runs out of space. Indexed writes patch earlier bytes (e.g. a
//     size prefix) without moving the write position.
//
//   - InputStream: a bounded big-endian reader over a window of a byte slice.
//     Restart rebinds the stream to new data without allocating.
//
//   - Modified UTF-8: the 2-byte length prefixed string encoding used by
//     OpenWire (java.io.DataOutput#writeUTF).
//
// Thread Safety:
//
//	Streams are not safe for concurrent use. ByteView values are safe to share
//	as long as nobody mutates the underlying slice.
package buffer
