/*
Package openwire encodes and decodes OpenWire commands.

A Format holds the negotiated options of one connection: protocol version,
tight or loose encoding, the object cache and framing. Marshallers are
compiled from the declarative schemas in the command package, one Registry
per protocol version.

# Encodings

Loose encoding writes every field in full, booleans as whole bytes. Tight
encoding collects all booleans and null flags of a command into a bit table
written after the type code, compacts longs to 0, 2, 4 or 8 bytes and sends
ASCII strings without the modified UTF-8 step. It needs two passes: the first
computes the size and fills the bit table, the second writes the bytes.

# Object cache

Properties of the cached kind are sent in full the first time and as a 2 byte
id afterwards. Encoder and decoder assign ids in the same first-seen order, so
no id is sent for new objects. A table stops accepting entries when it is
full. Call Reset when the connection is re-established.

# Usage

	f, err := openwire.NewFormat(openwire.DefaultConfig())
	if err != nil {
		return err
	}
	frame, err := f.Marshal(ack)
	...
	cmd, err := peer.Unmarshal(frame)

Decode failures are reported as *DecodeError and match ErrDecode.
*/
package openwire
