// Package cmd implements the owire command line tool. It wraps the OpenWire
// codec for inspecting and producing frames by hand.
//
// The package is organized into several subpackages:
//
//   - codec: encode a command from name=value pairs, decode frames, list the
//     registered types of a protocol version
//   - schema: dump the built in command catalogue as a TOML schema document
//     and check a document against it
//   - perf: marshal and unmarshal benchmarks for representative commands
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every option can also be set through an OWIRE_ prefixed environment
// variable or a .env file, e.g. OWIRE_ENCODING=loose.
//
// See owire -help for a list of all commands.
package cmd
