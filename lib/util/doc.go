// Package util provides small helpers shared by the OpenWire packages and the
// owire command line tool.
//
// The package contains:
//   - functions: FNV-1a hashing used by buffer.TextView to memoize text hashes
//   - statistics: summary statistics and a SizeHistogram used by the perf command
//     to report the distribution of encoded frame sizes
package util
