package util

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// HashString generates a hash value for a string with a seed
// This function uses the FNV-1a hash algorithm, which is fast and has good distribution
func HashString(s string, seed uint64) uint64 {
	// Start with the offset combined with our seed for uniqueness
	hash := uint64(offset64) ^ seed

	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= prime64
	}

	return hash
}

// HashBytes is the byte slice variant of HashString. Both functions return the
// same value for the same content.
func HashBytes(b []byte, seed uint64) uint64 {
	hash := uint64(offset64) ^ seed

	for _, c := range b {
		hash ^= uint64(c)
		hash *= prime64
	}

	return hash
}
