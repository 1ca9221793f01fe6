package fingerprint

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest. All fingerprints (code, captured
// state, cache entry) are this size.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain separation
// ensures that the same input bytes produce different hashes in different
// contexts, preventing cross-domain collisions.
type domainKey [32]byte

// Domain separation keys: the ASCII domain name zero-padded to 32 bytes,
// so the keys stay readable in hex dumps. Changing a key invalidates all
// existing cache entries in that domain.
var (
	codeDomainKey = domainKey{
		's', 't', 'a', 'g', 'e', 'k', 'i', 't', '.', 'f', 'p', '.',
		'c', 'o', 'd', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	stateDomainKey = domainKey{
		's', 't', 'a', 'g', 'e', 'k', 'i', 't', '.', 'f', 'p', '.',
		's', 't', 'a', 't', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	entryDomainKey = domainKey{
		's', 't', 'a', 'g', 'e', 'k', 'i', 't', '.', 'f', 'p', '.',
		'e', 'n', 't', 'r', 'y', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// Format returns the hex-encoded string representation of a hash. This is
// the canonical format used for cache file names, logs, and metrics.
func Format(hash Hash) string {
	return hex.EncodeToString(hash[:])
}

// Parse parses a 64-character hex string into a Hash.
func Parse(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing fingerprint: %w", err)
	}
	if len(decoded) != 32 {
		return hash, fmt.Errorf("fingerprint is %d bytes, want 32", len(decoded))
	}
	copy(hash[:], decoded)
	return hash, nil
}

// keyedHash computes the BLAKE3 keyed hash of data with the given domain key.
func keyedHash(key domainKey, data []byte) Hash {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("fingerprint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
