package punchbloom

import "crypto/sha256"

// DigestSize is the number of bytes in a Digest.
const DigestSize = sha256.Size // 32

// Digest is the fixed-length hash of an item identifier. The algorithm is
// SHA-256 and is not configurable: filters produced by different tool
// instances must derive identical grids from identical names. SHA-256 is
// used only for its statistical bit dispersion, not for any security
// property.
type Digest [DigestSize]byte

// DigestOf hashes arbitrary input bytes. Deterministic; the empty input is
// permitted and hashes like any other.
func DigestOf(data []byte) Digest {
	return sha256.Sum256(data)
}

// DigestOfString hashes the UTF-8 bytes of s.
func DigestOfString(s string) Digest {
	return sha256.Sum256([]byte(s))
}
