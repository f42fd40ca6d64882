// Package fingerprint computes the canonical re-encoding of a key blob
// used for hashing, plus the derived bit-length and digest used in
// desktop notifications.
package fingerprint

import (
	"hash"

	"ssh-agent-notify/agent"
)

// Bits returns the key's bit length: the modulus bit length for RSA, 256
// for Ed25519, 0 for an unrecognized algorithm.
func Bits(k agent.KeyBlob) int {
	switch k.Kind {
	case agent.KeyBlobKindRSA:
		if k.N == nil {
			return 0
		}
		return k.N.BitLen()
	case agent.KeyBlobKindEd25519:
		return 256
	default:
		return 0
	}
}

// Digest re-encodes k canonically (see KeyBlob.Encode) and hashes the
// result with a hash.Hash obtained from newHash. Two KeyBlobs that are
// semantically equal always produce identical digests, regardless of
// the mpint padding variant they were originally parsed from.
func Digest(k agent.KeyBlob, newHash func() hash.Hash) []byte {
	h := newHash()
	h.Write(k.Encode(nil))
	return h.Sum(nil)
}

// Algorithm returns a short display name for k's kind, used in
// notification bodies: "RSA", "ED25519", or the raw algorithm string for
// anything unrecognized.
func Algorithm(k agent.KeyBlob) string {
	switch k.Kind {
	case agent.KeyBlobKindRSA:
		return "RSA"
	case agent.KeyBlobKindEd25519:
		return "ED25519"
	default:
		return k.Algorithm
	}
}
