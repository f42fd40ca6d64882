package agent

import (
	"fmt"
	"math/big"

	"ssh-agent-notify/rfc4251"
)

// Algorithm name strings recognized in a KeyBlob.
const (
	AlgorithmRSA     = "ssh-rsa"
	AlgorithmEd25519 = "ssh-ed25519"
)

// ed25519PublicKeyLen is the fixed length of an Ed25519 public key.
const ed25519PublicKeyLen = 32

// ErrInvalidKeyLength is returned when an Ed25519 key blob's public key is
// not exactly 32 bytes.
var ErrInvalidKeyLength = fmt.Errorf("agent: ed25519 key must be %d bytes", ed25519PublicKeyLen)

// KeyBlobKind discriminates the variants of KeyBlob.
type KeyBlobKind int

const (
	// KeyBlobKindRSA is an ssh-rsa public key.
	KeyBlobKindRSA KeyBlobKind = iota
	// KeyBlobKindEd25519 is an ssh-ed25519 public key.
	KeyBlobKindEd25519
	// KeyBlobKindUnknown is any algorithm this package does not decode
	// the fields of.
	KeyBlobKindUnknown
)

// KeyBlob is the tagged union of key encodings this package understands,
// tagged by a leading algorithm-name string. Unknown algorithms are kept
// as their raw remaining bytes so the proxy can forward them verbatim.
//
// Semantic equality of two KeyBlobs is equality of their decoded fields
// (Algorithm, E, N, Pub, Raw), never of the original wire bytes: two RSA
// keys transmitted with different (but semantically equal) mpint padding
// decode to equal E and N values. KeyBlob itself is not comparable with ==
// (it holds slices and *big.Int pointers); callers that need a KeyBlob as
// a map key use its canonical re-encoding (Encode) as the key instead,
// which is exactly what the proxy session's comment map does.
type KeyBlob struct {
	Kind      KeyBlobKind
	Algorithm string // always populated, including for Unknown

	// RSA fields.
	E *big.Int
	N *big.Int // the modulus; the Rust original calls this field p

	// Ed25519 field.
	Pub []byte // exactly 32 bytes

	// Unknown fields.
	Raw []byte // remaining bytes after the algorithm string
}

// DecodeKeyBlob decodes a KeyBlob from c. c need not be empty afterward;
// the caller decides whether full consumption is required.
func DecodeKeyBlob(c *rfc4251.Cursor) (KeyBlob, error) {
	algo, err := rfc4251.DecodeString(c)
	if err != nil {
		return KeyBlob{}, fmt.Errorf("agent: keyblob algorithm: %w", err)
	}
	algorithm := string(algo)

	switch algorithm {
	case AlgorithmRSA:
		e, err := rfc4251.DecodeMpint(c)
		if err != nil {
			return KeyBlob{}, fmt.Errorf("agent: rsa e: %w", err)
		}
		n, err := rfc4251.DecodeMpint(c)
		if err != nil {
			return KeyBlob{}, fmt.Errorf("agent: rsa n: %w", err)
		}
		return KeyBlob{Kind: KeyBlobKindRSA, Algorithm: algorithm, E: e, N: n}, nil

	case AlgorithmEd25519:
		pub, err := rfc4251.DecodeString(c)
		if err != nil {
			return KeyBlob{}, fmt.Errorf("agent: ed25519 pub: %w", err)
		}
		if len(pub) != ed25519PublicKeyLen {
			return KeyBlob{}, ErrInvalidKeyLength
		}
		return KeyBlob{Kind: KeyBlobKindEd25519, Algorithm: algorithm, Pub: append([]byte(nil), pub...)}, nil

	default:
		return KeyBlob{Kind: KeyBlobKindUnknown, Algorithm: algorithm, Raw: append([]byte(nil), c.Remaining()...)}, nil
	}
}

// Encode appends the canonical re-encoding of k (algorithm string followed
// by its algorithm-specific fields) to dst. Two KeyBlobs that are
// semantically equal always produce byte-identical output.
func (k KeyBlob) Encode(dst []byte) []byte {
	dst = rfc4251.EncodeText(dst, k.Algorithm)
	switch k.Kind {
	case KeyBlobKindRSA:
		dst = rfc4251.EncodeMpint(dst, k.E)
		dst = rfc4251.EncodeMpint(dst, k.N)
	case KeyBlobKindEd25519:
		dst = rfc4251.EncodeString(dst, k.Pub)
	default:
		dst = append(dst, k.Raw...)
	}
	return dst
}
