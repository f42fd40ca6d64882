// Package agent implements the OpenSSH agent message model: a tagged
// union Message whose payload layout depends on a single discriminant
// byte, built on top of the rfc4251 primitive codec.
package agent

import (
	"fmt"

	"ssh-agent-notify/rfc4251"
)

// Message tags, per the OpenSSH agent protocol.
const (
	TagRequestIdentities byte = 11
	TagIdentitiesAnswer  byte = 12
	TagSignRequest       byte = 13
	TagSignResponse      byte = 14
)

// MessageKind discriminates the variants of Message.
type MessageKind int

const (
	// KindRequestIdentities carries no payload.
	KindRequestIdentities MessageKind = iota
	// KindIdentitiesAnswer carries a list of Identity records.
	KindIdentitiesAnswer
	// KindSignRequest carries a key blob, data to sign, and flags.
	KindSignRequest
	// KindSignResponse carries a signature.
	KindSignResponse
	// KindUnknown carries a tag this package does not decode the
	// payload of, plus the opaque remaining bytes.
	KindUnknown
)

// Identity is one entry of an IdentitiesAnswer: a length-prefixed key
// blob and its comment.
type Identity struct {
	KeyBlob KeyBlob
	Comment string
}

// Message is the tagged union of one agent record's decoded payload.
type Message struct {
	Kind MessageKind

	Identities []Identity // KindIdentitiesAnswer

	// KindSignRequest
	SignKeyBlob KeyBlob
	SignData    []byte
	SignFlags   uint32

	SignResponse []byte // KindSignResponse

	UnknownTag     byte   // KindUnknown
	UnknownPayload []byte // KindUnknown
}

// DecodeMessage decodes one record payload (tag byte + variant body) into
// a Message. For every known tag, the cursor must be fully consumed by
// the end of the decode or the decode fails with ErrTrailingData. Unknown
// tags always succeed, capturing the remaining bytes verbatim.
func DecodeMessage(payload []byte) (Message, error) {
	c := rfc4251.NewCursor(payload)

	tag, err := rfc4251.DecodeByte(&c)
	if err != nil {
		return Message{}, fmt.Errorf("agent: tag: %w", err)
	}

	switch tag {
	case TagRequestIdentities:
		if !c.Empty() {
			return Message{}, rfc4251.ErrTrailingData
		}
		return Message{Kind: KindRequestIdentities}, nil

	case TagIdentitiesAnswer:
		n, err := rfc4251.DecodeUint32(&c)
		if err != nil {
			return Message{}, fmt.Errorf("agent: identities count: %w", err)
		}
		identities := make([]Identity, 0, n)
		for i := uint32(0); i < n; i++ {
			id, err := decodeIdentity(&c)
			if err != nil {
				return Message{}, fmt.Errorf("agent: identity %d: %w", i, err)
			}
			identities = append(identities, id)
		}
		if !c.Empty() {
			return Message{}, rfc4251.ErrTrailingData
		}
		return Message{Kind: KindIdentitiesAnswer, Identities: identities}, nil

	case TagSignRequest:
		kb, err := rfc4251.DecodeString(&c)
		if err != nil {
			return Message{}, fmt.Errorf("agent: sign request keyblob: %w", err)
		}
		data, err := rfc4251.DecodeString(&c)
		if err != nil {
			return Message{}, fmt.Errorf("agent: sign request data: %w", err)
		}
		flags, err := rfc4251.DecodeUint32(&c)
		if err != nil {
			return Message{}, fmt.Errorf("agent: sign request flags: %w", err)
		}
		if !c.Empty() {
			return Message{}, rfc4251.ErrTrailingData
		}

		kbc := rfc4251.NewCursor(kb)
		keyBlob, err := DecodeKeyBlob(&kbc)
		if err != nil {
			// The outer frame decoded fine; only the inner blob is
			// malformed. The whole decode still fails and none of the
			// outer fields are returned; the proxy has already forwarded
			// the record by then and only logs this error.
			return Message{}, fmt.Errorf("agent: sign request keyblob decode: %w", err)
		}

		return Message{
			Kind:        KindSignRequest,
			SignKeyBlob: keyBlob,
			SignData:    append([]byte(nil), data...),
			SignFlags:   flags,
		}, nil

	case TagSignResponse:
		sig, err := rfc4251.DecodeString(&c)
		if err != nil {
			return Message{}, fmt.Errorf("agent: sign response: %w", err)
		}
		if !c.Empty() {
			return Message{}, rfc4251.ErrTrailingData
		}
		return Message{Kind: KindSignResponse, SignResponse: append([]byte(nil), sig...)}, nil

	default:
		return Message{
			Kind:           KindUnknown,
			UnknownTag:     tag,
			UnknownPayload: append([]byte(nil), c.Remaining()...),
		}, nil
	}
}

func decodeIdentity(c *rfc4251.Cursor) (Identity, error) {
	kb, err := rfc4251.DecodeString(c)
	if err != nil {
		return Identity{}, fmt.Errorf("keyblob: %w", err)
	}
	comment, err := rfc4251.DecodeText(c)
	if err != nil {
		return Identity{}, fmt.Errorf("comment: %w", err)
	}

	kbc := rfc4251.NewCursor(kb)
	keyBlob, err := DecodeKeyBlob(&kbc)
	if err != nil {
		return Identity{}, fmt.Errorf("keyblob decode: %w", err)
	}
	return Identity{KeyBlob: keyBlob, Comment: comment}, nil
}
