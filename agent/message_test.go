package agent_test

import (
	"bytes"
	"testing"

	"ssh-agent-notify/agent"
	"ssh-agent-notify/rfc4251"
)

func TestDecodeMessageRequestIdentities(t *testing.T) {
	// S5: payload is a single tag byte 0x0b.
	msg, err := agent.DecodeMessage([]byte{0x0b})
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.Kind != agent.KindRequestIdentities {
		t.Fatalf("Kind = %v, want RequestIdentities", msg.Kind)
	}
}

func TestDecodeMessageRequestIdentitiesTrailingDataFails(t *testing.T) {
	if _, err := agent.DecodeMessage([]byte{0x0b, 0x00}); err == nil {
		t.Fatalf("DecodeMessage: want error on trailing data")
	}
}

func TestDecodeMessageSignRequestEd25519(t *testing.T) {
	// S6: ed25519 key of 32 zero bytes, empty data, flags 0.
	var kb []byte
	kb = rfc4251.EncodeText(kb, agent.AlgorithmEd25519)
	kb = rfc4251.EncodeString(kb, bytes.Repeat([]byte{0x00}, 32))

	var payload []byte
	payload = rfc4251.EncodeByte(payload, agent.TagSignRequest)
	payload = rfc4251.EncodeString(payload, kb)
	payload = rfc4251.EncodeString(payload, nil) // empty data
	payload = rfc4251.EncodeUint32(payload, 0)   // flags

	msg, err := agent.DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.Kind != agent.KindSignRequest {
		t.Fatalf("Kind = %v, want SignRequest", msg.Kind)
	}
	if msg.SignKeyBlob.Kind != agent.KeyBlobKindEd25519 {
		t.Fatalf("SignKeyBlob.Kind = %v", msg.SignKeyBlob.Kind)
	}
	if len(msg.SignData) != 0 {
		t.Fatalf("SignData = % x, want empty", msg.SignData)
	}
	if msg.SignFlags != 0 {
		t.Fatalf("SignFlags = %d, want 0", msg.SignFlags)
	}

	// Canonical re-encoding of the key equals the inner blob bytes.
	if got := msg.SignKeyBlob.Encode(nil); !bytes.Equal(got, kb) {
		t.Fatalf("Encode = % x, want % x", got, kb)
	}
}

func TestDecodeMessageIdentitiesAnswer(t *testing.T) {
	var kb []byte
	kb = rfc4251.EncodeText(kb, agent.AlgorithmEd25519)
	kb = rfc4251.EncodeString(kb, bytes.Repeat([]byte{0x01}, 32))

	var payload []byte
	payload = rfc4251.EncodeByte(payload, agent.TagIdentitiesAnswer)
	payload = rfc4251.EncodeUint32(payload, 1)
	payload = rfc4251.EncodeString(payload, kb)
	payload = rfc4251.EncodeText(payload, "user@host")

	msg, err := agent.DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.Kind != agent.KindIdentitiesAnswer {
		t.Fatalf("Kind = %v, want IdentitiesAnswer", msg.Kind)
	}
	if len(msg.Identities) != 1 {
		t.Fatalf("len(Identities) = %d, want 1", len(msg.Identities))
	}
	if msg.Identities[0].Comment != "user@host" {
		t.Fatalf("Comment = %q", msg.Identities[0].Comment)
	}
}

func TestDecodeMessageUnknownTagNeverFails(t *testing.T) {
	payload := []byte{0xff, 0x01, 0x02, 0x03}
	msg, err := agent.DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.Kind != agent.KindUnknown {
		t.Fatalf("Kind = %v, want Unknown", msg.Kind)
	}
	if msg.UnknownTag != 0xff {
		t.Fatalf("UnknownTag = %x", msg.UnknownTag)
	}
	if !bytes.Equal(msg.UnknownPayload, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("UnknownPayload = % x", msg.UnknownPayload)
	}
}

func TestDecodeMessageEmptyInsufficientData(t *testing.T) {
	if _, err := agent.DecodeMessage(nil); err == nil {
		t.Fatalf("DecodeMessage(nil): want error")
	}
}
