package notify

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"ssh-agent-notify/agent"
	"ssh-agent-notify/fingerprint"
)

// Format renders the title and body of a sign-request notification per
// spec.md §6: title "ssh-agent <comment>", body
// "<ALGO> <bits> bits\nSHA256:<base64-no-padding of SHA-256(canonical key)>".
// comment is the empty string when the key has no known comment.
func Format(key agent.KeyBlob, comment string) (title, body string) {
	title = fmt.Sprintf("ssh-agent %s", comment)

	digest := fingerprint.Digest(key, sha256.New)
	sum := base64.RawStdEncoding.EncodeToString(digest)
	body = fmt.Sprintf("%s %d bits\nSHA256:%s", fingerprint.Algorithm(key), fingerprint.Bits(key), sum)
	return title, body
}
