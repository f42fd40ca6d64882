package proxy

import "time"

// SignEvent is published to the broker whenever a SignRequest is observed
// on a session, one for every notification the daemon attempts (whether
// or not the notification itself succeeds).
type SignEvent struct {
	SessionID   string
	Time        time.Time
	Comment     string // "" if the key has no known comment yet
	Algorithm   string
	Bits        int
	Fingerprint string // "SHA256:<base64-no-padding digest>", as sent in the notification body
}
