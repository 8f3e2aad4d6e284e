package device

import "time"

// Device is a registered fingerprint sensor. The bridge authenticates a
// sensor by serial and shared secret before its events reach the ledger.
type Device struct {
	ID         string
	Name       string
	Serial     string
	SecretHash string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
