package attendance

import "errors"

// Attendance domain errors
var (
	// State-machine rejections (business conflicts, never retried)
	ErrDuplicateOpenEntrada = errors.New("an open entrada already exists for this user, date and shift")
	ErrNoOpenEntrada        = errors.New("no open entrada to register a salida against")
	ErrRecordAlreadyClosed  = errors.New("attendance record for this user, date and shift is already closed")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrInvalidMethod  = errors.New("method must be one of FINGERPRINT, MANUAL, FACIAL")
)
