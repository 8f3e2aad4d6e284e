package device

import "errors"

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrSerialExists       = errors.New("a device with this serial is already registered")
	ErrInvalidCredentials = errors.New("invalid device credentials")
	ErrDeviceInactive     = errors.New("device is deactivated")
)
