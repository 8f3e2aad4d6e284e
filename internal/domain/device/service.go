package device

import "context"

type DeviceService interface {
	Register(ctx context.Context, req RegisterDeviceRequest) (DeviceResponse, error)

	// Authenticate verifies a sensor's serial and shared secret and
	// returns the device when the credentials match an active row.
	Authenticate(ctx context.Context, serial, secret string) (Device, error)

	List(ctx context.Context) ([]DeviceResponse, error)

	SetActive(ctx context.Context, id string, active bool) error
}
