package device

import "context"

type DeviceRepository interface {
	Create(ctx context.Context, d Device) (Device, error)
	GetBySerial(ctx context.Context, serial string) (Device, error)
	List(ctx context.Context) ([]Device, error)
	SetActive(ctx context.Context, id string, active bool) error
}
