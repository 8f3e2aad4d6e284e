package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/asistia/asistencia-backend-go/internal/domain/device"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type DeviceServiceImpl struct {
	deviceRepo device.DeviceRepository
}

func NewDeviceService(deviceRepo device.DeviceRepository) device.DeviceService {
	return &DeviceServiceImpl{deviceRepo: deviceRepo}
}

// Register implements device.DeviceService.
func (s *DeviceServiceImpl) Register(ctx context.Context, req device.RegisterDeviceRequest) (device.DeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), bcrypt.DefaultCost)
	if err != nil {
		return device.DeviceResponse{}, fmt.Errorf("failed to hash device secret: %w", err)
	}

	created, err := s.deviceRepo.Create(ctx, device.Device{
		Name:       req.Name,
		Serial:     req.Serial,
		SecretHash: string(hash),
		IsActive:   true,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return device.DeviceResponse{}, device.ErrSerialExists
		}
		return device.DeviceResponse{}, fmt.Errorf("failed to register device: %w", err)
	}

	return mapDeviceToResponse(created), nil
}

// Authenticate implements device.DeviceService.
func (s *DeviceServiceImpl) Authenticate(ctx context.Context, serial, secret string) (device.Device, error) {
	d, err := s.deviceRepo.GetBySerial(ctx, serial)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return device.Device{}, device.ErrInvalidCredentials
		}
		return device.Device{}, fmt.Errorf("failed to look up device: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(d.SecretHash), []byte(secret)); err != nil {
		return device.Device{}, device.ErrInvalidCredentials
	}
	if !d.IsActive {
		return device.Device{}, device.ErrDeviceInactive
	}

	return d, nil
}

// List implements device.DeviceService.
func (s *DeviceServiceImpl) List(ctx context.Context) ([]device.DeviceResponse, error) {
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	responses := make([]device.DeviceResponse, 0, len(devices))
	for _, d := range devices {
		responses = append(responses, mapDeviceToResponse(d))
	}
	return responses, nil
}

// SetActive implements device.DeviceService.
func (s *DeviceServiceImpl) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.deviceRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return device.ErrDeviceNotFound
		}
		return fmt.Errorf("failed to update device: %w", err)
	}
	return nil
}

func mapDeviceToResponse(d device.Device) device.DeviceResponse {
	return device.DeviceResponse{
		ID:       d.ID,
		Name:     d.Name,
		Serial:   d.Serial,
		IsActive: d.IsActive,
	}
}
