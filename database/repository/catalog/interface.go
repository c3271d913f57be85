package catalogRepo

import (
	"context"

	"arcadehub/models"
)

// Repository exposes read access to the device catalog. Devices and device
// types are administered out of band; the rental path only reads them.
type Repository interface {
	GetDevice(ctx context.Context, id string) (*models.Device, error)
	GetDeviceType(ctx context.Context, id string) (*models.DeviceType, error)
	ListDevicesByType(ctx context.Context, deviceTypeID string) ([]models.Device, error)
	// CountActiveUnits counts non-retired devices of the given type.
	CountActiveUnits(ctx context.Context, deviceTypeID string) (int64, error)
}
