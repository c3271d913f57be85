package models

import "github.com/shopspring/decimal"

// DeviceStatus is the operational state of a rentable unit.
type DeviceStatus string

const (
	DeviceAvailable   DeviceStatus = "available"
	DeviceOccupied    DeviceStatus = "occupied"
	DeviceMaintenance DeviceStatus = "maintenance"
	DeviceOffline     DeviceStatus = "offline"
)

// Device is a single rentable unit (e.g. one maimai cabinet).
type Device struct {
	ID           string       `bson:"id" json:"id"`
	DeviceTypeID string       `bson:"deviceTypeId" json:"deviceTypeId"`
	Number       int          `bson:"number" json:"number"`
	Status       DeviceStatus `bson:"status" json:"status"`
}

// IsRentable reports whether the unit can accept new reservations.
func (d *Device) IsRentable() bool {
	return d.Status == DeviceAvailable || d.Status == DeviceOccupied
}

// DeviceType groups devices sharing a catalog entry (category, pricing).
type DeviceType struct {
	ID          string          `bson:"id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Category    string          `bson:"category" json:"category"`
	BasePricing decimal.Decimal `bson:"basePricing" json:"basePricing"`
	IsActive    bool            `bson:"isActive" json:"isActive"`
}
