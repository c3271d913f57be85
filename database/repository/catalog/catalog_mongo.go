package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"arcadehub/database"
	"arcadehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepo implements Repository using MongoDB.
type MongoCatalogRepo struct {
	devices     *mongo.Collection
	deviceTypes *mongo.Collection
}

// NewMongoCatalogRepo creates a catalog repository over the devices and
// device_types collections.
func NewMongoCatalogRepo() Repository {
	db := database.DB()
	repo := &MongoCatalogRepo{
		devices:     db.Collection("devices"),
		deviceTypes: db.Collection("device_types"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create catalog indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCatalogRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.devices.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "deviceTypeId", Value: 1}, {Key: "status", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create device indexes: %w", err)
	}
	if _, err := r.deviceTypes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create device type indexes: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepo) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var device models.Device
	if err := r.devices.FindOne(ctx, bson.M{"id": id}).Decode(&device); err != nil {
		return nil, fmt.Errorf("failed to fetch device %s: %w", id, err)
	}
	return &device, nil
}

func (r *MongoCatalogRepo) GetDeviceType(ctx context.Context, id string) (*models.DeviceType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var dt models.DeviceType
	if err := r.deviceTypes.FindOne(ctx, bson.M{"id": id}).Decode(&dt); err != nil {
		return nil, fmt.Errorf("failed to fetch device type %s: %w", id, err)
	}
	return &dt, nil
}

func (r *MongoCatalogRepo) ListDevicesByType(ctx context.Context, deviceTypeID string) ([]models.Device, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.devices.Find(ctx, bson.M{"deviceTypeId": deviceTypeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list devices of type %s: %w", deviceTypeID, err)
	}
	defer cursor.Close(ctx)

	var devices []models.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

func (r *MongoCatalogRepo) CountActiveUnits(ctx context.Context, deviceTypeID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.devices.CountDocuments(ctx, bson.M{
		"deviceTypeId": deviceTypeID,
		"status":       bson.M{"$nin": bson.A{models.DeviceOffline, models.DeviceMaintenance}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count units of type %s: %w", deviceTypeID, err)
	}
	return count, nil
}
