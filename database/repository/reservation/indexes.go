// FILE: database/repository/reservation/indexes.go
package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the reservations collection.
func (repo *MongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary conflict-check pattern.
		{
			Keys:    bson.D{{Key: "deviceId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("device_date_status_idx"),
		},
		// Derivation queries scan a date's approved reservations by hour.
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}, {Key: "startHour", Value: 1}},
			Options: options.Index().SetName("date_status_start_idx"),
		},
		// Rental limit counters.
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "deviceTypeId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("user_type_status_idx"),
		},
		// Idempotent creation replay.
		{
			Keys: bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).
				SetName("unique_idempotency_key"),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}
	return nil
}
