package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"arcadehub/database"
	"arcadehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReservationRepo implements Repository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs a new instance of MongoReservationRepo.
func NewMongoReservationRepo() Repository {
	repo := &MongoReservationRepo{
		coll: database.DB().Collection("reservations"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		fmt.Printf("failed to create reservation indexes: %v\n", err)
	}
	return repo
}

func activeStatusFilter() bson.M {
	statuses := models.ActiveStatuses()
	vals := make([]string, len(statuses))
	for i, s := range statuses {
		vals[i] = string(s)
	}
	return bson.M{"$in": vals}
}

// CreateConflictFree re-validates the hour range against active reservations
// and inserts within a single transaction. Combined with the advisory lock
// held by the service layer, this guarantees first-commit-wins admission for
// a (device, date).
func (repo *MongoReservationRepo) CreateConflictFree(ctx context.Context, res *models.Reservation) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"deviceId":  res.DeviceID,
			"date":      res.Date,
			"status":    activeStatusFilter(),
			"startHour": bson.M{"$lt": res.EndHour},
			"endHour":   bson.M{"$gt": res.StartHour},
		}
		count, err := repo.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("conflict re-check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}
		if _, err := repo.coll.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

func (repo *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (repo *MongoReservationRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Reservation
	if err := repo.coll.FindOne(ctx, bson.M{"idempotencyKey": key}).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (repo *MongoReservationRepo) FindActiveByDeviceAndDate(ctx context.Context, deviceID, date string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"deviceId": deviceID,
		"date":     date,
		"status":   activeStatusFilter(),
	}
	opts := options.Find().SetSort(bson.D{{Key: "startHour", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding active reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

func (repo *MongoReservationRepo) FindApprovedByDateAndHourRange(ctx context.Context, date string, startHour, endHour int) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"date":      date,
		"status":    string(models.StatusApproved),
		"startHour": bson.M{"$gte": startHour, "$lt": endHour},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startHour", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding approved reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

func (repo *MongoReservationRepo) FindActiveByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"userId": userID,
		"status": activeStatusFilter(),
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding user reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

func (repo *MongoReservationRepo) CountActiveByUserAndDeviceType(ctx context.Context, userID, deviceTypeID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"userId":       userID,
		"deviceTypeId": deviceTypeID,
		"status":       activeStatusFilter(),
	}
	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting active rentals: %w", err)
	}
	return int(count), nil
}

func (repo *MongoReservationRepo) CountActiveByDeviceTypeAndDate(ctx context.Context, deviceTypeID, date string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"deviceTypeId": deviceTypeID,
		"date":         date,
		"status":       activeStatusFilter(),
	}
	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting reservations for date: %w", err)
	}
	return int(count), nil
}

func (repo *MongoReservationRepo) UpdateStatus(ctx context.Context, id string, from []models.ReservationStatus, to models.ReservationStatus) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fromVals := make([]string, len(from))
	for i, s := range from {
		fromVals[i] = string(s)
	}
	filter := bson.M{"id": id, "status": bson.M{"$in": fromVals}}
	update := bson.M{"$set": bson.M{
		"status":    string(to),
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var res models.Reservation
	if err := repo.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
