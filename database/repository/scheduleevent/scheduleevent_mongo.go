package scheduleEventRepo

import (
	"context"
	"fmt"
	"time"

	"arcadehub/database"
	"arcadehub/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScheduleEventRepo implements Repository using MongoDB.
type MongoScheduleEventRepo struct {
	coll *mongo.Collection
}

func NewMongoScheduleEventRepo() Repository {
	repo := &MongoScheduleEventRepo{coll: database.DB().Collection("schedule_events")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create schedule event indexes: %v\n", err)
	}
	return repo
}

func (r *MongoScheduleEventRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "type", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// UpsertAuto replaces the auto event for (date, type) in a single filtered
// update. The isAutoGenerated filter makes a manual event invisible to the
// upsert, so the duplicate-key error on insert signals manual precedence.
func (r *MongoScheduleEventRepo) UpsertAuto(ctx context.Context, event *models.ScheduleEvent) (*models.ScheduleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"date": event.Date, "type": event.Type, "isAutoGenerated": true}
	update := bson.M{
		"$set": bson.M{
			"title":              event.Title,
			"startTime":          event.StartTime,
			"endTime":            event.EndTime,
			"sourceReference":    event.SourceReference,
			"affectsReservation": event.AffectsReservation,
			"updatedAt":          now,
		},
		"$setOnInsert": bson.M{
			"id":              uuid.New().String(),
			"date":            event.Date,
			"type":            event.Type,
			"isAutoGenerated": true,
			"createdAt":       now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var saved models.ScheduleEvent
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrManualExists
		}
		return nil, fmt.Errorf("failed to upsert schedule event for %s/%s: %w", event.Date, event.Type, err)
	}
	return &saved, nil
}

func (r *MongoScheduleEventRepo) GetByDateAndType(ctx context.Context, date string, eventType models.ScheduleEventType) (*models.ScheduleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var event models.ScheduleEvent
	err := r.coll.FindOne(ctx, bson.M{"date": date, "type": eventType}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule event for %s/%s: %w", date, eventType, err)
	}
	return &event, nil
}

func (r *MongoScheduleEventRepo) ListByDate(ctx context.Context, date string) ([]models.ScheduleEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule events for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var events []models.ScheduleEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode schedule events: %w", err)
	}
	return events, nil
}

func (r *MongoScheduleEventRepo) CreateManual(ctx context.Context, event *models.ScheduleEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.IsAutoGenerated = false
	event.CreatedAt = now
	event.UpdatedAt = now

	// Replaces an existing auto event for the same key; staff intent wins.
	if _, err := r.coll.DeleteOne(ctx, bson.M{"date": event.Date, "type": event.Type, "isAutoGenerated": true}); err != nil {
		return fmt.Errorf("failed to clear auto event for %s/%s: %w", event.Date, event.Type, err)
	}
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert manual schedule event: %w", err)
	}
	return nil
}

func (r *MongoScheduleEventRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete schedule event %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
