package timeslotRepo

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

// MongoTemplateRepo implements TemplateRepository using MongoDB.
type MongoTemplateRepo struct {
	coll *mongo.Collection
}

func NewMongoTemplateRepo() TemplateRepository {
	repo := &MongoTemplateRepo{coll: database.DB().Collection("slot_templates")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create template indexes: %v\n", err)
	}
	return repo
}

func (r *MongoTemplateRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "isActive", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoTemplateRepo) Create(ctx context.Context, template *models.SlotTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, template); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("error creating template: %w", err)
	}
	return nil
}

func (r *MongoTemplateRepo) GetByID(ctx context.Context, id string) (*models.SlotTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var template models.SlotTemplate
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&template); err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *MongoTemplateRepo) GetByIDs(ctx context.Context, ids []string) ([]models.SlotTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error fetching templates: %w", err)
	}
	defer cursor.Close(ctx)

	var templates []models.SlotTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("error decoding templates: %w", err)
	}
	return templates, nil
}

func (r *MongoTemplateRepo) List(ctx context.Context, filter models.TemplateFilter) ([]models.SlotTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Type != nil {
		query["type"] = *filter.Type
	}
	if filter.Active != nil {
		query["isActive"] = *filter.Active
	}
	if filter.YouthOnly {
		query["isYouthTime"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "startHour", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing templates: %w", err)
	}
	defer cursor.Close(ctx)

	var templates []models.SlotTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("error decoding templates: %w", err)
	}
	return templates, nil
}

func (r *MongoTemplateRepo) Update(ctx context.Context, template *models.SlotTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": template.ID}, template)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("error updating template %s: %w", template.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoTemplateRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting template %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	coll *mongo.Collection
}

func NewMongoScheduleRepo() ScheduleRepository {
	repo := &MongoScheduleRepo{coll: database.DB().Collection("slot_schedules")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create schedule indexes: %v\n", err)
	}
	return repo
}

func (r *MongoScheduleRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "deviceTypeId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "templateIds", Value: 1}, {Key: "date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// ReplaceBinding deletes any existing binding for (date, deviceTypeID) and
// inserts the new one inside a single transaction.
func (r *MongoScheduleRepo) ReplaceBinding(ctx context.Context, date, deviceTypeID string, templateIDs []string) (*models.SlotSchedule, error) {
	now := time.Now()
	schedule := &models.SlotSchedule{
		ID:           uuid.New().String(),
		Date:         date,
		DeviceTypeID: deviceTypeID,
		TemplateIDs:  templateIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.coll.DeleteOne(sc, bson.M{"date": date, "deviceTypeId": deviceTypeID}); err != nil {
			return fmt.Errorf("delete existing binding failed: %w", err)
		}
		if _, err := r.coll.InsertOne(sc, schedule); err != nil {
			return fmt.Errorf("insert binding failed: %w", err)
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
		return nil, err
	}
	return schedule, nil
}

func (r *MongoScheduleRepo) GetByDateAndType(ctx context.Context, date, deviceTypeID string) (*models.SlotSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var schedule models.SlotSchedule
	err := r.coll.FindOne(ctx, bson.M{"date": date, "deviceTypeId": deviceTypeID}).Decode(&schedule)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching schedule for %s/%s: %w", date, deviceTypeID, err)
	}
	return &schedule, nil
}

func (r *MongoScheduleRepo) ListByDateRange(ctx context.Context, fromDate, toDate string) ([]models.SlotSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"date": bson.M{"$gte": fromDate, "$lte": toDate}})
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.SlotSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", err)
	}
	return schedules, nil
}

func (r *MongoScheduleRepo) CountFutureReferencing(ctx context.Context, templateID, fromDate string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{
		"templateIds": templateID,
		"date":        bson.M{"$gte": fromDate},
	})
	if err != nil {
		return 0, fmt.Errorf("error counting schedules referencing %s: %w", templateID, err)
	}
	return count, nil
}
