package repository

import (
	"context"
	"fmt"
	"time"

	"shopsight-gateway/internal/domain"
	"shopsight-gateway/internal/infrastructure/repository/entity"
	"shopsight-gateway/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRequestLogRepository implements RequestLogRepository using MongoDB
type MongoRequestLogRepository struct {
	collection *mongo.Collection
}

// NewMongoRequestLogRepository creates a new MongoDB request log repository
func NewMongoRequestLogRepository(db *mongo.Database) *MongoRequestLogRepository {
	return &MongoRequestLogRepository{
		collection: db.Collection("request_logs"),
	}
}

var _ ports.RequestLogRepository = (*MongoRequestLogRepository)(nil)

// EnsureIndexes creates the lookup index used by the per-store queries.
func (r *MongoRequestLogRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "storeDomain", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}
	_, err := r.collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		return fmt.Errorf("failed to create request log index: %w", err)
	}
	return nil
}

// Insert creates a new log entry
func (r *MongoRequestLogRepository) Insert(ctx context.Context, entry *domain.RequestLog) error {
	doc := entity.MongoRequestLogDocFromDomain(entry)
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert request log: %w", err)
	}

	return nil
}

// AttachAnswer sets the answer fields on the unanswered entry with the given
// correlation id. Answer and response timestamp are written together, once.
func (r *MongoRequestLogRepository) AttachAnswer(ctx context.Context, id string, result *domain.AnswerResult, at time.Time) error {
	filter := bson.M{"_id": id, "respondedAt": nil}
	update := bson.M{"$set": bson.M{
		"answer":           result.Answer,
		"confidence":       result.Confidence,
		"processingTimeMs": result.ProcessingTimeMs,
		"respondedAt":      at,
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to attach answer: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no unanswered request log entry with id %s", id)
	}

	return nil
}

// ListRecent retrieves up to limit entries for a store, newest first
func (r *MongoRequestLogRepository) ListRecent(ctx context.Context, storeDomain string, limit int64) ([]*domain.RequestLog, error) {
	filter := bson.M{"storeDomain": storeDomain}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list request logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.RequestLog
	for cursor.Next(ctx) {
		var doc entity.MongoRequestLogDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode request log: %w", err)
		}
		entries = append(entries, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return entries, nil
}

// DeleteByStore removes all entries owned by a store
func (r *MongoRequestLogRepository) DeleteByStore(ctx context.Context, storeDomain string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"storeDomain": storeDomain})
	if err != nil {
		return fmt.Errorf("failed to delete request logs: %w", err)
	}
	return nil
}
