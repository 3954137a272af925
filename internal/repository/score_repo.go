package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"callpulse/internal/model"
)

// ScoreRepo stores score records and their scoring events. The completion
// engine is the only writer of both collections.
type ScoreRepo interface {
	Create(ctx context.Context, record *model.CallScoreRecord) error
	InsertEvents(ctx context.Context, scoreRecordID string, events []model.ScoringEvent) error
	FindByExternalID(ctx context.Context, externalCallID string) (*model.CallScoreRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*model.CallScoreRecord, error)
}

type scoreRepo struct {
	scores *mongo.Collection
	events *mongo.Collection
}

// NewScoreRepo creates a score repository over the call_scores and
// score_events collections.
func NewScoreRepo(db *mongo.Database) ScoreRepo {
	return &scoreRepo{
		scores: db.Collection("call_scores"),
		events: db.Collection("score_events"),
	}
}

func (r *scoreRepo) Create(ctx context.Context, record *model.CallScoreRecord) error {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.scores.InsertOne(ctx, record)
	return err
}

func (r *scoreRepo) InsertEvents(ctx context.Context, scoreRecordID string, events []model.ScoringEvent) error {
	if len(events) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(events))
	for _, ev := range events {
		ev.ID = primitive.NewObjectID().Hex()
		ev.ScoreRecordID = scoreRecordID
		ev.CreatedAt = now
		docs = append(docs, ev)
	}

	_, err := r.events.InsertMany(ctx, docs)
	return err
}

func (r *scoreRepo) FindByExternalID(ctx context.Context, externalCallID string) (*model.CallScoreRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var record model.CallScoreRecord
	err := r.scores.FindOne(ctx, bson.M{"externalCallId": externalCallID}, opts).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *scoreRepo) ListRecent(ctx context.Context, limit int) ([]*model.CallScoreRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.scores.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.CallScoreRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}
