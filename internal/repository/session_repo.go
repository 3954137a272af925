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

// SessionRepo stores call-session lifecycle rows. The completion engine is a
// co-writer with the call-start collaborator, which creates placeholder rows
// with durationSec 0.
type SessionRepo interface {
	Create(ctx context.Context, session *model.CallSessionRecord) error
	Update(ctx context.Context, session *model.CallSessionRecord) error
	// FindRecentByExternalID returns the newest session carrying the given
	// external call identifier started at or after since, or nil.
	FindRecentByExternalID(ctx context.Context, externalID string, since time.Time) (*model.CallSessionRecord, error)
	// FindPlaceholderByPhone returns the owner's newest placeholder session
	// (durationSec 0) whose caller phone matches any variant, or nil.
	FindPlaceholderByPhone(ctx context.Context, ownerID string, phoneVariants []string, since time.Time) (*model.CallSessionRecord, error)
	LinkLead(ctx context.Context, sessionID, leadID string) error
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a session repository over the call_sessions collection.
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("call_sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.CallSessionRecord) error {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	session.UpdatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) Update(ctx context.Context, session *model.CallSessionRecord) error {
	session.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": session}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID}, update)
	return err
}

func (r *sessionRepo) FindRecentByExternalID(ctx context.Context, externalID string, since time.Time) (*model.CallSessionRecord, error) {
	filter := bson.M{
		"externalId": externalID,
		"startedAt":  bson.M{"$gte": since},
	}

	return r.findNewest(ctx, filter)
}

func (r *sessionRepo) FindPlaceholderByPhone(ctx context.Context, ownerID string, phoneVariants []string, since time.Time) (*model.CallSessionRecord, error) {
	filter := bson.M{
		"ownerId":     ownerID,
		"durationSec": 0,
		"callerPhone": bson.M{"$in": phoneVariants},
		"startedAt":   bson.M{"$gte": since},
	}

	return r.findNewest(ctx, filter)
}

func (r *sessionRepo) LinkLead(ctx context.Context, sessionID, leadID string) error {
	update := bson.M{"$set": bson.M{
		"leadId":    leadID,
		"updatedAt": time.Now().UTC(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": sessionID}, update)
	return err
}

func (r *sessionRepo) findNewest(ctx context.Context, filter bson.M) (*model.CallSessionRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})

	var session model.CallSessionRecord
	err := r.collection.FindOne(ctx, filter, opts).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}
