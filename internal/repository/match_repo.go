package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yashshukla011/quizegame/internal/model"
)

// MatchRepo archives finished matches. Write-once, best effort.
type MatchRepo interface {
	Record(ctx context.Context, match *model.MatchRecord) error
	GetByRoomCode(ctx context.Context, code string) (*model.MatchRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.MatchRecord, error)
}

type matchRepo struct {
	collection *mongo.Collection
}

// NewMatchRepo creates a match repository backed by the given database.
func NewMatchRepo(db *mongo.Database) MatchRepo {
	return &matchRepo{
		collection: db.Collection("matches"),
	}
}

func (r *matchRepo) Record(ctx context.Context, match *model.MatchRecord) error {
	_, err := r.collection.InsertOne(ctx, match)
	return err
}

func (r *matchRepo) GetByRoomCode(ctx context.Context, code string) (*model.MatchRecord, error) {
	var match model.MatchRecord
	err := r.collection.FindOne(ctx, bson.M{"roomCode": code}).Decode(&match)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepo) ListRecent(ctx context.Context, limit int) ([]model.MatchRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "finishedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []model.MatchRecord
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
