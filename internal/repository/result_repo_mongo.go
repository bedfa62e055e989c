package repository

import (
	"context"
	"fmt"
	"quizbank/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// dailyGames is one day's log document
type dailyGames struct {
	Date  string             `bson:"_id"`
	Games []model.GameResult `bson:"games"`
}

type mongoResultRepo struct {
	collection *mongo.Collection
}

// NewMongoResultRepo keeps one document per UTC date in the games collection
func NewMongoResultRepo(db *mongo.Database) ResultRepo {
	return &mongoResultRepo{
		collection: db.Collection("games"),
	}
}

func (r *mongoResultRepo) Record(ctx context.Context, result *model.GameResult) error {
	date, err := result.Date()
	if err != nil {
		return err
	}

	// $push on an upserted document is atomic per day, no lock needed
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": date},
		bson.M{"$push": bson.M{"games": result}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("push game result: %w", err)
	}
	return nil
}

func (r *mongoResultRepo) ListByDate(ctx context.Context, date string) ([]model.GameResult, error) {
	var doc dailyGames
	err := r.collection.FindOne(ctx, bson.M{"_id": date}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return []model.GameResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game log %s: %w", date, err)
	}
	if doc.Games == nil {
		doc.Games = []model.GameResult{}
	}
	return doc.Games, nil
}
