package repository

import (
	"context"
	"fmt"
	"quizbank/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultBankID is the _id of the single bank document
const defaultBankID = "default"

type mongoBankStore struct {
	collection *mongo.Collection
	bankID     string
}

// NewMongoQuestionRepo creates a question repository that keeps the whole
// bank in one document so bank order is preserved
func NewMongoQuestionRepo(db *mongo.Database) QuestionRepo {
	return &bankRepo{store: &mongoBankStore{
		collection: db.Collection("question_banks"),
		bankID:     defaultBankID,
	}}
}

func (s *mongoBankStore) load(ctx context.Context) (*model.QuestionBank, error) {
	var bank model.QuestionBank
	err := s.collection.FindOne(ctx, bson.M{"_id": s.bankID}).Decode(&bank)
	if err == mongo.ErrNoDocuments {
		return &model.QuestionBank{Questions: []model.Question{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question bank: %w", err)
	}
	if bank.Questions == nil {
		bank.Questions = []model.Question{}
	}
	return &bank, nil
}

func (s *mongoBankStore) save(ctx context.Context, bank *model.QuestionBank) error {
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": s.bankID},
		bankDocument(s.bankID, bank),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("replace question bank: %w", err)
	}
	return nil
}

func bankDocument(id string, bank *model.QuestionBank) bson.M {
	questions := bank.Questions
	if questions == nil {
		questions = []model.Question{}
	}
	return bson.M{"_id": id, "questions": questions}
}
