package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

// QuestionRepo handles MongoDB operations for the question catalog. The
// answer engine only ever reads it; Upsert exists for the seed command.
type QuestionRepo interface {
	GetByID(ctx context.Context, category, id string) (*model.Question, error)
	ListByCategory(ctx context.Context, category string) ([]*model.Question, error)
	Upsert(ctx context.Context, q *model.Question) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository.
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) GetByID(ctx context.Context, category, id string) (*model.Question, error) {
	var q model.Question
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "category": category}).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) ListByCategory(ctx context.Context, category string) ([]*model.Question, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"category": category},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Upsert(ctx context.Context, q *model.Question) error {
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": q.ID}, q,
		options.Replace().SetUpsert(true))
	return err
}
