package question

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	Col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{Col: db.Collection("questions")}
}

func (s *MongoStore) Insert(ctx context.Context, q Question) (Question, error) {
	q = withID(q)
	if _, err := s.Col.InsertOne(ctx, q); err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (s *MongoStore) InsertMany(ctx context.Context, qs []Question) ([]Question, error) {
	if len(qs) == 0 {
		return []Question{}, nil
	}
	out := make([]Question, len(qs))
	docs := make([]interface{}, len(qs))
	for i, q := range qs {
		out[i] = withID(q)
		docs[i] = out[i]
	}
	if _, err := s.Col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return insertedSubset(out, err)
	}
	return out, nil
}

// insertedSubset splits an unordered InsertMany failure into the documents
// the server wrote and a PartialInsertError naming the rejected ones. Any
// other failure, including a write concern error, means nothing is known to
// be stored.
func insertedSubset(out []Question, err error) ([]Question, error) {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return nil, fmt.Errorf("insert questions: %w", err)
	}
	pe := &PartialInsertError{Rows: make(map[int]error, len(bwe.WriteErrors))}
	for _, we := range bwe.WriteErrors {
		pe.Rows[we.Index] = we.WriteError
	}
	saved := make([]Question, 0, len(out))
	for i, q := range out {
		if _, rejected := pe.Rows[i]; !rejected {
			saved = append(saved, q)
		}
	}
	return saved, pe
}

func (s *MongoStore) Get(ctx context.Context, id string) (Question, error) {
	var q Question
	err := s.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Question{}, ErrNotFound
	}
	return q, err
}

func (s *MongoStore) List(ctx context.Context, c Criteria) ([]Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.Col.Find(ctx, mongoFilter(c), opts)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer cur.Close(ctx)
	out := []Question{}
	for cur.Next(ctx) {
		var q Question
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, cur.Err()
}

func mongoFilter(c Criteria) bson.M {
	f := bson.M{}
	regex := func(field, v string) {
		if v = strings.TrimSpace(v); v != "" {
			f[field] = primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
		}
	}
	regex("subject", c.Subject)
	regex("department", c.Department)
	regex("course", c.Course)
	if len(c.Units) > 0 {
		f["unit"] = bson.M{"$in": c.Units}
	}
	if len(c.COs) > 0 {
		cos := make([]string, len(c.COs))
		for i, co := range c.COs {
			cos[i] = strings.TrimSpace(co)
		}
		f["co"] = bson.M{"$in": cos}
	}
	return f
}
