package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/repository"
)

type categoryDoc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type categoryRepository struct {
	col *mongo.Collection
}

// NewCategoryRepository creates a CategoryRepository backed by the document store.
func NewCategoryRepository(db *mongo.Database) repository.CategoryRepository {
	return &categoryRepository{col: db.Collection("categories")}
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]entity.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]entity.Category, 0, len(docs))
	for _, d := range docs {
		categories = append(categories, entity.Category{ID: d.ID, Name: d.Name})
	}
	return categories, nil
}

func (r *categoryRepository) Seed(ctx context.Context, categories []entity.Category) error {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	docs := make([]any, 0, len(categories))
	for _, c := range categories {
		docs = append(docs, categoryDoc{ID: c.ID, Name: c.Name})
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}
