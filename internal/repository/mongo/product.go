package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/repository"
)

// productDoc is the document shape for a product. Prices are stored as
// fixed-point strings so no precision is lost in transit.
type productDoc struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Price       string `bson:"price"`
	ImageURL    string `bson:"image_url"`
	CategoryID  string `bson:"category_id"`
	Stock       int    `bson:"stock"`
}

func (d productDoc) toEntity() (entity.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return entity.Product{}, fmt.Errorf("bad price on product %s: %w", d.ID, err)
	}
	return entity.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		ImageURL:    d.ImageURL,
		CategoryID:  d.CategoryID,
		Stock:       d.Stock,
	}, nil
}

func toProductDoc(p entity.Product) productDoc {
	return productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		Stock:       p.Stock,
	}
}

type productRepository struct {
	col *mongo.Collection
}

// NewProductRepository creates a ProductRepository backed by the document store.
func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productRepository{col: db.Collection("products")}
}

func (r *productRepository) FindAll(ctx context.Context, categoryID string) ([]entity.Product, error) {
	filter := bson.M{}
	if categoryID != "" {
		filter["category_id"] = categoryID
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]entity.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var doc productDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %s: %w", id, err)
	}
	p, err := doc.toEntity()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) UpdateStock(ctx context.Context, id string, newStock int) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"stock": newStock}})
	if err != nil {
		return fmt.Errorf("failed to update stock for %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DecrementStock uses a single conditional FindOneAndUpdate: the document
// only matches while stock >= quantity, so concurrent decrements of the
// same product cannot drive stock negative.
func (r *productRepository) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	filter := bson.M{"_id": id, "stock": bson.M{"$gte": quantity}}
	update := bson.M{"$inc": bson.M{"stock": -quantity}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return 0, fmt.Errorf("failed to check product %s: %w", id, err)
		}
		if n == 0 {
			return 0, repository.ErrNotFound
		}
		return 0, repository.ErrStockConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock for %s: %w", id, err)
	}
	return doc.Stock, nil
}

func (r *productRepository) Seed(ctx context.Context, products []entity.Product) error {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil // already seeded
	}

	docs := make([]any, 0, len(products))
	for _, p := range products {
		docs = append(docs, toProductDoc(p))
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	return nil
}
