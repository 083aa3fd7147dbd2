package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/product"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection("products")}
}

// productIndexes returns the product index definitions. SKU uniqueness holds
// among active products with a SKU; $exists: true and the deleted equality
// are both legal in a partial filter expression.
func productIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "metadata.sku", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("sku_unique_idx").
				SetPartialFilterExpression(bson.M{
					"metadata.sku": bson.M{"$exists": true},
					"deleted":      false,
				}),
		},
		{
			Keys:    bson.D{{Key: "deleted", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("deleted_status_compound_idx"),
		},
		{
			Keys:    bson.D{{Key: "deleted", Value: 1}, {Key: "metadata.category", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("deleted_category_created_compound_idx"),
		},
		{
			Keys:    bson.D{{Key: "deleted", Value: 1}, {Key: "stock", Value: 1}},
			Options: options.Index().SetName("deleted_stock_compound_idx"),
		},
	}
}

// EnsureIndexes creates the product indexes. Idempotent, called on startup.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.collection.Indexes().CreateMany(ctx, productIndexes()); err != nil {
		return core.Database(err)
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (domain.ID, error) {
	result, err := r.collection.InsertOne(ctx, newProductDocument(p))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", core.AlreadyExists("Product", "sku "+p.Metadata.SKU)
		}
		return "", core.Database(err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", core.Internal("insert returned no generated id")
	}
	return domain.ID(oid.Hex()), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id domain.ID) (*domain.Product, error) {
	oid, err := parseObjectID("Product", id.String())
	if err != nil {
		return nil, err
	}

	var doc productDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "deleted": false}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, core.Database(err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) FindAll(ctx context.Context, pg core.Pagination) ([]*domain.Product, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"deleted": false},
		options.Find().
			SetSkip(pg.Skip()).
			SetLimit(pg.Limit()).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, core.Database(err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, core.Database(err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.toDomain())
	}
	return products, nil
}

func (r *ProductRepository) UpdateMetadata(ctx context.Context, id domain.ID, meta domain.Metadata) (bool, error) {
	oid, err := parseObjectID("Product", id.String())
	if err != nil {
		return false, err
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$set": bson.M{
			"metadata": productMetadataDocument{
				Description: meta.Description,
				Category:    meta.Category,
				Tags:        meta.Tags,
				SKU:         meta.SKU,
			},
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, core.AlreadyExists("Product", "sku "+meta.SKU)
		}
		return false, core.Database(err)
	}
	return result.MatchedCount > 0, nil
}

// UpdateStock applies the signed delta as a single atomic $inc. For negative
// deltas the filter additionally requires stock ≥ |delta|, so the write
// matches nothing when a concurrent reservation already moved the baseline;
// stock can never go negative regardless of interleaving. No read precedes
// the write.
func (r *ProductRepository) UpdateStock(ctx context.Context, id domain.ID, delta int32) (bool, error) {
	oid, err := parseObjectID("Product", id.String())
	if err != nil {
		return false, err
	}

	filter := bson.M{"_id": oid, "deleted": false}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return false, core.Database(err)
	}
	return result.MatchedCount > 0, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id domain.ID) (bool, error) {
	return softDelete(ctx, r.collection, "Product", id.String())
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"deleted": false})
	if err != nil {
		return 0, core.Database(err)
	}
	return n, nil
}
