package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/order"
	domuser "github.com/Zhima-Mochi/orderdesk/internal/domain/user"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{collection: db.Collection("orders")}
}

func orderIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "deleted", Value: 1}, {Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("deleted_user_created_compound_idx"),
		},
		{
			Keys:    bson.D{{Key: "deleted", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("deleted_created_compound_idx"),
		},
	}
}

// EnsureIndexes creates the order indexes. Idempotent, called on startup.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.collection.Indexes().CreateMany(ctx, orderIndexes()); err != nil {
		return core.Database(err)
	}
	return nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (domain.ID, error) {
	userOID, err := parseObjectID("User", o.UserID.String())
	if err != nil {
		return "", err
	}
	productOID, err := parseObjectID("Product", o.ProductID.String())
	if err != nil {
		return "", err
	}

	result, err := r.collection.InsertOne(ctx, newOrderDocument(o, userOID, productOID))
	if err != nil {
		return "", core.Database(err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", core.Internal("insert returned no generated id")
	}
	return domain.ID(oid.Hex()), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id domain.ID) (*domain.Order, error) {
	oid, err := parseObjectID("Order", id.String())
	if err != nil {
		return nil, err
	}

	var doc orderDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "deleted": false}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, core.Database(err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) FindAll(ctx context.Context, p core.Pagination) ([]*domain.Order, error) {
	return r.findWithFilter(ctx, bson.M{"deleted": false}, p)
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID domuser.ID, p core.Pagination) ([]*domain.Order, error) {
	oid, err := parseObjectID("User", userID.String())
	if err != nil {
		return nil, err
	}
	return r.findWithFilter(ctx, bson.M{"user_id": oid, "deleted": false}, p)
}

func (r *OrderRepository) findWithFilter(ctx context.Context, filter bson.M, p core.Pagination) ([]*domain.Order, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().
			SetSkip(p.Skip()).
			SetLimit(p.Limit()).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, core.Database(err)
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, core.Database(err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.toDomain())
	}
	return orders, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id domain.ID) (bool, error) {
	return softDelete(ctx, r.collection, "Order", id.String())
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"deleted": false})
	if err != nil {
		return 0, core.Database(err)
	}
	return n, nil
}
