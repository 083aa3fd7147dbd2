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
	domain "github.com/Zhima-Mochi/orderdesk/internal/domain/user"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

// userIndexes returns the user index definitions. The unique email index is
// partial over deleted: false, so an email can be reused after its previous
// holder is soft-deleted. Partial filter expressions only accept equality,
// range and $exists: true clauses, which is why the filter matches the
// boolean rather than the absence of deleted_at.
func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("email_unique_idx").
				SetPartialFilterExpression(bson.M{"deleted": false}),
		},
		{
			Keys:    bson.D{{Key: "deleted", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("deleted_created_compound_idx"),
		},
	}
}

// EnsureIndexes creates the user indexes. Idempotent, called on startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.collection.Indexes().CreateMany(ctx, userIndexes()); err != nil {
		return core.Database(err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (domain.ID, error) {
	result, err := r.collection.InsertOne(ctx, newUserDocument(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", core.AlreadyExists("User", "email "+u.Email)
		}
		return "", core.Database(err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", core.Internal("insert returned no generated id")
	}
	return domain.ID(oid.Hex()), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	oid, err := parseObjectID("User", id.String())
	if err != nil {
		return nil, err
	}

	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "deleted": false}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, core.Database(err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"email": email, "deleted": false}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, core.Database(err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindAll(ctx context.Context, p core.Pagination) ([]*domain.User, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"deleted": false},
		options.Find().
			SetSkip(p.Skip()).
			SetLimit(p.Limit()).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, core.Database(err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, core.Database(err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toDomain())
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id domain.ID, u *domain.User) (bool, error) {
	oid, err := parseObjectID("User", id.String())
	if err != nil {
		return false, err
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$set": bson.M{
			"name":       u.Name,
			"email":      u.Email,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, core.AlreadyExists("User", "email "+u.Email)
		}
		return false, core.Database(err)
	}
	return result.MatchedCount > 0, nil
}

func (r *UserRepository) Delete(ctx context.Context, id domain.ID) (bool, error) {
	return softDelete(ctx, r.collection, "User", id.String())
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"deleted": false})
	if err != nil {
		return 0, core.Database(err)
	}
	return n, nil
}
