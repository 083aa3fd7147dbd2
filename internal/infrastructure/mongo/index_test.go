package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/user"
)

func allIndexes() []mongo.IndexModel {
	var models []mongo.IndexModel
	models = append(models, userIndexes()...)
	models = append(models, productIndexes()...)
	models = append(models, orderIndexes()...)
	return models
}

// Partial index filter expressions accept only equality, range and
// $exists: true clauses; $exists: false is rejected by the server at index
// creation, which would fail every startup. Pin the definitions here since
// the server-side validation needs a live deployment to trip.
func TestPartialIndexFiltersAreServerLegal(t *testing.T) {
	var assertLegal func(t *testing.T, expr bson.M)
	assertLegal = func(t *testing.T, expr bson.M) {
		for key, value := range expr {
			if key == "$exists" {
				assert.Equal(t, true, value, "$exists must be true in a partial filter")
				continue
			}
			if nested, ok := value.(bson.M); ok {
				assertLegal(t, nested)
			}
		}
	}

	for _, model := range allIndexes() {
		if model.Options == nil || model.Options.PartialFilterExpression == nil {
			continue
		}
		expr, ok := model.Options.PartialFilterExpression.(bson.M)
		require.True(t, ok)
		assertLegal(t, expr)
	}
}

func TestEmailIndexCoversActiveUsersOnly(t *testing.T) {
	var email *mongo.IndexModel
	for _, model := range userIndexes() {
		if model.Options != nil && model.Options.Name != nil && *model.Options.Name == "email_unique_idx" {
			email = &model
			break
		}
	}
	require.NotNil(t, email)
	require.NotNil(t, email.Options.Unique)
	assert.True(t, *email.Options.Unique)
	assert.Equal(t, bson.M{"deleted": false}, email.Options.PartialFilterExpression)
}

func TestSKUIndexCoversActiveProductsOnly(t *testing.T) {
	var sku *mongo.IndexModel
	for _, model := range productIndexes() {
		if model.Options != nil && model.Options.Name != nil && *model.Options.Name == "sku_unique_idx" {
			sku = &model
			break
		}
	}
	require.NotNil(t, sku)
	require.NotNil(t, sku.Options.Unique)
	assert.True(t, *sku.Options.Unique)
	assert.Equal(t, bson.M{
		"metadata.sku": bson.M{"$exists": true},
		"deleted":      false,
	}, sku.Options.PartialFilterExpression)
}

func TestDocumentsCarryDeletedFlag(t *testing.T) {
	u, err := user.New("Ada", "ada@example.com")
	require.NoError(t, err)

	doc := newUserDocument(u)
	assert.False(t, doc.Deleted)
	assert.Nil(t, doc.DeletedAt)

	now := doc.CreatedAt
	u.DeletedAt = &now
	doc = newUserDocument(u)
	assert.True(t, doc.Deleted)
	assert.NotNil(t, doc.DeletedAt)
}
