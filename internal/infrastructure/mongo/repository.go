package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
)

func parseObjectID(entity, raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, core.Invalid("id", "malformed "+strings.ToLower(entity)+" id").
			WithData("entity", entity).WithData("id", raw)
	}
	return oid, nil
}

// softDelete marks an active record deleted: the boolean drives filters and
// partial indexes, the timestamp records when. The matched count
// distinguishes "deleted now" from "absent or already deleted".
func softDelete(ctx context.Context, coll *mongo.Collection, entity, raw string) (bool, error) {
	oid, err := parseObjectID(entity, raw)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	result, err := coll.UpdateOne(ctx,
		bson.M{"_id": oid, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return false, core.Database(err)
	}
	return result.MatchedCount > 0, nil
}
