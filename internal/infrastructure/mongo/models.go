package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/order"
	"github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	"github.com/Zhima-Mochi/orderdesk/internal/domain/user"
)

// Document models keep BSON concerns out of the domain. Timestamps are
// stored as BSON datetimes and surfaced as UTC time.Time; the RFC 3339 wire
// form is the presentation layer's business.
//
// Soft deletion is written twice: deleted_at carries the tombstone
// timestamp, and the deleted boolean exists because partial index filter
// expressions cannot match on a missing field. Filters and partial indexes
// use the boolean; the domain only ever sees the timestamp.

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Deleted   bool               `bson:"deleted"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	DeletedAt *time.Time         `bson:"deleted_at,omitempty"`
}

func newUserDocument(u *user.User) userDocument {
	return userDocument{
		Name:      u.Name,
		Email:     u.Email,
		Deleted:   u.DeletedAt != nil,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

func (d userDocument) toDomain() *user.User {
	return &user.User{
		ID:        user.ID(d.ID.Hex()),
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
		DeletedAt: utcPtr(d.DeletedAt),
	}
}

type productMetadataDocument struct {
	Description string   `bson:"description,omitempty"`
	Category    string   `bson:"category"`
	Tags        []string `bson:"tags"`
	SKU         string   `bson:"sku"`
}

type productDocument struct {
	ID        primitive.ObjectID      `bson:"_id,omitempty"`
	Name      string                  `bson:"name"`
	Price     float64                 `bson:"price"`
	Stock     int32                   `bson:"stock"`
	Status    string                  `bson:"status"`
	Metadata  productMetadataDocument `bson:"metadata"`
	Deleted   bool                    `bson:"deleted"`
	CreatedAt time.Time               `bson:"created_at"`
	UpdatedAt time.Time               `bson:"updated_at"`
	DeletedAt *time.Time              `bson:"deleted_at,omitempty"`
}

func newProductDocument(p *product.Product) productDocument {
	return productDocument{
		Name:   p.Name,
		Price:  p.Price,
		Stock:  p.Stock,
		Status: string(p.Status),
		Metadata: productMetadataDocument{
			Description: p.Metadata.Description,
			Category:    p.Metadata.Category,
			Tags:        p.Metadata.Tags,
			SKU:         p.Metadata.SKU,
		},
		Deleted:   p.DeletedAt != nil,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		DeletedAt: p.DeletedAt,
	}
}

func (d productDocument) toDomain() *product.Product {
	return &product.Product{
		ID:     product.ID(d.ID.Hex()),
		Name:   d.Name,
		Price:  d.Price,
		Stock:  d.Stock,
		Status: product.Status(d.Status),
		Metadata: product.Metadata{
			Description: d.Metadata.Description,
			Category:    d.Metadata.Category,
			Tags:        d.Metadata.Tags,
			SKU:         d.Metadata.SKU,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
		DeletedAt: utcPtr(d.DeletedAt),
	}
}

type orderDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id"`
	ProductID  primitive.ObjectID `bson:"product_id"`
	Quantity   int32              `bson:"quantity"`
	TotalPrice float64            `bson:"total_price"`
	Deleted    bool               `bson:"deleted"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
	DeletedAt  *time.Time         `bson:"deleted_at,omitempty"`
}

func newOrderDocument(o *order.Order, userID, productID primitive.ObjectID) orderDocument {
	return orderDocument{
		UserID:     userID,
		ProductID:  productID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Deleted:    o.DeletedAt != nil,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		DeletedAt:  o.DeletedAt,
	}
}

func (d orderDocument) toDomain() *order.Order {
	return &order.Order{
		ID:         order.ID(d.ID.Hex()),
		UserID:     user.ID(d.UserID.Hex()),
		ProductID:  product.ID(d.ProductID.Hex()),
		Quantity:   d.Quantity,
		TotalPrice: d.TotalPrice,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
		DeletedAt:  utcPtr(d.DeletedAt),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
