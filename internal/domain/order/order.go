package order

import (
	"time"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
	"github.com/Zhima-Mochi/orderdesk/internal/domain/product"
	"github.com/Zhima-Mochi/orderdesk/internal/domain/user"
)

// Tag is the phantom marker for order identifiers.
type Tag struct{}

// ID identifies an order. It is assigned by the persistence adapter on insert.
type ID = core.ID[Tag]

// Order is a price-immutable snapshot: TotalPrice is computed once at
// creation from the product price observed at that moment and is never
// recomputed, even if the product's price changes later.
type Order struct {
	ID         ID
	UserID     user.ID
	ProductID  product.ID
	Quantity   int32
	TotalPrice float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// New builds an unpersisted order with the frozen total price.
func New(userID user.ID, productID product.ID, quantity int32, unitPrice float64) (*Order, error) {
	if userID.IsZero() {
		return nil, core.Required("user_id")
	}
	if productID.IsZero() {
		return nil, core.Required("product_id")
	}
	if quantity <= 0 {
		return nil, core.Invalid("quantity", "must be greater than zero")
	}

	now := time.Now().UTC()
	return &Order{
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: unitPrice * float64(quantity),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (o *Order) IsDeleted() bool {
	return o.DeletedAt != nil
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.DeletedAt != nil {
		t := *o.DeletedAt
		clone.DeletedAt = &t
	}
	return &clone
}
