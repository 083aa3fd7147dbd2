package product

import (
	"strings"
	"time"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
)

// Tag is the phantom marker for product identifiers.
type Tag struct{}

// ID identifies a product. It is assigned by the persistence adapter on insert.
type ID = core.ID[Tag]

// Status is informational only; the stock-reservation path does not consult it.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusArchived   Status = "archived"
	StatusOutOfStock Status = "out_of_stock"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived, StatusOutOfStock:
		return true
	}
	return false
}

type Metadata struct {
	Description string
	Category    string
	Tags        []string
	SKU         string
}

type Product struct {
	ID        ID
	Name      string
	Price     float64
	Stock     int32
	Status    Status
	Metadata  Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// New builds an unpersisted product. Stock never goes negative; that
// invariant is enforced here for the initial value and by the repository's
// conditional update for every later adjustment.
func New(name string, price float64, stock int32, status Status, meta Metadata) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.Required("name")
	}
	if price < 0 {
		return nil, core.Invalid("price", "must not be negative")
	}
	if stock < 0 {
		return nil, core.Invalid("stock", "must not be negative")
	}
	if status == "" {
		status = StatusDraft
	}
	if !status.Valid() {
		return nil, core.Invalid("status", "unknown status")
	}

	now := time.Now().UTC()
	return &Product{
		Name:      name,
		Price:     price,
		Stock:     stock,
		Status:    status,
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

func (p *Product) Touch() {
	p.UpdatedAt = time.Now().UTC()
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		clone.DeletedAt = &t
	}
	if p.Metadata.Tags != nil {
		clone.Metadata.Tags = append([]string(nil), p.Metadata.Tags...)
	}
	return &clone
}
