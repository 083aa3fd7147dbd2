package user

import (
	"strings"
	"time"

	"github.com/Zhima-Mochi/orderdesk/internal/domain/core"
)

// Tag is the phantom marker for user identifiers.
type Tag struct{}

// ID identifies a user. It is assigned by the persistence adapter on insert.
type ID = core.ID[Tag]

type User struct {
	ID        ID
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// New builds an unpersisted user. Email uniqueness is enforced by the
// application service plus a unique index at the storage layer, not here.
func New(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, core.Required("name")
	}
	if email == "" {
		return nil, core.Required("email")
	}
	if !strings.Contains(email, "@") {
		return nil, core.Invalid("email", "must contain '@'")
	}

	now := time.Now().UTC()
	return &User{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Touch bumps the update timestamp after a mutation.
func (u *User) Touch() {
	u.UpdatedAt = time.Now().UTC()
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.DeletedAt != nil {
		t := *u.DeletedAt
		clone.DeletedAt = &t
	}
	return &clone
}
