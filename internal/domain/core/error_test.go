package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryKindAndData(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		wantKind Kind
		wantData map[string]any
	}{
		{
			name:     "not found",
			err:      NotFound("User", "u1"),
			wantKind: KindNotFound,
			wantData: map[string]any{"entity": "User", "id": "u1"},
		},
		{
			name:     "already exists",
			err:      AlreadyExists("User", "email a@b.c"),
			wantKind: KindAlreadyExists,
			wantData: map[string]any{"entity": "User", "details": "email a@b.c"},
		},
		{
			name:     "invalid",
			err:      Invalid("quantity", "must be greater than zero"),
			wantKind: KindInvalid,
			wantData: map[string]any{"field": "quantity", "reason": "must be greater than zero"},
		},
		{
			name:     "required",
			err:      Required("email"),
			wantKind: KindRequired,
			wantData: map[string]any{"field": "email"},
		},
		{
			name:     "business rule",
			err:      BusinessRule("Insufficient stock: requested 3, available 2"),
			wantKind: KindBusinessRule,
			wantData: nil,
		},
		{
			name:     "external service",
			err:      ExternalService("payments", "timeout"),
			wantKind: KindExternalService,
			wantData: map[string]any{"service": "payments"},
		},
		{
			name:     "internal",
			err:      Internal("insert returned no generated id"),
			wantKind: KindInternal,
			wantData: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.err.Kind)
			assert.Equal(t, tt.wantData, tt.err.Data)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestDatabasePreservesSpecificKinds(t *testing.T) {
	inner := NotFound("Order", "o1")

	wrapped := Database(inner)
	assert.Same(t, inner, wrapped)

	// Even through a fmt.Errorf chain the specific kind survives.
	chained := Database(fmt.Errorf("repository: %w", inner))
	assert.Equal(t, KindNotFound, chained.Kind)
}

func TestDatabaseWrapsOpaqueErrors(t *testing.T) {
	cause := errors.New("connection reset")

	err := Database(cause)
	require.NotNil(t, err)
	assert.Equal(t, KindDatabase, err.Kind)
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, Database(nil))
}

func TestKindOfAndIsKind(t *testing.T) {
	err := BusinessRule("stock race lost")

	assert.Equal(t, KindBusinessRule, KindOf(err))
	assert.True(t, IsKind(err, KindBusinessRule))
	assert.False(t, IsKind(err, KindNotFound))

	wrapped := fmt.Errorf("create order: %w", err)
	assert.Equal(t, KindBusinessRule, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindBusinessRule))

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindNotFound))
}

func TestWithDataAccumulates(t *testing.T) {
	err := BusinessRule("Insufficient stock").
		WithData("requested", int32(3)).
		WithData("available", int32(2))

	assert.Equal(t, int32(3), err.Data["requested"])
	assert.Equal(t, int32(2), err.Data["available"])
}
