package core

import (
	"errors"
	"fmt"
)

// Kind is the closed set of domain error categories. Every failing domain
// operation returns a *DomainError tagged with exactly one Kind; the
// presentation layer maps kinds to transport status codes.
type Kind int

const (
	KindNotFound Kind = iota
	KindAlreadyExists
	KindInvalid
	KindRequired
	KindUnauthorized
	KindForbidden
	KindBusinessRule
	KindExternalService
	KindDatabase
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindInvalid:
		return "invalid"
	case KindRequired:
		return "required"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindBusinessRule:
		return "business_rule"
	case KindExternalService:
		return "external_service"
	case KindDatabase:
		return "database"
	default:
		return "internal"
	}
}

// DomainError carries a Kind, a human-readable message and optional
// structured context. Context that programmatic clients need (entity names,
// requested vs. available quantities) goes into Data rather than being
// interpolated only into the message.
type DomainError struct {
	Kind    Kind
	Message string
	Data    map[string]any
	cause   error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// WithData attaches a structured context entry.
func (e *DomainError) WithData(key string, value any) *DomainError {
	if e.Data == nil {
		e.Data = make(map[string]any)
	}
	e.Data[key] = value
	return e
}

func newError(kind Kind, msg string) *DomainError {
	return &DomainError{Kind: kind, Message: msg}
}

// NotFound reports a failed lookup of the named entity.
func NotFound(entity, id string) *DomainError {
	e := newError(KindNotFound, fmt.Sprintf("%s %s not found", entity, id))
	return e.WithData("entity", entity).WithData("id", id)
}

// AlreadyExists reports a uniqueness violation, e.g. a duplicate email or SKU.
func AlreadyExists(entity, details string) *DomainError {
	e := newError(KindAlreadyExists, fmt.Sprintf("%s already exists: %s", entity, details))
	return e.WithData("entity", entity).WithData("details", details)
}

// Invalid reports a domain-level validation failure on a single field.
func Invalid(field, reason string) *DomainError {
	e := newError(KindInvalid, fmt.Sprintf("invalid %s: %s", field, reason))
	return e.WithData("field", field).WithData("reason", reason)
}

// Required reports a missing mandatory field.
func Required(field string) *DomainError {
	return newError(KindRequired, fmt.Sprintf("%s is required", field)).WithData("field", field)
}

func Unauthorized(reason string) *DomainError {
	return newError(KindUnauthorized, reason)
}

func Forbidden(reason string) *DomainError {
	return newError(KindForbidden, reason)
}

// BusinessRule reports a named invariant violation, e.g. insufficient stock
// or a conditional write that lost a race.
func BusinessRule(msg string) *DomainError {
	return newError(KindBusinessRule, msg)
}

// ExternalService reports a dependency failure outside the domain's control.
func ExternalService(service, msg string) *DomainError {
	return newError(KindExternalService, fmt.Sprintf("%s: %s", service, msg)).WithData("service", service)
}

// Database wraps an opaque storage-layer failure. If err is already a
// DomainError it is returned unchanged so that a more specific kind
// survives the trip through an adapter.
func Database(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	e := newError(KindDatabase, err.Error())
	e.cause = err
	return e
}

// Internal reports an invariant-violating state, e.g. a successful insert
// that returned no generated id.
func Internal(msg string) *DomainError {
	return newError(KindInternal, msg)
}

// KindOf extracts the Kind of err, defaulting to KindInternal for errors
// that did not originate in the domain.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == kind
}
