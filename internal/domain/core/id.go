package core

// ID is a string-backed identifier tagged by a phantom type so that
// identifiers of different aggregates cannot be mixed up at compile time.
// The tag has no runtime representation; an ID costs exactly one string.
//
// Construction never fails: the raw value is whatever the persistence
// adapter produced (e.g. a 24-hex object id), validated at the boundary.
// The JSON form is the bare string.
type ID[T any] string

// NewID wraps a raw identifier without validation.
func NewID[T any](raw string) ID[T] {
	return ID[T](raw)
}

func (id ID[T]) String() string {
	return string(id)
}

// IsZero reports whether the identifier has not been assigned yet,
// i.e. the entity has never been persisted.
func (id ID[T]) IsZero() bool {
	return id == ""
}
