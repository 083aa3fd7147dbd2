package id

import "github.com/google/uuid"

// Generator produces identifiers for adapters that have no storage-native
// id scheme of their own (the in-memory repositories; Mongo uses ObjectIDs).
type Generator interface {
	NewID() string
}

type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{}
}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
