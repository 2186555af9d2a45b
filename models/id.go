package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a typed identifier over a time-ordered UUID. The type parameter
// exists only to keep, say, a team id from being passed where a game id is
// expected; the underlying representation is the same for every entity.
type ID[T any] struct {
	value uuid.UUID
}

// NewID generates a fresh time-ordered (v7) identifier.
func NewID[T any]() ID[T] {
	return ID[T]{value: uuid.Must(uuid.NewV7())}
}

// IDFromUUID wraps an existing UUID, e.g. one scanned from the database.
func IDFromUUID[T any](value uuid.UUID) ID[T] {
	return ID[T]{value: value}
}

// ParseID parses the canonical string form.
func ParseID[T any](s string) (ID[T], error) {
	value, err := uuid.Parse(s)
	if err != nil {
		return ID[T]{}, fmt.Errorf("failed to parse id %q: %w", s, err)
	}
	return ID[T]{value: value}, nil
}

// UUID returns the raw UUID for persistence.
func (id ID[T]) UUID() uuid.UUID {
	return id.value
}

// IsZero reports whether the id is the zero value.
func (id ID[T]) IsZero() bool {
	return id.value == uuid.Nil
}

func (id ID[T]) String() string {
	return id.value.String()
}

func (id ID[T]) MarshalText() ([]byte, error) {
	return []byte(id.value.String()), nil
}

func (id *ID[T]) UnmarshalText(text []byte) error {
	value, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	id.value = value
	return nil
}
