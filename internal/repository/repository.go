// Package repository declares the storage contracts the service layer
// depends on. Implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/ganfan/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// MealRepository stores meal records. Records are append-only: there is no
// update or delete.
type MealRepository interface {
	Create(ctx context.Context, record *model.MealRecord) error
	// ListByUser returns the user's records in insertion order.
	ListByUser(ctx context.Context, userID string) ([]model.MealRecord, error)
}

// KVStore is a raw string key/value store. found is false for absent keys.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
}
