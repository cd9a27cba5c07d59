package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HouseStore interface {
	// GetByEmail filters on the listing's contact email field, not the
	// owner id. The dashboard relies on this.
	GetByEmail(ctx context.Context, email string) ([]*House, error)
	Insert(ctx context.Context, house *House) (*House, error)
	// Update replaces every editable field. Returns an error carrying the
	// HouseNotFound message when no document matches.
	Update(ctx context.Context, id primitive.ObjectID, house *House) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Search returns at most 10 listings in store order.
	Search(ctx context.Context, filter *HouseFilter) ([]*House, error)
	// Get returns (nil, nil) when the listing does not exist.
	Get(ctx context.Context, id primitive.ObjectID) (*House, error)
}
