package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStore interface {
	// GetByEmail filters on the booking's contact email field, not the
	// renter id.
	GetByEmail(ctx context.Context, email string) ([]*Booking, error)
	Insert(ctx context.Context, booking *Booking) (*Booking, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByRenter(ctx context.Context, renter string) (int64, error)
}
