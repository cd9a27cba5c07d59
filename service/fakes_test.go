package application_test

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

// fakeUserStore keeps users keyed by email.
type fakeUserStore struct {
	users map[string]*domain.User
	err   error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*domain.User{}}
}

func (store *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if store.err != nil {
		return nil, store.err
	}
	return store.users[email], nil
}

func (store *fakeUserStore) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	if store.err != nil {
		return nil, store.err
	}
	user.ID = primitive.NewObjectID()
	store.users[user.Email] = user
	return user, nil
}

type fakeHouseStore struct {
	houses     map[primitive.ObjectID]*domain.House
	lastFilter *domain.HouseFilter
	err        error
}

func newFakeHouseStore() *fakeHouseStore {
	return &fakeHouseStore{houses: map[primitive.ObjectID]*domain.House{}}
}

func (store *fakeHouseStore) GetByEmail(_ context.Context, email string) ([]*domain.House, error) {
	if store.err != nil {
		return nil, store.err
	}
	var houses []*domain.House
	for _, house := range store.houses {
		if house.Email == email {
			houses = append(houses, house)
		}
	}
	return houses, nil
}

func (store *fakeHouseStore) Insert(_ context.Context, house *domain.House) (*domain.House, error) {
	if store.err != nil {
		return nil, store.err
	}
	house.ID = primitive.NewObjectID()
	store.houses[house.ID] = house
	return house, nil
}

func (store *fakeHouseStore) Update(_ context.Context, id primitive.ObjectID, house *domain.House) error {
	if store.err != nil {
		return store.err
	}
	existing, ok := store.houses[id]
	if !ok {
		return errors.New(errs.HouseNotFound)
	}
	updated := *house
	updated.ID = id
	updated.Owner = existing.Owner
	store.houses[id] = &updated
	return nil
}

func (store *fakeHouseStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if store.err != nil {
		return store.err
	}
	if _, ok := store.houses[id]; !ok {
		return errors.New(errs.HouseNotFound)
	}
	delete(store.houses, id)
	return nil
}

func (store *fakeHouseStore) Search(_ context.Context, filter *domain.HouseFilter) ([]*domain.House, error) {
	if store.err != nil {
		return nil, store.err
	}
	store.lastFilter = filter
	var houses []*domain.House
	for _, house := range store.houses {
		houses = append(houses, house)
	}
	return houses, nil
}

func (store *fakeHouseStore) Get(_ context.Context, id primitive.ObjectID) (*domain.House, error) {
	if store.err != nil {
		return nil, store.err
	}
	return store.houses[id], nil
}

type fakeBookingStore struct {
	bookings map[primitive.ObjectID]*domain.Booking
	err      error
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[primitive.ObjectID]*domain.Booking{}}
}

func (store *fakeBookingStore) GetByEmail(_ context.Context, email string) ([]*domain.Booking, error) {
	if store.err != nil {
		return nil, store.err
	}
	var bookings []*domain.Booking
	for _, booking := range store.bookings {
		if booking.Email == email {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (store *fakeBookingStore) Insert(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if store.err != nil {
		return nil, store.err
	}
	booking.ID = primitive.NewObjectID()
	store.bookings[booking.ID] = booking
	return booking, nil
}

func (store *fakeBookingStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if store.err != nil {
		return store.err
	}
	if _, ok := store.bookings[id]; !ok {
		return errors.New(errs.BookingNotFound)
	}
	delete(store.bookings, id)
	return nil
}

func (store *fakeBookingStore) CountByRenter(_ context.Context, renter string) (int64, error) {
	if store.err != nil {
		return 0, store.err
	}
	var count int64
	for _, booking := range store.bookings {
		if booking.Renter == renter {
			count++
		}
	}
	return count, nil
}
