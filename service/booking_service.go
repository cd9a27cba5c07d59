package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
)

// MaxBookingsPerRenter caps active bookings per renter.
const MaxBookingsPerRenter = 2

type BookingService struct {
	store   domain.BookingStore
	tracer  trace.Tracer
	logger  *logrus.Logger
	breaker *gobreaker.CircuitBreaker
}

func NewBookingService(store domain.BookingStore, tracer trace.Tracer, logger *logrus.Logger) *BookingService {
	return &BookingService{
		store:  store,
		tracer: tracer,
		logger: logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "booking-store",
			IsSuccessful: func(err error) bool {
				return err == nil || err.Error() == errs.BookingNotFound
			},
		}),
	}
}

func (service *BookingService) GetByRenterEmail(ctx context.Context, email string) ([]*domain.Booking, error) {
	ctx, span := service.tracer.Start(ctx, "BookingService.GetByRenterEmail")
	defer span.End()

	result, err := service.breaker.Execute(func() (interface{}, error) {
		return service.store.GetByEmail(ctx, email)
	})
	if err != nil {
		service.logger.Errorf("fetching bookings for %s: %s", email, err)
		return nil, err
	}
	return result.([]*domain.Booking), nil
}

// Create enforces the booking cap with a count-then-insert check. The check
// is not atomic: two concurrent requests from the same renter can both pass
// it and push the renter past the cap.
func (service *BookingService) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := service.tracer.Start(ctx, "BookingService.Create")
	defer span.End()

	result, err := service.breaker.Execute(func() (interface{}, error) {
		return service.store.CountByRenter(ctx, booking.Renter)
	})
	if err != nil {
		service.logger.Errorf("counting bookings for renter %s: %s", booking.Renter, err)
		return err
	}
	if result.(int64) >= MaxBookingsPerRenter {
		return errors.New(errs.BookingLimitError)
	}

	_, err = service.breaker.Execute(func() (interface{}, error) {
		return service.store.Insert(ctx, booking)
	})
	if err != nil {
		service.logger.Errorf("creating booking: %s", err)
	}
	return err
}

func (service *BookingService) Delete(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "BookingService.Delete")
	defer span.End()

	bookingID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = service.breaker.Execute(func() (interface{}, error) {
		return nil, service.store.Delete(ctx, bookingID)
	})
	if err != nil && err.Error() != errs.BookingNotFound {
		service.logger.Errorf("removing booking %s: %s", id, err)
	}
	return err
}
