package application

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
)

type HouseService struct {
	store   domain.HouseStore
	tracer  trace.Tracer
	logger  *logrus.Logger
	breaker *gobreaker.CircuitBreaker
}

func NewHouseService(store domain.HouseStore, tracer trace.Tracer, logger *logrus.Logger) *HouseService {
	return &HouseService{
		store:  store,
		tracer: tracer,
		logger: logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "house-store",
			// A missing listing is an answer, not a store failure.
			IsSuccessful: func(err error) bool {
				return err == nil || err.Error() == errs.HouseNotFound
			},
		}),
	}
}

func (service *HouseService) GetByOwnerEmail(ctx context.Context, email string) ([]*domain.House, error) {
	ctx, span := service.tracer.Start(ctx, "HouseService.GetByOwnerEmail")
	defer span.End()

	result, err := service.breaker.Execute(func() (interface{}, error) {
		return service.store.GetByEmail(ctx, email)
	})
	if err != nil {
		service.logger.Errorf("fetching houses for %s: %s", email, err)
		return nil, err
	}
	return result.([]*domain.House), nil
}

func (service *HouseService) Create(ctx context.Context, house *domain.House) error {
	ctx, span := service.tracer.Start(ctx, "HouseService.Create")
	defer span.End()

	_, err := service.breaker.Execute(func() (interface{}, error) {
		return service.store.Insert(ctx, house)
	})
	if err != nil {
		service.logger.Errorf("adding house: %s", err)
	}
	return err
}

func (service *HouseService) Update(ctx context.Context, id string, house *domain.House) error {
	ctx, span := service.tracer.Start(ctx, "HouseService.Update")
	defer span.End()

	houseID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = service.breaker.Execute(func() (interface{}, error) {
		return nil, service.store.Update(ctx, houseID, house)
	})
	if err != nil && err.Error() != errs.HouseNotFound {
		service.logger.Errorf("updating house %s: %s", id, err)
	}
	return err
}

func (service *HouseService) Delete(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "HouseService.Delete")
	defer span.End()

	houseID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = service.breaker.Execute(func() (interface{}, error) {
		return nil, service.store.Delete(ctx, houseID)
	})
	if err != nil && err.Error() != errs.HouseNotFound {
		service.logger.Errorf("deleting house %s: %s", id, err)
	}
	return err
}

func (service *HouseService) Search(ctx context.Context, filter *domain.HouseFilter) ([]*domain.House, error) {
	ctx, span := service.tracer.Start(ctx, "HouseService.Search")
	defer span.End()

	result, err := service.breaker.Execute(func() (interface{}, error) {
		return service.store.Search(ctx, filter)
	})
	if err != nil {
		service.logger.Errorf("searching houses: %s", err)
		return nil, err
	}
	return result.([]*domain.House), nil
}

// GetByID returns (nil, nil) for an unknown listing; the handler renders
// that as a null result, not a 404.
func (service *HouseService) GetByID(ctx context.Context, id string) (*domain.House, error) {
	ctx, span := service.tracer.Start(ctx, "HouseService.GetByID")
	defer span.End()

	houseID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result, err := service.breaker.Execute(func() (interface{}, error) {
		return service.store.Get(ctx, houseID)
	})
	if err != nil {
		service.logger.Errorf("fetching house %s: %s", id, err)
		return nil, err
	}
	return result.(*domain.House), nil
}
