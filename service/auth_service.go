package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/alaminrifat/house-hunter-server/authorization"
	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
)

type AuthService struct {
	store   domain.UserStore
	tokens  *authorization.TokenManager
	tracer  trace.Tracer
	logger  *logrus.Logger
	breaker *gobreaker.CircuitBreaker
}

func NewAuthService(store domain.UserStore, tokens *authorization.TokenManager, tracer trace.Tracer, logger *logrus.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		tracer: tracer,
		logger: logger,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "user-store",
		}),
	}
}

func (service *AuthService) Register(ctx context.Context, request *domain.RegisterRequest) error {
	ctx, span := service.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	existing, err := service.breaker.Execute(func() (interface{}, error) {
		return service.store.GetByEmail(ctx, request.Email)
	})
	if err != nil {
		service.logger.Errorf("looking up user %s: %s", request.Email, err)
		return err
	}
	if existing.(*domain.User) != nil {
		return errors.New(errs.UserExistsError)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		FullName: request.FullName,
		Role:     request.Role,
		Email:    request.Email,
		Password: string(hash),
	}

	_, err = service.breaker.Execute(func() (interface{}, error) {
		return service.store.Insert(ctx, user)
	})
	if err != nil {
		service.logger.Errorf("registering user %s: %s", request.Email, err)
		return err
	}
	return nil
}

// Login deliberately answers the same way for an unknown email and a wrong
// password.
func (service *AuthService) Login(ctx context.Context, credentials *domain.Credentials) (*domain.LoginResponse, error) {
	ctx, span := service.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	result, err := service.breaker.Execute(func() (interface{}, error) {
		return service.store.GetByEmail(ctx, credentials.Email)
	})
	if err != nil {
		service.logger.Errorf("looking up user %s: %s", credentials.Email, err)
		return nil, err
	}

	user := result.(*domain.User)
	if user == nil {
		return nil, errors.New(errs.InvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)) != nil {
		return nil, errors.New(errs.InvalidCredentials)
	}

	token, err := service.tokens.Issue(user)
	if err != nil {
		service.logger.Errorf("issuing token for %s: %s", credentials.Email, err)
		return nil, err
	}

	return &domain.LoginResponse{
		Token:    token,
		Role:     user.Role,
		FullName: user.FullName,
	}, nil
}
