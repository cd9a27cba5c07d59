package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/authorization"
	"github.com/alaminrifat/house-hunter-server/casbinAuthorization"
	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
	application "github.com/alaminrifat/house-hunter-server/service"
)

type fakeUserStore struct {
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*domain.User{}}
}

func (store *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return store.users[email], nil
}

func (store *fakeUserStore) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	user.ID = primitive.NewObjectID()
	store.users[user.Email] = user
	return user, nil
}

type fakeHouseStore struct {
	houses     map[primitive.ObjectID]*domain.House
	lastFilter *domain.HouseFilter
}

func newFakeHouseStore() *fakeHouseStore {
	return &fakeHouseStore{houses: map[primitive.ObjectID]*domain.House{}}
}

func (store *fakeHouseStore) GetByEmail(_ context.Context, email string) ([]*domain.House, error) {
	var houses []*domain.House
	for _, house := range store.houses {
		if house.Email == email {
			houses = append(houses, house)
		}
	}
	return houses, nil
}

func (store *fakeHouseStore) Insert(_ context.Context, house *domain.House) (*domain.House, error) {
	house.ID = primitive.NewObjectID()
	store.houses[house.ID] = house
	return house, nil
}

func (store *fakeHouseStore) Update(_ context.Context, id primitive.ObjectID, house *domain.House) error {
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
	if _, ok := store.houses[id]; !ok {
		return errors.New(errs.HouseNotFound)
	}
	delete(store.houses, id)
	return nil
}

func (store *fakeHouseStore) Search(_ context.Context, filter *domain.HouseFilter) ([]*domain.House, error) {
	store.lastFilter = filter
	var houses []*domain.House
	for _, house := range store.houses {
		houses = append(houses, house)
	}
	return houses, nil
}

func (store *fakeHouseStore) Get(_ context.Context, id primitive.ObjectID) (*domain.House, error) {
	return store.houses[id], nil
}

type fakeBookingStore struct {
	bookings map[primitive.ObjectID]*domain.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[primitive.ObjectID]*domain.Booking{}}
}

func (store *fakeBookingStore) GetByEmail(_ context.Context, email string) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for _, booking := range store.bookings {
		if booking.Email == email {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (store *fakeBookingStore) Insert(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = primitive.NewObjectID()
	store.bookings[booking.ID] = booking
	return booking, nil
}

func (store *fakeBookingStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := store.bookings[id]; !ok {
		return errors.New(errs.BookingNotFound)
	}
	delete(store.bookings, id)
	return nil
}

func (store *fakeBookingStore) CountByRenter(_ context.Context, renter string) (int64, error) {
	var count int64
	for _, booking := range store.bookings {
		if booking.Renter == renter {
			count++
		}
	}
	return count, nil
}

// testEnv wires the full router the way the server does, with in-memory
// stores behind the real services.
type testEnv struct {
	router       *mux.Router
	tokens       *authorization.TokenManager
	userStore    *fakeUserStore
	houseStore   *fakeHouseStore
	bookingStore *fakeBookingStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tracer := trace.NewNoopTracerProvider().Tracer("test")

	tokens, err := authorization.NewTokenManager([]byte("test-secret"))
	require.NoError(t, err)

	authorizer, err := casbinAuthorization.NewAuthorizer("../rbac_model.conf", "../policy.csv", logger)
	require.NoError(t, err)

	userStore := newFakeUserStore()
	houseStore := newFakeHouseStore()
	bookingStore := newFakeBookingStore()

	authService := application.NewAuthService(userStore, tokens, tracer, logger)
	houseService := application.NewHouseService(houseStore, tracer, logger)
	bookingService := application.NewBookingService(bookingStore, tracer, logger)

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)

	api := router.PathPrefix("/api").Subrouter()
	public := api.NewRoute().Subrouter()
	protected := api.NewRoute().Subrouter()
	protected.Use(NewAuthMiddleware(tokens, logger).Authenticate)

	NewAuthHandler(authService, tracer, logger).Init(public)
	NewHouseHandler(houseService, authorizer, tracer, logger).Init(public, protected)
	NewBookingHandler(bookingService, authorizer, tracer, logger).Init(protected)

	return &testEnv{
		router:       router,
		tokens:       tokens,
		userStore:    userStore,
		houseStore:   houseStore,
		bookingStore: bookingStore,
	}
}

// tokenFor registers a user of the given role directly in the store and
// issues a token for them.
func (env *testEnv) tokenFor(t *testing.T, role domain.UserType, email string) (string, *domain.User) {
	t.Helper()

	user := &domain.User{
		FullName: "Test User",
		Role:     role,
		Email:    email,
		Password: "irrelevant",
	}
	user, err := env.userStore.Insert(context.Background(), user)
	require.NoError(t, err)

	token, err := env.tokens.Issue(user)
	require.NoError(t, err)
	return token, user
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body
}

func requireError(t *testing.T, recorder *httptest.ResponseRecorder, status int, message string) {
	t.Helper()

	require.Equal(t, status, recorder.Code)
	body := decodeBody(t, recorder)
	require.Equal(t, message, body["error"])
}
