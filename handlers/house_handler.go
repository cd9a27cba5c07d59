package handlers

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/casbinAuthorization"
	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
	application "github.com/alaminrifat/house-hunter-server/service"
)

type HouseHandler struct {
	service    *application.HouseService
	authorizer *casbinAuthorization.Authorizer
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewHouseHandler(service *application.HouseService, authorizer *casbinAuthorization.Authorizer, tracer trace.Tracer, logger *logrus.Logger) *HouseHandler {
	return &HouseHandler{
		service:    service,
		authorizer: authorizer,
		tracer:     tracer,
		logger:     logger,
	}
}

func (handler *HouseHandler) Init(public, protected *mux.Router) {
	public.HandleFunc("/houses", handler.Search).Methods("GET")

	protected.HandleFunc("/houses/{email}", handler.GetByOwnerEmail).Methods("GET")
	protected.HandleFunc("/houses", handler.Create).Methods("POST")
	protected.HandleFunc("/houses/{id}", handler.Update).Methods("PUT")
	protected.HandleFunc("/houses/{id}", handler.Delete).Methods("DELETE")
	protected.HandleFunc("/house/{id}", handler.GetByID).Methods("GET")
}

// GetByOwnerEmail backs the owner dashboard. Any authenticated caller may
// list by email; the filter runs on the listing's contact email field.
func (handler *HouseHandler) GetByOwnerEmail(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "HouseHandler.GetByOwnerEmail")
	defer span.End()

	email := mux.Vars(req)["email"]

	houses, err := handler.service.GetByOwnerEmail(ctx, email)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}
	if houses == nil {
		houses = []*domain.House{}
	}

	jsonResponse(map[string]interface{}{"houses": houses}, writer)
}

func (handler *HouseHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "HouseHandler.Create")
	defer span.End()

	claims := identityFromContext(ctx)
	if claims == nil {
		jsonError(writer, errs.NoTokenError, http.StatusUnauthorized)
		return
	}
	if !handler.authorizer.Allowed(string(claims.UserType), req.URL.Path, req.Method) {
		jsonError(writer, errs.OnlyOwnersAddError, http.StatusForbidden)
		return
	}

	var payload domain.HousePayload
	if err := payload.FromJSON(req.Body); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	if err := payload.Validate(); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	house := payload.ToHouse()
	house.Owner = claims.UserID

	if err := handler.service.Create(ctx, house); err != nil {
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(map[string]string{"message": "House added successfully"}, writer)
}

// Update is role-gated but not ownership-gated: any House Owner may edit any
// listing. The owner field is never rewritten.
func (handler *HouseHandler) Update(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "HouseHandler.Update")
	defer span.End()

	claims := identityFromContext(ctx)
	if claims == nil {
		jsonError(writer, errs.NoTokenError, http.StatusUnauthorized)
		return
	}
	if !handler.authorizer.Allowed(string(claims.UserType), req.URL.Path, req.Method) {
		jsonError(writer, errs.OnlyOwnersUpdateError, http.StatusForbidden)
		return
	}

	var payload domain.HousePayload
	if err := payload.FromJSON(req.Body); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	if err := payload.Validate(); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	id := mux.Vars(req)["id"]
	if err := handler.service.Update(ctx, id, payload.ToHouse()); err != nil {
		if err.Error() == errs.HouseNotFound {
			jsonError(writer, errs.HouseNotFound, http.StatusNotFound)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}

	jsonResponse(map[string]string{"message": "House updated successfully"}, writer)
}

func (handler *HouseHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "HouseHandler.Delete")
	defer span.End()

	claims := identityFromContext(ctx)
	if claims == nil {
		jsonError(writer, errs.NoTokenError, http.StatusUnauthorized)
		return
	}
	if !handler.authorizer.Allowed(string(claims.UserType), req.URL.Path, req.Method) {
		jsonError(writer, errs.OnlyOwnersDeleteError, http.StatusForbidden)
		return
	}

	id := mux.Vars(req)["id"]
	if err := handler.service.Delete(ctx, id); err != nil {
		if err.Error() == errs.HouseNotFound {
			jsonError(writer, errs.HouseNotFound, http.StatusNotFound)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}

	jsonResponse(map[string]string{"message": "House deleted successfully"}, writer)
}

func (handler *HouseHandler) Search(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "HouseHandler.Search")
	defer span.End()

	filter, err := parseSearchQuery(req.URL.Query())
	if err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	houses, err := handler.service.Search(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}
	if houses == nil {
		houses = []*domain.House{}
	}

	jsonResponse(map[string]interface{}{"houses": houses}, writer)
}

// GetByID returns {"result": null} with a 200 for an unknown id; the home
// page treats the detail view as best effort.
func (handler *HouseHandler) GetByID(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "HouseHandler.GetByID")
	defer span.End()

	id := mux.Vars(req)["id"]

	house, err := handler.service.GetByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}

	jsonResponse(map[string]interface{}{"result": house}, writer)
}

type searchQuery struct {
	City         string `mapstructure:"city"`
	Bedrooms     *int   `mapstructure:"bedrooms"`
	Bathrooms    *int   `mapstructure:"bathrooms"`
	RoomSize     *int   `mapstructure:"roomSize"`
	Availability string `mapstructure:"availability"`
	RentMin      *int   `mapstructure:"rentMin"`
	RentMax      *int   `mapstructure:"rentMax"`
}

func parseSearchQuery(values url.Values) (*domain.HouseFilter, error) {
	params := map[string]string{}
	for key, list := range values {
		if len(list) > 0 && list[0] != "" {
			params[key] = list[0]
		}
	}

	var query searchQuery
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &query,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(params); err != nil {
		return nil, err
	}

	filter := &domain.HouseFilter{
		City:      query.City,
		Bedrooms:  query.Bedrooms,
		Bathrooms: query.Bathrooms,
		RoomSize:  query.RoomSize,
		RentMin:   query.RentMin,
		RentMax:   query.RentMax,
	}
	if query.Availability != "" {
		date := domain.ParseAvailabilityDate(query.Availability)
		filter.Availability = &date
	}
	return filter, nil
}
