package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/casbinAuthorization"
	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
	application "github.com/alaminrifat/house-hunter-server/service"
)

type BookingHandler struct {
	service    *application.BookingService
	authorizer *casbinAuthorization.Authorizer
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func NewBookingHandler(service *application.BookingService, authorizer *casbinAuthorization.Authorizer, tracer trace.Tracer, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		service:    service,
		authorizer: authorizer,
		tracer:     tracer,
		logger:     logger,
	}
}

func (handler *BookingHandler) Init(protected *mux.Router) {
	protected.HandleFunc("/renter/bookings/{email}", handler.GetByRenterEmail).Methods("GET")
	protected.HandleFunc("/bookings", handler.Create).Methods("POST")
	protected.HandleFunc("/bookings/{id}", handler.Delete).Methods("DELETE")
}

func (handler *BookingHandler) GetByRenterEmail(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.GetByRenterEmail")
	defer span.End()

	email := mux.Vars(req)["email"]

	bookings, err := handler.service.GetByRenterEmail(ctx, email)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}

	jsonResponse(map[string]interface{}{"bookings": bookings}, writer)
}

func (handler *BookingHandler) Create(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.Create")
	defer span.End()

	claims := identityFromContext(ctx)
	if claims == nil {
		jsonError(writer, errs.NoTokenError, http.StatusUnauthorized)
		return
	}
	if !handler.authorizer.Allowed(string(claims.UserType), req.URL.Path, req.Method) {
		jsonError(writer, errs.OnlyRentersBookError, http.StatusForbidden)
		return
	}

	var payload domain.BookingPayload
	if err := payload.FromJSON(req.Body); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	if err := payload.Validate(); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	booking := payload.ToBooking()
	booking.Renter = claims.UserID

	if err := handler.service.Create(ctx, booking); err != nil {
		if err.Error() == errs.BookingLimitError {
			jsonError(writer, errs.BookingLimitError, http.StatusBadRequest)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(map[string]string{"message": "Booking created successfully"}, writer)
}

func (handler *BookingHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "BookingHandler.Delete")
	defer span.End()

	claims := identityFromContext(ctx)
	if claims == nil {
		jsonError(writer, errs.NoTokenError, http.StatusUnauthorized)
		return
	}
	if !handler.authorizer.Allowed(string(claims.UserType), req.URL.Path, req.Method) {
		jsonError(writer, errs.OnlyRentersRemError, http.StatusForbidden)
		return
	}

	id := mux.Vars(req)["id"]
	if err := handler.service.Delete(ctx, id); err != nil {
		if err.Error() == errs.BookingNotFound {
			jsonError(writer, errs.BookingNotFound, http.StatusNotFound)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}

	jsonResponse(map[string]string{"message": "Booking removed successfully"}, writer)
}
