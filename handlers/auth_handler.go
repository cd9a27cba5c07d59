package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
	application "github.com/alaminrifat/house-hunter-server/service"
)

type AuthHandler struct {
	service *application.AuthService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewAuthHandler(service *application.AuthService, tracer trace.Tracer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *AuthHandler) Init(public *mux.Router) {
	public.HandleFunc("/register", handler.Register).Methods("POST")
	public.HandleFunc("/login", handler.Login).Methods("POST")
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Register")
	defer span.End()

	var request domain.RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	if err := request.Validate(); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	if err := handler.service.Register(ctx, &request); err != nil {
		if err.Error() == errs.UserExistsError {
			jsonError(writer, errs.UserExistsError, http.StatusBadRequest)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	jsonResponse(map[string]string{"message": "User registered successfully"}, writer)
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "AuthHandler.Login")
	defer span.End()

	var credentials domain.Credentials
	if err := json.NewDecoder(req.Body).Decode(&credentials); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}
	if err := credentials.Validate(); err != nil {
		jsonError(writer, errs.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	response, err := handler.service.Login(ctx, &credentials)
	if err != nil {
		if err.Error() == errs.InvalidCredentials {
			jsonError(writer, errs.InvalidCredentials, http.StatusUnauthorized)
			return
		}
		span.SetStatus(codes.Error, err.Error())
		jsonError(writer, errs.InternalServerError, http.StatusInternalServerError)
		return
	}

	jsonResponse(response, writer)
}
