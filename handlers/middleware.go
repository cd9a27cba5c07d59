package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/alaminrifat/house-hunter-server/authorization"
	errs "github.com/alaminrifat/house-hunter-server/errors"
)

// AuthMiddleware resolves who is calling. It does no role checks; those
// belong to the mutating handlers.
type AuthMiddleware struct {
	tokens *authorization.TokenManager
	logger *logrus.Logger
}

func NewAuthMiddleware(tokens *authorization.TokenManager, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		logger: logger,
	}
}

func (middleware *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		bearer := req.Header.Get("Authorization")
		bearerToken := strings.Split(bearer, "Bearer ")
		if bearer == "" || len(bearerToken) != 2 {
			jsonError(writer, errs.NoTokenError, http.StatusUnauthorized)
			return
		}

		claims, err := middleware.tokens.Verify(bearerToken[1])
		if err != nil {
			middleware.logger.Warnf("rejected token for %s %s: %s", req.Method, req.URL.Path, err)
			jsonError(writer, errs.InvalidTokenError, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(req.Context(), KeyIdentity{}, claims)
		next.ServeHTTP(writer, req.WithContext(ctx))
	})
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		writer.Header().Add("Content-Type", "application/json")
		writer.Header().Set("X-Content-Type-Options", "nosniff")
		writer.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(writer, req)
	})
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
		next.ServeHTTP(writer, req.WithContext(ctx))
	})
}

// RequestLogMiddleware tags every request with an id and logs it on the way
// out.
func RequestLogMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			started := time.Now()
			requestID := uuid.New().String()

			next.ServeHTTP(writer, req)

			logger.WithFields(logrus.Fields{
				"id":       requestID,
				"method":   req.Method,
				"path":     req.URL.Path,
				"duration": time.Since(started).String(),
			}).Info("request handled")
		})
	}
}
