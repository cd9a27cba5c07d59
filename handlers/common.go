package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/alaminrifat/house-hunter-server/authorization"
)

// KeyIdentity is the context key under which the authentication middleware
// stores the verified claims.
type KeyIdentity struct{}

func identityFromContext(ctx context.Context) *authorization.AccessClaims {
	claims, _ := ctx.Value(KeyIdentity{}).(*authorization.AccessClaims)
	return claims
}

func jsonResponse(payload interface{}, writer http.ResponseWriter) {
	err := json.NewEncoder(writer).Encode(payload)
	if err != nil {
		log.Println("error encoding response:", err)
	}
}

func jsonError(writer http.ResponseWriter, message string, status int) {
	writer.WriteHeader(status)
	jsonResponse(map[string]string{"error": message}, writer)
}
