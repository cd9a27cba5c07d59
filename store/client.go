package store

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetClientWithHTTPConfig connects a single pooled client for the whole
// process; stores share it instead of dialing per request.
func GetClientWithHTTPConfig(ctx context.Context, uri string, httpClient *http.Client) (*mongo.Client, error) {
	optionsClient := options.Client().ApplyURI(uri).SetHTTPClient(httpClient)
	return mongo.Connect(ctx, optionsClient)
}
