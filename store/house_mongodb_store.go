package store

import (
	"errors"

	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"github.com/alaminrifat/house-hunter-server/domain"
	errs "github.com/alaminrifat/house-hunter-server/errors"
)

const (
	HousesCollection = "houses"

	// Search returns at most this many listings, in store order.
	searchLimit = 10
)

type HouseMongoDBStore struct {
	houses *mongo.Collection
	tracer trace.Tracer
}

func NewHouseMongoDBStore(client *mongo.Client, database string, tracer trace.Tracer) domain.HouseStore {
	houses := client.Database(database).Collection(HousesCollection)
	return &HouseMongoDBStore{
		houses: houses,
		tracer: tracer,
	}
}

func (store *HouseMongoDBStore) GetByEmail(ctx context.Context, email string) ([]*domain.House, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.GetByEmail")
	defer span.End()

	filter := bson.M{"email": email}
	return store.filter(ctx, filter, nil)
}

func (store *HouseMongoDBStore) Insert(ctx context.Context, house *domain.House) (*domain.House, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.Insert")
	defer span.End()

	house.ID = primitive.NewObjectID()
	result, err := store.houses.InsertOne(ctx, house)
	if err != nil {
		return nil, err
	}
	house.ID = result.InsertedID.(primitive.ObjectID)
	return house, nil
}

func (store *HouseMongoDBStore) Update(ctx context.Context, id primitive.ObjectID, house *domain.House) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.Update")
	defer span.End()

	// Full replace of the editable fields; the owner field is left alone.
	update := bson.M{"$set": bson.M{
		"name":             house.Name,
		"address":          house.Address,
		"city":             house.City,
		"bedrooms":         house.Bedrooms,
		"bathrooms":        house.Bathrooms,
		"roomSize":         house.RoomSize,
		"picture":          house.Picture,
		"availabilityDate": house.AvailabilityDate,
		"rentPerMonth":     house.RentPerMonth,
		"phoneNumber":      house.PhoneNumber,
		"email":            house.Email,
		"description":      house.Description,
	}}

	result, err := store.houses.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New(errs.HouseNotFound)
	}
	return nil
}

func (store *HouseMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "HouseStore.Delete")
	defer span.End()

	result, err := store.houses.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New(errs.HouseNotFound)
	}
	return nil
}

func (store *HouseMongoDBStore) Search(ctx context.Context, filter *domain.HouseFilter) ([]*domain.House, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.Search")
	defer span.End()

	return store.filter(ctx, buildSearchFilter(filter), options.Find().SetLimit(searchLimit))
}

func (store *HouseMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.House, error) {
	ctx, span := store.tracer.Start(ctx, "HouseStore.Get")
	defer span.End()

	result := store.houses.FindOne(ctx, bson.M{"_id": id})

	var house domain.House
	if err := result.Decode(&house); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &house, nil
}

// buildSearchFilter maps the optional constraints onto a bson filter; absent
// constraints are simply not applied.
func buildSearchFilter(filter *domain.HouseFilter) bson.M {
	query := bson.M{}
	if filter == nil {
		return query
	}

	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.Bedrooms != nil {
		query["bedrooms"] = *filter.Bedrooms
	}
	if filter.Bathrooms != nil {
		query["bathrooms"] = *filter.Bathrooms
	}
	if filter.RoomSize != nil {
		query["roomSize"] = *filter.RoomSize
	}
	if filter.Availability != nil {
		query["availabilityDate"] = bson.M{"$lte": *filter.Availability}
	}

	rent := bson.M{}
	if filter.RentMin != nil {
		rent["$gte"] = *filter.RentMin
	}
	if filter.RentMax != nil {
		rent["$lte"] = *filter.RentMax
	}
	if len(rent) > 0 {
		query["rentPerMonth"] = rent
	}

	return query
}

func (store *HouseMongoDBStore) filter(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]*domain.House, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = store.houses.Find(ctx, filter, opts)
	} else {
		cursor, err = store.houses.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeHouses(ctx, cursor)
}

func decodeHouses(ctx context.Context, cursor *mongo.Cursor) (houses []*domain.House, err error) {
	for cursor.Next(ctx) {
		var house domain.House
		err = cursor.Decode(&house)
		if err != nil {
			return
		}
		houses = append(houses, &house)
	}
	err = cursor.Err()
	return
}
