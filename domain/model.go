package domain

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string

const (
	HouseOwner  UserType = "House Owner"
	HouseRenter UserType = "House Renter"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"fullName" json:"fullName"`
	Role     UserType           `bson:"role" json:"role"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
}

type House struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Address          string             `bson:"address" json:"address"`
	City             string             `bson:"city" json:"city"`
	Bedrooms         int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms        int                `bson:"bathrooms" json:"bathrooms"`
	RoomSize         int                `bson:"roomSize" json:"roomSize"`
	Picture          string             `bson:"picture" json:"picture"`
	AvailabilityDate time.Time          `bson:"availabilityDate" json:"availabilityDate"`
	RentPerMonth     float64            `bson:"rentPerMonth" json:"rentPerMonth"`
	PhoneNumber      string             `bson:"phoneNumber" json:"phoneNumber"`
	Email            string             `bson:"email" json:"email"`
	Description      string             `bson:"description" json:"description"`
	Owner            string             `bson:"owner" json:"owner"`
}

type Booking struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Phone   string             `bson:"phone" json:"phone"`
	HouseID string             `bson:"houseId" json:"houseId"`
	Renter  string             `bson:"renter" json:"renter"`
}

type RegisterRequest struct {
	FullName string   `json:"fullName" validate:"required"`
	Role     UserType `json:"role" validate:"required,oneof='House Owner' 'House Renter'"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string   `json:"token"`
	Role     UserType `json:"role"`
	FullName string   `json:"fullName"`
}

// HousePayload is the wire shape of a listing. The frontend sends the numeric
// fields as strings; parsing failures fall back to the zero value rather than
// rejecting the request.
type HousePayload struct {
	Name             string `json:"name" validate:"required"`
	Address          string `json:"address" validate:"required"`
	City             string `json:"city" validate:"required"`
	Bedrooms         string `json:"bedrooms"`
	Bathrooms        string `json:"bathrooms"`
	RoomSize         string `json:"roomSize"`
	Picture          string `json:"picture"`
	AvailabilityDate string `json:"availabilityDate"`
	RentPerMonth     string `json:"rentPerMonth"`
	PhoneNumber      string `json:"phoneNumber"`
	Email            string `json:"email" validate:"omitempty,email"`
	Description      string `json:"description"`
}

const availabilityDateLayout = "2006-01-02"

func (payload *HousePayload) ToHouse() *House {
	bedrooms, _ := strconv.Atoi(payload.Bedrooms)
	bathrooms, _ := strconv.Atoi(payload.Bathrooms)
	roomSize, _ := strconv.Atoi(payload.RoomSize)
	rentPerMonth, _ := strconv.ParseFloat(payload.RentPerMonth, 64)

	return &House{
		Name:             payload.Name,
		Address:          payload.Address,
		City:             payload.City,
		Bedrooms:         bedrooms,
		Bathrooms:        bathrooms,
		RoomSize:         roomSize,
		Picture:          payload.Picture,
		AvailabilityDate: ParseAvailabilityDate(payload.AvailabilityDate),
		RentPerMonth:     rentPerMonth,
		PhoneNumber:      payload.PhoneNumber,
		Email:            payload.Email,
		Description:      payload.Description,
	}
}

// ParseAvailabilityDate accepts the date-only form used by the frontend and
// falls back to RFC3339. An unparseable value yields the zero time.
func ParseAvailabilityDate(value string) time.Time {
	if parsed, err := time.Parse(availabilityDateLayout, value); err == nil {
		return parsed
	}
	parsed, _ := time.Parse(time.RFC3339, value)
	return parsed
}

type BookingPayload struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	HouseID string `json:"houseId" validate:"required"`
}

func (payload *BookingPayload) ToBooking() *Booking {
	return &Booking{
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		HouseID: payload.HouseID,
	}
}

// HouseFilter carries the search constraints. Nil fields are not applied.
type HouseFilter struct {
	City         string
	Bedrooms     *int
	Bathrooms    *int
	RoomSize     *int
	Availability *time.Time
	RentMin      *int
	RentMax      *int
}

var validate = validator.New()

func (request *RegisterRequest) Validate() error {
	return validate.Struct(request)
}

func (credentials *Credentials) Validate() error {
	return validate.Struct(credentials)
}

func (payload *HousePayload) Validate() error {
	return validate.Struct(payload)
}

func (payload *BookingPayload) Validate() error {
	return validate.Struct(payload)
}

func (payload *HousePayload) FromJSON(reader io.Reader) error {
	return json.NewDecoder(reader).Decode(payload)
}

func (payload *BookingPayload) FromJSON(reader io.Reader) error {
	return json.NewDecoder(reader).Decode(payload)
}
