package models

import (
	"context"
	"io"
	"time"
)

// Event types shown in the listing filter.
var EventTypes = []string{"car", "bike", "boat", "cruise", "meet-up"}

// AustralianStates are the 8 states/territories accepted on addresses.
var AustralianStates = []string{"NSW", "VIC", "QLD", "WA", "SA", "TAS", "ACT", "NT"}

func IsValidEventType(t string) bool { return contains(EventTypes, t) }
func IsValidState(s string) bool     { return contains(AustralianStates, s) }

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

type AustralianAddress struct {
	Street    string `json:"street,omitempty" bson:"street,omitempty"`
	Suburb    string `json:"suburb,omitempty" bson:"suburb,omitempty"`
	State     string `json:"state,omitempty" bson:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty" bson:"postcode,omitempty"`
	VenueName string `json:"venueName,omitempty" bson:"venueName,omitempty"`
}

type Event struct {
	ID          string            `json:"id" bson:"id"`
	Name        string            `json:"name" bson:"name"`
	Type        string            `json:"type" bson:"type"`
	Date        time.Time         `json:"date" bson:"date"`
	Time        string            `json:"time" bson:"time"`
	Location    AustralianAddress `json:"location" bson:"location"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Photos      []string          `json:"photos" bson:"photos"`
	CreatedBy   string            `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt"`
	Attendees   []string          `json:"attendees" bson:"attendees"`
}

// PhotoUpload is one file from the create/update form.
type PhotoUpload struct {
	Name string
	Data io.Reader
}

// EventFormData carries the create form. Date is "2006-01-02", Time "15:04";
// the repository combines them into Event.Date.
type EventFormData struct {
	Name        string
	Type        string
	Date        string
	Time        string
	Location    AustralianAddress
	Description string
	Photos      []PhotoUpload
}

// EventUpdate carries a partial update; nil pointers mean "leave as is".
// Photos are always appended, never replaced.
type EventUpdate struct {
	Name        *string
	Type        *string
	Date        *string
	Time        *string
	Location    *AustralianAddress
	Description *string
	Photos      []PhotoUpload
}

type EventRepository interface {
	Create(form EventFormData, userID string) (string, error)
	Update(id string, upd EventUpdate, existing Event) error
	Delete(id, userID string) error
	ToggleAttendance(id, userID string) error
	GetByID(id string) (Event, error)
	GetAll() ([]Event, error)
}

// Location is a search-index entry. The *Lower fields are lowercased
// copies maintained at write time; the store only does case-sensitive
// range queries, so case-insensitive prefix search runs over these.
type Location struct {
	VenueName      string `json:"venueName,omitempty" bson:"venueName,omitempty"`
	VenueNameLower string `json:"-" bson:"venueNameLower,omitempty"`
	Street         string `json:"street" bson:"street"`
	StreetLower    string `json:"-" bson:"streetLower"`
	Suburb         string `json:"suburb" bson:"suburb"`
	SuburbLower    string `json:"-" bson:"suburbLower"`
	State          string `json:"state" bson:"state"`
	Postcode       string `json:"postcode" bson:"postcode"`
}

// NewLocation builds an index entry from an address, filling the
// lowercase shadow fields. All writes to the locations collection go
// through here so the xLower == lower(x) invariant holds.
func NewLocation(addr AustralianAddress) Location {
	return Location{
		VenueName:      addr.VenueName,
		VenueNameLower: lower(addr.VenueName),
		Street:         addr.Street,
		StreetLower:    lower(addr.Street),
		Suburb:         addr.Suburb,
		SuburbLower:    lower(addr.Suburb),
		State:          addr.State,
		Postcode:       addr.Postcode,
	}
}

type LocationSearchResult struct {
	Type        string            `json:"type"` // venue | street | suburb | postcode
	Text        string            `json:"text"`
	FullAddress AustralianAddress `json:"fullAddress"`
}

type LocationIndex interface {
	Search(term string) ([]LocationSearchResult, error)
	Put(addr AustralianAddress) error
}

// PhotoStore is the object-store boundary: blobs addressed by key,
// retrievable through a URL.
type PhotoStore interface {
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
	Download(ctx context.Context, key string, w io.Writer) error
}

type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserRepository interface {
	Create(u *User) error
	ValidateCredentials(email, plain string) (User, error)
	GetByID(id int64) (User, error)
}
