package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCombineDateTime(t *testing.T) {
	got, err := combineDateTime("2025-03-09", "18:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 9, 18, 30, 0, 0, time.Local), got)

	_, err = combineDateTime("09/03/2025", "18:30")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = combineDateTime("2025-03-09", "6pm")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPhotoKey(t *testing.T) {
	at := time.Date(2025, 3, 9, 18, 30, 0, 0, time.UTC)
	key := photoKey("user-1", "car.jpg", at)
	assert.Equal(t, fmt.Sprintf("events/user-1/%d-car.jpg", at.UnixMilli()), key)
}

func rawValue(t *testing.T, v any) bson.RawValue {
	t.Helper()
	typ, data, err := bson.MarshalValue(v)
	require.NoError(t, err)
	return bson.RawValue{Type: typ, Value: data}
}

func TestEventDocNormalization(t *testing.T) {
	when := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("native datetime", func(t *testing.T) {
		d := eventDoc{ID: "e1", Date: rawValue(t, when)}
		e := d.toEvent()
		assert.True(t, e.Date.Equal(when))
	})

	t.Run("legacy string date", func(t *testing.T) {
		d := eventDoc{ID: "e2", Date: rawValue(t, "2025-06-01")}
		e := d.toEvent()
		assert.Equal(t, 2025, e.Date.Year())
		assert.Equal(t, time.June, e.Date.Month())
		assert.Equal(t, 1, e.Date.Day())
	})

	t.Run("missing timestamps default to now", func(t *testing.T) {
		d := eventDoc{ID: "e3", Date: rawValue(t, when)}
		e := d.toEvent()
		assert.WithinDuration(t, time.Now(), e.CreatedAt, time.Second)
		assert.WithinDuration(t, time.Now(), e.UpdatedAt, time.Second)
	})

	t.Run("nil slices become empty", func(t *testing.T) {
		d := eventDoc{ID: "e4", Date: rawValue(t, when)}
		e := d.toEvent()
		assert.NotNil(t, e.Photos)
		assert.NotNil(t, e.Attendees)
		assert.Empty(t, e.Photos)
		assert.Empty(t, e.Attendees)
	})
}

func TestPrefixRange(t *testing.T) {
	lo, hi := prefixRange("syd")
	assert.Equal(t, "syd", lo)
	assert.Equal(t, "syd\uf8ff", hi)
}

func TestNewLocationLowercaseShadows(t *testing.T) {
	fixtures := []AustralianAddress{
		{VenueName: "Sydney Opera House", Street: "2 Macquarie Street", Suburb: "Sydney", State: "NSW", Postcode: "2000"},
		{Street: "12 ADELAIDE Street", Suburb: "BrIsBaNe", State: "QLD", Postcode: "4000"},
		{VenueName: "", Street: "45 Murray Street", Suburb: "Perth", State: "WA", Postcode: "6000"},
	}
	for _, addr := range fixtures {
		l := NewLocation(addr)
		assert.Equal(t, strings.ToLower(l.VenueName), l.VenueNameLower)
		assert.Equal(t, strings.ToLower(l.Street), l.StreetLower)
		assert.Equal(t, strings.ToLower(l.Suburb), l.SuburbLower)
	}
}

func TestBuildSearchResults(t *testing.T) {
	venue := NewLocation(AustralianAddress{VenueName: "Sydney Opera House", Street: "2 Macquarie Street", Suburb: "Sydney", State: "NSW", Postcode: "2000"})
	noVenue := NewLocation(AustralianAddress{Street: "12 Adelaide Street", Suburb: "Brisbane", State: "QLD", Postcode: "4000"})
	street := NewLocation(AustralianAddress{Street: "45 Murray Street", Suburb: "Perth", State: "WA", Postcode: "6000"})
	suburb := NewLocation(AustralianAddress{Suburb: "Sydney", State: "NSW", Postcode: "2000"})
	postcode := NewLocation(AustralianAddress{Suburb: "Hobart", State: "TAS", Postcode: "7000"})

	got := buildSearchResults(
		[]Location{venue, noVenue}, // record without a venue name must be skipped
		[]Location{street},
		[]Location{suburb},
		[]Location{postcode},
	)

	require.Len(t, got, 4)
	assert.Equal(t, "venue", got[0].Type)
	assert.Equal(t, "Sydney Opera House", got[0].Text)
	assert.Equal(t, "2000", got[0].FullAddress.Postcode)

	assert.Equal(t, "street", got[1].Type)
	assert.Equal(t, "45 Murray Street, Perth", got[1].Text)
	assert.Empty(t, got[1].FullAddress.VenueName)

	assert.Equal(t, "suburb", got[2].Type)
	assert.Equal(t, "Sydney, NSW", got[2].Text)

	assert.Equal(t, "postcode", got[3].Type)
	assert.Equal(t, "7000 - Hobart, TAS", got[3].Text)
}

func TestBuildSearchResultsEmpty(t *testing.T) {
	got := buildSearchResults(nil, nil, nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestKeyFromURL(t *testing.T) {
	assert.Equal(t, "events/u1/1-car.jpg", keyFromURL("https://api.example.com/photos/events/u1/1-car.jpg"))
	assert.Equal(t, "events/u1/1-car.jpg", keyFromURL("/photos/events/u1/1-car.jpg"))
	assert.Equal(t, "events/u1/1-car.jpg", keyFromURL("events/u1/1-car.jpg"))
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidEventType("car"))
	assert.True(t, IsValidEventType("meet-up"))
	assert.False(t, IsValidEventType("plane"))

	assert.True(t, IsValidState("NSW"))
	assert.True(t, IsValidState("NT"))
	assert.False(t, IsValidState("ZZ"))
}
