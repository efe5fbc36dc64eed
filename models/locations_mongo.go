package models

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// prefixCeiling sorts after virtually all realistic input, so the range
// [term, term+prefixCeiling] emulates "starts with term" on a store that
// only offers lexicographic comparisons.
const prefixCeiling = "\uf8ff"

const maxPerCategory = 3

type mongoLocationIndex struct {
	col *mongo.Collection
}

func NewMongoLocationIndex(col *mongo.Collection) LocationIndex {
	return &mongoLocationIndex{col: col}
}

func lower(s string) string { return strings.ToLower(s) }

func prefixRange(term string) (string, string) {
	return term, term + prefixCeiling
}

func (ix *mongoLocationIndex) Put(addr AustralianAddress) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := ix.col.InsertOne(ctx, NewLocation(addr))
	return err
}

// Search runs four independent prefix queries, one per address field,
// concurrently. Free-text fields match against their lowercase shadow
// copies; postcode matches the raw term.
func (ix *mongoLocationIndex) Search(term string) ([]LocationSearchResult, error) {
	if len(term) < 2 {
		return []LocationSearchResult{}, nil
	}
	termLower := lower(term)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var venues, streets, suburbs, postcodes []Location
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ix.findPrefix(gctx, "venueNameLower", termLower, &venues) })
	g.Go(func() error { return ix.findPrefix(gctx, "streetLower", termLower, &streets) })
	g.Go(func() error { return ix.findPrefix(gctx, "suburbLower", termLower, &suburbs) })
	g.Go(func() error { return ix.findPrefix(gctx, "postcode", term, &postcodes) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildSearchResults(venues, streets, suburbs, postcodes), nil
}

func (ix *mongoLocationIndex) findPrefix(ctx context.Context, field, term string, out *[]Location) error {
	lo, hi := prefixRange(term)
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: 1}}).
		SetLimit(maxPerCategory)
	cur, err := ix.col.Find(ctx, bson.M{field: bson.M{"$gte": lo, "$lte": hi}}, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

// buildSearchResults concatenates the per-field matches in fixed
// category order: venue, street, suburb, postcode. No cross-category
// dedup; each result carries enough of the address to fill a form.
func buildSearchResults(venues, streets, suburbs, postcodes []Location) []LocationSearchResult {
	out := []LocationSearchResult{}
	for _, l := range venues {
		if l.VenueName == "" {
			continue
		}
		out = append(out, LocationSearchResult{
			Type: "venue",
			Text: l.VenueName,
			FullAddress: AustralianAddress{
				VenueName: l.VenueName,
				Street:    l.Street,
				Suburb:    l.Suburb,
				State:     l.State,
				Postcode:  l.Postcode,
			},
		})
	}
	for _, l := range streets {
		if l.Street == "" {
			continue
		}
		out = append(out, LocationSearchResult{
			Type: "street",
			Text: l.Street + ", " + l.Suburb,
			FullAddress: AustralianAddress{
				Street:   l.Street,
				Suburb:   l.Suburb,
				State:    l.State,
				Postcode: l.Postcode,
			},
		})
	}
	for _, l := range suburbs {
		if l.Suburb == "" {
			continue
		}
		out = append(out, LocationSearchResult{
			Type: "suburb",
			Text: l.Suburb + ", " + l.State,
			FullAddress: AustralianAddress{
				Suburb:   l.Suburb,
				State:    l.State,
				Postcode: l.Postcode,
			},
		})
	}
	for _, l := range postcodes {
		if l.Postcode == "" {
			continue
		}
		out = append(out, LocationSearchResult{
			Type: "postcode",
			Text: l.Postcode + " - " + l.Suburb + ", " + l.State,
			FullAddress: AustralianAddress{
				Suburb:   l.Suburb,
				State:    l.State,
				Postcode: l.Postcode,
			},
		})
	}
	return out
}
