// Seeds the locations collection with a starter set of Australian
// addresses for the search index. Safe to run repeatedly against an
// empty database; it skips seeding when the collection has documents.
package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motormeet/config"
	"motormeet/models"
)

var sampleAddresses = []models.AustralianAddress{
	{VenueName: "Sydney Opera House", Street: "2 Macquarie Street", Suburb: "Sydney", State: "NSW", Postcode: "2000"},
	{VenueName: "Melbourne Cricket Ground", Street: "Brunton Avenue", Suburb: "Richmond", State: "VIC", Postcode: "3002"},
	{Street: "12 Adelaide Street", Suburb: "Brisbane", State: "QLD", Postcode: "4000"},
	{Street: "45 Murray Street", Suburb: "Perth", State: "WA", Postcode: "6000"},
	{VenueName: "Adelaide Oval", Street: "War Memorial Drive", Suburb: "North Adelaide", State: "SA", Postcode: "5006"},
	{Street: "88 Elizabeth Street", Suburb: "Hobart", State: "TAS", Postcode: "7000"},
	{Street: "21 Northbourne Avenue", Suburb: "Canberra", State: "ACT", Postcode: "2600"},
	{Street: "5 Mitchell Street", Suburb: "Darwin", State: "NT", Postcode: "0800"},
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	mg, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("mongo.Connect error:", err)
	}
	defer func() { _ = mg.Disconnect(context.Background()) }()

	col := mg.Database(cfg.MongoDB).Collection("locations")

	n, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatal("count error:", err)
	}
	if n > 0 {
		log.Printf("locations already seeded (%d documents), nothing to do", n)
		return
	}

	index := models.NewMongoLocationIndex(col)
	for _, addr := range sampleAddresses {
		if err := index.Put(addr); err != nil {
			log.Fatalf("seeding %s %s: %v", addr.Suburb, addr.Postcode, err)
		}
	}
	log.Printf("seeded %d locations", len(sampleAddresses))
}
