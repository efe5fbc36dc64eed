package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"motormeet/config"
	"motormeet/db"
	"motormeet/middlewares"
	"motormeet/models"
	"motormeet/routes"
	"motormeet/utils"
)

func main() {
	cfg := config.Load()

	// Postgres (accounts)
	sqldb, err := sql.Open("postgres", cfg.PgDSN)
	if err != nil {
		log.Fatal("sql.Open error:", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatal("Postgres ping error:", err)
	}
	sqldb.SetMaxOpenConns(20)
	sqldb.SetMaxIdleConns(10)
	if err := db.CreateTables(sqldb); err != nil {
		log.Fatal("Could not create tables:", err)
	}

	// Mongo (event/location documents + photo blobs)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mg, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("mongo.Connect error:", err)
	}
	if err := mg.Ping(ctx, nil); err != nil {
		log.Fatal("Mongo ping error:", err)
	}
	defer func() { _ = mg.Disconnect(context.Background()) }()

	appDB := mg.Database(cfg.MongoDB)
	eventsCol := appDB.Collection("events")
	locationsCol := appDB.Collection("locations")

	photoBucket, err := gridfs.NewBucket(appDB, options.GridFSBucket().SetName("photos"))
	if err != nil {
		log.Fatal("gridfs.NewBucket error:", err)
	}

	// Redis (response cache + quotas)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	inv := utils.NewCacheInvalidator(rdb)

	photoStore := models.NewGridFSPhotoStore(photoBucket, cfg.PhotoBaseURL)

	server := gin.Default()
	server.Use(middlewares.ResponseCache(rdb, cfg.CacheTTL))

	routes.RegisterRoutes(server,
		models.NewSQLUserRepository(sqldb),
		models.NewMongoEventRepository(eventsCol, photoStore),
		models.NewMongoLocationIndex(locationsCol),
		photoStore,
		rdb, inv)

	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal("gin.Run error:", err)
	}
}
