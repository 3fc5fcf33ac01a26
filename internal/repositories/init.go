package repositories

import (
	"context"
	"crypto/tls"
	"time"

	"schemahub-server/configs"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type dbs struct {
	Mongo   *mongo.Client
	MongoDB *mongo.Database
	Redis   *redis.Client
}

// DBS holds the shared database clients, initialized once at startup.
var DBS dbs

func Init(log *zap.Logger) {
	initMongo(log)
	if configs.Configs.Redis.Enabled {
		initRedis(log)
	}
}

// initMongo connects to MongoDB and creates the indexes the hot paths rely on.
func initMongo(log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(configs.Configs.MongoDB.Uri)
	if configs.Configs.MongoDB.Username != "" {
		opts.SetAuth(options.Credential{
			Username: configs.Configs.MongoDB.Username,
			Password: configs.Configs.MongoDB.Password,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		return
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", zap.Error(err))
		return
	}

	dbName := configs.Configs.MongoDB.Database
	if dbName == "" {
		dbName = "schemahub"
	}

	DBS.Mongo = client
	DBS.MongoDB = client.Database(dbName)

	if err := ensureIndexes(ctx, DBS.MongoDB); err != nil {
		log.Fatal("Failed to create MongoDB indexes", zap.Error(err))
		return
	}

	log.Info("MongoDB connected successfully", zap.String("database", dbName))
}

// ensureIndexes creates the workspace and user indexes. Lookups by workspace
// id and by member username are hot paths; both must be indexed.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	workspaceIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "members.username", Value: 1}}},
	}
	if _, err := db.Collection(workspacesCollection).Indexes().CreateMany(ctx, workspaceIndexes); err != nil {
		return err
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes)
	return err
}

// initRedis initializes the Redis connection used by the workspace cache.
func initRedis(log *zap.Logger) {
	opt := &redis.Options{
		Addr:     configs.Configs.Redis.Addresses[0],
		Username: configs.Configs.Redis.Username,
		Password: configs.Configs.Redis.Password,
		DB:       configs.Configs.Redis.Database,
	}

	if configs.Configs.Redis.Tls {
		opt.TLSConfig = &tls.Config{}
	}

	DBS.Redis = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := DBS.Redis.Ping(ctx).Result()
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
		return
	}

	log.Info("Redis connected successfully", zap.String("result", result))
}

// Close releases the database connections.
func Close(ctx context.Context, log *zap.Logger) {
	if DBS.Redis != nil {
		if err := DBS.Redis.Close(); err != nil {
			log.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if DBS.Mongo != nil {
		if err := DBS.Mongo.Disconnect(ctx); err != nil {
			log.Warn("Failed to disconnect MongoDB client", zap.Error(err))
		}
	}
}
