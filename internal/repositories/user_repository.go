package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"schemahub-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "users"

// ErrUserNotFound is returned when no user has the given username.
var ErrUserNotFound = errors.New("user not found")

// UserRepository reads the user directory owned by the authentication service.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// MongoUserRepository implements UserRepository over the users collection.
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository() *MongoUserRepository {
	return &MongoUserRepository{
		collection: DBS.MongoDB.Collection(usersCollection),
	}
}

// FindByUsername resolves a username case-insensitively.
func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"username": bson.M{
		"$regex": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(username) + "$", Options: "i"},
	}}

	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
