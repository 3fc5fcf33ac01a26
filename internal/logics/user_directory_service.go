package logics

import (
	"context"
	"strings"

	"schemahub-server/configs"
	"schemahub-server/internal/models"
	"schemahub-server/internal/repositories"
	"schemahub-server/pkg/errors"

	"go.uber.org/zap"
)

// UserDirectory resolves usernames against whatever user store the
// deployment has. Lookup returns nil when the username does not exist; a
// lookup failure is an error, never an implicit yes. Environments without a
// real directory opt into the static or off modes explicitly.
type UserDirectory interface {
	Lookup(ctx context.Context, username string) (*models.User, error)
}

// MongoUserDirectory resolves usernames against the users collection.
type MongoUserDirectory struct {
	users repositories.UserRepository
}

func NewMongoUserDirectory(users repositories.UserRepository) *MongoUserDirectory {
	return &MongoUserDirectory{users: users}
}

func (d *MongoUserDirectory) Lookup(ctx context.Context, username string) (*models.User, error) {
	user, err := d.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil
		}
		return nil, errors.NewAppError(errors.ErrInternal, "user directory lookup failed", err)
	}
	return user, nil
}

// StaticUserDirectory resolves usernames against a fixed allowlist. It backs
// deployments that have no user store of their own. Resolved users carry no
// email address, so invitation mail is skipped for them.
type StaticUserDirectory struct {
	usernames map[string]struct{}
}

func NewStaticUserDirectory(usernames []string) *StaticUserDirectory {
	set := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		set[strings.ToLower(u)] = struct{}{}
	}
	return &StaticUserDirectory{usernames: set}
}

func (d *StaticUserDirectory) Lookup(_ context.Context, username string) (*models.User, error) {
	if _, ok := d.usernames[strings.ToLower(username)]; !ok {
		return nil, nil
	}
	return &models.User{Username: username}, nil
}

// openUserDirectory resolves every username. Development only.
type openUserDirectory struct{}

func (openUserDirectory) Lookup(_ context.Context, username string) (*models.User, error) {
	return &models.User{Username: username}, nil
}

// NewUserDirectory builds the directory selected by configuration.
func NewUserDirectory(cfg configs.DirectoryConfig, log *zap.Logger) UserDirectory {
	switch cfg.Mode {
	case configs.DirectoryModeStatic:
		log.Info("User directory running in static mode", zap.Int("usernames", len(cfg.Usernames)))
		return NewStaticUserDirectory(cfg.Usernames)
	case configs.DirectoryModeOff:
		log.Warn("User directory disabled; every username resolves. Do not run this in production.")
		return openUserDirectory{}
	default:
		return NewMongoUserDirectory(repositories.NewMongoUserRepository())
	}
}
