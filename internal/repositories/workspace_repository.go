package repositories

import (
	"context"
	"errors"
	"time"

	"schemahub-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const workspacesCollection = "workspaces"

var (
	// ErrWorkspaceNotFound is returned when no workspace has the given id.
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrDuplicateWorkspace is returned when inserting an id that already exists.
	ErrDuplicateWorkspace = errors.New("workspace with this id already exists")
	// ErrVersionConflict is returned when an update lost a race with a
	// concurrent writer. The caller should re-read and retry.
	ErrVersionConflict = errors.New("workspace was modified concurrently")
)

// WorkspaceRepository is durable keyed-by-id storage of workspace aggregates.
type WorkspaceRepository interface {
	FindByID(ctx context.Context, id string) (*models.Workspace, error)
	Insert(ctx context.Context, workspace *models.Workspace) error
	Update(ctx context.Context, workspace *models.Workspace) error
}

// MongoWorkspaceRepository implements WorkspaceRepository over a MongoDB
// collection. Updates carry an optimistic version check so that two
// concurrent read-modify-write cycles can never silently lose one side.
type MongoWorkspaceRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkspaceRepository creates a repository over the shared MongoDB client.
func NewMongoWorkspaceRepository() *MongoWorkspaceRepository {
	return &MongoWorkspaceRepository{
		collection: DBS.MongoDB.Collection(workspacesCollection),
	}
}

func (r *MongoWorkspaceRepository) FindByID(ctx context.Context, id string) (*models.Workspace, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var workspace models.Workspace
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&workspace)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

func (r *MongoWorkspaceRepository) Insert(ctx context.Context, workspace *models.Workspace) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, workspace)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateWorkspace
		}
		return err
	}
	return nil
}

// Update persists the full aggregate, matching on the version the caller
// read. A miss means either the document vanished or another writer got
// there first; the two cases are distinguished with a follow-up existence
// check so the caller can react correctly.
func (r *MongoWorkspaceRepository) Update(ctx context.Context, workspace *models.Workspace) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	readVersion := workspace.Version
	workspace.Version = readVersion + 1

	result, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"id": workspace.ID, "version": readVersion},
		workspace,
	)
	if err != nil {
		workspace.Version = readVersion
		return err
	}
	if result.MatchedCount == 0 {
		workspace.Version = readVersion
		count, err := r.collection.CountDocuments(ctx, bson.M{"id": workspace.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrWorkspaceNotFound
		}
		return ErrVersionConflict
	}
	return nil
}
