package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/talentnest/src/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup or the update filter.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

type Store interface {
	UserStore
	ConnectionStore
	PostStore
	NotificationStore
	// Migrate creates the collections, tables and indexes the store relies on.
	Migrate(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

type UserStore interface {
	// CreateUser inserts a new user and assigns its ID.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByID retrieves a user with its connection set.
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// GetUserByUsername retrieves a user by handle.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsersByIDs retrieves the users that exist among ids, in no particular order.
	ListUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	// ListUsersExcluding retrieves up to limit users whose ID is not in exclude.
	ListUsersExcluding(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.User, error)
	// UpdateUserProfile applies a partial profile update and returns the updated user.
	UpdateUserProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
	// AddConnection adds otherID to the connection set of userID. Adding twice is a no-op.
	AddConnection(ctx context.Context, userID, otherID primitive.ObjectID) error
	// RemoveConnection removes otherID from the connection set of userID. Removing a missing entry is a no-op.
	RemoveConnection(ctx context.Context, userID, otherID primitive.ObjectID) error
}

type ConnectionStore interface {
	// CreateConnectionRequest inserts a new request and assigns its ID and pair key.
	// A second pending request for the same unordered pair fails with ErrDuplicateKey.
	CreateConnectionRequest(ctx context.Context, req *models.ConnectionRequest) error
	// GetConnectionRequest retrieves a request by ID.
	GetConnectionRequest(ctx context.Context, id primitive.ObjectID) (*models.ConnectionRequest, error)
	// FindPendingBetween retrieves a pending request between a and b in either direction.
	FindPendingBetween(ctx context.Context, a, b primitive.ObjectID) (*models.ConnectionRequest, error)
	// TransitionConnectionRequest moves a request from one status to another.
	// It returns ErrNotFound when no request with that ID is currently in status from.
	TransitionConnectionRequest(ctx context.Context, id primitive.ObjectID, from, to models.ConnectionStatus) (*models.ConnectionRequest, error)
	// ListPendingRequests retrieves the pending requests addressed to recipient, newest first.
	ListPendingRequests(ctx context.Context, recipient primitive.ObjectID) ([]models.ConnectionRequest, error)
}

type PostStore interface {
	// CreatePost inserts a new post and assigns its ID.
	CreatePost(ctx context.Context, post *models.Post) error
	// GetPost retrieves a post with its comments and likes.
	GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// ListPostsByIDs retrieves the posts that exist among ids.
	ListPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	// ListPostsByAuthors retrieves the posts written by any of authors, newest first.
	ListPostsByAuthors(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error)
	// DeletePost deletes a post with its comments and likes.
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	// AddComment appends a comment to a post and returns the updated post.
	AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error)
	// ToggleLike flips the like of userID on a post and reports whether the post is now liked.
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
}

type NotificationStore interface {
	// CreateNotification inserts a new notification and assigns its ID.
	CreateNotification(ctx context.Context, n *models.Notification) error
	// ListNotifications retrieves the notifications addressed to recipient, newest first.
	ListNotifications(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error)
	// MarkNotificationRead marks a notification owned by recipient as read.
	MarkNotificationRead(ctx context.Context, id, recipient primitive.ObjectID) (*models.Notification, error)
	// DeleteNotification deletes a notification owned by recipient.
	DeleteNotification(ctx context.Context, id, recipient primitive.ObjectID) error
}
