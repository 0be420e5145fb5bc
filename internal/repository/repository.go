// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/arif/devnetwork/internal/model"
)

// UserRepository persists account records.
type UserRepository interface {
	// Create inserts a new user. The repository generates the ID and
	// timestamps. A duplicate email fails with apperror.ErrConflict.
	Create(ctx context.Context, user *model.User) error

	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Delete removes the user and, through the store's referential
	// cascades, their profile and posts.
	Delete(ctx context.Context, id string) error
}

// ProfileRepository persists profiles and their embedded experience and
// education collections.
//
// Mutations are single atomic store operations: two concurrent upserts for
// the same owner can never produce two profile rows, and entry removal
// either deletes exactly the named entry or reports ErrNotFound.
type ProfileRepository interface {
	// Upsert atomically creates or updates the owner's profile and returns
	// the resulting record. Nil optional fields in upd leave stored values
	// untouched.
	Upsert(ctx context.Context, ownerID string, upd *model.ProfileUpdate) (*model.Profile, error)

	// GetByOwner returns the profile with the owner's display fields
	// joined in, or apperror.ErrNotFound if the owner has no profile yet.
	GetByOwner(ctx context.Context, ownerID string) (*model.Profile, error)

	ListAll(ctx context.Context) ([]model.Profile, error)

	// AddExperience generates entry.ID and prepends the entry (newest
	// first). Fails with ErrNotFound if the owner has no profile.
	AddExperience(ctx context.Context, ownerID string, entry *model.ExperienceEntry) error
	RemoveExperience(ctx context.Context, ownerID, entryID string) error

	AddEducation(ctx context.Context, ownerID string, entry *model.EducationEntry) error
	RemoveEducation(ctx context.Context, ownerID, entryID string) error
}

// PostRepository persists posts with their like-sets and comment threads.
type PostRepository interface {
	// Create inserts a new post. The repository generates ID and Date.
	Create(ctx context.Context, post *model.Post) error

	// GetByID returns the post with likes and comments loaded, newest
	// first.
	GetByID(ctx context.Context, id string) (*model.Post, error)

	// List returns all posts ordered by creation date, newest first.
	List(ctx context.Context) ([]model.Post, error)

	Delete(ctx context.Context, id string) error

	// AddLike atomically records userID's like. ErrNotFound if the post is
	// absent; ErrConflict if the user already liked it.
	AddLike(ctx context.Context, postID, userID string) error

	// RemoveLike is the inverse: ErrConflict if the user had not liked it.
	RemoveLike(ctx context.Context, postID, userID string) error

	// AddComment generates comment.ID and prepends it. ErrNotFound if the
	// post is absent.
	AddComment(ctx context.Context, postID string, comment *model.Comment) error
	RemoveComment(ctx context.Context, postID, commentID string) error
}
