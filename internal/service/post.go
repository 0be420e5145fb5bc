package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/arif/devnetwork/internal/apperror"
	"github.com/arif/devnetwork/internal/model"
	"github.com/arif/devnetwork/internal/repository"
)

// PostService handles post creation, reactions and the ownership rules
// around deletion.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		logger: logger,
	}
}

// Create publishes a new post by authorID. The author's display name and
// avatar are snapshotted onto the post at creation time; later account
// changes do not rewrite old posts.
func (s *PostService) Create(ctx context.Context, authorID, text string) (*model.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("text", "Text is required")
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
		Text:         text,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("authorID", authorID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("authorID", authorID),
	)
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, err
	}
	return posts, nil
}

// Get returns a single post by id.
func (s *PostService) Get(ctx context.Context, postID string) (*model.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

// Delete removes a post. Only the author may delete it.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return apperror.Forbidden("User not authorized to delete this post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.logger.Info("post deleted",
		slog.String("postID", postID),
		slog.String("userID", userID),
	)
	return nil
}

// Like records userID's like on a post and returns the updated like list.
// Liking a post twice is a conflict, not a no-op.
func (s *PostService) Like(ctx context.Context, userID, postID string) ([]string, error) {
	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// Unlike withdraws userID's like. Unliking a post the user never liked is
// a conflict.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) ([]string, error) {
	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment attaches a comment by userID to a post and returns the full
// updated comment list, newest first. Author display fields are
// snapshotted the same way post authorship is.
func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) ([]model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("text", "Text is required")
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
		Text:         text,
	}
	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		slog.String("postID", postID),
		slog.String("commentID", comment.ID),
	)

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes a comment from a post. Both the comment's author
// and the post's author are allowed to remove it; anyone else is rejected.
func (s *PostService) RemoveComment(ctx context.Context, userID, postID, commentID string) ([]model.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	var comment *model.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return nil, apperror.NotFoundMsg("Comment not found")
	}

	if comment.AuthorID != userID && post.AuthorID != userID {
		return nil, apperror.Forbidden("User not authorized to delete this comment")
	}

	if err := s.posts.RemoveComment(ctx, postID, commentID); err != nil {
		return nil, err
	}

	s.logger.Info("comment removed",
		slog.String("postID", postID),
		slog.String("commentID", commentID),
	)

	post, err = s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}
