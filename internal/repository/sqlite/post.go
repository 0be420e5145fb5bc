package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/arif/devnetwork/internal/apperror"
	"github.com/arif/devnetwork/internal/model"
	"github.com/arif/devnetwork/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*PostStore)(nil)

// Create inserts a new post with the author snapshot the service captured.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.Date = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO posts (id, author_id, author_name, author_avatar, text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.AuthorID,
		post.AuthorName,
		post.AuthorAvatar,
		post.Text,
		post.Date,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	post.Likes = []string{}
	post.Comments = []model.Comment{}
	return nil
}

// GetByID retrieves a single post with likes and comments, newest first.
func (s *PostStore) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := s.conn.QueryRowContext(ctx,
		`SELECT id, author_id, author_name, author_avatar, text, created_at
		 FROM posts WHERE id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.AuthorID,
		&p.AuthorName,
		&p.AuthorAvatar,
		&p.Text,
		&p.Date,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("Post not found")
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	if err := s.loadLikes(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.loadComments(ctx, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// List returns all posts ordered by creation date, newest first. The xid
// tiebreak keeps the order stable when two posts land on the same
// timestamp (xids are themselves time-ordered).
func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, author_id, author_name, author_avatar, text, created_at
		 FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	byID := map[string]int{}

	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.AuthorAvatar,
			&p.Text, &p.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		p.Likes = []string{}
		p.Comments = []model.Comment{}
		byID[p.ID] = len(posts)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	if len(posts) == 0 {
		return posts, nil
	}

	likeRows, err := s.conn.QueryContext(ctx,
		`SELECT post_id, user_id FROM post_likes ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing likes: %w", err)
	}
	defer likeRows.Close()

	for likeRows.Next() {
		var postID, userID string
		if err := likeRows.Scan(&postID, &userID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning like row: %w", err)
		}
		if i, ok := byID[postID]; ok {
			posts[i].Likes = append(posts[i].Likes, userID)
		}
	}
	if err := likeRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating likes: %w", err)
	}

	commentRows, err := s.conn.QueryContext(ctx,
		`SELECT post_id, id, author_id, author_name, author_avatar, text, created_at
		 FROM post_comments ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var postID string
		var c model.Comment
		if err := commentRows.Scan(&postID, &c.ID, &c.AuthorID, &c.AuthorName,
			&c.AuthorAvatar, &c.Text, &c.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		if i, ok := byID[postID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	if err := commentRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return posts, nil
}

// Delete removes a post; likes and comments go with it via ON DELETE
// CASCADE.
func (s *PostStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	return requireAffected(result, apperror.NotFoundMsg("Post not found"))
}

// AddLike records userID's like in one atomic INSERT.
//
// The SELECT FROM posts makes post existence part of the same statement
// (no rows inserted → post is gone → NotFound), and the UNIQUE(post_id,
// user_id) constraint turns a duplicate like into a driver error we map to
// Conflict. There is no read-then-write window for a double like to slip
// through.
func (s *PostStore) AddLike(ctx context.Context, postID, userID string) error {
	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id)
		 SELECT id, ? FROM posts WHERE id = ?`,
		userID, postID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("Post already liked")
		}
		return fmt.Errorf("sqlite: liking post %s: %w", postID, err)
	}

	return requireAffected(result, apperror.NotFoundMsg("Post not found"))
}

// RemoveLike deletes exactly the caller's like. When nothing was deleted we
// look at the post to decide between "post gone" (NotFound) and "you never
// liked this" (Conflict) — that extra read is on the failure path only.
func (s *PostStore) RemoveLike(ctx context.Context, postID, userID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: unliking post %s: %w", postID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists int
	err = s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE id = ?`, postID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking post %s: %w", postID, err)
	}
	if exists == 0 {
		return apperror.NotFoundMsg("Post not found")
	}
	return apperror.Conflict("Post has not yet been liked")
}

// AddComment prepends a comment, atomically checking post existence the
// same way AddLike does.
func (s *PostStore) AddComment(ctx context.Context, postID string, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.Date = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO post_comments (id, post_id, author_id, author_name, author_avatar, text, created_at)
		 SELECT ?, id, ?, ?, ?, ?, ? FROM posts WHERE id = ?`,
		comment.ID, comment.AuthorID, comment.AuthorName, comment.AuthorAvatar,
		comment.Text, comment.Date,
		postID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: commenting on post %s: %w", postID, err)
	}

	return requireAffected(result, apperror.NotFoundMsg("Post not found"))
}

// RemoveComment deletes exactly the named comment; a miss is NotFound,
// never a silent removal of some other entry.
func (s *PostStore) RemoveComment(ctx context.Context, postID, commentID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM post_comments WHERE id = ? AND post_id = ?`,
		commentID, postID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing comment %s: %w", commentID, err)
	}

	return requireAffected(result, apperror.NotFoundMsg("Comment not found"))
}

func (s *PostStore) loadLikes(ctx context.Context, p *model.Post) error {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT user_id FROM post_likes WHERE post_id = ? ORDER BY seq DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading likes for post %s: %w", p.ID, err)
	}
	defer rows.Close()

	p.Likes = []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("sqlite: scanning like row: %w", err)
		}
		p.Likes = append(p.Likes, userID)
	}
	return rows.Err()
}

func (s *PostStore) loadComments(ctx context.Context, p *model.Post) error {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, author_id, author_name, author_avatar, text, created_at
		 FROM post_comments WHERE post_id = ? ORDER BY seq DESC`,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading comments for post %s: %w", p.ID, err)
	}
	defer rows.Close()

	p.Comments = []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.AuthorName, &c.AuthorAvatar,
			&c.Text, &c.Date); err != nil {
			return fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		p.Comments = append(p.Comments, c)
	}
	return rows.Err()
}
