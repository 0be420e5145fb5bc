package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arif/devnetwork/internal/auth"
	"github.com/arif/devnetwork/internal/model"
	"github.com/arif/devnetwork/internal/service"
)

// PostHandler serves the post feed, likes and comments. Every route here
// sits behind the auth middleware.
type PostHandler struct {
	posts  *service.PostService
	logger *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

type postTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type postListResponse struct {
	Posts []model.Post `json:"posts"`
}

type commentListResponse struct {
	Comments []model.Comment `json:"comments"`
}

// HandleCreate publishes a post authored by the caller.
//
// HTTP: POST /api/v1/posts
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req postTextRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if !validateRequest(w, h.logger, &req, map[string]string{
		"text": "Text is required",
	}) {
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, post)
}

// HandleList returns all posts, newest first.
//
// HTTP: GET /api/v1/posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, h.logger, http.StatusOK, postListResponse{Posts: posts})
}

// HandleGet returns one post with its likes and comments.
//
// HTTP: GET /api/v1/posts/{postID}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	post, err := h.posts.Get(r.Context(), postID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, post)
}

// HandleDelete removes the caller's own post.
//
// HTTP: DELETE /api/v1/posts/{postID}
//
// Responds 201 with a msg body naming the deleted post; existing clients
// depend on that shape.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	if err := h.posts.Delete(r.Context(), userID, postID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, msgResponse{Msg: fmt.Sprintf("Post %s deleted", postID)})
}

// HandleLike records the caller's like and returns the updated like list.
//
// HTTP: PUT /api/v1/posts/like/{postID}
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	likes, err := h.posts.Like(r.Context(), userID, postID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if likes == nil {
		likes = []string{}
	}
	writeJSON(w, h.logger, http.StatusOK, likes)
}

// HandleUnlike withdraws the caller's like and returns the updated like
// list.
//
// HTTP: PUT /api/v1/posts/unlike/{postID}
func (h *PostHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	likes, err := h.posts.Unlike(r.Context(), userID, postID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if likes == nil {
		likes = []string{}
	}
	writeJSON(w, h.logger, http.StatusOK, likes)
}

// HandleAddComment attaches a comment and returns the updated comment
// list.
//
// HTTP: POST /api/v1/posts/comment/{postID}
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	postID := chi.URLParam(r, "postID")

	var req postTextRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if !validateRequest(w, h.logger, &req, map[string]string{
		"text": "Text is required",
	}) {
		return
	}

	comments, err := h.posts.AddComment(r.Context(), userID, postID, req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, commentListResponse{Comments: comments})
}

// HandleRemoveComment deletes a comment and returns the remaining comment
// list.
//
// HTTP: DELETE /api/v1/posts/{postID}/comment/{commentID}
func (h *PostHandler) HandleRemoveComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	postID := chi.URLParam(r, "postID")
	commentID := chi.URLParam(r, "commentID")

	comments, err := h.posts.RemoveComment(r.Context(), userID, postID, commentID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	writeJSON(w, h.logger, http.StatusOK, comments)
}
