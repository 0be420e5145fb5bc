package model

import "time"

// Post is a user-authored text entry supporting likes and comments.
//
// AuthorName and AuthorAvatar are snapshots of the author's display data
// taken when the post is created. They are intentionally NOT kept in sync
// with later profile edits — the feed shows what the author looked like at
// posting time.
//
// Likes is semantically a set of user IDs (each user likes at most once) but
// ordered most-recent-first, matching how it is presented.
type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	Text         string    `json:"text"`
	Date         time.Time `json:"date"`
	Likes        []string  `json:"likes"`
	Comments     []Comment `json:"comments"`
}

// Comment is one entry in a post's comment thread, newest first.
// Author display fields are creation-time snapshots, like the post's.
type Comment struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	Text         string    `json:"text"`
	Date         time.Time `json:"date"`
}
