// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so no
// CGo and no C toolchain needed for builds or cross-compilation.
//
// Child collections (experience, education, likes, comments) live in their
// own tables rather than as serialized arrays on the parent row. That is
// what lets every mutation be a single atomic SQL statement: a like is one
// INSERT whose primary key enforces the at-most-one-like-per-user rule, and
// an entry removal is one DELETE whose rows-affected count tells us whether
// the entry existed. No application-level read-modify-write, no lost
// updates under concurrent requests against the same post or profile.
//
// "Prepend" ordering (newest first) is realized with an AUTOINCREMENT seq
// column read back with ORDER BY seq DESC.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and owns the schema. The per-aggregate
// stores returned by Users, Profiles and Posts share its pool; they exist
// so each can have its own Create/GetByID without the method sets
// colliding on one type.
type DB struct {
	conn *sql.DB
}

// UserStore implements repository.UserRepository.
type UserStore struct {
	conn *sql.DB
}

// ProfileStore implements repository.ProfileRepository.
type ProfileStore struct {
	conn *sql.DB
}

// PostStore implements repository.PostRepository.
type PostStore struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserStore { return &UserStore{conn: db.conn} }

// Profiles returns the profile repository backed by this database.
func (db *DB) Profiles() *ProfileStore { return &ProfileStore{conn: db.conn} }

// Posts returns the post repository backed by this database.
func (db *DB) Posts() *PostStore { return &PostStore{conn: db.conn} }

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/devnetwork.db" → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests, lost on close)
//
// The pragmas ride on the DSN rather than a one-off Exec: database/sql is
// a connection pool, and an Exec'd PRAGMA configures only the single
// connection that happened to run it. Foreign keys must be ON for every
// connection — the cascade from users to profiles, posts, likes and
// comments depends on them — and the DSN is the only place that applies
// to each connection the pool opens. WAL mode allows concurrent reads
// while a write is happening.
func New(dbPath string) (*DB, error) {
	const pragmas = "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

	dsn := dbPath + pragmas
	memory := dbPath == ":memory:"
	if memory {
		dsn = "file::memory:" + pragmas
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A second connection to an in-memory database would see its own
	// fresh empty database, not this one. Pin the pool to one connection;
	// the default idle policy keeps it (and the data) alive.
	if memory {
		conn.SetMaxOpenConns(1)
	}

	// Force an immediate connection so a bad path or permissions problem
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent; a schema-version table and golang-migrate would replace this
// if the schema ever needs destructive changes.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// owner_id is the primary key: the schema itself guarantees at most
	// one profile per user. Optional columns are nullable so an upsert can
	// tell "never set" apart from "set to empty".
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			owner_id        TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			status          TEXT NOT NULL,
			skills          TEXT NOT NULL,
			company         TEXT,
			website         TEXT,
			location        TEXT,
			bio             TEXT,
			github_username TEXT,
			youtube         TEXT,
			twitter         TEXT,
			facebook        TEXT,
			instagram       TEXT,
			linkedin        TEXT,
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating profiles table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profile_experience (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			owner_id    TEXT NOT NULL REFERENCES profiles(owner_id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			company     TEXT NOT NULL,
			location    TEXT NOT NULL DEFAULT '',
			from_date   TEXT NOT NULL,
			to_date     TEXT NOT NULL DEFAULT '',
			current     INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_profile_experience_owner ON profile_experience(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating profile_experience table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS profile_education (
			seq            INTEGER PRIMARY KEY AUTOINCREMENT,
			id             TEXT NOT NULL UNIQUE,
			owner_id       TEXT NOT NULL REFERENCES profiles(owner_id) ON DELETE CASCADE,
			school         TEXT NOT NULL,
			degree         TEXT NOT NULL,
			field_of_study TEXT NOT NULL,
			from_date      TEXT NOT NULL,
			to_date        TEXT NOT NULL DEFAULT '',
			current        INTEGER NOT NULL DEFAULT 0,
			description    TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_profile_education_owner ON profile_education(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating profile_education table: %w", err)
	}

	// author_name/author_avatar are snapshots taken at creation time —
	// there is deliberately no join back to users on reads.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id            TEXT PRIMARY KEY,
			author_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			author_name   TEXT NOT NULL,
			author_avatar TEXT NOT NULL DEFAULT '',
			text          TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
		CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	// The (post_id, user_id) primary key makes the like-set a real set:
	// a second like from the same user is a constraint violation, not a
	// duplicate row.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS post_likes (
			seq     INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			UNIQUE (post_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_post_likes_post ON post_likes(post_id);
	`)
	if err != nil {
		return fmt.Errorf("creating post_likes table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS post_comments (
			seq           INTEGER PRIMARY KEY AUTOINCREMENT,
			id            TEXT NOT NULL UNIQUE,
			post_id       TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_id     TEXT NOT NULL,
			author_name   TEXT NOT NULL,
			author_avatar TEXT NOT NULL DEFAULT '',
			text          TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_post_comments_post ON post_comments(post_id);
	`)
	if err != nil {
		return fmt.Errorf("creating post_comments table: %w", err)
	}

	return nil
}
