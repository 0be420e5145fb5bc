package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/arif/devnetwork/internal/apperror"
	"github.com/arif/devnetwork/internal/model"
	"github.com/arif/devnetwork/internal/repository"
)

// compile-time check that *DB implements repository.ProfileRepository
var _ repository.ProfileRepository = (*ProfileStore)(nil)

// Upsert atomically creates or updates the owner's profile.
//
// The whole merge is ONE statement: INSERT ... ON CONFLICT(owner_id) DO
// UPDATE. owner_id being the primary key, two concurrent upserts for the
// same owner serialize inside SQLite — the invariant "at most one profile
// per user" is enforced by the store, not by application logic.
//
// Partial-update semantics: status and skills are always written; for every
// optional column the nil pointer becomes SQL NULL and
// COALESCE(excluded.col, col) keeps the stored value, so absent request
// fields never null out what the user set earlier.
func (s *ProfileStore) Upsert(ctx context.Context, ownerID string, upd *model.ProfileUpdate) (*model.Profile, error) {
	skillsJSON, err := json.Marshal(upd.Skills)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding skills: %w", err)
	}

	now := time.Now()

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO profiles (
			owner_id, status, skills,
			company, website, location, bio, github_username,
			youtube, twitter, facebook, instagram, linkedin,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			status          = excluded.status,
			skills          = excluded.skills,
			company         = COALESCE(excluded.company, company),
			website         = COALESCE(excluded.website, website),
			location        = COALESCE(excluded.location, location),
			bio             = COALESCE(excluded.bio, bio),
			github_username = COALESCE(excluded.github_username, github_username),
			youtube         = COALESCE(excluded.youtube, youtube),
			twitter         = COALESCE(excluded.twitter, twitter),
			facebook        = COALESCE(excluded.facebook, facebook),
			instagram       = COALESCE(excluded.instagram, instagram),
			linkedin        = COALESCE(excluded.linkedin, linkedin),
			updated_at      = excluded.updated_at`,
		ownerID, upd.Status, string(skillsJSON),
		upd.Company, upd.Website, upd.Location, upd.Bio, upd.GithubUsername,
		upd.Youtube, upd.Twitter, upd.Facebook, upd.Instagram, upd.Linkedin,
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: upserting profile for owner %s: %w", ownerID, err)
	}

	return s.GetByOwner(ctx, ownerID)
}

const profileSelect = `
	SELECT p.owner_id, p.status, p.skills,
	       p.company, p.website, p.location, p.bio, p.github_username,
	       p.youtube, p.twitter, p.facebook, p.instagram, p.linkedin,
	       p.created_at, p.updated_at,
	       u.name, u.avatar_url
	FROM profiles p
	JOIN users u ON u.id = p.owner_id`

// GetByOwner returns the owner's profile with display fields joined from
// users and the experience/education collections loaded newest-first.
// Returns apperror.ErrNotFound when the owner has no profile yet — a normal
// outcome for fresh accounts, not a failure.
func (s *ProfileStore) GetByOwner(ctx context.Context, ownerID string) (*model.Profile, error) {
	row := s.conn.QueryRowContext(ctx, profileSelect+` WHERE p.owner_id = ?`, ownerID)

	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("No profile found")
		}
		return nil, fmt.Errorf("sqlite: getting profile for owner %s: %w", ownerID, err)
	}

	if err := s.loadProfileEntries(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// ListAll returns every profile. Child collections are fetched with one
// query per table (grouped by owner), not one per profile.
func (s *ProfileStore) ListAll(ctx context.Context) ([]model.Profile, error) {
	rows, err := s.conn.QueryContext(ctx, profileSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	byOwner := map[string]int{}

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning profile row: %w", err)
		}
		byOwner[p.OwnerID] = len(profiles)
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating profiles: %w", err)
	}

	if len(profiles) == 0 {
		return profiles, nil
	}

	expRows, err := s.conn.QueryContext(ctx,
		`SELECT owner_id, id, title, company, location, from_date, to_date, current, description
		 FROM profile_experience ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing experience entries: %w", err)
	}
	defer expRows.Close()

	for expRows.Next() {
		var ownerID string
		var e model.ExperienceEntry
		if err := expRows.Scan(&ownerID, &e.ID, &e.Title, &e.Company, &e.Location,
			&e.From, &e.To, &e.Current, &e.Description); err != nil {
			return nil, fmt.Errorf("sqlite: scanning experience row: %w", err)
		}
		if i, ok := byOwner[ownerID]; ok {
			profiles[i].Experience = append(profiles[i].Experience, e)
		}
	}
	if err := expRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating experience entries: %w", err)
	}

	eduRows, err := s.conn.QueryContext(ctx,
		`SELECT owner_id, id, school, degree, field_of_study, from_date, to_date, current, description
		 FROM profile_education ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing education entries: %w", err)
	}
	defer eduRows.Close()

	for eduRows.Next() {
		var ownerID string
		var e model.EducationEntry
		if err := eduRows.Scan(&ownerID, &e.ID, &e.School, &e.Degree, &e.FieldOfStudy,
			&e.From, &e.To, &e.Current, &e.Description); err != nil {
			return nil, fmt.Errorf("sqlite: scanning education row: %w", err)
		}
		if i, ok := byOwner[ownerID]; ok {
			profiles[i].Education = append(profiles[i].Education, e)
		}
	}
	if err := eduRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating education entries: %w", err)
	}

	return profiles, nil
}

// AddExperience inserts an entry for the owner's profile.
//
// The INSERT selects FROM profiles, so when the owner has no profile the
// statement inserts nothing and rows-affected tells us to report NotFound —
// existence check and insert are one atomic operation.
func (s *ProfileStore) AddExperience(ctx context.Context, ownerID string, entry *model.ExperienceEntry) error {
	entry.ID = xid.New().String()

	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO profile_experience
			(id, owner_id, title, company, location, from_date, to_date, current, description)
		 SELECT ?, owner_id, ?, ?, ?, ?, ?, ?, ?
		 FROM profiles WHERE owner_id = ?`,
		entry.ID, entry.Title, entry.Company, entry.Location,
		entry.From, entry.To, entry.Current, entry.Description,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding experience for owner %s: %w", ownerID, err)
	}

	return requireAffected(result, apperror.NotFoundMsg("No profile found"))
}

// RemoveExperience deletes exactly the named entry. A missing id reports
// NotFound instead of silently touching anything else.
func (s *ProfileStore) RemoveExperience(ctx context.Context, ownerID, entryID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM profile_experience WHERE id = ? AND owner_id = ?`,
		entryID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing experience %s: %w", entryID, err)
	}

	return requireAffected(result, apperror.NotFoundMsg("Experience entry not in profile"))
}

// AddEducation mirrors AddExperience.
func (s *ProfileStore) AddEducation(ctx context.Context, ownerID string, entry *model.EducationEntry) error {
	entry.ID = xid.New().String()

	result, err := s.conn.ExecContext(ctx,
		`INSERT INTO profile_education
			(id, owner_id, school, degree, field_of_study, from_date, to_date, current, description)
		 SELECT ?, owner_id, ?, ?, ?, ?, ?, ?, ?
		 FROM profiles WHERE owner_id = ?`,
		entry.ID, entry.School, entry.Degree, entry.FieldOfStudy,
		entry.From, entry.To, entry.Current, entry.Description,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding education for owner %s: %w", ownerID, err)
	}

	return requireAffected(result, apperror.NotFoundMsg("No profile found"))
}

// RemoveEducation mirrors RemoveExperience.
func (s *ProfileStore) RemoveEducation(ctx context.Context, ownerID, entryID string) error {
	result, err := s.conn.ExecContext(ctx,
		`DELETE FROM profile_education WHERE id = ? AND owner_id = ?`,
		entryID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing education %s: %w", entryID, err)
	}

	return requireAffected(result, apperror.NotFoundMsg("Education entry not in profile"))
}

// loadProfileEntries fills a single profile's experience and education,
// newest first.
func (s *ProfileStore) loadProfileEntries(ctx context.Context, p *model.Profile) error {
	expRows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, company, location, from_date, to_date, current, description
		 FROM profile_experience WHERE owner_id = ? ORDER BY seq DESC`,
		p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading experience for owner %s: %w", p.OwnerID, err)
	}
	defer expRows.Close()

	p.Experience = []model.ExperienceEntry{}
	for expRows.Next() {
		var e model.ExperienceEntry
		if err := expRows.Scan(&e.ID, &e.Title, &e.Company, &e.Location,
			&e.From, &e.To, &e.Current, &e.Description); err != nil {
			return fmt.Errorf("sqlite: scanning experience row: %w", err)
		}
		p.Experience = append(p.Experience, e)
	}
	if err := expRows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating experience entries: %w", err)
	}

	eduRows, err := s.conn.QueryContext(ctx,
		`SELECT id, school, degree, field_of_study, from_date, to_date, current, description
		 FROM profile_education WHERE owner_id = ? ORDER BY seq DESC`,
		p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading education for owner %s: %w", p.OwnerID, err)
	}
	defer eduRows.Close()

	p.Education = []model.EducationEntry{}
	for eduRows.Next() {
		var e model.EducationEntry
		if err := eduRows.Scan(&e.ID, &e.School, &e.Degree, &e.FieldOfStudy,
			&e.From, &e.To, &e.Current, &e.Description); err != nil {
			return fmt.Errorf("sqlite: scanning education row: %w", err)
		}
		p.Education = append(p.Education, e)
	}
	if err := eduRows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating education entries: %w", err)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*model.Profile, error) {
	var p model.Profile
	var skillsJSON string
	var company, website, location, bio, github sql.NullString
	var youtube, twitter, facebook, instagram, linkedin sql.NullString

	err := s.Scan(
		&p.OwnerID, &p.Status, &skillsJSON,
		&company, &website, &location, &bio, &github,
		&youtube, &twitter, &facebook, &instagram, &linkedin,
		&p.CreatedAt, &p.UpdatedAt,
		&p.User.Name, &p.User.AvatarURL,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(skillsJSON), &p.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills for owner %s: %w", p.OwnerID, err)
	}

	p.User.ID = p.OwnerID
	p.Company = company.String
	p.Website = website.String
	p.Location = location.String
	p.Bio = bio.String
	p.GithubUsername = github.String
	p.Social = model.SocialLinks{
		Youtube:   youtube.String,
		Twitter:   twitter.String,
		Facebook:  facebook.String,
		Instagram: instagram.String,
		Linkedin:  linkedin.String,
	}
	p.Experience = []model.ExperienceEntry{}
	p.Education = []model.EducationEntry{}

	return &p, nil
}

// requireAffected returns missing when the statement touched no rows.
func requireAffected(result sql.Result, missing error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return missing
	}
	return nil
}
