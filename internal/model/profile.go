package model

import "time"

// Profile is a user's extended professional record. Exactly zero or one
// profile exists per user — the owner ID is the primary key in storage.
//
// The embedded User field is a read-time join of the owner's display data
// (name, avatar). It is populated by the repository on every read; it is not
// stored on the profile row itself.
type Profile struct {
	OwnerID        string            `json:"ownerId"`
	User           ProfileUser       `json:"user"`
	Status         string            `json:"status"`
	Skills         []string          `json:"skills"`
	Company        string            `json:"company,omitempty"`
	Website        string            `json:"website,omitempty"`
	Location       string            `json:"location,omitempty"`
	Bio            string            `json:"bio,omitempty"`
	GithubUsername string            `json:"githubusername,omitempty"`
	Social         SocialLinks       `json:"social"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// ProfileUser is the denormalized owner display data joined into profile reads.
type ProfileUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// SocialLinks holds the profile's optional social media URLs.
type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
}

// ExperienceEntry is one work-history item. Entries are kept newest-first;
// the ID is generated on insert and is the handle for later removal.
//
// From and To are kept as the date strings the client supplied. The service
// only requires From to be present; it never interprets the values.
type ExperienceEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is one education-history item, same lifecycle as
// ExperienceEntry.
type EducationEntry struct {
	ID           string `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

// ProfileUpdate is the partial-update document applied by the upsert.
//
// Status and Skills are always written (they are required on every upsert).
// The pointer fields distinguish "not supplied" (nil — leave the stored value
// untouched) from "supplied" (overwrite). This mirrors the dynamic
// only-attach-present-keys document the API builds from the request body,
// but as an explicit struct instead of an untyped map.
type ProfileUpdate struct {
	Status         string
	Skills         []string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GithubUsername *string
	Youtube        *string
	Twitter        *string
	Facebook       *string
	Instagram      *string
	Linkedin       *string
}
