package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/arif/devnetwork/internal/apperror"
	"github.com/arif/devnetwork/internal/model"
)

func strPtr(s string) *string { return &s }

// upsertTestProfile creates a minimal profile for the owner.
func upsertTestProfile(t *testing.T, db *DB, ownerID string) *model.Profile {
	t.Helper()
	p, err := db.Profiles().Upsert(context.Background(), ownerID, &model.ProfileUpdate{
		Status: "Developer",
		Skills: []string{"Go", "SQL"},
	})
	if err != nil {
		t.Fatalf("failed to upsert test profile: %v", err)
	}
	return p
}

// =========================================================================
// UPSERT TESTS
// =========================================================================

func TestProfileUpsert_CreatesOnFirstCall(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")

	p, err := db.Profiles().Upsert(context.Background(), user.ID, &model.ProfileUpdate{
		Status:  "Developer",
		Skills:  []string{"Go", "SQL"},
		Company: strPtr("Acme"),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if p.OwnerID != user.ID {
		t.Errorf("OwnerID = %q, want %q", p.OwnerID, user.ID)
	}
	if p.Company != "Acme" {
		t.Errorf("Company = %q, want %q", p.Company, "Acme")
	}
	if p.User.Name != "Jane Doe" {
		t.Errorf("joined user name = %q, want %q", p.User.Name, "Jane Doe")
	}
}

func TestProfileUpsert_TwiceNeverCreatesTwoProfiles(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")

	upsertTestProfile(t, db, user.ID)
	upsertTestProfile(t, db, user.ID)

	profiles, err := db.Profiles().ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(profiles) != 1 {
		t.Errorf("ListAll() returned %d profiles after double upsert, want 1", len(profiles))
	}
}

func TestProfileUpsert_AbsentFieldsLeftUntouched(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")

	_, err := db.Profiles().Upsert(context.Background(), user.ID, &model.ProfileUpdate{
		Status:  "Developer",
		Skills:  []string{"Go"},
		Company: strPtr("Acme"),
		Website: strPtr("https://jane.dev"),
	})
	if err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	// Second upsert supplies only the required fields plus a new location;
	// company and website must survive.
	p, err := db.Profiles().Upsert(context.Background(), user.ID, &model.ProfileUpdate{
		Status:   "Senior Developer",
		Skills:   []string{"Go", "SQL"},
		Location: strPtr("Dhaka"),
	})
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	if p.Status != "Senior Developer" {
		t.Errorf("Status = %q, want updated value", p.Status)
	}
	if p.Company != "Acme" {
		t.Errorf("Company = %q, want previous value preserved", p.Company)
	}
	if p.Website != "https://jane.dev" {
		t.Errorf("Website = %q, want previous value preserved", p.Website)
	}
	if p.Location != "Dhaka" {
		t.Errorf("Location = %q, want %q", p.Location, "Dhaka")
	}
}

func TestProfileUpsert_SocialLinks(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")

	p, err := db.Profiles().Upsert(context.Background(), user.ID, &model.ProfileUpdate{
		Status:  "Developer",
		Skills:  []string{"Go"},
		Twitter: strPtr("https://twitter.com/jane"),
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if p.Social.Twitter != "https://twitter.com/jane" {
		t.Errorf("Social.Twitter = %q, want set", p.Social.Twitter)
	}
	if p.Social.Youtube != "" {
		t.Errorf("Social.Youtube = %q, want empty", p.Social.Youtube)
	}
}

func TestProfileUpsert_SkillsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")

	// Empty segments are preserved by the split policy; storage must
	// round-trip them untouched.
	skills := []string{"a", "", "c"}
	p, err := db.Profiles().Upsert(context.Background(), user.ID, &model.ProfileUpdate{
		Status: "Developer",
		Skills: skills,
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if !reflect.DeepEqual(p.Skills, skills) {
		t.Errorf("Skills = %v, want %v", p.Skills, skills)
	}
}

// =========================================================================
// GET / LIST TESTS
// =========================================================================

func TestProfileGetByOwner_NotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")

	_, err := db.Profiles().GetByOwner(context.Background(), user.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for fresh account", err)
	}
}

func TestProfileListAll(t *testing.T) {
	db := newTestDB(t)
	u1 := createTestUser(t, db, "Jane", "jane@example.com")
	u2 := createTestUser(t, db, "John", "john@example.com")
	upsertTestProfile(t, db, u1.ID)
	upsertTestProfile(t, db, u2.ID)

	profiles, err := db.Profiles().ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("ListAll() returned %d profiles, want 2", len(profiles))
	}
	for _, p := range profiles {
		if p.User.Name == "" {
			t.Errorf("profile %s missing joined user name", p.OwnerID)
		}
	}
}

// =========================================================================
// EXPERIENCE / EDUCATION TESTS
// =========================================================================

func TestAddExperience_NoProfile(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")

	err := db.Profiles().AddExperience(context.Background(), user.ID, &model.ExperienceEntry{
		Title:   "Engineer",
		Company: "Acme",
		From:    "2020-01-01",
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound when owner has no profile", err)
	}
}

func TestAddExperience_PrependsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")
	upsertTestProfile(t, db, user.ID)

	first := &model.ExperienceEntry{Title: "Junior", Company: "Acme", From: "2018-01-01"}
	second := &model.ExperienceEntry{Title: "Senior", Company: "Acme", From: "2021-01-01"}

	if err := db.Profiles().AddExperience(context.Background(), user.ID, first); err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}
	if err := db.Profiles().AddExperience(context.Background(), user.ID, second); err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}

	p, err := db.Profiles().GetByOwner(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByOwner() error = %v", err)
	}

	if len(p.Experience) != 2 {
		t.Fatalf("Experience has %d entries, want 2", len(p.Experience))
	}
	if p.Experience[0].Title != "Senior" || p.Experience[1].Title != "Junior" {
		t.Errorf("Experience order = [%s, %s], want newest first",
			p.Experience[0].Title, p.Experience[1].Title)
	}
}

func TestRemoveExperience_RestoresExactSequence(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")
	upsertTestProfile(t, db, user.ID)

	keep := &model.ExperienceEntry{Title: "Keep", Company: "Acme", From: "2018-01-01"}
	if err := db.Profiles().AddExperience(context.Background(), user.ID, keep); err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}

	before, _ := db.Profiles().GetByOwner(context.Background(), user.ID)

	temp := &model.ExperienceEntry{Title: "Temp", Company: "Temp Inc", From: "2022-01-01"}
	if err := db.Profiles().AddExperience(context.Background(), user.ID, temp); err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}
	if err := db.Profiles().RemoveExperience(context.Background(), user.ID, temp.ID); err != nil {
		t.Fatalf("RemoveExperience() error = %v", err)
	}

	after, _ := db.Profiles().GetByOwner(context.Background(), user.ID)
	if !reflect.DeepEqual(before.Experience, after.Experience) {
		t.Errorf("Experience after add+remove = %+v, want exactly %+v",
			after.Experience, before.Experience)
	}
}

func TestRemoveExperience_MissingEntry(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")
	upsertTestProfile(t, db, user.ID)

	err := db.Profiles().RemoveExperience(context.Background(), user.ID, "no-such-entry")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for missing entry id", err)
	}
}

func TestRemoveExperience_OtherOwnersEntry(t *testing.T) {
	db := newTestDB(t)
	u1 := createTestUser(t, db, "Jane", "jane@example.com")
	u2 := createTestUser(t, db, "John", "john@example.com")
	upsertTestProfile(t, db, u1.ID)
	upsertTestProfile(t, db, u2.ID)

	entry := &model.ExperienceEntry{Title: "Mine", Company: "Acme", From: "2020-01-01"}
	if err := db.Profiles().AddExperience(context.Background(), u1.ID, entry); err != nil {
		t.Fatalf("AddExperience() error = %v", err)
	}

	// u2 must not be able to remove u1's entry through their own profile.
	err := db.Profiles().RemoveExperience(context.Background(), u2.ID, entry.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for entry owned by someone else", err)
	}
}

func TestAddRemoveEducation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")
	upsertTestProfile(t, db, user.ID)

	entry := &model.EducationEntry{
		School:       "State University",
		Degree:       "BSc",
		FieldOfStudy: "CS",
		From:         "2014-09-01",
	}
	if err := db.Profiles().AddEducation(context.Background(), user.ID, entry); err != nil {
		t.Fatalf("AddEducation() error = %v", err)
	}
	if entry.ID == "" {
		t.Fatal("AddEducation() did not assign an entry ID")
	}

	if err := db.Profiles().RemoveEducation(context.Background(), user.ID, entry.ID); err != nil {
		t.Fatalf("RemoveEducation() error = %v", err)
	}

	p, _ := db.Profiles().GetByOwner(context.Background(), user.ID)
	if len(p.Education) != 0 {
		t.Errorf("Education has %d entries after removal, want 0", len(p.Education))
	}
}

// =========================================================================
// CASCADE TESTS
// =========================================================================

func TestUserDelete_CascadesProfileAndPosts(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Jane Doe", "jane@example.com")
	upsertTestProfile(t, db, user.ID)

	post := &model.Post{AuthorID: user.ID, AuthorName: user.Name, Text: "hello"}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("creating post: %v", err)
	}

	if err := db.Users().Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.Profiles().GetByOwner(context.Background(), user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("profile error = %v, want ErrNotFound after owner deletion", err)
	}

	posts, err := db.Posts().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("posts remaining after owner deletion = %d, want 0", len(posts))
	}
}

// A PRAGMA applied with a plain Exec configures only the one pooled
// connection that ran it. This test closes connections as soon as they go
// idle, so every statement lands on a freshly opened connection and the
// cascade only holds if foreign keys are on for all of them.
func TestUserDelete_CascadeSurvivesPoolChurn(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "churn.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	db.conn.SetMaxIdleConns(0)

	user := createTestUser(t, db, "Jane Doe", "jane@example.com")
	upsertTestProfile(t, db, user.ID)

	post := &model.Post{AuthorID: user.ID, AuthorName: user.Name, Text: "hello"}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("creating post: %v", err)
	}
	if err := db.Posts().AddLike(context.Background(), post.ID, user.ID); err != nil {
		t.Fatalf("AddLike() error = %v", err)
	}

	if err := db.Users().Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var orphans int
	err = db.conn.QueryRow(`SELECT
		(SELECT COUNT(*) FROM profiles) +
		(SELECT COUNT(*) FROM posts) +
		(SELECT COUNT(*) FROM post_likes)`).Scan(&orphans)
	if err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if orphans != 0 {
		t.Errorf("%d orphaned rows left after user delete, want 0", orphans)
	}
}
