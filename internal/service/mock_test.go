package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/arif/devnetwork/internal/apperror"
	"github.com/arif/devnetwork/internal/auth"
	"github.com/arif/devnetwork/internal/model"
)

// Hand-written in-memory fakes for the repository interfaces. A fake (not
// a mock framework) keeps these tests dependency-free and easy to read.

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
	// set to a non-nil error to simulate a database failure
	createErr     error
	getByIDErr    error
	getByEmailErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return &apperror.AppError{
				Err:     apperror.ErrConflict,
				Message: "User already exists",
				Field:   "email",
			}
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	for _, u := range f.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFoundMsg("user not found")
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	return nil
}

// addUser seeds a user directly, bypassing Create's conflict check.
func (f *fakeUserRepo) addUser(id, name, email string) *model.User {
	u := &model.User{ID: id, Name: name, Email: email, AvatarURL: "//avatar/" + id}
	f.users[id] = u
	return u
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile // keyed by owner ID
	users    *fakeUserRepo             // for display-field joins
	nextSeq  int
}

func newFakeProfileRepo(users *fakeUserRepo) *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile), users: users}
}

func strOrKeep(p *string, keep string) string {
	if p != nil {
		return *p
	}
	return keep
}

func (f *fakeProfileRepo) Upsert(_ context.Context, ownerID string, upd *model.ProfileUpdate) (*model.Profile, error) {
	prof, ok := f.profiles[ownerID]
	if !ok {
		prof = &model.Profile{OwnerID: ownerID}
		f.profiles[ownerID] = prof
	}
	prof.Status = upd.Status
	prof.Skills = append([]string(nil), upd.Skills...)
	prof.Company = strOrKeep(upd.Company, prof.Company)
	prof.Website = strOrKeep(upd.Website, prof.Website)
	prof.Location = strOrKeep(upd.Location, prof.Location)
	prof.Bio = strOrKeep(upd.Bio, prof.Bio)
	prof.GithubUsername = strOrKeep(upd.GithubUsername, prof.GithubUsername)
	prof.Social.Youtube = strOrKeep(upd.Youtube, prof.Social.Youtube)
	prof.Social.Twitter = strOrKeep(upd.Twitter, prof.Social.Twitter)
	prof.Social.Facebook = strOrKeep(upd.Facebook, prof.Social.Facebook)
	prof.Social.Instagram = strOrKeep(upd.Instagram, prof.Social.Instagram)
	prof.Social.Linkedin = strOrKeep(upd.Linkedin, prof.Social.Linkedin)
	result := *prof
	return &result, nil
}

func (f *fakeProfileRepo) GetByOwner(_ context.Context, ownerID string) (*model.Profile, error) {
	prof, ok := f.profiles[ownerID]
	if !ok {
		return nil, apperror.NotFoundMsg("No profile found")
	}
	result := *prof
	result.Experience = append([]model.ExperienceEntry(nil), prof.Experience...)
	result.Education = append([]model.EducationEntry(nil), prof.Education...)
	return &result, nil
}

func (f *fakeProfileRepo) ListAll(_ context.Context) ([]model.Profile, error) {
	result := make([]model.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakeProfileRepo) AddExperience(_ context.Context, ownerID string, entry *model.ExperienceEntry) error {
	prof, ok := f.profiles[ownerID]
	if !ok {
		return apperror.NotFoundMsg("No profile found")
	}
	f.nextSeq++
	entry.ID = fmt.Sprintf("exp-%d", f.nextSeq)
	prof.Experience = append([]model.ExperienceEntry{*entry}, prof.Experience...)
	return nil
}

func (f *fakeProfileRepo) RemoveExperience(_ context.Context, ownerID, entryID string) error {
	prof, ok := f.profiles[ownerID]
	if !ok {
		return apperror.NotFoundMsg("No profile found")
	}
	for i, e := range prof.Experience {
		if e.ID == entryID {
			prof.Experience = append(prof.Experience[:i], prof.Experience[i+1:]...)
			return nil
		}
	}
	return apperror.NotFoundMsg("Experience entry not in profile")
}

func (f *fakeProfileRepo) AddEducation(_ context.Context, ownerID string, entry *model.EducationEntry) error {
	prof, ok := f.profiles[ownerID]
	if !ok {
		return apperror.NotFoundMsg("No profile found")
	}
	f.nextSeq++
	entry.ID = fmt.Sprintf("edu-%d", f.nextSeq)
	prof.Education = append([]model.EducationEntry{*entry}, prof.Education...)
	return nil
}

func (f *fakeProfileRepo) RemoveEducation(_ context.Context, ownerID, entryID string) error {
	prof, ok := f.profiles[ownerID]
	if !ok {
		return apperror.NotFoundMsg("No profile found")
	}
	for i, e := range prof.Education {
		if e.ID == entryID {
			prof.Education = append(prof.Education[:i], prof.Education[i+1:]...)
			return nil
		}
	}
	return apperror.NotFoundMsg("Education entry not in profile")
}

type fakePostRepo struct {
	posts  map[string]*model.Post
	order  []string // creation order, oldest first
	nextID int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post)}
}

func (f *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	post.Date = time.Now()
	post.Likes = []string{}
	post.Comments = []model.Comment{}
	copied := *post
	f.posts[post.ID] = &copied
	f.order = append(f.order, post.ID)
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFoundMsg("Post not found")
	}
	result := *p
	result.Likes = append([]string{}, p.Likes...)
	result.Comments = append([]model.Comment{}, p.Comments...)
	return &result, nil
}

func (f *fakePostRepo) List(_ context.Context) ([]model.Post, error) {
	result := make([]model.Post, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		result = append(result, *f.posts[f.order[i]])
	}
	return result, nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return apperror.NotFoundMsg("Post not found")
	}
	delete(f.posts, id)
	for i, pid := range f.order {
		if pid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakePostRepo) AddLike(_ context.Context, postID, userID string) error {
	p, ok := f.posts[postID]
	if !ok {
		return apperror.NotFoundMsg("Post not found")
	}
	for _, id := range p.Likes {
		if id == userID {
			return apperror.Conflict("Post already liked")
		}
	}
	p.Likes = append([]string{userID}, p.Likes...)
	return nil
}

func (f *fakePostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	p, ok := f.posts[postID]
	if !ok {
		return apperror.NotFoundMsg("Post not found")
	}
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return apperror.Conflict("Post has not yet been liked")
}

func (f *fakePostRepo) AddComment(_ context.Context, postID string, comment *model.Comment) error {
	p, ok := f.posts[postID]
	if !ok {
		return apperror.NotFoundMsg("Post not found")
	}
	f.nextID++
	comment.ID = fmt.Sprintf("comment-%d", f.nextID)
	comment.Date = time.Now()
	p.Comments = append([]model.Comment{*comment}, p.Comments...)
	return nil
}

func (f *fakePostRepo) RemoveComment(_ context.Context, postID, commentID string) error {
	p, ok := f.posts[postID]
	if !ok {
		return apperror.NotFoundMsg("Post not found")
	}
	for i, c := range p.Comments {
		if c.ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return apperror.NotFoundMsg("Comment not found")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return tokens
}
