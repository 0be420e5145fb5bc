package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/arif/devnetwork/internal/apperror"
	"github.com/arif/devnetwork/internal/model"
	"github.com/arif/devnetwork/internal/repository"
)

// ProfileService handles profile mutation and lookup rules.
type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		logger:   logger,
	}
}

// UpsertInput carries the fields of a profile upsert. Skills is the raw
// comma-delimited string as submitted; pointer fields are nil when the
// request omitted them, which means "leave the stored value alone".
type UpsertInput struct {
	Status         string
	Skills         string
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

// Upsert creates or updates the caller's profile.
//
// Status and skills are mandatory on every call; missing ones are reported
// together so the client can show all field errors at once. The actual
// update-or-insert is a single atomic store operation keyed on the owner —
// two concurrent upserts can never yield two profiles.
func (s *ProfileService) Upsert(ctx context.Context, ownerID string, in UpsertInput) (*model.Profile, error) {
	if strings.TrimSpace(in.Status) == "" {
		return nil, apperror.ValidationFailed("status", "Status is required")
	}
	if strings.TrimSpace(in.Skills) == "" {
		return nil, apperror.ValidationFailed("skills", "Skills is required")
	}

	upd := &model.ProfileUpdate{
		Status:         in.Status,
		Skills:         SplitSkills(in.Skills),
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		GithubUsername: in.GithubUsername,
		Youtube:        in.Youtube,
		Twitter:        in.Twitter,
		Facebook:       in.Facebook,
		Instagram:      in.Instagram,
		Linkedin:       in.Linkedin,
	}

	profile, err := s.profiles.Upsert(ctx, ownerID, upd)
	if err != nil {
		s.logger.Error("failed to upsert profile",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("profile upserted", slog.String("ownerID", ownerID))
	return profile, nil
}

// SplitSkills turns a comma-delimited skills string into an ordered slice,
// trimming each segment. Empty segments are preserved: "a,,b" becomes
// ["a","","b"]. That is the split behavior clients have always seen, and
// it is pinned by tests — filtering empties would be a (deliberate) API
// change.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, len(parts))
	for i, p := range parts {
		skills[i] = strings.TrimSpace(p)
	}
	return skills
}

// GetByOwner returns the owner's profile. A fresh account with no profile
// yet is a normal NotFound, not a server failure.
func (s *ProfileService) GetByOwner(ctx context.Context, ownerID string) (*model.Profile, error) {
	return s.profiles.GetByOwner(ctx, ownerID)
}

// ListAll returns every profile with owner display fields populated.
func (s *ProfileService) ListAll(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profiles.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list profiles", slog.String("error", err.Error()))
		return nil, err
	}
	return profiles, nil
}

// DeleteOwner removes the account entirely: the user record, their profile
// and all their posts (the store cascades the latter two off the user row).
// The original API left a user's posts orphaned after account deletion;
// here they go with the account.
func (s *ProfileService) DeleteOwner(ctx context.Context, ownerID string) error {
	if err := s.users.Delete(ctx, ownerID); err != nil {
		return err
	}

	s.logger.Info("account deleted", slog.String("ownerID", ownerID))
	return nil
}

// AddExperience validates and prepends a work-history entry, returning the
// updated profile.
func (s *ProfileService) AddExperience(ctx context.Context, ownerID string, entry model.ExperienceEntry) (*model.Profile, error) {
	if strings.TrimSpace(entry.Title) == "" {
		return nil, apperror.ValidationFailed("title", "Title is required")
	}
	if strings.TrimSpace(entry.Company) == "" {
		return nil, apperror.ValidationFailed("company", "Company is required")
	}
	if strings.TrimSpace(entry.From) == "" {
		return nil, apperror.ValidationFailed("from", "From date is required")
	}

	if err := s.profiles.AddExperience(ctx, ownerID, &entry); err != nil {
		return nil, err
	}

	s.logger.Info("experience added",
		slog.String("ownerID", ownerID),
		slog.String("entryID", entry.ID),
	)
	return s.profiles.GetByOwner(ctx, ownerID)
}

// RemoveExperience deletes an entry by its generated id. An unknown id is
// NotFound — never a silent no-op or a removal of some other entry.
func (s *ProfileService) RemoveExperience(ctx context.Context, ownerID, entryID string) (*model.Profile, error) {
	if err := s.profiles.RemoveExperience(ctx, ownerID, entryID); err != nil {
		return nil, err
	}

	s.logger.Info("experience removed",
		slog.String("ownerID", ownerID),
		slog.String("entryID", entryID),
	)
	return s.profiles.GetByOwner(ctx, ownerID)
}

// AddEducation mirrors AddExperience with the education required fields.
func (s *ProfileService) AddEducation(ctx context.Context, ownerID string, entry model.EducationEntry) (*model.Profile, error) {
	if strings.TrimSpace(entry.School) == "" {
		return nil, apperror.ValidationFailed("school", "School is required")
	}
	if strings.TrimSpace(entry.Degree) == "" {
		return nil, apperror.ValidationFailed("degree", "Degree is required")
	}
	if strings.TrimSpace(entry.FieldOfStudy) == "" {
		return nil, apperror.ValidationFailed("fieldofstudy", "Field of Study is required")
	}
	if strings.TrimSpace(entry.From) == "" {
		return nil, apperror.ValidationFailed("from", "From date is required")
	}

	if err := s.profiles.AddEducation(ctx, ownerID, &entry); err != nil {
		return nil, err
	}

	s.logger.Info("education added",
		slog.String("ownerID", ownerID),
		slog.String("entryID", entry.ID),
	)
	return s.profiles.GetByOwner(ctx, ownerID)
}

// RemoveEducation mirrors RemoveExperience.
func (s *ProfileService) RemoveEducation(ctx context.Context, ownerID, entryID string) (*model.Profile, error) {
	if err := s.profiles.RemoveEducation(ctx, ownerID, entryID); err != nil {
		return nil, err
	}

	s.logger.Info("education removed",
		slog.String("ownerID", ownerID),
		slog.String("entryID", entryID),
	)
	return s.profiles.GetByOwner(ctx, ownerID)
}
