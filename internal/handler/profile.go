package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arif/devnetwork/internal/auth"
	"github.com/arif/devnetwork/internal/model"
	"github.com/arif/devnetwork/internal/service"
)

// ProfileHandler serves profile CRUD plus the experience and education
// sub-resources.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

type upsertProfileRequest struct {
	Status         string  `json:"status" validate:"required"`
	Skills         string  `json:"skills" validate:"required"`
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Instagram      *string `json:"instagram"`
	Linkedin       *string `json:"linkedin"`
}

type profileListResponse struct {
	Profiles []model.Profile `json:"profiles"`
}

type profileResponse struct {
	Profile *model.Profile `json:"profile"`
}

// HandleList returns every profile.
//
// HTTP: GET /api/v1/profiles
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	writeJSON(w, h.logger, http.StatusOK, profileListResponse{Profiles: profiles})
}

// HandleGetByUser returns one user's profile.
//
// HTTP: GET /api/v1/profiles/user/{userID}
func (h *ProfileHandler) HandleGetByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, err := h.profiles.GetByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profileResponse{Profile: profile})
}

// HandleGetMine returns the caller's own profile.
//
// HTTP: GET /api/v1/profiles/me (token required)
func (h *ProfileHandler) HandleGetMine(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	profile, err := h.profiles.GetByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// HandleUpsert creates or updates the caller's profile.
//
// HTTP: POST /api/v1/profiles (token required)
func (h *ProfileHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req upsertProfileRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if !validateRequest(w, h.logger, &req, map[string]string{
		"status": "Status is required",
		"skills": "Skills is required",
	}) {
		return
	}

	profile, err := h.profiles.Upsert(r.Context(), userID, service.UpsertInput{
		Status:         req.Status,
		Skills:         req.Skills,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Instagram:      req.Instagram,
		Linkedin:       req.Linkedin,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// HandleDeleteAccount removes the caller's account, profile and posts.
//
// HTTP: DELETE /api/v1/profiles (token required)
//
// Responds 201 with a msg body; that is the contract existing clients
// expect for this endpoint.
func (h *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.profiles.DeleteOwner(r.Context(), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, msgResponse{Msg: "User Deleted"})
}

type experienceRequest struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// HandleAddExperience prepends a work-history entry and returns the
// updated profile.
//
// HTTP: PUT /api/v1/profiles/experience (token required)
func (h *ProfileHandler) HandleAddExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req experienceRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if !validateRequest(w, h.logger, &req, map[string]string{
		"title":   "Title is required",
		"company": "Company is required",
		"from":    "From date is required",
	}) {
		return
	}

	profile, err := h.profiles.AddExperience(r.Context(), userID, model.ExperienceEntry{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// HandleRemoveExperience deletes one entry by id and returns the updated
// profile.
//
// HTTP: DELETE /api/v1/profiles/experience/{entryID} (token required)
func (h *ProfileHandler) HandleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	entryID := chi.URLParam(r, "entryID")

	profile, err := h.profiles.RemoveExperience(r.Context(), userID, entryID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

type educationRequest struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// HandleAddEducation prepends an education entry and returns the updated
// profile.
//
// HTTP: PUT /api/v1/profiles/education (token required)
func (h *ProfileHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req educationRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if !validateRequest(w, h.logger, &req, map[string]string{
		"school":       "School is required",
		"degree":       "Degree is required",
		"fieldofstudy": "Field of study is required",
		"from":         "From date is required",
	}) {
		return
	}

	profile, err := h.profiles.AddEducation(r.Context(), userID, model.EducationEntry{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// HandleRemoveEducation deletes one entry by id and returns the updated
// profile.
//
// HTTP: DELETE /api/v1/profiles/education/{entryID} (token required)
func (h *ProfileHandler) HandleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	entryID := chi.URLParam(r, "entryID")

	profile, err := h.profiles.RemoveEducation(r.Context(), userID, entryID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}
