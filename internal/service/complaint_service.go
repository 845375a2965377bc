package service

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/repository"
)

// Default page sizes per listing.
const (
	PublicPageSize = 100
	OwnPageSize    = 50
	AdminPageSize  = 100
)

type ComplaintService struct {
	complaints ComplaintStore
	uploads    *UploadService
	log        zerolog.Logger
}

func NewComplaintService(complaints ComplaintStore, uploads *UploadService, log zerolog.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		uploads:    uploads,
		log:        log,
	}
}

// CreateComplaintInput takes coordinates as submitted, since multipart
// forms carry them as text.
type CreateComplaintInput struct {
	OwnerID     int64
	Name        string
	Description string
	Address     string
	Latitude    string
	Longitude   string
	Photo       *multipart.FileHeader
}

func (s *ComplaintService) Create(ctx context.Context, input CreateComplaintInput) (models.Complaint, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	rawLat := strings.TrimSpace(input.Latitude)
	rawLng := strings.TrimSpace(input.Longitude)
	if name == "" || description == "" || rawLat == "" || rawLng == "" {
		return models.Complaint{}, apperr.Validation("name, description and coordinates are required")
	}

	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lng, errLng := strconv.ParseFloat(rawLng, 64)
	if errLat != nil || errLng != nil {
		return models.Complaint{}, apperr.Validation("invalid coordinates")
	}
	if err := s.complaints.CheckCoordinates(lat, lng); err != nil {
		return models.Complaint{}, err
	}

	complaint := models.Complaint{
		UserID:      input.OwnerID,
		Name:        name,
		Latitude:    lat,
		Longitude:   lng,
		Description: description,
		Status:      models.ComplaintStatusPending,
	}
	if address := strings.TrimSpace(input.Address); address != "" {
		complaint.Address = &address
	}

	if input.Photo != nil {
		photo, err := s.uploads.Accept(ctx, s.uploads.ComplaintPhoto(), input.Photo)
		if err != nil {
			return models.Complaint{}, err
		}
		complaint.PhotoURL = &photo.URL
	}

	created, err := s.complaints.Create(ctx, complaint)
	if err != nil {
		s.uploads.discardPtr(ctx, complaint.PhotoURL)
		return models.Complaint{}, err
	}

	s.log.Info().Int64("complaint_id", created.ID).Int64("user_id", created.UserID).Msg("complaint created")
	return created, nil
}

func (s *ComplaintService) List(ctx context.Context, filter models.ComplaintFilter, page models.Page) (models.ComplaintPage, error) {
	return s.complaints.List(ctx, filter, page)
}

func (s *ComplaintService) Get(ctx context.Context, id int64) (models.ComplaintView, error) {
	return s.complaints.GetByID(ctx, id)
}

// UpdateComplaintInput mirrors the editable fields. Name and description
// are applied only when non-blank; a non-nil Address is always applied and
// an empty one clears it.
type UpdateComplaintInput struct {
	Name        *string
	Description *string
	Address     *string
	Photo       *multipart.FileHeader
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *ComplaintService) Update(ctx context.Context, id int64, input UpdateComplaintInput) (models.Complaint, error) {
	changes := models.ComplaintChanges{
		Name:        nonBlank(input.Name),
		Description: nonBlank(input.Description),
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		changes.Address = &address
	}
	if changes.Empty() && input.Photo == nil {
		return models.Complaint{}, repository.ErrNoFieldsProvided
	}

	var previous *string
	if input.Photo != nil {
		existing, err := s.complaints.GetByID(ctx, id)
		if err != nil {
			return models.Complaint{}, err
		}
		previous = existing.PhotoURL

		photo, err := s.uploads.Accept(ctx, s.uploads.ComplaintPhoto(), input.Photo)
		if err != nil {
			return models.Complaint{}, err
		}
		changes.PhotoURL = &photo.URL
	}

	updated, err := s.complaints.Update(ctx, id, changes)
	if err != nil {
		s.uploads.discardPtr(ctx, changes.PhotoURL)
		return models.Complaint{}, err
	}

	if previous != nil && changes.PhotoURL != nil && *previous != *changes.PhotoURL {
		s.uploads.Discard(ctx, *previous)
	}
	return updated, nil
}

// Delete removes the complaint and then its photo.
func (s *ComplaintService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.complaints.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.uploads.discardPtr(ctx, deleted.PhotoURL)

	s.log.Info().Int64("complaint_id", id).Msg("complaint deleted")
	return nil
}

// SetStatus is the administrative status change. Transitions are not
// ordered: any known status may replace any other.
func (s *ComplaintService) SetStatus(ctx context.Context, actor models.User, id int64, raw string) (models.Complaint, error) {
	status, err := repository.ValidStatus(raw)
	if err != nil {
		return models.Complaint{}, err
	}

	updated, err := s.complaints.SetStatus(ctx, id, status)
	if err != nil {
		return models.Complaint{}, err
	}

	s.log.Info().
		Int64("complaint_id", id).
		Str("status", string(status)).
		Str("admin", actor.Email).
		Msg("complaint status changed")
	return updated, nil
}
