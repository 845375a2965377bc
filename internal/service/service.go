// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"context"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/models"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.KindAuth, "invalid_credentials", "invalid email or password")
	ErrWrongPassword      = apperr.New(apperr.KindValidation, "wrong_password", "current password is incorrect")
	ErrSelfRoleChange     = apperr.New(apperr.KindForbidden, "self_role_change", "admins cannot change their own role")

	ErrUnsupportedType = apperr.New(apperr.KindPayload, "unsupported_type", "only JPEG, PNG and GIF images are allowed")
	ErrTooLarge        = apperr.New(apperr.KindPayload, "file_too_large", "file exceeds the size limit")
	ErrTooManyFiles    = apperr.New(apperr.KindPayload, "too_many_files", "too many files in one request")
	ErrFileRequired    = apperr.New(apperr.KindValidation, "file_required", "no file uploaded")
)

// UserStore is the credential store the services depend on.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetWithPassword(ctx context.Context, id int64) (models.User, error)
	UpdateProfile(ctx context.Context, id int64, changes models.ProfileChanges) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash []byte) error
	SetRole(ctx context.Context, id int64, role models.UserRole) (models.User, error)
	List(ctx context.Context, search string, page models.Page) (models.UserPage, error)
	Counts(ctx context.Context) (models.UserCounts, error)
}

type ComplaintStore interface {
	CheckCoordinates(lat, lng float64) error
	Create(ctx context.Context, c models.Complaint) (models.Complaint, error)
	List(ctx context.Context, filter models.ComplaintFilter, page models.Page) (models.ComplaintPage, error)
	Counts(ctx context.Context, ownerID int64) (models.StatusCounts, error)
	GetByID(ctx context.Context, id int64) (models.ComplaintView, error)
	Update(ctx context.Context, id int64, changes models.ComplaintChanges) (models.Complaint, error)
	SetStatus(ctx context.Context, id int64, status models.ComplaintStatus) (models.Complaint, error)
	Delete(ctx context.Context, id int64) (models.Complaint, error)
	Daily(ctx context.Context, days int) ([]models.DailyCount, error)
	TopRegions(ctx context.Context, limit int) ([]models.RegionCount, error)
}

// MaxPageSize caps every listing regardless of the requested limit.
const MaxPageSize = 500

// ClampPage applies def when no positive limit was requested and bounds
// the limit and offset to sane values.
func ClampPage(page models.Page, def int) models.Page {
	if page.Limit <= 0 {
		page.Limit = def
	}
	if page.Limit > MaxPageSize {
		page.Limit = MaxPageSize
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page
}
