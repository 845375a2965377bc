package repository

import "github.com/Alikh-collab/TAZA-back/internal/apperr"

var (
	ErrUserNotFound      = apperr.New(apperr.KindNotFound, "user_not_found", "user not found")
	ErrDuplicateEmail    = apperr.New(apperr.KindConflict, "duplicate_email", "a user with this email already exists")
	ErrInvalidRole       = apperr.New(apperr.KindValidation, "invalid_role", "role must be one of: user, admin")
	ErrComplaintNotFound = apperr.New(apperr.KindNotFound, "complaint_not_found", "complaint not found")
	ErrInvalidStatus     = apperr.New(apperr.KindValidation, "invalid_status", "status must be one of: pending, in_progress, resolved")
	ErrOutOfBounds       = apperr.New(apperr.KindValidation, "coordinates_out_of_bounds", "coordinates are outside the supported region")
	ErrNoFieldsProvided  = apperr.New(apperr.KindValidation, "no_fields", "no data to update")
)

type scanner interface {
	Scan(dest ...any) error
}
