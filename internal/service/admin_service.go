package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/repository"
)

const (
	dashboardDays    = 7
	dashboardRegions = 10

	UsersPageSize = 50
)

type AdminService struct {
	users      UserStore
	complaints ComplaintStore
	log        zerolog.Logger
}

func NewAdminService(users UserStore, complaints ComplaintStore, log zerolog.Logger) *AdminService {
	return &AdminService{
		users:      users,
		complaints: complaints,
		log:        log,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	var (
		dash models.Dashboard
		err  error
	)

	if dash.Complaints, err = s.complaints.Counts(ctx, 0); err != nil {
		return models.Dashboard{}, err
	}
	if dash.Users, err = s.users.Counts(ctx); err != nil {
		return models.Dashboard{}, err
	}
	if dash.Daily, err = s.complaints.Daily(ctx, dashboardDays); err != nil {
		return models.Dashboard{}, err
	}
	if dash.TopRegions, err = s.complaints.TopRegions(ctx, dashboardRegions); err != nil {
		return models.Dashboard{}, err
	}
	return dash, nil
}

func (s *AdminService) ListUsers(ctx context.Context, search string, page models.Page) (models.UserPage, error) {
	return s.users.List(ctx, strings.TrimSpace(search), page)
}

// SetUserRole changes another account's role. Admins may not change their
// own role, which also keeps at least one admin in place.
func (s *AdminService) SetUserRole(ctx context.Context, actor models.User, id int64, raw string) (models.User, error) {
	if actor.ID == id {
		return models.User{}, ErrSelfRoleChange
	}

	role := models.UserRole(strings.TrimSpace(raw))
	if !role.Valid() {
		return models.User{}, repository.ErrInvalidRole
	}

	updated, err := s.users.SetRole(ctx, id, role)
	if err != nil {
		return models.User{}, err
	}

	s.log.Info().
		Int64("user_id", id).
		Str("role", string(role)).
		Str("admin", actor.Email).
		Msg("user role changed")
	return updated, nil
}
