package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/repository"
)

func TestAdminService_Dashboard(t *testing.T) {
	users := new(mockUserStore)
	complaints := &mockComplaintStore{region: testRegion}
	svc := NewAdminService(users, complaints, zerolog.Nop())
	ctx := context.Background()

	complaints.On("Counts", ctx, int64(0)).Return(models.StatusCounts{Total: 5, Pending: 2}, nil)
	users.On("Counts", ctx).Return(models.UserCounts{Total: 3, Admins: 1}, nil)
	complaints.On("Daily", ctx, 7).Return([]models.DailyCount{{Count: 2}}, nil)
	complaints.On("TopRegions", ctx, 10).Return([]models.RegionCount{{Address: "Almaty", Count: 3}}, nil)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), dash.Complaints.Total)
	assert.Equal(t, int64(1), dash.Users.Admins)
	assert.Len(t, dash.Daily, 1)
	assert.Equal(t, "Almaty", dash.TopRegions[0].Address)
}

func TestAdminService_DashboardStopsOnError(t *testing.T) {
	users := new(mockUserStore)
	complaints := &mockComplaintStore{region: testRegion}
	svc := NewAdminService(users, complaints, zerolog.Nop())
	ctx := context.Background()

	complaints.On("Counts", ctx, int64(0)).Return(models.StatusCounts{}, errors.New("connection reset"))

	_, err := svc.Dashboard(ctx)
	assert.Error(t, err)
	users.AssertNotCalled(t, "Counts", mock.Anything)
}

func TestAdminService_SetUserRole(t *testing.T) {
	users := new(mockUserStore)
	svc := NewAdminService(users, &mockComplaintStore{}, zerolog.Nop())
	ctx := context.Background()
	admin := models.User{ID: 1, Email: "admin@tazasu.kz", Role: models.UserRoleAdmin}

	_, err := svc.SetUserRole(ctx, admin, 1, "user")
	assert.ErrorIs(t, err, ErrSelfRoleChange)

	_, err = svc.SetUserRole(ctx, admin, 2, "superuser")
	assert.ErrorIs(t, err, repository.ErrInvalidRole)

	users.On("SetRole", ctx, int64(2), models.UserRoleAdmin).Return(models.User{ID: 2, Role: models.UserRoleAdmin}, nil)
	updated, err := svc.SetUserRole(ctx, admin, 2, "admin")
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())
	users.AssertNumberOfCalls(t, "SetRole", 1)
}
