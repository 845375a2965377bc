package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/repository"
)

var testRegion = models.BoundingBox{MinLat: 40, MaxLat: 56, MinLng: 46, MaxLng: 88}

func newComplaintFixture() (*mockComplaintStore, *memStore, *ComplaintService) {
	complaints := &mockComplaintStore{region: testRegion}
	store := newMemStore()
	return complaints, store, NewComplaintService(complaints, newTestUploads(store), zerolog.Nop())
}

func TestComplaintService_Create(t *testing.T) {
	complaints, store, svc := newComplaintFixture()
	ctx := context.Background()

	complaints.On("Create", ctx, mock.MatchedBy(func(c models.Complaint) bool {
		return c.UserID == 5 && c.Latitude == 43.0 && c.Longitude == 76.0 &&
			c.Status == models.ComplaintStatusPending && c.PhotoURL != nil && c.Address == nil
	})).Return(models.Complaint{ID: 11, Status: models.ComplaintStatusPending}, nil)

	created, err := svc.Create(ctx, CreateComplaintInput{
		OwnerID:     5,
		Name:        "Rusty water",
		Description: "Brown water from the tap",
		Latitude:    "43.0",
		Longitude:   "76.0",
		Photo:       fileHeader(t, "tap.png", "image/png", pngBytes),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Len(t, store.files, 1)
}

func TestComplaintService_CreateValidation(t *testing.T) {
	complaints, store, svc := newComplaintFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateComplaintInput{Name: "x", Latitude: "43", Longitude: "76"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, CreateComplaintInput{Name: "x", Description: "y", Latitude: "north", Longitude: "76"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, CreateComplaintInput{
		Name: "x", Description: "y", Latitude: "10", Longitude: "76",
		Photo: fileHeader(t, "tap.png", "image/png", pngBytes),
	})
	assert.ErrorIs(t, err, repository.ErrOutOfBounds)
	assert.Empty(t, store.files, "photo is not stored for rejected coordinates")

	complaints.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestComplaintService_UpdateReplacesPhoto(t *testing.T) {
	complaints, store, svc := newComplaintFixture()
	ctx := context.Background()

	old := "/uploads/complaints/old.png"
	store.files[old] = pngBytes
	complaints.On("GetByID", ctx, int64(4)).Return(models.ComplaintView{Complaint: models.Complaint{ID: 4, PhotoURL: &old}}, nil)
	complaints.On("Update", ctx, int64(4), mock.MatchedBy(func(c models.ComplaintChanges) bool {
		return c.PhotoURL != nil && c.Name == nil && c.Address != nil && *c.Address == ""
	})).Return(models.Complaint{ID: 4}, nil)

	blank, cleared := "  ", ""
	_, err := svc.Update(ctx, 4, UpdateComplaintInput{
		Name:    &blank,
		Address: &cleared,
		Photo:   fileHeader(t, "new.png", "image/png", pngBytes),
	})
	require.NoError(t, err)
	assert.False(t, store.has(old))
	assert.Len(t, store.files, 1)
}

func TestComplaintService_UpdateNothingToChange(t *testing.T) {
	complaints, _, svc := newComplaintFixture()
	blank := " "

	_, err := svc.Update(context.Background(), 4, UpdateComplaintInput{Name: &blank, Description: &blank})
	assert.ErrorIs(t, err, repository.ErrNoFieldsProvided)
	complaints.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestComplaintService_DeleteRemovesPhoto(t *testing.T) {
	complaints, store, svc := newComplaintFixture()
	ctx := context.Background()

	photo := "/uploads/complaints/p.png"
	store.files[photo] = pngBytes
	complaints.On("Delete", ctx, int64(9)).Return(models.Complaint{ID: 9, PhotoURL: &photo}, nil)
	complaints.On("Delete", ctx, int64(10)).Return(models.Complaint{}, repository.ErrComplaintNotFound)

	require.NoError(t, svc.Delete(ctx, 9))
	assert.False(t, store.has(photo))

	err := svc.Delete(ctx, 10)
	assert.True(t, apperr.IsNotFound(err))
}

func TestComplaintService_SetStatus(t *testing.T) {
	complaints, _, svc := newComplaintFixture()
	ctx := context.Background()
	admin := models.User{ID: 1, Email: "admin@tazasu.kz", Role: models.UserRoleAdmin}

	complaints.On("SetStatus", ctx, int64(2), models.ComplaintStatusResolved).
		Return(models.Complaint{ID: 2, Status: models.ComplaintStatusResolved}, nil)

	updated, err := svc.SetStatus(ctx, admin, 2, "resolved")
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusResolved, updated.Status)

	_, err = svc.SetStatus(ctx, admin, 2, "closed")
	assert.ErrorIs(t, err, repository.ErrInvalidStatus)
	complaints.AssertNumberOfCalls(t, "SetStatus", 1)
}
