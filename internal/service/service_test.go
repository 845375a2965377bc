package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/repository"
	"github.com/Alikh-collab/TAZA-back/internal/storage"
)

var (
	pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 24)...)
	gifBytes = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 26)...)
)

// memStore is an in-memory storage.FileStore.
type memStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	deleted   []string
	failAfter int
	saves     int
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}, failAfter: -1}
}

func (m *memStore) Save(ctx context.Context, obj storage.Object) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAfter >= 0 && m.saves >= m.failAfter {
		return "", errors.New("disk full")
	}
	m.saves++

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + obj.Folder + "/" + obj.Name
	m.files[url] = data
	return url, nil
}

func (m *memStore) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, url)
	m.deleted = append(m.deleted, url)
	return nil
}

func (m *memStore) has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[url]
	return ok
}

// fileHeader builds a parsed multipart part the way gin hands it over.
func fileHeader(t *testing.T, filename, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) GetWithPassword(ctx context.Context, id int64) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, id int64, changes models.ProfileChanges) (models.User, error) {
	args := m.Called(ctx, id, changes)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id int64, hash []byte) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *mockUserStore) SetRole(ctx context.Context, id int64, role models.UserRole) (models.User, error) {
	args := m.Called(ctx, id, role)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) List(ctx context.Context, search string, page models.Page) (models.UserPage, error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).(models.UserPage), args.Error(1)
}

func (m *mockUserStore) Counts(ctx context.Context) (models.UserCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.UserCounts), args.Error(1)
}

type mockComplaintStore struct {
	mock.Mock
	region models.BoundingBox
}

func (m *mockComplaintStore) CheckCoordinates(lat, lng float64) error {
	if !m.region.Contains(lat, lng) {
		return repository.ErrOutOfBounds
	}
	return nil
}

func (m *mockComplaintStore) Create(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *mockComplaintStore) List(ctx context.Context, filter models.ComplaintFilter, page models.Page) (models.ComplaintPage, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(models.ComplaintPage), args.Error(1)
}

func (m *mockComplaintStore) Counts(ctx context.Context, ownerID int64) (models.StatusCounts, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(models.StatusCounts), args.Error(1)
}

func (m *mockComplaintStore) GetByID(ctx context.Context, id int64) (models.ComplaintView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.ComplaintView), args.Error(1)
}

func (m *mockComplaintStore) Update(ctx context.Context, id int64, changes models.ComplaintChanges) (models.Complaint, error) {
	args := m.Called(ctx, id, changes)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *mockComplaintStore) SetStatus(ctx context.Context, id int64, status models.ComplaintStatus) (models.Complaint, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *mockComplaintStore) Delete(ctx context.Context, id int64) (models.Complaint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *mockComplaintStore) Daily(ctx context.Context, days int) ([]models.DailyCount, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]models.DailyCount), args.Error(1)
}

func (m *mockComplaintStore) TopRegions(ctx context.Context, limit int) ([]models.RegionCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.RegionCount), args.Error(1)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, models.Page{Limit: 50, Offset: 0}, ClampPage(models.Page{}, 50))
	assert.Equal(t, models.Page{Limit: MaxPageSize, Offset: 10}, ClampPage(models.Page{Limit: 10000, Offset: 10}, 50))
	assert.Equal(t, models.Page{Limit: 5, Offset: 0}, ClampPage(models.Page{Limit: 5, Offset: -3}, 50))
}
