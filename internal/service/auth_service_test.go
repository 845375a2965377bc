package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/config"
	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/repository"
	"github.com/Alikh-collab/TAZA-back/internal/security"
)

type authFixture struct {
	users   *mockUserStore
	store   *memStore
	tokens  *security.TokenIssuer
	hasher  *security.PasswordHasher
	service *AuthService
}

func newAuthFixture() authFixture {
	users := new(mockUserStore)
	store := newMemStore()
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	hasher := security.NewPasswordHasher(security.SchemeBcrypt, 4)
	uploads := NewUploadService(store, config.UploadConfig{
		AvatarMaxBytes:    1 << 10,
		ComplaintMaxBytes: 1 << 10,
		GenericMaxBytes:   1 << 10,
		MaxFiles:          5,
	}, zerolog.Nop())

	return authFixture{
		users:   users,
		store:   store,
		tokens:  tokens,
		hasher:  hasher,
		service: NewAuthService(users, tokens, hasher, uploads, 6, zerolog.Nop()),
	}
}

func TestAuthService_RegisterLowercasesAndIssuesToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.users.On("FindByEmail", ctx, "alice@x.com").Return(models.User{}, repository.ErrUserNotFound)
	f.users.On("Create", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "alice@x.com" && u.Name == "Alice" && u.Role == models.UserRoleUser && len(u.PasswordHash) > 0
	})).Return(models.User{ID: 7, Name: "Alice", Email: "alice@x.com", Role: models.UserRoleUser}, nil)

	result, err := f.service.Register(ctx, RegisterInput{Name: " Alice ", Email: "Alice@X.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.User.ID)

	claims, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, models.UserRoleUser, claims.Role)
	f.users.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.users.On("FindByEmail", ctx, "a@x.com").Return(models.User{ID: 1}, nil)

	_, err := f.service.Register(ctx, RegisterInput{Name: "A", Email: "A@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterRaceDiscardsAvatar(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	f.users.On("FindByEmail", ctx, "a@x.com").Return(models.User{}, repository.ErrUserNotFound)
	f.users.On("Create", ctx, mock.Anything).Return(models.User{}, repository.ErrDuplicateEmail)

	_, err := f.service.Register(ctx, RegisterInput{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		Avatar:   fileHeader(t, "me.png", "image/png", pngBytes),
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Empty(t, f.store.files)
	assert.Len(t, f.store.deleted, 1)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing name":   {Email: "a@x.com", Password: "secret1"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "secret1"},
		"short password": {Name: "A", Email: "a@x.com", Password: "12345"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Register(ctx, input)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
	f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	hash, err := f.hasher.Hash("secret1")
	require.NoError(t, err)
	stored := models.User{ID: 3, Email: "a@x.com", PasswordHash: hash, Role: models.UserRoleAdmin}

	f.users.On("FindByEmail", ctx, "a@x.com").Return(stored, nil)
	f.users.On("FindByEmail", ctx, "ghost@x.com").Return(models.User{}, repository.ErrUserNotFound)

	result, err := f.service.Login(ctx, "A@x.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.User.ID)
	assert.Nil(t, result.User.PasswordHash)

	_, err = f.service.Login(ctx, "a@x.com", "wrong-one")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login(ctx, "ghost@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	hash, err := f.hasher.Hash("secret1")
	require.NoError(t, err)
	f.users.On("GetWithPassword", ctx, int64(3)).Return(models.User{ID: 3, PasswordHash: hash}, nil)
	f.users.On("UpdatePassword", ctx, int64(3), mock.Anything).Return(nil)

	err = f.service.ChangePassword(ctx, 3, "nope-nope", "another1")
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = f.service.ChangePassword(ctx, 3, "secret1", "abc")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	require.NoError(t, f.service.ChangePassword(ctx, 3, "secret1", "another1"))
	f.users.AssertNumberOfCalls(t, "UpdatePassword", 1)
}

func TestAuthService_UpdateProfileReplacesAvatar(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	old := "/uploads/avatars/old.png"
	f.store.files[old] = pngBytes
	current := models.User{ID: 3, AvatarURL: &old}

	f.users.On("UpdateProfile", ctx, int64(3), mock.MatchedBy(func(c models.ProfileChanges) bool {
		return c.AvatarURL != nil && c.Name == nil && c.Phone != nil && *c.Phone == ""
	})).Return(models.User{ID: 3}, nil)

	empty := ""
	_, err := f.service.UpdateProfile(ctx, current, ProfileInput{
		Phone:  &empty,
		Avatar: fileHeader(t, "new.png", "image/png", pngBytes),
	})
	require.NoError(t, err)
	assert.False(t, f.store.has(old))
	assert.Len(t, f.store.files, 1)
}

func TestAuthService_UpdateProfileNothingToChange(t *testing.T) {
	f := newAuthFixture()
	blank := "   "

	_, err := f.service.UpdateProfile(context.Background(), models.User{ID: 3}, ProfileInput{Name: &blank})
	assert.ErrorIs(t, err, repository.ErrNoFieldsProvided)
}
