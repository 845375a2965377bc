package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alikh-collab/TAZA-back/internal/apperr"
	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/repository"
	"github.com/Alikh-collab/TAZA-back/internal/security"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthService struct {
	users       UserStore
	tokens      *security.TokenIssuer
	hasher      *security.PasswordHasher
	uploads     *UploadService
	minPassword int
	log         zerolog.Logger
}

func NewAuthService(
	users UserStore,
	tokens *security.TokenIssuer,
	hasher *security.PasswordHasher,
	uploads *UploadService,
	minPassword int,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		hasher:      hasher,
		uploads:     uploads,
		minPassword: minPassword,
		log:         log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Avatar   *multipart.FileHeader
}

type AuthResult struct {
	Token string
	User  models.User
}

func (s *AuthService) validatePassword(password string) error {
	if len([]rune(password)) < s.minPassword {
		return apperr.Validation(fmt.Sprintf("password must be at least %d characters", s.minPassword))
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return AuthResult{}, apperr.Validation("name, email and password are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return AuthResult{}, apperr.Validation("invalid email format")
	}
	if err := s.validatePassword(input.Password); err != nil {
		return AuthResult{}, err
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, repository.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         models.UserRoleUser,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}

	if input.Avatar != nil {
		avatar, err := s.uploads.Accept(ctx, s.uploads.Avatar(), input.Avatar)
		if err != nil {
			return AuthResult{}, err
		}
		user.AvatarURL = &avatar.URL
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.uploads.discardPtr(ctx, user.AvatarURL)
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(created.ID, created.Email, created.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return AuthResult{Token: token, User: created}, nil
}

// Login answers ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, apperr.Validation("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("stored password hash unreadable")
		return AuthResult{}, ErrInvalidCredentials
	}
	if !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	user.PasswordHash = nil
	return AuthResult{Token: token, User: user}, nil
}

// ProfileInput carries the optional profile fields. Name is applied only
// when non-blank; a non-nil Phone is applied even when empty.
type ProfileInput struct {
	Name   *string
	Phone  *string
	Avatar *multipart.FileHeader
}

func (s *AuthService) UpdateProfile(ctx context.Context, current models.User, input ProfileInput) (models.User, error) {
	var changes models.ProfileChanges
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			changes.Name = &name
		}
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		changes.Phone = &phone
	}
	if changes.Empty() && input.Avatar == nil {
		return models.User{}, repository.ErrNoFieldsProvided
	}

	if input.Avatar != nil {
		avatar, err := s.uploads.Accept(ctx, s.uploads.Avatar(), input.Avatar)
		if err != nil {
			return models.User{}, err
		}
		changes.AvatarURL = &avatar.URL
	}

	updated, err := s.users.UpdateProfile(ctx, current.ID, changes)
	if err != nil {
		s.uploads.discardPtr(ctx, changes.AvatarURL)
		return models.User{}, err
	}

	if changes.AvatarURL != nil && current.AvatarURL != nil && *current.AvatarURL != *changes.AvatarURL {
		s.uploads.Discard(ctx, *current.AvatarURL)
	}
	return updated, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperr.Validation("current and new password are required")
	}
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetWithPassword(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}
