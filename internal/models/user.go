package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User is an account. PasswordHash is only populated by lookups that need
// it (login, change password); every other read leaves it empty.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	Phone        *string
	AvatarURL    *string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// ProfileChanges lists the profile fields to overwrite. A nil field is left
// untouched; a Phone pointing at "" clears the phone.
type ProfileChanges struct {
	Name      *string
	Phone     *string
	AvatarURL *string
}

func (c ProfileChanges) Empty() bool {
	return c.Name == nil && c.Phone == nil && c.AvatarURL == nil
}

type UserSummary struct {
	User
	ComplaintsCount int64
}

type UserPage struct {
	Items []UserSummary
	Total int64
}

type UserCounts struct {
	Total        int64
	Admins       int64
	NewThisWeek  int64
	NewThisMonth int64
}
