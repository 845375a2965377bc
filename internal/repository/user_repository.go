package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Alikh-collab/TAZA-back/internal/database"
	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/query"
)

const userColumns = `u.id, u.name, u.email, u.phone, u.avatar_url, u.role, u.created_at, u.updated_at`

type UserRepository struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row scanner, extra ...any) (models.User, error) {
	var user models.User
	dest := []any{
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return user, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a user. Emails are stored lower-cased and a clash with an
// existing address in any case yields ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if user.Role == "" {
		user.Role = models.UserRoleUser
	}
	if !user.Role.Valid() {
		return models.User{}, ErrInvalidRole
	}

	const q = `
		INSERT INTO users AS u (name, email, password, phone, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, q,
		user.Name,
		normalizeEmail(user.Email),
		string(user.PasswordHash),
		user.Phone,
		user.AvatarURL,
		user.Role,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByEmail returns the user including the password hash.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const q = `SELECT ` + userColumns + `, u.password FROM users u WHERE LOWER(u.email) = $1`

	var hash string
	user, err := scanUser(r.db.QueryRow(ctx, q, normalizeEmail(email)), &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	user.PasswordHash = []byte(hash)
	return user, nil
}

// GetByID returns the public projection of a user, without the hash.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetWithPassword(ctx context.Context, id int64) (models.User, error) {
	const q = `SELECT ` + userColumns + `, u.password FROM users u WHERE u.id = $1`

	var hash string
	user, err := scanUser(r.db.QueryRow(ctx, q, id), &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	user.PasswordHash = []byte(hash)
	return user, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, changes models.ProfileChanges) (models.User, error) {
	stmt := query.UpdateTable("users AS u")
	if changes.Name != nil {
		stmt.Set(query.Set("name", *changes.Name))
	}
	if changes.Phone != nil {
		stmt.Set(query.Set("phone", nullIfEmpty(*changes.Phone)))
	}
	if changes.AvatarURL != nil {
		stmt.Set(query.Set("avatar_url", *changes.AvatarURL))
	}

	q, args, err := stmt.
		Set(query.Now("updated_at")).
		Where(query.Eq("u.id", id)).
		Returning(userColumns).
		Build()
	if err != nil {
		if errors.Is(err, query.ErrNoAssignments) {
			return models.User{}, ErrNoFieldsProvided
		}
		return models.User{}, err
	}

	user, err := scanUser(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash []byte) error {
	const q = `UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`

	cmd, err := r.db.Exec(ctx, q, id, string(hash))
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetRole(ctx context.Context, id int64, role models.UserRole) (models.User, error) {
	if !role.Valid() {
		return models.User{}, ErrInvalidRole
	}

	const q = `UPDATE users AS u SET role = $2, updated_at = NOW() WHERE u.id = $1 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, q, id, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("set role: %w", err)
	}
	return user, nil
}

// List pages through users, newest first, with their complaint counts.
func (r *UserRepository) List(ctx context.Context, search string, page models.Page) (models.UserPage, error) {
	filter := query.Search(search, "u.name", "u.email")

	q, args := query.From(`
		SELECT ` + userColumns + `,
		       (SELECT COUNT(*) FROM complaints c WHERE c.user_id = u.id) AS complaints_count
		FROM users u`).
		Where(filter).
		NewestFirst("u.created_at").
		Page(page.Limit, page.Offset).
		Build()

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return models.UserPage{}, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	result := models.UserPage{Items: []models.UserSummary{}}
	for rows.Next() {
		var summary models.UserSummary
		summary.User, err = scanUser(rows, &summary.ComplaintsCount)
		if err != nil {
			return models.UserPage{}, err
		}
		result.Items = append(result.Items, summary)
	}
	if err := rows.Err(); err != nil {
		return models.UserPage{}, err
	}

	countQ, countArgs := query.From(`SELECT COUNT(*) FROM users u`).Where(filter).Build()
	if err := r.db.QueryRow(ctx, countQ, countArgs...).Scan(&result.Total); err != nil {
		return models.UserPage{}, fmt.Errorf("count users: %w", err)
	}
	return result, nil
}

func (r *UserRepository) Counts(ctx context.Context) (models.UserCounts, error) {
	const q = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE role = 'admin'),
		       COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days'),
		       COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '30 days')
		FROM users
	`
	var counts models.UserCounts
	if err := r.db.QueryRow(ctx, q).Scan(
		&counts.Total,
		&counts.Admins,
		&counts.NewThisWeek,
		&counts.NewThisMonth,
	); err != nil {
		return models.UserCounts{}, fmt.Errorf("count users: %w", err)
	}
	return counts, nil
}

func nullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
