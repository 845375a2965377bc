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

const complaintColumns = `c.id, c.user_id, c.name, c.location_lat, c.location_lng, c.location_address,
	c.description, c.photo_url, c.status, c.created_at, c.updated_at`

const complaintViewFrom = `
	SELECT ` + complaintColumns + `, u.name, u.email, u.phone
	FROM complaints c
	JOIN users u ON u.id = c.user_id`

type ComplaintRepository struct {
	db     database.DBTX
	region models.BoundingBox
}

func NewComplaintRepository(db database.DBTX, region models.BoundingBox) *ComplaintRepository {
	return &ComplaintRepository{db: db, region: region}
}

func scanComplaint(row scanner, extra ...any) (models.Complaint, error) {
	var c models.Complaint
	dest := []any{
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Latitude,
		&c.Longitude,
		&c.Address,
		&c.Description,
		&c.PhotoURL,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return c, err
}

func scanComplaintView(row scanner) (models.ComplaintView, error) {
	var view models.ComplaintView
	var err error
	view.Complaint, err = scanComplaint(row, &view.UserName, &view.UserEmail, &view.UserPhone)
	return view, err
}

func statusValues() []string {
	values := make([]string, len(models.ComplaintStatuses))
	for i, s := range models.ComplaintStatuses {
		values[i] = string(s)
	}
	return values
}

// CheckCoordinates enforces the global coordinate range and the configured
// region box.
func (r *ComplaintRepository) CheckCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 || !r.region.Contains(lat, lng) {
		return ErrOutOfBounds
	}
	return nil
}

// Create inserts a pending complaint.
func (r *ComplaintRepository) Create(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	if err := r.CheckCoordinates(c.Latitude, c.Longitude); err != nil {
		return models.Complaint{}, err
	}

	const q = `
		INSERT INTO complaints AS c (user_id, name, location_lat, location_lng, location_address, description, photo_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + complaintColumns

	created, err := scanComplaint(r.db.QueryRow(ctx, q,
		c.UserID,
		c.Name,
		c.Latitude,
		c.Longitude,
		c.Address,
		c.Description,
		c.PhotoURL,
		models.ComplaintStatusPending,
	))
	if err != nil {
		return models.Complaint{}, fmt.Errorf("insert complaint: %w", err)
	}
	return created, nil
}

func ownerPredicate(ownerID int64) query.Predicate {
	if ownerID <= 0 {
		return nil
	}
	return query.Eq("c.user_id", ownerID)
}

// List returns one page of complaints matching filter, newest first. Total
// counts every match; Counts covers the owner scope only and ignores the
// status and search filters.
func (r *ComplaintRepository) List(ctx context.Context, filter models.ComplaintFilter, page models.Page) (models.ComplaintPage, error) {
	preds := []query.Predicate{
		query.EnumEq("c.status", filter.Status, statusValues()...),
		query.Search(filter.Search, "c.name", "c.description", "c.location_address"),
		ownerPredicate(filter.OwnerID),
	}

	q, args := query.From(complaintViewFrom).
		Where(preds...).
		NewestFirst("c.created_at").
		Page(page.Limit, page.Offset).
		Build()

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return models.ComplaintPage{}, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	result := models.ComplaintPage{Items: []models.ComplaintView{}}
	for rows.Next() {
		view, err := scanComplaintView(rows)
		if err != nil {
			return models.ComplaintPage{}, err
		}
		result.Items = append(result.Items, view)
	}
	if err := rows.Err(); err != nil {
		return models.ComplaintPage{}, err
	}

	countQ, countArgs := query.From(`SELECT COUNT(*) FROM complaints c`).Where(preds...).Build()
	if err := r.db.QueryRow(ctx, countQ, countArgs...).Scan(&result.Total); err != nil {
		return models.ComplaintPage{}, fmt.Errorf("count complaints: %w", err)
	}

	result.Counts, err = r.Counts(ctx, filter.OwnerID)
	if err != nil {
		return models.ComplaintPage{}, err
	}
	return result, nil
}

// Counts tallies complaints by status, optionally for one owner.
func (r *ComplaintRepository) Counts(ctx context.Context, ownerID int64) (models.StatusCounts, error) {
	q, args := query.From(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE c.status = 'pending'),
		       COUNT(*) FILTER (WHERE c.status = 'in_progress'),
		       COUNT(*) FILTER (WHERE c.status = 'resolved'),
		       COUNT(*) FILTER (WHERE c.created_at >= NOW() - INTERVAL '7 days'),
		       COUNT(*) FILTER (WHERE c.created_at >= NOW() - INTERVAL '30 days')
		FROM complaints c`).
		Where(ownerPredicate(ownerID)).
		Build()

	var counts models.StatusCounts
	if err := r.db.QueryRow(ctx, q, args...).Scan(
		&counts.Total,
		&counts.Pending,
		&counts.InProgress,
		&counts.Resolved,
		&counts.ThisWeek,
		&counts.ThisMonth,
	); err != nil {
		return models.StatusCounts{}, fmt.Errorf("count complaints: %w", err)
	}
	return counts, nil
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id int64) (models.ComplaintView, error) {
	q, args := query.From(complaintViewFrom).Where(query.Eq("c.id", id)).Build()

	view, err := scanComplaintView(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ComplaintView{}, ErrComplaintNotFound
		}
		return models.ComplaintView{}, err
	}
	return view, nil
}

func (r *ComplaintRepository) OwnerOf(ctx context.Context, id int64) (int64, error) {
	var owner int64
	if err := r.db.QueryRow(ctx, `SELECT user_id FROM complaints WHERE id = $1`, id).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrComplaintNotFound
		}
		return 0, err
	}
	return owner, nil
}

// Update overwrites the non-status fields named in changes.
func (r *ComplaintRepository) Update(ctx context.Context, id int64, changes models.ComplaintChanges) (models.Complaint, error) {
	stmt := query.UpdateTable("complaints AS c")
	if changes.Name != nil {
		stmt.Set(query.Set("name", *changes.Name))
	}
	if changes.Description != nil {
		stmt.Set(query.Set("description", *changes.Description))
	}
	if changes.Address != nil {
		stmt.Set(query.Set("location_address", nullIfEmpty(*changes.Address)))
	}
	if changes.PhotoURL != nil {
		stmt.Set(query.Set("photo_url", *changes.PhotoURL))
	}

	q, args, err := stmt.
		Set(query.Now("updated_at")).
		Where(query.Eq("c.id", id)).
		Returning(complaintColumns).
		Build()
	if err != nil {
		if errors.Is(err, query.ErrNoAssignments) {
			return models.Complaint{}, ErrNoFieldsProvided
		}
		return models.Complaint{}, err
	}

	updated, err := scanComplaint(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Complaint{}, ErrComplaintNotFound
		}
		return models.Complaint{}, fmt.Errorf("update complaint: %w", err)
	}
	return updated, nil
}

// SetStatus moves a complaint to status. Any recognised status may follow
// any other.
func (r *ComplaintRepository) SetStatus(ctx context.Context, id int64, status models.ComplaintStatus) (models.Complaint, error) {
	if !status.Valid() {
		return models.Complaint{}, ErrInvalidStatus
	}

	const q = `UPDATE complaints AS c SET status = $2, updated_at = NOW() WHERE c.id = $1 RETURNING ` + complaintColumns

	updated, err := scanComplaint(r.db.QueryRow(ctx, q, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Complaint{}, ErrComplaintNotFound
		}
		return models.Complaint{}, fmt.Errorf("set status: %w", err)
	}
	return updated, nil
}

// Delete removes a complaint and returns the deleted row so callers can
// release its photo.
func (r *ComplaintRepository) Delete(ctx context.Context, id int64) (models.Complaint, error) {
	const q = `DELETE FROM complaints AS c WHERE c.id = $1 RETURNING ` + complaintColumns

	deleted, err := scanComplaint(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Complaint{}, ErrComplaintNotFound
		}
		return models.Complaint{}, fmt.Errorf("delete complaint: %w", err)
	}
	return deleted, nil
}

// Daily counts complaints created per day over the last days days, newest
// day first.
func (r *ComplaintRepository) Daily(ctx context.Context, days int) ([]models.DailyCount, error) {
	const q = `
		SELECT DATE(created_at) AS day, COUNT(*)
		FROM complaints
		WHERE created_at >= NOW() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day DESC
	`
	rows, err := r.db.Query(ctx, q, days)
	if err != nil {
		return nil, fmt.Errorf("daily complaints: %w", err)
	}
	defer rows.Close()

	daily := []models.DailyCount{}
	for rows.Next() {
		var d models.DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		daily = append(daily, d)
	}
	return daily, rows.Err()
}

func (r *ComplaintRepository) TopRegions(ctx context.Context, limit int) ([]models.RegionCount, error) {
	const q = `
		SELECT location_address, COUNT(*) AS total
		FROM complaints
		WHERE location_address IS NOT NULL AND location_address <> ''
		GROUP BY location_address
		ORDER BY total DESC, location_address
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("top regions: %w", err)
	}
	defer rows.Close()

	regions := []models.RegionCount{}
	for rows.Next() {
		var rc models.RegionCount
		if err := rows.Scan(&rc.Address, &rc.Count); err != nil {
			return nil, err
		}
		regions = append(regions, rc)
	}
	return regions, rows.Err()
}

// ValidStatus parses a raw status string.
func ValidStatus(raw string) (models.ComplaintStatus, error) {
	status := models.ComplaintStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
