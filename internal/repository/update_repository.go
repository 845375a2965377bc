package repository

import (
	"context"
	"fmt"

	"github.com/Alikh-collab/TAZA-back/internal/database"
	"github.com/Alikh-collab/TAZA-back/internal/models"
)

type UpdateRepository struct {
	db database.DBTX
}

func NewUpdateRepository(db database.DBTX) *UpdateRepository {
	return &UpdateRepository{db: db}
}

func (r *UpdateRepository) List(ctx context.Context) ([]models.Update, error) {
	const q = `
		SELECT id, title, description, created_at
		FROM updates
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	defer rows.Close()

	updates := []models.Update{}
	for rows.Next() {
		var u models.Update
		if err := rows.Scan(&u.ID, &u.Title, &u.Description, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}
