package models

import "time"

// Update is a public announcement shown on the landing page.
type Update struct {
	ID          int64
	Title       string
	Description string
	CreatedAt   time.Time
}
