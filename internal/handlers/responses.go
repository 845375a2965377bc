package handlers

import (
	"time"

	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/service"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	AvatarURL *string   `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUser(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type userSummaryResponse struct {
	userResponse
	ComplaintsCount int64 `json:"complaints_count"`
}

type complaintResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Latitude    float64   `json:"location_lat"`
	Longitude   float64   `json:"location_lng"`
	Address     *string   `json:"location_address"`
	Description string    `json:"description"`
	PhotoURL    *string   `json:"photo_url"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserName    string    `json:"user_name,omitempty"`
	UserEmail   string    `json:"user_email,omitempty"`
	UserPhone   *string   `json:"user_phone,omitempty"`
}

func toComplaint(c models.Complaint) complaintResponse {
	return complaintResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		Address:     c.Address,
		Description: c.Description,
		PhotoURL:    c.PhotoURL,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// contact controls how much of the owner is disclosed alongside a
// complaint.
type contact int

const (
	contactName contact = iota
	contactEmail
	contactFull
)

func toComplaintView(v models.ComplaintView, level contact) complaintResponse {
	resp := toComplaint(v.Complaint)
	resp.UserName = v.UserName
	if level >= contactEmail {
		resp.UserEmail = v.UserEmail
	}
	if level >= contactFull {
		resp.UserPhone = v.UserPhone
	}
	return resp
}

func toComplaintViews(items []models.ComplaintView, level contact) []complaintResponse {
	out := make([]complaintResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toComplaintView(item, level))
	}
	return out
}

type statsResponse struct {
	Total      int64  `json:"total"`
	Pending    int64  `json:"pending"`
	InProgress int64  `json:"in_progress"`
	Resolved   int64  `json:"resolved"`
	ThisWeek   *int64 `json:"this_week,omitempty"`
	ThisMonth  *int64 `json:"this_month,omitempty"`
}

func toStats(c models.StatusCounts, withPeriods bool) statsResponse {
	resp := statsResponse{
		Total:      c.Total,
		Pending:    c.Pending,
		InProgress: c.InProgress,
		Resolved:   c.Resolved,
	}
	if withPeriods {
		resp.ThisWeek = &c.ThisWeek
		resp.ThisMonth = &c.ThisMonth
	}
	return resp
}

type paginationResponse struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

func toPagination(page models.Page, total int64) paginationResponse {
	return paginationResponse{Limit: page.Limit, Offset: page.Offset, Total: total}
}

type complaintListResponse struct {
	Success    bool                `json:"success"`
	Complaints []complaintResponse `json:"complaints"`
	Stats      statsResponse       `json:"stats"`
	Pagination paginationResponse  `json:"pagination"`
}

type fileResponse struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
}

func toFile(f service.StoredFile) fileResponse {
	return fileResponse{
		URL:          f.URL,
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		Size:         f.Size,
		MimeType:     f.MimeType,
	}
}
