package models

import "time"

type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusPending,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
}

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

type Complaint struct {
	ID          int64
	UserID      int64
	Name        string
	Latitude    float64
	Longitude   float64
	Address     *string
	Description string
	PhotoURL    *string
	Status      ComplaintStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ComplaintView is a complaint joined with the public fields of its owner.
type ComplaintView struct {
	Complaint
	UserName  string
	UserEmail string
	UserPhone *string
}

// ComplaintChanges lists the owner-editable fields to overwrite. Address
// pointing at "" clears the address.
type ComplaintChanges struct {
	Name        *string
	Description *string
	Address     *string
	PhotoURL    *string
}

func (c ComplaintChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.Address == nil && c.PhotoURL == nil
}

// ComplaintFilter narrows a complaint listing. Status values that are not a
// known ComplaintStatus are ignored; OwnerID zero means any owner.
type ComplaintFilter struct {
	Status  string
	Search  string
	OwnerID int64
}

type Page struct {
	Limit  int
	Offset int
}

type StatusCounts struct {
	Total      int64
	Pending    int64
	InProgress int64
	Resolved   int64
	ThisWeek   int64
	ThisMonth  int64
}

type ComplaintPage struct {
	Items  []ComplaintView
	Counts StatusCounts
	Total  int64
}

type DailyCount struct {
	Date  time.Time
	Count int64
}

type RegionCount struct {
	Address string
	Count   int64
}

type Dashboard struct {
	Complaints StatusCounts
	Users      UserCounts
	Daily      []DailyCount
	TopRegions []RegionCount
}

// BoundingBox is the accepted coordinate window for new complaints.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
