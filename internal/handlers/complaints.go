package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Alikh-collab/TAZA-back/internal/middleware"
	"github.com/Alikh-collab/TAZA-back/internal/models"
	"github.com/Alikh-collab/TAZA-back/internal/service"
)

// numericField holds a coordinate sent either as a JSON number or as text.
type numericField string

func (n *numericField) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		raw = ""
	}
	*n = numericField(raw)
	return nil
}

type createComplaintRequest struct {
	Name        string       `form:"name" json:"name"`
	Description string       `form:"description" json:"description"`
	Latitude    numericField `form:"location_lat" json:"location_lat"`
	Longitude   numericField `form:"location_lng" json:"location_lng"`
	Address     string       `form:"location_address" json:"location_address"`
}

func (h HandlerSet) CreateComplaint(c *gin.Context) {
	user := middleware.MustCurrentUser(c)

	var req createComplaintRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	photo, err := optionalFile(c, "photo")
	if err != nil {
		fail(c, err)
		return
	}

	created, err := h.complaints.Create(c.Request.Context(), service.CreateComplaintInput{
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Latitude:    string(req.Latitude),
		Longitude:   string(req.Longitude),
		Photo:       photo,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "complaint submitted",
		"complaint": gin.H{
			"id":         created.ID,
			"status":     created.Status,
			"created_at": created.CreatedAt,
		},
	})
}

func (h HandlerSet) listComplaints(c *gin.Context, filter models.ComplaintFilter, defLimit int, level contact, withPeriods bool) {
	page := pageFromQuery(c, defLimit)

	result, err := h.complaints.List(c.Request.Context(), filter, page)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, complaintListResponse{
		Success:    true,
		Complaints: toComplaintViews(result.Items, level),
		Stats:      toStats(result.Counts, withPeriods),
		Pagination: toPagination(page, result.Total),
	})
}

func (h HandlerSet) PublicComplaints(c *gin.Context) {
	h.listComplaints(c, models.ComplaintFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}, service.PublicPageSize, contactName, false)
}

func (h HandlerSet) MyComplaints(c *gin.Context) {
	user := middleware.MustCurrentUser(c)

	h.listComplaints(c, models.ComplaintFilter{
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		OwnerID: user.ID,
	}, service.OwnPageSize, contactName, false)
}

func (h HandlerSet) AdminComplaints(c *gin.Context) {
	h.listComplaints(c, models.ComplaintFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}, service.AdminPageSize, contactFull, true)
}

func (h HandlerSet) GetComplaint(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	view, err := h.complaints.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"complaint": toComplaintView(view, contactEmail),
	})
}

type updateComplaintRequest struct {
	Name        *string `form:"name" json:"name"`
	Description *string `form:"description" json:"description"`
	Address     *string `form:"location_address" json:"location_address"`
}

func (h HandlerSet) UpdateComplaint(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req updateComplaintRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	photo, err := optionalFile(c, "photo")
	if err != nil {
		fail(c, err)
		return
	}

	updated, err := h.complaints.Update(c.Request.Context(), id, service.UpdateComplaintInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Photo:       photo,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "complaint updated",
		"complaint": toComplaint(updated),
	})
}

// DeleteComplaint serves both the owner route and the admin route; the
// guards in front of each decide who gets here.
func (h HandlerSet) DeleteComplaint(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.complaints.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "complaint deleted",
	})
}

type statusRequest struct {
	Status string `form:"status" json:"status"`
}

func (h HandlerSet) SetComplaintStatus(c *gin.Context) {
	admin := middleware.MustCurrentUser(c)

	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req statusRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	updated, err := h.complaints.SetStatus(c.Request.Context(), admin, id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "complaint status updated",
		"complaint": toComplaint(updated),
	})
}
