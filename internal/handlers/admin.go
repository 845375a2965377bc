package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Alikh-collab/TAZA-back/internal/middleware"
	"github.com/Alikh-collab/TAZA-back/internal/service"
)

type dailyResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type regionResponse struct {
	Address string `json:"location_address"`
	Count   int64  `json:"count"`
}

type userCountsResponse struct {
	TotalUsers   int64 `json:"total_users"`
	Admins       int64 `json:"admins"`
	NewThisWeek  int64 `json:"new_this_week"`
	NewThisMonth int64 `json:"new_this_month"`
}

type dashboardResponse struct {
	Complaints statsResponse      `json:"complaints"`
	Users      userCountsResponse `json:"users"`
	DailyStats []dailyResponse    `json:"daily_stats"`
	TopRegions []regionResponse   `json:"top_regions"`
}

func (h HandlerSet) Dashboard(c *gin.Context) {
	dash, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	resp := dashboardResponse{
		Complaints: toStats(dash.Complaints, true),
		Users: userCountsResponse{
			TotalUsers:   dash.Users.Total,
			Admins:       dash.Users.Admins,
			NewThisWeek:  dash.Users.NewThisWeek,
			NewThisMonth: dash.Users.NewThisMonth,
		},
		DailyStats: make([]dailyResponse, 0, len(dash.Daily)),
		TopRegions: make([]regionResponse, 0, len(dash.TopRegions)),
	}
	for _, d := range dash.Daily {
		resp.DailyStats = append(resp.DailyStats, dailyResponse{Date: d.Date.Format("2006-01-02"), Count: d.Count})
	}
	for _, r := range dash.TopRegions {
		resp.TopRegions = append(resp.TopRegions, regionResponse{Address: r.Address, Count: r.Count})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"dashboard": resp,
	})
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	page := pageFromQuery(c, service.UsersPageSize)

	result, err := h.admin.ListUsers(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		fail(c, err)
		return
	}

	users := make([]userSummaryResponse, 0, len(result.Items))
	for _, u := range result.Items {
		users = append(users, userSummaryResponse{
			userResponse:    toUser(u.User),
			ComplaintsCount: u.ComplaintsCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"users":      users,
		"pagination": toPagination(page, result.Total),
	})
}

type roleRequest struct {
	Role string `form:"role" json:"role"`
}

func (h HandlerSet) SetUserRole(c *gin.Context) {
	admin := middleware.MustCurrentUser(c)

	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req roleRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	updated, err := h.admin.SetUserRole(c.Request.Context(), admin, id, req.Role)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "role updated",
		"user":    toUser(updated),
	})
}
