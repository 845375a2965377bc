package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Alikh-collab/TAZA-back/internal/middleware"
	"github.com/Alikh-collab/TAZA-back/internal/service"
)

type registerRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Phone    string `form:"phone" json:"phone"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

// Register accepts JSON or a multipart form with an optional avatar part.
func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	avatar, err := optionalFile(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Avatar:   avatar,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "registration successful",
		Token:   result.Token,
		User:    toUser(result.User),
	})
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "login successful",
		Token:   result.Token,
		User:    toUser(result.User),
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	user := middleware.MustCurrentUser(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUser(user),
	})
}

type profileRequest struct {
	Name  *string `form:"name" json:"name"`
	Phone *string `form:"phone" json:"phone"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	user := middleware.MustCurrentUser(c)

	var req profileRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	avatar, err := optionalFile(c, "avatar")
	if err != nil {
		fail(c, err)
		return
	}

	updated, err := h.auth.UpdateProfile(c.Request.Context(), user, service.ProfileInput{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: avatar,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "profile updated",
		"user":    toUser(updated),
	})
}

type changePasswordRequest struct {
	CurrentPassword string `form:"currentPassword" json:"currentPassword"`
	NewPassword     string `form:"newPassword" json:"newPassword"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	user := middleware.MustCurrentUser(c)

	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "password changed",
	})
}
