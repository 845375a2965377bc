package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Alikh-collab/TAZA-back/internal/service"
	"github.com/Alikh-collab/TAZA-back/internal/storage"
)

func (h HandlerSet) uploadTarget(c *gin.Context) service.Target {
	if c.PostForm("type") == "avatar" {
		return h.uploads.Generic(storage.FolderAvatars)
	}
	return h.uploads.Generic(storage.FolderComplaints)
}

func (h HandlerSet) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			fail(c, service.ErrFileRequired)
			return
		}
		fail(c, err)
		return
	}

	file, err := h.uploads.Accept(c.Request.Context(), h.uploadTarget(c), header)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "file uploaded",
		"file":    toFile(file),
	})
}

func (h HandlerSet) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			fail(c, service.ErrFileRequired)
			return
		}
		fail(c, err)
		return
	}

	stored, err := h.uploads.AcceptMany(c.Request.Context(), h.uploadTarget(c), form.File["files"])
	if err != nil {
		fail(c, err)
		return
	}

	files := make([]fileResponse, 0, len(stored))
	for _, f := range stored {
		files = append(files, toFile(f))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "files uploaded",
		"files":   files,
	})
}
