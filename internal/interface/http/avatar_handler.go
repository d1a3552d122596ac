package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/task-manager-api/pkg/response"
)

const (
	avatarField = "avatar"
	// room for multipart boundaries and part headers on top of the file itself
	multipartOverhead = 64 << 10
)

type AvatarHandler struct {
	Svc      *application.UserService
	MaxBytes int64
	Logger   *logrus.Logger
}

func NewAvatarHandler(svc *application.UserService, maxBytes int64, logger *logrus.Logger) *AvatarHandler {
	return &AvatarHandler{Svc: svc, MaxBytes: maxBytes, Logger: logger}
}

type avatarResponse struct {
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// Upload POST /users/me/avatar, multipart field "avatar".
func (h *AvatarHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+multipartOverhead)

	fh, err := c.FormFile(avatarField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.tooLarge(c)
			return
		}
		response.Error(c, http.StatusBadRequest, "Please upload an image", map[string]string{avatarField: "is required"})
		return
	}
	if fh.Size > h.MaxBytes {
		h.tooLarge(c)
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(io.LimitReader(f, h.MaxBytes+1))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if int64(len(data)) > h.MaxBytes {
		h.tooLarge(c)
		return
	}

	url, err := h.Svc.SetAvatar(c.Request.Context(), middleware.CurrentUser(c), fh.Filename, data)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, avatarResponse{Message: "avatar uploaded", URL: url})
}

func (h *AvatarHandler) tooLarge(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, "File too large",
		map[string]string{avatarField: fmt.Sprintf("must be at most %d bytes", h.MaxBytes)})
}

// Delete DELETE /users/me/avatar
func (h *AvatarHandler) Delete(c *gin.Context) {
	if err := h.Svc.ClearAvatar(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Message(c, http.StatusOK, "avatar removed")
}

// Get GET /users/:id/avatar serves the stored PNG. Public.
func (h *AvatarHandler) Get(c *gin.Context) {
	png, err := h.Svc.Avatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", png)
}
