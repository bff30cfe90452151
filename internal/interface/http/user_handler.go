package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/mesto-api/internal/application"
	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/pkg/response"
	"github.com/oksasatya/mesto-api/pkg/validation"
)

const (
	MsgUserDeleted = "user deleted"

	maxAvatarUpload = 5 << 20
)

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,username"`
	About  *string `json:"about" binding:"omitempty,userabout"`
	Avatar *string `json:"avatar" binding:"omitempty,weblink"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required,weblink"`
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Search serves GET /users/search?q=&size=.
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateProfile expects validation.Body[UpdateProfileRequest] before it.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	req := validation.BodyFrom[UpdateProfileRequest](c)
	u, err := h.Svc.UpdateProfile(c.Request.Context(), principal(c), entity.ProfilePatch{
		Name:   req.Name,
		About:  req.About,
		Avatar: req.Avatar,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateAvatar expects validation.Body[UpdateAvatarRequest] before it.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	req := validation.BodyFrom[UpdateAvatarRequest](c)
	u, err := h.Svc.UpdateAvatar(c.Request.Context(), principal(c), req.Avatar)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UploadAvatar takes a multipart "file" image and makes it the avatar.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, apperror.Validation("", map[string]string{"file": "is required"}))
		return
	}
	if fh.Size > maxAvatarUpload {
		fail(c, apperror.Validation("", map[string]string{"file": "must be at most 5 MB"}))
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !isImage(contentType) {
		fail(c, apperror.Validation("", map[string]string{"file": "must be an image"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, apperror.Internal("", err))
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), principal(c), fh.Filename, contentType, f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete removes the caller's account and its cards.
func (h *UserHandler) Delete(c *gin.Context) {
	p := principal(c)
	if err := h.Svc.Delete(c.Request.Context(), p, p.ID); err != nil {
		fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, MsgUserDeleted)
}

func isImage(contentType string) bool {
	switch contentType {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	}
	return false
}
