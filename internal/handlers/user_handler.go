package handlers

import (
	"net/http"
	"path/filepath"

	"phonebook_backend/internal/services"
	"phonebook_backend/internal/services/dto"
	"phonebook_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
	tmpDir      string
}

func NewUserHandler(base *BaseHandler, userService services.UserService, tmpDir string) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		tmpDir:      tmpDir,
	}
}

// RegisterProtectedRoutes mounts the user routes behind the auth
// middleware. The subscription update is PATCH on the group root,
// matching the public API contract.
func (h *UserHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/current", h.Current)
	rg.PATCH("/", h.UpdateSubscription)
	rg.PATCH("/avatars", h.UpdateAvatar)
}

func (h *UserHandler) Current(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":        user.Email,
		"subscription": user.Subscription,
	})
}

func (h *UserHandler) UpdateSubscription(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateSubscriptionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	updated, err := h.userService.UpdateSubscription(db, user.ID, req.Subscription)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UpdateAvatar receives the multipart upload, parks it in the tmp dir
// and hands the path to the service, which owns cleanup from there.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	user, ok := h.RequireCurrentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		h.HandleServiceError(c, apperrors.ErrNoFileUploaded)
		return
	}

	tmpPath := filepath.Join(h.tmpDir, uuid.NewString()+"_"+filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	db := h.GetDB(c)

	avatarURL, err := h.userService.UpdateAvatar(db, user.ID, tmpPath, fileHeader.Filename)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvatarResponse{AvatarURL: avatarURL})
}
