package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
	"github.com/oksasatya/go-ddd-social/pkg/response"
)

type UserHandler struct {
	Svc           *app.UserService
	Logger        *logrus.Logger
	Cookies       *helpers.Manager
	MaxImageBytes int64
}

func NewUserHandler(svc *app.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool, maxImageBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure), MaxImageBytes: maxImageBytes}
}

type updateProfileRequest struct {
	Name *string `json:"name" binding:"omitempty,personname"`
	Age  *int    `json:"age" binding:"omitempty,gte=0,lte=150"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), currentUser(c), app.UpdateProfileInput{Name: req.Name, Age: req.Age})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart, field "image")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	limitBody(c, h.MaxImageBytes)
	img, done, err := formImage(c)
	defer done()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid image", err.Error())
		return
	}
	if img == nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{imageField: "is required"})
		return
	}
	u, err := h.Svc.UploadAvatar(c.Request.Context(), currentUser(c), img.Reader, img.ContentType)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUser(u), "avatar updated", nil)
}

// DeleteProfile DELETE /api/profile removes the account and ends the session
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	if err := h.Svc.DeleteUser(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "account deleted", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
