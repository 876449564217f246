package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-ddd-social/internal/application"
)

type AssetHandler struct {
	Svc    *app.AssetService
	Logger *logrus.Logger
}

func NewAssetHandler(svc *app.AssetService, logger *logrus.Logger) *AssetHandler {
	return &AssetHandler{Svc: svc, Logger: logger}
}

// Get GET /api/assets/*ref streams the stored image bytes
func (h *AssetHandler) Get(c *gin.Context) {
	b, ct, err := h.Svc.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Data(http.StatusOK, ct, b)
}
