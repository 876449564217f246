package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/pkg/response"
)

type GroupHandler struct {
	Svc           *app.GroupService
	Logger        *logrus.Logger
	MaxImageBytes int64
}

func NewGroupHandler(svc *app.GroupService, logger *logrus.Logger, maxImageBytes int64) *GroupHandler {
	return &GroupHandler{Svc: svc, Logger: logger, MaxImageBytes: maxImageBytes}
}

type createGroupRequest struct {
	Name        string `json:"name" form:"name" binding:"required,personname"`
	Description string `json:"description" form:"description" binding:"max=2000"`
	ImageRef    string `json:"image_ref" form:"image_ref" binding:"max=512"`
}

type updateGroupRequest struct {
	Name        *string `json:"name" form:"name" binding:"omitempty,personname"`
	Description *string `json:"description" form:"description" binding:"omitempty,max=2000"`
	ImageRef    *string `json:"image_ref" form:"image_ref" binding:"omitempty,max=512"`
}

// Create POST /api/groups (JSON, or multipart with an optional "image")
func (h *GroupHandler) Create(c *gin.Context) {
	limitBody(c, h.MaxImageBytes)
	var req createGroupRequest
	if !bindPayload(c, &req) {
		return
	}
	img, done, err := formImage(c)
	defer done()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid image", err.Error())
		return
	}
	g, err := h.Svc.CreateGroup(c.Request.Context(), currentUser(c), app.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		ImageRef:    req.ImageRef,
		Image:       img,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toGroup(g), "group created", nil)
}

// List GET /api/groups returns the caller's groups
func (h *GroupHandler) List(c *gin.Context) {
	gs, err := h.Svc.ListGroupsForUser(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toGroups(gs), "groups", nil)
}

func (h *GroupHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchGroups(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *GroupHandler) Get(c *gin.Context) {
	g, err := h.Svc.GetGroup(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toGroup(g), "group", nil)
}

// Update PUT /api/groups/:groupId, admin only
func (h *GroupHandler) Update(c *gin.Context) {
	limitBody(c, h.MaxImageBytes)
	var req updateGroupRequest
	if !bindPayload(c, &req) {
		return
	}
	img, done, err := formImage(c)
	defer done()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid image", err.Error())
		return
	}
	g, err := h.Svc.UpdateGroup(c.Request.Context(), c.Param("groupId"), currentUser(c), app.UpdateGroupInput{
		Patch: entity.GroupPatch{Name: req.Name, Description: req.Description, ImageRef: req.ImageRef},
		Image: img,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toGroup(g), "group updated", nil)
}

func (h *GroupHandler) Members(c *gin.Context) {
	list, err := h.Svc.ListMembers(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "group members", nil)
}

// AddMember POST /api/groups/:groupId/members/:userId, admin only
func (h *GroupHandler) AddMember(c *gin.Context) {
	g, err := h.Svc.AddMember(c.Request.Context(), c.Param("groupId"), c.Param("userId"), app.AddedBy(currentUser(c)))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toGroup(g), "member added", nil)
}

func (h *GroupHandler) Join(c *gin.Context) {
	g, err := h.Svc.JoinGroup(c.Request.Context(), c.Param("groupId"), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toGroup(g), "joined group", nil)
}

func (h *GroupHandler) Leave(c *gin.Context) {
	g, err := h.Svc.LeaveGroup(c.Request.Context(), c.Param("groupId"), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toGroup(g), "left group", nil)
}
