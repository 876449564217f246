package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/pkg/response"
)

type FriendHandler struct {
	Svc    *app.FriendService
	Logger *logrus.Logger
}

func NewFriendHandler(svc *app.FriendService, logger *logrus.Logger) *FriendHandler {
	return &FriendHandler{Svc: svc, Logger: logger}
}

// SendRequest POST /api/friends/requests/:id
func (h *FriendHandler) SendRequest(c *gin.Context) {
	if err := h.Svc.SendFriendRequest(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"recipient_id": c.Param("id")}, "friend request sent", nil)
}

// Accept POST /api/friends/requests/:id/accept, where :id is the sender
func (h *FriendHandler) Accept(c *gin.Context) {
	if err := h.Svc.AcceptFriendRequest(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"friend_id": c.Param("id")}, "friend request accepted", nil)
}

// Reject POST /api/friends/requests/:id/reject; rejecting an absent request succeeds
func (h *FriendHandler) Reject(c *gin.Context) {
	if err := h.Svc.RejectFriendRequest(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sender_id": c.Param("id")}, "friend request rejected", nil)
}

func (h *FriendHandler) ListRequests(c *gin.Context) {
	list, err := h.Svc.ListPendingRequests(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "pending friend requests", nil)
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	list, err := h.Svc.ListFriends(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "friends", nil)
}

func (h *FriendHandler) Suggestions(c *gin.Context) {
	list, err := h.Svc.SuggestFriends(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "friend suggestions", nil)
}

// Remove DELETE /api/friends/:id
func (h *FriendHandler) Remove(c *gin.Context) {
	if err := h.Svc.RemoveFriend(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"friend_id": c.Param("id")}, "friend removed", nil)
}
