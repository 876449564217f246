package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social/pkg/response"
)

type PostHandler struct {
	Svc           *app.PostService
	Logger        *logrus.Logger
	MaxImageBytes int64
}

func NewPostHandler(svc *app.PostService, logger *logrus.Logger, maxImageBytes int64) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger, MaxImageBytes: maxImageBytes}
}

type createPostRequest struct {
	Content  string `json:"content" form:"content" binding:"required,body"`
	ImageRef string `json:"image_ref" form:"image_ref" binding:"max=512"`
}

// readPost binds the post body and its optional image. ok is false when a
// response has already been written.
func (h *PostHandler) readPost(c *gin.Context) (in app.CreatePostInput, done func(), ok bool) {
	done = func() {}
	limitBody(c, h.MaxImageBytes)
	var req createPostRequest
	if !bindPayload(c, &req) {
		return in, done, false
	}
	img, done, err := formImage(c)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid image", err.Error())
		return in, done, false
	}
	return app.CreatePostInput{Content: req.Content, ImageRef: req.ImageRef, Image: img}, done, true
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	in, done, ok := h.readPost(c)
	defer done()
	if !ok {
		return
	}
	p, err := h.Svc.CreatePost(c.Request.Context(), currentUser(c), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toPost(p), "post created", nil)
}

// CreateInGroup POST /api/groups/:groupId/posts
func (h *PostHandler) CreateInGroup(c *gin.Context) {
	in, done, ok := h.readPost(c)
	defer done()
	if !ok {
		return
	}
	p, err := h.Svc.CreateGroupPost(c.Request.Context(), c.Param("groupId"), currentUser(c), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toPost(p), "post created", nil)
}

func (h *PostHandler) Feed(c *gin.Context) {
	ps, err := h.Svc.ListFeed(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(ps), "feed", nil)
}

// ListInGroup GET /api/groups/:groupId/posts, members and admin only
func (h *PostHandler) ListInGroup(c *gin.Context) {
	ps, err := h.Svc.ListGroupPosts(c.Request.Context(), c.Param("groupId"), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPosts(ps), "group posts", nil)
}

func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.GetPost(c.Request.Context(), c.Param("postId"), currentUser(c))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(p), "post", nil)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeletePost(c.Request.Context(), c.Param("postId"), currentUser(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": c.Param("postId")}, "post deleted", nil)
}

func (h *PostHandler) react(c *gin.Context, fn func(*app.PostService, *gin.Context) (*entity.Post, error), msg string) {
	p, err := fn(h.Svc, c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPost(p), msg, nil)
}

func (h *PostHandler) Like(c *gin.Context) {
	h.react(c, func(s *app.PostService, c *gin.Context) (*entity.Post, error) {
		return s.Like(c.Request.Context(), c.Param("postId"), currentUser(c))
	}, "post liked")
}

func (h *PostHandler) Unlike(c *gin.Context) {
	h.react(c, func(s *app.PostService, c *gin.Context) (*entity.Post, error) {
		return s.Unlike(c.Request.Context(), c.Param("postId"), currentUser(c))
	}, "like removed")
}

func (h *PostHandler) Dislike(c *gin.Context) {
	h.react(c, func(s *app.PostService, c *gin.Context) (*entity.Post, error) {
		return s.Dislike(c.Request.Context(), c.Param("postId"), currentUser(c))
	}, "post disliked")
}

func (h *PostHandler) Undislike(c *gin.Context) {
	h.react(c, func(s *app.PostService, c *gin.Context) (*entity.Post, error) {
		return s.Undislike(c.Request.Context(), c.Param("postId"), currentUser(c))
	}, "dislike removed")
}
