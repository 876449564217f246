package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	app "github.com/oksasatya/go-ddd-social/internal/application"
	"github.com/oksasatya/go-ddd-social/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
	"github.com/oksasatya/go-ddd-social/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	helpers.PasswordCost = bcrypt.MinCost
	validation.Init()
	os.Exit(m.Run())
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	users  *app.UserService
}

// stubAuth trusts X-User-ID so handler tests can act as any user
func stubAuth(c *gin.Context) {
	if id := c.GetHeader("X-User-ID"); id != "" {
		c.Set("userID", id)
	}
	c.Next()
}

func newServer(t *testing.T) *server {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	logger.SetLevel(logrus.PanicLevel)

	store := memory.New()
	assets := memory.NewAssetStore()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	users := app.NewUserService(store.Users(), store.Sessions(), jwt, assets, nil, logger, time.Hour)
	friends := app.NewFriendService(store.Users(), store.Relations(), logger, app.NotifyOptions{})
	groups := app.NewGroupService(store.Groups(), store.Users(), assets, nil, logger, app.NotifyOptions{})
	posts := app.NewPostService(store.Posts(), store.Groups(), store.Relations(), assets, logger)
	comments := app.NewCommentService(store.Comments(), store.Posts(), store.Groups(), logger)

	ah := NewAuthHandler(users, logger, "localhost", false)
	uh := NewUserHandler(users, logger, "localhost", false, 1<<20)
	fh := NewFriendHandler(friends, logger)
	gh := NewGroupHandler(groups, logger, 1<<20)
	ph := NewPostHandler(posts, logger, 1<<20)
	ch := NewCommentHandler(comments, logger)
	as := NewAssetHandler(app.NewAssetService(assets), logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/signup", ah.Signup)
	api.POST("/login", ah.Login)
	auth := api.Group("/", stubAuth)
	auth.GET("/profile", uh.GetProfile)
	auth.PUT("/profile", uh.UpdateProfile)
	auth.POST("/profile/avatar", uh.UploadAvatar)
	auth.POST("/friends/requests/:id", fh.SendRequest)
	auth.POST("/friends/requests/:id/accept", fh.Accept)
	auth.GET("/friends", fh.ListFriends)
	auth.POST("/groups", gh.Create)
	auth.GET("/groups/:groupId", gh.Get)
	auth.PUT("/groups/:groupId", gh.Update)
	auth.POST("/groups/:groupId/join", gh.Join)
	auth.POST("/groups/:groupId/members/:userId", gh.AddMember)
	auth.POST("/groups/:groupId/posts", ph.CreateInGroup)
	auth.GET("/groups/:groupId/posts", ph.ListInGroup)
	auth.POST("/posts", ph.Create)
	auth.GET("/posts/feed", ph.Feed)
	auth.GET("/posts/:postId", ph.Get)
	auth.DELETE("/posts/:postId", ph.Delete)
	auth.POST("/posts/:postId/like", ph.Like)
	auth.POST("/posts/:postId/dislike", ph.Dislike)
	auth.GET("/posts/:postId/comments", ch.List)
	auth.POST("/posts/:postId/comments", ch.Create)
	auth.PUT("/comments/:commentId", ch.Update)
	auth.GET("/assets/*ref", as.Get)

	return &server{t: t, engine: r, users: users}
}

func (s *server) do(method, path, userID string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, userID)
}

func (s *server) send(req *http.Request, userID string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	if ct := w.Header().Get("Content-Type"); ct == "application/json; charset=utf-8" {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *server) signup(name string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/signup", "", gin.H{
		"email": name + "@test.io", "password": "password123", "name": name, "age": 30,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var u userResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &u))
	return u.ID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestSignupValidationAndDuplicate(t *testing.T) {
	s := newServer(t)

	w, env := s.do(http.MethodPost, "/api/signup", "", gin.H{"email": "nope", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	details := decode[map[string]string](t, env.Error)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "name")

	s.signup("ann")
	w, env = s.do(http.MethodPost, "/api/signup", "", gin.H{
		"email": "ANN@test.io", "password": "password123", "name": "Ann",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, app.ErrEmailTaken.Error(), env.Message)
}

func TestLoginSetsCookiesAndRejectsBadPassword(t *testing.T) {
	s := newServer(t)
	s.signup("bob")

	w, env := s.do(http.MethodPost, "/api/login", "", gin.H{"email": "bob@test.io", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	tok := decode[tokenResponse](t, env.Data)
	assert.NotEmpty(t, tok.AccessToken)
	assert.NotEmpty(t, tok.RefreshToken)
	assert.NotEmpty(t, w.Result().Cookies())

	w, _ = s.do(http.MethodPost, "/api/login", "", gin.H{"email": "bob@test.io", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileNotFoundForUnknownUser(t *testing.T) {
	s := newServer(t)
	w, env := s.do(http.MethodGet, "/api/profile", "missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestFriendFlowStatuses(t *testing.T) {
	s := newServer(t)
	a, b := s.signup("amy"), s.signup("ben")

	w, _ := s.do(http.MethodPost, "/api/friends/requests/"+b, a, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api/friends/requests/"+a, a, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/friends/requests/nobody", a, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// only the recipient can accept
	w, _ = s.do(http.MethodPost, "/api/friends/requests/"+b+"/accept", a, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/friends/requests/"+a+"/accept", b, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodGet, "/api/friends", a, nil)
	require.Equal(t, http.StatusOK, w.Code)
	friends := decode[[]map[string]any](t, env.Data)
	require.Len(t, friends, 1)
	assert.Equal(t, b, friends[0]["id"])

	w, _ = s.do(http.MethodPost, "/api/friends/requests/"+b, a, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFriendRequestFromUnknownSenderIsNotFound(t *testing.T) {
	s := newServer(t)
	b := s.signup("bea")

	w, env := s.do(http.MethodPost, "/api/friends/requests/"+b, "ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestGroupNamesAndImageRefOnUpdate(t *testing.T) {
	s := newServer(t)
	admin := s.signup("gus")

	w, env := s.do(http.MethodPost, "/api/groups", admin, gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Error), "name")

	w, env = s.do(http.MethodPost, "/api/groups", admin, gin.H{"name": " Hikers ", "image_ref": "groups/old.png"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := decode[groupResponse](t, env.Data)
	assert.Equal(t, "Hikers", g.Name)

	w, _ = s.do(http.MethodPut, "/api/groups/"+g.ID, admin, gin.H{"name": " \t "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodPut, "/api/groups/"+g.ID, admin, gin.H{"image_ref": "groups/new.png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	g = decode[groupResponse](t, env.Data)
	assert.Equal(t, "groups/new.png", g.ImageRef)
	assert.Equal(t, "Hikers", g.Name)

	w, env = s.do(http.MethodGet, "/api/groups/"+g.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "groups/new.png", decode[groupResponse](t, env.Data).ImageRef)
}

func TestGroupLifecycle(t *testing.T) {
	s := newServer(t)
	admin, member, outsider := s.signup("ada"), s.signup("max"), s.signup("oz")

	w, env := s.do(http.MethodPost, "/api/groups", admin, gin.H{"name": "Climbers", "description": "rocks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	g := decode[groupResponse](t, env.Data)
	assert.Equal(t, admin, g.AdminID)
	assert.Empty(t, g.Members)

	w, _ = s.do(http.MethodPost, "/api/groups/"+g.ID+"/join", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/api/groups/"+g.ID+"/join", member, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/groups/"+g.ID+"/members/"+outsider, member, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPut, "/api/groups/"+g.ID, member, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodPut, "/api/groups/"+g.ID, admin, gin.H{"description": "boulders"})
	require.Equal(t, http.StatusOK, w.Code)
	g = decode[groupResponse](t, env.Data)
	assert.Equal(t, "Climbers", g.Name)
	assert.Equal(t, "boulders", g.Description)

	w, _ = s.do(http.MethodPost, "/api/groups/"+g.ID+"/posts", outsider, gin.H{"content": "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/api/groups/"+g.ID+"/posts", member, gin.H{"content": "hello group"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(http.MethodGet, "/api/groups/"+g.ID+"/posts", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]postResponse](t, env.Data), 1)

	w, _ = s.do(http.MethodGet, "/api/groups/unknown", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostsReactionsAndComments(t *testing.T) {
	s := newServer(t)
	author, other := s.signup("pia"), s.signup("quinn")

	w, env := s.do(http.MethodPost, "/api/posts", author, gin.H{"content": "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	p := decode[postResponse](t, env.Data)

	w, env = s.do(http.MethodPost, "/api/posts/"+p.ID+"/like", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[postResponse](t, env.Data)
	assert.Equal(t, []string{other}, p.Likes)

	w, env = s.do(http.MethodPost, "/api/posts/"+p.ID+"/dislike", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	p = decode[postResponse](t, env.Data)
	assert.Empty(t, p.Likes)
	assert.Equal(t, []string{other}, p.Dislikes)

	w, env = s.do(http.MethodPost, "/api/posts/"+p.ID+"/comments", other, gin.H{"content": "nice"})
	require.Equal(t, http.StatusCreated, w.Code)
	cm := decode[commentResponse](t, env.Data)

	w, _ = s.do(http.MethodPut, "/api/comments/"+cm.ID, author, gin.H{"content": "edited"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/api/posts/"+p.ID+"/comments", other, gin.H{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/posts/"+p.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/posts/"+p.ID, author, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/api/posts/"+p.ID+"/like", other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedShowsOwnAndFriendsPosts(t *testing.T) {
	s := newServer(t)
	a, b, c := s.signup("ava"), s.signup("bea"), s.signup("cal")
	s.do(http.MethodPost, "/api/friends/requests/"+b, a, nil)
	s.do(http.MethodPost, "/api/friends/requests/"+a+"/accept", b, nil)

	for _, u := range []string{a, b, c} {
		w, _ := s.do(http.MethodPost, "/api/posts", u, gin.H{"content": "post by " + u})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := s.do(http.MethodGet, "/api/posts/feed", a, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[[]postResponse](t, env.Data)
	require.Len(t, feed, 2)
	assert.Equal(t, b, feed[0].AuthorID)
	assert.Equal(t, a, feed[1].AuthorID)
}

func multipartBody(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="image"; filename="` + filename + `"`}
		h["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAvatarUploadAndAssetFetch(t *testing.T) {
	s := newServer(t)
	u := s.signup("ivy")
	png := []byte("\x89PNG\r\n\x1a\nfake")

	body, ct := multipartBody(t, nil, "me.png", "image/png", png)
	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", body)
	req.Header.Set("Content-Type", ct)
	w, env := s.send(req, u)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	prof := decode[userResponse](t, env.Data)
	require.NotEmpty(t, prof.ImageRef)

	w, _ = s.do(http.MethodGet, "/api/assets/"+prof.ImageRef, u, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, png, w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w, _ = s.do(http.MethodGet, "/api/assets/avatars/none.png", u, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body, ct = multipartBody(t, nil, "", "", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/profile/avatar", body)
	req.Header.Set("Content-Type", ct)
	w, _ = s.send(req, u)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadedFilenameDoesNotPickExtension(t *testing.T) {
	s := newServer(t)
	u := s.signup("hal")

	body, ct := multipartBody(t, nil, "page.html", "image/png", []byte("\x89PNG"))
	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", body)
	req.Header.Set("Content-Type", ct)
	w, env := s.send(req, u)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ref := decode[userResponse](t, env.Data).ImageRef
	assert.True(t, strings.HasSuffix(ref, ".png"), ref)
	assert.NotContains(t, ref, ".html")

	w, _ = s.do(http.MethodGet, "/api/assets/"+ref, u, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestMultipartPostWithImage(t *testing.T) {
	s := newServer(t)
	u := s.signup("kai")

	body, ct := multipartBody(t, map[string]string{"content": "look"}, "pic.jpg", "image/jpeg", []byte("jpegdata"))
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", ct)
	w, env := s.send(req, u)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[postResponse](t, env.Data)
	assert.Equal(t, "look", p.Content)
	assert.NotEmpty(t, p.ImageRef)
}

func TestOversizedUploadIsRejected(t *testing.T) {
	s := newServer(t)
	u := s.signup("lea")

	body, ct := multipartBody(t, map[string]string{"content": "big"}, "big.png", "image/png", bytes.Repeat([]byte("x"), 2<<20))
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", ct)
	w, env := s.send(req, u)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(app.ErrRequestNotFound))
	assert.Equal(t, http.StatusForbidden, statusFor(app.ErrForbidden))
	assert.Equal(t, http.StatusBadRequest, statusFor(app.ErrAlreadyMember))
	assert.Equal(t, http.StatusUnauthorized, statusFor(app.ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}

func TestGroupPostHiddenFromOutsiders(t *testing.T) {
	s := newServer(t)
	admin, outsider := s.signup("gia"), s.signup("hal")

	w, env := s.do(http.MethodPost, "/api/groups", admin, gin.H{"name": "Secret"})
	require.Equal(t, http.StatusCreated, w.Code)
	g := decode[groupResponse](t, env.Data)
	w, env = s.do(http.MethodPost, "/api/groups/"+g.ID+"/posts", admin, gin.H{"content": "inside"})
	require.Equal(t, http.StatusCreated, w.Code)
	p := decode[postResponse](t, env.Data)
	w, _ = s.do(http.MethodPost, "/api/posts/"+p.ID+"/comments", admin, gin.H{"content": "note"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(http.MethodGet, "/api/posts/"+p.ID, outsider, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodGet, "/api/posts/"+p.ID+"/comments", outsider, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, "/api/posts/"+p.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = s.do(http.MethodGet, "/api/posts/"+p.ID+"/comments", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]commentResponse](t, env.Data), 1)
}
