package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-social/config"
	"github.com/oksasatya/go-ddd-social/internal/container"
	"github.com/oksasatya/go-ddd-social/pkg/helpers"
	"github.com/oksasatya/go-ddd-social/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	helpers.PasswordCost = bcrypt.MinCost
	validation.Init()
	os.Exit(m.Run())
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	logger.SetLevel(logrus.PanicLevel)
	container.SetConfig(&config.Config{
		AppName:       "social",
		StoreDriver:   "memory",
		SessionTTL:    time.Hour,
		MaxImageBytes: 1 << 20,
		CookieDomain:  "localhost",
	})
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour))

	engine := gin.New()
	reg := NewRegistry(engine)
	InitModulesWith(reg, MemoryBackends())
	reg.RegisterAll()
	return &apiClient{t: t, engine: engine}
}

func (a *apiClient) call(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

// register signs a user up, logs in and returns (userID, accessToken)
func (a *apiClient) register(name string) (string, string) {
	a.t.Helper()
	code, body := a.call(http.MethodPost, "/api/signup", "", gin.H{
		"email": name + "@test.io", "password": "password123", "name": name,
	})
	require.Equal(a.t, http.StatusCreated, code, body)
	id := body["data"].(map[string]any)["id"].(string)

	code, body = a.call(http.MethodPost, "/api/login", "", gin.H{"email": name + "@test.io", "password": "password123"})
	require.Equal(a.t, http.StatusOK, code, body)
	return id, body["data"].(map[string]any)["access_token"].(string)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newAPI(t)
	code, body := api.call(http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])

	code, _ = api.call(http.MethodGet, "/api/posts/feed", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFriendAndGroupFlowEndToEnd(t *testing.T) {
	api := newAPI(t)
	aliceID, alice := api.register("alice")
	bobID, bob := api.register("bob")

	code, _ := api.call(http.MethodPost, "/api/friends/requests/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, code)

	code, body := api.call(http.MethodGet, "/api/friends/requests", bob, nil)
	require.Equal(t, http.StatusOK, code)
	pending := body["data"].([]any)
	require.Len(t, pending, 1)
	assert.Equal(t, aliceID, pending[0].(map[string]any)["id"])

	code, _ = api.call(http.MethodPost, "/api/friends/requests/"+aliceID+"/accept", bob, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = api.call(http.MethodPost, "/api/posts", bob, gin.H{"content": "hello alice"})
	require.Equal(t, http.StatusCreated, code)
	code, body = api.call(http.MethodGet, "/api/posts/feed", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"].([]any), 1)

	code, body = api.call(http.MethodPost, "/api/groups", alice, gin.H{"name": "Readers"})
	require.Equal(t, http.StatusCreated, code)
	groupID := body["data"].(map[string]any)["id"].(string)

	code, _ = api.call(http.MethodPost, "/api/groups/"+groupID+"/members/"+bobID, alice, nil)
	require.Equal(t, http.StatusOK, code)
	code, body = api.call(http.MethodGet, "/api/groups/"+groupID+"/members", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"].([]any), 1)

	code, _ = api.call(http.MethodPost, "/api/logout", alice, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = api.call(http.MethodGet, "/api/profile", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHealthAndDebugRoutes(t *testing.T) {
	api := newAPI(t)
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// debug metrics are off unless enabled
	w = httptest.NewRecorder()
	api.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
