package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/blogsphere-api/internal/api"
	apiMiddleware "github.com/phrazzld/blogsphere-api/internal/api/middleware"
	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/platform/memory"
	"github.com/phrazzld/blogsphere-api/internal/service"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

var testAuthConfig = config.AuthConfig{
	JWTSecret:            "test-secret-that-is-at-least-32-characters",
	TokenLifetimeMinutes: 60,
	BCryptCost:           bcrypt.MinCost,
	CookieName:           "blogsphere_session",
}

var testPagination = config.PaginationConfig{DefaultLimit: 20, MaxLimit: 100}

// testEnv is the full router over the in-memory backend with real services.
type testEnv struct {
	router   http.Handler
	users    service.UserService
	posts    service.PostService
	comments service.CommentService
	jwt      auth.JWTService
	logs     *logger.TestLogBuffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, buf := logger.NewTestLogger(t)

	db := memory.NewDB(log)
	userStore := memory.NewUserStore(db)
	followStore := memory.NewFollowStore(db)
	postStore := memory.NewPostStore(db)
	tagStore := memory.NewTagStore(db)
	commentStore := memory.NewCommentStore(db)

	clock := service.WithClock(tickingClock())
	users, err := service.NewUserService(userStore, followStore, db,
		auth.NewBcryptEncoder(testAuthConfig.BCryptCost), log, clock)
	require.NoError(t, err)
	posts, err := service.NewPostService(postStore, tagStore, userStore, db, log, clock)
	require.NoError(t, err)
	comments, err := service.NewCommentService(commentStore, postStore, userStore, db, log, clock)
	require.NoError(t, err)
	jwtService, err := auth.NewJWTService(testAuthConfig)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(apiMiddleware.NewTraceMiddleware(log))
	api.RegisterRoutes(r, api.Handlers{
		Session:  api.NewSessionHandler(users, jwtService, auth.NewBcryptVerifier(), testAuthConfig, log),
		Users:    api.NewUserHandler(users, posts, testPagination, log),
		Posts:    api.NewPostHandler(posts, testPagination, log),
		Comments: api.NewCommentHandler(comments, testPagination, log),
	}, apiMiddleware.NewAuthMiddleware(jwtService, testAuthConfig.CookieName))

	return &testEnv{
		router:   r,
		users:    users,
		posts:    posts,
		comments: comments,
		jwt:      jwtService,
		logs:     buf,
	}
}

// tickingClock advances one second per reading so records created in
// sequence have distinct timestamps.
func tickingClock() func() time.Time {
	var ticks atomic.Int64
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		return base.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}

// register creates a user directly through the service.
func (e *testEnv) register(t *testing.T, username string, roles ...domain.Role) *domain.User {
	t.Helper()
	user, err := e.users.RegisterUser(context.Background(), &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
		Roles:    roles,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) token(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := e.jwt.GenerateToken(context.Background(), user)
	require.NoError(t, err)
	return token
}

// do sends a request through the router. body is JSON-encoded unless it is
// already a string; token, when set, is sent as a bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rr)["error"]
}

func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
