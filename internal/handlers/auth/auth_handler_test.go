package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"adminboard-service/internal/domain/user"
	xerrors "adminboard-service/internal/pkg/errors"
	"adminboard-service/internal/pkg/limiter"
	"adminboard-service/internal/pkg/token"
	authUsecase "adminboard-service/internal/service/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- fake user store ----

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{users: map[string]*user.User{}} }

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return xerrors.ErrDuplicateEmail
		}
	}
	u.ID = ulid.Make().String()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) List(_ context.Context) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status user.Status) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

// ---- helpers ----

const refreshMaxAge = 604800

type envelopeBody struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeRepo()
	codec, err := token.NewCodec(token.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Issuer:        "adminboard",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	svc := authUsecase.NewService(repo, codec, nil, false, zap.NewNop())
	h := NewAuthHandler(svc, nil, refreshMaxAge, false, zap.NewNop())

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.POST("/api/auth/logout", h.Logout)
	return r, repo
}

func doJSON(r *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var env envelopeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	t.Fatal("refreshToken cookie not set")
	return nil
}

const registerBody = `{"email":"manager@example.com","password":"Valid123","role":"MANAGER"}`

// ---- register ----

func TestRegisterSetsRefreshCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	env := parseEnvelope(t, w)
	require.True(t, env.Success)
	require.Contains(t, string(env.Data), `"accessToken"`)
	require.NotContains(t, w.Body.String(), "password")

	c := refreshCookie(t, w)
	require.NotEmpty(t, c.Value)
	require.True(t, c.HttpOnly)
	require.Equal(t, "/", c.Path)
	require.Equal(t, refreshMaxAge, c.MaxAge)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.False(t, c.Secure)
}

func TestRegisterInvalidBody(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", `{"email":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := parseEnvelope(t, w)
	require.False(t, env.Success)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusConflict, w.Code)
	env := parseEnvelope(t, w)
	require.Equal(t, "EMAIL_ALREADY_EXISTS", env.Error.Code)
}

// ---- login ----

// Wrong password and unknown email must produce byte-identical bodies.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPw := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"manager@example.com","password":"WrongPass1"}`)
	noUser := doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com","password":"WrongPass1"}`)

	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	require.Equal(t, http.StatusUnauthorized, noUser.Code)
	require.Equal(t, wrongPw.Body.String(), noUser.Body.String())

	env := parseEnvelope(t, wrongPw)
	require.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	r, repo := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	u, err := repo.FindByEmail(context.Background(), "manager@example.com")
	require.NoError(t, err)
	_, err = repo.UpdateStatus(context.Background(), u.ID, user.StatusInactive)
	require.NoError(t, err)

	w = doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"manager@example.com","password":"Valid123"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
	env := parseEnvelope(t, w)
	require.Equal(t, "ACCOUNT_INACTIVE", env.Error.Code)
}

// newLimitedRouter wires a real redis-backed login limiter in front of
// the handler.
func newLimitedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeRepo()
	codec, err := token.NewCodec(token.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Issuer:        "adminboard",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	loginLimiter := limiter.NewLoginLimiter(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	svc := authUsecase.NewService(repo, codec, nil, false, zap.NewNop())
	h := NewAuthHandler(svc, loginLimiter, refreshMaxAge, false, zap.NewNop())

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func TestLoginRateLimitedAfterRepeatedFailures(t *testing.T) {
	r := newLimitedRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < 5; i++ {
		w = doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"manager@example.com","password":"WrongPass1"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	// Budget exhausted: even the correct password is rejected now.
	w = doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"manager@example.com","password":"Valid123"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	env := parseEnvelope(t, w)
	require.Equal(t, "RATE_LIMITED", env.Error.Code)
}

// Successful logins reset the counter: a user may log in any number of
// times inside one window without tripping the limiter.
func TestLoginSuccessDoesNotAccrueRateLimit(t *testing.T) {
	r := newLimitedRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	for i := 0; i < 6; i++ {
		w = doJSON(r, http.MethodPost, "/api/auth/login", `{"email":"manager@example.com","password":"Valid123"}`)
		require.Equal(t, http.StatusOK, w.Code, "login %d", i+1)
	}
}

// ---- refresh ----

func TestRefreshWithoutCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/refresh", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, w.Result().Cookies())
}

func TestRefreshWithInvalidTokenClearsCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/refresh", "",
		&http.Cookie{Name: RefreshCookieName, Value: "garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	c := refreshCookie(t, w)
	require.Empty(t, c.Value)
	require.Less(t, c.MaxAge, 0)
}

func TestRefreshWithValidCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	reg := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, reg.Code)
	c := refreshCookie(t, reg)

	w := doJSON(r, http.MethodPost, "/api/auth/refresh", "",
		&http.Cookie{Name: RefreshCookieName, Value: c.Value})
	require.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	require.True(t, env.Success)
	require.Contains(t, string(env.Data), `"accessToken"`)

	// The refresh token is not rotated: no new cookie on success.
	require.Empty(t, w.Result().Cookies())
}

func TestRefreshForDeactivatedUser(t *testing.T) {
	r, repo := newTestRouter(t)

	reg := doJSON(r, http.MethodPost, "/api/auth/register", registerBody)
	require.Equal(t, http.StatusCreated, reg.Code)
	c := refreshCookie(t, reg)

	u, err := repo.FindByEmail(context.Background(), "manager@example.com")
	require.NoError(t, err)
	_, err = repo.UpdateStatus(context.Background(), u.ID, user.StatusInactive)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/api/auth/refresh", "",
		&http.Cookie{Name: RefreshCookieName, Value: c.Value})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	cleared := refreshCookie(t, w)
	require.Empty(t, cleared.Value)
	require.Less(t, cleared.MaxAge, 0)
}

// ---- logout ----

func TestLogoutClearsCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)

	c := refreshCookie(t, w)
	require.Empty(t, c.Value)
	require.Less(t, c.MaxAge, 0)
}
