package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/lifesweeper/internal/middleware"
	"github.com/vancomm/lifesweeper/internal/repository"
)

type fakePlayers struct {
	mu      sync.Mutex
	players map[string]*repository.Player
}

func (f *fakePlayers) CreatePlayer(
	ctx context.Context, params repository.CreatePlayerParams,
) (*repository.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.players[params.Username]; ok {
		return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	player := &repository.Player{
		PlayerId:     int64(len(f.players) + 1),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
	}
	f.players[params.Username] = player
	return player, nil
}

func (f *fakePlayers) FetchPlayer(ctx context.Context, username string) (*repository.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	player, ok := f.players[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return player, nil
}

type authServer struct {
	handler http.Handler
}

func newAuthServer(t *testing.T) *authServer {
	t.Helper()

	log := newTestLogger()
	cookies := newTestCookies(t)
	auth := NewAuth(log, &fakePlayers{players: map[string]*repository.Player{}}, cookies)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", auth.Register)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", auth.Logout)
	mux.HandleFunc("GET /status", auth.Status)

	return &authServer{handler: middleware.Wrap(mux, middleware.Auth(log, cookies))}
}

func (s *authServer) form(t *testing.T, target, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := url.Values{"username": {username}, "password": {password}}.Encode()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *authServer) status(t *testing.T, cookies []*http.Cookie) Status {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return status
}

func TestRegisterAndStatus(t *testing.T) {
	t.Parallel()

	s := newAuthServer(t)
	rec := s.form(t, "/register", "ada", "lovelace")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	status := s.status(t, cookies)
	assert.True(t, status.LoggedIn)
	require.NotNil(t, status.Player)
	assert.Equal(t, "ada", status.Player.Username)
	assert.Equal(t, int64(1), status.Player.PlayerId)

	assert.False(t, s.status(t, nil).LoggedIn)
}

func TestRegisterErrors(t *testing.T) {
	t.Parallel()

	s := newAuthServer(t)
	require.Equal(t, http.StatusOK, s.form(t, "/register", "ada", "lovelace").Code)

	rec := s.form(t, "/register", "ada", "other")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Result().Header.Get("Content-Type"))
	assert.Equal(t, ErrUsernameTaken.Error(), decodeError(t, rec))

	rec = s.form(t, "/register", "bob", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrBadAuthBody.Error(), decodeError(t, rec))

	rec = s.form(t, "/register", "bob", strings.Repeat("p", 73))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrBadPasswordTooLong.Error(), decodeError(t, rec))
}

func TestLogin(t *testing.T) {
	t.Parallel()

	s := newAuthServer(t)
	require.Equal(t, http.StatusOK, s.form(t, "/register", "ada", "lovelace").Code)

	rec := s.form(t, "/login", "ada", "lovelace")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.status(t, rec.Result().Cookies()).LoggedIn)

	assert.Equal(t, http.StatusUnauthorized, s.form(t, "/login", "ada", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, s.form(t, "/login", "nobody", "x").Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	t.Parallel()

	s := newAuthServer(t)
	rec := s.form(t, "/logout", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge, c.Name)
	}
}

func TestTamperedCookiesAreCleared(t *testing.T) {
	t.Parallel()

	s := newAuthServer(t)
	rec := s.form(t, "/register", "ada", "lovelace")
	cookies := rec.Result().Cookies()
	for _, c := range cookies {
		if c.Name == "auth" {
			c.Value += "x"
		}
	}
	assert.False(t, s.status(t, cookies).LoggedIn)
}
