package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vancomm/lifesweeper/internal/handlers"
)

func TestRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base    string
		method  string
		path    string
		pattern string
	}{
		{"", http.MethodPost, "/game", "POST /game"},
		{"", http.MethodGet, "/game/abc", "GET /game/{id}"},
		{"", http.MethodPost, "/game/abc/move", "POST /game/{id}/move"},
		{"", http.MethodPost, "/game/abc/forfeit", "POST /game/{id}/forfeit"},
		{"", http.MethodGet, "/game/abc/connect", "GET /game/{id}/connect"},
		{"", http.MethodGet, "/highscores", "GET /highscores"},
		{"", http.MethodPost, "/login", "POST /login"},
		{"/api/", http.MethodGet, "/api/status", "GET /api/status"},
		{"api", http.MethodPost, "/api/register", "POST /api/register"},
		{"/", http.MethodPost, "/logout", "POST /logout"},
	}
	for _, test := range tests {
		t.Run(test.base+test.path, func(t *testing.T) {
			router := routes(test.base, &handlers.GameHandler{}, &handlers.Auth{})
			_, pattern := router.Handler(httptest.NewRequest(test.method, test.path, nil))
			assert.Equal(t, test.pattern, pattern)
		})
	}
}

func TestRoutesRejectWrongMethod(t *testing.T) {
	t.Parallel()

	router := routes("", &handlers.GameHandler{}, &handlers.Auth{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/game", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
