package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	mrand "math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/lifesweeper/internal/config"
	"github.com/vancomm/lifesweeper/internal/mines"
	"github.com/vancomm/lifesweeper/internal/repository"
	"github.com/vancomm/lifesweeper/internal/store"
)

func TestMain(m *testing.M) {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	os.Exit(m.Run())
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeRecords struct {
	mu         sync.Mutex
	created    []repository.CreateRecordParams
	filter     repository.HighscoreFilter
	highscores []repository.Highscore
}

func (f *fakeRecords) CreateRecord(
	ctx context.Context, params repository.CreateRecordParams,
) (*repository.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	return &repository.Record{GameRecordId: int64(len(f.created)), SessionId: params.SessionId}, nil
}

func (f *fakeRecords) GetHighscores(
	ctx context.Context, filter repository.HighscoreFilter,
) ([]repository.Highscore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	return f.highscores, nil
}

func (f *fakeRecords) Created() []repository.CreateRecordParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.CreateRecordParams(nil), f.created...)
}

type testServer struct {
	mux      *http.ServeMux
	game     *GameHandler
	sessions *store.Store
	records  *fakeRecords
}

func newTestServer(t *testing.T, bounds mines.Bounds) *testServer {
	t.Helper()

	log := newTestLogger()
	sessions := store.New(log, time.Hour)
	records := &fakeRecords{}
	game := NewGameHandler(log, sessions, records, config.NewWebSocket(nil), bounds)
	game.newRand = func() *mrand.Rand { return mrand.New(mrand.NewPCG(1, 2)) }

	mux := http.NewServeMux()
	mux.HandleFunc("POST /game", game.NewGame)
	mux.HandleFunc("GET /game/{id}", game.Fetch)
	mux.HandleFunc("POST /game/{id}/move", game.MakeAMove)
	mux.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	mux.HandleFunc("GET /game/{id}/connect", game.ConnectWS)
	mux.HandleFunc("GET /highscores", game.Highscores)

	return &testServer{mux: mux, game: game, sessions: sessions, records: records}
}

func (s *testServer) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) GameSessionDTO {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dto GameSessionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func newTestCookies(t *testing.T) *config.Cookies {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	private := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	public := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicBytes})

	j, err := config.NewJWT(config.JWTInfo{
		PrivateKey:    string(private),
		PublicKey:     string(public),
		TokenLifetime: time.Hour,
	})
	require.NoError(t, err)
	return config.NewCookies(config.CookiesInfo{SameSite: "strict"}, j)
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
