package handlers

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/lifesweeper/internal/config"
	"github.com/vancomm/lifesweeper/internal/middleware"
	"github.com/vancomm/lifesweeper/internal/mines"
	"github.com/vancomm/lifesweeper/internal/repository"
	"github.com/vancomm/lifesweeper/internal/store"
)

var ErrInvalidPosition = errors.New("invalid cell position")

type Sessions interface {
	Create(state *mines.GameState, playerID *int64) *store.Session
	Get(id string) (*store.Session, error)
}

type Records interface {
	CreateRecord(ctx context.Context, params repository.CreateRecordParams) (*repository.Record, error)
	GetHighscores(ctx context.Context, filter repository.HighscoreFilter) ([]repository.Highscore, error)
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

type GameHandler struct {
	log      *logrus.Logger
	sessions Sessions
	records  Records
	ws       *config.WebSocket
	bounds   mines.Bounds
	newRand  func() *rand.Rand
}

func NewGameHandler(
	log *logrus.Logger,
	sessions Sessions,
	records Records,
	ws *config.WebSocket,
	bounds mines.Bounds,
) *GameHandler {
	return &GameHandler{
		log:      log,
		sessions: sessions,
		records:  records,
		ws:       ws,
		bounds:   bounds,
		newRand:  createRand,
	}
}

func (g GameHandler) reply(
	w http.ResponseWriter, session *store.Session, changed []mines.Point,
) {
	var dto *GameSessionDTO
	session.View(func(state *mines.GameState, endedAt *time.Time) {
		dto = NewGameSessionDTO(session.ID, session.StartedAt, endedAt, state, changed)
	})
	sendJSONOrLog(w, g.log, dto)
}

// record stores a finished game. Failures are logged only: the live session
// keeps its result either way.
func (g GameHandler) record(ctx context.Context, session *store.Session) {
	var params repository.CreateRecordParams
	session.View(func(state *mines.GameState, endedAt *time.Time) {
		params = repository.CreateRecordParams{
			SessionId: session.ID,
			PlayerId:  session.PlayerID,
			Width:     state.Width,
			Height:    state.Height,
			MineCount: state.Objective,
			Won:       state.Status == mines.Won,
			StartedAt: session.StartedAt,
			EndedAt:   *endedAt,
		}
	})

	log := g.log.WithFields(logrus.Fields{
		"session_id": params.SessionId,
		"won":        params.Won,
		"size":       mines.GameParams{Height: params.Height, Width: params.Width}.Size(),
	})
	if _, err := g.records.CreateRecord(ctx, params); err != nil {
		log.WithError(err).Error("unable to store game record")
		return
	}
	log.Info("game finished")
}

func (g GameHandler) session(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	session, err := g.sessions.Get(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return nil, false
	}
	if err != nil {
		internalError(w, g.log, "unable to fetch session", err)
		return nil, false
	}
	return session, true
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		badRequest(w, g.log, err)
		return
	}

	state, err := mines.NewGame(params, g.bounds, g.newRand())
	var sizeErr *mines.InvalidSizeError
	if errors.As(err, &sizeErr) {
		badRequest(w, g.log, err)
		return
	}
	if err != nil {
		internalError(w, g.log, "unable to create a new game", err)
		return
	}

	var playerID *int64
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		playerID = &claims.PlayerId
	}
	session := g.sessions.Create(state, playerID)

	g.log.WithFields(logrus.Fields{
		"session_id":   session.ID,
		"size":         params.Size(),
		"objective":    state.Objective,
		"spawn_parity": state.SpawnParity,
		"logged_in":    playerID != nil,
	}).Debug("created game session")

	g.reply(w, session, nil)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}
	g.reply(w, session, nil)
}

func applyMove(state *mines.GameState, move Move, p mines.Point) []mines.Point {
	switch move {
	case Open:
		return state.Reveal(p.Y, p.X).Changed
	case Flag:
		if state.ToggleFlag(p.Y, p.X).OK {
			return []mines.Point{p}
		}
	case Chord:
		return state.Chord(p.Y, p.X).Changed
	}
	return nil
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	move, pos, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		badRequest(w, g.log, err)
		return
	}

	session, ok := g.session(w, r)
	if !ok {
		return
	}

	var (
		changed  []mines.Point
		inBounds bool
	)
	ended := session.Update(func(state *mines.GameState) {
		if inBounds = state.InBounds(pos.Y, pos.X); inBounds {
			changed = applyMove(state, move, pos)
		}
	})
	if !inBounds {
		badRequest(w, g.log, ErrInvalidPosition)
		return
	}
	if ended {
		g.record(r.Context(), session)
	}

	g.reply(w, session, changed)
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}

	if session.Update(func(state *mines.GameState) { state.Forfeit() }) {
		g.record(r.Context(), session)
	}

	g.reply(w, session, nil)
}

func (g GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	var dto HighscoreDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		badRequest(w, g.log, err)
		return
	}

	filter := repository.HighscoreFilter{Limit: dto.Limit}
	switch {
	case dto.Size != "":
		params, err := mines.ParseSize(dto.Size)
		if err != nil {
			badRequest(w, g.log, err)
			return
		}
		filter.GameParams = &params
	case dto.Seed != "":
		params, err := mines.ParseSeed(dto.Seed)
		if err != nil {
			badRequest(w, g.log, fmt.Errorf("invalid seed: %w", err))
			return
		}
		filter.GameParams = params
	}
	if dto.Username != "" {
		filter.Username = &dto.Username
	}

	highscores, err := g.records.GetHighscores(r.Context(), filter)
	if err != nil {
		internalError(w, g.log, "failed to fetch highscores", err)
		return
	}
	if highscores == nil {
		highscores = []repository.Highscore{}
	}

	sendJSONOrLog(w, g.log, highscores)
}
