package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/lifesweeper/internal/config"
	"github.com/vancomm/lifesweeper/internal/middleware"
	"github.com/vancomm/lifesweeper/internal/repository"
)

type Players interface {
	CreatePlayer(ctx context.Context, params repository.CreatePlayerParams) (*repository.Player, error)
	FetchPlayer(ctx context.Context, username string) (*repository.Player, error)
}

type Auth struct {
	log     *logrus.Logger
	players Players
	cookies *config.Cookies
}

func NewAuth(log *logrus.Logger, players Players, cookies *config.Cookies) *Auth {
	return &Auth{
		log:     log,
		players: players,
		cookies: cookies,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
	ErrUsernameTaken      = fmt.Errorf("username taken")
)

func (a Auth) credentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	if err := r.ParseForm(); err != nil {
		badRequest(w, a.log, ErrBadAuthBody)
		return "", "", false
	}
	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		badRequest(w, a.log, ErrBadAuthBody)
		return "", "", false
	}
	return username, password, true
}

func (a Auth) signIn(w http.ResponseWriter, player *repository.Player) {
	jwt := a.cookies.JWT()
	token, err := jwt.Sign(
		config.NewPlayerClaims(player.PlayerId, player.Username, jwt.TokenLifetime()),
	)
	if err != nil {
		internalError(w, a.log, "unable to create a jwt token", err)
		return
	}
	if err := a.cookies.Refresh(w, token); err != nil {
		internalError(w, a.log, "failed to set auth cookies", err)
		return
	}
	sendJSONOrLog(w, a.log, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerId, player.Username},
	})
}

func (a Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.log.Debug("could not parse cookies - clear cookies")
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.log, Status{LoggedIn: false})
		return
	}

	a.log.Debug("refresh cookies")
	a.signIn(w, &repository.Player{PlayerId: claims.PlayerId, Username: claims.Username})
}

func (a Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, ok := a.credentials(w, r)
	if !ok {
		return
	}

	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		badRequest(w, a.log, ErrBadPasswordTooLong)
		return
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes, bcrypt.DefaultCost)
	if err != nil {
		internalError(w, a.log, "unable to hash password", err)
		return
	}

	player, err := a.players.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		sendStatusJSON(w, a.log, http.StatusConflict, wrapError(ErrUsernameTaken))
		return
	}
	if err != nil {
		internalError(w, a.log, "unable to insert player", err)
		return
	}

	a.log.WithField("username", player.Username).Info("registered player")
	a.signIn(w, player)
}

func (a Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := a.credentials(w, r)
	if !ok {
		return
	}

	player, err := a.players.FetchPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		unauthorized(w)
		return
	}
	if err != nil {
		internalError(w, a.log, "could not fetch player from db", err)
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		unauthorized(w)
		return
	}
	if err != nil {
		a.log.WithError(err).Error("bcrypt compare error")
		unauthorized(w)
		return
	}

	a.signIn(w, player)
}

func (a Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	sendJSONOrLog(w, a.log, Status{LoggedIn: false})
}
