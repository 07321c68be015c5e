package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/lifesweeper/internal/mines"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

var ErrPartialSize = errors.New("both height and width are required")

type NewGameDTO struct {
	Size   string `schema:"size"`
	Height *int   `schema:"height"`
	Width  *int   `schema:"width"`
}

// ParseNewGameDTO reads either size=<width>x<height> or the height and
// width pair. Neither gives the default board.
func ParseNewGameDTO(src url.Values) (mines.GameParams, error) {
	var dto NewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, err
	}
	switch {
	case dto.Size != "":
		return mines.ParseSize(dto.Size)
	case dto.Height != nil && dto.Width != nil:
		return mines.GameParams{Height: *dto.Height, Width: *dto.Width}, nil
	case dto.Height != nil || dto.Width != nil:
		return mines.GameParams{}, ErrPartialSize
	default:
		return mines.GameParams{Height: mines.DefaultSize, Width: mines.DefaultSize}, nil
	}
}

type Move string

const (
	Open  Move = "open"
	Flag  Move = "flag"
	Chord Move = "chord"
)

func ParseMove(s string) (Move, error) {
	switch m := Move(s); m {
	case Open, Flag, Chord:
		return m, nil
	default:
		return "", fmt.Errorf("invalid move %q", s)
	}
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	X    int    `schema:"x,required"`
	Y    int    `schema:"y,required"`
}

func ParseMoveDTO(src url.Values) (Move, mines.Point, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return "", mines.Point{}, err
	}
	move, err := ParseMove(dto.Move)
	if err != nil {
		return "", mines.Point{}, err
	}
	return move, mines.Point{Y: dto.Y, X: dto.X}, nil
}

type HighscoreDTO struct {
	Size     string `schema:"size"`
	Seed     string `schema:"seed"`
	Username string `schema:"username"`
	Limit    int    `schema:"limit"`
}

type GameSessionDTO struct {
	SessionId      string         `json:"session_id"`
	Grid           mines.GridInfo `json:"grid"`
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	MineCount      int            `json:"mine_count"`
	FlagsRemaining int            `json:"flags_remaining"`
	Status         mines.Status   `json:"status"`
	Changed        []mines.Point  `json:"changed,omitempty"`
	StartedAt      int64          `json:"started_at"`
	EndedAt        *int64         `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(
	sessionId string,
	startedAt time.Time,
	endedAt *time.Time,
	g *mines.GameState,
	changed []mines.Point,
) *GameSessionDTO {
	var endedAtInt *int64
	if endedAt != nil {
		e := endedAt.UnixMilli()
		endedAtInt = &e
	}
	return &GameSessionDTO{
		SessionId:      sessionId,
		Grid:           g.Snapshot(),
		Width:          g.Width,
		Height:         g.Height,
		MineCount:      g.Objective,
		FlagsRemaining: g.FlagsRemaining(),
		Status:         g.Status,
		Changed:        changed,
		StartedAt:      startedAt.UnixMilli(),
		EndedAt:        endedAtInt,
	}
}
