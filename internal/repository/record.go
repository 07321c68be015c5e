package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Record is a finished game.
type Record struct {
	GameRecordId int64
	SessionId    string
	PlayerId     *int64
	Width        int
	Height       int
	MineCount    int
	Won          bool
	StartedAt    time.Time
	EndedAt      time.Time
	CreatedAt    pgtype.Timestamptz
}

type CreateRecordParams struct {
	SessionId string
	PlayerId  *int64
	Width     int
	Height    int
	MineCount int
	Won       bool
	StartedAt time.Time
	EndedAt   time.Time
}

func (p CreateRecordParams) Args() pgx.NamedArgs {
	args := pgx.NamedArgs{
		"session_id": p.SessionId,
		"player_id":  nil,
		"width":      p.Width,
		"height":     p.Height,
		"mine_count": p.MineCount,
		"won":        p.Won,
		"started_at": p.StartedAt,
		"ended_at":   p.EndedAt,
	}
	if p.PlayerId != nil {
		args["player_id"] = *p.PlayerId
	}
	return args
}

func (q *Queries) CreateRecord(ctx context.Context, params CreateRecordParams) (*Record, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_record (
			session_id, player_id, width, height, mine_count, won, started_at, ended_at
		)
		VALUES (
			@session_id, @player_id, @width, @height, @mine_count, @won, @started_at, @ended_at
		)
		RETURNING *;`,
		params.Args(),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Record])
}
