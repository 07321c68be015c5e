// custom query
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/lifesweeper/internal/mines"
)

const DefaultHighscoreLimit = 50

type Highscore struct {
	SessionId  string  `json:"session_id"`
	Username   *string `json:"username"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	MineCount  int     `json:"mine_count"`
	PlaytimeMs float64 `json:"playtime_ms"`
}

type HighscoreFilter struct {
	Username   *string
	GameParams *mines.GameParams
	Limit      int
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.GameParams != nil {
		clauses = append(clauses, "width = @width", "height = @height")
		args["width"] = f.GameParams.Width
		args["height"] = f.GameParams.Height
	}
	return strings.Join(clauses, " AND "), args
}

func (f HighscoreFilter) Query() (string, pgx.NamedArgs) {
	query := `
	SELECT
		session_id,
		username,
		width,
		height,
		mine_count,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_record
		LEFT OUTER JOIN player using (player_id)
	WHERE
		won = true`

	whereClause, args := f.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultHighscoreLimit
	}
	args["limit"] = limit

	return query + " ORDER BY playtime_ms LIMIT @limit;", args
}

func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query, args := filter.Query()
	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
