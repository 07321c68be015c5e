package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/lifesweeper/internal/mines"
	"github.com/vancomm/lifesweeper/internal/store"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsForfeit wsCommand = "r"
)

var commandNargs = map[wsCommand]int{
	wsNoop:    0,
	wsOpen:    2,
	wsFlag:    2,
	wsChord:   2,
	wsForfeit: 0,
}

type command struct {
	name wsCommand
	pos  mines.Point
}

func parseXY(args []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("second argument must be an int")
		return
	}
	return
}

// parseCommand reads one line: "g", "r", or "o|f|c x y".
func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, fmt.Errorf("empty command")
	}

	name := wsCommand(parts[0])
	nargs, ok := commandNargs[name]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, fmt.Errorf("invalid number of arguments")
	}

	cmd := command{name: name}
	if nargs == 2 {
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return command{}, err
		}
		cmd.pos = mines.Point{Y: y, X: x}
	}
	return cmd, nil
}

func (c command) apply(state *mines.GameState) ([]mines.Point, error) {
	switch c.name {
	case wsNoop:
		return nil, nil
	case wsForfeit:
		state.Forfeit()
		return nil, nil
	}
	if !state.InBounds(c.pos.Y, c.pos.X) {
		return nil, fmt.Errorf("invalid square coordinates")
	}
	switch c.name {
	case wsOpen:
		return applyMove(state, Open, c.pos), nil
	case wsFlag:
		return applyMove(state, Flag, c.pos), nil
	default:
		return applyMove(state, Chord, c.pos), nil
	}
}

// runFrame executes every command in one text frame, stopping early once
// the game ends.
func runFrame(session *store.Session, frame string) (changed []mines.Point, ended bool, err error) {
	for _, line := range strings.Split(strings.TrimSpace(frame), "\n") {
		cmd, err := parseCommand(line)
		if err != nil {
			return changed, ended, err
		}
		var cmdErr error
		ended = session.Update(func(state *mines.GameState) {
			var points []mines.Point
			points, cmdErr = cmd.apply(state)
			changed = append(changed, points...)
		}) || ended
		if cmdErr != nil {
			return changed, ended, cmdErr
		}
		if ended {
			break
		}
	}
	return changed, ended, nil
}

func (g GameHandler) wsRunGameLoop(
	ctx context.Context, conn *websocket.Conn, session *store.Session,
) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		g.log.Debug("\t> " + strings.TrimSpace(string(buf)))

		changed, ended, err := runFrame(session, string(buf))
		if ended {
			g.record(ctx, session)
		}
		if err != nil {
			if err := conn.WriteJSON(wrapError(err)); err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
			continue
		}

		var dto *GameSessionDTO
		session.View(func(state *mines.GameState, endedAt *time.Time) {
			dto = NewGameSessionDTO(session.ID, session.StartedAt, endedAt, state, changed)
		})
		if err := conn.WriteJSON(dto); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
		g.log.Debug("\t< <session data>")
	}
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer conn.Close()

	log := g.log.WithField("session_id", session.ID)
	log.Debug("established WS connection")

	err = g.wsRunGameLoop(r.Context(), conn, session)
	if err != nil && !websocket.IsCloseError(
		err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
	) {
		log.WithError(err).Warn("abnormal ws break")
	}
}
