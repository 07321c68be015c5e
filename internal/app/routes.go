package app

import (
	"net/http"
	"strings"

	"github.com/vancomm/lifesweeper/internal/handlers"
)

func routes(basePath string, game *handlers.GameHandler, auth *handlers.Auth) *http.ServeMux {
	base := "/" + strings.Trim(basePath, "/")
	if base == "/" {
		base = ""
	}
	router := http.NewServeMux()

	router.HandleFunc("POST "+base+"/register", auth.Register)
	router.HandleFunc("POST "+base+"/login", auth.Login)
	router.HandleFunc("POST "+base+"/logout", auth.Logout)
	router.HandleFunc("GET "+base+"/status", auth.Status)

	router.HandleFunc("GET "+base+"/highscores", game.Highscores)

	router.HandleFunc("POST "+base+"/game", game.NewGame)
	router.HandleFunc("GET "+base+"/game/{id}", game.Fetch)
	router.HandleFunc("POST "+base+"/game/{id}/move", game.MakeAMove)
	router.HandleFunc("POST "+base+"/game/{id}/forfeit", game.Forfeit)
	router.HandleFunc("GET "+base+"/game/{id}/connect", game.ConnectWS)

	return router
}
