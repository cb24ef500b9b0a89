package app

import (
	"log/slog"
	"net/http"

	"github.com/vancomm/mazeboard/internal/config"
	"github.com/vancomm/mazeboard/internal/handlers"
	"github.com/vancomm/mazeboard/internal/middleware"
)

// NewRouter mounts the board routes under basePath and wraps them in the
// middleware chain.
func NewRouter(
	logger *slog.Logger,
	board *handlers.BoardHandler,
	jwt *config.JWT,
	basePath string,
) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("POST "+basePath+"/board", board.NewBoard)
	router.HandleFunc("GET "+basePath+"/board/{id}", board.Fetch)
	router.HandleFunc("GET "+basePath+"/board/{id}/text", board.Text)
	router.HandleFunc("POST "+basePath+"/board/{id}/regenerate", board.Regenerate)
	router.HandleFunc("POST "+basePath+"/board/{id}/save", board.Save)
	router.HandleFunc("POST "+basePath+"/board/{id}/load", board.Load)
	router.HandleFunc("GET "+basePath+"/board/{id}/slots", board.Slots)
	router.HandleFunc("DELETE "+basePath+"/board/{id}/slots/{slot}", board.DeleteSlot)
	router.HandleFunc("GET "+basePath+"/board/{id}/connect", board.ConnectWS)

	return middleware.Wrap(
		router,
		middleware.Auth(logger, jwt),
		middleware.Cors(),
		middleware.Logging(logger),
	)
}
