package rest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"lendpool/core"
	"lendpool/handler/render"
)

// Handle handle rest api request
func Handle(
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	userConfigStore core.IUserConfigStore,
	eventStore core.IEventStore,
	accountService core.IAccountService,
	poolService core.IPoolService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/reserves/all", allReservesHandler(reserveStore, positionStore))
	router.Get("/reserves", reserveHandler(reserveStore, positionStore))
	router.Get("/account", accountHandler(reserveStore, positionStore, userConfigStore, accountService))
	router.Get("/events", eventsHandler(eventStore))
	router.Get("/pool", poolHandler(poolService))

	return router
}
