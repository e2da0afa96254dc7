package handler

import (
	"net/http"

	"github.com/go-chi/chi"

	"lendpool/core"
	"lendpool/handler/rest"
)

// Server server
type Server struct {
	reserveStore    core.IReserveStore
	positionStore   core.IPositionStore
	userConfigStore core.IUserConfigStore
	eventStore      core.IEventStore
	accountService  core.IAccountService
	poolService     core.IPoolService
}

// New new server function
func New(
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	userConfigStore core.IUserConfigStore,
	eventStore core.IEventStore,
	accountService core.IAccountService,
	poolService core.IPoolService,
) Server {
	return Server{
		reserveStore:    reserveStore,
		positionStore:   positionStore,
		userConfigStore: userConfigStore,
		eventStore:      eventStore,
		accountService:  accountService,
		poolService:     poolService,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)

	r.Mount("/", rest.Handle(
		s.reserveStore,
		s.positionStore,
		s.userConfigStore,
		s.eventStore,
		s.accountService,
		s.poolService,
	))

	return r
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
