package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
)

const maxEventLimit = 500

func eventsHandler(eventStr core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			UserID string `json:"user"`
			FromID uint64 `json:"from"`
			Limit  int    `json:"limit"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		limit := params.Limit
		if limit <= 0 || limit > maxEventLimit {
			limit = maxEventLimit
		}

		var (
			events []*core.Event
			err    error
		)
		if params.UserID != "" {
			events, err = eventStr.ListByUser(ctx, params.UserID, limit)
		} else {
			events, err = eventStr.List(ctx, params.FromID, limit)
		}
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, events)
	}
}
