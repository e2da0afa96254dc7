package rest

import (
	"net/http"

	"lendpool/core"
	"lendpool/handler/render"
)

func poolHandler(poolSrv core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		paused, err := poolSrv.Paused(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"paused":                 paused,
			"flash_loan_premium_bps": poolSrv.FlashLoanPremium(),
		})
	}
}
