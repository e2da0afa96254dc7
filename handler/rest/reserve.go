package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"
)

func allReservesHandler(reserveStr core.IReserveStore, positionStr core.IPositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		reserves, err := reserveStr.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		now := time.Now()
		reserveViews := make([]*views.Reserve, 0, len(reserves))
		for _, reserve := range reserves {
			reserveViews = append(reserveViews, getReserveView(ctx, reserve, positionStr, now))
		}

		render.JSON(w, reserveViews)
	}
}

func reserveHandler(reserveStr core.IReserveStore, positionStr core.IPositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			AssetID string `json:"asset"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		reserve, err := reserveStr.Find(ctx, params.AssetID)
		if err != nil {
			render.NotFoundRequest(w, err)
			return
		}

		render.JSON(w, getReserveView(ctx, reserve, positionStr, time.Now()))
	}
}

func getReserveView(ctx context.Context, reserve *core.Reserve, positionStr core.IPositionStore, now time.Time) *views.Reserve {
	totalDebt := reserve.TotalVariableDebt(now).Add(reserve.TotalStableDebt)

	utilization := decimal.Zero
	if liquidity := reserve.AvailableLiquidity.Add(totalDebt); liquidity.IsPositive() {
		utilization = totalDebt.Div(liquidity).Truncate(8)
	}

	suppliers, err := positionStr.CountByAsset(ctx, reserve.AssetID)
	if err != nil {
		suppliers = 0
	}

	return &views.Reserve{
		Reserve:              *reserve,
		ReserveConfiguration: reserve.Config(),
		TotalClaimSupply:     reserve.TotalClaimSupply(now),
		TotalVariableDebt:    reserve.TotalVariableDebt(now),
		UtilizationRate:      utilization,
		Suppliers:            suppliers,
	}
}
