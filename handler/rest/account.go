package rest

import (
	"errors"
	"net/http"
	"time"

	"lendpool/core"
	"lendpool/handler/param"
	"lendpool/handler/render"
	"lendpool/handler/views"
)

func accountHandler(
	reserveStr core.IReserveStore,
	positionStr core.IPositionStore,
	userConfigStr core.IUserConfigStore,
	accountSrv core.IAccountService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			UserID string `json:"user"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}
		if params.UserID == "" {
			render.BadRequest(w, errors.New("user required"))
			return
		}

		now := time.Now()
		data, err := accountSrv.CalculateUserAccountData(ctx, params.UserID, now)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		userConfig, err := userConfigStr.Find(ctx, params.UserID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		positions, err := positionStr.FindByUser(ctx, params.UserID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		positionViews := make([]*views.Position, 0, len(positions))
		for _, position := range positions {
			reserve, err := reserveStr.Find(ctx, position.AssetID)
			if err != nil {
				continue
			}

			positionViews = append(positionViews, &views.Position{
				Position:         *position,
				ClaimBalance:     position.ClaimBalance(reserve, now),
				VariableDebt:     position.VariableDebt(reserve, now),
				StableDebt:       position.StableDebt(now),
				UsedAsCollateral: userConfig.UsingAsCollateral(reserve.ID),
				Borrowing:        userConfig.IsBorrowing(reserve.ID),
			})
		}

		render.JSON(w, &views.Account{
			AccountData: *data,
			Positions:   positionViews,
		})
	}
}
