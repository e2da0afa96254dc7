package pool

import (
	"context"

	"github.com/fox-one/pkg/store/db"

	"lendpool/core"
)

// SetUserUseReserveAsCollateral toggles whether the user's claim balance in
// the reserve backs their debt. Disabling is refused while it would push the
// health factor below one.
func (s *poolService) SetUserUseReserveAsCollateral(ctx context.Context, params *core.CollateralParams) error {
	if err := s.requireRouter(ctx, params.Caller); err != nil {
		return err
	}

	reserve, err := s.mustGetReserve(ctx, params.AssetID)
	if err != nil {
		return err
	}

	position, err := s.positionStore.Find(ctx, params.UserID, params.AssetID)
	if err != nil {
		return err
	}

	now := s.clock()
	balance := position.ClaimBalance(reserve, now)

	if err := s.validateService.ValidateSetUseReserveAsCollateral(ctx, reserve, params.UserID, params.UseAsCollateral, balance, now); err != nil {
		return err
	}

	return s.transactor.Tx(func(tx *db.DB) error {
		userCfg, err := s.userConfigStore.Find(ctx, params.UserID)
		if err != nil {
			return err
		}

		if userCfg.UsingAsCollateral(reserve.ID) == params.UseAsCollateral {
			return nil
		}

		userCfg.SetUsingAsCollateral(reserve.ID, params.UseAsCollateral)
		if err := s.userConfigStore.Save(ctx, tx, userCfg); err != nil {
			return err
		}

		eventType := core.EventTypeCollateralEnabled
		if !params.UseAsCollateral {
			eventType = core.EventTypeCollateralDisabled
		}

		return s.eventStore.Create(ctx, tx, &core.Event{
			TraceID: params.TraceID,
			ChainID: s.system.ChainID,
			Type:    eventType,
			UserID:  params.UserID,
			AssetID: params.AssetID,
			Amount:  balance,
		})
	})
}
