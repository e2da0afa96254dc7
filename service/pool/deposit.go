package pool

import (
	"context"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"

	"lendpool/core"
)

// Deposit pulls the amount into the pool and mints the corresponding claim
// balance. The first deposit into a reserve enables it as collateral for the
// user.
func (s *poolService) Deposit(ctx context.Context, params *core.DepositParams) error {
	if err := s.requireRouter(ctx, params.Caller); err != nil {
		return err
	}

	reserve, err := s.mustGetReserve(ctx, params.AssetID)
	if err != nil {
		return err
	}

	if err := s.validateService.ValidateDeposit(reserve, params.Amount); err != nil {
		return err
	}

	now := s.clock()

	return s.transactor.Tx(func(tx *db.DB) error {
		s.reserveService.UpdateState(ctx, reserve, now)

		position, err := s.positionStore.Find(ctx, params.UserID, params.AssetID)
		if err != nil {
			return err
		}
		firstDeposit := !position.ScaledClaimBalance.IsPositive()

		core.MintClaim(reserve, position, params.Amount)
		reserve.AvailableLiquidity = reserve.AvailableLiquidity.Add(params.Amount)
		s.reserveService.UpdateInterestRates(ctx, reserve, params.Amount, decimal.Zero)

		if err := s.ledgerService.Transfer(ctx, tx, &core.Transfer{
			TraceID:   uuid.Modify(params.TraceID, "deposit_in"),
			Direction: core.TransferDirectionIn,
			AssetID:   params.AssetID,
			Opponent:  params.UserID,
			Amount:    params.Amount,
			Memo:      "deposit",
		}); err != nil {
			return err
		}

		if err := s.positionStore.Save(ctx, tx, position); err != nil {
			return err
		}
		if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
			return err
		}

		if firstDeposit {
			userCfg, err := s.userConfigStore.Find(ctx, params.UserID)
			if err != nil {
				return err
			}
			userCfg.SetUsingAsCollateral(reserve.ID, true)
			if err := s.userConfigStore.Save(ctx, tx, userCfg); err != nil {
				return err
			}

			if err := s.eventStore.Create(ctx, tx, &core.Event{
				TraceID: uuid.Modify(params.TraceID, "collateral_enabled"),
				ChainID: s.system.ChainID,
				Type:    core.EventTypeCollateralEnabled,
				UserID:  params.UserID,
				AssetID: params.AssetID,
			}); err != nil {
				return err
			}
		}

		if err := s.eventStore.Create(ctx, tx, &core.Event{
			TraceID: params.TraceID,
			ChainID: s.system.ChainID,
			Type:    core.EventTypeDeposit,
			UserID:  params.UserID,
			AssetID: params.AssetID,
			Amount:  params.Amount,
		}); err != nil {
			return err
		}

		logger.FromContext(ctx).WithField("asset", params.AssetID).Debugln("deposit accepted")
		return nil
	})
}
