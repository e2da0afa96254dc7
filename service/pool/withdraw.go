package pool

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"

	"lendpool/core"
)

// Withdraw burns claim balance and releases the underlying. Amount may be
// MaxAmount to withdraw everything; the effective amount is returned. When
// the balance drops to zero the collateral flag is cleared.
func (s *poolService) Withdraw(ctx context.Context, params *core.WithdrawParams) (decimal.Decimal, error) {
	if err := s.requireRouter(ctx, params.Caller); err != nil {
		return decimal.Zero, err
	}

	reserve, err := s.mustGetReserve(ctx, params.AssetID)
	if err != nil {
		return decimal.Zero, err
	}

	position, err := s.positionStore.Find(ctx, params.UserID, params.AssetID)
	if err != nil {
		return decimal.Zero, err
	}

	now := s.clock()
	balance := position.ClaimBalance(reserve, now)

	amount := params.Amount
	if amount.Equal(core.MaxAmount) {
		amount = balance
	}

	if err := s.validateService.ValidateWithdraw(ctx, reserve, params.UserID, amount, balance, now); err != nil {
		return decimal.Zero, err
	}
	if amount.GreaterThan(reserve.AvailableLiquidity) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	to := params.To
	if to == "" {
		to = params.UserID
	}

	err = s.transactor.Tx(func(tx *db.DB) error {
		s.reserveService.UpdateState(ctx, reserve, now)

		core.BurnClaim(reserve, position, amount)
		reserve.AvailableLiquidity = reserve.AvailableLiquidity.Sub(amount)
		s.reserveService.UpdateInterestRates(ctx, reserve, decimal.Zero, amount)

		if err := s.ledgerService.Transfer(ctx, tx, &core.Transfer{
			TraceID:   uuid.Modify(params.TraceID, "withdraw_out"),
			Direction: core.TransferDirectionOut,
			AssetID:   params.AssetID,
			Opponent:  to,
			Amount:    amount,
			Memo:      "withdraw",
		}); err != nil {
			return err
		}

		if err := s.positionStore.Save(ctx, tx, position); err != nil {
			return err
		}
		if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
			return err
		}

		if !position.ScaledClaimBalance.IsPositive() {
			userCfg, err := s.userConfigStore.Find(ctx, params.UserID)
			if err != nil {
				return err
			}
			if userCfg.UsingAsCollateral(reserve.ID) {
				userCfg.SetUsingAsCollateral(reserve.ID, false)
				if err := s.userConfigStore.Save(ctx, tx, userCfg); err != nil {
					return err
				}

				if err := s.eventStore.Create(ctx, tx, &core.Event{
					TraceID: uuid.Modify(params.TraceID, "collateral_disabled"),
					ChainID: s.system.ChainID,
					Type:    core.EventTypeCollateralDisabled,
					UserID:  params.UserID,
					AssetID: params.AssetID,
				}); err != nil {
					return err
				}
			}
		}

		return s.eventStore.Create(ctx, tx, &core.Event{
			TraceID: params.TraceID,
			ChainID: s.system.ChainID,
			Type:    core.EventTypeWithdraw,
			UserID:  params.UserID,
			AssetID: params.AssetID,
			Amount:  amount,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}
