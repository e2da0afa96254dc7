package pool

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"

	"lendpool/core"
)

// Repay retires debt of the selected mode. Amount may be MaxAmount to repay
// everything; it is otherwise capped at the outstanding debt. The effective
// amount is returned.
func (s *poolService) Repay(ctx context.Context, params *core.RepayParams) (decimal.Decimal, error) {
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

	if err := s.validateService.ValidateRepay(reserve, position, params.RateMode, params.Amount, now); err != nil {
		return decimal.Zero, err
	}

	var debt decimal.Decimal
	switch params.RateMode {
	case core.RateModeStable:
		debt = position.StableDebt(now)
	case core.RateModeVariable:
		debt = position.VariableDebt(reserve, now)
	default:
		return decimal.Zero, core.ErrInconsistentParams
	}

	amount := params.Amount
	if amount.Equal(core.MaxAmount) || amount.GreaterThan(debt) {
		amount = debt
	}

	err = s.transactor.Tx(func(tx *db.DB) error {
		s.reserveService.UpdateState(ctx, reserve, now)

		if params.RateMode == core.RateModeStable {
			core.BurnStableDebt(reserve, position, amount, now)
		} else {
			core.BurnVariableDebt(reserve, position, amount)
		}

		reserve.AvailableLiquidity = reserve.AvailableLiquidity.Add(amount)
		s.reserveService.UpdateInterestRates(ctx, reserve, amount, decimal.Zero)

		if err := s.ledgerService.Transfer(ctx, tx, &core.Transfer{
			TraceID:   uuid.Modify(params.TraceID, "repay_in"),
			Direction: core.TransferDirectionIn,
			AssetID:   params.AssetID,
			Opponent:  params.UserID,
			Amount:    amount,
			Memo:      "repay",
		}); err != nil {
			return err
		}

		if err := s.positionStore.Save(ctx, tx, position); err != nil {
			return err
		}
		if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
			return err
		}

		if !position.TotalDebt(reserve, now).IsPositive() {
			userCfg, err := s.userConfigStore.Find(ctx, params.UserID)
			if err != nil {
				return err
			}
			if userCfg.IsBorrowing(reserve.ID) {
				userCfg.SetBorrowing(reserve.ID, false)
				if err := s.userConfigStore.Save(ctx, tx, userCfg); err != nil {
					return err
				}
			}
		}

		return s.eventStore.Create(ctx, tx, &core.Event{
			TraceID: params.TraceID,
			ChainID: s.system.ChainID,
			Type:    core.EventTypeRepay,
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
