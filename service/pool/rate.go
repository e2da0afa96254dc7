package pool

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"

	"lendpool/core"
)

type rateEventData struct {
	FromMode core.RateMode   `json:"from_mode"`
	ToMode   core.RateMode   `json:"to_mode,omitempty"`
	Rate     decimal.Decimal `json:"rate"`
}

// SwapBorrowRateMode moves the user's whole debt of the given mode into the
// other mode at the reserve's current rates.
func (s *poolService) SwapBorrowRateMode(ctx context.Context, params *core.SwapRateModeParams) error {
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

	if err := s.validateService.ValidateSwapRateMode(reserve, position, params.RateMode, now); err != nil {
		return err
	}

	return s.transactor.Tx(func(tx *db.DB) error {
		s.reserveService.UpdateState(ctx, reserve, now)

		var (
			amount decimal.Decimal
			toMode core.RateMode
			rate   decimal.Decimal
		)
		switch params.RateMode {
		case core.RateModeStable:
			amount = position.StableDebt(now)
			core.BurnStableDebt(reserve, position, amount, now)
			core.MintVariableDebt(reserve, position, amount)
			toMode, rate = core.RateModeVariable, reserve.CurrentVariableBorrowRate
		case core.RateModeVariable:
			amount = position.VariableDebt(reserve, now)
			core.BurnVariableDebt(reserve, position, amount)
			core.MintStableDebt(reserve, position, amount, reserve.CurrentStableBorrowRate, now)
			toMode, rate = core.RateModeStable, reserve.CurrentStableBorrowRate
		default:
			return core.ErrInconsistentParams
		}

		s.reserveService.UpdateInterestRates(ctx, reserve, decimal.Zero, decimal.Zero)

		if err := s.positionStore.Save(ctx, tx, position); err != nil {
			return err
		}
		if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: params.TraceID,
			ChainID: s.system.ChainID,
			Type:    core.EventTypeSwap,
			UserID:  params.UserID,
			AssetID: params.AssetID,
			Amount:  amount,
		}
		if err := event.SetData(rateEventData{
			FromMode: params.RateMode,
			ToMode:   toMode,
			Rate:     rate,
		}); err != nil {
			return err
		}

		return s.eventStore.Create(ctx, tx, event)
	})
}

// RebalanceStableBorrowRate re-mints a stable position at the current
// stable rate. Only allowed when the reserve is almost fully utilized and
// the stale fixed rate starves depositors.
func (s *poolService) RebalanceStableBorrowRate(ctx context.Context, params *core.RebalanceParams) error {
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

	if err := s.validateService.ValidateRebalanceStableBorrowRate(reserve, position, now); err != nil {
		return err
	}

	return s.transactor.Tx(func(tx *db.DB) error {
		s.reserveService.UpdateState(ctx, reserve, now)

		amount := position.StableDebt(now)
		core.BurnStableDebt(reserve, position, amount, now)
		core.MintStableDebt(reserve, position, amount, reserve.CurrentStableBorrowRate, now)

		s.reserveService.UpdateInterestRates(ctx, reserve, decimal.Zero, decimal.Zero)

		if err := s.positionStore.Save(ctx, tx, position); err != nil {
			return err
		}
		if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: params.TraceID,
			ChainID: s.system.ChainID,
			Type:    core.EventTypeRebalanceStableBorrowRate,
			UserID:  params.UserID,
			AssetID: params.AssetID,
			Amount:  amount,
		}
		if err := event.SetData(rateEventData{
			FromMode: core.RateModeStable,
			Rate:     reserve.CurrentStableBorrowRate,
		}); err != nil {
			return err
		}

		return s.eventStore.Create(ctx, tx, event)
	})
}
