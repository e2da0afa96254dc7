package pool

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"

	"lendpool/core"
)

type borrowEventData struct {
	RateMode         core.RateMode   `json:"rate_mode"`
	Rate             decimal.Decimal `json:"rate"`
	Recipient        string          `json:"recipient"`
	RecipientChainID int64           `json:"recipient_chain_id,omitempty"`
	Referral         string          `json:"referral,omitempty"`
}

// Borrow opens debt against the user's collateral and releases the funds to
// the recipient, which may live on another chain.
func (s *poolService) Borrow(ctx context.Context, params *core.BorrowParams) error {
	if err := s.requireRouter(ctx, params.Caller); err != nil {
		return err
	}

	reserve, err := s.mustGetReserve(ctx, params.AssetID)
	if err != nil {
		return err
	}

	now := s.clock()

	if err := s.validateService.ValidateBorrow(ctx, reserve, params.UserID, params.Amount, params.RateMode, now); err != nil {
		return err
	}
	if params.RateMode != core.RateModeStable && params.RateMode != core.RateModeVariable {
		return core.ErrInconsistentParams
	}

	recipient := params.Recipient
	if recipient == "" {
		recipient = params.UserID
	}

	return s.transactor.Tx(func(tx *db.DB) error {
		s.reserveService.UpdateState(ctx, reserve, now)

		position, err := s.positionStore.Find(ctx, params.UserID, params.AssetID)
		if err != nil {
			return err
		}

		rate := reserve.CurrentStableBorrowRate
		if params.RateMode == core.RateModeStable {
			core.MintStableDebt(reserve, position, params.Amount, rate, now)
		} else {
			rate = reserve.CurrentVariableBorrowRate
			core.MintVariableDebt(reserve, position, params.Amount)
		}

		reserve.AvailableLiquidity = reserve.AvailableLiquidity.Sub(params.Amount)
		s.reserveService.UpdateInterestRates(ctx, reserve, decimal.Zero, params.Amount)

		if err := s.ledgerService.Transfer(ctx, tx, &core.Transfer{
			TraceID:         uuid.Modify(params.TraceID, "borrow_out"),
			Direction:       core.TransferDirectionOut,
			AssetID:         params.AssetID,
			Opponent:        recipient,
			OpponentChainID: params.RecipientChainID,
			Amount:          params.Amount,
			Memo:            "borrow",
		}); err != nil {
			return err
		}

		if err := s.positionStore.Save(ctx, tx, position); err != nil {
			return err
		}
		if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
			return err
		}

		userCfg, err := s.userConfigStore.Find(ctx, params.UserID)
		if err != nil {
			return err
		}
		if !userCfg.IsBorrowing(reserve.ID) {
			userCfg.SetBorrowing(reserve.ID, true)
			if err := s.userConfigStore.Save(ctx, tx, userCfg); err != nil {
				return err
			}
		}

		event := &core.Event{
			TraceID: params.TraceID,
			ChainID: s.system.ChainID,
			Type:    core.EventTypeBorrow,
			UserID:  params.UserID,
			AssetID: params.AssetID,
			Amount:  params.Amount,
		}
		if err := event.SetData(borrowEventData{
			RateMode:         params.RateMode,
			Rate:             rate,
			Recipient:        recipient,
			RecipientChainID: params.RecipientChainID,
			Referral:         params.Referral,
		}); err != nil {
			return err
		}

		return s.eventStore.Create(ctx, tx, event)
	})
}
