package flashloan

import (
	"context"
	"fmt"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"

	"lendpool/core"
	"lendpool/pkg/ray"
)

type flashloanService struct {
	transactor      core.Transactor
	reserveStore    core.IReserveStore
	positionStore   core.IPositionStore
	userConfigStore core.IUserConfigStore
	eventStore      core.IEventStore
	reserveService  core.IReserveService
	validateService core.IValidationService
	ledgerService   core.ILedgerService
	system          *core.System
}

// New new flash-loan coordinator
func New(
	transactor core.Transactor,
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	userConfigStore core.IUserConfigStore,
	eventStore core.IEventStore,
	reserveService core.IReserveService,
	validateService core.IValidationService,
	ledgerService core.ILedgerService,
	system *core.System,
) core.IFlashLoanService {
	return &flashloanService{
		transactor:      transactor,
		reserveStore:    reserveStore,
		positionStore:   positionStore,
		userConfigStore: userConfigStore,
		eventStore:      eventStore,
		reserveService:  reserveService,
		validateService: validateService,
		ledgerService:   ledgerService,
		system:          system,
	}
}

// FlashLoan releases all requested funds, invokes the receiver callback
// exactly once, then settles every asset according to its mode. The whole
// call is one transaction; a failing callback or settlement leaves no trace.
func (s *flashloanService) FlashLoan(ctx context.Context, req *core.FlashLoanRequest) error {
	log := logger.FromContext(ctx).WithField("service", "flashloan")

	if err := s.validateService.ValidateFlashLoan(req); err != nil {
		return err
	}

	now := time.Now()

	return s.transactor.Tx(func(tx *db.DB) error {
		reserves := make([]*core.Reserve, len(req.Assets))
		premiums := make([]decimal.Decimal, len(req.Assets))

		// one shared reserve per asset, so settling a repeated asset sees
		// the mutations of its earlier occurrences
		loaded := make(map[string]*core.Reserve, len(req.Assets))
		released := make(map[string]decimal.Decimal, len(req.Assets))

		for i, assetID := range req.Assets {
			reserve, ok := loaded[assetID]
			if !ok {
				var err error
				reserve, err = s.reserveStore.Find(ctx, assetID)
				if err != nil {
					return err
				}
				if !reserve.Config().Active {
					return core.ErrReserveNotActive
				}
				loaded[assetID] = reserve
			}

			total := released[assetID].Add(req.Amounts[i])
			if total.GreaterThan(reserve.AvailableLiquidity) {
				return core.ErrInsufficientLiquidity
			}
			released[assetID] = total

			reserves[i] = reserve
			premiums[i] = ray.PercentFloor(req.Amounts[i], core.FlashLoanPremiumBps)
		}

		// release everything before the callback runs
		for i, assetID := range req.Assets {
			transfer := &core.Transfer{
				TraceID:   uuid.Modify(req.TraceID, fmt.Sprintf("flash_out_%d", i)),
				Direction: core.TransferDirectionOut,
				AssetID:   assetID,
				Opponent:  req.ReceiverAccount,
				Amount:    req.Amounts[i],
				Memo:      "flash loan release",
			}
			if err := s.ledgerService.Transfer(ctx, tx, transfer); err != nil {
				return err
			}
		}

		if err := req.Receiver.ExecuteOperation(ctx, req.Assets, req.Amounts, premiums, req.Initiator, req.Params); err != nil {
			log.WithError(err).Infoln("flash loan callback failed")
			return core.ErrFlashLoanCallbackFailed
		}

		for i := range req.Assets {
			if err := s.settle(ctx, tx, req, reserves[i], req.Amounts[i], premiums[i], req.Modes[i], i, now); err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *flashloanService) settle(ctx context.Context, tx *db.DB, req *core.FlashLoanRequest, reserve *core.Reserve, amount, premium decimal.Decimal, mode core.FlashLoanMode, idx int, now time.Time) error {
	s.reserveService.UpdateState(ctx, reserve, now)

	eventAmount := amount
	eventPremium := premium

	switch mode {
	case core.FlashLoanModeRepay:
		// pull principal plus premium back and distribute the premium to
		// depositors through the liquidity index
		transfer := &core.Transfer{
			TraceID:   uuid.Modify(req.TraceID, fmt.Sprintf("flash_in_%d", idx)),
			Direction: core.TransferDirectionIn,
			AssetID:   reserve.AssetID,
			Opponent:  req.ReceiverAccount,
			Amount:    amount.Add(premium),
			Memo:      "flash loan repayment",
		}
		if err := s.ledgerService.Transfer(ctx, tx, transfer); err != nil {
			return err
		}

		s.reserveService.CumulateToLiquidityIndex(ctx, reserve, reserve.TotalClaimSupply(now), premium)
		reserve.AvailableLiquidity = reserve.AvailableLiquidity.Add(premium)
		s.reserveService.UpdateInterestRates(ctx, reserve, premium, decimal.Zero)

	case core.FlashLoanModeStableDebt, core.FlashLoanModeVariableDebt:
		// funds stay out, the principal becomes debt of OnBehalfOf with no
		// premium charged. The debt passes ordinary borrow validation.
		eventPremium = decimal.Zero

		rateMode := core.RateModeVariable
		if mode == core.FlashLoanModeStableDebt {
			rateMode = core.RateModeStable
		}
		if err := s.validateService.ValidateBorrow(ctx, reserve, req.OnBehalfOf, amount, rateMode, now); err != nil {
			return err
		}

		if err := s.openDebt(ctx, tx, reserve, req.OnBehalfOf, amount, mode, now); err != nil {
			return err
		}

		reserve.AvailableLiquidity = reserve.AvailableLiquidity.Sub(amount)
		s.reserveService.UpdateInterestRates(ctx, reserve, decimal.Zero, amount)

	default:
		return core.ErrInconsistentParams
	}

	if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
		return err
	}

	event := &core.Event{
		TraceID: uuid.Modify(req.TraceID, fmt.Sprintf("flash_event_%d", idx)),
		ChainID: s.system.ChainID,
		Type:    core.EventTypeFlashLoan,
		UserID:  req.OnBehalfOf,
		AssetID: reserve.AssetID,
		Amount:  eventAmount,
	}
	if err := event.SetData(core.FlashLoanEventData{
		Mode:         mode,
		DebtFallback: mode != core.FlashLoanModeRepay,
		Initiator:    req.Initiator,
		Receiver:     req.ReceiverAccount,
		Premium:      eventPremium,
		Referral:     req.Referral,
	}); err != nil {
		return err
	}

	return s.eventStore.Create(ctx, tx, event)
}

func (s *flashloanService) openDebt(ctx context.Context, tx *db.DB, reserve *core.Reserve, userID string, amount decimal.Decimal, mode core.FlashLoanMode, now time.Time) error {
	position, err := s.positionStore.Find(ctx, userID, reserve.AssetID)
	if err != nil {
		return err
	}

	if mode == core.FlashLoanModeStableDebt {
		core.MintStableDebt(reserve, position, amount, reserve.CurrentStableBorrowRate, now)
	} else {
		core.MintVariableDebt(reserve, position, amount)
	}

	if err := s.positionStore.Save(ctx, tx, position); err != nil {
		return err
	}

	userCfg, err := s.userConfigStore.Find(ctx, userID)
	if err != nil {
		return err
	}
	if !userCfg.IsBorrowing(reserve.ID) {
		userCfg.SetBorrowing(reserve.ID, true)
		if err := s.userConfigStore.Save(ctx, tx, userCfg); err != nil {
			return err
		}
	}

	return nil
}
