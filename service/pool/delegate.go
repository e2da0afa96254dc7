package pool

import (
	"context"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"

	"lendpool/core"
)

// FlashLoan hands the request to the flash-loan coordinator after the
// router and pause gates.
func (s *poolService) FlashLoan(ctx context.Context, req *core.FlashLoanRequest) error {
	if err := s.requireRouter(ctx, req.Caller); err != nil {
		return err
	}
	return s.flashLoanService.FlashLoan(ctx, req)
}

// LiquidationCall delegates to the external collateral manager and records
// the outcome. The manager owns the seize math; the pool only refuses
// callers and paused state, and surfaces failure as one error code.
func (s *poolService) LiquidationCall(ctx context.Context, params *core.LiquidationParams, caller string) error {
	if err := s.requireRouter(ctx, caller); err != nil {
		return err
	}

	result, err := s.liquidator.Liquidate(ctx, params)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("liquidator.Liquidate")
		return err
	}
	if result.Code != 0 {
		logger.FromContext(ctx).WithField("code", result.Code).Infoln("liquidation refused:", result.Message)
		return core.ErrLiquidationFailed
	}

	return s.transactor.Tx(func(tx *db.DB) error {
		event := &core.Event{
			TraceID: uuid.New(),
			ChainID: s.system.ChainID,
			Type:    core.EventTypeLiquidationCall,
			UserID:  params.UserID,
			AssetID: params.DebtAsset,
			Amount:  params.DebtToCover,
		}
		if err := event.SetData(map[string]interface{}{
			"collateral_asset":    params.CollateralAsset,
			"receive_claim_token": params.ReceiveClaimToken,
			"target_chain_id":     params.TargetChainID,
		}); err != nil {
			return err
		}
		return s.eventStore.Create(ctx, tx, event)
	})
}
