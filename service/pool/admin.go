package pool

import (
	"context"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"lendpool/core"
	"lendpool/pkg/ray"
)

// InitReserve creates a new reserve on the local chain with both indices at
// one. A reserve exists forever once created.
func (s *poolService) InitReserve(ctx context.Context, params *core.InitReserveParams) error {
	if err := s.requireConfigurator(params.Caller); err != nil {
		return err
	}

	if err := params.Configuration.Validate(); err != nil {
		return core.ErrInvalidConfiguration
	}

	if _, err := s.reserveStore.Find(ctx, params.AssetID); err == nil {
		return core.ErrReserveAlreadyInitialized
	} else if !gorm.IsRecordNotFoundError(err) {
		return err
	}

	now := s.clock()

	reserve := &core.Reserve{
		ChainID:                  s.system.ChainID,
		AssetID:                  params.AssetID,
		Symbol:                   params.Symbol,
		ClaimTokenAssetID:        params.ClaimTokenAssetID,
		StableDebtTokenAssetID:   params.StableDebtTokenAssetID,
		VariableDebtTokenAssetID: params.VariableDebtTokenAssetID,
		LiquidityIndex:           ray.One,
		VariableBorrowIndex:      ray.One,
		LastUpdateTimestamp:      now.Unix(),
		StableDebtLastUpdate:     now.Unix(),
		OptimalUtilization:       params.Strategy.OptimalUtilization,
		BaseVariableRate:         params.Strategy.BaseVariableRate,
		VariableSlope1:           params.Strategy.VariableSlope1,
		VariableSlope2:           params.Strategy.VariableSlope2,
		BaseStableRate:           params.Strategy.BaseStableRate,
		StableSlope1:             params.Strategy.StableSlope1,
		StableSlope2:             params.Strategy.StableSlope2,
	}
	reserve.SetConfig(params.Configuration)

	return s.transactor.Tx(func(tx *db.DB) error {
		if err := s.reserveStore.Create(ctx, tx, reserve); err != nil {
			return err
		}

		// the user bitmaps hold one bit per reserve id, so ids past the
		// bitmap width would make collateral and debt flags invisible
		if reserve.ID > core.MaxReserveID {
			return core.ErrTooManyReserves
		}

		event := &core.Event{
			TraceID: params.TraceID,
			ChainID: s.system.ChainID,
			Type:    core.EventTypeReserveInitialized,
			UserID:  params.Caller,
			AssetID: params.AssetID,
		}
		if err := event.SetData(params.Configuration); err != nil {
			return err
		}
		if err := s.eventStore.Create(ctx, tx, event); err != nil {
			return err
		}

		logger.FromContext(ctx).WithField("asset", params.AssetID).Infoln("reserve initialized")
		return nil
	})
}

// SetConfiguration replaces the reserve's configuration bitmap.
func (s *poolService) SetConfiguration(ctx context.Context, caller, assetID string, cfg core.ReserveConfiguration) error {
	if err := s.requireConfigurator(caller); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return core.ErrInvalidConfiguration
	}

	reserve, err := s.mustGetReserve(ctx, assetID)
	if err != nil {
		return err
	}

	return s.transactor.Tx(func(tx *db.DB) error {
		reserve.SetConfig(cfg)
		if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: uuid.New(),
			ChainID: s.system.ChainID,
			Type:    core.EventTypeReserveConfigurationChanged,
			UserID:  caller,
			AssetID: assetID,
		}
		if err := event.SetData(cfg); err != nil {
			return err
		}
		return s.eventStore.Create(ctx, tx, event)
	})
}

// SetReserveInterestRateStrategy swaps the reserve's strategy parameters.
// The indices accrue under the old rates first so no retroactive interest is
// created.
func (s *poolService) SetReserveInterestRateStrategy(ctx context.Context, caller, assetID string, strategy core.RateStrategyParams) error {
	if err := s.requireConfigurator(caller); err != nil {
		return err
	}

	reserve, err := s.mustGetReserve(ctx, assetID)
	if err != nil {
		return err
	}

	now := s.clock()

	return s.transactor.Tx(func(tx *db.DB) error {
		s.reserveService.UpdateState(ctx, reserve, now)

		reserve.OptimalUtilization = strategy.OptimalUtilization
		reserve.BaseVariableRate = strategy.BaseVariableRate
		reserve.VariableSlope1 = strategy.VariableSlope1
		reserve.VariableSlope2 = strategy.VariableSlope2
		reserve.BaseStableRate = strategy.BaseStableRate
		reserve.StableSlope1 = strategy.StableSlope1
		reserve.StableSlope2 = strategy.StableSlope2

		s.reserveService.UpdateInterestRates(ctx, reserve, decimal.Zero, decimal.Zero)

		return s.reserveStore.Update(ctx, tx, reserve)
	})
}

// SetPause flips the pool-wide pause switch. While paused every router
// operation is refused; administrative calls stay available.
func (s *poolService) SetPause(ctx context.Context, caller string, paused bool) error {
	if err := s.requireConfigurator(caller); err != nil {
		return err
	}

	if err := s.propertyStore.Save(ctx, pauseKey, paused); err != nil {
		return err
	}

	logger.FromContext(ctx).WithField("paused", paused).Infoln("pool pause switched")
	return nil
}
