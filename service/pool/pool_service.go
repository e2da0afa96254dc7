package pool

import (
	"context"
	"time"

	"github.com/fox-one/pkg/property"
	"github.com/jinzhu/gorm"
	"github.com/spf13/cast"

	"lendpool/core"
)

const pauseKey = "pool_paused"

type poolService struct {
	transactor       core.Transactor
	reserveStore     core.IReserveStore
	positionStore    core.IPositionStore
	userConfigStore  core.IUserConfigStore
	eventStore       core.IEventStore
	reserveService   core.IReserveService
	validateService  core.IValidationService
	ledgerService    core.ILedgerService
	flashLoanService core.IFlashLoanService
	liquidator       core.Liquidator
	propertyStore    property.Store
	system           *core.System
}

// New new pool service
func New(
	transactor core.Transactor,
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	userConfigStore core.IUserConfigStore,
	eventStore core.IEventStore,
	reserveService core.IReserveService,
	validateService core.IValidationService,
	ledgerService core.ILedgerService,
	flashLoanService core.IFlashLoanService,
	liquidator core.Liquidator,
	propertyStore property.Store,
	system *core.System,
) core.IPoolService {
	return &poolService{
		transactor:       transactor,
		reserveStore:     reserveStore,
		positionStore:    positionStore,
		userConfigStore:  userConfigStore,
		eventStore:       eventStore,
		reserveService:   reserveService,
		validateService:  validateService,
		ledgerService:    ledgerService,
		flashLoanService: flashLoanService,
		liquidator:       liquidator,
		propertyStore:    propertyStore,
		system:           system,
	}
}

func (s *poolService) Paused(ctx context.Context) (bool, error) {
	v, err := s.propertyStore.Get(ctx, pauseKey)
	if err != nil {
		return false, err
	}
	return cast.ToBool(v.String()), nil
}

func (s *poolService) FlashLoanPremium() int64 {
	return core.FlashLoanPremiumBps
}

// requireRouter gates the user-facing operations.
func (s *poolService) requireRouter(ctx context.Context, caller string) error {
	if !s.system.IsRouter(caller) {
		return core.ErrCallerNotRouter
	}
	return s.requireActivePool(ctx)
}

// requireConfigurator gates the administrative operations. The pause switch
// does not apply to them, the configurator must stay able to unpause.
func (s *poolService) requireConfigurator(caller string) error {
	if !s.system.IsConfigurator(caller) {
		return core.ErrCallerNotConfigurator
	}
	return nil
}

func (s *poolService) requireActivePool(ctx context.Context) error {
	paused, err := s.Paused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return core.ErrPoolPaused
	}
	return nil
}

func (s *poolService) mustGetReserve(ctx context.Context, assetID string) (*core.Reserve, error) {
	reserve, err := s.reserveStore.Find(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrReserveNotFound
		}
		return nil, err
	}
	return reserve, nil
}

func (s *poolService) clock() time.Time {
	return time.Now()
}
