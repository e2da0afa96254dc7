package cmd

import (
	"encoding/base64"
	"time"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	"github.com/pandodao/blst"

	"lendpool/core"
	"lendpool/internal/rates"
	"lendpool/service/account"
	"lendpool/service/flashloan"
	"lendpool/service/ledger"
	liquidatorservice "lendpool/service/liquidator"
	"lendpool/service/oracle"
	"lendpool/service/pool"
	reserveservice "lendpool/service/reserve"
	syncservice "lendpool/service/sync"
	"lendpool/service/validate"
	"lendpool/store/event"
	"lendpool/store/message"
	"lendpool/store/position"
	"lendpool/store/reserve"
	"lendpool/store/transfer"
	"lendpool/store/userconfig"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideSystem() *core.System {
	signers := make([]*core.Signer, 0, len(cfg.Sync.Signers))
	for _, s := range cfg.Sync.Signers {
		bts, err := base64.StdEncoding.DecodeString(s.PublicKey)
		if err != nil {
			panic(err)
		}

		pub := blst.PublicKey{}
		if err := pub.FromBytes(bts); err != nil {
			panic(err)
		}

		signers = append(signers, &core.Signer{
			Index:     s.Index,
			VerifyKey: &pub,
		})
	}

	return &core.System{
		ChainID:        cfg.App.ChainID,
		RouterID:       cfg.App.RouterID,
		ConfiguratorID: cfg.App.ConfiguratorID,
		SyncSigners:    signers,
		SyncThreshold:  cfg.Sync.Threshold,
		Genesis:        cfg.App.Genesis,
		Version:        rootCmd.Version,
	}
}

// ---------------store-----------------------------------------

func provideReserveStore(db *db.DB) core.IReserveStore {
	return reserve.New(db)
}

func providePositionStore(db *db.DB) core.IPositionStore {
	return position.New(db)
}

func provideUserConfigStore(db *db.DB) core.IUserConfigStore {
	return userconfig.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}

func provideMessageStore(db *db.DB) core.IMessageStore {
	return message.New(db)
}

func provideTransferStore(db *db.DB) core.ITransferStore {
	return transfer.New(db)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

// ------------------service------------------------------------

func providePriceService() core.IPriceOracleService {
	return oracle.Cache(oracle.New(cfg.Oracle.EndPoint), 10*time.Second)
}

func provideLiquidator() core.Liquidator {
	return liquidatorservice.New(cfg.Liquidator.EndPoint)
}

func provideReserveService() core.IReserveService {
	return reserveservice.New(rates.New())
}

func provideAccountService(db *db.DB, priceService core.IPriceOracleService) core.IAccountService {
	return account.New(
		provideReserveStore(db),
		providePositionStore(db),
		provideUserConfigStore(db),
		priceService,
	)
}

func provideValidationService(accountService core.IAccountService, priceService core.IPriceOracleService) core.IValidationService {
	return validate.New(accountService, priceService)
}

func provideLedgerService(db *db.DB) core.ILedgerService {
	return ledger.New(provideTransferStore(db))
}

func provideFlashLoanService(db *db.DB, system *core.System, priceService core.IPriceOracleService) core.IFlashLoanService {
	accountService := provideAccountService(db, priceService)

	return flashloan.New(
		db,
		provideReserveStore(db),
		providePositionStore(db),
		provideUserConfigStore(db),
		provideEventStore(db),
		provideReserveService(),
		provideValidationService(accountService, priceService),
		provideLedgerService(db),
		system,
	)
}

func providePoolService(db *db.DB, system *core.System) core.IPoolService {
	priceService := providePriceService()
	accountService := provideAccountService(db, priceService)

	return pool.New(
		db,
		provideReserveStore(db),
		providePositionStore(db),
		provideUserConfigStore(db),
		provideEventStore(db),
		provideReserveService(),
		provideValidationService(accountService, priceService),
		provideLedgerService(db),
		provideFlashLoanService(db, system, priceService),
		provideLiquidator(),
		providePropertyStore(db),
		system,
	)
}

func provideSyncService(db *db.DB, system *core.System) core.IConfigSyncService {
	return syncservice.New(
		db,
		provideReserveStore(db),
		provideEventStore(db),
		system,
	)
}
