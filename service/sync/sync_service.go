package sync

import (
	"context"
	"encoding/base64"
	"math/big"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/pandodao/blst"
	"github.com/sirupsen/logrus"

	"lendpool/core"
	"lendpool/pkg/wire"
)

type syncService struct {
	transactor   core.Transactor
	reserveStore core.IReserveStore
	eventStore   core.IEventStore
	system       *core.System
}

// New new configuration sync service
func New(
	transactor core.Transactor,
	reserveStore core.IReserveStore,
	eventStore core.IEventStore,
	system *core.System,
) core.IConfigSyncService {
	return &syncService{
		transactor:   transactor,
		reserveStore: reserveStore,
		eventStore:   eventStore,
		system:       system,
	}
}

// Apply authenticates the message against the registered sync signers and,
// if every check passes, replaces the local reserve's configuration bitmap
// in one transaction. Re-applying the same payload is a harmless overwrite.
func (s *syncService) Apply(ctx context.Context, message *core.Message) error {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"service": "sync",
		"trace":   message.TraceID,
	})

	if !s.system.IsConfigurator(message.Origin) {
		return core.ErrBadMessageOrigin
	}

	if !s.verify(message) {
		return core.ErrMessageAuthFailed
	}

	var (
		selector   uint32
		chainID    int64
		assetID    string
		configBits *big.Int
	)
	if _, err := wire.Scan(message.Payload, &selector, &chainID, &assetID, &configBits); err != nil {
		log.WithError(err).Infoln("undecodable payload")
		return core.ErrMessageAuthFailed
	}

	if selector != core.SelectorReserveConfigurationChanged {
		return core.ErrWrongSelector
	}
	if chainID != s.system.ChainID {
		return core.ErrWrongChainID
	}

	cfg := core.UnpackReserveConfiguration(configBits)
	if err := cfg.Validate(); err != nil {
		return core.ErrInvalidConfiguration
	}

	reserve, err := s.reserveStore.Find(ctx, assetID)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return core.ErrReserveNotFound
		}
		return err
	}

	return s.transactor.Tx(func(tx *db.DB) error {
		reserve.SetConfig(cfg)
		if err := s.reserveStore.Update(ctx, tx, reserve); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: message.TraceID,
			ChainID: s.system.ChainID,
			Type:    core.EventTypeReserveConfigurationChanged,
			UserID:  message.Origin,
			AssetID: assetID,
		}
		if err := event.SetData(cfg); err != nil {
			return err
		}
		if err := s.eventStore.Create(ctx, tx, event); err != nil {
			return err
		}

		log.Infoln("reserve configuration synced")
		return nil
	})
}

// verify checks that signers covering the threshold co-signed the payload.
func (s *syncService) verify(message *core.Message) bool {
	var pubs []*blst.PublicKey
	for _, signer := range s.system.SyncSigners {
		if message.SignerMask&(0x1<<signer.Index) != 0 {
			pubs = append(pubs, signer.VerifyKey)
		}
	}
	if len(pubs) < s.system.SyncThreshold {
		return false
	}

	bts, err := base64.StdEncoding.DecodeString(message.Signature)
	if err != nil {
		return false
	}

	sig := blst.Signature{}
	if sig.FromBytes(bts) != nil {
		return false
	}

	return blst.AggregatePublicKeys(pubs).Verify(message.Payload, &sig)
}
