package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"

	"lendpool/core"
	"lendpool/worker"
)

const checkpointKey = "sync_checkpoint"

const limit = 100

// Syncer drains pending cross-chain messages and applies them to the local
// reserves. Messages failing an authenticity or validation check are marked
// rejected with their error code; transient failures are retried without
// advancing the checkpoint.
type Syncer struct {
	worker.TickWorker
	messageStore  core.IMessageStore
	syncService   core.IConfigSyncService
	propertyStore property.Store
}

// New new sync worker
func New(
	messageStore core.IMessageStore,
	syncService core.IConfigSyncService,
	propertyStore property.Store,
) *Syncer {
	return &Syncer{
		messageStore:  messageStore,
		syncService:   syncService,
		propertyStore: propertyStore,
	}
}

// Run run worker
func (w *Syncer) Run(ctx context.Context) error {
	return w.StartTick(ctx, w.onWork)
}

func (w *Syncer) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "syncer")

	v, err := w.propertyStore.Get(ctx, checkpointKey)
	if err != nil {
		log.WithError(err).Errorln("property.Get", checkpointKey)
		return err
	}
	checkpoint := uint64(v.Int64())

	messages, err := w.messageStore.List(ctx, checkpoint, limit)
	if err != nil {
		log.WithError(err).Errorln("messages.List")
		return err
	}
	if len(messages) == 0 {
		return errors.New("EOF")
	}

	for _, message := range messages {
		if err := w.handleMessage(ctx, message); err != nil {
			return err
		}

		if err := w.propertyStore.Save(ctx, checkpointKey, message.ID); err != nil {
			log.WithError(err).Errorln("property.Save", checkpointKey)
			return err
		}
	}

	return nil
}

func (w *Syncer) handleMessage(ctx context.Context, message *core.Message) error {
	log := logger.FromContext(ctx).WithField("trace", message.TraceID)

	err := w.syncService.Apply(ctx, message)
	if err == nil {
		message.Status = core.MessageStatusApplied
		return w.messageStore.Update(ctx, message, message.Version+1)
	}

	var code core.ErrorCode
	if errors.As(err, &code) {
		log.WithError(err).Infoln("message rejected")
		message.Status = core.MessageStatusRejected
		message.ErrorCode = fmt.Sprintf("%d", code)
		return w.messageStore.Update(ctx, message, message.Version+1)
	}

	// transient failure, retry this message next tick
	log.WithError(err).Errorln("sync.Apply")
	return err
}
