// Package memstore provides in-memory store implementations with snapshot
// and rollback, backing the service tests without a database.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"lendpool/core"
)

// snapshotter is anything the transactor can roll back.
type snapshotter interface {
	snapshot()
	restore()
	commit()
}

// Transactor groups stores into one rollback unit.
type Transactor struct {
	mu     sync.Mutex
	stores []snapshotter
}

// NewTransactor new transactor over the given stores.
func NewTransactor(stores ...interface{}) *Transactor {
	t := &Transactor{}
	for _, s := range stores {
		if ss, ok := s.(snapshotter); ok {
			t.stores = append(t.stores, ss)
		}
	}
	return t
}

// Tx implements core.Transactor: on error every store is restored to its
// state at entry.
func (t *Transactor) Tx(fn func(tx *db.DB) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.stores {
		s.snapshot()
	}

	if err := fn(nil); err != nil {
		for _, s := range t.stores {
			s.restore()
		}
		return err
	}

	for _, s := range t.stores {
		s.commit()
	}
	return nil
}

// ReserveStore in-memory reserve store.
type ReserveStore struct {
	nextID   uint64
	reserves map[string]*core.Reserve
	saved    map[string]*core.Reserve
	savedID  uint64
}

// NewReserveStore new in-memory reserve store.
func NewReserveStore() *ReserveStore {
	return &ReserveStore{nextID: 1, reserves: map[string]*core.Reserve{}}
}

func (s *ReserveStore) snapshot() {
	s.saved = map[string]*core.Reserve{}
	for k, v := range s.reserves {
		c := *v
		s.saved[k] = &c
	}
	s.savedID = s.nextID
}

func (s *ReserveStore) restore() {
	if s.saved != nil {
		s.reserves = s.saved
		s.nextID = s.savedID
		s.saved = nil
	}
}

func (s *ReserveStore) commit() { s.saved = nil }

// Create assigns the next id; ids are never reused.
func (s *ReserveStore) Create(ctx context.Context, tx *db.DB, reserve *core.Reserve) error {
	if _, ok := s.reserves[reserve.AssetID]; ok {
		return core.ErrReserveAlreadyInitialized
	}

	reserve.ID = s.nextID
	s.nextID++
	c := *reserve
	s.reserves[reserve.AssetID] = &c
	return nil
}

func (s *ReserveStore) Find(ctx context.Context, assetID string) (*core.Reserve, error) {
	r, ok := s.reserves[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *r
	return &c, nil
}

func (s *ReserveStore) FindByID(ctx context.Context, id uint64) (*core.Reserve, error) {
	for _, r := range s.reserves {
		if r.ID == id {
			c := *r
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *ReserveStore) All(ctx context.Context) ([]*core.Reserve, error) {
	out := make([]*core.Reserve, 0, len(s.reserves))
	for _, r := range s.reserves {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ReserveStore) Update(ctx context.Context, tx *db.DB, reserve *core.Reserve) error {
	current, ok := s.reserves[reserve.AssetID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if current.Version != reserve.Version {
		return db.ErrOptimisticLock
	}

	reserve.Version++
	c := *reserve
	s.reserves[reserve.AssetID] = &c
	return nil
}

// PositionStore in-memory position store.
type PositionStore struct {
	positions map[string]*core.Position
	saved     map[string]*core.Position
}

// NewPositionStore new in-memory position store.
func NewPositionStore() *PositionStore {
	return &PositionStore{positions: map[string]*core.Position{}}
}

func positionKey(userID, assetID string) string { return userID + "/" + assetID }

func (s *PositionStore) snapshot() {
	s.saved = map[string]*core.Position{}
	for k, v := range s.positions {
		c := *v
		s.saved[k] = &c
	}
}

func (s *PositionStore) restore() {
	if s.saved != nil {
		s.positions = s.saved
		s.saved = nil
	}
}

func (s *PositionStore) commit() { s.saved = nil }

func (s *PositionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, error) {
	if p, ok := s.positions[positionKey(userID, assetID)]; ok {
		c := *p
		return &c, nil
	}

	return &core.Position{
		UserID:              userID,
		AssetID:             assetID,
		ScaledClaimBalance:  decimal.Zero,
		ScaledVariableDebt:  decimal.Zero,
		StableDebtPrincipal: decimal.Zero,
		StableBorrowRate:    decimal.Zero,
	}, nil
}

func (s *PositionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var out []*core.Position
	for _, p := range s.positions {
		if p.UserID == userID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out, nil
}

func (s *PositionStore) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	var n int64
	for _, p := range s.positions {
		if p.AssetID == assetID {
			n++
		}
	}
	return n, nil
}

func (s *PositionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	position.Version++
	c := *position
	s.positions[positionKey(position.UserID, position.AssetID)] = &c
	return nil
}

// UserConfigStore in-memory user configuration store.
type UserConfigStore struct {
	configs map[string]*core.UserConfiguration
	saved   map[string]*core.UserConfiguration
}

// NewUserConfigStore new in-memory user config store.
func NewUserConfigStore() *UserConfigStore {
	return &UserConfigStore{configs: map[string]*core.UserConfiguration{}}
}

func (s *UserConfigStore) snapshot() {
	s.saved = map[string]*core.UserConfiguration{}
	for k, v := range s.configs {
		c := *v
		s.saved[k] = &c
	}
}

func (s *UserConfigStore) restore() {
	if s.saved != nil {
		s.configs = s.saved
		s.saved = nil
	}
}

func (s *UserConfigStore) commit() { s.saved = nil }

func (s *UserConfigStore) Find(ctx context.Context, userID string) (*core.UserConfiguration, error) {
	if c, ok := s.configs[userID]; ok {
		cc := *c
		return &cc, nil
	}
	return &core.UserConfiguration{UserID: userID}, nil
}

func (s *UserConfigStore) Save(ctx context.Context, tx *db.DB, cfg *core.UserConfiguration) error {
	cfg.Version++
	c := *cfg
	s.configs[cfg.UserID] = &c
	return nil
}

// EventStore in-memory event store.
type EventStore struct {
	events []*core.Event
	saved  []*core.Event
}

// NewEventStore new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) snapshot() { s.saved = append(make([]*core.Event, 0, len(s.events)), s.events...) }
func (s *EventStore) restore() {
	if s.saved != nil {
		s.events = s.saved
		s.saved = nil
	}
}
func (s *EventStore) commit() { s.saved = nil }

func (s *EventStore) Create(ctx context.Context, tx *db.DB, event *core.Event) error {
	c := *event
	c.ID = uint64(len(s.events) + 1)
	s.events = append(s.events, &c)
	return nil
}

func (s *EventStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	var out []*core.Event
	for _, e := range s.events {
		if e.ID > fromID {
			out = append(out, e)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *EventStore) ListByUser(ctx context.Context, userID string, limit int) ([]*core.Event, error) {
	var out []*core.Event
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Events returns everything emitted so far.
func (s *EventStore) Events() []*core.Event { return s.events }

// TransferStore in-memory transfer outbox.
type TransferStore struct {
	transfers []*core.Transfer
	saved     []*core.Transfer
}

// NewTransferStore new in-memory transfer store.
func NewTransferStore() *TransferStore {
	return &TransferStore{}
}

func (s *TransferStore) snapshot() { s.saved = append(make([]*core.Transfer, 0, len(s.transfers)), s.transfers...) }
func (s *TransferStore) restore() {
	if s.saved != nil {
		s.transfers = s.saved
		s.saved = nil
	}
}
func (s *TransferStore) commit() { s.saved = nil }

func (s *TransferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	c := *transfer
	c.ID = uint64(len(s.transfers) + 1)
	s.transfers = append(s.transfers, &c)
	return nil
}

func (s *TransferStore) ListUnhandled(ctx context.Context, limit int) ([]*core.Transfer, error) {
	var out []*core.Transfer
	for _, t := range s.transfers {
		if !t.Handled {
			out = append(out, t)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *TransferStore) MarkHandled(ctx context.Context, id uint64) error {
	for _, t := range s.transfers {
		if t.ID == id {
			t.Handled = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// Transfers returns everything scheduled so far.
func (s *TransferStore) Transfers() []*core.Transfer { return s.transfers }

// MessageStore in-memory inbound message store.
type MessageStore struct {
	messages []*core.Message
	saved    []*core.Message
}

// NewMessageStore new in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) snapshot() { s.saved = append(make([]*core.Message, 0, len(s.messages)), s.messages...) }
func (s *MessageStore) restore() {
	if s.saved != nil {
		s.messages = s.saved
		s.saved = nil
	}
}
func (s *MessageStore) commit() { s.saved = nil }

func (s *MessageStore) Create(ctx context.Context, message *core.Message) error {
	c := *message
	c.ID = uint64(len(s.messages) + 1)
	s.messages = append(s.messages, &c)
	message.ID = c.ID
	return nil
}

func (s *MessageStore) Find(ctx context.Context, traceID string) (*core.Message, bool, error) {
	for _, m := range s.messages {
		if m.TraceID == traceID {
			c := *m
			return &c, true, nil
		}
	}
	return nil, false, nil
}

func (s *MessageStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Message, error) {
	var out []*core.Message
	for _, m := range s.messages {
		if m.ID > fromID && m.Status == core.MessageStatusPending {
			c := *m
			out = append(out, &c)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *MessageStore) Update(ctx context.Context, message *core.Message, version int64) error {
	if message.Version >= version {
		return nil
	}

	for i, m := range s.messages {
		if m.ID == message.ID && m.Version == message.Version {
			message.Version = version
			c := *message
			s.messages[i] = &c
			return nil
		}
	}
	return db.ErrOptimisticLock
}
