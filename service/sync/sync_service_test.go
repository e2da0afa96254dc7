package sync

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/pandodao/blst"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendpool/core"
	"lendpool/internal/memstore"
	"lendpool/pkg/ray"
	"lendpool/pkg/wire"
)

type env struct {
	reserves *memstore.ReserveStore
	events   *memstore.EventStore
	system   *core.System
	keys     []*blst.PrivateKey
	svc      core.IConfigSyncService
}

func setup(t *testing.T) *env {
	reserves := memstore.NewReserveStore()
	events := memstore.NewEventStore()
	transactor := memstore.NewTransactor(reserves, events)

	keys := make([]*blst.PrivateKey, 3)
	signers := make([]*core.Signer, 3)
	for i := range keys {
		keys[i] = blst.GenerateKey()
		signers[i] = &core.Signer{
			Index:     uint64(i) + 1,
			VerifyKey: keys[i].PublicKey(),
		}
	}

	system := &core.System{
		ChainID:        7,
		RouterID:       "router",
		ConfiguratorID: "configurator",
		SyncSigners:    signers,
		SyncThreshold:  2,
	}

	return &env{
		reserves: reserves,
		events:   events,
		system:   system,
		keys:     keys,
		svc:      New(transactor, reserves, events, system),
	}
}

func addReserve(t *testing.T, e *env, assetID string) *core.Reserve {
	r := &core.Reserve{
		AssetID:             assetID,
		Symbol:              assetID,
		LiquidityIndex:      ray.One,
		VariableBorrowIndex: ray.One,
		AvailableLiquidity:  decimal.NewFromInt(1000),
	}
	r.SetConfig(core.ReserveConfiguration{
		LTV:                  5000,
		LiquidationThreshold: 6000,
		LiquidationBonus:     10500,
		Decimals:             8,
		Active:               true,
	})
	require.Nil(t, e.reserves.Create(context.Background(), nil, r))
	return r
}

func newConfig() core.ReserveConfiguration {
	return core.ReserveConfiguration{
		LTV:                    7000,
		LiquidationThreshold:   8000,
		LiquidationBonus:       10800,
		Decimals:               8,
		Active:                 true,
		BorrowingEnabled:       true,
		StableBorrowingEnabled: true,
		ReserveFactor:          2000,
	}
}

// message builds an authenticated configuration message signed by the
// signers named in idxs.
func message(t *testing.T, e *env, payload []byte, idxs ...int) *core.Message {
	var (
		mask uint64
		sigs []*blst.Signature
	)
	for _, i := range idxs {
		mask |= 0x1 << e.system.SyncSigners[i].Index
		sigs = append(sigs, e.keys[i].Sign(payload))
	}

	return &core.Message{
		TraceID:       "6e8a9fd1-73a2-44f4-a5a0-7a1b61a1e2a3",
		Origin:        "configurator",
		OriginChainID: 99,
		Payload:       payload,
		SignerMask:    mask,
		Signature:     base64.StdEncoding.EncodeToString(blst.AggregateSignatures(sigs).Bytes()),
	}
}

func payloadFor(t *testing.T, selector uint32, chainID int64, assetID string, cfg core.ReserveConfiguration) []byte {
	payload, err := wire.Encode(selector, chainID, assetID, cfg.Pack())
	require.Nil(t, err)
	return payload
}

func TestApplyConfiguration(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	addReserve(t, e, "btc")

	cfg := newConfig()
	payload := payloadFor(t, core.SelectorReserveConfigurationChanged, 7, "btc", cfg)
	msg := message(t, e, payload, 0, 1)

	require.Nil(t, e.svc.Apply(ctx, msg))

	r, err := e.reserves.Find(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, cfg, r.Config())

	events := e.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, core.EventTypeReserveConfigurationChanged, events[0].Type)

	// duplicate delivery is a harmless overwrite
	require.Nil(t, e.svc.Apply(ctx, msg))
	r, err = e.reserves.Find(ctx, "btc")
	require.Nil(t, err)
	assert.Equal(t, cfg, r.Config())
}

func TestApplyWrongOrigin(t *testing.T) {
	e := setup(t)
	addReserve(t, e, "btc")

	payload := payloadFor(t, core.SelectorReserveConfigurationChanged, 7, "btc", newConfig())
	msg := message(t, e, payload, 0, 1)
	msg.Origin = "impostor"

	assert.Equal(t, core.ErrBadMessageOrigin, e.svc.Apply(context.Background(), msg))
}

func TestApplyBelowThreshold(t *testing.T) {
	e := setup(t)
	addReserve(t, e, "btc")

	payload := payloadFor(t, core.SelectorReserveConfigurationChanged, 7, "btc", newConfig())
	msg := message(t, e, payload, 0)

	assert.Equal(t, core.ErrMessageAuthFailed, e.svc.Apply(context.Background(), msg))
}

func TestApplyForgedSignature(t *testing.T) {
	e := setup(t)
	addReserve(t, e, "btc")

	payload := payloadFor(t, core.SelectorReserveConfigurationChanged, 7, "btc", newConfig())
	other := payloadFor(t, core.SelectorReserveConfigurationChanged, 7, "eth", newConfig())

	msg := message(t, e, other, 0, 1)
	msg.Payload = payload

	assert.Equal(t, core.ErrMessageAuthFailed, e.svc.Apply(context.Background(), msg))
}

func TestApplyWrongChain(t *testing.T) {
	e := setup(t)
	addReserve(t, e, "btc")

	payload := payloadFor(t, core.SelectorReserveConfigurationChanged, 8, "btc", newConfig())
	msg := message(t, e, payload, 0, 1)

	assert.Equal(t, core.ErrWrongChainID, e.svc.Apply(context.Background(), msg))
}

func TestApplyWrongSelector(t *testing.T) {
	e := setup(t)
	addReserve(t, e, "btc")

	payload := payloadFor(t, uint32(42), 7, "btc", newConfig())
	msg := message(t, e, payload, 0, 1)

	assert.Equal(t, core.ErrWrongSelector, e.svc.Apply(context.Background(), msg))
}

func TestApplyInvalidConfiguration(t *testing.T) {
	e := setup(t)
	addReserve(t, e, "btc")

	cfg := newConfig()
	cfg.LTV = 9000
	cfg.LiquidationThreshold = 8000

	payload := payloadFor(t, core.SelectorReserveConfigurationChanged, 7, "btc", cfg)
	msg := message(t, e, payload, 0, 1)

	assert.Equal(t, core.ErrInvalidConfiguration, e.svc.Apply(context.Background(), msg))
}

func TestApplyUnknownReserve(t *testing.T) {
	e := setup(t)

	payload := payloadFor(t, core.SelectorReserveConfigurationChanged, 7, "doge", newConfig())
	msg := message(t, e, payload, 0, 1)

	assert.Equal(t, core.ErrReserveNotFound, e.svc.Apply(context.Background(), msg))
}
