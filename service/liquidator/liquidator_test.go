package liquidator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendpool/core"
)

func TestLiquidate(t *testing.T) {
	var got liquidateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/liquidate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(core.LiquidationResult{Code: 0, Message: "ok"})
	}))
	defer server.Close()

	l := New(server.URL)

	result, err := l.Liquidate(context.Background(), &core.LiquidationParams{
		CollateralAsset:   "btc-asset",
		DebtAsset:         "usd-asset",
		UserID:            "alice",
		DebtToCover:       decimal.NewFromInt(500),
		ReceiveClaimToken: true,
		TargetChainID:     7,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Code)
	assert.Equal(t, "btc-asset", got.CollateralAsset)
	assert.Equal(t, "500", got.DebtToCover)
	assert.Equal(t, int64(7), got.TargetChainID)
}

func TestLiquidateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(server.URL).Liquidate(context.Background(), &core.LiquidationParams{
		CollateralAsset: "btc-asset",
		DebtAsset:       "usd-asset",
		UserID:          "alice",
		DebtToCover:     decimal.NewFromInt(1),
	})
	assert.Error(t, err)
}
