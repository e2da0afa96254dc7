package liquidator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"lendpool/core"
)

type liquidator struct {
	client *resty.Client
}

// New new client for the external collateral manager. The manager owns the
// liquidation math; the pool only forwards the request and records the
// outcome.
func New(endpoint string) core.Liquidator {
	client := resty.New().
		SetBaseURL(endpoint).
		SetHeader("Content-Type", "application/json").
		SetHeader("Charset", "utf-8").
		SetTimeout(30 * time.Second)

	return &liquidator{client: client}
}

type liquidateRequest struct {
	CollateralAsset   string `json:"collateral_asset"`
	DebtAsset         string `json:"debt_asset"`
	UserID            string `json:"user_id"`
	DebtToCover       string `json:"debt_to_cover"`
	ReceiveClaimToken bool   `json:"receive_claim_token"`
	TargetChainID     int64  `json:"target_chain_id"`
}

func (l *liquidator) Liquidate(ctx context.Context, params *core.LiquidationParams) (*core.LiquidationResult, error) {
	body := liquidateRequest{
		CollateralAsset:   params.CollateralAsset,
		DebtAsset:         params.DebtAsset,
		UserID:            params.UserID,
		DebtToCover:       params.DebtToCover.String(),
		ReceiveClaimToken: params.ReceiveClaimToken,
		TargetChainID:     params.TargetChainID,
	}

	r, err := l.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/api/v1/liquidate")
	if err != nil {
		return nil, err
	}
	if !r.IsSuccess() {
		return nil, fmt.Errorf("liquidator: %s", r.Status())
	}

	var result core.LiquidationResult
	if err := json.Unmarshal(r.Body(), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
