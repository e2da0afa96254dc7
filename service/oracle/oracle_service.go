package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"lendpool/core"
)

type priceService struct {
	client *resty.Client
}

// New new price oracle client against the configured endpoint.
func New(endpoint string) core.IPriceOracleService {
	client := resty.New().
		SetBaseURL(endpoint).
		SetHeader("Content-Type", "application/json").
		SetHeader("Charset", "utf-8").
		SetTimeout(10 * time.Second)

	return &priceService{client: client}
}

type priceView struct {
	AssetID   string          `json:"asset_id"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"`
}

func (s *priceService) GetUnderlyingPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	r, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("asset", assetID).
		Get("/api/v1/price")
	if err != nil {
		return decimal.Zero, err
	}
	if !r.IsSuccess() {
		return decimal.Zero, fmt.Errorf("oracle: %s", r.Status())
	}

	var view priceView
	if err := json.Unmarshal(r.Body(), &view); err != nil {
		return decimal.Zero, err
	}
	if !view.Price.IsPositive() {
		return decimal.Zero, fmt.Errorf("oracle: no price for %s", assetID)
	}

	return view.Price, nil
}
