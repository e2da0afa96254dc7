package account

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lendpool/core"
	"lendpool/pkg/ray"
)

type accountService struct {
	reserveStore    core.IReserveStore
	positionStore   core.IPositionStore
	userConfigStore core.IUserConfigStore
	priceService    core.IPriceOracleService
}

// New new account service
func New(
	reserveStore core.IReserveStore,
	positionStore core.IPositionStore,
	userConfigStore core.IUserConfigStore,
	priceService core.IPriceOracleService,
) core.IAccountService {
	return &accountService{
		reserveStore:    reserveStore,
		positionStore:   positionStore,
		userConfigStore: userConfigStore,
		priceService:    priceService,
	}
}

func (s *accountService) CalculateUserAccountData(ctx context.Context, userID string, now time.Time) (*core.AccountData, error) {
	return s.calculate(ctx, userID, now, "", decimal.Zero, decimal.Zero)
}

func (s *accountService) HealthFactorAfterDecrease(ctx context.Context, userID, assetID string, amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	data, err := s.calculate(ctx, userID, now, assetID, amount, decimal.Zero)
	if err != nil {
		return decimal.Zero, err
	}

	return data.HealthFactor, nil
}

func (s *accountService) HealthFactorAfterBorrow(ctx context.Context, userID, assetID string, amount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	data, err := s.calculate(ctx, userID, now, assetID, decimal.Zero, amount)
	if err != nil {
		return decimal.Zero, err
	}

	return data.HealthFactor, nil
}

// calculate walks all reserves in id order, so the result only depends on
// state and oracle quotes. adjustAsset applies a hypothetical collateral
// decrease and debt increase to one asset before aggregating.
func (s *accountService) calculate(ctx context.Context, userID string, now time.Time, adjustAsset string, collateralDecrease, debtIncrease decimal.Decimal) (*core.AccountData, error) {
	userConfig, err := s.userConfigStore.Find(ctx, userID)
	if err != nil {
		return nil, err
	}

	reserves, err := s.reserveStore.All(ctx)
	if err != nil {
		return nil, err
	}

	var (
		totalCollateral   = decimal.Zero
		totalDebt         = decimal.Zero
		weightedLTV       = decimal.Zero
		weightedThreshold = decimal.Zero
	)

	for _, reserve := range reserves {
		touchesAdjusted := reserve.AssetID == adjustAsset
		if !userConfig.UsingAsCollateral(reserve.ID) && !userConfig.IsBorrowing(reserve.ID) && !touchesAdjusted {
			continue
		}

		position, err := s.positionStore.Find(ctx, userID, reserve.AssetID)
		if err != nil {
			return nil, err
		}

		price, err := s.priceService.GetUnderlyingPrice(ctx, reserve.AssetID)
		if err != nil {
			return nil, err
		}

		cfg := reserve.Config()

		if userConfig.UsingAsCollateral(reserve.ID) && cfg.LiquidationThreshold > 0 {
			balance := position.ClaimBalance(reserve, now)
			if touchesAdjusted {
				balance = balance.Sub(collateralDecrease)
				if balance.IsNegative() {
					balance = decimal.Zero
				}
			}

			value := balance.Mul(price)
			totalCollateral = totalCollateral.Add(value)
			weightedLTV = weightedLTV.Add(value.Mul(decimal.NewFromInt(int64(cfg.LTV))))
			weightedThreshold = weightedThreshold.Add(value.Mul(decimal.NewFromInt(int64(cfg.LiquidationThreshold))))
		}

		debt := position.TotalDebt(reserve, now)
		if touchesAdjusted {
			debt = debt.Add(debtIncrease)
		}
		if debt.IsPositive() {
			totalDebt = totalDebt.Add(debt.Mul(price))
		}
	}

	data := &core.AccountData{
		UserID:          userID,
		TotalCollateral: totalCollateral,
		TotalDebt:       totalDebt,
		HealthFactor:    core.MaxHealthFactor,
	}

	if totalCollateral.IsPositive() {
		data.CurrentLTV = ray.Div(weightedLTV, totalCollateral)
		data.CurrentLiquidationThreshold = ray.Div(weightedThreshold, totalCollateral)
	}

	if totalDebt.IsPositive() {
		weighted := totalCollateral.Mul(data.CurrentLiquidationThreshold).DivRound(ray.PercentFactor, ray.Precision+1)
		data.HealthFactor = ray.Div(weighted, totalDebt)
	}

	borrowPower := totalCollateral.Mul(data.CurrentLTV).DivRound(ray.PercentFactor, ray.Precision+1)
	data.AvailableBorrows = borrowPower.Sub(totalDebt)
	if data.AvailableBorrows.IsNegative() {
		data.AvailableBorrows = decimal.Zero
	}

	return data, nil
}
