package cmd

import (
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"lendpool/core"
)

var listReservesCmd = &cobra.Command{
	Use:     "reserves",
	Aliases: []string{"lr"},
	Short:   "list reserves",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		reserves, err := provideReserveStore(database).All(ctx)
		if err != nil {
			cmd.PrintErrln("list reserves error:", err)
			return
		}

		for _, r := range reserves {
			cmd.Printf("%d\t%s\t%s\tliquidity=%s\tstable=%s\tvariable=%s\n",
				r.ID,
				r.Symbol,
				r.AssetID,
				r.CurrentLiquidityRate,
				r.CurrentStableBorrowRate,
				r.CurrentVariableBorrowRate,
			)
		}
	},
}

var initReserveCmd = &cobra.Command{
	Use:     "init-reserve",
	Aliases: []string{"ir"},
	Short:   "initialize a reserve as the configurator",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem()
		poolService := providePoolService(database, system)

		params, err := buildInitReserveParams(cmd)
		if err != nil {
			cmd.PrintErrln("invalid flags:", err)
			return
		}
		params.Caller = system.ConfiguratorID
		params.TraceID = uuid.New()

		if err := poolService.InitReserve(ctx, params); err != nil {
			cmd.PrintErrln("init reserve error:", err)
			return
		}

		cmd.Println("reserve initialized:", params.AssetID)
	},
}

func init() {
	rootCmd.AddCommand(listReservesCmd)
	rootCmd.AddCommand(initReserveCmd)

	initReserveCmd.Flags().String("asset", "", "underlying asset id")
	initReserveCmd.Flags().String("symbol", "", "reserve symbol")
	initReserveCmd.Flags().String("claim", "", "claim token asset id")
	initReserveCmd.Flags().String("stable", "", "stable debt token asset id")
	initReserveCmd.Flags().String("variable", "", "variable debt token asset id")

	initReserveCmd.Flags().Uint64("ltv", 0, "loan to value, basis points")
	initReserveCmd.Flags().Uint64("threshold", 0, "liquidation threshold, basis points")
	initReserveCmd.Flags().Uint64("bonus", 0, "liquidation bonus, basis points")
	initReserveCmd.Flags().Uint64("decimals", 8, "asset decimals")
	initReserveCmd.Flags().Uint64("reserve-factor", 0, "reserve factor, basis points")
	initReserveCmd.Flags().Bool("borrowing", false, "enable borrowing")
	initReserveCmd.Flags().Bool("stable-borrowing", false, "enable stable rate borrowing")

	initReserveCmd.Flags().String("optimal", "0.8", "optimal utilization")
	initReserveCmd.Flags().String("base-variable", "0", "base variable rate")
	initReserveCmd.Flags().String("slope1", "0.04", "variable slope 1")
	initReserveCmd.Flags().String("slope2", "0.75", "variable slope 2")
	initReserveCmd.Flags().String("base-stable", "0.02", "base stable rate")
	initReserveCmd.Flags().String("stable-slope1", "0.02", "stable slope 1")
	initReserveCmd.Flags().String("stable-slope2", "0.75", "stable slope 2")
}

func buildInitReserveParams(cmd *cobra.Command) (*core.InitReserveParams, error) {
	flags := cmd.Flags()

	params := &core.InitReserveParams{}
	params.AssetID, _ = flags.GetString("asset")
	params.Symbol, _ = flags.GetString("symbol")
	params.ClaimTokenAssetID, _ = flags.GetString("claim")
	params.StableDebtTokenAssetID, _ = flags.GetString("stable")
	params.VariableDebtTokenAssetID, _ = flags.GetString("variable")

	cfg := core.ReserveConfiguration{Active: true}
	cfg.LTV, _ = flags.GetUint64("ltv")
	cfg.LiquidationThreshold, _ = flags.GetUint64("threshold")
	cfg.LiquidationBonus, _ = flags.GetUint64("bonus")
	cfg.Decimals, _ = flags.GetUint64("decimals")
	cfg.ReserveFactor, _ = flags.GetUint64("reserve-factor")
	cfg.BorrowingEnabled, _ = flags.GetBool("borrowing")
	cfg.StableBorrowingEnabled, _ = flags.GetBool("stable-borrowing")
	params.Configuration = cfg

	strategy := core.RateStrategyParams{}
	for _, bind := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"optimal", &strategy.OptimalUtilization},
		{"base-variable", &strategy.BaseVariableRate},
		{"slope1", &strategy.VariableSlope1},
		{"slope2", &strategy.VariableSlope2},
		{"base-stable", &strategy.BaseStableRate},
		{"stable-slope1", &strategy.StableSlope1},
		{"stable-slope2", &strategy.StableSlope2},
	} {
		s, _ := flags.GetString(bind.name)
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		*bind.dst = d
	}
	params.Strategy = strategy

	return params, nil
}
