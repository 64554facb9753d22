package cmd

import (
	"fmt"

	"github.com/rustyeddy/hedger/pricing"
	"github.com/spf13/cobra"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a European option with Black-Scholes",
	Long: `Print the Black-Scholes price, delta and gamma of one option.

Example:
  hedger price --type call --spot 1 --strike 1 --tenor 1 --rate .05 --sigma .1`,
	RunE: runPrice,
}

var (
	priceType   string
	priceSpot   float64
	priceStrike float64
	priceTenor  float64
	priceRate   float64
	priceSigma  float64
)

func init() {
	rootCmd.AddCommand(priceCmd)

	f := priceCmd.Flags()
	f.StringVar(&priceType, "type", "call", "option type (call or put)")
	f.Float64Var(&priceSpot, "spot", 1, "underlying price")
	f.Float64Var(&priceStrike, "strike", 1, "strike price")
	f.Float64Var(&priceTenor, "tenor", 1, "time to expiry in years")
	f.Float64Var(&priceRate, "rate", 0.05, "risk-free rate")
	f.Float64Var(&priceSigma, "sigma", 0.1, "volatility")
}

func runPrice(cmd *cobra.Command, args []string) error {
	typ, err := pricing.ParseOptionType(priceType)
	if err != nil {
		return err
	}
	g, err := pricing.Quote(typ, priceSpot, priceStrike, priceTenor, priceRate, priceSigma)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s spot=%g strike=%g tenor=%gy rate=%g sigma=%g\n",
		typ, priceSpot, priceStrike, priceTenor, priceRate, priceSigma)
	fmt.Fprintf(out, "  Price: %.6f\n", g.Price)
	fmt.Fprintf(out, "  Delta: %.6f\n", g.Delta)
	fmt.Fprintf(out, "  Gamma: %.6f\n", g.Gamma)
	return nil
}
