package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy <symbol> <shares>",
	Short: "Place a market buy order",
	Long: `Buy shares at the current market price, optionally attaching exit
thresholds. The stop-loss must be below the current price and the
take-profit above it; when either threshold is later reached, the
monitor liquidates the whole position automatically.

Examples:
  odyssey buy NVDA 100
  odyssey buy NVDA 100 --stop-loss 110.50 --take-profit 140`,
	Args: cobra.ExactArgs(2),
	RunE: runBuy,
}

var sellCmd = &cobra.Command{
	Use:   "sell <symbol> <shares>",
	Short: "Place a market sell order",
	Long: `Sell shares of an open position at the current market price.

Example:
  odyssey sell NVDA 50`,
	Args: cobra.ExactArgs(2),
	RunE: runSell,
}

var (
	buyStopLoss   float64
	buyTakeProfit float64
)

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)

	buyCmd.Flags().Float64Var(&buyStopLoss, "stop-loss", 0, "stop-loss price (0 = none)")
	buyCmd.Flags().Float64Var(&buyTakeProfit, "take-profit", 0, "take-profit price (0 = none)")
}

func parseTradeArgs(args []string) (string, int, error) {
	symbol := strings.ToUpper(args[0])
	shares, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, fmt.Errorf("bad share count %q: %w", args[1], err)
	}
	return symbol, shares, nil
}

func runBuy(cmd *cobra.Command, args []string) error {
	symbol, shares, err := parseTradeArgs(args)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	price, err := s.src.Current(cmd.Context(), symbol)
	if err != nil {
		return fmt.Errorf("price for %s: %w", symbol, err)
	}

	var sl, tp *float64
	if buyStopLoss > 0 {
		sl = &buyStopLoss
	}
	if buyTakeProfit > 0 {
		tp = &buyTakeProfit
	}

	rec, err := s.acct.PlaceBuy(symbol, shares, price, sl, tp)
	if err != nil {
		return err
	}

	s.prefs.Symbol = symbol
	if err := s.save(); err != nil {
		return err
	}

	fmt.Printf("Bought %d %s @ $%.2f (cost $%.2f)\n", rec.Shares, rec.Symbol, rec.Price, rec.Price*float64(rec.Shares))
	fmt.Printf("Cash balance: $%.2f\n", s.acct.Cash())
	return nil
}

func runSell(cmd *cobra.Command, args []string) error {
	symbol, shares, err := parseTradeArgs(args)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	price, err := s.src.Current(cmd.Context(), symbol)
	if err != nil {
		return fmt.Errorf("price for %s: %w", symbol, err)
	}

	rec, err := s.acct.PlaceSell(symbol, shares, price)
	if err != nil {
		return err
	}

	s.prefs.Symbol = symbol
	if err := s.save(); err != nil {
		return err
	}

	fmt.Printf("Sold %d %s @ $%.2f (P/L $%.2f)\n", rec.Shares, rec.Symbol, rec.Price, rec.ProfitLoss)
	fmt.Printf("Cash balance: $%.2f\n", s.acct.Cash())
	return nil
}
