package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show holdings, cash, and total equity",
	Args:  cobra.NoArgs,
	RunE:  runPortfolio,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the session trade history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(historyCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	positions := s.acct.Positions()
	fmt.Printf("Cash balance: $%.2f\n", s.acct.Cash())

	if len(positions) == 0 {
		fmt.Println("Portfolio is empty.")
		return nil
	}

	symbols := make([]string, 0, len(positions))
	for sym := range positions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	fmt.Printf("\n%-8s %8s %10s %10s %12s %10s %10s\n",
		"SYMBOL", "SHARES", "AVG", "PRICE", "VALUE", "STOP", "TARGET")
	for _, sym := range symbols {
		pos := positions[sym]

		// Degrade to the cost basis when the source has no price.
		price := pos.AvgPrice
		if p, err := s.src.Current(cmd.Context(), sym); err == nil {
			price = p
		}

		stop, target := "-", "-"
		if pos.StopLoss != nil {
			stop = fmt.Sprintf("%.2f", *pos.StopLoss)
		}
		if pos.TakeProfit != nil {
			target = fmt.Sprintf("%.2f", *pos.TakeProfit)
		}

		fmt.Printf("%-8s %8d %10.2f %10.2f %12.2f %10s %10s\n",
			sym, pos.Shares, pos.AvgPrice, price, pos.MarketValue(price), stop, target)
	}

	equity := s.acct.TotalEquity(func(sym string) (float64, error) {
		return s.src.Current(cmd.Context(), sym)
	})
	fmt.Printf("\nTotal equity: $%.2f\n", equity)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	trades := s.acct.Trades()
	if len(trades) == 0 {
		fmt.Println("No trades recorded yet.")
		return nil
	}

	fmt.Printf("%-27s %-20s %-4s %-8s %8s %10s %10s %s\n",
		"ID", "TIME", "SIDE", "SYMBOL", "SHARES", "PRICE", "P/L", "REASON")
	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		fmt.Printf("%-27s %-20s %-4s %-8s %8d %10.2f %10.2f %s\n",
			t.ID, t.Time.Format("2006-01-02 15:04:05"), t.Side, t.Symbol,
			t.Shares, t.Price, t.ProfitLoss, t.Reason)
	}
	return nil
}
