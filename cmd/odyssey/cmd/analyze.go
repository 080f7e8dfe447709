package cmd

import (
	"fmt"

	"github.com/rustyeddy/odyssey/analysis"
	"github.com/rustyeddy/odyssey/ledger"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [trade-id]",
	Short: "Analyze a completed trade",
	Long: `Grade a completed sell against its matching buy: RSI at the entry
date classifies the entry, and the highest price while the position was
held shows the profit that was available.

With no argument, lists the sell trades available for analysis.

Examples:
  odyssey analyze
  odyssey analyze 01J9ZK3V7R8Q4M2T6X0B5N1CWD`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	trades := s.acct.Trades()

	if len(args) == 0 {
		listed := 0
		for _, t := range trades {
			if t.Side == ledger.Sell {
				fmt.Printf("%s  %s %d shares @ $%.2f on %s (P/L $%.2f)\n",
					t.ID, t.Symbol, t.Shares, t.Price, t.Time.Format("2006-01-02"), t.ProfitLoss)
				listed++
			}
		}
		if listed == 0 {
			fmt.Println("No completed sells to analyze yet.")
		}
		return nil
	}

	for _, t := range trades {
		if t.ID != args[0] {
			continue
		}
		report, err := analysis.NewAnalyzer(s.src).AnalyzeTrade(cmd.Context(), t, trades)
		if err != nil {
			return err
		}

		fmt.Printf("Analysis for %s trade:\n", report.Symbol)
		fmt.Printf("  Entry: $%.2f on %s, RSI %.2f -> %s\n",
			report.BuyPrice, report.BuyTime.Format("2006-01-02"), report.EntryRSI, report.EntryClass)
		fmt.Printf("  Realized P/L: $%.2f\n", report.RealizedPL)
		if report.HighKnown {
			fmt.Printf("  Highest price while held: $%.2f\n", report.MaxHigh)
			fmt.Printf("  Potential profit at the high: $%.2f\n", report.PotentialProfit)
		} else {
			fmt.Println("  Highest price while held: unavailable (no bars over the holding period)")
		}
		return nil
	}

	return fmt.Errorf("trade %q not found in session history", args[0])
}
