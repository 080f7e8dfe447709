package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/indicators"
	"github.com/rustyeddy/odyssey/market"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <symbol>",
	Short: "Show the current price and daily stats for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

var newsCmd = &cobra.Command{
	Use:   "news <symbol>",
	Short: "Show recent headlines for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runNews,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(newsCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	q, err := s.src.Quote(cmd.Context(), symbol)
	if err != nil {
		return fmt.Errorf("quote for %s unavailable: %w", symbol, err)
	}

	status := "CLOSED"
	if s.clock.IsOpen() {
		status = "OPEN"
	}

	fmt.Printf("%s: $%.2f (market %s)\n", symbol, q.Price, status)
	if q.PrevClose > 0 {
		change := q.Price - q.PrevClose
		fmt.Printf("  Change: %+.2f (%+.2f%%)\n", change, change/q.PrevClose*100)
	}
	if q.DayLow > 0 && q.DayHigh > 0 {
		fmt.Printf("  Day range: $%.2f - $%.2f\n", q.DayLow, q.DayHigh)
	}
	if q.Volume > 0 {
		fmt.Printf("  Volume: %.0f\n", q.Volume)
	}
	printIndicatorStats(cmd, s, symbol)

	s.prefs.Symbol = symbol
	return s.save()
}

// printIndicatorStats streams recent daily bars through the standard
// indicator set. Stats are best-effort: no history, no stats line.
func printIndicatorStats(cmd *cobra.Command, s *session, symbol string) {
	bars, err := s.src.Candles(cmd.Context(), market.CandlesRequest{
		Symbol:   symbol,
		Range:    market.Range6Mo,
		Interval: market.Interval1D,
	})
	if err != nil {
		return
	}

	stats := []indicators.Indicator{
		indicators.NewRSI(14),
		indicators.NewSMA(20),
		indicators.NewEMA(20),
	}
	for _, ind := range stats {
		for _, bar := range bars {
			ind.Update(bar)
		}
		if ind.Ready() {
			fmt.Printf("  %s: %.2f\n", ind.Name(), ind.Value())
		}
	}
}

func runNews(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	items, err := s.src.News(cmd.Context(), symbol)
	if err != nil {
		return fmt.Errorf("news for %s unavailable: %w", symbol, err)
	}
	if len(items) == 0 {
		fmt.Printf("No recent news for %s.\n", symbol)
		return nil
	}

	for _, n := range items {
		fmt.Printf("%s\n  %s - %s\n  %s\n\n",
			n.Title, n.Publisher, n.Published.Format("2006-01-02 15:04"), n.Link)
	}
	return nil
}
