package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rustyeddy/odyssey/market"
	"github.com/rustyeddy/odyssey/replay"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <symbol>",
	Short: "Practice trading day-by-day over historical data",
	Long: `Start an interactive practice session over daily historical bars.
The session has its own cash, portfolio, and trade history; nothing it
does touches the live account.

Commands inside the session:
  n          - advance to the next day
  b <shares> - buy at the current day's close
  s <shares> - sell at the current day's close
  p          - show practice cash, holdings, and trades
  q          - end the session

Example:
  odyssey replay SPY --range 2y`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var (
	replayRange string
	replayCash  float64
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVar(&replayRange, "range", "2y", "historical range to practice over")
	replayCmd.Flags().Float64Var(&replayCash, "cash", replay.DefaultStartingCash, "starting practice cash")
}

func runReplay(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	bars, err := s.src.Candles(cmd.Context(), market.CandlesRequest{
		Symbol:   symbol,
		Range:    market.Range(replayRange),
		Interval: market.Interval1D,
	})
	if err != nil {
		return fmt.Errorf("historical data for %s: %w", symbol, err)
	}

	sess, err := replay.Start(symbol, bars, replay.Options{StartingCash: replayCash})
	if err != nil {
		return err
	}

	fmt.Printf("Practice session for %s: %d bars, starting at day %d\n",
		symbol, len(bars), sess.Day())
	printReplayDay(sess)

	sc := bufio.NewScanner(os.Stdin)
	for !sess.Ended() {
		fmt.Print("> ")
		if !sc.Scan() {
			break
		}
		if err := handleReplayInput(sess, sc.Text()); err != nil {
			fmt.Println(err)
		}
	}

	fmt.Printf("Session ended. Final practice cash: $%.2f\n", sess.Cash())
	return sc.Err()
}

func handleReplayInput(sess *replay.Session, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "n", "next":
		if err := sess.Advance(); err != nil {
			if errors.Is(err, replay.ErrEndOfHistory) {
				return fmt.Errorf("you have reached the end of the historical data")
			}
			return err
		}
		printReplayDay(sess)
		return nil

	case "b", "buy", "s", "sell":
		if len(fields) < 2 {
			return fmt.Errorf("need a share count, e.g. %q", fields[0]+" 100")
		}
		shares, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad share count %q", fields[1])
		}
		if fields[0] == "b" || fields[0] == "buy" {
			rec, err := sess.Buy(shares)
			if err != nil {
				return err
			}
			fmt.Printf("Bought %d @ $%.2f, cash $%.2f\n", rec.Shares, rec.Price, sess.Cash())
			return nil
		}
		rec, err := sess.Sell(shares)
		if err != nil {
			return err
		}
		fmt.Printf("Sold %d @ $%.2f (P/L $%.2f), cash $%.2f\n", rec.Shares, rec.Price, rec.ProfitLoss, sess.Cash())
		return nil

	case "p", "portfolio":
		fmt.Printf("Practice cash: $%.2f\n", sess.Cash())
		for sym, pos := range sess.Positions() {
			fmt.Printf("  %s: %d shares @ $%.2f avg\n", sym, pos.Shares, pos.AvgPrice)
		}
		for _, t := range sess.Trades() {
			fmt.Printf("  %s %s %d @ $%.2f (P/L $%.2f)\n", t.Time.Format("2006-01-02"), t.Side, t.Shares, t.Price, t.ProfitLoss)
		}
		return nil

	case "q", "quit", "end":
		sess.End()
		return nil

	default:
		return fmt.Errorf("unknown command %q (n, b, s, p, q)", fields[0])
	}
}

func printReplayDay(sess *replay.Session) {
	bar := sess.CurrentBar()
	fmt.Printf("Day %d | %s | O %.2f H %.2f L %.2f C %.2f\n",
		sess.Day(), bar.Time.Format("2006-01-02"), bar.Open, bar.High, bar.Low, bar.Close)
}
