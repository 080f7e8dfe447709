package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rustyeddy/odyssey/ledger"
	"github.com/rustyeddy/odyssey/monitor"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the automatic order-monitoring loop",
	Long: `Poll current prices for every open position and liquidate positions
whose stop-loss or take-profit threshold has been reached. Runs until
interrupted; the session snapshot is saved after every triggered exit.

The monitor does nothing while the market is closed.

Example:
  odyssey monitor --interval 30s`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

var monitorInterval time.Duration

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "polling interval (default from config, 30s)")
}

// snapshotOnTrigger persists the session after every automatic exit, so
// an interrupt never loses a completed liquidation.
type snapshotOnTrigger struct {
	s *session
}

func (l snapshotOnTrigger) OnPositionClosed(rec ledger.TradeRecord) {
	fmt.Printf("%s triggered for %s: sold %d @ $%.2f (P/L $%.2f)\n",
		rec.Reason, rec.Symbol, rec.Shares, rec.Price, rec.ProfitLoss)
	if err := l.s.save(); err != nil {
		logger.Error().Err(err).Msg("save session after trigger")
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	interval := monitorInterval
	if interval == 0 {
		interval, err = s.cfg.Monitor.ParseInterval()
		if err != nil {
			return err
		}
	}

	m := monitor.New(s.acct, s.src, s.clock)
	m.SetLogger(logger)
	m.SetListener(snapshotOnTrigger{s})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Dur("interval", interval).Msg("monitor started")
	err = m.Run(ctx, interval)
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("monitor stopped")
		return nil
	}
	return err
}
