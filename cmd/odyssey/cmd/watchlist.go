package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Show or edit the watchlist",
	Args:  cobra.NoArgs,
	RunE:  runWatchlistShow,
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "Add a symbol to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchlistAdd,
}

func init() {
	rootCmd.AddCommand(watchlistCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
}

func runWatchlistShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if len(s.prefs.Watchlist) == 0 {
		fmt.Println("Watchlist is empty.")
		return nil
	}
	for _, sym := range s.prefs.Watchlist {
		fmt.Println(sym)
	}
	return nil
}

func runWatchlistAdd(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	for _, sym := range s.prefs.Watchlist {
		if sym == symbol {
			fmt.Printf("%s is already on the watchlist.\n", symbol)
			return nil
		}
	}

	s.prefs.Watchlist = append(s.prefs.Watchlist, symbol)
	if err := s.save(); err != nil {
		return err
	}

	fmt.Printf("Added %s to the watchlist.\n", symbol)
	return nil
}
