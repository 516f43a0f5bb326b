package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmadakra1997/tradecore/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect a market data journal",
	Long: `Print the most recent journaled candles or trades for a symbol.

Examples:
  tradecore journal candles BTCUSDT --db tradecore.db
  tradecore journal trades BTCUSDT --db tradecore.db -n 50`,
}

var journalCandlesCmd = &cobra.Command{
	Use:   "candles <symbol>",
	Short: "Print recent candles",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalCandles,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <symbol>",
	Short: "Print recent trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalCandlesCmd)
	journalCmd.AddCommand(journalTradesCmd)

	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "tradecore.db", "path to the journal database")
	journalCmd.PersistentFlags().IntVarP(&journalLimit, "limit", "n", 20, "number of rows to print")
}

func runJournalCandles(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	candles, err := j.RecentCandles(cmd.Context(), args[0], journalLimit)
	if err != nil {
		return err
	}
	if len(candles) == 0 {
		fmt.Printf("no candles for %s\n", args[0])
		return nil
	}

	fmt.Printf("%-20s %12s %12s %12s %12s %12s\n", "TIME", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
	for _, c := range candles {
		fmt.Printf("%-20s %12.4f %12.4f %12.4f %12.4f %12.4f\n",
			time.Unix(c.Time, 0).UTC().Format(time.RFC3339),
			c.Open, c.High, c.Low, c.Close, c.Volume)
	}
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	trades, err := j.RecentTrades(cmd.Context(), args[0], journalLimit)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Printf("no trades for %s\n", args[0])
		return nil
	}

	fmt.Printf("%-20s %12s %12s %6s\n", "TIME", "PRICE", "QUANTITY", "SIDE")
	for _, t := range trades {
		fmt.Printf("%-20s %12.4f %12.4f %6s\n",
			time.Unix(t.Time, 0).UTC().Format(time.RFC3339),
			t.Price, t.Quantity, t.Side)
	}
	return nil
}
