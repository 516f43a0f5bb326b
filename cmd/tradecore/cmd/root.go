package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradecore",
	Short: "Real-time market analytics and position risk engine",
	Long: `Tradecore maintains a live market data stream and computes analytics
over it:

  - Candle, trade and order book ingestion with automatic reconnects
  - Technical indicators (SMA, EMA, RSI, MACD, Bollinger, ATR and more)
  - Order book depth, imbalance and wall analysis
  - Position risk scoring with liquidation estimates
  - An HTTP API exposing per-symbol summaries and Prometheus metrics`,
}

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}
