package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lottocheck/cmd"
	"lottocheck/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	checkSets    int
	checkDraw    string
	oddsTrials   int
	oddsDrawFlag string
)

var rootCmd = &cobra.Command{
	Use:   "lottocheck",
	Short: "Generate lotto tickets and check them against published draws",
	Long: `lottocheck resolves Korean Lotto 6/45 draws from the Donghaeng Lottery
service, generates random tickets and classifies them into prize tiers.

Without a subcommand it runs the HTTP API and, when DISCORD_TOKEN is set,
the Discord bot.`,
	SilenceUsage: true,
	PersistentPreRun: func(c *cobra.Command, args []string) {
		config.Get().ConfigureLogging()
	},
	RunE: func(c *cobra.Command, args []string) error {
		return cmd.Run(c.Context())
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the HTTP API and Discord bot",
	RunE: func(c *cobra.Command, args []string) error {
		return cmd.Run(c.Context())
	},
}

var drawCmd = &cobra.Command{
	Use:   "draw [latest|<number>]",
	Short: "Show a draw's winning numbers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		ref := "latest"
		if len(args) == 1 {
			ref = args[0]
		}
		return cmd.Draw(c.Context(), config.Get(), c.OutOrStdout(), ref)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Generate tickets and check them against a draw",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return cmd.Check(c.Context(), config.Get(), c.OutOrStdout(), checkSets, checkDraw)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print draw events published on NATS",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return cmd.Watch(c.Context(), config.Get(), c.OutOrStdout())
	},
}

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Show per-ticket prize odds, optionally checked by simulation",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return cmd.Odds(c.Context(), config.Get(), c.OutOrStdout(), oddsTrials, oddsDrawFlag)
	},
}

func init() {
	checkCmd.Flags().IntVarP(&checkSets, "sets", "n", 5, "Number of tickets to generate")
	checkCmd.Flags().StringVarP(&checkDraw, "draw", "d", "latest", "Draw to check against (latest or a draw number)")

	oddsCmd.Flags().IntVarP(&oddsTrials, "simulate", "s", 0, "Generate this many tickets and compare the tiers with the exact odds")
	oddsCmd.Flags().StringVarP(&oddsDrawFlag, "draw", "d", "latest", "Draw to simulate against (latest or a draw number)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(drawCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(oddsCmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("lottocheck failed")
		cancel()
		os.Exit(1)
	}
}
