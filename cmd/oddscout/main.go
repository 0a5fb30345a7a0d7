package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "oddscout",
		Short: "Scan sportsbook odds and player projections for value picks",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(scanCmd())
	root.AddCommand(picksCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())
	root.AddCommand(testCmd())

	return root
}

func scanCmd() *cobra.Command {
	var (
		providers []string
		noScore   bool
		noNotify  bool
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one full scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(providers, noScore, noNotify, noSave)
		},
	}

	cmd.Flags().StringSliceVar(&providers, "provider", nil, "specific providers to fetch (bovada,prizepicks)")
	cmd.Flags().BoolVar(&noScore, "no-score", false, "fetch and snapshot only, skip scoring")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "skip alert delivery")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip snapshots and run history")
	return cmd
}

func picksCmd() *cobra.Command {
	var (
		jsonOutput bool
		runID      string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "picks",
		Short: "Show picks from a recorded run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicks(jsonOutput, runID, limit)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().StringVar(&runID, "run", "", "run ID (default: latest run)")
	cmd.Flags().IntVar(&limit, "limit", 50, "max picks to show")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "server port")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scan scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "server port")
	return cmd
}

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test notification to every configured destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest()
		},
	}
}
