// ChipSight — Conversational Semiconductor Market Intelligence
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chipsight/chipsight/api"
	"github.com/chipsight/chipsight/internal/app"
	"github.com/chipsight/chipsight/internal/config"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chipsight",
	Short: "ChipSight — Conversational Semiconductor Market Intelligence",
	Long: `ChipSight answers natural-language questions about the semiconductor
market by combining a curated industry knowledge base, real-time stock
data, and multi-provider news aggregation into LLM-synthesized analysis.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(monitorCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ChipSight %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Query Command ---

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer one market intelligence question",
	Long: `Run the full answer pipeline for a single question and print the result.

Examples:
  chipsight query "How is NVIDIA stock doing?"
  chipsight query "Latest TSMC news this week"
  chipsight query "Compare AMD and Intel revenue growth"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")
		answer, err := a.Orchestrator.Answer(cmd.Context(), question)
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		fmt.Println(answer.HumanizedAnswer)
		return nil
	},
}

// --- Chat Command ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}

		fmt.Println("💬 ChipSight Chat — ask about the semiconductor market (type 'exit' to quit)")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("\n> ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			if question == "exit" || question == "quit" {
				break
			}

			answer, err := a.Orchestrator.Answer(cmd.Context(), question)
			if err != nil {
				fmt.Printf("⚠️  %v\n", err)
				continue
			}
			fmt.Println("\n" + answer.HumanizedAnswer)
		}
		return scanner.Err()
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server with background monitoring",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}

		noSched, _ := cmd.Flags().GetBool("no-scheduler")
		if !noSched {
			a.Scheduler.Start(cmd.Context())
			defer a.Scheduler.Stop()
		}

		srv := api.NewServer(cfg, a.Orchestrator, a.Monitor, a.Scheduler)
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 ChipSight API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().Bool("no-scheduler", false, "disable the background report/check scheduler")
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and print a market intelligence report now",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		fmt.Println(a.Reporter.Generate(cmd.Context()))
		return nil
	},
}

// --- Monitor Command ---

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run one volatility check across the watch list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}

		alerts := a.Monitor.Check(cmd.Context())
		if len(alerts) == 0 {
			fmt.Println("✅ No volatility alerts — all watched stocks within thresholds.")
			return nil
		}
		for _, alert := range alerts {
			fmt.Printf("🚨 [%s] %s (%s): %s\n", alert.Severity, alert.Company, alert.Symbol, alert.Trigger)
			fmt.Printf("   %s\n", alert.Analysis)
		}
		return nil
	},
}
