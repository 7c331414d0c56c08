package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/condorscan/condorscan/chain"
	"github.com/condorscan/condorscan/config"
	"github.com/condorscan/condorscan/positions"
	"github.com/condorscan/condorscan/report"
	"github.com/condorscan/condorscan/volatility"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "condorscan",
		Short: "Screen 4-leg option strategies from a chain table",
		Long: "condorscan enumerates iron-condor style combinations from an options " +
			"chain, scores each with a lognormal probability-of-profit model and a " +
			"risk/reward ratio, and exports the ranked results.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; it only carries optional overrides.
			_ = godotenv.Load()

			cfg, err := config.Load(v, cfgPath)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgPath, "config", "", "optional config file")
	flags.String("chain", "", "chain table CSV (required)")
	flags.String("history", "", "daily quote history CSV, used to estimate sigma when omitted")
	flags.String("output", "", "results CSV path (default stdout)")
	flags.Float64("spot", 0, "current underlying price (required)")
	flags.Int("dte", 0, "days to expiry (required)")
	flags.Float64("rate", 0, "annualized risk-free rate")
	flags.Float64("sigma", 0, "annualized volatility; estimated from history when 0")
	flags.String("policy", "nested-offset", "enumeration policy: nested-offset or independent")
	flags.Int("start", 0, "first chain column considered by nested-offset")
	flags.Int("max-rows", 30, "chain columns considered per pass")
	flags.Int("max-offset", 5, "max long-leg offset for nested-offset")
	flags.Float64("min-probability", 0, "drop results below this profit probability")
	flags.Int("top", 10, "rows rendered to the terminal")
	flags.Int("workers", 0, "worker count (default NumCPU)")
	flags.Bool("progress", true, "render a progress bar")
	flags.Bool("monitor-cpu", false, "log CPU usage during the pass")
	flags.String("log-level", "info", "logrus level")

	cobra.CheckErr(v.BindPFlags(flags))
	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(level)

	if cfg.ChainPath == "" {
		return fmt.Errorf("--chain is required")
	}

	runID := uuid.NewString()
	logger := log.WithField("run_id", runID)

	chainFile, err := os.Open(cfg.ChainPath)
	if err != nil {
		return fmt.Errorf("opening chain: %w", err)
	}
	defer chainFile.Close()

	table, err := chain.LoadCSV(chainFile)
	if err != nil {
		return err
	}
	logger.WithField("columns", table.Columns()).Info("loaded chain table")

	if cfg.Sigma <= 0 && cfg.HistoryPath != "" {
		historyFile, err := os.Open(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		history, err := chain.LoadHistoryCSV(historyFile)
		historyFile.Close()
		if err != nil {
			return err
		}
		cfg.Sigma = volatility.Estimate(history)
		logger.WithField("sigma", cfg.Sigma).Info("estimated sigma from history")
	}

	policy, err := cfg.EnumerationPolicy()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	screener := &positions.Screener{
		Table:      table,
		Scenario:   cfg.Scenario(),
		Policy:     policy,
		Workers:    cfg.Workers,
		Progress:   cfg.Progress,
		MonitorCPU: cfg.MonitorCPU,
	}

	outcome, err := screener.Run(ctx)
	if err != nil {
		return err
	}

	results := positions.FilterByProbability(outcome.Results, cfg.MinProbability)
	ranked := positions.Rank(results, positions.ByRiskReward)

	rows, err := report.Rows(ranked, table)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		out, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer out.Close()
		if err := report.WriteCSV(out, rows); err != nil {
			return err
		}
		logger.WithFields(log.Fields{
			"path":    cfg.Output,
			"results": len(rows),
			"skipped": outcome.Skipped,
		}).Info("wrote results")
	} else if err := report.WriteCSV(cmd.OutOrStdout(), rows); err != nil {
		return err
	}

	report.RenderTop(cmd.OutOrStdout(), rows, cfg.TopN)
	return nil
}
