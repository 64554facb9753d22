package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rustyeddy/hedger/market"
	"github.com/rustyeddy/hedger/monitor"
	"github.com/rustyeddy/hedger/sim"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a hedge simulation from a config file",
	Long: `Generate a price series, delta-hedge the configured portfolio at every
step and journal the trades and per-step results.

Without a config file the defaults are used: one call option expiring at
the first observation, hedged over a year of daily prices.

Examples:
  hedger run -f hedger.yaml --org run.org
  hedger run -f hedger.yaml --series series.csv`,
	RunE: runRun,
}

var (
	runConfigPath  string
	runSeriesPath  string
	runOrgPath     string
	runMetricsPath string
	runSeed        uint64
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "file", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringVarP(&runSeriesPath, "series", "s", "", "hedge a recorded CSV series instead of generating one")
	runCmd.Flags().StringVar(&runOrgPath, "org", "", "write an org-mode run report to this path")
	runCmd.Flags().StringVar(&runMetricsPath, "metrics-file", "", "write final metrics in Prometheus text format to this path")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "override the generator seed")
}

func runRun(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generator.Seed = runSeed
	}

	log, done, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer done()

	params, err := cfg.Generator.Params()
	if err != nil {
		return err
	}
	var obs []market.Observation
	if runSeriesPath != "" {
		obs, err = market.LoadCSV(runSeriesPath, params.Rate)
	} else {
		obs, err = market.Generate(params)
	}
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}
	if err := market.ValidateSeries(obs); err != nil {
		return err
	}

	pf, err := cfg.Portfolio.Build(obs[0])
	if err != nil {
		return err
	}
	typ, err := cfg.Portfolio.DefaultType()
	if err != nil {
		return err
	}

	j, err := cfg.Journal.Open()
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer func() {
		if cerr := j.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close journal: %w", cerr)
		}
	}()

	m := monitor.New(cfg.Metrics)

	opts := []sim.Option{
		sim.WithJournal(j),
		sim.WithMonitor(m),
		sim.WithLogger(log),
		sim.WithGenerator(params),
		sim.WithDefaultOption(sim.DefaultOption{Sigma: cfg.Portfolio.Default.Sigma, Type: typ}),
	}
	if pf != nil {
		opts = append(opts, sim.WithPortfolio(pf))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := sim.New(opts...).Run(ctx, obs)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	out := cmd.OutOrStdout()
	s := res.Summary
	fmt.Fprintf(out, "Run %s\n", res.RunID)
	fmt.Fprintf(out, "  Period: %s .. %s (%d steps)\n", s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"), s.Steps)
	fmt.Fprintf(out, "  Underlying: %.6f .. %.6f\n", s.MinPrice, s.MaxPrice)
	fmt.Fprintf(out, "  Trades: %d\n", s.Trades)
	fmt.Fprintf(out, "  PV: %.6f -> %.6f (P/L %.6f)\n", s.InitialPV, s.FinalPV, s.PnL())
	fmt.Fprintf(out, "  Max |delta| after hedge: %.3g\n", s.MaxAbsDelta)
	fmt.Fprintln(out, "  Holdings:")
	for _, h := range s.Holdings {
		fmt.Fprintf(out, "    - %s\n", h)
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Fprintf(out, "\nResults saved to:\n  - %s\n  - %s\n", cfg.Journal.TradesFile, cfg.Journal.StepsFile)
	case "sqlite":
		fmt.Fprintf(out, "\nResults saved to: %s\n", cfg.Journal.DBPath)
	}

	if runOrgPath != "" {
		if err := s.WriteOrgFile(runOrgPath); err != nil {
			return fmt.Errorf("write org report: %w", err)
		}
		fmt.Fprintf(out, "Report: %s\n", runOrgPath)
	}
	if runMetricsPath != "" {
		if err := prometheus.WriteToTextfile(runMetricsPath, m.Registry()); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
