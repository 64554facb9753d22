package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/hedger/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query a SQLite run journal",
	Long: `Query runs recorded in a SQLite journal.

Subcommands:
  run    - Print the org-mode summary of a run
  trades - List the trades of a run
  steps  - List the per-step results of a run

Examples:
  hedger journal run <run-id>
  hedger journal trades <run-id> --db hedger.sqlite`,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Print the summary of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "List the trades of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalStepsCmd = &cobra.Command{
	Use:   "steps <run-id>",
	Short: "List the steps of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSteps,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalStepsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./hedger.sqlite", "path to SQLite journal DB")
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	run, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	return run.WriteOrg(cmd.OutOrStdout())
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListTrades(args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	var b strings.Builder
	b.WriteString("| time | kind | amount | ref price | strike | sigma | type | expiry |\n")
	b.WriteString("|------+------+--------+-----------+--------+-------+------+--------|\n")
	for _, r := range recs {
		expiry := ""
		if !r.Expiry.IsZero() {
			expiry = r.Expiry.Format(time.DateOnly)
		}
		fmt.Fprintf(&b, "| %s | %s | %.6f | %.6f | %g | %g | %s | %s |\n",
			r.Time.Format(time.DateOnly), r.Kind, r.Amount, r.ReferencePrice, r.Strike, r.Sigma, r.OptionType, expiry)
	}
	fmt.Fprint(cmd.OutOrStdout(), b.String())
	return nil
}

func runJournalSteps(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListSteps(args[0])
	if err != nil {
		return fmt.Errorf("query steps: %w", err)
	}

	var b strings.Builder
	b.WriteString("| time | price | pre-hedge delta | pv | delta | stock | deposit |\n")
	b.WriteString("|------+-------+-----------------+----+-------+-------+---------|\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "| %s | %.6f | %.6f | %.6f | %.3g | %.6f | %.6f |\n",
			r.Time.Format(time.DateOnly), r.AssetPrice, r.PreHedgeDelta, r.PortfolioPV,
			r.PortfolioDelta, r.HedgeStockAmount, r.HedgeDepositAmount)
	}
	fmt.Fprint(cmd.OutOrStdout(), b.String())
	return nil
}
