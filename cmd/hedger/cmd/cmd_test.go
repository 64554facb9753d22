package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rustyeddy/hedger/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hedger version "+version)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hedger.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "366 points")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("journal:\n  type: kafka\n"), 0644))
	_, err = execute(t, "config", "validate", "-f", bad)
	assert.Error(t, err)
}

func TestPrice(t *testing.T) {
	out, err := execute(t, "price", "--type", "call", "--spot", "100", "--strike", "100", "--tenor", "1", "--rate", ".05", "--sigma", ".2")
	require.NoError(t, err)
	assert.Contains(t, out, "Price: 10.450")
	assert.Contains(t, out, "Delta: 0.636")

	_, err = execute(t, "price", "--type", "call", "--sigma", "0")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	_, err := execute(t, "generate", "-n", "500", "--offset", "10", "--a0", "1e-5", "--p", ".01", "--q", ".002", "-o", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 491)
	assert.Equal(t, []string{"time", "price", "volatility", "return", "rate"}, rows[0])
	assert.Equal(t, "2020-01-11T00:00:00Z", rows[1][0])
}

func TestRunAndQueryJournal(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.sqlite")
	org := filepath.Join(dir, "run.org")
	metrics := filepath.Join(dir, "metrics.prom")

	cfg := config.Default()
	cfg.Generator.Count = 50
	cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: db}
	cfgPath := filepath.Join(dir, "hedger.yaml")
	require.NoError(t, cfg.SaveToFile(cfgPath))

	out, err := execute(t, "run", "-f", cfgPath, "--seed", "5", "--org", org, "--metrics-file", metrics)
	require.NoError(t, err)
	assert.Contains(t, out, "(40 steps)")
	assert.Contains(t, out, "Results saved to: "+db)

	m := regexp.MustCompile(`Run (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	runID := m[1]

	report, err := os.ReadFile(org)
	require.NoError(t, err)
	assert.Contains(t, string(report), "* HEDGE RUN: "+runID)

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "hedger_sim_steps_total 40")

	out, err = execute(t, "journal", "run", runID, "--db", db)
	require.NoError(t, err)
	assert.Regexp(t, `:STEPS:\s+40\n`, out)

	out, err = execute(t, "journal", "trades", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "| option |")
	assert.Contains(t, out, "| stock |")

	out, err = execute(t, "journal", "steps", runID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "| pre-hedge delta |")

	_, err = execute(t, "journal", "run", "nope", "--db", db)
	assert.Error(t, err)
}

func TestRunClosesCSVJournal(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Generator.Count = 20
	cfg.Journal = config.JournalConfig{
		Type:       "csv",
		TradesFile: filepath.Join(dir, "trades.csv"),
		StepsFile:  filepath.Join(dir, "steps.csv"),
	}
	cfgPath := filepath.Join(dir, "hedger.yaml")
	require.NoError(t, cfg.SaveToFile(cfgPath))

	_, err := execute(t, "run", "-f", cfgPath, "--seed", "2", "--org", "", "--metrics-file", "")
	require.NoError(t, err)

	read := func(path string) [][]string {
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows
	}
	// Header, the seeded option and two hedge trades per step.
	assert.Len(t, read(cfg.Journal.TradesFile), 1+1+2*10)
	assert.Len(t, read(cfg.Journal.StepsFile), 1+10)
}

func TestRunRecordedSeries(t *testing.T) {
	dir := t.TempDir()
	series := filepath.Join(dir, "series.csv")
	require.NoError(t, os.WriteFile(series, []byte(`time,price
2024-01-02T00:00:00Z,100
2024-01-03T00:00:00Z,101
2024-01-04T00:00:00Z,99.5
`), 0644))

	cfg := config.Default()
	cfg.Journal = config.JournalConfig{Type: "none"}
	cfg.Portfolio.Positions = []config.PositionConfig{
		{Kind: "option", Amount: 1, Sigma: 0.2, ExpiryDays: 30, Type: "put"},
	}
	cfgPath := filepath.Join(dir, "hedger.json")
	require.NoError(t, cfg.SaveToFile(cfgPath))

	out, err := execute(t, "run", "-f", cfgPath, "--series", series, "--org", "", "--metrics-file", "")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-02 .. 2024-01-04 (3 steps)")
	assert.Contains(t, out, "Underlying: 99.500000 .. 101.000000")

	unordered := filepath.Join(dir, "unordered.csv")
	require.NoError(t, os.WriteFile(unordered, []byte("time,price\n2024-01-03T00:00:00Z,1\n2024-01-02T00:00:00Z,1\n"), 0644))
	_, err = execute(t, "run", "-f", cfgPath, "--series", unordered)
	assert.Error(t, err)
}
