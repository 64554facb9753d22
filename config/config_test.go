package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/hedger/asset"
	"github.com/rustyeddy/hedger/journal"
	"github.com/rustyeddy/hedger/market"
	"github.com/rustyeddy/hedger/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 366, cfg.Generator.Count)
	assert.Equal(t, 10, cfg.Generator.Offset)
	assert.Equal(t, 0.2, cfg.Portfolio.Default.Sigma)
	assert.NoError(t, cfg.Validate())

	p, err := cfg.Generator.Params()
	require.NoError(t, err)
	assert.Equal(t, market.DefaultParams(), p)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero count",
			mutate:  func(c *Config) { c.Generator.Count = 0 },
			wantErr: true,
			errMsg:  "count",
		},
		{
			name:    "offset past count",
			mutate:  func(c *Config) { c.Generator.Offset = 400 },
			wantErr: true,
			errMsg:  "offset",
		},
		{
			name:    "bad step",
			mutate:  func(c *Config) { c.Generator.Step = "daily" },
			wantErr: true,
			errMsg:  "generator.step",
		},
		{
			name:    "bad start",
			mutate:  func(c *Config) { c.Generator.Start = "01/01/2020" },
			wantErr: true,
			errMsg:  "generator.start",
		},
		{
			name:    "non-positive default sigma",
			mutate:  func(c *Config) { c.Portfolio.Default.Sigma = 0 },
			wantErr: true,
			errMsg:  "portfolio.default.sigma must be positive",
		},
		{
			name:    "unknown default type",
			mutate:  func(c *Config) { c.Portfolio.Default.Type = "straddle" },
			wantErr: true,
			errMsg:  "portfolio.default.type",
		},
		{
			name: "unknown position kind",
			mutate: func(c *Config) {
				c.Portfolio.Positions = []PositionConfig{{Kind: "bond", Amount: 1}}
			},
			wantErr: true,
			errMsg:  `portfolio.positions[0]: unknown position kind "bond"`,
		},
		{
			name: "option without sigma",
			mutate: func(c *Config) {
				c.Portfolio.Positions = []PositionConfig{{Kind: "option", Amount: 1, Type: "put"}}
			},
			wantErr: true,
			errMsg:  "option sigma must be positive",
		},
		{
			name:    "unknown journal type",
			mutate:  func(c *Config) { c.Journal.Type = "kafka" },
			wantErr: true,
			errMsg:  "journal.type must be",
		},
		{
			name:    "csv without steps file",
			mutate:  func(c *Config) { c.Journal.StepsFile = "" },
			wantErr: true,
			errMsg:  "journal trades_file and steps_file required for CSV type",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} },
			wantErr: true,
			errMsg:  "journal db_path required for SQLite type",
		},
		{
			name:   "no journal",
			mutate: func(c *Config) { c.Journal = JournalConfig{Type: "none"} },
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "missing server addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Generator.Seed = 42
			cfg.Portfolio.Positions = []PositionConfig{
				{Kind: "option", Amount: 2, Strike: 1.1, Sigma: 0.3, ExpiryDays: 90, Type: "put"},
				{Kind: "deposit", Amount: 5},
			}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Generator, loaded.Generator)
			assert.Equal(t, cfg.Portfolio, loaded.Portfolio)
			assert.Equal(t, cfg.Journal, loaded.Journal)
			assert.Equal(t, cfg.Server.Addr, loaded.Server.Addr)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generator:\n  seed: 7\n  count: 100\njournal:\n  type: none\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Generator.Seed)
	assert.Equal(t, 100, cfg.Generator.Count)
	assert.Equal(t, "24h0m0s", cfg.Generator.Step)
	assert.Equal(t, "none", cfg.Journal.Type)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generator:\n  count: 0\n"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestPortfolioBuild(t *testing.T) {
	first := market.Observation{
		Time:  time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC),
		Price: 1.25,
		Rate:  0.01,
	}

	pc := PortfolioConfig{Default: DefaultOptionConfig{Sigma: 0.2, Type: "call"}}
	pf, err := pc.Build(first)
	require.NoError(t, err)
	assert.Nil(t, pf, "no positions means the simulation seeds its default")

	pc.Positions = []PositionConfig{
		{Kind: "option", Amount: -1, Sigma: 0.25, ExpiryDays: 30, Type: "put"},
		{Kind: "stock", Amount: 0.5},
		{Kind: "deposit", Amount: 10},
	}
	pf, err = pc.Build(first)
	require.NoError(t, err)
	require.Equal(t, 3, pf.Len())

	trades := pf.Trades()
	for _, tr := range trades {
		assert.Equal(t, first.Time, tr.Time)
		assert.Equal(t, first.Price, tr.ReferencePrice)
	}
	assert.Equal(t, asset.Option{
		Amount: -1,
		Expiry: first.Time.Add(30 * 24 * time.Hour),
		Strike: 1.25,
		Sigma:  0.25,
		Type:   pricing.Put,
	}, trades[0].Asset)
	assert.Equal(t, asset.Stock{Amount: 0.5}, trades[1].Asset)
	assert.Equal(t, asset.Deposit{Amount: 10}, trades[2].Asset)
}

func TestDefaultType(t *testing.T) {
	typ, err := Default().Portfolio.DefaultType()
	require.NoError(t, err)
	assert.Equal(t, pricing.Call, typ)
}

func TestJournalOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  JournalConfig
		want any
	}{
		{"none", JournalConfig{Type: "none"}, journal.Nop{}},
		{"csv", JournalConfig{Type: "csv", TradesFile: filepath.Join(dir, "t.csv"), StepsFile: filepath.Join(dir, "s.csv")}, &journal.CSVJournal{}},
		{"sqlite", JournalConfig{Type: "sqlite", DBPath: filepath.Join(dir, "runs.db")}, &journal.SQLite{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := tt.cfg.Open()
			require.NoError(t, err)
			defer j.Close()
			assert.IsType(t, tt.want, j)
		})
	}

	_, err := JournalConfig{Type: "parquet"}.Open()
	assert.Error(t, err)
}
