package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/hedger/asset"
	"github.com/rustyeddy/hedger/journal"
	"github.com/rustyeddy/hedger/logging"
	"github.com/rustyeddy/hedger/market"
	"github.com/rustyeddy/hedger/monitor"
	"github.com/rustyeddy/hedger/portfolio"
	"github.com/rustyeddy/hedger/pricing"
	"gopkg.in/yaml.v3"
)

// Config represents the complete hedge run configuration
type Config struct {
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Portfolio PortfolioConfig `json:"portfolio" yaml:"portfolio"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Log       logging.Config  `json:"log" yaml:"log"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Metrics   monitor.Config  `json:"metrics" yaml:"metrics"`
}

// GeneratorConfig parameterizes the synthetic price series
type GeneratorConfig struct {
	A0     float64   `json:"a0" yaml:"a0"`
	P      []float64 `json:"p" yaml:"p"`
	Q      []float64 `json:"q" yaml:"q"`
	Count  int       `json:"count" yaml:"count"`
	Offset int       `json:"offset" yaml:"offset"`
	Rate   float64   `json:"rate" yaml:"rate"`
	Start  string    `json:"start" yaml:"start"` // RFC3339 or YYYY-MM-DD
	Step   string    `json:"step" yaml:"step"`   // e.g., "24h"
	Seed   uint64    `json:"seed" yaml:"seed"`
}

// PortfolioConfig describes the starting positions. With no positions
// the simulation seeds its default option using Default.
type PortfolioConfig struct {
	Default   DefaultOptionConfig `json:"default" yaml:"default"`
	Positions []PositionConfig    `json:"positions,omitempty" yaml:"positions,omitempty"`
}

// DefaultOptionConfig sets sigma and type of the seeded option
type DefaultOptionConfig struct {
	Sigma float64 `json:"sigma" yaml:"sigma"`
	Type  string  `json:"type" yaml:"type"`
}

// PositionConfig is one opening trade, placed at the first observation
type PositionConfig struct {
	Kind   string  `json:"kind" yaml:"kind"` // "deposit", "stock" or "option"
	Amount float64 `json:"amount" yaml:"amount"`

	// Option only. A zero strike means at the money.
	Strike     float64 `json:"strike,omitempty" yaml:"strike,omitempty"`
	Sigma      float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"`
	ExpiryDays float64 `json:"expiry_days,omitempty" yaml:"expiry_days,omitempty"`
	Type       string  `json:"type,omitempty" yaml:"type,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	StepsFile  string `json:"steps_file,omitempty" yaml:"steps_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig contains HTTP server parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.Generator.Params(); err != nil {
		return err
	}
	if err := c.Portfolio.Validate(); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.StepsFile == "" {
			return fmt.Errorf("journal trades_file and steps_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	p := market.DefaultParams()
	return &Config{
		Generator: GeneratorConfig{
			A0:     p.A0,
			P:      p.P,
			Q:      p.Q,
			Count:  p.Count,
			Offset: p.Offset,
			Rate:   p.Rate,
			Start:  p.Start.Format("2006-01-02"),
			Step:   p.Step.String(),
			Seed:   p.Seed,
		},
		Portfolio: PortfolioConfig{
			Default: DefaultOptionConfig{Sigma: 0.2, Type: "call"},
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			StepsFile:  "./steps.csv",
		},
		Log:     logging.DefaultConfig(),
		Server:  ServerConfig{Addr: ":8080"},
		Metrics: monitor.DefaultConfig(),
	}
}

// Params converts the generator section to market parameters.
func (g GeneratorConfig) Params() (market.Params, error) {
	start, err := parseStart(g.Start)
	if err != nil {
		return market.Params{}, fmt.Errorf("generator.start: %w", err)
	}
	step, err := time.ParseDuration(g.Step)
	if err != nil {
		return market.Params{}, fmt.Errorf("generator.step: %w", err)
	}
	p := market.Params{
		A0:     g.A0,
		P:      g.P,
		Q:      g.Q,
		Count:  g.Count,
		Offset: g.Offset,
		Rate:   g.Rate,
		Start:  start,
		Step:   step,
		Seed:   g.Seed,
	}
	if err := p.Validate(); err != nil {
		return market.Params{}, fmt.Errorf("generator: %w", err)
	}
	return p, nil
}

func parseStart(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", s)
}

func (p PortfolioConfig) Validate() error {
	if !(p.Default.Sigma > 0) {
		return fmt.Errorf("portfolio.default.sigma must be positive")
	}
	if _, err := pricing.ParseOptionType(p.Default.Type); err != nil {
		return fmt.Errorf("portfolio.default.type: %w", err)
	}
	for i, pos := range p.Positions {
		if err := pos.validate(); err != nil {
			return fmt.Errorf("portfolio.positions[%d]: %w", i, err)
		}
	}
	return nil
}

func (p PositionConfig) validate() error {
	switch p.Kind {
	case "deposit", "stock":
		return nil
	case "option":
		if !(p.Sigma > 0) {
			return fmt.Errorf("option sigma must be positive")
		}
		if p.Strike < 0 {
			return fmt.Errorf("option strike must not be negative")
		}
		if p.ExpiryDays < 0 {
			return fmt.Errorf("option expiry_days must not be negative")
		}
		if _, err := pricing.ParseOptionType(p.Type); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown position kind %q", p.Kind)
	}
}

// Asset builds the position as of the first observation.
func (p PositionConfig) Asset(first market.Observation) (asset.Asset, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	switch p.Kind {
	case "deposit":
		return asset.Deposit{Amount: p.Amount}, nil
	case "stock":
		return asset.Stock{Amount: p.Amount}, nil
	}
	typ, _ := pricing.ParseOptionType(p.Type)
	strike := p.Strike
	if strike == 0 {
		strike = first.Price
	}
	return asset.Option{
		Amount: p.Amount,
		Expiry: first.Time.Add(time.Duration(p.ExpiryDays * float64(24*time.Hour))),
		Strike: strike,
		Sigma:  p.Sigma,
		Type:   typ,
	}, nil
}

// Build opens every position at the first observation. It returns nil
// when no positions are configured.
func (p PortfolioConfig) Build(first market.Observation) (*portfolio.Portfolio, error) {
	if len(p.Positions) == 0 {
		return nil, nil
	}
	pf := portfolio.New()
	for i, pos := range p.Positions {
		a, err := pos.Asset(first)
		if err != nil {
			return nil, fmt.Errorf("portfolio.positions[%d]: %w", i, err)
		}
		pf.RecordTrade(first.Time, first.Price, a)
	}
	return pf, nil
}

// DefaultType parses the seeded option type.
func (p PortfolioConfig) DefaultType() (pricing.OptionType, error) {
	return pricing.ParseOptionType(p.Default.Type)
}

// Open creates the configured journal.
func (j JournalConfig) Open() (journal.Journal, error) {
	switch j.Type {
	case "csv":
		jr, err := journal.NewCSV(j.TradesFile, j.StepsFile)
		if err != nil {
			return nil, err
		}
		return jr, nil
	case "sqlite":
		jr, err := journal.NewSQLite(j.DBPath)
		if err != nil {
			return nil, err
		}
		return jr, nil
	case "none", "":
		return journal.Nop{}, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", j.Type)
}
