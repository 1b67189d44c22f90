package host

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudx-io/lotauction/engine"
	"github.com/cloudx-io/lotauction/treemap"
)

// Duration wraps time.Duration with YAML support for strings like "30s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// LotConfig seeds one catalog lot.
type LotConfig struct {
	ID         string  `yaml:"id"`
	Label      string  `yaml:"label"`
	FloorPrice float64 `yaml:"floor_price"`
}

// AccountConfig seeds one funded account.
type AccountConfig struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Balance float64 `yaml:"balance"`
}

// AuctionConfig sets the round cycle parameters.
type AuctionConfig struct {
	RoundDuration  Duration `yaml:"round_duration"`
	FreezeDuration Duration `yaml:"freeze_duration"`
	LotsPerRound   int      `yaml:"lots_per_round"`
}

// LayoutConfig sets the default treemap geometry served by the layout query.
type LayoutConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Padding   float64 `yaml:"padding"`
	MinWeight float64 `yaml:"min_weight"`
}

// Config is the full host configuration.
type Config struct {
	ListenAddr string          `yaml:"listen_addr"`
	Debug      bool            `yaml:"debug"`
	Auction    AuctionConfig   `yaml:"auction"`
	Lots       []LotConfig     `yaml:"lots"`
	Accounts   []AccountConfig `yaml:"accounts"`
	Layout     LayoutConfig    `yaml:"layout"`
}

// DefaultConfig returns the built-in demo setup: five lots, three funded
// accounts, 30 second rounds with a 5 second freeze.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8080",
		Auction: AuctionConfig{
			RoundDuration:  Duration(30 * time.Second),
			FreezeDuration: Duration(5 * time.Second),
			LotsPerRound:   3,
		},
		Lots: []LotConfig{
			{ID: "lot-1", Label: "Tesla", FloorPrice: 100},
			{ID: "lot-2", Label: "Apple", FloorPrice: 120},
			{ID: "lot-3", Label: "Google", FloorPrice: 90},
			{ID: "lot-4", Label: "Amazon", FloorPrice: 80},
			{ID: "lot-5", Label: "Microsoft", FloorPrice: 150},
		},
		Accounts: []AccountConfig{
			{ID: "acc-1", Name: "Alice", Balance: 1000},
			{ID: "acc-2", Name: "Bob", Balance: 1500},
			{ID: "acc-3", Name: "Charlie", Balance: 2000},
		},
		Layout: LayoutConfig{
			Width:     800,
			Height:    400,
			Padding:   2,
			MinWeight: 0.01,
		},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks everything the engine constructor does not.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.Layout.Width <= 0 || c.Layout.Height <= 0 {
		return fmt.Errorf("layout dimensions must be positive, got %vx%v",
			c.Layout.Width, c.Layout.Height)
	}
	return nil
}

// EngineConfig converts the host configuration to the engine's.
func (c *Config) EngineConfig() engine.Config {
	lots := make([]engine.Lot, 0, len(c.Lots))
	for _, lot := range c.Lots {
		lots = append(lots, engine.Lot{
			ID:         lot.ID,
			Label:      lot.Label,
			FloorPrice: lot.FloorPrice,
		})
	}
	accounts := make([]engine.Account, 0, len(c.Accounts))
	for _, account := range c.Accounts {
		accounts = append(accounts, engine.Account{
			ID:      account.ID,
			Name:    account.Name,
			Balance: account.Balance,
		})
	}
	return engine.Config{
		Lots:           lots,
		Accounts:       accounts,
		RoundDuration:  time.Duration(c.Auction.RoundDuration),
		FreezeDuration: time.Duration(c.Auction.FreezeDuration),
		LotsPerRound:   c.Auction.LotsPerRound,
	}
}

// LayoutOptions converts the layout section to treemap options.
func (c *Config) LayoutOptions() treemap.Options {
	return treemap.Options{
		Width:     c.Layout.Width,
		Height:    c.Layout.Height,
		Padding:   c.Layout.Padding,
		MinWeight: c.Layout.MinWeight,
	}
}
