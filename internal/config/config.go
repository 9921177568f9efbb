package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"goatan/internal/domain"
)

// GameConfig holds the rule knobs of a game.
type GameConfig struct {
	DefaultRadius int      `yaml:"default_radius"`
	MaxRadius     int      `yaml:"max_radius"`
	VictoryPoints int      `yaml:"victory_points"`
	BankInventory int      `yaml:"bank_inventory"`
	MinPlayers    int      `yaml:"min_players"`
	DiceCount     int      `yaml:"dice_count"`
	Palette       []string `yaml:"palette"`
	// VictoryReward is credited to the winner's wallet; zero disables rewards.
	VictoryReward int64 `yaml:"victory_reward"`
}

// Default returns the standard rules.
func Default() *GameConfig {
	return &GameConfig{
		DefaultRadius: 2,
		MaxRadius:     domain.MaxRadius,
		VictoryPoints: domain.DefaultVictoryPoints,
		BankInventory: domain.DefaultBankInventory,
		MinPlayers:    2,
		DiceCount:     2,
		Palette:       append([]string(nil), domain.DefaultPalette...),
	}
}

// MaxPlayers is the palette size; every player needs a distinct color.
func (c *GameConfig) MaxPlayers() int { return len(c.Palette) }

// Validate rejects configurations the engine cannot run.
func (c *GameConfig) Validate() error {
	if c.MaxRadius < 0 || c.MaxRadius > domain.MaxRadius {
		return fmt.Errorf("max_radius must be between 0 and %d, got %d", domain.MaxRadius, c.MaxRadius)
	}
	if c.DefaultRadius < 0 || c.DefaultRadius > c.MaxRadius {
		return fmt.Errorf("default_radius must be between 0 and max_radius (%d), got %d", c.MaxRadius, c.DefaultRadius)
	}
	if c.VictoryPoints < 1 {
		return fmt.Errorf("victory_points must be positive, got %d", c.VictoryPoints)
	}
	if c.BankInventory < 0 {
		return fmt.Errorf("bank_inventory must not be negative, got %d", c.BankInventory)
	}
	if c.DiceCount < 1 {
		return fmt.Errorf("dice_count must be positive, got %d", c.DiceCount)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette must not be empty")
	}
	seen := make(map[string]bool, len(c.Palette))
	for _, color := range c.Palette {
		if seen[color] {
			return fmt.Errorf("palette repeats color %q", color)
		}
		seen[color] = true
	}
	if c.MinPlayers < 1 || c.MinPlayers > c.MaxPlayers() {
		return fmt.Errorf("min_players must be between 1 and %d, got %d", c.MaxPlayers(), c.MinPlayers)
	}
	if c.VictoryReward < 0 {
		return fmt.Errorf("victory_reward must not be negative, got %d", c.VictoryReward)
	}
	return nil
}

// ParseGameConfig decodes YAML over the defaults, so omitted keys keep their standard values.
func ParseGameConfig(data []byte) (*GameConfig, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return c, nil
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Only the first call reads
// the file; later calls return the first result.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		cfg, loadErr = ParseGameConfig(data)
	})
	return loadErr
}

// GetGameConfig returns the loaded configuration, or the defaults when nothing was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}
