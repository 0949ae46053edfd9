package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig tunes room behavior. Zero values fall back to the defaults
// applied in normalize, so a partial config file is fine.
type GameConfig struct {
	StartingScore int `json:"starting_score"`
	MinPlayers    int `json:"min_players"`
	MaxPlayers    int `json:"max_players"`
	// BotMinDelayMs and BotMaxDelayMs bound the artificial thinking pause
	// before a scheduled AI move fires.
	BotMinDelayMs int `json:"bot_min_delay_ms"`
	BotMaxDelayMs int `json:"bot_max_delay_ms"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		normalize(&c)
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults
// when no file was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		c := GameConfig{}
		normalize(&c)
		return &c
	}
	return cfg
}

func normalize(c *GameConfig) {
	if c.StartingScore == 0 {
		c.StartingScore = 100
	}
	if c.MinPlayers == 0 {
		c.MinPlayers = 3
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = 5
	}
	if c.BotMinDelayMs == 0 {
		c.BotMinDelayMs = 800
	}
	if c.BotMaxDelayMs == 0 {
		c.BotMaxDelayMs = 2500
	}
	if c.BotMaxDelayMs < c.BotMinDelayMs {
		c.BotMaxDelayMs = c.BotMinDelayMs
	}
	if c.BotAutoFillDelaySeconds == 0 {
		c.BotAutoFillDelaySeconds = 10
	}
}
