// Package config loads the mastersbot configuration: the core bot settings
// plus the database and bot sections.
package config

import (
	"errors"
	"fmt"
	"strings"

	coreconfig "github.com/citygreen/mastersbot/core/config"
	coredatabase "github.com/citygreen/mastersbot/core/database"
	"github.com/citygreen/mastersbot/internal/domain"
	"github.com/citygreen/mastersbot/internal/presentation"
)

const defaultImportMaxBytes = 1 << 20

// BotConfig holds the settings of the masters catalogue itself.
type BotConfig struct {
	// AdminIDs is the static allow-list; BOT_ADMIN_IDS takes a comma list.
	AdminIDs        []int64  `yaml:"admin_ids" envconfig:"ADMIN_IDS"`
	ManagerUsername string   `yaml:"manager_username" envconfig:"MANAGER_USERNAME"`
	Categories      []string `yaml:"categories" envconfig:"CATEGORIES"`
	ImportMaxBytes  int64    `yaml:"import_max_bytes" envconfig:"IMPORT_MAX_BYTES"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Bot      BotConfig           `yaml:"bot"`
}

// CoreConfig exposes the embedded core section to the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Database.Host) == "" || strings.TrimSpace(cfg.Database.Name) == "" {
		return errors.New("database.host and database.name are required")
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}

	bot := &cfg.Bot
	bot.ManagerUsername = strings.TrimPrefix(strings.TrimSpace(bot.ManagerUsername), "@")
	for _, id := range bot.AdminIDs {
		if id <= 0 {
			return fmt.Errorf("invalid bot.admin_ids entry %d", id)
		}
	}

	if len(bot.Categories) == 0 {
		bot.Categories = append([]string(nil), domain.DefaultCategories...)
	}
	seen := make(map[string]struct{}, len(bot.Categories))
	for i, c := range bot.Categories {
		c = strings.TrimSpace(c)
		if c == "" {
			return fmt.Errorf("bot.categories[%d] is empty", i)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate bot.categories entry %q", c)
		}
		// The category name travels in the picker's callback data.
		if !presentation.FitsCallback(presentation.CBPickCategory, c) {
			return fmt.Errorf("bot.categories entry %q is too long for a button", c)
		}
		seen[c] = struct{}{}
		bot.Categories[i] = c
	}

	switch {
	case bot.ImportMaxBytes == 0:
		bot.ImportMaxBytes = defaultImportMaxBytes
	case bot.ImportMaxBytes < 0:
		return fmt.Errorf("bot.import_max_bytes must be > 0")
	}
	return nil
}
