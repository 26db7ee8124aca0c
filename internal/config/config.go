package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version string       `yaml:"version" json:"version"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Sheet   SheetConfig  `yaml:"sheet" json:"sheet"`
	Game    GameConfig   `yaml:"game" json:"game"`
}

type ServerConfig struct {
	Port        string          `yaml:"port" json:"port"`
	DataDir     string          `yaml:"data_dir" json:"data_dir"`
	CORSOrigins []string        `yaml:"cors_origins" json:"cors_origins"`
	RateLimit   RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// SheetConfig locates the spreadsheet document holding the game tables.
// CredentialsFile points at the injected service-account blob.
type SheetConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" json:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
}

type GameConfig struct {
	StartVillage string `yaml:"start_village" json:"start_village"`
	StartMoney   int    `yaml:"start_money" json:"start_money"`
	// Seed pins session RNGs for reproducible runs; 0 draws from the clock.
	Seed int64 `yaml:"seed" json:"seed"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8090"
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "data"
	}
	if c.Server.RateLimit.RequestsPerSecond == 0 {
		c.Server.RateLimit.RequestsPerSecond = 10
	}
	if c.Server.RateLimit.BurstSize == 0 {
		c.Server.RateLimit.BurstSize = 20
	}
	if c.Game.StartVillage == "" {
		c.Game.StartVillage = "한양"
	}
	if c.Game.StartMoney == 0 {
		c.Game.StartMoney = 1000
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}
