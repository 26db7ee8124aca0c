package config

import (
	"os"
	"strconv"
)

// ApplyEnv loads overrides from environment variables.
// Falls back to the file values if variables are not set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Server.DataDir = v
	}
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		c.Sheet.SpreadsheetID = v
	}
	if v := os.Getenv("GOOGLE_CREDENTIALS_FILE"); v != "" {
		c.Sheet.CredentialsFile = v
	}
	if v := os.Getenv("START_VILLAGE"); v != "" {
		c.Game.StartVillage = v
	}
	if v := getEnvInt("START_MONEY"); v > 0 {
		c.Game.StartMoney = v
	}
	if v := getEnvInt("GAME_SEED"); v != 0 {
		c.Game.Seed = int64(v)
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
