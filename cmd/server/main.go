package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"greatmerchant/internal/config"
	"greatmerchant/internal/serverapp"
	"greatmerchant/internal/store"
)

func main() {
	configPath := flag.String("config", "greatmerchant.yml", "path to the YAML config file")
	flag.Parse()

	// a .env file is optional; the environment still wins over the file
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ApplyEnv()

	if cfg.Sheet.SpreadsheetID == "" {
		log.Fatal("sheet.spreadsheet_id (or SPREADSHEET_ID) is required")
	}
	if cfg.Sheet.CredentialsFile == "" {
		log.Fatal("sheet.credentials_file (or GOOGLE_CREDENTIALS_FILE) is required")
	}
	creds, err := os.ReadFile(cfg.Sheet.CredentialsFile)
	if err != nil {
		log.Fatalf("read credentials: %v", err)
	}

	ctx := context.Background()
	src, err := store.NewSheetsSource(ctx, cfg.Sheet.SpreadsheetID, creds)
	if err != nil {
		log.Fatalf("sheets source: %v", err)
	}

	handler, err := serverapp.NewHandler(ctx, serverapp.Options{
		Config: cfg,
		Source: src,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	addr := ":" + cfg.Server.Port
	log.Printf("greatmerchant listening on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

// loadConfig tolerates a missing config file so a pure-env deployment
// works without one.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return nil, err
}
