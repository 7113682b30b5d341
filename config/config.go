package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	StatePath string
	Debug     bool
}

// ParseFlags reads global flags, leaving the subcommand and its
// arguments in the returned tail. The API base URL falls back to the
// FORTELYNE_API_URL environment variable.
func ParseFlags() (cfg Config, args []string, err error) {
	flag.StringVar(&cfg.BaseURL, "api-url", os.Getenv("FORTELYNE_API_URL"), "base URL of the Fortelyne API")
	var timeout uint
	flag.UintVar(&timeout, "timeout", 10, "request timeout in seconds (default 10)")
	flag.StringVar(&cfg.StatePath, "state", defaultStatePath(), "path to the local state file")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Timeout = time.Duration(timeout) * time.Second

	if cfg.BaseURL == "" {
		err = errors.New("missing parameter -api-url (or FORTELYNE_API_URL)")
	}

	return cfg, flag.Args(), err
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "fortelyne.sqlite"
	}
	return filepath.Join(dir, "fortelyne", "state.sqlite")
}
