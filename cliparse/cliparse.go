package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AddrHashSalt string
	VoteWindow   time.Duration
	StoreTimeout time.Duration
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("pollwire", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AddrHashSalt, "addr-salt", "", "Address hash salt (prefer env)")

	// Tuning
	fs.DurationVar(&cfg.VoteWindow, "vote-window", 0, "Per-address vote rate-limit window")
	fs.DurationVar(&cfg.StoreTimeout, "store-timeout", 0, "Bound on any single store operation")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3319 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.AddrHashSalt == "" {
		cfg.AddrHashSalt = os.Getenv("ADDR_HASH_SALT")
	}
	if cfg.AddrHashSalt == "" {
		return Config{}, errors.New("ADDR_HASH_SALT required")
	}

	if cfg.VoteWindow == 0 {
		if s := os.Getenv("VOTE_WINDOW"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid VOTE_WINDOW env variable")
			}
			cfg.VoteWindow = d
		} else {
			cfg.VoteWindow = 5 * time.Minute
		}
	}

	if cfg.StoreTimeout == 0 {
		if s := os.Getenv("STORE_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid STORE_TIMEOUT env variable")
			}
			cfg.StoreTimeout = d
		} else {
			cfg.StoreTimeout = 5 * time.Second
		}
	}

	return cfg, nil
}
