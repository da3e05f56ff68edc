package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StoreSQL    = "sql"
	StoreMemory = "memory"
)

// Transaction reference providers
const (
	LedgerSimulated = "simulated"
	LedgerRPC       = "rpc"
)

// ScheduleOff disables the tally reconciler
const ScheduleOff = "off"

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Store selects the storage backend. StoreFallback, when set to
	// "memory", lets the server start on an in-memory store if the
	// database is unreachable at start-up.
	Store         string
	StoreFallback string

	SessionSecret string
	SessionTTL    time.Duration

	Ledger       string
	LedgerRPCURL string
	LedgerDelay  time.Duration

	ImageDir     string
	ImageBaseURL string
	SeedFile     string

	AdminEmail    string
	AdminPassword string

	ReconcileSchedule string
	ReconcileRepair   bool

	AuthRateLimit float64
	AuthRateBurst int
	// RateLimitSalt keys the client IP hashes; empty means a random
	// salt per process
	RateLimitSalt string

	// TrustedProxies may set the client address via X-Forwarded-For
	TrustedProxies []netip.Prefix
}

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("ethervote", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.Store, "store", "", "Storage backend (sql or memory)")
	fs.StringVar(&cfg.StoreFallback, "store-fallback", "", "Fallback when the database is unreachable (none or memory)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session lifetime")
	fs.StringVar(&cfg.AdminEmail, "admin-email", "", "Bootstrap admin email")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Bootstrap admin password (prefer env)")

	// Wallet
	fs.StringVar(&cfg.Ledger, "ledger", "", "Transaction reference provider (simulated or rpc)")
	fs.StringVar(&cfg.LedgerRPCURL, "ledger-rpc", "", "Ethereum JSON-RPC URL for the rpc ledger")
	fs.DurationVar(&cfg.LedgerDelay, "ledger-delay", -1, "Simulated confirmation delay")

	// Images and reference data
	fs.StringVar(&cfg.ImageDir, "image-dir", "", "Directory for candidate images")
	fs.StringVar(&cfg.ImageBaseURL, "image-base-url", "", "Public URL prefix for candidate images")
	fs.StringVar(&cfg.SeedFile, "seed-file", "", "YAML file with districts and constituencies")

	// Background jobs and limits
	fs.StringVar(&cfg.ReconcileSchedule, "reconcile", "", "Tally reconciliation cron spec, or off")
	fs.BoolVar(&cfg.ReconcileRepair, "reconcile-repair", false, "Repair tallies that drift from vote records")
	fs.Float64Var(&cfg.AuthRateLimit, "auth-rate", 0, "Sign-in/registration requests per second per client")
	fs.IntVar(&cfg.AuthRateBurst, "auth-burst", 0, "Sign-in/registration burst per client")
	fs.StringVar(&cfg.RateLimitSalt, "rate-limit-salt", "", "Salt for client IP hashes (prefer env)")
	var trustedProxies string
	fs.StringVar(&trustedProxies, "trusted-proxies", "", "Comma separated proxy IPs or CIDRs allowed to set X-Forwarded-For")

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
			cfg.Port = 3318 // default
		}
	}

	envString(&cfg.Store, "STORE", StoreSQL)
	if cfg.Store != StoreSQL && cfg.Store != StoreMemory {
		return Config{}, fmt.Errorf("invalid STORE %q (sql or memory)", cfg.Store)
	}
	envString(&cfg.StoreFallback, "STORE_FALLBACK", "none")
	if cfg.StoreFallback != "none" && cfg.StoreFallback != StoreMemory {
		return Config{}, fmt.Errorf("invalid STORE_FALLBACK %q (none or memory)", cfg.StoreFallback)
	}

	envString(&cfg.DatabaseURL, "DATABASE_URL", "")
	if cfg.Store == StoreSQL && cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	envString(&cfg.DatabaseType, "DATABASE_TYPE", "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid DATABASE_TYPE %q (sqlite or postgres)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	envString(&cfg.SessionSecret, "SESSION_SECRET", "")
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}
	if err := envDuration(&cfg.SessionTTL, "SESSION_TTL", 12*time.Hour); err != nil {
		return Config{}, err
	}
	envString(&cfg.AdminEmail, "ADMIN_EMAIL", "")
	envString(&cfg.AdminPassword, "ADMIN_PASSWORD", "")
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	envString(&cfg.Ledger, "LEDGER", LedgerSimulated)
	envString(&cfg.LedgerRPCURL, "LEDGER_RPC_URL", "")
	switch cfg.Ledger {
	case LedgerSimulated:
	case LedgerRPC:
		if cfg.LedgerRPCURL == "" {
			return Config{}, errors.New("LEDGER_RPC_URL required for the rpc ledger")
		}
	default:
		return Config{}, fmt.Errorf("invalid LEDGER %q (simulated or rpc)", cfg.Ledger)
	}
	if cfg.LedgerDelay < 0 {
		cfg.LedgerDelay = 0
		if err := envDuration(&cfg.LedgerDelay, "LEDGER_DELAY", 2*time.Second); err != nil {
			return Config{}, err
		}
	}

	envString(&cfg.ImageDir, "IMAGE_DIR", "data/images")
	envString(&cfg.ImageBaseURL, "IMAGE_BASE_URL", "/images")
	envString(&cfg.SeedFile, "SEED_FILE", "")

	envString(&cfg.ReconcileSchedule, "RECONCILE_SCHEDULE", "@every 5m")
	if !cfg.ReconcileRepair {
		if v := os.Getenv("RECONCILE_REPAIR"); v != "" {
			repair, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid RECONCILE_REPAIR env variable")
			}
			cfg.ReconcileRepair = repair
		}
	}

	if cfg.AuthRateLimit == 0 {
		cfg.AuthRateLimit = 1
		if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
			limit, err := strconv.ParseFloat(v, 64)
			if err != nil || limit <= 0 {
				return Config{}, errors.New("invalid AUTH_RATE_LIMIT env variable")
			}
			cfg.AuthRateLimit = limit
		}
	}
	if cfg.AuthRateBurst == 0 {
		cfg.AuthRateBurst = 5
		if v := os.Getenv("AUTH_RATE_BURST"); v != "" {
			burst, err := strconv.Atoi(v)
			if err != nil || burst <= 0 {
				return Config{}, errors.New("invalid AUTH_RATE_BURST env variable")
			}
			cfg.AuthRateBurst = burst
		}
	}
	envString(&cfg.RateLimitSalt, "RATE_LIMIT_SALT", "")

	envString(&trustedProxies, "TRUSTED_PROXIES", "")
	proxies, err := parsePrefixes(trustedProxies)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies

	return cfg, nil
}

// parsePrefixes reads a comma separated list of IPs and CIDR ranges
func parsePrefixes(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func envString(dst *string, key, def string) {
	if *dst != "" {
		return
	}
	*dst = os.Getenv(key)
	if *dst == "" {
		*dst = def
	}
}

func envDuration(dst *time.Duration, key string, def time.Duration) error {
	if *dst != 0 {
		return nil
	}
	v := os.Getenv(key)
	if v == "" {
		*dst = def
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	*dst = d
	return nil
}
