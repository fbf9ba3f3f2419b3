package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/eoscanada/eos-go/ecc"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"ClaimSentinel/internal/limits"
	"ClaimSentinel/internal/model"
)

// AccountConfig is one name/key pair from the config file.
type AccountConfig struct {
	Name       string `yaml:"name"`
	PrivateKey string `yaml:"private_key"`
}

// Config holds all application configuration.
type Config struct {
	Accounts []AccountConfig `yaml:"accounts"`
	RPC      struct {
		Endpoints         []string `yaml:"endpoints"`
		RequestsPerSecond float64  `yaml:"requests_per_second"`
	} `yaml:"rpc"`
	GameAPI struct {
		CollectedURL string `yaml:"collected_url"`
	} `yaml:"game_api"`
	Chain struct {
		GameContract   string `yaml:"game_contract"`
		TokenContract  string `yaml:"token_contract"`
		TokenSymbol    string `yaml:"token_symbol"`
		TokenPrecision int    `yaml:"token_precision"`
		ServiceAccount string `yaml:"service_account"`
		IncreaseMemo   string `yaml:"increase_memo"`
		LimitTable     string `yaml:"limit_table"`
		TableScope     string `yaml:"table_scope"`
		IndexPosition  int    `yaml:"index_position"`
		KeyType        string `yaml:"key_type"`
	} `yaml:"chain"`
	Strategy struct {
		MinClaim float64 `yaml:"min_claim"`
		MaxWaste float64 `yaml:"max_waste"`
		MaxLimit float64 `yaml:"max_limit"`
		DelayMin float64 `yaml:"delay_min"`
		DelayMax float64 `yaml:"delay_max"`
	} `yaml:"strategy"`
	Schedule struct {
		IntervalMinutes int `yaml:"interval_minutes"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	DryRun bool `yaml:"dry_run"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("RPC_ENDPOINTS"); v != "" {
		cfg.RPC.Endpoints = splitAndTrim(v)
	}
	if v := os.Getenv("GAME_API_URL"); v != "" {
		cfg.GameAPI.CollectedURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("DRY_RUN"); v != "" {
		cfg.DryRun = v == "true" || v == "1"
	}
	if v := os.Getenv("INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.IntervalMinutes = n
		}
	}

	// Defaults
	if cfg.RPC.RequestsPerSecond == 0 {
		cfg.RPC.RequestsPerSecond = 10
	}
	if cfg.Chain.GameContract == "" {
		cfg.Chain.GameContract = "claimgame"
	}
	if cfg.Chain.TokenContract == "" {
		cfg.Chain.TokenContract = "gametoken"
	}
	if cfg.Chain.TokenSymbol == "" {
		cfg.Chain.TokenSymbol = "GEM"
	}
	if cfg.Chain.TokenPrecision == 0 {
		cfg.Chain.TokenPrecision = 4
	}
	if cfg.Chain.ServiceAccount == "" {
		cfg.Chain.ServiceAccount = cfg.Chain.GameContract
	}
	if cfg.Chain.IncreaseMemo == "" {
		cfg.Chain.IncreaseMemo = "extend limit"
	}
	if cfg.Chain.LimitTable == "" {
		cfg.Chain.LimitTable = "claimlimits"
	}
	if cfg.Chain.TableScope == "" {
		cfg.Chain.TableScope = cfg.Chain.GameContract
	}
	if cfg.Chain.IndexPosition == 0 {
		cfg.Chain.IndexPosition = 2
	}
	if cfg.Chain.KeyType == "" {
		cfg.Chain.KeyType = "name"
	}
	if cfg.Strategy.MinClaim == 0 {
		cfg.Strategy.MinClaim = 50_000
	}
	if cfg.Strategy.MaxWaste == 0 {
		cfg.Strategy.MaxWaste = 1_000
	}
	if cfg.Strategy.MaxLimit == 0 {
		cfg.Strategy.MaxLimit = 10_000_000
	}
	if cfg.Strategy.DelayMin == 0 {
		cfg.Strategy.DelayMin = 4
	}
	if cfg.Strategy.DelayMax == 0 {
		cfg.Strategy.DelayMax = 10
	}
	if cfg.Schedule.IntervalMinutes == 0 {
		cfg.Schedule.IntervalMinutes = 10
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that all required fields are set and the economic knobs
// are inside the formulas' domain.
func (c *Config) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	if len(c.RPC.Endpoints) == 0 {
		return fmt.Errorf("rpc.endpoints must not be empty")
	}
	if c.GameAPI.CollectedURL == "" {
		return fmt.Errorf("game_api.collected_url is required")
	}
	if c.Strategy.MaxLimit >= limits.MaxLimit {
		return fmt.Errorf("strategy.max_limit must be below %d", limits.MaxLimit)
	}
	if c.Strategy.MaxLimit < limits.MinLimit {
		return fmt.Errorf("strategy.max_limit must be at least %d", limits.MinLimit)
	}
	if c.Strategy.DelayMin < 0 || c.Strategy.DelayMax < c.Strategy.DelayMin {
		return fmt.Errorf("strategy delay bounds must satisfy 0 <= delay_min <= delay_max")
	}
	if c.Schedule.IntervalMinutes <= 0 {
		return fmt.Errorf("schedule.interval_minutes must be positive")
	}
	return nil
}

// ValidAccounts parses each account's private key and returns the usable
// accounts. A malformed key excludes that account from the run; it does not
// abort the process.
func (c *Config) ValidAccounts(log *zap.SugaredLogger) []model.Account {
	var accounts []model.Account
	for _, a := range c.Accounts {
		key, err := ecc.NewPrivateKey(a.PrivateKey)
		if err != nil {
			log.Warnf("account %s excluded: invalid private key: %v", a.Name, err)
			continue
		}
		accounts = append(accounts, model.Account{Name: a.Name, Key: key})
	}
	return accounts
}
