package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "YIELD"

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL          string
	ChainID         uint64
	ContractAddress string
	Port            int

	MaxConcurrency int
	RPCRateLimit   float64
	RPCBurst       int
	RPCTimeout     time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	StartupTimeout time.Duration

	CoinGeckoURL      string
	CoinGeckoNetwork  string
	CoinGeckoAPIKey   string
	CoinGeckoCacheTTL time.Duration

	Pools []PoolConfig

	LogLevel string
	Trace    bool
}

// PoolConfig is one configured pool as written in the config file.
type PoolConfig struct {
	Address string `mapstructure:"address"`
	Dex     string `mapstructure:"dex"`
}

// legacyEnv maps keys to the unprefixed variable names older deployments set.
var legacyEnv = map[string]string{
	"contract-address":  "CONTRACT_ADDRESS",
	"port":              "PORT",
	"coingecko-api-key": "COINGECKO_API_KEY",
	"rpc":               "RPC_URL",
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetDefault("port", 8080)
	v.SetDefault("max-concurrency", 8)
	v.SetDefault("rpc-rate-limit", 20.0)
	v.SetDefault("rpc-burst", 10)
	v.SetDefault("rpc-timeout", 10*time.Second)
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 250*time.Millisecond)
	v.SetDefault("startup-timeout", 60*time.Second)
	v.SetDefault("coingecko-url", "https://api.coingecko.com/api/v3")
	v.SetDefault("coingecko-network", "eth")
	v.SetDefault("coingecko-cache-ttl", 5*time.Minute)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var pools []PoolConfig
	if err := v.UnmarshalKey("pools", &pools); err != nil {
		return Config{}, fmt.Errorf("decode pools: %w", err)
	}

	cfg := Config{
		RPCURL:            v.GetString("rpc"),
		ChainID:           v.GetUint64("chain-id"),
		ContractAddress:   v.GetString("contract-address"),
		Port:              v.GetInt("port"),
		MaxConcurrency:    v.GetInt("max-concurrency"),
		RPCRateLimit:      v.GetFloat64("rpc-rate-limit"),
		RPCBurst:          v.GetInt("rpc-burst"),
		RPCTimeout:        v.GetDuration("rpc-timeout"),
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		StartupTimeout:    v.GetDuration("startup-timeout"),
		CoinGeckoURL:      strings.TrimRight(v.GetString("coingecko-url"), "/"),
		CoinGeckoNetwork:  v.GetString("coingecko-network"),
		CoinGeckoAPIKey:   v.GetString("coingecko-api-key"),
		CoinGeckoCacheTTL: v.GetDuration("coingecko-cache-ttl"),
		Pools:             cleanPools(pools),
		LogLevel:          v.GetString("log-level"),
		Trace:             v.GetBool("trace"),
	}

	return cfg, nil
}

// Validate checks the settings every command needs to reach the chain.
// Pool entries are validated separately when they are parsed.
func (c Config) Validate() error {
	var errs []error
	if c.RPCURL == "" {
		errs = append(errs, errors.New("rpc is required"))
	} else if u, err := url.Parse(c.RPCURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("rpc %q is not a valid url", c.RPCURL))
	}
	if !common.IsHexAddress(c.ContractAddress) {
		errs = append(errs, fmt.Errorf("contract-address %q is not a hex address", c.ContractAddress))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("max-concurrency must be positive, got %d", c.MaxConcurrency))
	}
	if c.RPCRateLimit < 0 {
		errs = append(errs, fmt.Errorf("rpc-rate-limit must not be negative, got %v", c.RPCRateLimit))
	}
	if c.StartupTimeout <= 0 {
		errs = append(errs, fmt.Errorf("startup-timeout must be positive, got %s", c.StartupTimeout))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max-retries must not be negative, got %d", c.MaxRetries))
	}
	return errors.Join(errs...)
}

// cleanPools trims entries. Blank addresses are kept for ParseEntries to reject.
func cleanPools(pools []PoolConfig) []PoolConfig {
	out := make([]PoolConfig, 0, len(pools))
	for _, p := range pools {
		p.Address = strings.TrimSpace(p.Address)
		p.Dex = strings.TrimSpace(p.Dex)
		out = append(out, p)
	}
	return out
}
