package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Network  NetworkConfig
	Bank     BankConfig
	Artifact ArtifactConfig
	Redis    RedisConfig
}

// NetworkConfig identifies the ledger network the harness runs against. ID is
// both the network name and the identifier of its root account (the top-level
// claim target and the bank account's deletion beneficiary).
type NetworkConfig struct {
	ID      string `mapstructure:"id"`
	NodeURL string `mapstructure:"node_url"`
}

// BankConfig is the pre-funded long-lived account that funds every ephemeral
// test account. The seed phrase is sensitive and must never be logged.
type BankConfig struct {
	AccountID  string `mapstructure:"account_id"`
	SeedPhrase string `mapstructure:"seed_phrase"`
}

type ArtifactConfig struct {
	LinkdropContractURL string `mapstructure:"linkdrop_contract_url"`
}

// RedisConfig locates the issued-key registry. Addr empty disables the
// registry; issued claim keys are then only returned to the caller.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("network.id", "testnet")
	v.SetDefault("network.node_url", "http://localhost:3030")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit env bindings
	bindings := map[string]string{
		"network.id":                     "NETWORK_ID",
		"network.node_url":               "NODE_URL",
		"bank.account_id":                "BANK_ACCOUNT",
		"bank.seed_phrase":               "BANK_SEED_PHRASE",
		"artifact.linkdrop_contract_url": "LINKDROP_CONTRACT_URL",
		"redis.addr":                     "REDIS_ADDR",
		"redis.password":                 "REDIS_PASSWORD",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	type req struct {
		val  string
		name string
	}
	for _, r := range []req{
		{c.Network.ID, "NETWORK_ID"},
		{c.Network.NodeURL, "NODE_URL"},
		{c.Bank.AccountID, "BANK_ACCOUNT"},
		{c.Bank.SeedPhrase, "BANK_SEED_PHRASE"},
	} {
		if r.val == "" {
			return fmt.Errorf("required config missing: %s", r.name)
		}
	}
	return nil
}

// RegistryEnabled reports whether an issued-key registry should be wired up.
func (c *Config) RegistryEnabled() bool {
	return c.Redis.Addr != ""
}
