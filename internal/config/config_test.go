package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NETWORK_ID", "testnet")
	t.Setenv("NODE_URL", "http://localhost:3030")
	t.Setenv("BANK_ACCOUNT", "bank.testnet")
	t.Setenv("BANK_SEED_PHRASE", "canoe skin dash series bid mule gravity square ring carbon peasant screen")
}

func TestLoad_FromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LINKDROP_CONTRACT_URL", "https://artifacts.test/linkdrop.wasm")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.ID != "testnet" {
		t.Errorf("Network.ID: got %q", cfg.Network.ID)
	}
	if cfg.Bank.AccountID != "bank.testnet" {
		t.Errorf("Bank.AccountID: got %q", cfg.Bank.AccountID)
	}
	if cfg.Artifact.LinkdropContractURL != "https://artifacts.test/linkdrop.wasm" {
		t.Errorf("LinkdropContractURL: got %q", cfg.Artifact.LinkdropContractURL)
	}
	if !cfg.RegistryEnabled() {
		t.Error("registry should be enabled with REDIS_ADDR set")
	}
}

func TestLoad_MissingBankCredentials(t *testing.T) {
	t.Setenv("NETWORK_ID", "testnet")
	t.Setenv("NODE_URL", "http://localhost:3030")
	t.Setenv("BANK_ACCOUNT", "")
	t.Setenv("BANK_SEED_PHRASE", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing bank credentials")
	}
}

func TestLoad_RegistryDisabledByDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RegistryEnabled() {
		t.Error("registry enabled without REDIS_ADDR")
	}
}
