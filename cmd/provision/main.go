package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/walletci/linkdrop-harness/internal/account"
	"github.com/walletci/linkdrop-harness/internal/config"
	"github.com/walletci/linkdrop-harness/internal/ledger"
	"github.com/walletci/linkdrop-harness/internal/linkdrop"
)

func main() {
	senderBalance := flag.String("sender-balance", "10", "sender funding in native units")
	sendAmount := flag.String("send", "2", "linkdrop amount in native units")
	teardown := flag.Bool("teardown", true, "delete the fixture accounts afterwards")
	flag.Parse()

	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// ── Registry (optional) ───────────────────────────────────────────────────
	var registry *linkdrop.Registry
	if cfg.RegistryEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping failed", zap.Error(err))
		}
		registry = linkdrop.NewRegistry(rdb)
	}

	// ── Bank account ──────────────────────────────────────────────────────────
	opener := ledger.NewClient(cfg.Network.NodeURL, cfg.Network.ID)
	bank, err := account.Bank(ctx, cfg, opener)
	if err != nil {
		log.Fatal("bank account init failed", zap.Error(err))
	}
	log.Info("bank account bound", zap.String("account", bank.ID()))

	// ── Fixture ───────────────────────────────────────────────────────────────
	fetcher := linkdrop.NewHTTPArtifactFetcher(cfg.Artifact.LinkdropContractURL)
	fixture, err := linkdrop.NewFixture(bank, fetcher, registry, log)
	if err != nil {
		log.Fatal("fixture construction failed", zap.Error(err))
	}
	if _, err := fixture.Initialize(ctx, *senderBalance); err != nil {
		// Partial creations are not rolled back; attempt teardown before exit.
		for _, o := range fixture.DeleteAccounts(ctx).Failed() {
			log.Warn("cleanup failed", zap.String("account", o.Label), zap.Error(o.Err))
		}
		log.Fatal("fixture provisioning failed", zap.Error(err))
	}

	secret, err := fixture.Send(ctx, *sendAmount)
	if err != nil {
		log.Error("linkdrop send failed", zap.Error(err))
	} else {
		fmt.Printf("claim key: %s\n", secret)
	}

	if *teardown {
		outcomes := fixture.DeleteAccounts(ctx)
		log.Info("teardown finished",
			zap.Int("accounts", len(outcomes)),
			zap.Int("failed", len(outcomes.Failed())),
		)
	}
}
