package account

import (
	"context"

	"github.com/walletci/linkdrop-harness/internal/config"
	"github.com/walletci/linkdrop-harness/internal/ledger"
)

// Bank builds the pre-funded bank account from configuration and initializes
// it. The bank is never created (or deletable) through this process; its
// parent is the network root, an id-only beneficiary.
func Bank(ctx context.Context, cfg *config.Config, opener ledger.Opener) (*Account, error) {
	bank := New(cfg.Bank.AccountID, cfg.Bank.SeedPhrase, Parent{ID: cfg.Network.ID}, opener)
	return bank.Initialize(ctx)
}
