package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/walletci/linkdrop-harness/internal/account"
	"github.com/walletci/linkdrop-harness/internal/config"
	"github.com/walletci/linkdrop-harness/internal/ledger"
)

func main() {
	accountID := flag.String("account", "", "account id (default: bank account)")
	seedPhrase := flag.String("seed", "", "seed phrase (default: bank seed phrase)")
	validator := flag.String("validator", "", "validator contract to query staked balance on")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *accountID == "" {
		*accountID = cfg.Bank.AccountID
		*seedPhrase = cfg.Bank.SeedPhrase
	}

	ctx := context.Background()
	opener := ledger.NewClient(cfg.Network.NodeURL, cfg.Network.ID)
	acct, err := account.New(*accountID, *seedPhrase, account.Parent{ID: cfg.Network.ID}, opener).Initialize(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	balance, err := acct.UpdatedBalance(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("account: %s\n", acct.ID())
	fmt.Printf("balance: %s (%s base units)\n", ledger.FormatAmount(balance), balance)

	if *validator != "" {
		staked, err := acct.StakedBalance(ctx, *validator)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("staked with %s: %s (%s base units)\n", *validator, ledger.FormatAmount(staked), staked)
	}
}
