// Package linkdrop provisions the three-account fixture behind linkdrop
// end-to-end tests: a funded sender, a host account carrying the deployed
// linkdrop contract, and a receiver, all ephemeral sub-accounts of the bank.
package linkdrop

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/walletci/linkdrop-harness/internal/account"
	"github.com/walletci/linkdrop-harness/internal/gather"
	"github.com/walletci/linkdrop-harness/internal/keys"
	"github.com/walletci/linkdrop-harness/internal/ledger"
)

// contractFunding is the fixed funding for the contract-host account; the
// deployed contract needs headroom for storage and claim payouts.
const contractFunding = "5.0"

// Fixture owns a sender, contract-host and receiver account for one test
// run, from provisioning through teardown. Construct with NewFixture, then
// Initialize before Send/SendToRoot. Not safe for concurrent use.
type Fixture struct {
	Sender       *account.Account
	ContractHost *account.Account
	Receiver     *account.Account

	rootID        string
	fetcher       ArtifactFetcher
	registry      *Registry
	lastSecretKey string
	log           *zap.Logger
}

// NewFixture spawns three fresh uncreated sub-accounts of the bank. The bank
// must be initialized. registry may be nil; issued keys are then only
// returned to the caller.
func NewFixture(bank *account.Account, fetcher ArtifactFetcher, registry *Registry, log *zap.Logger) (*Fixture, error) {
	f := &Fixture{
		rootID:   bank.Parent().ID,
		fetcher:  fetcher,
		registry: registry,
		log:      log,
	}
	var err error
	if f.Sender, err = bank.SpawnRandomSubAccount(); err != nil {
		return nil, err
	}
	if f.ContractHost, err = bank.SpawnRandomSubAccount(); err != nil {
		return nil, err
	}
	if f.Receiver, err = bank.SpawnRandomSubAccount(); err != nil {
		return nil, err
	}
	return f, nil
}

// Initialize provisions the three accounts concurrently: the sender funded
// with senderBalance, the host funded with contractFunding and deployed with
// the fetched linkdrop contract, the receiver with the default funding. All
// three creations are awaited before returning; the first rejection is
// returned, and any accounts that did get created are left in place for
// DeleteAccounts.
func (f *Fixture) Initialize(ctx context.Context, senderBalance string) (*Fixture, error) {
	// A failed Create can still return a created record (ledger creation
	// succeeded, re-initialize did not); keep it so DeleteAccounts covers it.
	var g errgroup.Group
	g.Go(func() error {
		created, err := f.Sender.Create(ctx, account.CreateOpts{Amount: senderBalance})
		if created != nil {
			f.Sender = created
		}
		return err
	})
	g.Go(func() error {
		wasm, err := f.fetcher.FetchLinkdropContract(ctx)
		if err != nil {
			return err
		}
		created, err := f.ContractHost.Create(ctx, account.CreateOpts{Amount: contractFunding, ContractWasm: wasm})
		if created != nil {
			f.ContractHost = created
		}
		return err
	})
	g.Go(func() error {
		created, err := f.Receiver.Create(ctx, account.CreateOpts{})
		if created != nil {
			f.Receiver = created
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	f.log.Info("linkdrop fixture provisioned",
		zap.String("sender", f.Sender.ID()),
		zap.String("contract", f.ContractHost.ID()),
		zap.String("receiver", f.Receiver.ID()),
	)
	return f, nil
}

// Send locks amount native units behind a freshly generated one-time key by
// calling the deployed contract's send entry point from the sender. The
// paired secret key is recorded as LastSecretKey and returned; a claimant
// redeems the linkdrop with it.
func (f *Fixture) Send(ctx context.Context, amount string) (string, error) {
	secret, kp, err := f.send(ctx, f.ContractHost.ID(), amount)
	if err != nil {
		return "", err
	}
	f.lastSecretKey = secret
	if f.registry != nil {
		// Best effort: a registry outage must not fail the send itself.
		if err := f.registry.Record(ctx, IssuedKey{
			PublicKey: kp.PublicKey(),
			SecretKey: secret,
			Sender:    f.Sender.ID(),
			Amount:    amount,
		}); err != nil {
			f.log.Warn("record issued key", zap.Error(err))
		}
	}
	return secret, nil
}

// SendToRoot issues the same transfer against the network's root account
// instead of the deployed contract, exercising the top-level claim path. The
// secret key is returned but deliberately not recorded as LastSecretKey.
func (f *Fixture) SendToRoot(ctx context.Context, amount string) (string, error) {
	secret, _, err := f.send(ctx, f.rootID, amount)
	return secret, err
}

func (f *Fixture) send(ctx context.Context, targetID, amount string) (string, keys.KeyPair, error) {
	sender := f.Sender
	if !sender.Initialized() {
		return "", keys.KeyPair{}, &account.PreconditionError{AccountID: sender.ID(), Op: "linkdrop send"}
	}
	value, err := ledger.ParseAmount(amount)
	if err != nil {
		return "", keys.KeyPair{}, &account.TransferError{AccountID: sender.ID(), Err: err}
	}
	kp, err := keys.NewRandomKeyPair()
	if err != nil {
		return "", keys.KeyPair{}, &account.TransferError{AccountID: sender.ID(), Err: err}
	}
	err = sender.Session().CallFunction(ctx, targetID, "send", map[string]any{
		"public_key": kp.PublicKey(),
	}, ledger.DefaultGas, value)
	if err != nil {
		return "", keys.KeyPair{}, &account.TransferError{AccountID: sender.ID(), Err: err}
	}
	return kp.SecretKey(), kp, nil
}

// LastSecretKey returns the secret key of the most recent successful Send,
// or "" before the first one.
func (f *Fixture) LastSecretKey() string { return f.lastSecretKey }

// DeleteAccounts tears down all three accounts concurrently, best effort.
// Every deletion is attempted and every outcome reported; the call itself
// never fails. Accounts that were never created are skipped without network
// traffic by Account.Delete.
func (f *Fixture) DeleteAccounts(ctx context.Context) gather.Outcomes {
	outcomes := gather.All(ctx,
		gather.Task{Label: f.Sender.ID(), Run: f.Sender.Delete},
		gather.Task{Label: f.ContractHost.ID(), Run: f.ContractHost.Delete},
		gather.Task{Label: f.Receiver.ID(), Run: f.Receiver.Delete},
	)
	for _, o := range outcomes.Failed() {
		f.log.Warn("account teardown failed", zap.String("account", o.Label), zap.Error(o.Err))
	}
	return outcomes
}
