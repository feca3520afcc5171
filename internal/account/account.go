// Package account manages ephemeral on-ledger test accounts: creation,
// session binding, balance queries and teardown. Accounts move through
// Uninitialized → Initialized → Created → Deleted; the transition methods
// return a new record instead of mutating the receiver, so a half-finished
// transition is never observable.
package account

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/walletci/linkdrop-harness/internal/keys"
	"github.com/walletci/linkdrop-harness/internal/ledger"
)

// DefaultFunding is the initial balance, in native units, for accounts whose
// caller has no opinion.
const DefaultFunding = "1.0"

// Parent is the account an ephemeral account hangs off: the funding source on
// creation and the balance beneficiary on deletion. Deletion only needs the
// identifier, so Session may be nil for bootstrap parents such as the network
// root.
type Parent struct {
	ID      string
	Session ledger.Session
}

// Account is one provisionable test account. The zero value is unusable; use
// New. An Account is confined to one goroutine at a time; it carries no locks.
type Account struct {
	id      string
	seed    string
	parent  Parent
	opener  ledger.Opener
	session ledger.Session
	created bool
}

// New returns an uninitialized account holding identity and credentials only.
// No network traffic until Initialize.
func New(id, seedPhrase string, parent Parent, opener ledger.Opener) *Account {
	return &Account{id: id, seed: seedPhrase, parent: parent, opener: opener}
}

func (a *Account) ID() string { return a.id }

func (a *Account) SeedPhrase() string { return a.seed }

func (a *Account) Parent() Parent { return a.parent }

func (a *Account) Initialized() bool { return a.session != nil }

func (a *Account) Created() bool { return a.created }

func (a *Account) Session() ledger.Session { return a.session }

// Initialize binds an authenticated session to the account and returns the
// bound record. Safe to call again after Create; the observable account state
// is unchanged by a repeat call.
func (a *Account) Initialize(ctx context.Context) (*Account, error) {
	session, err := a.openSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize %s: %w", a.id, err)
	}
	next := *a
	next.session = session
	return &next, nil
}

func (a *Account) openSession(ctx context.Context) (ledger.Session, error) {
	kp, err := keys.FromSeedPhrase(a.seed)
	if err != nil {
		return nil, err
	}
	return a.opener.OpenSession(ctx, a.id, kp)
}

// CreateOpts controls on-ledger creation. Amount is a decimal string in
// native units; empty means DefaultFunding. A non-nil ContractWasm deploys
// the bytecode in the same request that creates the account.
type CreateOpts struct {
	Amount       string
	ContractWasm []byte
}

// Create performs the on-ledger creation through the parent's session, funded
// from the parent, then re-initializes so the returned record is immediately
// usable. No retry on rejection: creation is not idempotent, so retrying an
// ambiguous failure is the caller's call.
//
// If the creation succeeds but the re-initialize does not, the account exists
// on the ledger even though the call failed. Create then returns the created
// record alongside the error so the caller's teardown still covers it; Delete
// opens a session on demand for such records.
func (a *Account) Create(ctx context.Context, opts CreateOpts) (*Account, error) {
	if a.parent.Session == nil {
		return nil, &CreationError{AccountID: a.id, Err: fmt.Errorf("parent %s has no bound session", a.parent.ID)}
	}
	amount := opts.Amount
	if amount == "" {
		amount = DefaultFunding
	}
	balance, err := ledger.ParseAmount(amount)
	if err != nil {
		return nil, &CreationError{AccountID: a.id, Err: err}
	}
	kp, err := keys.FromSeedPhrase(a.seed)
	if err != nil {
		return nil, &CreationError{AccountID: a.id, Err: err}
	}

	if opts.ContractWasm != nil {
		err = a.parent.Session.CreateAndDeployContract(ctx, a.id, kp.PublicKey(), opts.ContractWasm, balance)
	} else {
		err = a.parent.Session.CreateAccount(ctx, a.id, kp.PublicKey(), balance)
	}
	if err != nil {
		return nil, &CreationError{AccountID: a.id, Err: err}
	}

	next := *a
	next.created = true
	initialized, err := next.Initialize(ctx)
	if err != nil {
		return &next, &CreationError{AccountID: a.id, Err: err}
	}
	return initialized, nil
}

// SpawnRandomSubAccount returns an uncreated account with a fresh random
// identifier, a seed phrase derived from this account's, and this account as
// parent. No network traffic.
func (a *Account) SpawnRandomSubAccount() (*Account, error) {
	if a.session == nil {
		return nil, &PreconditionError{AccountID: a.id, Op: "spawn sub-account"}
	}
	subID := keys.NewTestAccountID()
	return New(
		subID,
		keys.SubAccountSeedPhrase(subID, a.seed),
		Parent{ID: a.id, Session: a.session},
		a.opener,
	), nil
}

// Delete removes the account from the ledger, sending the remaining balance
// to the parent. Accounts this process only reconnected to (Created false)
// are left alone: deleting pre-existing infrastructure through the teardown
// path is never allowed, and no network call is made. A created record left
// without a bound session by a failed re-initialize gets one opened here.
func (a *Account) Delete(ctx context.Context) error {
	if !a.created {
		return nil
	}
	session := a.session
	if session == nil {
		var err error
		if session, err = a.openSession(ctx); err != nil {
			return &DeletionError{AccountID: a.id, Err: err}
		}
	}
	if err := session.DeleteAccount(ctx, a.parent.ID); err != nil {
		return &DeletionError{AccountID: a.id, Err: err}
	}
	return nil
}

// UpdatedBalance opens a fresh session for the query so a stale cached view
// on the node can never be returned. The account's own bound session is left
// as is.
func (a *Account) UpdatedBalance(ctx context.Context) (*big.Int, error) {
	session, err := a.openSession(ctx)
	if err != nil {
		return nil, &QueryError{AccountID: a.id, Err: err}
	}
	bal, err := session.Balance(ctx)
	if err != nil {
		return nil, &QueryError{AccountID: a.id, Err: err}
	}
	return bal, nil
}

// StakedBalance asks the given validator contract for this account's staked
// balance. The contract answers with a decimal string; balances exceed native
// integer precision, so the result stays a big.Int. A "not found" answer from
// the contract (account never staked there) surfaces as a QueryError.
func (a *Account) StakedBalance(ctx context.Context, validatorID string) (*big.Int, error) {
	if a.session == nil {
		return nil, &PreconditionError{AccountID: a.id, Op: "staked balance query"}
	}
	raw, err := a.session.ViewFunction(ctx, validatorID, "get_account_staked_balance", map[string]any{
		"account_id": a.id,
	})
	if err != nil {
		return nil, &QueryError{AccountID: a.id, Err: err}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &QueryError{AccountID: a.id, Err: fmt.Errorf("staked balance response: %w", err)}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &QueryError{AccountID: a.id, Err: fmt.Errorf("staked balance response: malformed amount %q", s)}
	}
	return n, nil
}
