package ledger

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/walletci/linkdrop-harness/internal/keys"
)

// Session is an authenticated handle bound to one account on one network.
// Every method is a request against the remote ledger; a returned error is the
// ledger's rejection and the only error channel. Sessions are not safe for
// concurrent use by multiple goroutines driving the same account.
type Session interface {
	// CreateAccount creates newID as a sub-account of the session's account,
	// funded with initialBalance base units debited from it.
	CreateAccount(ctx context.Context, newID, publicKey string, initialBalance *big.Int) error

	// CreateAndDeployContract is CreateAccount plus a contract deployment,
	// atomic from the caller's perspective (a single underlying request).
	CreateAndDeployContract(ctx context.Context, newID, publicKey string, wasm []byte, initialBalance *big.Int) error

	// DeleteAccount removes the session's account, sending any remaining
	// balance to beneficiaryID.
	DeleteAccount(ctx context.Context, beneficiaryID string) error

	// CallFunction invokes a state-changing method on targetID's contract
	// from the session's account, attaching attachedValue base units.
	CallFunction(ctx context.Context, targetID, method string, args map[string]any, gas uint64, attachedValue *big.Int) error

	// ViewFunction issues a read-only query against targetID's contract.
	ViewFunction(ctx context.Context, targetID, method string, args map[string]any) (json.RawMessage, error)

	// Balance returns the account's current balance in base units.
	Balance(ctx context.Context) (*big.Int, error)
}

// Opener binds an account's credentials to a network, yielding a Session.
type Opener interface {
	OpenSession(ctx context.Context, accountID string, kp keys.KeyPair) (Session, error)
}
