package account

import "fmt"

// PreconditionError reports an operation invoked on an account in the wrong
// lifecycle state.
type PreconditionError struct {
	AccountID string
	Op        string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("account %s: %s requires an initialized account", e.AccountID, e.Op)
}

// CreationError wraps a session rejection during on-ledger account creation.
type CreationError struct {
	AccountID string
	Err       error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create account %s: %v", e.AccountID, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// DeletionError wraps a session rejection during on-ledger account deletion.
type DeletionError struct {
	AccountID string
	Err       error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("delete account %s: %v", e.AccountID, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

// TransferError wraps a rejected value transfer issued from an account.
type TransferError struct {
	AccountID string
	Err       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer from %s: %v", e.AccountID, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// QueryError wraps a rejected or unparsable read-only query.
type QueryError struct {
	AccountID string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query for %s: %v", e.AccountID, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
