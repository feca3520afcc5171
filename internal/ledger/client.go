package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/AccumulateNetwork/jsonrpc2/v15"

	"github.com/walletci/linkdrop-harness/internal/keys"
)

// DefaultGas is attached to function calls when the caller has no opinion.
const DefaultGas = uint64(30_000_000_000_000)

const rpcTimeout = 15 * time.Second

// Client opens authenticated sessions against a harness node's JSON-RPC
// endpoint. The node holds per-session state; the client only carries
// identity, so Client is safe to share.
type Client struct {
	NodeURL   string
	NetworkID string
	rpc       jsonrpc2.Client
}

func NewClient(nodeURL, networkID string) *Client {
	c := &Client{NodeURL: nodeURL, NetworkID: networkID}
	c.rpc.Timeout = rpcTimeout
	return c
}

func (c *Client) request(ctx context.Context, method string, params, result any) error {
	return c.rpc.Request(ctx, c.NodeURL, method, params, result)
}

type openSessionParams struct {
	AccountID string `json:"account_id"`
	PublicKey string `json:"public_key"`
	NetworkID string `json:"network_id"`
}

type openSessionResult struct {
	Token string `json:"session_token"`
}

// OpenSession registers the account's public key with the node and returns a
// session bound to it. The node rejects keys that do not match the account's
// on-ledger access keys.
func (c *Client) OpenSession(ctx context.Context, accountID string, kp keys.KeyPair) (Session, error) {
	var res openSessionResult
	err := c.request(ctx, "open_session", &openSessionParams{
		AccountID: accountID,
		PublicKey: kp.PublicKey(),
		NetworkID: c.NetworkID,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("open session for %s: %w", accountID, err)
	}
	return &rpcSession{client: c, accountID: accountID, token: res.Token}, nil
}

// rpcSession issues account-scoped requests carrying the session token.
type rpcSession struct {
	client    *Client
	accountID string
	token     string
}

type createAccountParams struct {
	SessionToken   string `json:"session_token"`
	SignerID       string `json:"signer_id"`
	NewAccountID   string `json:"new_account_id"`
	PublicKey      string `json:"public_key"`
	InitialBalance string `json:"initial_balance"`
	ContractWasm   []byte `json:"contract_wasm,omitempty"`
}

func (s *rpcSession) CreateAccount(ctx context.Context, newID, publicKey string, initialBalance *big.Int) error {
	return s.createAccount(ctx, "create_account", newID, publicKey, nil, initialBalance)
}

func (s *rpcSession) CreateAndDeployContract(ctx context.Context, newID, publicKey string, wasm []byte, initialBalance *big.Int) error {
	return s.createAccount(ctx, "create_and_deploy_contract", newID, publicKey, wasm, initialBalance)
}

func (s *rpcSession) createAccount(ctx context.Context, method, newID, publicKey string, wasm []byte, initialBalance *big.Int) error {
	var res json.RawMessage
	return s.client.request(ctx, method, &createAccountParams{
		SessionToken:   s.token,
		SignerID:       s.accountID,
		NewAccountID:   newID,
		PublicKey:      publicKey,
		InitialBalance: initialBalance.String(),
		ContractWasm:   wasm,
	}, &res)
}

type deleteAccountParams struct {
	SessionToken  string `json:"session_token"`
	AccountID     string `json:"account_id"`
	BeneficiaryID string `json:"beneficiary_id"`
}

func (s *rpcSession) DeleteAccount(ctx context.Context, beneficiaryID string) error {
	var res json.RawMessage
	return s.client.request(ctx, "delete_account", &deleteAccountParams{
		SessionToken:  s.token,
		AccountID:     s.accountID,
		BeneficiaryID: beneficiaryID,
	}, &res)
}

type callFunctionParams struct {
	SessionToken  string         `json:"session_token"`
	SignerID      string         `json:"signer_id"`
	TargetID      string         `json:"target_id"`
	Method        string         `json:"method_name"`
	Args          map[string]any `json:"args"`
	Gas           uint64         `json:"gas"`
	AttachedValue string         `json:"attached_value"`
}

func (s *rpcSession) CallFunction(ctx context.Context, targetID, method string, args map[string]any, gas uint64, attachedValue *big.Int) error {
	if gas == 0 {
		gas = DefaultGas
	}
	value := "0"
	if attachedValue != nil {
		value = attachedValue.String()
	}
	var res json.RawMessage
	return s.client.request(ctx, "call_function", &callFunctionParams{
		SessionToken:  s.token,
		SignerID:      s.accountID,
		TargetID:      targetID,
		Method:        method,
		Args:          args,
		Gas:           gas,
		AttachedValue: value,
	}, &res)
}

type viewFunctionParams struct {
	TargetID string         `json:"target_id"`
	Method   string         `json:"method_name"`
	Args     map[string]any `json:"args"`
}

func (s *rpcSession) ViewFunction(ctx context.Context, targetID, method string, args map[string]any) (json.RawMessage, error) {
	var res json.RawMessage
	err := s.client.request(ctx, "view_function", &viewFunctionParams{
		TargetID: targetID,
		Method:   method,
		Args:     args,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type balanceParams struct {
	SessionToken string `json:"session_token"`
	AccountID    string `json:"account_id"`
}

type balanceResult struct {
	Available string `json:"available"`
}

func (s *rpcSession) Balance(ctx context.Context) (*big.Int, error) {
	var res balanceResult
	err := s.client.request(ctx, "view_account_balance", &balanceParams{
		SessionToken: s.token,
		AccountID:    s.accountID,
	}, &res)
	if err != nil {
		return nil, err
	}
	bal, ok := new(big.Int).SetString(res.Available, 10)
	if !ok {
		return nil, fmt.Errorf("balance of %s: malformed amount %q", s.accountID, res.Available)
	}
	return bal, nil
}
