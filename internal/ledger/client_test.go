package ledger

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/walletci/linkdrop-harness/internal/keys"
)

const testSeedPhrase = "canoe skin dash series bid mule gravity square ring carbon peasant screen"

// ── Fake node ────────────────────────────────────────────────────────────────

type rpcCall struct {
	Method string
	Params json.RawMessage
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fakeNode is a minimal JSON-RPC 2.0 endpoint recording every request.
type fakeNode struct {
	mu      sync.Mutex
	calls   []rpcCall
	results map[string]any      // method → result
	errors  map[string]rpcError // method → error response
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		results: map[string]any{
			"open_session": map[string]string{"session_token": "tok-1"},
		},
		errors: map[string]rpcError{},
	}
}

func (n *fakeNode) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      json.RawMessage `json:"id"`
			Method  string          `json:"method"`
			Params  json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n.mu.Lock()
		n.calls = append(n.calls, rpcCall{Method: req.Method, Params: req.Params})
		rpcErr, isErr := n.errors[req.Method]
		result, ok := n.results[req.Method]
		n.mu.Unlock()

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch {
		case isErr:
			resp["error"] = rpcErr
		case ok:
			resp["result"] = result
		default:
			resp["result"] = map[string]any{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}
}

func (n *fakeNode) callsFor(method string) []rpcCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []rpcCall
	for _, c := range n.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func newTestSession(t *testing.T, node *fakeNode) Session {
	t.Helper()
	srv := httptest.NewServer(node.handler())
	t.Cleanup(srv.Close)

	kp, err := keys.FromSeedPhrase(testSeedPhrase)
	if err != nil {
		t.Fatalf("FromSeedPhrase: %v", err)
	}
	session, err := NewClient(srv.URL, "testnet").OpenSession(context.Background(), "bank.test", kp)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	return session
}

func decodeParams(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode params: %v", err)
	}
	return m
}

// ── OpenSession ──────────────────────────────────────────────────────────────

func TestOpenSession(t *testing.T) {
	node := newFakeNode()
	newTestSession(t, node)

	opens := node.callsFor("open_session")
	if len(opens) != 1 {
		t.Fatalf("open_session calls: got %d want 1", len(opens))
	}
	params := decodeParams(t, opens[0].Params)
	if params["account_id"] != "bank.test" {
		t.Errorf("account_id: got %v", params["account_id"])
	}
	if params["network_id"] != "testnet" {
		t.Errorf("network_id: got %v", params["network_id"])
	}
	if _, ok := params["public_key"].(string); !ok {
		t.Errorf("public_key: got %v", params["public_key"])
	}
}

func TestOpenSession_Rejected(t *testing.T) {
	node := newFakeNode()
	node.errors["open_session"] = rpcError{Code: -32000, Message: "unknown account"}
	srv := httptest.NewServer(node.handler())
	t.Cleanup(srv.Close)

	kp, _ := keys.FromSeedPhrase(testSeedPhrase)
	if _, err := NewClient(srv.URL, "testnet").OpenSession(context.Background(), "nobody.test", kp); err == nil {
		t.Fatal("expected error")
	}
}

// ── Account operations ───────────────────────────────────────────────────────

func TestCreateAccount_Params(t *testing.T) {
	node := newFakeNode()
	session := newTestSession(t, node)

	bal, _ := ParseAmount("10")
	if err := session.CreateAccount(context.Background(), "sub.test", "ed25519:pub", bal); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	calls := node.callsFor("create_account")
	if len(calls) != 1 {
		t.Fatalf("create_account calls: got %d want 1", len(calls))
	}
	params := decodeParams(t, calls[0].Params)
	if params["session_token"] != "tok-1" {
		t.Errorf("session_token: got %v", params["session_token"])
	}
	if params["signer_id"] != "bank.test" {
		t.Errorf("signer_id: got %v", params["signer_id"])
	}
	if params["new_account_id"] != "sub.test" {
		t.Errorf("new_account_id: got %v", params["new_account_id"])
	}
	if params["initial_balance"] != bal.String() {
		t.Errorf("initial_balance: got %v want %s", params["initial_balance"], bal)
	}
	if _, hasWasm := params["contract_wasm"]; hasWasm {
		t.Error("plain create carried contract bytes")
	}
}

func TestCreateAndDeployContract_Params(t *testing.T) {
	node := newFakeNode()
	session := newTestSession(t, node)

	bal, _ := ParseAmount("5.0")
	wasm := []byte{0x00, 0x61, 0x73, 0x6D}
	if err := session.CreateAndDeployContract(context.Background(), "contract.test", "ed25519:pub", wasm, bal); err != nil {
		t.Fatalf("CreateAndDeployContract: %v", err)
	}

	calls := node.callsFor("create_and_deploy_contract")
	if len(calls) != 1 {
		t.Fatalf("create_and_deploy_contract calls: got %d want 1", len(calls))
	}
	params := decodeParams(t, calls[0].Params)
	if params["contract_wasm"] == nil {
		t.Error("contract bytes missing")
	}
}

func TestDeleteAccount_Params(t *testing.T) {
	node := newFakeNode()
	session := newTestSession(t, node)

	if err := session.DeleteAccount(context.Background(), "bank.test"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	params := decodeParams(t, node.callsFor("delete_account")[0].Params)
	if params["beneficiary_id"] != "bank.test" {
		t.Errorf("beneficiary_id: got %v", params["beneficiary_id"])
	}
	if params["account_id"] != "bank.test" {
		t.Errorf("account_id: got %v", params["account_id"])
	}
}

func TestCallFunction_Params(t *testing.T) {
	node := newFakeNode()
	session := newTestSession(t, node)

	value, _ := ParseAmount("2")
	err := session.CallFunction(context.Background(), "contract.test", "send",
		map[string]any{"public_key": "ed25519:pub"}, 0, value)
	if err != nil {
		t.Fatalf("CallFunction: %v", err)
	}

	params := decodeParams(t, node.callsFor("call_function")[0].Params)
	if params["target_id"] != "contract.test" || params["method_name"] != "send" {
		t.Errorf("call params: %v", params)
	}
	if params["attached_value"] != value.String() {
		t.Errorf("attached_value: got %v", params["attached_value"])
	}
	// gas 0 falls back to the default
	if gas, _ := params["gas"].(float64); uint64(gas) != DefaultGas {
		t.Errorf("gas: got %v want %d", params["gas"], DefaultGas)
	}
}

func TestCallFunction_Rejected(t *testing.T) {
	node := newFakeNode()
	node.errors["call_function"] = rpcError{Code: -32000, Message: "not enough balance"}
	session := newTestSession(t, node)

	value, _ := ParseAmount("2")
	err := session.CallFunction(context.Background(), "contract.test", "send", nil, 0, value)
	if err == nil {
		t.Fatal("expected rejection")
	}
}

func TestViewFunction_RawResult(t *testing.T) {
	node := newFakeNode()
	node.results["view_function"] = "123456789012345678901234"
	session := newTestSession(t, node)

	raw, err := session.ViewFunction(context.Background(), "validator.test", "get_account_staked_balance",
		map[string]any{"account_id": "bank.test"})
	if err != nil {
		t.Fatalf("ViewFunction: %v", err)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if s != "123456789012345678901234" {
		t.Errorf("result: got %q", s)
	}
}

func TestBalance(t *testing.T) {
	node := newFakeNode()
	node.results["view_account_balance"] = map[string]string{"available": "1000000000000000000000000"}
	session := newTestSession(t, node)

	bal, err := session.Balance(context.Background())
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if want := big.NewInt(0).Mul(big.NewInt(1), unit); bal.Cmp(want) != 0 {
		t.Errorf("balance: got %s want %s", bal, want)
	}
}
