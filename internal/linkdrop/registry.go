package linkdrop

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const issuedKeyPrefix = "linkdrop:issued:"

// IssuedKey is one outstanding claimable linkdrop: the one-time key pair plus
// enough context for the claim-redemption flow to verify and redeem it.
type IssuedKey struct {
	PublicKey string
	SecretKey string
	Sender    string
	Amount    string
	IssuedAt  int64
}

// Registry hands issued one-time keys over to the claim-redemption flow
// through Redis, one hash per issued public key.
type Registry struct {
	rdb *redis.Client
}

func NewRegistry(rdb *redis.Client) *Registry {
	return &Registry{rdb: rdb}
}

func issuedKey(publicKey string) string {
	return issuedKeyPrefix + publicKey
}

func (r *Registry) Record(ctx context.Context, k IssuedKey) error {
	if k.IssuedAt == 0 {
		k.IssuedAt = time.Now().Unix()
	}
	return r.rdb.HSet(ctx, issuedKey(k.PublicKey),
		"public_key", k.PublicKey,
		"secret_key", k.SecretKey,
		"sender", k.Sender,
		"amount", k.Amount,
		"issued_at", k.IssuedAt,
	).Err()
}

// Get returns the issued key for a public key, or nil if unknown.
func (r *Registry) Get(ctx context.Context, publicKey string) (*IssuedKey, error) {
	vals, err := r.rdb.HGetAll(ctx, issuedKey(publicKey)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return issuedFromMap(vals), nil
}

// Claim removes and returns the issued key, so a one-time key can only be
// handed out once. Returns nil if the key is unknown or already claimed.
// Exclusivity rests on the delete count: of several concurrent claimants only
// the one whose delete removed the key gets it.
func (r *Registry) Claim(ctx context.Context, publicKey string) (*IssuedKey, error) {
	k, err := r.Get(ctx, publicKey)
	if err != nil || k == nil {
		return nil, err
	}
	removed, err := r.rdb.Del(ctx, issuedKey(publicKey)).Result()
	if err != nil {
		return nil, err
	}
	if removed == 0 {
		// lost the race to another claimant
		return nil, nil
	}
	return k, nil
}

// ScanIssued returns every outstanding issued key.
func (r *Registry) ScanIssued(ctx context.Context) ([]IssuedKey, error) {
	var issued []IssuedKey
	var cursor uint64
	for {
		ks, next, err := r.rdb.Scan(ctx, cursor, issuedKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan issued keys: %w", err)
		}
		for _, key := range ks {
			vals, err := r.rdb.HGetAll(ctx, key).Result()
			if err != nil || len(vals) == 0 {
				continue
			}
			issued = append(issued, *issuedFromMap(vals))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return issued, nil
}

func issuedFromMap(m map[string]string) *IssuedKey {
	issuedAt, _ := strconv.ParseInt(m["issued_at"], 10, 64)
	return &IssuedKey{
		PublicKey: m["public_key"],
		SecretKey: m["secret_key"],
		Sender:    m["sender"],
		Amount:    m["amount"],
		IssuedAt:  issuedAt,
	}
}
