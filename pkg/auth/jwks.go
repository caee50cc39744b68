package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "contentforge-backend/pkg/errors"
)

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

// KeySet caches the identity provider's signing keys. Keys are refetched
// when the cache expires or when a token references a key the cache has
// never seen, which covers provider-side key rotation without a restart.
type KeySet struct {
	url        string
	ttl        time.Duration
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewKeySet creates a key cache backed by the given JWKS endpoint
func NewKeySet(url string, ttl time.Duration, logger *zap.Logger) *KeySet {
	return &KeySet{
		url:        url,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// Key returns the public key for the given key ID, refreshing the cache at
// most once per call when the ID is unknown or the cache has expired
func (k *KeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	k.mu.RLock()
	key, ok := k.keys[kid]
	fresh := time.Since(k.fetchedAt) < k.ttl
	k.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := k.refresh(ctx); err != nil {
		// A stale key is still usable when the provider is unreachable
		if ok {
			k.logger.Warn("Serving stale signing key, refresh failed", zap.Error(err), zap.String("kid", kid))
			return key, nil
		}
		return nil, err
	}

	k.mu.RLock()
	key, ok = k.keys[kid]
	k.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewUnauthorizedError(fmt.Sprintf("token signed with unknown key %q", kid))
	}
	return key, nil
}

// Invalidate drops all cached keys, forcing a refetch on the next lookup
func (k *KeySet) Invalidate() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = make(map[string]*rsa.PublicKey)
	k.fetchedAt = time.Time{}
}

func (k *KeySet) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to build signing key request").WithCause(err)
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return apperrors.NewInternalError("failed to fetch signing keys").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewInternalError(fmt.Sprintf("signing key endpoint returned %d", resp.StatusCode))
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return apperrors.NewInternalError("failed to decode signing key document").WithCause(err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, key := range doc.Keys {
		if key.Kty != "RSA" || key.Kid == "" {
			continue
		}
		pub, err := parseRSAKey(key)
		if err != nil {
			k.logger.Warn("Skipping unparseable signing key", zap.Error(err), zap.String("kid", key.Kid))
			continue
		}
		keys[key.Kid] = pub
	}

	k.mu.Lock()
	k.keys = keys
	k.fetchedAt = time.Now()
	k.mu.Unlock()

	k.logger.Debug("Refreshed signing keys", zap.Int("count", len(keys)))
	return nil
}

func parseRSAKey(key jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(key.N)
	if err != nil {
		return nil, fmt.Errorf("invalid modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(key.E)
	if err != nil {
		return nil, fmt.Errorf("invalid exponent: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e <= 1 {
		return nil, fmt.Errorf("invalid exponent value %d", e)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
