package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"homework-sync-api/internal/core/cache"
)

// CachedVerifier memoizes successful verifications in Redis so hot
// clients do not hit the provider on every request. Keys are hashes of
// the raw token; failures are never cached.
type CachedVerifier struct {
	Next  TokenVerifier
	Cache *cache.Cache
	TTL   time.Duration
}

func (v *CachedVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if v.Cache == nil || v.TTL <= 0 {
		return v.Next.Verify(ctx, rawToken)
	}
	sum := sha256.Sum256([]byte(rawToken))
	key := "idp:tok:" + hex.EncodeToString(sum[:])
	id, err := cache.GetOrLoadJSON[Identity](v.Cache, ctx, key, v.TTL, func(ctx context.Context) (*Identity, error) {
		return v.Next.Verify(ctx, rawToken)
	})
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrUnauthenticated
	}
	return id, nil
}
