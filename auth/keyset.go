package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/sirupsen/logrus"
)

var (
	// ErrKeyNotFound means the key set was fetched but contains no key with
	// the requested id. Terminal: the token was signed with an unknown or
	// rotated-out key.
	ErrKeyNotFound = errors.New("auth: signing key not found")
	// ErrKeySetUnavailable means the key set could not be fetched or parsed.
	// The only retryable failure in the chain.
	ErrKeySetUnavailable = errors.New("auth: key set unavailable")
)

// KeyProvider resolves a key id to the issuer's public signing key.
type KeyProvider interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// KeySetCache is an optional shared cache for the raw JWKS document, so
// multiple replicas refresh from the issuer at most once per TTL. Implemented
// by storage/memory and storage/redis.
type KeySetCache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Put(ctx context.Context, raw []byte) error
}

// keysetSnapshot is an immutable view of the fetched key set. Readers always
// see a complete set; refreshes swap the whole snapshot.
type keysetSnapshot struct {
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

// JWKSProviderConfig configures a JWKSProvider.
type JWKSProviderConfig struct {
	// URL of the issuer's published JWKS document.
	URL string
	// TTL before a cached snapshot is considered stale. Defaults to 10m.
	TTL time.Duration
	// FetchTimeout bounds one fetch so a slow issuer response cannot stall
	// in-flight authorization checks. Defaults to 10s.
	FetchTimeout time.Duration
	// HTTPClient overrides the default client. Its timeout wins over
	// FetchTimeout when set.
	HTTPClient *http.Client
	// Cache is the optional shared document cache.
	Cache KeySetCache
	// Logger defaults to the standard logrus logger.
	Logger logrus.FieldLogger
}

// JWKSProvider fetches the issuer's JWKS and serves signing keys by key id.
// A fetched set is held as an immutable snapshot swapped atomically, so
// concurrent lookups never observe a partially updated set. A lookup miss
// inside the TTL forces one refresh before failing with ErrKeyNotFound,
// which covers key rotation without a restart.
type JWKSProvider struct {
	url    string
	ttl    time.Duration
	client *http.Client
	cache  KeySetCache
	log    logrus.FieldLogger

	snap atomic.Pointer[keysetSnapshot]
	// mu serializes refreshes; lookups never take it.
	mu sync.Mutex
}

// NewJWKSProvider builds a provider for the given JWKS endpoint.
func NewJWKSProvider(cfg JWKSProviderConfig) (*JWKSProvider, error) {
	if cfg.URL == "" {
		return nil, errors.New("auth: jwks url is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JWKSProvider{
		url:    cfg.URL,
		ttl:    cfg.TTL,
		client: client,
		cache:  cfg.Cache,
		log:    log,
	}, nil
}

// Key returns the public key for kid. It serves from the current snapshot
// when fresh, refreshes when stale, and forces one refresh on a miss before
// reporting ErrKeyNotFound.
func (p *JWKSProvider) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if snap := p.snap.Load(); snap != nil && !p.stale(snap) {
		if key, ok := snap.keys[kid]; ok {
			return key, nil
		}
		// Fresh snapshot but unknown kid: the issuer may have rotated keys
		// since the last fetch. Refresh once, bypassing the shared cache.
		snap, err := p.refresh(ctx, true)
		if err != nil {
			return nil, err
		}
		if key, ok := snap.keys[kid]; ok {
			return key, nil
		}
		return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
	}

	snap, err := p.refresh(ctx, false)
	if err != nil {
		return nil, err
	}
	if key, ok := snap.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}

// Refresh fetches the key set unconditionally. Used by the background
// refresh schedule; authorization checks refresh on demand instead.
func (p *JWKSProvider) Refresh(ctx context.Context) error {
	_, err := p.refresh(ctx, true)
	return err
}

func (p *JWKSProvider) stale(snap *keysetSnapshot) bool {
	return time.Since(snap.fetched) >= p.ttl
}

// refresh replaces the snapshot. With force set the shared cache is skipped
// and the snapshot is replaced even if another goroutine refreshed first,
// unless that refresh happened after we started waiting for the lock.
func (p *JWKSProvider) refresh(ctx context.Context, force bool) (*keysetSnapshot, error) {
	before := p.snap.Load()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have refreshed while we waited on the lock.
	if snap := p.snap.Load(); snap != nil && snap != before && !p.stale(snap) {
		return snap, nil
	}

	if p.cache != nil && !force {
		if raw, ok, err := p.cache.Get(ctx); err != nil {
			p.log.WithError(err).Warn("keyset cache read failed, fetching from issuer")
		} else if ok {
			if snap, err := buildSnapshot(raw); err == nil {
				p.snap.Store(snap)
				return snap, nil
			} else {
				p.log.WithError(err).Warn("cached keyset document is malformed, fetching from issuer")
			}
		}
	}

	raw, err := p.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}
	snap, err := buildSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}
	p.snap.Store(snap)

	if p.cache != nil {
		if err := p.cache.Put(ctx, raw); err != nil {
			p.log.WithError(err).Warn("keyset cache write failed")
		}
	}
	p.log.WithField("keys", len(snap.keys)).Debug("refreshed signing key set")
	return snap, nil
}

func (p *JWKSProvider) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jwks endpoint returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// buildSnapshot parses a JWKS document and extracts its RSA signing keys.
func buildSnapshot(raw []byte) (*keysetSnapshot, error) {
	set, err := jwk.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		if key.KeyType() != jwa.RSA {
			continue
		}
		if use := key.KeyUsage(); use != "" && use != string(jwk.ForSignature) {
			continue
		}
		kid := key.KeyID()
		if kid == "" {
			continue
		}
		var pub rsa.PublicKey
		if err := key.Raw(&pub); err != nil {
			return nil, fmt.Errorf("materialize key %q: %w", kid, err)
		}
		keys[kid] = &pub
	}
	if len(keys) == 0 {
		return nil, errors.New("jwks document contains no usable RSA signing keys")
	}
	return &keysetSnapshot{keys: keys, fetched: time.Now()}, nil
}

// StaticKeyProvider serves keys from a fixed in-memory map. Useful for tests
// and for pinned-key deployments without a reachable JWKS endpoint.
type StaticKeyProvider struct {
	Keys map[string]*rsa.PublicKey
}

func (s StaticKeyProvider) Key(_ context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := s.Keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %q", ErrKeyNotFound, kid)
}
