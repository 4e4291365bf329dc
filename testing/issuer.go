// Package testing provides an in-process token issuer for tests. It runs an
// HTTP server that publishes a JWKS document and mints RS256 tokens carrying
// permissions claims, so authorization tests never need a real issuer.
//
// Example:
//
//	issuer := testing.NewIssuer()
//	defer issuer.Close()
//
//	keys, _ := auth.NewJWKSProvider(auth.JWKSProviderConfig{URL: issuer.JWKSURL()})
//	verifier := auth.NewVerifier(issuer.Issuer, issuer.Audience, keys)
//
//	token := issuer.Token("user-1", []string{"get:actors"})
package testing

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// JWK is the wire form of one RSA public signing key.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Kid string `json:"kid,omitempty"`
	Alg string `json:"alg,omitempty"`
	N   string `json:"n"` // base64url modulus
	E   string `json:"e"` // base64url exponent
}

// JWKS is a published key set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Issuer is a mock token issuer. It serves its JWKS at
// /.well-known/jwks.json and signs tokens that validate against it.
type Issuer struct {
	// Issuer is the iss claim minted into tokens. Defaults to the test
	// server's URL; override it to simulate a fixed issuer identity.
	Issuer string
	// Audience is the aud claim minted into tokens.
	Audience string

	server *httptest.Server
	key    *rsa.PrivateKey
	kid    string
}

// NewIssuer starts a mock issuer with audience "casting-agency".
func NewIssuer() *Issuer {
	return NewIssuerWithAudience("casting-agency")
}

// NewIssuerWithAudience starts a mock issuer minting the given audience.
func NewIssuerWithAudience(audience string) *Issuer {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic("testing: generate RSA key: " + err.Error())
	}
	iss := &Issuer{
		Audience: audience,
		key:      key,
		kid:      "test-key-1",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/jwks.json", iss.handleJWKS)
	iss.server = httptest.NewServer(mux)
	iss.Issuer = iss.server.URL + "/"
	return iss
}

// JWKSURL returns the URL of the served key set document.
func (i *Issuer) JWKSURL() string {
	return i.server.URL + "/.well-known/jwks.json"
}

// URL returns the base URL of the issuer server.
func (i *Issuer) URL() string { return i.server.URL }

// KeyID returns the kid of the active signing key.
func (i *Issuer) KeyID() string { return i.kid }

// PublicKey returns the active verification key.
func (i *Issuer) PublicKey() *rsa.PublicKey { return &i.key.PublicKey }

// Close shuts down the issuer server.
func (i *Issuer) Close() {
	if i.server != nil {
		i.server.Close()
	}
}

func (i *Issuer) handleJWKS(w http.ResponseWriter, r *http.Request) {
	ks := JWKS{Keys: []JWK{rsaPublicToJWK(&i.key.PublicKey, i.kid, "RS256")}}
	b, _ := json.Marshal(ks)
	sum := sha256.Sum256(b)
	etag := "\"" + hex.EncodeToString(sum[:]) + "\""
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
	w.Header().Set("ETag", etag)
	_, _ = w.Write(b)
}

// Token mints a signed token for sub carrying the given permissions,
// expiring in one hour.
func (i *Issuer) Token(sub string, permissions []string) string {
	return i.TokenWithClaims(sub, permissions, nil)
}

// TokenWithClaims mints a signed token with extra claims merged over the
// standard set (iss, aud, sub, iat, exp, permissions). Extra claims win, so
// tests can override expiry, audience, or issuer; a nil value removes the
// claim from the token entirely.
func (i *Issuer) TokenWithClaims(sub string, permissions []string, extra map[string]any) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": i.Issuer,
		"aud": i.Audience,
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if permissions != nil {
		claims["permissions"] = permissions
	}
	for k, v := range extra {
		if v == nil {
			delete(claims, k)
			continue
		}
		claims[k] = v
	}
	return i.sign(claims, i.kid)
}

// TokenWithExpiry mints a token expiring at the given time.
func (i *Issuer) TokenWithExpiry(sub string, permissions []string, expiry time.Time) string {
	return i.TokenWithClaims(sub, permissions, map[string]any{"exp": expiry.Unix()})
}

// ExpiredToken mints a token that expired an hour ago.
func (i *Issuer) ExpiredToken(sub string, permissions []string) string {
	return i.TokenWithExpiry(sub, permissions, time.Now().Add(-time.Hour))
}

// TokenWithKid mints an otherwise valid token declaring a different key id,
// for exercising unknown-key handling.
func (i *Issuer) TokenWithKid(sub string, permissions []string, kid string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": i.Issuer,
		"aud": i.Audience,
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if permissions != nil {
		claims["permissions"] = permissions
	}
	return i.sign(claims, kid)
}

func (i *Issuer) sign(claims jwt.MapClaims, kid string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(i.key)
	if err != nil {
		panic("testing: sign token: " + err.Error())
	}
	return signed
}

// rsaPublicToJWK converts an RSA public key to its JWK wire form.
func rsaPublicToJWK(pub *rsa.PublicKey, kid, alg string) JWK {
	return JWK{
		Kty: "RSA",
		Use: "sig",
		Kid: kid,
		Alg: alg,
		N:   base64URLEncode(pub.N),
		E:   base64URLEncode(big.NewInt(int64(pub.E))),
	}
}

func base64URLEncode(i *big.Int) string {
	b := i.Bytes()
	for len(b) > 0 && b[0] == 0x00 {
		b = b[1:]
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
