package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	errNoKeyID        = errors.New("auth: token header lacks a key id")
	errAlgNotAccepted = errors.New("auth: signing algorithm not accepted")
)

// Verifier turns a raw Authorization header plus a required permission into
// a Decision. It is safe for concurrent use; every check is self-contained
// given the header, the permission, the configured issuer and audience, and
// a key lookup.
type Verifier struct {
	issuer     string
	audience   string
	algorithms []string
	keys       KeyProvider
	clock      func() time.Time
	log        logrus.FieldLogger
}

// VerifierOpt configures a Verifier.
type VerifierOpt func(*Verifier)

// WithAlgorithms overrides the accepted signing algorithms. Only asymmetric
// RSA-class algorithms are honored; anything else is ignored so that a
// misconfiguration can never open the door to HMAC or unsigned tokens.
func WithAlgorithms(algs ...string) VerifierOpt {
	return func(v *Verifier) {
		kept := make([]string, 0, len(algs))
		for _, a := range algs {
			if _, ok := jwt.GetSigningMethod(a).(*jwt.SigningMethodRSA); ok {
				kept = append(kept, a)
			}
		}
		if len(kept) > 0 {
			v.algorithms = kept
		}
	}
}

// WithClock injects the time reference used for expiry checks.
func WithClock(clock func() time.Time) VerifierOpt {
	return func(v *Verifier) { v.clock = clock }
}

// WithLogger sets the decision logger.
func WithLogger(log logrus.FieldLogger) VerifierOpt {
	return func(v *Verifier) { v.log = log }
}

// NewVerifier builds a Verifier trusting tokens from issuer, addressed to
// audience, and signed with a key served by keys. The default accepted
// algorithms are RS256, RS384, and RS512.
func NewVerifier(issuer, audience string, keys KeyProvider, opts ...VerifierOpt) *Verifier {
	v := &Verifier{
		issuer:     issuer,
		audience:   audience,
		algorithms: []string{"RS256", "RS384", "RS512"},
		keys:       keys,
		clock:      time.Now,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Authorize checks the Authorization header value against a required
// permission. The chain is linear and terminal on first failure: header
// extraction, token decode, algorithm gate, key lookup, signature
// verification, claim validation, permission check. An empty required
// permission demands a valid token but no particular grant.
//
// Given the same header, permission, key set, and clock reading the decision
// is deterministic; only the key lookup touches the network.
func (v *Verifier) Authorize(ctx context.Context, header, required string) Decision {
	raw, reason := bearerToken(header)
	if reason != ReasonValid {
		return deny(reason, nil)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, v.keyFunc(ctx),
		jwt.WithValidMethods(v.algorithms),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock),
	)
	if err != nil {
		d := denyFromParseError(err, claims)
		v.log.WithError(err).WithField("reason", d.Reason).Debug("token rejected")
		return d
	}
	if !token.Valid {
		return deny(ReasonInvalidSignature, errors.New("auth: token did not validate"))
	}

	if claims.Permissions == nil {
		// Present-but-empty means no grants; absent means the issuer never
		// attached an RBAC payload at all. Only the latter lands here.
		return Decision{
			Reason: ReasonMissingPermissions,
			Claims: claims,
			Err:    errors.New("auth: token carries no permissions claim"),
		}
	}
	if required != "" && !claims.PermissionSet().Has(required) {
		return Decision{
			Reason: ReasonInsufficientPermission,
			Claims: claims,
			Err:    fmt.Errorf("auth: permission %q not granted", required),
		}
	}
	return allow(claims)
}

// keyFunc resolves the verification key for a parsed token. The parser has
// already enforced the accepted-algorithms list by the time this runs; the
// method assertion here keeps the provider from ever being asked to serve a
// key for a non-RSA scheme.
func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("%w: %v", errAlgNotAccepted, t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errNoKeyID
		}
		return v.keys.Key(ctx, kid)
	}
}

// bearerToken extracts the token from an Authorization header value. The
// header must be exactly two parts separated by a single space, the first
// equal to "bearer" case-insensitively. Runs of whitespace, tabs, and an
// empty token all read as malformed.
func bearerToken(header string) (string, Reason) {
	if header == "" {
		return "", ReasonMissingHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[1] == "" || !strings.EqualFold(parts[0], "bearer") {
		return "", ReasonMalformedHeader
	}
	return parts[1], ReasonValid
}

// denyFromParseError maps a parse/verification error onto the decision
// taxonomy. Claim failures can arrive joined, so the order here decides
// which reason wins; expiry goes first because it is the expected failure
// mode for stale tokens and callers react to it differently.
func denyFromParseError(err error, claims *Claims) Decision {
	switch {
	case errors.Is(err, errNoKeyID):
		return deny(ReasonMalformedToken, err)
	case errors.Is(err, errAlgNotAccepted):
		return deny(ReasonInvalidSignature, err)
	case errors.Is(err, ErrKeyNotFound):
		return deny(ReasonKeyNotFound, err)
	case errors.Is(err, ErrKeySetUnavailable):
		return deny(ReasonKeySetUnavailable, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return deny(ReasonMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return deny(ReasonExpired, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return denyMissingClaim(claims, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return deny(ReasonWrongIssuer, err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return deny(ReasonWrongAudience, err)
	default:
		return deny(ReasonInvalidSignature, err)
	}
}

// denyMissingClaim picks a reason for a token lacking a required claim. The
// parser raises one sentinel no matter which expected claim is absent, so
// the decoded payload tells us whether iss, aud, or exp was omitted. A token
// without an issuer or audience can never validate here; only a missing
// expiry reads as expired.
func denyMissingClaim(claims *Claims, err error) Decision {
	switch {
	case claims.Issuer == "":
		return deny(ReasonWrongIssuer, err)
	case len(claims.Audience) == 0:
		return deny(ReasonWrongAudience, err)
	default:
		return deny(ReasonExpired, err)
	}
}
