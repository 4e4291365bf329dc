// Package auth verifies RBAC bearer tokens against a remote signing key set
// and turns them into authorization decisions.
//
// The package has two pieces: a key provider that fetches and caches the
// issuer's published JWKS, and a Verifier that validates a bearer token's
// signature and claims against that key set and checks the token's
// permissions claim for a required permission. Neither piece knows about
// routes or records; the transport layer maps decisions to status codes.
package auth

// Reason identifies the outcome of one authorization check. Every failing
// check is terminal: retrying with the same inputs cannot change the result,
// except for ReasonKeySetUnavailable which indicates a transient fetch
// failure.
type Reason string

const (
	ReasonValid                  Reason = "valid"
	ReasonMissingHeader          Reason = "missing_header"
	ReasonMalformedHeader        Reason = "malformed_header"
	ReasonMalformedToken         Reason = "malformed_token"
	ReasonKeyNotFound            Reason = "key_not_found"
	ReasonKeySetUnavailable      Reason = "keyset_unavailable"
	ReasonInvalidSignature       Reason = "invalid_signature"
	ReasonExpired                Reason = "expired"
	ReasonWrongIssuer            Reason = "wrong_issuer"
	ReasonWrongAudience          Reason = "wrong_audience"
	ReasonMissingPermissions     Reason = "missing_permissions"
	ReasonInsufficientPermission Reason = "insufficient_permission"
)

// Class groups reasons by the transport-level response they call for, so the
// route layer can pick a status code without the core naming any.
type Class int

const (
	// ClassAllowed: the check passed.
	ClassAllowed Class = iota
	// ClassUnauthenticated: no usable credential was presented.
	ClassUnauthenticated
	// ClassForbidden: the credential is valid but lacks the permission.
	ClassForbidden
	// ClassMisconfigured: the issuer minted a token without any permissions
	// claim; RBAC was never enabled for this token regardless of role.
	ClassMisconfigured
	// ClassUnavailable: the key set could not be fetched. The one class a
	// caller may reasonably retry.
	ClassUnavailable
)

// Class maps a reason to its transport class.
func (r Reason) Class() Class {
	switch r {
	case ReasonValid:
		return ClassAllowed
	case ReasonInsufficientPermission:
		return ClassForbidden
	case ReasonMissingPermissions:
		return ClassMisconfigured
	case ReasonKeySetUnavailable:
		return ClassUnavailable
	default:
		return ClassUnauthenticated
	}
}

// Retryable reports whether the same check could succeed on retry.
func (r Reason) Retryable() bool { return r == ReasonKeySetUnavailable }

// Message returns a short human-readable description for error envelopes.
func (r Reason) Message() string {
	switch r {
	case ReasonValid:
		return "authorized"
	case ReasonMissingHeader:
		return "authorization header is expected"
	case ReasonMalformedHeader:
		return "authorization header must be a bearer token"
	case ReasonMalformedToken:
		return "token could not be parsed"
	case ReasonKeyNotFound:
		return "token signed with an unknown key"
	case ReasonKeySetUnavailable:
		return "signing keys are temporarily unavailable"
	case ReasonInvalidSignature:
		return "token signature could not be verified"
	case ReasonExpired:
		return "token is expired"
	case ReasonWrongIssuer:
		return "token was issued by an untrusted party"
	case ReasonWrongAudience:
		return "token is not intended for this service"
	case ReasonMissingPermissions:
		return "permissions not included in token"
	case ReasonInsufficientPermission:
		return "permission not found"
	default:
		return string(r)
	}
}

// Decision is the result of one authorization check. Allowed is true only
// when the token's signature verified, all mandatory claims validated, and
// the required permission is present in the token's permission set.
type Decision struct {
	Allowed bool
	Reason  Reason
	// Claims carries the verified token payload. Nil unless the token passed
	// signature and claim validation (it is set for permission failures).
	Claims *Claims
	// Err is the underlying cause, for logging. Never shown to clients.
	Err error
}

func allow(claims *Claims) Decision {
	return Decision{Allowed: true, Reason: ReasonValid, Claims: claims}
}

func deny(reason Reason, err error) Decision {
	return Decision{Reason: reason, Err: err}
}
