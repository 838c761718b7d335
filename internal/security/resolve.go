package security

import "strings"

// CredentialSource is the minimal slice of an HTTP request the resolver
// needs. Handlers adapt their framework's request type to it, keeping the
// resolution rules framework independent.
type CredentialSource interface {
	Header(name string) string
	Cookie(name string) string
}

const AccessTokenCookie = "access_token"

type ResolutionKind int

const (
	// ResolvedAnonymous means the request carried no credential at all.
	// That is a valid outcome; downstream authorization decides whether
	// anonymous access is allowed.
	ResolvedAnonymous ResolutionKind = iota
	ResolvedIdentity
	// ResolvedInvalid means a credential was presented but failed
	// validation. The request must be rejected, not downgraded to
	// anonymous.
	ResolvedInvalid
)

type Resolution struct {
	Kind   ResolutionKind
	UserID string
}

// ResolveIdentity inspects the Authorization header first and the
// access-token cookie second. A bearer header, even a broken one, takes
// precedence over any cookie.
func ResolveIdentity(src CredentialSource, secret string) Resolution {
	if header := src.Header("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return Resolution{Kind: ResolvedInvalid}
		}
		return resolveToken(strings.TrimPrefix(header, "Bearer "), secret)
	}

	if cookie := src.Cookie(AccessTokenCookie); cookie != "" {
		return resolveToken(cookie, secret)
	}

	return Resolution{Kind: ResolvedAnonymous}
}

func resolveToken(tokenStr string, secret string) Resolution {
	claims, err := ParseToken(tokenStr, secret, TokenKindAccess)
	if err != nil {
		return Resolution{Kind: ResolvedInvalid}
	}
	return Resolution{Kind: ResolvedIdentity, UserID: claims.Subject}
}
