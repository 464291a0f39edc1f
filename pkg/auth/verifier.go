// Package auth verifies bearer tokens and carries the authenticated
// identity through the request context.
//
// Identity is established in two stages: a Verifier checks the token
// cryptographically and yields the claimed email; the HTTP middleware then
// resolves that email against the local users table and rejects unknown or
// unapproved accounts. Handlers read the result with IdentityFromCtx.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the typed payload of a verified identity token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Token verification failure reasons. The middleware maps each to a
// distinct 401 message.
var (
	ErrTokenMalformed = errors.New("auth: malformed token")
	ErrTokenExpired   = errors.New("auth: token expired")
	ErrTokenInvalid   = errors.New("auth: invalid token")
)

// Local-account gate failure reasons, returned by identity lookups.
// Both map to 403: the token was genuine but the account may not act.
var (
	ErrUserNotFound    = errors.New("auth: user not found")
	ErrUserNotApproved = errors.New("auth: user not approved")
)

// Verifier checks a raw bearer token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// HMACVerifier verifies HS256-signed tokens with a shared secret. It also
// issues tokens, which the dev-mode /auth/token endpoint uses in place of
// the external identity provider.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token, normalising library errors into
// the package's failure reasons.
func (v *HMACVerifier) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// Issue signs a token for the given email, valid for ttl.
func (v *HMACVerifier) Issue(email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
