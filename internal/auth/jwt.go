package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is stamped into every token and required during validation.
const Issuer = "frontera"

// TokenTTL is how long a session token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned when a token fails signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the signed-in account a token vouches for.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Claims carries the identity plus the registered JWT claims. The JTI is a
// fresh UUID per token so individual sessions can be revoked.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// NewToken signs a session token for the given identity.
func NewToken(secret string, id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

var parser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithIssuer(Issuer),
	jwt.WithExpirationRequired(),
)

// ParseToken validates a signed token and returns its claims.
func ParseToken(secret, raw string) (*Claims, error) {
	token, err := parser.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
