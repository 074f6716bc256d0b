package jwt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Service signs and verifies access tokens. It keeps no state beyond the
// shared secret, so verification never touches the database and an issued
// token cannot be revoked before its natural expiry.
type Service struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwtlib.RegisteredClaims
}

func New(secret, issuer, audience string, ttl time.Duration) *Service {
	return &Service{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// TTL returns the configured access token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Generate issues a signed access token carrying the user's id as subject,
// the username, one role claim per assigned role and a fresh JTI.
func (s *Service) Generate(userID int64, username string, roles []string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Audience:  jwtlib.ClaimStrings{s.audience},
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks the signature, expiry, issuer and audience of a token and
// returns its claims.
func (s *Service) Validate(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(s.issuer),
		jwtlib.WithAudience(s.audience),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// NewRefreshToken generates an opaque random refresh token with 256 bits of
// entropy. It is unrelated to the signing scheme above and carries no user
// identity.
func NewRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken derives the value stored in the refresh token ledger. The raw
// token never reaches the database.
func HashToken(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}

// UserID parses the subject claim back into the numeric user id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
