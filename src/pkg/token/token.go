package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of actor roles. Anything else is rejected at the
// gate, never re-checked ad hoc per handler.
type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidRole  = errors.New("invalid role claim")
)

// ParseRole validates a raw role string against the closed enum.
func ParseRole(in string) (Role, error) {
	role := Role(in)
	if role == RolePassenger || role == RoleDriver {
		return role, nil
	}
	return "", ErrInvalidRole
}

// Claim is the bearer identity: who the caller is and which role they act as.
type Claim struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// Sign issues an HS256 token for the given identity.
func Sign(userID, fullName string, role Role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claim := &Claim{
		UserID:   userID,
		FullName: fullName,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ride-service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString([]byte(secret))
}

// Parse verifies signature and expiry and validates the role claim. The rest
// of the service trusts the returned Claim completely.
func Parse(tokenString, secret string) (*Claim, error) {
	claim := &Claim{}
	parsed, err := jwt.ParseWithClaims(tokenString, claim, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := ParseRole(string(claim.Role)); err != nil {
		return nil, err
	}
	if claim.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claim, nil
}
