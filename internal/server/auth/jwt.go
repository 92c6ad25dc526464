// Package auth issues and validates session tokens: signed, self-contained
// bearer credentials handed out after a successful login. Validity is purely
// computational (signature plus expiry), no store lookup is involved.
package auth

import (
	"errors"
	"time"

	"github.com/antonvlsk/verimail/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered JWT claims plus the account ID the session
// was issued for.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string
}

// GenerateToken signs a session token for accountID with the given HMAC
// secret, valid from now until now+validityDuration.
func GenerateToken(accountID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetAccountIDFromToken validates tokenString against the secret and returns
// the embedded account ID. An expired token yields common.ErrSessionExpired;
// any other defect (bad signature, malformed payload, wrong algorithm)
// yields common.ErrInvalidSession.
func GetAccountIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidSession
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrSessionExpired
		}
		return "", common.ErrInvalidSession
	}

	if !token.Valid {
		return "", common.ErrInvalidSession
	}

	return claims.AccountID, nil
}
