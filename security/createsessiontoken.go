package security

import (
	"encoding/base64"
	"time"

	"bluemark.com/bluemark/core/attendance"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the claim set describing the logged-in user.
type Identity struct {
	ID         string `json:"nameid"`
	UniqueName string `json:"unique_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Avatar     string `json:"avatar"`
}

type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

// CreateSessionToken mints the HS256 session token handed out at login.
func CreateSessionToken(user attendance.User, base64Secret string, expiresInSeconds int64) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return "", err
	}
	claims := IdentityClaims{
		Identity: Identity{
			ID:         user.ID,
			UniqueName: user.Name,
			Email:      user.Email,
			Role:       string(user.Role),
			Department: user.Department,
			Avatar:     user.Avatar,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bluemark",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiresInSeconds) * time.Second)),
		},
	}

	// Use HS256 signing method (symmetric key)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretBytes)
}

// UserFromClaims rebuilds the canonical user from parsed token claims.
func UserFromClaims(claims jwt.MapClaims) attendance.User {
	str := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}

	role := attendance.RoleEmployee
	if str("role") == string(attendance.RoleAdmin) {
		role = attendance.RoleAdmin
	}

	return attendance.User{
		ID:         str("nameid"),
		Name:       str("unique_name"),
		Email:      str("email"),
		Role:       role,
		Department: str("department"),
		Avatar:     str("avatar"),
	}
}
