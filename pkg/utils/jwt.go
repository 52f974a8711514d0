package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// UserContext is the identity of the calling actor, decoded from a
// bearer token issued by the platform identity service.
type UserContext struct {
	UserID uint
	Role   string
	Email  string
}

func (u UserContext) IsAdmin() bool {
	return u.Role == "admin"
}

// GenerateToken signs a token carrying the user's id, role and email.
// The service itself never issues tokens to callers; this exists for
// tooling and tests.
func GenerateToken(userID uint, role, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"email":   email,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// ParseToken validates an HS256 token and extracts the caller identity.
// Expired and malformed tokens are distinguished only by the returned
// error; both are authentication failures to the caller.
func ParseToken(tokenString string) (UserContext, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return UserContext{}, ErrTokenExpired
		}
		return UserContext{}, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return UserContext{}, ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return UserContext{}, ErrTokenInvalid
	}

	user := UserContext{UserID: uint(userID), Role: "customer"}
	if role, ok := claims["role"].(string); ok && role != "" {
		user.Role = role
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}

	return user, nil
}
