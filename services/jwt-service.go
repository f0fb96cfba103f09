package services

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"workboard-service/models"
)

// JWTService signs and verifies session tokens.
type JWTService struct{}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateSessionToken creates an HS256 token carrying the username and role.
func (s *JWTService) GenerateSessionToken(username string, role models.UserRole) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"role":     string(role),
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// VerifySessionToken parses the token and returns the username claim.
func (s *JWTService) VerifySessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session token: %w", models.ErrValidation)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims: %w", models.ErrValidation)
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", fmt.Errorf("token missing username claim: %w", models.ErrValidation)
	}
	return username, nil
}
