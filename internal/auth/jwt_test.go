package auth

import (
	"testing"

	"dining-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	user := &models.User{ID: 7, Email: "cashier@example.com", Role: models.RoleCashier}

	tokenStr, err := GenerateToken(secret, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse: %v valid=%v", err, token != nil && token.Valid)
	}

	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", token.Claims)
	}
	if claims.UserID != 7 || claims.Email != "cashier@example.com" || claims.Role != models.RoleCashier {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestGenerateTokenWrongSecretRejected(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleAdmin}
	tokenStr, err := GenerateToken("0123456789abcdef0123456789abcdef", user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("another-secret-another-secret-12"), nil
	})
	if err == nil && token.Valid {
		t.Fatal("token validated with the wrong secret")
	}
}
