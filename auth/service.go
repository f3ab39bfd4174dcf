package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/youngamerican68/Property-Perfect/config"
	"github.com/youngamerican68/Property-Perfect/models"
	"github.com/youngamerican68/Property-Perfect/store"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// SignToken issues an HS256 JWT for the user. The email claim travels with
// the token so a user row can be created lazily on first use.
func SignToken(userID uint, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", userID),
		"email": email,
		"exp":   time.Now().Add(tokenDuration).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

// ParseToken validates a bearer token and returns the user id and email.
func ParseToken(tokenStr string) (uint, string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, "", ErrInvalidToken
	}
	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil || userID == 0 {
		return 0, "", ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	return userID, email, nil
}

// ValidateUserCredentials checks an email/password pair against the store.
func ValidateUserCredentials(s store.Store, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil // user not found
		}
		return nil, err
	}

	if !CheckPasswordHash(password, user.Password) {
		return nil, nil // invalid password
	}

	return user, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(hashed), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
