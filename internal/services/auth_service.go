package services

import (
	"fmt"
	"log"
	"time"

	"carmarket/internal/models"

	"github.com/dgrijalva/jwt-go"
)

// AuthService handles signup, login and JWT issuance on top of the
// UserService. It is the session collaborator the listing routes rely on
// for the acting user's identity.
type AuthService struct {
	users     *UserService
	jwtSecret []byte
	tokenTTL  time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserService, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour, // Token valid for 24 hours
	}
}

// Register creates a new user with a hashed password. The email is
// pre-checked for uniqueness; a concurrent signup that slips past the
// pre-check still surfaces as ErrEmailTaken from the save.
func (s *AuthService) Register(name, email, password string) (*models.User, error) {
	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{Name: name, Email: email}
	if err := s.users.SetPassword(user, password); err != nil {
		return nil, err
	}
	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns a JWT token on success. Unknown
// email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", fmt.Errorf("failed to look up email: %w", err)
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenTTL).Unix(), // Token expiration time
		"iat":     time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
