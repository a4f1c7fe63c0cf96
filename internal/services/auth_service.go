package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/placementdesk/backend/internal/models"
	"github.com/spf13/viper"
)

const (
	MaxLoginAttempts   = 5
	LoginAttemptWindow = 15 * time.Minute
)

type AuthService struct {
	staff     *StaffService
	redis     *redis.Client
	validator *ValidationHelper
	now       clock
}

// LoginRequest represents the login request payload
// @Description Login request structure
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"admin@example.com"` // Staff email
	Password string `json:"password" validate:"required,min=6" example:"password123"`   // Staff password
}

// AuthResponse represents the authentication response
// @Description Authentication response structure
type AuthResponse struct {
	Token     string       `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // JWT token
	ExpiresAt time.Time    `json:"expiresAt"`
	User      models.Staff `json:"user"`
}

func NewAuthService(staff *StaffService, redisClient *redis.Client) *AuthService {
	return &AuthService{
		staff:     staff,
		redis:     redisClient,
		validator: NewValidationHelper(),
		now:       time.Now,
	}
}

func tokenTTL() time.Duration {
	hours := viper.GetInt("jwt.expiry_hours")
	if hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}

// Login verifies the credentials of an active staff member and issues a token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		return AuthResponse{}, err
	}

	email := strings.ToLower(clean(req.Email))
	if err := s.checkAttempts(ctx, email); err != nil {
		return AuthResponse{}, err
	}

	member, ok := s.staff.byEmail(email)
	if !ok || !member.IsActive {
		log.Printf("[AUTH] Login refused for %s: unknown or inactive user", email)
		s.recordFailure(ctx, email)
		return AuthResponse{}, ErrInvalidCredential
	}
	if !verifyPassword(req.Password, member.PasswordHash) {
		log.Printf("[AUTH] Invalid password for user: %s", member.ID)
		s.recordFailure(ctx, email)
		return AuthResponse{}, ErrInvalidCredential
	}
	s.clearFailures(ctx, email)

	expiresAt := s.now().Add(tokenTTL())
	token, err := generateJWT(member, expiresAt)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("signing token: %w", err)
	}
	if err := s.staff.recordLogin(ctx, member.ID); err != nil {
		log.Printf("[AUTH] Failed to record login of %s: %v", member.ID, err)
	}

	log.Printf("[AUTH] Login successful for user %s", member.ID)
	return AuthResponse{Token: token, ExpiresAt: expiresAt, User: member.Public()}, nil
}

func attemptsKey(email string) string {
	return fmt.Sprintf("login:attempts:%s", email)
}

// checkAttempts refuses a login once MaxLoginAttempts failures were recorded
// within LoginAttemptWindow. Without Redis logins are not throttled.
func (s *AuthService) checkAttempts(ctx context.Context, email string) error {
	if s.redis == nil {
		return nil
	}
	count, err := s.redis.Get(ctx, attemptsKey(email)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("[AUTH] Attempt counter unavailable: %v", err)
		return nil
	}
	if count >= MaxLoginAttempts {
		log.Printf("[AUTH] Login throttled for %s", email)
		return ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}
	key := attemptsKey(email)
	pipe := s.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, LoginAttemptWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[AUTH] Failed to record login failure: %v", err)
	}
}

func (s *AuthService) clearFailures(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, attemptsKey(email)).Err(); err != nil {
		log.Printf("[AUTH] Failed to reset login failures: %v", err)
	}
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if s.redis == nil || token == "" {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if expiresAt.IsZero() {
		ttl = tokenTTL()
	}
	if ttl <= 0 {
		return nil
	}
	key := fmt.Sprintf("blacklist:%s", token)
	if err := s.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		log.Printf("[AUTH] Failed to blacklist token: %v", err)
		return err
	}
	return nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, actor Actor) (models.Staff, error) {
	return s.staff.Get(ctx, actor.ID)
}

func generateJWT(member models.Staff, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": member.ID,
		"role":    string(member.Role),
		"jti":     uuid.NewString(),
		"exp":     expiresAt.Unix(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}
