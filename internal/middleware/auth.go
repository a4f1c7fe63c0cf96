package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
	"github.com/spf13/viper"
)

type contextKey string

const (
	actorKey = contextKey("actor")
	tokenKey = contextKey("token")
)

type tokenInfo struct {
	raw       string
	expiresAt time.Time
}

// ActorResolver looks up the current identity behind a token subject.
type ActorResolver interface {
	ResolveActor(ctx context.Context, id string) (services.Actor, error)
}

var (
	redisClient *redis.Client
	resolver    ActorResolver
)

// InitAuthMiddleware enables token revocation checks and staff lookups. A nil
// client disables revocation; a nil resolver trusts the token's role claim.
func InitAuthMiddleware(client *redis.Client, actors ActorResolver) {
	redisClient = client
	resolver = actors
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			services.SendErrorResponse(w, "Authorization header required", http.StatusUnauthorized, nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			services.SendErrorResponse(w, "Invalid authorization header format", http.StatusUnauthorized, nil)
			return
		}

		token := parts[1]

		actor, expiresAt, err := validateToken(token)
		if err != nil {
			log.Printf("[AUTH] Rejected token: %v", err)
			services.SendErrorResponse(w, "Invalid token", http.StatusUnauthorized, nil)
			return
		}

		if revoked(r.Context(), token) {
			services.SendErrorResponse(w, "Token has been revoked", http.StatusUnauthorized, nil)
			return
		}

		if resolver != nil {
			actor, err = resolver.ResolveActor(r.Context(), actor.ID)
			if err != nil {
				log.Printf("[AUTH] Rejected token subject: %v", err)
				services.SendErrorResponse(w, "Account is not active", http.StatusUnauthorized, nil)
				return
			}
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		ctx = context.WithValue(ctx, tokenKey, tokenInfo{raw: token, expiresAt: expiresAt})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole lets through only actors holding role.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok || actor.Role != role {
				services.SendErrorResponse(w, "Forbidden", http.StatusForbidden, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ActorFrom returns the authenticated actor stored by AuthMiddleware.
func ActorFrom(ctx context.Context) (services.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(services.Actor)
	return actor, ok
}

// WithActor stores an actor in ctx.
func WithActor(ctx context.Context, actor services.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// TokenFrom returns the bearer token of the request and its expiry.
func TokenFrom(ctx context.Context) (string, time.Time) {
	info, _ := ctx.Value(tokenKey).(tokenInfo)
	return info.raw, info.expiresAt
}

func revoked(ctx context.Context, token string) bool {
	if redisClient == nil {
		return false
	}
	n, err := redisClient.Exists(ctx, fmt.Sprintf("blacklist:%s", token)).Result()
	if err != nil {
		log.Printf("[AUTH] Blacklist lookup failed: %v", err)
		return false
	}
	return n > 0
}

func validateToken(tokenString string) (services.Actor, time.Time, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(viper.GetString("jwt.secret_key")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return services.Actor{}, time.Time{}, err
	}
	if !token.Valid {
		return services.Actor{}, time.Time{}, errors.New("token is not valid")
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return services.Actor{}, time.Time{}, errors.New("token lacks user_id or role")
	}
	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	return services.Actor{ID: userID, Role: models.Role(role)}, expiresAt, nil
}
