package middleware

import (
	"fmt"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/opsdesk/aws-agent/config"
	"github.com/opsdesk/aws-agent/utils"
)

// AuthMiddleware guards the chat endpoint with an optional static API key or
// HS256 bearer token. When neither is configured the middleware is a no-op.
type AuthMiddleware struct {
	apiKey    string
	jwtSecret []byte
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware from the auth configuration
func NewAuthMiddleware(cfg config.AuthConfig, logger *zap.Logger) *AuthMiddleware {
	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	}
	return &AuthMiddleware{
		apiKey:    cfg.APIKey,
		jwtSecret: secret,
		logger:    logger,
	}
}

// Enabled reports whether any authentication scheme is configured
func (m *AuthMiddleware) Enabled() bool {
	return m.apiKey != "" || len(m.jwtSecret) > 0
}

// RequireAuth accepts the request when it carries the configured API key in
// the X-API-Key header, or a bearer token signed with the configured secret.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		if m.apiKey != "" && r.Header.Get("X-API-Key") == m.apiKey {
			next.ServeHTTP(w, r)
			return
		}

		if len(m.jwtSecret) > 0 {
			token := extractBearerToken(r)
			if token != "" {
				claims, err := m.validateToken(token)
				if err == nil {
					ctx = WithClaims(ctx, claims)
					m.logger.Debug("authentication successful",
						zap.String("request_id", requestID),
						zap.String("sub", claims.Sub))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				m.logger.Warn("token validation failed",
					zap.String("request_id", requestID),
					zap.Error(err))
				_ = utils.WriteUnauthorized(w, "Invalid or expired token")
				return
			}
		}

		m.logger.Warn("missing credentials",
			zap.String("request_id", requestID))
		_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
	})
}

// validateToken parses and verifies an HS256 token against the shared secret
func (m *AuthMiddleware) validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	claims := &Claims{}
	if sub, err := mapClaims.GetSubject(); err == nil {
		claims.Sub = sub
	}
	if iss, err := mapClaims.GetIssuer(); err == nil {
		claims.Iss = iss
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.Exp = exp.Unix()
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.Iat = iat.Unix()
	}
	return claims, nil
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
