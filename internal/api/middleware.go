package api

import (
	"alcyxob/recipe-app/internal/config"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// ContextOwnerIDKey holds the authenticated caller's subject.
const ContextOwnerIDKey = "ownerID"

// ErrUnauthenticated is reported for any missing or unusable credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// TokenVerifier checks bearer tokens issued by the external identity provider
// and extracts the caller's identity.
type TokenVerifier struct {
	key      interface{}
	methods  []string
	issuer   string
	audience string
}

// NewTokenVerifier trusts the provider's RS256 public key when configured,
// otherwise an HS256 shared secret.
func NewTokenVerifier(cfg config.AuthConfig) (*TokenVerifier, error) {
	v := &TokenVerifier{issuer: cfg.Issuer, audience: cfg.Audience}
	switch {
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse auth public key: %w", err)
		}
		v.key = key
		v.methods = []string{jwt.SigningMethodRS256.Alg()}
	case cfg.Secret != "":
		v.key = []byte(cfg.Secret)
		v.methods = []string{jwt.SigningMethodHS256.Alg()}
	default:
		return nil, errors.New("no token verification key configured")
	}
	return v, nil
}

// OwnerID validates tokenString and returns its subject.
func (v *TokenVerifier) OwnerID(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	}, jwt.WithValidMethods(v.methods))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: missing claims", ErrUnauthenticated)
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer", ErrUnauthenticated)
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return "", fmt.Errorf("%w: unexpected audience", ErrUnauthenticated)
	}
	return claims.Subject, nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller's id in the context for downstream handlers.
func AuthMiddleware(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			respondError(c, ErrUnauthenticated)
			return
		}

		ownerID, err := verifier.OwnerID(strings.TrimSpace(parts[1]))
		if err != nil {
			slog.Debug("rejected bearer token", "path", c.FullPath(), "err", err)
			respondError(c, ErrUnauthenticated)
			return
		}

		c.Set(ContextOwnerIDKey, ownerID)
		c.Next()
	}
}

// Helper function to get the owner id from context (used by handlers)
func getOwnerIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextOwnerIDKey)
	if !exists {
		return "", ErrUnauthenticated
	}
	id, ok := idRaw.(string)
	if !ok || id == "" {
		return "", ErrUnauthenticated
	}
	return id, nil
}

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
