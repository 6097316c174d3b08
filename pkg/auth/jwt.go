package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bookquest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userContextKey = "auth_user"

var ErrInvalidToken = errors.New("invalid token")

type JWTAuth struct {
	secret    []byte
	debugMode bool
}

func NewJWTAuth(secret string, debugMode bool) *JWTAuth {
	return &JWTAuth{
		secret:    []byte(secret),
		debugMode: debugMode,
	}
}

type UserClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the caller's
// identity on the request context. In debug mode a well-formed but
// unsigned token passes.
func (a *JWTAuth) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := a.ParseToken(tokenString)
		if err != nil {
			log.Info("invalid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userContextKey, claims)
		c.Next()
	}
}

func (a *JWTAuth) ParseToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}

	parser := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, parser...)
	if err != nil {
		if a.debugMode && errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return claims, nil
		}
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (a *JWTAuth) IssueToken(userID int64, username string, ttl time.Duration) (string, error) {
	claims := &UserClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// UserFromContext returns the authenticated caller set by the middleware.
func UserFromContext(c *gin.Context) (*UserClaims, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*UserClaims)
	return claims, ok
}
