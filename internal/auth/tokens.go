// Package auth issues and verifies the JWT tokens used by both the API and
// the web session cookie.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer   = "quill-api"
	Audience = "quill-client"

	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour

	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the verified content of a token.
type Claims struct {
	UserID    uint
	Username  string
	JTI       string
	Type      string
	ExpiresAt time.Time
}

// Manager signs and verifies HS256 tokens with a shared secret.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Generate signs a token of the given type for the user.
func (m *Manager) Generate(userID uint, username, tokenType string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        strconv.FormatUint(uint64(userID), 10),
		"username":   username,
		"iss":        Issuer,
		"aud":        Audience,
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
		"jti":        generateJTI(),
		"token_type": tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// GeneratePair issues an access and a refresh token for the user.
func (m *Manager) GeneratePair(userID uint, username string) (access, refresh string, err error) {
	access, err = m.Generate(userID, username, TypeAccess, AccessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.Generate(userID, username, TypeRefresh, RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Parse verifies the signature, issuer and audience and returns the claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if issuer, issuerOk := mapClaims["iss"].(string); !issuerOk || issuer != Issuer {
		return nil, ErrInvalidToken
	}
	if audience, audienceOk := mapClaims["aud"].(string); !audienceOk || audience != Audience {
		return nil, ErrInvalidToken
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &Claims{UserID: uint(userID)}
	if username, ok := mapClaims["username"].(string); ok {
		claims.Username = username
	}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JTI = jti
	}
	if tokenType, ok := mapClaims["token_type"].(string); ok {
		claims.Type = tokenType
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
