package identity

import (
	"fmt"

	"community-chat/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// JWTProvider resolves HMAC-signed tokens minted by the platform's auth
// service. Claims: sub (user id), name, avatar, role, owner, disabled.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) Resolve(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	id := &Identity{
		UserID: sub,
		Role:   domain.RoleStudent,
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if avatar, ok := claims["avatar"].(string); ok {
		id.Avatar = avatar
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		id.Role = domain.Role(role)
	}
	if owner, ok := claims["owner"].(bool); ok {
		id.SystemOwner = owner
	}
	if disabled, ok := claims["disabled"].(bool); ok && disabled {
		return nil, ErrAccountDisabled
	}

	return id, nil
}
