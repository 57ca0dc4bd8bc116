// Package identity adapts the platform's external identity and role
// provider to the narrow surface the realtime core needs: resolve a
// connection credential to a user id, role and account status.
package identity

import (
	"errors"

	"community-chat/internal/domain"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrAccountDisabled = errors.New("account disabled")
)

type Identity struct {
	UserID      string
	Name        string
	Avatar      string
	Role        domain.Role
	SystemOwner bool
	Disabled    bool
}

type Provider interface {
	Resolve(token string) (*Identity, error)
}

func (i *Identity) Actor() domain.Actor {
	return domain.Actor{
		UserID:        i.UserID,
		Name:          i.Name,
		Role:          i.Role,
		IsSystemOwner: i.SystemOwner,
	}
}
