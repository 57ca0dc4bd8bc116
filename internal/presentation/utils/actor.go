package utils

import (
	"context"
	"net/http"
	"strings"

	"community-chat/internal/domain"
	"community-chat/internal/infrastructure/identity"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor stores the resolved actor on the request context. The auth
// middleware is the only writer.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromRequest returns the authenticated actor, or false when the
// request never went through the auth middleware.
func ActorFromRequest(r *http.Request) (domain.Actor, bool) {
	actor, ok := r.Context().Value(actorKey).(domain.Actor)
	return actor, ok
}

// BearerToken extracts the credential from the Authorization header,
// falling back to the token query parameter for websocket upgrades,
// where browsers cannot set headers.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return r.URL.Query().Get("token")
}

// ResolveActor resolves the request credential through the identity
// provider.
func ResolveActor(r *http.Request, provider identity.Provider) (domain.Actor, error) {
	id, err := provider.Resolve(BearerToken(r))
	if err != nil {
		return domain.Actor{}, err
	}

	return id.Actor(), nil
}
