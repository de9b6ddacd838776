// Package credentials is the persistent store for the session token and user
// record. It survives process restarts and is the single piece of state
// shared between the transport (read on every request, evict on 401) and the
// session lifecycle manager (read/write).
package credentials

import (
	"context"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
)

// Store keys. These are the only two keys the client persists.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Repository is a small k/v store plus session-shaped helpers. Get returns
// (nil, nil) for a missing key. SaveSession and ClearSession write/remove the
// token and user atomically so the store never holds exactly one of them.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error

	Token(ctx context.Context) (string, error)
	SaveSession(ctx context.Context, token string, user *models.User) error
	ClearSession(ctx context.Context) error
}
