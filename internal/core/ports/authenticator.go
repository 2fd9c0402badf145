package ports

import (
	"fooddelivery/internal/core/domain/model/actor"
)

// Authenticator resolves a bearer token to the actor behind it.
type Authenticator interface {
	Authenticate(token string) (actor.Actor, error)
}
