package auth

import (
	"fmt"

	"github.com/isdelr/jobboard-be/internal/apperr"
)

// Action names a mutating operation guarded by ownership.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorize allows action only when the caller owns the resource. Role is
// not consulted.
func Authorize(identity *Identity, ownerID string, action Action) error {
	if identity == nil {
		return apperr.ErrUnauthenticated
	}
	if ownerID == "" || identity.SubjectID != ownerID {
		return apperr.New(apperr.ErrForbidden, fmt.Sprintf("You are not allowed to %s this resource", action))
	}
	return nil
}
