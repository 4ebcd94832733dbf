// Package authz decides whether an actor may perform an operation.
package authz

import (
	"github.com/jwalitptl/vetclinic-api/internal/model"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

// Require permits the actor when its role is one of allowed.
func Require(actor *model.Actor, message string, allowed ...model.Role) error {
	if actor == nil {
		return apperrors.Unauthorized("authentication required", nil)
	}
	for _, role := range allowed {
		if actor.Role == role {
			return nil
		}
	}
	return apperrors.Forbidden(message)
}

// RequireSelf permits the actor only when it is the given user.
func RequireSelf(actor *model.Actor, userID int64, message string) error {
	if actor == nil {
		return apperrors.Unauthorized("authentication required", nil)
	}
	if actor.ID != userID {
		return apperrors.Forbidden(message)
	}
	return nil
}

// Authenticated permits any authenticated actor.
func Authenticated(actor *model.Actor) error {
	if actor == nil {
		return apperrors.Unauthorized("authentication required", nil)
	}
	return nil
}
