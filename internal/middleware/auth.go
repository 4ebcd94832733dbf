package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/vetclinic-api/internal/handler"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	apperrors "github.com/jwalitptl/vetclinic-api/pkg/errors"
)

const ContextActor = "actor"

// Authenticator resolves a bearer token to the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Actor, error)
}

type AuthMiddleware struct {
	authService Authenticator
}

func NewAuthMiddleware(authService Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and stores the actor in the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Header("WWW-Authenticate", "Bearer")
			handler.RespondWithError(c, apperrors.Unauthorized("missing authorization header", nil))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.Header("WWW-Authenticate", "Bearer")
			handler.RespondWithError(c, apperrors.Unauthorized("invalid authorization format", nil))
			return
		}

		actor, err := m.authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			handler.RespondWithError(c, err)
			return
		}

		c.Set(ContextActor, actor)
		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or nil on public routes.
func ActorFrom(c *gin.Context) *model.Actor {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil
	}
	actor, _ := v.(*model.Actor)
	return actor
}
