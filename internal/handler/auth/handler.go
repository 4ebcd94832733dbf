package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/vetclinic-api/internal/handler"
	"github.com/jwalitptl/vetclinic-api/internal/middleware"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/service/auth"
	"github.com/jwalitptl/vetclinic-api/internal/service/user"
)

type Handler struct {
	svc   *auth.Service
	users *user.Service
}

func NewHandler(svc *auth.Service, users *user.Service) *Handler {
	return &Handler{svc: svc, users: users}
}

// RegisterPublicRoutes mounts the routes reachable without a token.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	a := r.Group("/auth")
	{
		a.GET("/me", h.Me)
		a.POST("/users", h.Register)
	}
}

// Login accepts either a JSON body or the username/password form used by
// OAuth2 password clients.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		handler.RespondWithBindError(c, err)
		return
	}

	tok, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tok)
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithBindError(c, err)
		return
	}

	u, err := h.users.RegisterUser(c.Request.Context(), &req, middleware.ActorFrom(c))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}
