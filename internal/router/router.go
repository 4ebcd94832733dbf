package router

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/vetclinic-api/internal/handler/prometheus"
	"github.com/jwalitptl/vetclinic-api/internal/middleware"
	"github.com/jwalitptl/vetclinic-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// PublicHandler also exposes routes that need no bearer token.
type PublicHandler interface {
	Handler
	RegisterPublicRoutes(*gin.RouterGroup)
}

type Handlers struct {
	Health        Handler
	Auth          PublicHandler
	User          Handler
	Tutor         Handler
	Animal        Handler
	Appointment   Handler
	MedicalRecord Handler
}

type RouterConfig struct {
	Mode         string
	RateLimit    middleware.RateLimiterConfig
	CORSConfig   middleware.CORSConfig
	MaxBodyBytes int64
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	metrics  *prometheus.Handler
	handlers Handlers
}

func NewRouter(auth *middleware.AuthMiddleware, metrics *prometheus.Handler, handlers Handlers, config RouterConfig) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	validator.Register()

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		metrics:  metrics,
		handlers: handlers,
	}

	maxBody := config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodySize
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.SecurityHeaders(),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(maxBody),
	)
	if metrics != nil {
		engine.Use(metrics.Middleware())
	}
	engine.Use(middleware.NewRateLimiter(config.RateLimit).RateLimit())

	return r
}

func (r *Router) Setup() {
	root := r.engine.Group("")

	// Public routes
	r.handlers.Health.RegisterRoutes(root)
	if r.metrics != nil {
		root.GET("/metrics", r.metrics.Handler())
	}
	r.handlers.Auth.RegisterPublicRoutes(root)

	// Protected routes
	protected := root.Group("")
	protected.Use(r.auth.Authenticate())
	r.handlers.Auth.RegisterRoutes(protected)
	r.handlers.User.RegisterRoutes(protected)
	r.handlers.Tutor.RegisterRoutes(protected)
	r.handlers.Animal.RegisterRoutes(protected)
	r.handlers.Appointment.RegisterRoutes(protected)
	r.handlers.MedicalRecord.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
