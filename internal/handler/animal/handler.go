package animal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/vetclinic-api/internal/handler"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/service/animal"
	"github.com/jwalitptl/vetclinic-api/internal/service/history"
)

type Handler struct {
	service *animal.Service
	history *history.Service
}

func NewHandler(service *animal.Service, history *history.Service) *Handler {
	return &Handler{service: service, history: history}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	animals := r.Group("/animals")
	{
		animals.POST("", h.CreateAnimal)
		animals.GET("", h.ListAnimals)
		animals.GET("/:id", h.GetAnimal)
		animals.GET("/:id/history", h.GetAnimalHistory)
		animals.PUT("/:id", h.UpdateAnimal)
		animals.DELETE("/:id", h.DeleteAnimal)
	}
}

func (h *Handler) CreateAnimal(c *gin.Context) {
	var req model.CreateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithBindError(c, err)
		return
	}

	a, err := h.service.CreateAnimal(c.Request.Context(), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAnimals(c *gin.Context) {
	animals, err := h.service.ListAnimals(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, animals)
}

func (h *Handler) GetAnimal(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetAnimal(c.Request.Context(), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

func (h *Handler) GetAnimalHistory(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	hist, err := h.history.GetAnimalHistory(c.Request.Context(), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, hist)
}

func (h *Handler) UpdateAnimal(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithBindError(c, err)
		return
	}

	a, err := h.service.UpdateAnimal(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, a)
}

func (h *Handler) DeleteAnimal(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAnimal(c.Request.Context(), id); err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
