package tutor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/vetclinic-api/internal/handler"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/service/tutor"
)

type Handler struct {
	service *tutor.Service
}

func NewHandler(service *tutor.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	tutors := r.Group("/tutors")
	{
		tutors.POST("", h.CreateTutor)
		tutors.GET("", h.ListTutors)
		tutors.GET("/:id", h.GetTutor)
		tutors.GET("/:id/animals", h.GetTutorAnimals)
		tutors.PUT("/:id", h.UpdateTutor)
		tutors.DELETE("/:id", h.DeleteTutor)
	}
}

func (h *Handler) CreateTutor(c *gin.Context) {
	var req model.CreateTutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithBindError(c, err)
		return
	}

	t, err := h.service.CreateTutor(c.Request.Context(), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *Handler) ListTutors(c *gin.Context) {
	tutors, err := h.service.ListTutors(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tutors)
}

func (h *Handler) GetTutor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetTutor(c.Request.Context(), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *Handler) GetTutorAnimals(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	t, err := h.service.GetTutorWithAnimals(c.Request.Context(), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *Handler) UpdateTutor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateTutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithBindError(c, err)
		return
	}

	t, err := h.service.UpdateTutor(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, t)
}

func (h *Handler) DeleteTutor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTutor(c.Request.Context(), id); err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
