package medicalrecord

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/vetclinic-api/internal/handler"
	"github.com/jwalitptl/vetclinic-api/internal/middleware"
	"github.com/jwalitptl/vetclinic-api/internal/model"
	"github.com/jwalitptl/vetclinic-api/internal/service/medical"
)

type Handler struct {
	service *medical.Service
}

func NewHandler(service *medical.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/medical-records")
	{
		records.POST("", h.CreateMedicalRecord)
		records.GET("", h.ListMedicalRecords)
		records.GET("/:id", h.GetMedicalRecord)
		records.PUT("/:id", h.UpdateMedicalRecord)
		records.DELETE("/:id", h.DeleteMedicalRecord)
	}
}

func (h *Handler) CreateMedicalRecord(c *gin.Context) {
	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithBindError(c, err)
		return
	}

	rec, err := h.service.CreateMedicalRecord(c.Request.Context(), &req, middleware.ActorFrom(c))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListMedicalRecords(c *gin.Context) {
	recs, err := h.service.ListMedicalRecords(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recs)
}

func (h *Handler) GetMedicalRecord(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	rec, err := h.service.GetMedicalRecord(c.Request.Context(), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateMedicalRecord(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithBindError(c, err)
		return
	}

	rec, err := h.service.UpdateMedicalRecord(c.Request.Context(), id, &req, middleware.ActorFrom(c))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, rec)
}

func (h *Handler) DeleteMedicalRecord(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMedicalRecord(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
