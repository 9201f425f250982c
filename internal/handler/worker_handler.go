package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rotaworks/rota-api/internal/service"
	appErrors "github.com/rotaworks/rota-api/pkg/errors"
	"github.com/rotaworks/rota-api/pkg/response"
)

// WorkerHandler wires HTTP endpoints to worker operations.
type WorkerHandler struct {
	service *service.WorkerService
	export  *service.ExportService
}

// NewWorkerHandler creates a new handler.
func NewWorkerHandler(svc *service.WorkerService, export *service.ExportService) *WorkerHandler {
	return &WorkerHandler{service: svc, export: export}
}

// List godoc
// @Summary List workers
// @Description Return every worker with roles and availability
// @Tags Workers
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workers, nil)
}

// Create godoc
// @Summary Create worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param payload body service.CreateWorkerRequest true "Worker payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /workers [post]
func (h *WorkerHandler) Create(c *gin.Context) {
	var req service.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid worker payload"))
		return
	}

	worker, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, worker)
}

// Update godoc
// @Summary Update worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param id path int true "Worker ID"
// @Param payload body service.UpdateWorkerRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /workers/{id} [put]
func (h *WorkerHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid worker id"))
		return
	}

	var req service.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid worker payload"))
		return
	}

	worker, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worker, nil)
}

// Delete godoc
// @Summary Delete worker
// @Tags Workers
// @Produce json
// @Param id path int true "Worker ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /workers/{id} [delete]
func (h *WorkerHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid worker id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export availability
// @Description Download the availability roster as CSV or PDF
// @Tags Workers
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /workers/export [get]
func (h *WorkerHandler) Export(c *gin.Context) {
	result, err := h.export.Availability(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
