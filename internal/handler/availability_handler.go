package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/rotaworks/rota-api/internal/service"
	appErrors "github.com/rotaworks/rota-api/pkg/errors"
	"github.com/rotaworks/rota-api/pkg/response"
)

// AvailabilityHandler wires the spreadsheet upload endpoint.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler creates a new handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Upload godoc
// @Summary Upload availability workbook
// @Description Parse a weekly rota workbook and apply the extracted windows to workers
// @Tags Availability
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook (.xlsx)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/upload [post]
func (h *AvailabilityHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.ErrNoFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadWorkbook.Code, appErrors.ErrBadWorkbook.Status, appErrors.ErrBadWorkbook.Message))
		return
	}
	defer workbook.Close() //nolint:errcheck

	summary, err := h.service.Ingest(c.Request.Context(), workbook)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}
