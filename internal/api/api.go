package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hypernova-labs/invoice-service/internal/models"
	"github.com/hypernova-labs/invoice-service/internal/services"
	"github.com/sirupsen/logrus"
)

// API maneja todos los endpoints de la API
type API struct {
	invoiceService *services.InvoiceService
	logger         *logrus.Logger
}

// NewAPI crea una nueva instancia de la API
func NewAPI(invoiceService *services.InvoiceService, logger *logrus.Logger) *API {
	return &API{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// ListInvoices obtiene todas las facturas
func (api *API) ListInvoices(c *gin.Context) {
	invoices, err := api.invoiceService.List()
	if err != nil {
		api.logger.WithError(err).Error("Error listing invoices")
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Status: "success",
		List:   invoices,
	})
}

// CreateInvoice crea una nueva factura
func (api *API) CreateInvoice(c *gin.Context) {
	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.logger.WithError(err).Error("Error binding create invoice request")
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	if err := api.invoiceService.Create(&req); err != nil {
		api.logger.WithError(err).Error("Error creating invoice")
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.StatusResponse{Status: "success"})
}

// GetInvoice obtiene una factura por id
func (api *API) GetInvoice(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	invoice, err := api.invoiceService.Get(id)
	if err != nil {
		if !errors.Is(err, models.ErrInvoiceNotFound) {
			api.logger.WithError(err).Error("Error getting invoice")
		}
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.InvoiceResponse{
		Status:  "success",
		Invoice: invoice,
	})
}

// UpdateInvoice reemplaza todos los campos de una factura existente
func (api *API) UpdateInvoice(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	var req models.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.logger.WithError(err).Error("Error binding update invoice request")
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid request format", []models.ErrorDetail{
			{Field: "body", Issue: err.Error()},
		}))
		return
	}

	if err := api.invoiceService.Update(id, &req); err != nil {
		api.logger.WithError(err).Error("Error updating invoice")
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// DeleteInvoice elimina una factura por id
func (api *API) DeleteInvoice(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	if err := api.invoiceService.Delete(id); err != nil {
		api.logger.WithError(err).Error("Error deleting invoice")
		api.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

// GetInvoicePDF genera y descarga el PDF de una factura
func (api *API) GetInvoicePDF(c *gin.Context) {
	id, ok := api.parseID(c)
	if !ok {
		return
	}

	pdfData, err := api.invoiceService.RenderPDF(id)
	if err != nil {
		if !errors.Is(err, models.ErrInvoiceNotFound) {
			api.logger.WithError(err).Error("Error rendering invoice PDF")
		}
		api.writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=invoice-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdfData)
}

// parseID valida el parámetro :id de la ruta
func (api *API) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewValidationError("Invalid invoice ID", []models.ErrorDetail{
			{Field: "id", Issue: "Must be a valid UUID"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

// writeError traduce errores internos a la respuesta estructurada. El error
// crudo del driver nunca viaja al cliente.
func (api *API) writeError(c *gin.Context, err error) {
	var storeErr *models.StoreError

	switch {
	case errors.Is(err, models.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, models.NewNotFoundError("Invoice not found"))
	case errors.Is(err, models.ErrCorruptLines):
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrorCodeCorruptData, "Stored invoice lines are corrupt"))
	case errors.Is(err, models.ErrInvalidTransport):
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrorCodeInvalidTransport, "Stored transport value is not numeric"))
	case errors.As(err, &storeErr):
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrorCodeStoreError, "Error accessing invoice store"))
	default:
		c.JSON(http.StatusInternalServerError, models.NewInternalError("Internal server error"))
	}
}
