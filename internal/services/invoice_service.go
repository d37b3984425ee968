package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/invoice-service/internal/database"
	"github.com/hypernova-labs/invoice-service/internal/models"
	"github.com/sirupsen/logrus"
)

// listCacheKey es la clave bajo la que se cachea el listado completo
const listCacheKey = "invoices:list"

// InvoiceService maneja la lógica de negocio para facturas. La caché es
// opcional: si Redis no está disponible todas las lecturas van directas al
// repositorio y los fallos de caché se registran sin afectar la respuesta.
type InvoiceService struct {
	invoiceRepo       *database.InvoiceRepository
	cache             *database.Redis
	cacheTTL          time.Duration
	documentGenerator *DocumentGenerator
	logger            *logrus.Logger
}

// NewInvoiceService crea una nueva instancia del servicio
func NewInvoiceService(db *database.DB, cache *database.Redis, cacheTTL time.Duration, logger *logrus.Logger) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:       database.NewInvoiceRepository(db, logger),
		cache:             cache,
		cacheTTL:          cacheTTL,
		documentGenerator: NewDocumentGenerator(logger),
		logger:            logger,
	}
}

// List obtiene todas las facturas, sirviendo desde caché cuando es posible
func (s *InvoiceService) List() ([]models.Invoice, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(listCacheKey); err == nil {
			var invoices []models.Invoice
			if err := json.Unmarshal([]byte(cached), &invoices); err == nil {
				return invoices, nil
			}
			// Entrada ilegible: se descarta y se vuelve al repositorio
			if err := s.cache.Delete(listCacheKey); err != nil {
				s.logger.WithError(err).Warn("Error evicting unreadable cache entry")
			}
		}
	}

	invoices, err := s.invoiceRepo.ListAll()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(invoices); err == nil {
			if err := s.cache.SetWithTTL(listCacheKey, data, s.cacheTTL); err != nil {
				s.logger.WithError(err).Warn("Error caching invoice list")
			}
		}
	}

	return invoices, nil
}

// Get obtiene una factura por id
func (s *InvoiceService) Get(id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(id)
}

// Create persiste una nueva factura e invalida la caché del listado
func (s *InvoiceService) Create(req *models.InvoiceRequest) error {
	id, err := s.invoiceRepo.Create(req.ToInvoice())
	if err != nil {
		return err
	}

	s.invalidateListCache()
	s.logger.WithField("invoice_id", id).Info("Invoice created")

	return nil
}

// Update reemplaza todos los campos de la factura con el id dado
func (s *InvoiceService) Update(id uuid.UUID, req *models.InvoiceRequest) error {
	if err := s.invoiceRepo.Update(id, req.ToInvoice()); err != nil {
		return err
	}

	s.invalidateListCache()
	s.logger.WithField("invoice_id", id).Info("Invoice updated")

	return nil
}

// Delete elimina la factura con el id dado
func (s *InvoiceService) Delete(id uuid.UUID) error {
	if err := s.invoiceRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateListCache()
	s.logger.WithField("invoice_id", id).Info("Invoice deleted")

	return nil
}

// RenderPDF genera el PDF de la factura con el id dado
func (s *InvoiceService) RenderPDF(id uuid.UUID) ([]byte, error) {
	invoice, err := s.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	return s.documentGenerator.GenerateInvoicePDF(invoice)
}

// invalidateListCache descarta el listado cacheado tras una escritura
func (s *InvoiceService) invalidateListCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(listCacheKey); err != nil {
		s.logger.WithError(err).Warn("Error invalidating invoice list cache")
	}
}
