package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hypernova-labs/invoice-service/internal/database"
	"github.com/hypernova-labs/invoice-service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockService(t *testing.T) (*InvoiceService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	// Caché apagada: lecturas directas al repositorio
	return NewInvoiceService(&database.DB{DB: db}, nil, time.Minute, logger), mock
}

func sampleRequest() *models.InvoiceRequest {
	transport := 5.0
	return &models.InvoiceRequest{
		Number:     "INV-1",
		Date:       "2024-01-01",
		PaymentDue: "2024-01-15",
		Buyer: &models.Buyer{
			Company: "Acme",
			Country: "US",
			Address: "1 Rd",
			Code:    "A1",
			Phone:   "555",
			Email:   "a@x.com",
		},
		Seller: &models.Seller{
			Company: "Sellco",
			VAT:     "VAT1",
			Address: "2 Rd",
			Code:    "S1",
			Phone:   "555",
			Email:   "s@x.com",
		},
		Lines:     json.RawMessage(`[{"desc":"Widget","qty":2,"price":10}]`),
		Transport: &transport,
	}
}

var serviceTestColumns = []string{
	"id", "number", "invoice_date", "payment_due",
	"company", "country", "vat",
	"buyer_address", "buyer_code", "buyer_phone", "buyer_email",
	"seller_name", "seller_vat", "seller_address", "seller_code", "seller_phone", "seller_email",
	"invoice_lines", "transport",
}

func TestServiceCreateThenList(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec("INSERT INTO invoices").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Create(sampleRequest()))

	rows := sqlmock.NewRows(serviceTestColumns).AddRow(
		uuid.NewString(), "INV-1", "2024-01-01", "2024-01-15",
		"Acme", "US", "",
		"1 Rd", "A1", "555", "a@x.com",
		"Sellco", "VAT1", "2 Rd", "S1", "555", "s@x.com",
		`[{"desc":"Widget","qty":2,"price":10}]`, "5",
	)
	mock.ExpectQuery("(?s)SELECT (.+) FROM invoices").WillReturnRows(rows)

	invoices, err := svc.List()
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-1", invoices[0].Number)
	assert.Equal(t, 5.0, invoices[0].Transport)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceCreateDefaultsTransport(t *testing.T) {
	svc, mock := newMockService(t)

	req := sampleRequest()
	req.Transport = nil

	// Transporte ausente se persiste como 0
	mock.ExpectExec("INSERT INTO invoices").
		WithArgs(
			sqlmock.AnyArg(), "INV-1", "2024-01-01", "2024-01-15",
			"Acme", "US", "",
			"1 Rd", "A1", "555", "a@x.com",
			"Sellco", "VAT1", "2 Rd", "S1", "555", "s@x.com",
			`[{"desc":"Widget","qty":2,"price":10}]`, "0",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Create(req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceUpdateFullReplace(t *testing.T) {
	svc, mock := newMockService(t)

	id := uuid.New()
	mock.ExpectExec("UPDATE invoices SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Update(id, sampleRequest()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceDeletePropagatesStoreError(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec("DELETE FROM invoices WHERE id").
		WillReturnError(assert.AnError)

	err := svc.Delete(uuid.New())

	var storeErr *models.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestServiceRenderPDF(t *testing.T) {
	svc, mock := newMockService(t)

	id := uuid.New()
	rows := sqlmock.NewRows(serviceTestColumns).AddRow(
		id.String(), "INV-1", "2024-01-01", "2024-01-15",
		"Acme", "US", "",
		"1 Rd", "A1", "555", "a@x.com",
		"Sellco", nil, "2 Rd", "S1", "555", "s@x.com",
		`[{"desc":"Widget","qty":2,"price":10}]`, "5",
	)
	mock.ExpectQuery("(?s)SELECT (.+) FROM invoices WHERE id").WillReturnRows(rows)

	pdfData, err := svc.RenderPDF(id)
	require.NoError(t, err)
	assert.True(t, len(pdfData) > 0)
	assert.Equal(t, "%PDF", string(pdfData[:4]))
}

func TestServiceRenderPDFNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("(?s)SELECT (.+) FROM invoices WHERE id").
		WillReturnRows(sqlmock.NewRows(serviceTestColumns))

	_, err := svc.RenderPDF(uuid.New())
	assert.ErrorIs(t, err, models.ErrInvoiceNotFound)
}
