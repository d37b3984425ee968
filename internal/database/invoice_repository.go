package database

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/hypernova-labs/invoice-service/internal/models"
	"github.com/sirupsen/logrus"
)

// InvoiceRepository maneja las operaciones de base de datos para Invoice.
// Las cuatro operaciones son sentencias únicas, no transaccionales, y todos
// los valores pasan por parámetros enlazados, nunca interpolados.
type InvoiceRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewInvoiceRepository crea una nueva instancia del repositorio
func NewInvoiceRepository(db *DB, logger *logrus.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = `
	id, number, invoice_date, payment_due,
	company, country, vat,
	buyer_address, buyer_code, buyer_phone, buyer_email,
	seller_name, seller_vat, seller_address, seller_code, seller_phone, seller_email,
	invoice_lines, transport
`

// scanInvoice lee una fila del resultado y la convierte vía el mapper
func scanInvoice(scanner interface{ Scan(...interface{}) error }) (*models.Invoice, error) {
	var row models.InvoiceRow
	err := scanner.Scan(
		&row.ID, &row.Number, &row.InvoiceDate, &row.PaymentDue,
		&row.Company, &row.Country, &row.VAT,
		&row.BuyerAddress, &row.BuyerCode, &row.BuyerPhone, &row.BuyerEmail,
		&row.SellerName, &row.SellerVAT, &row.SellerAddress, &row.SellerCode, &row.SellerPhone, &row.SellerEmail,
		&row.InvoiceLines, &row.Transport,
	)
	if err != nil {
		return nil, err
	}
	return RowToInvoice(&row)
}

// ListAll obtiene todas las facturas. Sin ORDER BY explícito: el orden lo
// define el almacenamiento, típicamente el de inserción.
func (r *InvoiceRepository) ListAll() ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`

	rows, err := r.db.QueryWithTimeout(query)
	if err != nil {
		return nil, models.NewStoreError("list", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			if isMapperError(err) {
				return nil, err
			}
			return nil, models.NewStoreError("list", err)
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewStoreError("list", err)
	}

	return invoices, nil
}

// GetByID obtiene una factura por id
func (r *InvoiceRepository) GetByID(id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	invoice, err := scanInvoice(r.db.QueryRowWithTimeout(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrInvoiceNotFound
		}
		if isMapperError(err) {
			return nil, err
		}
		return nil, models.NewStoreError("get", err)
	}

	return invoice, nil
}

// isMapperError distingue fallos de parseo de datos persistidos de fallos
// del almacenamiento
func isMapperError(err error) bool {
	return errors.Is(err, models.ErrCorruptLines) || errors.Is(err, models.ErrInvalidTransport)
}

// Create inserta una nueva factura. El id lo asigna el store, nunca el
// cliente.
func (r *InvoiceRepository) Create(inv *models.Invoice) (uuid.UUID, error) {
	inv.ID = uuid.New()

	row, err := InvoiceToRow(inv)
	if err != nil {
		return uuid.Nil, err
	}

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = r.db.ExecWithTimeout(query,
		row.ID, row.Number, row.InvoiceDate, row.PaymentDue,
		row.Company, row.Country, row.VAT,
		row.BuyerAddress, row.BuyerCode, row.BuyerPhone, row.BuyerEmail,
		row.SellerName, row.SellerVAT, row.SellerAddress, row.SellerCode, row.SellerPhone, row.SellerEmail,
		row.InvoiceLines, row.Transport,
	)
	if err != nil {
		return uuid.Nil, models.NewStoreError("create", err)
	}

	r.logger.WithField("invoice_id", inv.ID).Debug("Invoice created")

	return inv.ID, nil
}

// Update reemplaza todas las columnas mutables de la fila que coincide con
// id. Si ninguna fila coincide la operación es un éxito silencioso.
func (r *InvoiceRepository) Update(id uuid.UUID, inv *models.Invoice) error {
	inv.ID = id

	row, err := InvoiceToRow(inv)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoices SET
			number = $1, invoice_date = $2, payment_due = $3,
			company = $4, country = $5, vat = $6,
			buyer_address = $7, buyer_code = $8, buyer_phone = $9, buyer_email = $10,
			seller_name = $11, seller_vat = $12, seller_address = $13, seller_code = $14, seller_phone = $15, seller_email = $16,
			invoice_lines = $17, transport = $18
		WHERE id = $19
	`

	result, err := r.db.ExecWithTimeout(query,
		row.Number, row.InvoiceDate, row.PaymentDue,
		row.Company, row.Country, row.VAT,
		row.BuyerAddress, row.BuyerCode, row.BuyerPhone, row.BuyerEmail,
		row.SellerName, row.SellerVAT, row.SellerAddress, row.SellerCode, row.SellerPhone, row.SellerEmail,
		row.InvoiceLines, row.Transport,
		id,
	)
	if err != nil {
		return models.NewStoreError("update", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		r.logger.WithField("invoice_id", id).Debug("Update matched no rows")
	}

	return nil
}

// Delete elimina la fila que coincide con id. Borrar un id inexistente
// también es un éxito silencioso.
func (r *InvoiceRepository) Delete(id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1`

	result, err := r.db.ExecWithTimeout(query, id)
	if err != nil {
		return models.NewStoreError("delete", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		r.logger.WithField("invoice_id", id).Debug("Delete matched no rows")
	}

	return nil
}
