package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hypernova-labs/invoice-service/internal/models"
)

// Conversión pura entre la fila plana persistida y la entidad anidada
// que expone la API. Sin estado y sin I/O; los errores de parseo se
// propagan, nunca se tragan.

// RowToInvoice construye la entidad anidada a partir de la fila plana
func RowToInvoice(row *models.InvoiceRow) (*models.Invoice, error) {
	lines, err := parseLines(row.InvoiceLines)
	if err != nil {
		return nil, err
	}

	transport, err := parseTransport(row.Transport)
	if err != nil {
		return nil, err
	}

	sellerVAT := ""
	if row.SellerVAT.Valid {
		sellerVAT = row.SellerVAT.String
	}

	return &models.Invoice{
		ID:         row.ID,
		Number:     row.Number,
		Date:       row.InvoiceDate,
		PaymentDue: row.PaymentDue,
		Buyer: models.Buyer{
			Company: row.Company,
			Country: row.Country,
			VAT:     row.VAT,
			Address: row.BuyerAddress,
			Code:    row.BuyerCode,
			Phone:   row.BuyerPhone,
			Email:   row.BuyerEmail,
		},
		Seller: models.Seller{
			Company: row.SellerName,
			VAT:     sellerVAT,
			Address: row.SellerAddress,
			Code:    row.SellerCode,
			Phone:   row.SellerPhone,
			Email:   row.SellerEmail,
		},
		Lines:     lines,
		Transport: transport,
	}, nil
}

// InvoiceToRow aplana la entidad en pares columna-valor listos para una
// escritura parametrizada
func InvoiceToRow(inv *models.Invoice) (*models.InvoiceRow, error) {
	lines, err := serializeLines(inv.Lines)
	if err != nil {
		return nil, err
	}

	// seller_vat es la única columna opcional: vacío se persiste como NULL
	sellerVAT := sql.NullString{}
	if inv.Seller.VAT != "" {
		sellerVAT = sql.NullString{String: inv.Seller.VAT, Valid: true}
	}

	return &models.InvoiceRow{
		ID:            inv.ID,
		Number:        inv.Number,
		InvoiceDate:   inv.Date,
		PaymentDue:    inv.PaymentDue,
		Company:       inv.Buyer.Company,
		Country:       inv.Buyer.Country,
		VAT:           inv.Buyer.VAT,
		BuyerAddress:  inv.Buyer.Address,
		BuyerCode:     inv.Buyer.Code,
		BuyerPhone:    inv.Buyer.Phone,
		BuyerEmail:    inv.Buyer.Email,
		SellerName:    inv.Seller.Company,
		SellerVAT:     sellerVAT,
		SellerAddress: inv.Seller.Address,
		SellerCode:    inv.Seller.Code,
		SellerPhone:   inv.Seller.Phone,
		SellerEmail:   inv.Seller.Email,
		InvoiceLines:  lines,
		Transport:     strconv.FormatFloat(inv.Transport, 'f', -1, 64),
	}, nil
}

// parseLines valida que el texto almacenado sea un arreglo JSON y lo
// devuelve sin modificar para que el round-trip sea sin pérdidas
func parseLines(stored string) (json.RawMessage, error) {
	var probe []json.RawMessage
	if err := json.Unmarshal([]byte(stored), &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptLines, err)
	}
	return json.RawMessage(stored), nil
}

// serializeLines produce la forma textual almacenable de las líneas.
// Ausente equivale a un arreglo vacío.
func serializeLines(lines json.RawMessage) (string, error) {
	if len(lines) == 0 {
		return "[]", nil
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(lines, &probe); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrCorruptLines, err)
	}
	return string(lines), nil
}

// parseTransport convierte el transporte almacenado a numérico.
// Vacío o NULL textual se trata como 0.
func parseTransport(stored string) (float64, error) {
	trimmed := strings.TrimSpace(stored)
	if trimmed == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", models.ErrInvalidTransport, stored)
	}
	return value, nil
}
