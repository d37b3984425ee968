package models

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// Buyer representa el comprador de la factura
type Buyer struct {
	Company string `json:"company"`
	Country string `json:"country"`
	VAT     string `json:"vat"`
	Address string `json:"address"`
	Code    string `json:"code"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Seller representa el vendedor de la factura
type Seller struct {
	Company string `json:"company"`
	VAT     string `json:"vat"`
	Address string `json:"address"`
	Code    string `json:"code"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Invoice representa una factura tal como se expone en la API.
// Lines es una secuencia opaca: el servicio la persiste y la devuelve
// sin interpretar su contenido.
type Invoice struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	Date       string          `json:"date"`
	PaymentDue string          `json:"paymentDue"`
	Buyer      Buyer           `json:"buyer"`
	Seller     Seller          `json:"seller"`
	Lines      json.RawMessage `json:"lines"`
	Transport  float64         `json:"transport"`
}

// InvoiceRow representa la fila plana persistida en la tabla invoices.
// El transporte se conserva como texto; la conversión numérica vive en
// el mapper.
type InvoiceRow struct {
	ID            uuid.UUID      `db:"id"`
	Number        string         `db:"number"`
	InvoiceDate   string         `db:"invoice_date"`
	PaymentDue    string         `db:"payment_due"`
	Company       string         `db:"company"`
	Country       string         `db:"country"`
	VAT           string         `db:"vat"`
	BuyerAddress  string         `db:"buyer_address"`
	BuyerCode     string         `db:"buyer_code"`
	BuyerPhone    string         `db:"buyer_phone"`
	BuyerEmail    string         `db:"buyer_email"`
	SellerName    string         `db:"seller_name"`
	SellerVAT     sql.NullString `db:"seller_vat"`
	SellerAddress string         `db:"seller_address"`
	SellerCode    string         `db:"seller_code"`
	SellerPhone   string         `db:"seller_phone"`
	SellerEmail   string         `db:"seller_email"`
	InvoiceLines  string         `db:"invoice_lines"`
	Transport     string         `db:"transport"`
}

// InvoiceRequest representa el cuerpo validado de POST/PUT /inv
type InvoiceRequest struct {
	Number     string          `json:"number" binding:"required"`
	Date       string          `json:"date" binding:"required"`
	PaymentDue string          `json:"paymentDue" binding:"required"`
	Buyer      *Buyer          `json:"buyer" binding:"required"`
	Seller     *Seller         `json:"seller" binding:"required"`
	Lines      json.RawMessage `json:"lines"`
	Transport  *float64        `json:"transport"`
}

// ToInvoice construye la entidad a partir del request.
// Transporte ausente se coerce a 0; el id lo asigna el store.
func (r *InvoiceRequest) ToInvoice() *Invoice {
	transport := 0.0
	if r.Transport != nil {
		transport = *r.Transport
	}

	return &Invoice{
		Number:     r.Number,
		Date:       r.Date,
		PaymentDue: r.PaymentDue,
		Buyer:      *r.Buyer,
		Seller:     *r.Seller,
		Lines:      r.Lines,
		Transport:  transport,
	}
}

// ListResponse representa la respuesta de GET /inv
type ListResponse struct {
	Status string    `json:"status"`
	List   []Invoice `json:"list"`
}

// StatusResponse representa la respuesta de escrituras exitosas
type StatusResponse struct {
	Status string `json:"status"`
}

// InvoiceResponse representa la respuesta de GET /inv/:id
type InvoiceResponse struct {
	Status  string   `json:"status"`
	Invoice *Invoice `json:"invoice"`
}
