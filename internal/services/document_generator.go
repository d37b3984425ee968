package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hypernova-labs/invoice-service/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"
)

// DocumentGenerator maneja la generación de archivos PDF
type DocumentGenerator struct {
	logger *logrus.Logger
}

// NewDocumentGenerator crea una nueva instancia del generador
func NewDocumentGenerator(logger *logrus.Logger) *DocumentGenerator {
	return &DocumentGenerator{
		logger: logger,
	}
}

// GenerateInvoicePDF genera un archivo PDF para la factura
func (d *DocumentGenerator) GenerateInvoicePDF(invoice *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header con color de fondo
	pdf.SetFillColor(41, 128, 185)
	pdf.Rect(0, 0, 210, 40, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 24)
	pdf.Cell(190, 15, "INVOICE")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, fmt.Sprintf("#%s", invoice.Number))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(95, 8, fmt.Sprintf("Date: %s", invoice.Date))
	pdf.Cell(95, 8, fmt.Sprintf("Payment due: %s", invoice.PaymentDue))
	pdf.Ln(8)

	// Resetear colores
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFillColor(255, 255, 255)

	// Vendedor (izquierda)
	pdf.SetY(50)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(95, 8, "SELLER")

	// Comprador (derecha)
	pdf.Cell(95, 8, "BUYER")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	sellerVAT := invoice.Seller.VAT
	if sellerVAT == "" {
		sellerVAT = "N/A"
	}
	sellerBlock := []string{
		invoice.Seller.Company,
		fmt.Sprintf("VAT: %s", sellerVAT),
		invoice.Seller.Address,
		invoice.Seller.Code,
		invoice.Seller.Phone,
		invoice.Seller.Email,
	}
	buyerBlock := []string{
		invoice.Buyer.Company,
		fmt.Sprintf("VAT: %s", invoice.Buyer.VAT),
		invoice.Buyer.Address,
		fmt.Sprintf("%s %s", invoice.Buyer.Code, invoice.Buyer.Country),
		invoice.Buyer.Phone,
		invoice.Buyer.Email,
	}
	for i := range sellerBlock {
		pdf.Cell(95, 6, sellerBlock[i])
		pdf.Cell(95, 6, buyerBlock[i])
		pdf.Ln(6)
	}
	pdf.Ln(8)

	// Tabla de líneas
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(236, 240, 241)
	pdf.CellFormat(100, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	linesTotal := 0.0
	for _, line := range decodeLines(invoice.Lines) {
		amount := line.Qty * line.Price
		linesTotal += amount
		pdf.CellFormat(100, 8, line.Desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", line.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", line.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", amount), "1", 1, "R", false, 0, "")
	}

	// Totales
	pdf.Ln(4)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(160, 8, "Transport", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", invoice.Transport), "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(160, 8, "TOTAL", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", linesTotal+invoice.Transport), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error generating PDF: %w", err)
	}

	d.logger.WithFields(logrus.Fields{
		"invoice_id": invoice.ID,
		"pdf_size":   buf.Len(),
	}).Info("Invoice PDF generated")

	return buf.Bytes(), nil
}

// pdfLine es la vista mínima de una línea que el PDF sabe dibujar
type pdfLine struct {
	Desc  string  `json:"desc"`
	Qty   float64 `json:"qty"`
	Price float64 `json:"price"`
}

// decodeLines interpreta las líneas opacas de la mejor manera posible.
// El core no impone esquema, así que las líneas que no calzan con la vista
// mínima se dibujan con su JSON como descripción.
func decodeLines(raw json.RawMessage) []pdfLine {
	if len(raw) == 0 {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	lines := make([]pdfLine, 0, len(items))
	for _, item := range items {
		var line pdfLine
		if err := json.Unmarshal(item, &line); err != nil || line.Desc == "" {
			line = pdfLine{Desc: string(item)}
		}
		lines = append(lines, line)
	}

	return lines
}
