// Package pdf renders printable invoices. It is a pure formatting layer
// over already-validated data.
package pdf

import (
	"bytes"
	"strconv"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// Company is the issuer block printed on every invoice header.
type Company struct {
	Name  string
	TaxID string
	Phone string
	Email string
}

const dateLayout = "02/01/2006"

// RenderInvoice produces the PDF bytes for one invoice: company header,
// invoice metadata, line-item table, totals, payments and notes.
func RenderInvoice(inv *domain.Invoice, company Company) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	tr := p.UnicodeTranslatorFromDescriptor("")
	p.SetAutoPageBreak(true, 15)
	p.AddPage()

	// Header
	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 10, tr(company.Name), "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.CellFormat(0, 5, tr("RUC: "+company.TaxID), "", 1, "C", false, 0, "")
	p.CellFormat(0, 5, tr("Tel: "+company.Phone), "", 1, "C", false, 0, "")
	p.CellFormat(0, 5, tr("Correo: "+company.Email), "", 1, "C", false, 0, "")
	p.Ln(5)
	p.CellFormat(0, 0, "", "B", 1, "", false, 0, "")
	p.Ln(6)

	// Invoice metadata
	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(95, 6, tr("Factura N°: "+inv.InvoiceNumber), "", 0, "L", false, 0, "")
	p.CellFormat(95, 6, "Fecha: "+inv.InvoiceDate.Format(dateLayout), "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.CellFormat(95, 6, tr("Cliente: "+inv.CustomerName), "", 0, "L", false, 0, "")
	p.CellFormat(95, 6, tr("Documento: "+inv.CustomerDocument), "", 1, "L", false, 0, "")
	p.CellFormat(95, 6, tr("Vendedor: "+inv.SellerName), "", 1, "L", false, 0, "")
	p.Ln(6)

	// Line items
	p.SetFillColor(211, 211, 211)
	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(95, 7, "Producto", "1", 0, "C", true, 0, "")
	p.CellFormat(25, 7, "Cantidad", "1", 0, "C", true, 0, "")
	p.CellFormat(35, 7, "Precio", "1", 0, "C", true, 0, "")
	p.CellFormat(35, 7, "Subtotal", "1", 1, "C", true, 0, "")
	p.SetFont("Helvetica", "", 10)
	for _, d := range inv.Details {
		p.CellFormat(95, 7, tr(d.ProductName), "1", 0, "L", false, 0, "")
		p.CellFormat(25, 7, strconv.Itoa(d.Quantity), "1", 0, "R", false, 0, "")
		p.CellFormat(35, 7, d.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		p.CellFormat(35, 7, d.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	p.Ln(6)

	// Totals
	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(155, 6, "Subtotal:", "", 0, "R", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.CellFormat(35, 6, inv.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(155, 6, "IVA:", "", 0, "R", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.CellFormat(35, 6, inv.TaxIva.StringFixed(2), "", 1, "R", false, 0, "")
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(155, 8, "TOTAL:", "", 0, "R", false, 0, "")
	p.CellFormat(35, 8, inv.Total.StringFixed(2), "", 1, "R", false, 0, "")
	p.Ln(6)

	// Payments
	if len(inv.Payments) > 0 {
		p.SetFont("Helvetica", "B", 12)
		p.CellFormat(0, 7, "Pagos Realizados", "", 1, "L", false, 0, "")
		p.SetFont("Helvetica", "B", 10)
		p.CellFormat(125, 7, tr("Método"), "1", 0, "C", true, 0, "")
		p.CellFormat(65, 7, "Monto", "1", 1, "C", true, 0, "")
		p.SetFont("Helvetica", "", 10)
		for _, pay := range inv.Payments {
			p.CellFormat(125, 7, tr(pay.PaymentMethodName), "1", 0, "L", false, 0, "")
			p.CellFormat(65, 7, pay.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
		}
		p.Ln(6)
	}

	// Notes
	if inv.Notes != nil && *inv.Notes != "" {
		p.SetFont("Helvetica", "B", 10)
		p.CellFormat(0, 6, "Notas:", "", 1, "L", false, 0, "")
		p.SetFont("Helvetica", "", 10)
		p.MultiCell(0, 5, tr(*inv.Notes), "", "L", false)
		p.Ln(4)
	}

	// Footer
	p.CellFormat(0, 0, "", "T", 1, "", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, 8, "Gracias por su compra", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
