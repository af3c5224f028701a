// internal/pkg/pdf/invoice.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

// InvoiceService renders order invoices as PDF documents
type InvoiceService struct {
	config   *config.Config
	template *template.Template
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(cfg *config.Config) (*InvoiceService, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &InvoiceService{
		config:   cfg,
		template: tmpl,
	}, nil
}

type invoiceData struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	Order          *order.Order
	Lines          []invoiceLine
	Subtotal       string
	Discount       string
	ShippingFee    string
	Total          string
	PlacedAt       string
}

type invoiceLine struct {
	Title      string
	Quantity   int
	PiecePrice string
	LineTotal  string
}

// GenerateInvoice renders the order as a PDF and returns its bytes
func (s *InvoiceService) GenerateInvoice(o *order.Order) ([]byte, error) {
	html, err := s.renderHTML(o)
	if err != nil {
		return nil, err
	}

	gen, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	gen.Dpi.Set(300)
	gen.PageSize.Set(wkhtmltopdf.PageSizeA4)
	gen.MarginTop.Set(15)
	gen.MarginBottom.Set(15)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.EnableLocalFileAccess.Set(false)
	gen.AddPage(page)

	if err := gen.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}

	return gen.Bytes(), nil
}

func (s *InvoiceService) renderHTML(o *order.Order) ([]byte, error) {
	lines := make([]invoiceLine, 0, len(o.Details))
	for _, d := range o.Details {
		lines = append(lines, invoiceLine{
			Title:      d.Title,
			Quantity:   d.Quantity,
			PiecePrice: formatAmount(d.PiecePrice),
			LineTotal:  formatAmount(d.LineTotal()),
		})
	}

	data := invoiceData{
		CompanyName:    s.config.App.CompanyName,
		CompanyAddress: s.config.App.CompanyAddress,
		CompanyEmail:   s.config.App.CompanyEmail,
		Order:          o,
		Lines:          lines,
		Subtotal:       formatAmount(o.SubtotalAmount),
		Discount:       formatAmount(o.DiscountAmount),
		ShippingFee:    formatAmount(o.ShippingFee),
		Total:          formatAmount(o.TotalAmount),
		PlacedAt:       o.PlacedAt.Format("Jan 2, 2006 15:04 MST"),
	}

	var buf bytes.Buffer
	if err := s.template.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render invoice HTML: %w", err)
	}
	return buf.Bytes(), nil
}

// formatAmount renders a smallest-unit amount with two decimals
func formatAmount(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
	body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 40px; }
	h1 { font-size: 22px; margin-bottom: 0; }
	.meta { color: #666; font-size: 12px; margin-bottom: 30px; }
	table { width: 100%; border-collapse: collapse; margin-top: 20px; }
	th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; font-size: 13px; }
	th { background: #f5f5f5; }
	.num { text-align: right; }
	.totals td { border: none; padding: 4px 8px; }
	.totals .label { text-align: right; color: #666; }
	.grand { font-weight: bold; font-size: 15px; }
</style>
</head>
<body>
	<h1>{{.CompanyName}}</h1>
	<div class="meta">
		{{.CompanyAddress}}<br>
		{{.CompanyEmail}}
	</div>

	<h2>Invoice {{.Order.OrderNumber}}</h2>
	<div class="meta">Placed {{.PlacedAt}} &middot; Payment: {{.Order.PaymentMethod}}</div>

	<table>
		<tr><th>Title</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Total</th></tr>
		{{range .Lines}}
		<tr>
			<td>{{.Title}}</td>
			<td class="num">{{.Quantity}}</td>
			<td class="num">{{.PiecePrice}}</td>
			<td class="num">{{.LineTotal}}</td>
		</tr>
		{{end}}
	</table>

	<table class="totals">
		<tr><td class="label">Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
		{{if .Order.CouponCode}}<tr><td class="label">Discount ({{.Order.CouponCode}})</td><td class="num">-{{.Discount}}</td></tr>{{end}}
		<tr><td class="label">Shipping</td><td class="num">{{.ShippingFee}}</td></tr>
		<tr class="grand"><td class="label">Total</td><td class="num">{{.Total}}</td></tr>
	</table>
</body>
</html>`
