package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/windassist/windpark-api/internal/domain/entity"
)

// InvoiceResponse is an invoice or credit note with its lines for
// GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceType   string                `json:"invoice_type"`
	Number        string                `json:"number"`
	RecipientID   string                `json:"recipient_id"`
	RecipientName string                `json:"recipient_name"`
	Date          time.Time             `json:"date"`
	NetTotal      decimal.Decimal       `json:"net_total"`
	TaxTotal      decimal.Decimal       `json:"tax_total"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	Status        string                `json:"status"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse is one invoice line.
type InvoiceItemResponse struct {
	Position       int             `json:"position"`
	PositionKey    string          `json:"position_key"`
	Description    string          `json:"description"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	TaxType        string          `json:"tax_type"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	GrossAmount    decimal.Decimal `json:"gross_amount"`
}

// FromInvoice maps an invoice and its lines onto the response.
func FromInvoice(inv *entity.Invoice, items []entity.InvoiceItem) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		InvoiceType:   inv.InvoiceType,
		Number:        inv.Number,
		RecipientID:   inv.RecipientID,
		RecipientName: inv.RecipientName,
		Date:          inv.Date,
		NetTotal:      inv.NetTotal,
		TaxTotal:      inv.TaxTotal,
		GrandTotal:    inv.GrandTotal,
		Status:        inv.Status,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			Position:       item.Position,
			PositionKey:    item.PositionKey,
			Description:    item.Description,
			NetAmount:      item.NetAmount,
			TaxType:        item.TaxType,
			TaxRatePercent: item.TaxRatePercent,
			TaxAmount:      item.TaxAmount,
			GrossAmount:    item.GrossAmount,
		})
	}
	return resp
}
