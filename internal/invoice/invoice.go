package invoice

import (
	"time"

	"github.com/daviniapd/Voltix-back/internal/extract"
)

// Invoice is a processed utility invoice with its extracted data and a
// rasterized first-page preview.
type Invoice struct {
	ID       string         `json:"id"`
	Filename string         `json:"filename"`
	Vendor   extract.Vendor `json:"vendor"`

	// Billing period bounds are denormalized out of the record so invoices
	// can be filtered by period without unpacking parsed_data.
	BillingPeriodStart *string `json:"billing_period_start"`
	BillingPeriodEnd   *string `json:"billing_period_end"`

	Data      *extract.Record `json:"parsed_data"`
	OCRText   string          `json:"ocr_text,omitempty"`
	ImagePath string          `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
