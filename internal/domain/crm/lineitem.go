package crm

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// LineItem represents one billable entry on an invoice
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"` // percentage, 0 when untaxed
}

// Total returns quantity times unit price
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}

// Tax returns the tax owed on this line
func (li LineItem) Tax() decimal.Decimal {
	return li.Total().Mul(li.TaxRate).Div(oneHundred)
}

// Validate checks the line item invariants
func (li LineItem) Validate() error {
	if li.Description == "" {
		return NewInvalidInvoiceError("line item description is required")
	}
	if li.Quantity < 1 {
		return NewInvalidInvoiceError("line item quantity must be at least 1")
	}
	if li.UnitPrice.IsNegative() {
		return NewInvalidInvoiceError("line item unit price cannot be negative")
	}
	if li.TaxRate.IsNegative() {
		return NewInvalidInvoiceError("line item tax rate cannot be negative")
	}
	return nil
}

// LineItems is a slice of LineItem that implements GORM Scanner/Valuer for JSONB storage
type LineItems []LineItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan LineItems: unsupported type")
	}

	if len(bytes) == 0 {
		*l = LineItems{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Totals holds the money figures derived from an invoice's line items
type Totals struct {
	Subtotal    decimal.Decimal
	TaxTotal    decimal.Decimal
	TotalAmount decimal.Decimal
}

// CalculateTotals computes subtotal, tax total and total amount from line
// items and a flat discount. The discount is not clamped: a discount larger
// than subtotal plus tax yields a negative total, which downstream treats as
// a credit rather than an error. Deterministic and order independent.
func CalculateTotals(items LineItems, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, li := range items {
		subtotal = subtotal.Add(li.Total())
		taxTotal = taxTotal.Add(li.Tax())
	}
	return Totals{
		Subtotal:    subtotal,
		TaxTotal:    taxTotal,
		TotalAmount: subtotal.Add(taxTotal).Sub(discount),
	}
}
