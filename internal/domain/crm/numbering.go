package crm

import (
	"fmt"
	"math/rand/v2"
)

// InvoiceNumberPrefix is the agency prefix for generated invoice numbers
const InvoiceNumberPrefix = "EGMA-INV-"

// InvoiceNumberGenerator produces invoice numbers for invoices created
// without one. Injected so tests can pin the output and so a
// collision-checked scheme can be swapped in later.
type InvoiceNumberGenerator interface {
	Next() string
}

// RandomInvoiceNumbers generates numbers with a 4 digit random suffix.
// Uniqueness is not guaranteed; collisions are possible across the
// 10000-value suffix space and callers accept that risk.
type RandomInvoiceNumbers struct{}

// Next returns a new invoice number
func (RandomInvoiceNumbers) Next() string {
	return fmt.Sprintf("%s%04d", InvoiceNumberPrefix, rand.IntN(10000))
}

// FixedInvoiceNumbers always returns the same number. Intended for tests.
type FixedInvoiceNumbers struct {
	Number string
}

// Next returns the fixed number
func (g FixedInvoiceNumbers) Next() string {
	return g.Number
}
