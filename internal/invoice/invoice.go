package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/farmtotable/farmtotable-backend/pkg/errors"
)

// TaxRate is the fixed sales-tax rate applied to every invoice.
var TaxRate = decimal.NewFromFloat(0.0725)

// LineItemRequest is one cart row as submitted by the client.
type LineItemRequest struct {
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	LineTotal float64 `json:"line_total" validate:"required,gt=0"`
}

// QuoteRequest is the payload for assembling an invoice.
type QuoteRequest struct {
	CustomerName    string            `json:"customer_name" validate:"required"`
	CustomerAddress string            `json:"customer_address"`
	Items           []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// LineItem is a resolved invoice row. Currency values are serialized as
// fixed two-decimal strings.
type LineItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitCost  string `json:"unit_cost"`
	LineTotal string `json:"line_total"`
}

// Invoice is the deterministic structured summary of a cart.
type Invoice struct {
	Number          string     `json:"number"`
	IssuedAt        time.Time  `json:"issued_at"`
	CustomerName    string     `json:"customer_name"`
	CustomerAddress string     `json:"customer_address,omitempty"`
	Items           []LineItem `json:"items"`
	Subtotal        string     `json:"subtotal"`
	Tax             string     `json:"tax"`
	Total           string     `json:"total"`
}

// Assembler turns line items into invoices. The clock and number source are
// injectable so output is reproducible under test.
type Assembler struct {
	now        func() time.Time
	nextNumber func() string
}

// Option customizes an Assembler.
type Option func(*Assembler)

// WithClock overrides the issued-at clock.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithNumberSource overrides invoice number generation.
func WithNumberSource(next func() string) Option {
	return func(a *Assembler) { a.nextNumber = next }
}

// NewAssembler returns an Assembler with real clock and random numbers.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		now:        time.Now,
		nextNumber: func() string { return "INV-" + uuid.NewString()[:8] },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble computes the totals for the submitted cart. Tax is the subtotal
// at the fixed rate, rounded half-up to cents; the grand total is rounded
// from the exact product, not summed from already-rounded parts.
func (a *Assembler) Assemble(req QuoteRequest) (*Invoice, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item required")
	}

	items := make([]LineItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than 0").
				WithDetails(map[string]string{"name": item.Name})
		}
		lineTotal := decimal.NewFromFloat(item.LineTotal)
		if lineTotal.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line total must be greater than 0").
				WithDetails(map[string]string{"name": item.Name})
		}

		unitCost := lineTotal.Div(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, LineItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitCost:  unitCost.Round(2).StringFixed(2),
			LineTotal: lineTotal.Round(2).StringFixed(2),
		})
		subtotal = subtotal.Add(lineTotal)
	}

	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Mul(decimal.NewFromInt(1).Add(TaxRate)).Round(2)

	return &Invoice{
		Number:          a.nextNumber(),
		IssuedAt:        a.now().UTC(),
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		Items:           items,
		Subtotal:        subtotal.Round(2).StringFixed(2),
		Tax:             tax.StringFixed(2),
		Total:           total.StringFixed(2),
	}, nil
}
