package pos

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/modules/cart"
)

// Sale is a committed checkout. It never changes once stored.
type Sale struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Total     decimal.Decimal `json:"total"`
	AccountID int64           `json:"account_id"`
	Cashier   string          `json:"cashier,omitempty"`
	Items     []cart.LineItem `json:"items,omitempty"`
	// Payment is only known at checkout time and is not stored.
	Payment *Payment `json:"payment,omitempty"`
}

// PaymentMethod represents how a sale was paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

// Payment describes what the customer handed over at the counter.
type Payment struct {
	Method   PaymentMethod   `json:"method"`
	Tendered decimal.Decimal `json:"tendered"`
	Change   decimal.Decimal `json:"change"`
}

// CheckoutRequest is the optional checkout payload. Without a tendered
// amount the sale is recorded without payment details.
type CheckoutRequest struct {
	Method   string           `json:"payment_method"`
	Tendered *decimal.Decimal `json:"tendered,omitempty"`
}

// NewPayment validates req against the amount due.
func NewPayment(req CheckoutRequest, due decimal.Decimal) (*Payment, error) {
	method := PaymentMethod(strings.ToUpper(strings.TrimSpace(req.Method)))
	switch method {
	case "":
		method = PaymentCash
	case PaymentCash, PaymentCard:
	default:
		return nil, apperr.Invalid("invalid payment_method: %s (allowed: CASH, CARD)", req.Method)
	}
	if req.Tendered == nil {
		if method == PaymentCash {
			return nil, nil
		}
		return &Payment{Method: method, Tendered: due, Change: decimal.Zero}, nil
	}
	if req.Tendered.LessThan(due) {
		return nil, apperr.Invalid("tendered %s is less than the total %s", req.Tendered.StringFixed(2), due.StringFixed(2))
	}
	if method == PaymentCard && !req.Tendered.Equal(due) {
		return nil, apperr.Invalid("card payments must match the total")
	}
	return &Payment{Method: method, Tendered: *req.Tendered, Change: req.Tendered.Sub(due)}, nil
}

// Units is the number of product units sold.
func (s *Sale) Units() int {
	n := 0
	for _, li := range s.Items {
		n += li.Quantity
	}
	return n
}

// Profit is the margin realised on the sale at captured prices.
func (s *Sale) Profit() decimal.Decimal {
	p := decimal.Zero
	for _, li := range s.Items {
		p = p.Add(li.Profit())
	}
	return p
}
