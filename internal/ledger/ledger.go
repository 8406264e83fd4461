// internal/ledger/ledger.go
package ledger

import (
	"math"
	"strconv"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/errs"
)

// CommissionRate is the fixed fraction of the sale total retained by the
// platform.
const CommissionRate = 0.075

// Breakdown is the money split of a single purchase. All amounts are in
// major currency units rounded to the minor unit (cents), and satisfy
// TotalAmount == CommissionAmount + SellerReceives exactly.
type Breakdown struct {
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	TotalAmount      float64 `json:"total_amount"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount float64 `json:"commission_amount"`
	SellerReceives   float64 `json:"seller_receives"`
}

// RoundToCents rounds an amount to two decimal places.
func RoundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Compute derives the escrow money split for a purchase of quantity units at
// unitPrice each. The seller receivable is computed as total minus commission
// so the three amounts always balance to the cent.
func Compute(quantity, unitPrice float64) (Breakdown, error) {
	if quantity <= 0 {
		return Breakdown{}, errs.Validation("quantity must be greater than zero")
	}
	if unitPrice < 0 {
		return Breakdown{}, errs.Validation("unit price must not be negative")
	}

	total := RoundToCents(quantity * unitPrice)
	commission := RoundToCents(total * CommissionRate)

	return Breakdown{
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		TotalAmount:      total,
		CommissionRate:   CommissionRate,
		CommissionAmount: commission,
		SellerReceives:   RoundToCents(total - commission),
	}, nil
}

// PostSaleQuantity returns the listing quantity remaining after a purchase.
func PostSaleQuantity(available, purchased float64) (float64, error) {
	if purchased <= 0 {
		return 0, errs.Validation("quantity must be greater than zero")
	}
	if purchased > available {
		return 0, errs.Validation("only %s available", FormatQuantity(available))
	}
	return available - purchased, nil
}

// FormatQuantity renders a decimal quantity without trailing zeros, for use
// in user-facing error messages.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
