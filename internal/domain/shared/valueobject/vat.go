package valueobject

import (
	"github.com/sitecost/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultVATRate is the standard VAT rate applied to expenses and
// received payments (5%).
var DefaultVATRate = decimal.NewFromFloat(0.05)

// VATBreakdown holds the base and tax components of a monetary amount.
type VATBreakdown struct {
	Base  decimal.Decimal `json:"base"`
	VAT   decimal.Decimal `json:"vat"`
	Total decimal.Decimal `json:"total"`
}

// ExtractVAT splits a VAT-inclusive total into its base and tax components:
// vat = total * rate / (1 + rate), base = total - vat.
//
// The inverse, additive mode lives in AddVAT. The two formulas produce
// different observable amounts for the same input, so callers must pick the
// mode that matches how the figure was entered; nothing here guesses.
func ExtractVAT(totalInclusive, rate decimal.Decimal) (VATBreakdown, error) {
	if err := validateVATInput(totalInclusive, rate); err != nil {
		return VATBreakdown{}, err
	}
	one := decimal.NewFromInt(1)
	vat := totalInclusive.Mul(rate).Div(one.Add(rate)).Round(2)
	base := totalInclusive.Sub(vat)
	return VATBreakdown{Base: base, VAT: vat, Total: totalInclusive}, nil
}

// AddVAT computes additive VAT on a VAT-exclusive base:
// vat = base * rate, total = base + vat.
func AddVAT(base, rate decimal.Decimal) (VATBreakdown, error) {
	if err := validateVATInput(base, rate); err != nil {
		return VATBreakdown{}, err
	}
	vat := base.Mul(rate).Round(2)
	return VATBreakdown{Base: base, VAT: vat, Total: base.Add(vat)}, nil
}

func validateVATInput(amount, rate decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_AMOUNT", "VAT rate must be in [0, 1)")
	}
	return nil
}
