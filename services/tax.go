package services

import (
	"os"
	"strings"

	"salescrm-backend/models"

	"github.com/shopspring/decimal"
)

// DefaultHomeState is the seller's registered state. Parties billed in the
// same state get CGST+SGST, everyone else IGST.
const DefaultHomeState = "Maharashtra"

// HomeState returns the configured seller state (HOME_STATE env override).
func HomeState() string {
	if s := strings.TrimSpace(os.Getenv("HOME_STATE")); s != "" {
		return s
	}
	return DefaultHomeState
}

// TaxResult carries the four derived values stored on a line item.
type TaxResult struct {
	TaxableAmount float64
	TaxType       string
	TaxAmount     float64
	TotalAmount   float64
}

// ComputeLineTax derives the stored amounts for one line:
//
//	taxable = qty * rate * (1 - discount/100)
//	tax     = taxable * gst/100
//	total   = taxable + tax
//
// each rounded to 2 decimals. The CGST/SGST split of an intra-state tax
// amount happens at render time; only the combined amount is stored.
// Zero qty or rate is allowed and yields zero amounts. Discount is taken
// as given; range checks are the caller's job.
func ComputeLineTax(qty, rate, discountPercent, gstPercent float64, partyState string) TaxResult {
	hundred := decimal.NewFromInt(100)

	taxable := decimal.NewFromFloat(qty).
		Mul(decimal.NewFromFloat(rate)).
		Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountPercent).Div(hundred))).
		Round(2)

	taxAmount := taxable.
		Mul(decimal.NewFromFloat(gstPercent).Div(hundred)).
		Round(2)

	total := taxable.Add(taxAmount).Round(2)

	taxType := models.TaxTypeInterState
	if partyState == HomeState() {
		taxType = models.TaxTypeIntraState
	}

	tf, _ := taxable.Float64()
	xf, _ := taxAmount.Float64()
	gf, _ := total.Float64()
	return TaxResult{
		TaxableAmount: tf,
		TaxType:       taxType,
		TaxAmount:     xf,
		TotalAmount:   gf,
	}
}
