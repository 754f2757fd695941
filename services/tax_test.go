package services

import (
	"testing"

	"salescrm-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestComputeLineTax(t *testing.T) {
	cases := []struct {
		name       string
		qty        float64
		rate       float64
		discount   float64
		gst        float64
		state      string
		taxable    float64
		taxType    string
		tax        float64
		total      float64
	}{
		{
			name: "intra-state with discount",
			qty:  10, rate: 100, discount: 10, gst: 18, state: "Maharashtra",
			taxable: 900.00, taxType: models.TaxTypeIntraState, tax: 162.00, total: 1062.00,
		},
		{
			name: "inter-state no discount",
			qty:  5, rate: 250, discount: 0, gst: 12, state: "Gujarat",
			taxable: 1250.00, taxType: models.TaxTypeInterState, tax: 150.00, total: 1400.00,
		},
		{
			name: "zero quantity",
			qty:  0, rate: 100, discount: 5, gst: 18, state: "Maharashtra",
			taxable: 0, taxType: models.TaxTypeIntraState, tax: 0, total: 0,
		},
		{
			name: "zero rate",
			qty:  3, rate: 0, discount: 0, gst: 28, state: "Karnataka",
			taxable: 0, taxType: models.TaxTypeInterState, tax: 0, total: 0,
		},
		{
			name: "fractional rounding",
			qty:  3, rate: 33.33, discount: 0, gst: 18, state: "Delhi",
			taxable: 99.99, taxType: models.TaxTypeInterState, tax: 18.00, total: 117.99,
		},
		{
			name: "full discount",
			qty:  2, rate: 500, discount: 100, gst: 18, state: "Maharashtra",
			taxable: 0, taxType: models.TaxTypeIntraState, tax: 0, total: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeLineTax(tc.qty, tc.rate, tc.discount, tc.gst, tc.state)
			assert.Equal(t, tc.taxable, got.TaxableAmount)
			assert.Equal(t, tc.taxType, got.TaxType)
			assert.Equal(t, tc.tax, got.TaxAmount)
			assert.Equal(t, tc.total, got.TotalAmount)
		})
	}
}

func TestHomeStateDefault(t *testing.T) {
	t.Setenv("HOME_STATE", "")
	assert.Equal(t, "Maharashtra", HomeState())

	t.Setenv("HOME_STATE", "Karnataka")
	assert.Equal(t, "Karnataka", HomeState())
	got := ComputeLineTax(1, 100, 0, 18, "Karnataka")
	assert.Equal(t, models.TaxTypeIntraState, got.TaxType)
}
