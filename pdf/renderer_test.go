package pdf

import (
	"io"
	"testing"

	"salescrm-backend/models"
	"salescrm-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVM() *services.DocumentViewModel {
	return &services.DocumentViewModel{
		DocType:     models.DocTypeQuotation,
		Title:       "Quotation",
		DisplayNo:   "QTN0001/RAME",
		Date:        "10-04-2026",
		CreatorName: "Ramesh Kumar",
		PartyName:   "Acme Traders",
		PartyState:  "Maharashtra",
		PartyGST:    "27AAAAA0000A1Z5",
		HasDiscount: true,
		Lines: []services.ViewModelLine{
			{
				Pos: 1, ItemName: "Gate Valve 50mm", HSN: "8481", GSTPercent: 18,
				Qty: 10, Rate: 100, DiscountPercent: 10,
				TaxableAmount: 900, TaxType: models.TaxTypeIntraState,
				TaxAmount: 162, TotalAmount: 1062,
			},
		},
		Subtotal: 900,
		TaxGroups: []services.TaxGroup{
			{HSN: "8481", GSTPercent: 18, Taxable: 900, TaxType: models.TaxTypeIntraState, CGST: 81, SGST: 81},
		},
		TaxTotal:     162,
		GrandTotal:   1062,
		PaymentTerms: "50% advance",
	}
}

func TestRenderProducesPDF(t *testing.T) {
	reader, err := Render(sampleVM())
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NotEmpty(t, body)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestRenderWithoutDiscountColumns(t *testing.T) {
	vm := sampleVM()
	vm.HasDiscount = false
	vm.Lines[0].DiscountPercent = 0

	reader, err := Render(vm)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}
