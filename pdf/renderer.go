package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"salescrm-backend/models"
	"salescrm-backend/services"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Render lays out one commercial document from its view model. The column
// set of the items table switches with HasDiscount: documents without any
// line discount print the simpler five-column table.
func Render(vm *services.DocumentViewModel) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, vm.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	metaLines := []string{
		"No: " + vm.DisplayNo,
		"Date: " + vm.Date,
	}
	if vm.PartyConfirmationID != "" {
		metaLines = append(metaLines, "Party Confirmation: "+vm.PartyConfirmationID)
	}
	if vm.ValidityDays > 0 {
		metaLines = append(metaLines, fmt.Sprintf("Valid for %d days", vm.ValidityDays))
	}
	meta := col.New(6)
	for i, line := range metaLines {
		meta.Add(text.New(line, props.Text{Top: float64(i * 4), Size: 9}))
	}

	partyCol := col.New(6).Add(
		text.New("To:", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.New(vm.PartyName, props.Text{Top: 4, Size: 9}),
		text.New(strings.TrimSpace(vm.PartyAddress+" "+vm.PartyCity), props.Text{Top: 8, Size: 9}),
		text.New(strings.TrimSpace(vm.PartyState+" "+vm.PartyPincode), props.Text{Top: 12, Size: 9}),
		text.New("GSTIN: "+vm.PartyGST, props.Text{Top: 16, Size: 9}),
	)
	m.AddRow(24, meta, partyCol)

	if vm.HasDiscount {
		m.AddRow(8,
			text.NewCol(4, "Item", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(1, "HSN", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
			text.NewCol(1, "UOM", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
			text.NewCol(1, "Disc%", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
			text.NewCol(2, "Taxable", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		)
	} else {
		m.AddRow(8,
			text.NewCol(5, "Item", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(1, "HSN", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
			text.NewCol(1, "UOM", props.Text{Style: fontstyle.Bold, Size: 8}),
			text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
			text.NewCol(2, "Taxable", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		)
	}

	for _, l := range vm.Lines {
		name := l.ItemName
		if l.ItemCode != "" {
			name = l.ItemCode + " " + name
		}
		if vm.HasDiscount {
			m.AddRow(7,
				text.NewCol(4, name, props.Text{Size: 8}),
				text.NewCol(1, l.HSN, props.Text{Size: 8}),
				text.NewCol(1, fmt.Sprintf("%g", l.Qty), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(1, l.UOM, props.Text{Size: 8}),
				text.NewCol(2, money(l.Rate), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(1, fmt.Sprintf("%g", l.DiscountPercent), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(2, money(l.TaxableAmount), props.Text{Size: 8, Align: align.Right}),
			)
		} else {
			m.AddRow(7,
				text.NewCol(5, name, props.Text{Size: 8}),
				text.NewCol(1, l.HSN, props.Text{Size: 8}),
				text.NewCol(1, fmt.Sprintf("%g", l.Qty), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(1, l.UOM, props.Text{Size: 8}),
				text.NewCol(2, money(l.Rate), props.Text{Size: 8, Align: align.Right}),
				text.NewCol(2, money(l.TaxableAmount), props.Text{Size: 8, Align: align.Right}),
			)
		}
	}

	// Tax table grouped by HSN and rate.
	m.AddRow(8,
		text.NewCol(2, "HSN", props.Text{Style: fontstyle.Bold, Size: 8}),
		text.NewCol(2, "GST%", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(2, "Taxable", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(2, "CGST", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(2, "SGST", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
		text.NewCol(2, "IGST", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right}),
	)
	for _, g := range vm.TaxGroups {
		m.AddRow(7,
			text.NewCol(2, g.HSN, props.Text{Size: 8}),
			text.NewCol(2, fmt.Sprintf("%g", g.GSTPercent), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(g.Taxable), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(g.CGST), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(g.SGST), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, money(g.IGST), props.Text{Size: 8, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Subtotal", props.Text{Size: 9}),
		text.NewCol(3, money(vm.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Tax", props.Text{Size: 9}),
		text.NewCol(3, money(vm.TaxTotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(3, "Grand Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, money(vm.GrandTotal), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	terms := termsBlock(vm)
	if len(terms) > 0 {
		block := col.New(12)
		for i, line := range terms {
			block.Add(text.New(line, props.Text{Top: float64(i * 4), Size: 8}))
		}
		m.AddRow(float64(len(terms)*4+6), block)
	}

	if vm.CreatorName != "" {
		m.AddRow(12,
			col.New(8),
			text.NewCol(4, "Prepared by: "+vm.CreatorName, props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func termsBlock(vm *services.DocumentViewModel) []string {
	var out []string
	if vm.PaymentTerms != "" {
		out = append(out, "Payment Terms: "+vm.PaymentTerms)
	}
	if vm.DeliveryTerms != "" {
		out = append(out, "Delivery Terms: "+vm.DeliveryTerms)
	}
	if vm.DocType == models.DocTypeSOA && vm.TermsAndConditions != "" {
		out = append(out, "Terms & Conditions: "+vm.TermsAndConditions)
	}
	if vm.Remarks != "" {
		out = append(out, "Remarks: "+vm.Remarks)
	}
	return out
}
