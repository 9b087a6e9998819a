package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/models"
)

func TestAssembler_SheetShapes(t *testing.T) {
	assembler := NewAssembler(zap.NewNop())

	rec := models.PaymentRecord{
		Payee:         "Acme Tedarik A.Ş.",
		PaymentNumber: "P100",
		PaymentDate:   "01-JAN-2024",
		InvoiceNumber: "DOC0000000000001",
		InvoiceDate:   "01-JAN-2024",
		PONumber:      "ABC123",
		Description:   "toptan satış ABC123/IST2",
		Credit:        "100.00",
		InvoiceType:   models.CategoryWholesale,
		Balance:       "100.00",
	}
	match := models.PqvMatchResult{
		PaymentRecord:          rec,
		ParentInvoiceCandidate: "DOC0000000000001",
		MatchKey:               "ABC123#100.00",
		MatchedParents:         "DOC0000000000055",
		WorstCaseMatches:       "DOC0000000000055, DOC0000000000056",
	}

	sheets := assembler.Assemble(
		[]models.PaymentRecord{rec},
		[]models.PaymentRecord{rec},
		[]models.PqvMatchResult{match},
		nil,
	)

	require.Len(t, sheets, 4)
	assert.Equal(t, SheetAllRecords, sheets[0].Name)
	assert.Equal(t, SheetActiveInvoices, sheets[1].Name)
	assert.Equal(t, SheetQuantityMatches, sheets[2].Name)
	assert.Equal(t, SheetPriceMatches, sheets[3].Name)

	require.Len(t, sheets[0].Rows, 1)
	row := sheets[0].Rows[0]
	require.Len(t, row, len(recordHeaders))

	// Column positions are the wire format: header index n describes cell n.
	headerIndex := func(h string) int {
		for i, header := range sheets[0].Headers {
			if header == h {
				return i
			}
		}
		return -1
	}
	assert.Equal(t, "DOC0000000000001", row[headerIndex("Fatura Numarası")])
	assert.Equal(t, "Toptan Satış", row[headerIndex("Fatura Tipi")])
	assert.Equal(t, "100.00", row[headerIndex("Bakiye")])
	assert.Equal(t, "ABC123", row[headerIndex("PO Numarası")])

	matchRow := sheets[2].Rows[0]
	require.Len(t, matchRow, len(matchHeaders))
	assert.Equal(t, "ABC123#100.00", matchRow[len(recordHeaders)+1])

	assert.Empty(t, sheets[3].Rows)
}
