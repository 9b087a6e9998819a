package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/models"
)

func newTestMatcher() *ThreeWayMatcher {
	return NewThreeWayMatcher(DefaultMatcherConfig(), zap.NewNop())
}

func sale(invoiceNumber, date, credit, poNumber string) models.PaymentRecord {
	return models.PaymentRecord{
		InvoiceNumber: invoiceNumber,
		InvoiceDate:   date,
		Credit:        credit,
		PONumber:      poNumber,
		Description:   "toptan satış " + invoiceNumber,
		InvoiceType:   models.CategoryWholesale,
	}
}

func variance(date, debit, poNumber, parent string) models.PaymentRecord {
	return models.PaymentRecord{
		InvoiceNumber: "QV0001",
		InvoiceDate:   date,
		Debit:         debit,
		PONumber:      poNumber,
		Description:   "miktar farkı düzeltmesi FOR " + parent,
		InvoiceType:   models.CategoryQuantityVariance,
	}
}

func TestThreeWayMatcher_StrictNeedsMatchingPO(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.PaymentRecord{
		variance("01-JAN-2024", "200.00", "PO1", "DOC0000000000001"),
		sale("DOC0000000000055", "05-FEB-2024", "200.79", "PO1"),
		sale("DOC0000000000056", "05-FEB-2024", "200.79", "PO2"),
	}

	results := matcher.MatchVarianceToSales(records, models.CategoryQuantityVariance)

	require.Len(t, results, 1)
	r := results[0]

	assert.Equal(t, "DOC0000000000001", r.ParentInvoiceCandidate)
	assert.Equal(t, "PO1#200.00", r.MatchKey)
	assert.Equal(t, "DOC0000000000055", r.MatchedParents)
	assert.Equal(t, "DOC0000000000055, DOC0000000000056", r.WorstCaseMatches)
}

func TestThreeWayMatcher_AmountToleranceBoundary(t *testing.T) {
	matcher := newTestMatcher()

	tests := []struct {
		name       string
		saleAmount string
		matched    bool
	}{
		{"difference of exactly 0.80 is included", "200.80", true},
		{"difference of 0.81 is excluded", "200.81", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []models.PaymentRecord{
				variance("01-JAN-2024", "200.00", "PO1", "DOC0000000000001"),
				sale("DOC0000000000055", "05-FEB-2024", tt.saleAmount, "PO1"),
			}

			results := matcher.MatchVarianceToSales(records, models.CategoryQuantityVariance)

			require.Len(t, results, 1)
			if tt.matched {
				assert.Equal(t, "DOC0000000000055", results[0].MatchedParents)
			} else {
				assert.Empty(t, results[0].MatchedParents)
				assert.Empty(t, results[0].WorstCaseMatches)
			}
		})
	}
}

func TestThreeWayMatcher_SalesWindowBoundary(t *testing.T) {
	matcher := newTestMatcher()

	tests := []struct {
		name     string
		saleDate string
		matched  bool
	}{
		{"sale exactly 33 days later is included", "03-FEB-2024", true},
		{"sale 32 days later is excluded", "02-FEB-2024", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []models.PaymentRecord{
				variance("01-JAN-2024", "200.00", "PO1", "DOC0000000000001"),
				sale("DOC0000000000055", tt.saleDate, "200.00", "PO1"),
			}

			results := matcher.MatchVarianceToSales(records, models.CategoryQuantityVariance)

			require.Len(t, results, 1)
			if tt.matched {
				assert.Equal(t, "DOC0000000000055", results[0].MatchedParents)
			} else {
				assert.Empty(t, results[0].MatchedParents)
			}
		})
	}
}

func TestThreeWayMatcher_ResolvesPOFromParentLookup(t *testing.T) {
	matcher := newTestMatcher()

	// The variance carries no PO of its own; it resolves through the sales
	// invoice its description references.
	parent := sale("DOC0000000000001", "05-FEB-2024", "200.00", "PO1")
	records := []models.PaymentRecord{
		variance("01-JAN-2024", "200.00", "", "DOC0000000000001"),
		parent,
	}

	results := matcher.MatchVarianceToSales(records, models.CategoryQuantityVariance)

	require.Len(t, results, 1)
	assert.Equal(t, "PO1#200.00", results[0].MatchKey)
	assert.Equal(t, "DOC0000000000001", results[0].MatchedParents)
}

func TestThreeWayMatcher_NoPOMeansNoStrictMatches(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.PaymentRecord{
		variance("01-JAN-2024", "200.00", "", "DOC0000000000099"),
		sale("DOC0000000000055", "05-FEB-2024", "200.00", ""),
	}

	results := matcher.MatchVarianceToSales(records, models.CategoryQuantityVariance)

	require.Len(t, results, 1)
	assert.Empty(t, results[0].MatchedParents)
	assert.Equal(t, "DOC0000000000055", results[0].WorstCaseMatches)
}

func TestThreeWayMatcher_UnparsableDateYieldsEmptyLists(t *testing.T) {
	matcher := newTestMatcher()

	records := []models.PaymentRecord{
		variance("bozuk tarih", "200.00", "PO1", "DOC0000000000001"),
		sale("DOC0000000000055", "05-FEB-2024", "200.00", "PO1"),
	}

	results := matcher.MatchVarianceToSales(records, models.CategoryQuantityVariance)

	require.Len(t, results, 1)
	assert.Empty(t, results[0].MatchedParents)
	assert.Empty(t, results[0].WorstCaseMatches)
	assert.Equal(t, "PO1#200.00", results[0].MatchKey)
}

func TestThreeWayMatcher_PriceVarianceUsesSameRoutine(t *testing.T) {
	matcher := newTestMatcher()

	pv := models.PaymentRecord{
		InvoiceNumber: "PV0001",
		InvoiceDate:   "01-JAN-2024",
		Debit:         "200.00",
		PONumber:      "PO1",
		Description:   "fiyat farkı düzeltmesi FOR DOC0000000000001",
		InvoiceType:   models.CategoryPriceVariance,
	}
	records := []models.PaymentRecord{
		pv,
		sale("DOC0000000000055", "05-FEB-2024", "200.00", "PO1"),
	}

	qv := matcher.MatchVarianceToSales(records, models.CategoryQuantityVariance)
	assert.Empty(t, qv)

	results := matcher.MatchVarianceToSales(records, models.CategoryPriceVariance)
	require.Len(t, results, 1)
	assert.Equal(t, "DOC0000000000055", results[0].MatchedParents)
}
