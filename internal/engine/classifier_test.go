package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finekra/remittance-recon/internal/models"
)

func TestClassifier_Classify(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name          string
		invoiceNumber string
		description   string
		expected      models.InvoiceCategory
	}{
		{
			name:          "outbound transfer marker wins over everything",
			invoiceNumber: "GIDEN HAVALE P100",
			description:   "toptan satış IST2",
			expected:      models.CategoryOutboundTransfer,
		},
		{
			name:          "cooperative agreement keyword pre-empts return heuristic",
			invoiceNumber: "RT00001",
			description:   "karşılıklı anlaşma kapsamında iade",
			expected:      models.CategoryCooperation,
		},
		{
			name:          "manual correction fallback",
			invoiceNumber: "DOC0000000000009",
			description:   "manuel düzeltme IST1",
			expected:      models.CategoryDataIssue,
		},
		{
			name:          "shortage claim reversal is not a plain claim",
			invoiceNumber: "DOC0000000000001SCR",
			description:   "",
			expected:      models.CategoryShortageClaimRev,
		},
		{
			name:          "shortage claim suffix",
			invoiceNumber: "DOC0000000000001SC",
			description:   "",
			expected:      models.CategoryShortageClaim,
		},
		{
			name:          "price claim reversal suffix",
			invoiceNumber: "DOC0000000000001PCR",
			description:   "",
			expected:      models.CategoryPriceClaimRev,
		},
		{
			name:          "price claim suffix",
			invoiceNumber: "DOC0000000000001PC",
			description:   "",
			expected:      models.CategoryPriceClaim,
		},
		{
			name:          "archived variance prefix beats live prefix",
			invoiceNumber: "XQV0001",
			description:   "",
			expected:      models.CategoryArchivedVariance,
		},
		{
			name:          "quantity variance prefix",
			invoiceNumber: "QV0001",
			description:   "fark düzeltme FOR DOC0000000000001",
			expected:      models.CategoryQuantityVariance,
		},
		{
			name:          "price variance prefix",
			invoiceNumber: "PV0001",
			description:   "",
			expected:      models.CategoryPriceVariance,
		},
		{
			name:          "wholesale needs facility keyword and 16 characters",
			invoiceNumber: "DOC0000000000001",
			description:   "toptan satış ABC123/IST2",
			expected:      models.CategoryWholesale,
		},
		{
			name:          "facility keyword alone is not wholesale",
			invoiceNumber: "DOC001",
			description:   "toptan satış ABC123/IST2",
			expected:      models.CategoryUnclassified,
		},
		{
			name:          "cooperation by keyword",
			invoiceNumber: "DOC0000000000003",
			description:   "ticari işbirliği bedeli",
			expected:      models.CategoryCooperation,
		},
		{
			name:          "cooperation by prefix",
			invoiceNumber: "CC12345",
			description:   "",
			expected:      models.CategoryCooperation,
		},
		{
			name:          "cooperation by suffix with back-reference",
			invoiceNumber: "DOC0000000000004CB",
			description:   "REF DOC0000000000001",
			expected:      models.CategoryCooperation,
		},
		{
			name:          "cooperation suffix without back-reference falls through",
			invoiceNumber: "DOC0000000000004CB",
			description:   "serbest metin",
			expected:      models.CategoryUnclassified,
		},
		{
			name:          "return by keyword",
			invoiceNumber: "DOC0000000000005",
			description:   "iade faturası",
			expected:      models.CategoryReturn,
		},
		{
			name:          "return by prefix",
			invoiceNumber: "RT00002",
			description:   "",
			expected:      models.CategoryReturn,
		},
		{
			name:          "provision keyword",
			invoiceNumber: "DOC0000000000006",
			description:   "karşılık ayrılması",
			expected:      models.CategoryProvision,
		},
		{
			name:          "bank fee keyword",
			invoiceNumber: "DOC0000000000007",
			description:   "banka masrafı kesintisi",
			expected:      models.CategoryBankFee,
		},
		{
			name:          "internal transfer keyword",
			invoiceNumber: "DOC0000000000008",
			description:   "virman kaydı",
			expected:      models.CategoryInternalTransfer,
		},
		{
			name:          "accounts receivable keyword",
			invoiceNumber: "DOC0000000000010",
			description:   "alacak dekontu",
			expected:      models.CategoryAccountsReceivable,
		},
		{
			name:          "dispute keyword",
			invoiceNumber: "DOC0000000000011",
			description:   "itiraz süreci",
			expected:      models.CategoryDispute,
		},
		{
			name:          "variance clearing keyword",
			invoiceNumber: "DOC0000000000012",
			description:   "miktar farkı kapatma",
			expected:      models.CategoryVarianceClearing,
		},
		{
			name:          "nothing matches",
			invoiceNumber: "DOC001",
			description:   "serbest metin",
			expected:      models.CategoryUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.invoiceNumber, tt.description))
		})
	}
}

func TestClassifier_ClassifyIsPure(t *testing.T) {
	classifier := NewClassifier()

	inv := "DOC0000000000001SC"
	desc := "toptan satış ABC123/IST2"

	first := classifier.Classify(inv, desc)
	// Interleave unrelated classifications; the outcome must not drift.
	classifier.Classify("QV0001", "FOR DOC0000000000001")
	classifier.Classify("RT00002", "iade")
	second := classifier.Classify(inv, desc)

	assert.Equal(t, first, second)
	assert.Equal(t, models.CategoryShortageClaim, second)
}

func TestClassifier_ExtractPurchaseOrder(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name        string
		description string
		expected    string
	}{
		{
			name:        "token before facility code",
			description: "toptan satış ABC123/IST2 DOC0000000000001",
			expected:    "ABC123",
		},
		{
			name:        "lower case input",
			description: "abc123/ist2",
			expected:    "ABC123",
		},
		{
			name:        "unknown facility code",
			description: "ABC123/ANK1",
			expected:    "",
		},
		{
			name:        "no purchase order",
			description: "serbest metin",
			expected:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.ExtractPurchaseOrder(tt.description))
		})
	}
}
