package engine

import (
	"regexp"
	"strings"

	"github.com/finekra/remittance-recon/internal/models"
)

// Invoice number markers used by the classification rules. These literals are
// the regional remittance convention; changing them changes classification
// outcomes across the whole feed.
const (
	transferMarkerPrefix = "GIDEN HAVALE"

	shortageClaimSuffix    = "SC"
	shortageClaimRevSuffix = "SCR"
	priceClaimSuffix       = "PC"
	priceClaimRevSuffix    = "PCR"

	quantityVariancePrefix    = "QV"
	priceVariancePrefix       = "PV"
	archivedQuantityPrefix    = "XQV"
	archivedPricePrefix       = "XPV"
	wholesaleInvoiceNumberLen = 16
)

// facilityCodes identify fulfillment sites. They double as the wholesale
// keyword set and as the suffix alternatives of the purchase order pattern.
var facilityCodes = []string{"IST1", "IST2", "IST3", "XTR1"}

var (
	purchaseOrderRe = regexp.MustCompile(`([A-Z0-9]+)/(?:IST1|IST2|IST3|XTR1)`)

	// backReferenceRe matches the 16-character invoice back-reference that
	// cooperation and return invoices carry in their description.
	backReferenceRe = regexp.MustCompile(`REF\s+[A-Z0-9]{16}`)
)

// classificationRule is one (predicate, category) pair of the ordered chain.
type classificationRule struct {
	name     string
	category models.InvoiceCategory
	matches  func(invoiceNumber, description string) bool
}

// Classifier maps an (invoice number, description) pair to one invoice
// category. The rule chain is evaluated top to bottom, first match wins;
// several predicates overlap, so the order is part of the business rule and
// must not be rearranged.
type Classifier struct {
	rules []classificationRule
}

// NewClassifier creates a classifier with the full rule chain.
func NewClassifier() *Classifier {
	return &Classifier{rules: buildRules()}
}

// foldUpper upper-cases a copy for rule matching, folding Turkish accents to
// ASCII first so keyword literals match regardless of export encoding.
func foldUpper(s string) string {
	return strings.ToUpper(turkishAccents.Replace(strings.TrimSpace(s)))
}

// Classify returns the category for one invoice line. Matching is
// case-insensitive; the inputs are never mutated.
func (c *Classifier) Classify(invoiceNumber, description string) models.InvoiceCategory {
	inv := foldUpper(invoiceNumber)
	desc := foldUpper(description)

	for _, rule := range c.rules {
		if rule.matches(inv, desc) {
			return rule.category
		}
	}
	return models.CategoryUnclassified
}

// ExtractPurchaseOrder pulls the purchase order token out of a description:
// an alphanumeric run immediately followed by "/" and a facility code.
// Returns "" when the description carries no such token.
func (c *Classifier) ExtractPurchaseOrder(description string) string {
	m := purchaseOrderRe.FindStringSubmatch(foldUpper(description))
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func buildRules() []classificationRule {
	return []classificationRule{
		{
			name:     "outbound transfer marker",
			category: models.CategoryOutboundTransfer,
			matches: func(inv, desc string) bool {
				return strings.HasPrefix(inv, transferMarkerPrefix)
			},
		},
		{
			// A cooperative agreement line pre-empts every other signal,
			// including the return heuristic further down.
			name:     "cooperative agreement keyword",
			category: models.CategoryCooperation,
			matches: func(inv, desc string) bool {
				return strings.Contains(desc, "KARSILIKLI ANLASMA")
			},
		},
		{
			// Known upstream data-quality issue: manually corrected lines are
			// flagged in the description and must not fall into other buckets.
			name:     "manual correction fallback",
			category: models.CategoryDataIssue,
			matches: func(inv, desc string) bool {
				return strings.Contains(desc, "MANUEL DUZELTME")
			},
		},
		{
			// The reversal suffix is a superset of the claim suffix, so it has
			// to be tested first; "...SCR" must not classify as a plain claim.
			name:     "shortage claim reversal suffix",
			category: models.CategoryShortageClaimRev,
			matches: func(inv, desc string) bool {
				return strings.HasSuffix(inv, shortageClaimRevSuffix)
			},
		},
		{
			name:     "shortage claim suffix",
			category: models.CategoryShortageClaim,
			matches: func(inv, desc string) bool {
				return strings.HasSuffix(inv, shortageClaimSuffix)
			},
		},
		{
			name:     "price claim reversal suffix",
			category: models.CategoryPriceClaimRev,
			matches: func(inv, desc string) bool {
				return strings.HasSuffix(inv, priceClaimRevSuffix)
			},
		},
		{
			name:     "price claim suffix",
			category: models.CategoryPriceClaim,
			matches: func(inv, desc string) bool {
				return strings.HasSuffix(inv, priceClaimSuffix)
			},
		},
		{
			// Archived series prefixes extend the live prefixes, test first.
			name:     "archived variance series prefix",
			category: models.CategoryArchivedVariance,
			matches: func(inv, desc string) bool {
				return strings.HasPrefix(inv, archivedQuantityPrefix) ||
					strings.HasPrefix(inv, archivedPricePrefix)
			},
		},
		{
			name:     "quantity variance series prefix",
			category: models.CategoryQuantityVariance,
			matches: func(inv, desc string) bool {
				return strings.HasPrefix(inv, quantityVariancePrefix)
			},
		},
		{
			name:     "price variance series prefix",
			category: models.CategoryPriceVariance,
			matches: func(inv, desc string) bool {
				return strings.HasPrefix(inv, priceVariancePrefix)
			},
		},
		{
			name:     "wholesale sale",
			category: models.CategoryWholesale,
			matches: func(inv, desc string) bool {
				return len(inv) == wholesaleInvoiceNumberLen && containsAny(desc, facilityCodes)
			},
		},
		{
			name:     "commercial cooperation heuristic",
			category: models.CategoryCooperation,
			matches: func(inv, desc string) bool {
				if strings.Contains(desc, "TICARI ISBIRLIGI") {
					return true
				}
				if strings.HasPrefix(inv, "TI") || strings.HasPrefix(inv, "CC") {
					return true
				}
				return strings.HasSuffix(inv, "CB") && backReferenceRe.MatchString(desc)
			},
		},
		{
			name:     "return invoice heuristic",
			category: models.CategoryReturn,
			matches: func(inv, desc string) bool {
				if strings.Contains(desc, "IADE") {
					return true
				}
				if strings.HasPrefix(inv, "RT") || strings.HasPrefix(inv, "RE") {
					return true
				}
				return strings.HasSuffix(inv, "RB") && backReferenceRe.MatchString(desc)
			},
		},
		{
			// "KARSILIK" is a substring of the cooperative agreement keyword;
			// the chain order resolves that overlap.
			name:     "provision keyword",
			category: models.CategoryProvision,
			matches: func(inv, desc string) bool {
				return strings.Contains(desc, "KARSILIK")
			},
		},
		{
			name:     "bank fee keyword",
			category: models.CategoryBankFee,
			matches: func(inv, desc string) bool {
				return strings.Contains(desc, "BANKA MASRAF")
			},
		},
		{
			name:     "internal transfer keyword",
			category: models.CategoryInternalTransfer,
			matches: func(inv, desc string) bool {
				return strings.Contains(desc, "VIRMAN")
			},
		},
		{
			name:     "accounts receivable keyword",
			category: models.CategoryAccountsReceivable,
			matches: func(inv, desc string) bool {
				return strings.Contains(desc, "ALACAK DEKONT")
			},
		},
		{
			name:     "dispute keyword",
			category: models.CategoryDispute,
			matches: func(inv, desc string) bool {
				return strings.Contains(desc, "ITIRAZ")
			},
		},
		{
			name:     "quantity variance clearing keyword",
			category: models.CategoryVarianceClearing,
			matches: func(inv, desc string) bool {
				return strings.Contains(desc, "MIKTAR FARKI KAPATMA")
			},
		},
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
