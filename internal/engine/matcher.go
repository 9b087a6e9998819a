package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/models"
)

// parentIDLen is the length of the sales invoice back-reference at the tail
// of a description.
const parentIDLen = 16

// MatcherConfig tunes the candidate filter. The defaults are the regional
// settlement convention: sales post at least 33 days after the variance's
// reference date, and amounts agree within 0.80.
type MatcherConfig struct {
	SalesWindowDays int
	AmountTolerance float64
}

// DefaultMatcherConfig returns the standard window and tolerance.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		SalesWindowDays: 33,
		AmountTolerance: 0.80,
	}
}

// ThreeWayMatcher associates variance-correction records with the sales
// invoice they adjust. There is no foreign key between the two; the match is
// a date-window plus amount-tolerance heuristic over a sales index.
type ThreeWayMatcher struct {
	config MatcherConfig
	logger *zap.Logger
}

// NewThreeWayMatcher creates a matcher.
func NewThreeWayMatcher(config MatcherConfig, logger *zap.Logger) *ThreeWayMatcher {
	if config.SalesWindowDays == 0 && config.AmountTolerance == 0 {
		config = DefaultMatcherConfig()
	}
	return &ThreeWayMatcher{config: config, logger: logger}
}

type salesCandidate struct {
	parentID string
	poNumber string
	amount   decimal.Decimal
	saleDate time.Time
}

// MatchVarianceToSales produces one PqvMatchResult per record of the given
// variance category. Quantity and price variances share the same routine.
func (m *ThreeWayMatcher) MatchVarianceToSales(records []models.PaymentRecord, category models.InvoiceCategory) []models.PqvMatchResult {
	sales := buildSalesIndex(records)

	poByParent := make(map[string]string, len(sales))
	for _, s := range sales {
		if s.poNumber != "" {
			poByParent[s.parentID] = s.poNumber
		}
	}

	tolerance := decimal.NewFromFloat(m.config.AmountTolerance)

	var results []models.PqvMatchResult
	for _, rec := range records {
		if rec.InvoiceType != category {
			continue
		}

		parentID := trailingParentID(rec.Description)
		poNumber := rec.PONumber
		if poNumber == "" {
			poNumber = poByParent[parentID]
		}
		amount := recordAmount(rec.Credit, rec.Debit)

		result := models.PqvMatchResult{
			PaymentRecord:          rec,
			ParentInvoiceCandidate: parentID,
			MatchKey:               fmt.Sprintf("%s#%s", poNumber, amount.StringFixed(2)),
		}

		// An unparsable reference date yields empty match lists, not an error.
		if refDate, ok := models.ParseDate(rec.InvoiceDate); ok {
			minSalesDate := refDate.AddDate(0, 0, m.config.SalesWindowDays)

			var strict, loose []string
			for _, s := range sales {
				if s.saleDate.Before(minSalesDate) {
					continue
				}
				if s.amount.Sub(amount).Abs().GreaterThan(tolerance) {
					continue
				}
				loose = append(loose, s.parentID)
				if poNumber != "" && s.poNumber == poNumber {
					strict = append(strict, s.parentID)
				}
			}
			result.MatchedParents = strings.Join(strict, ", ")
			result.WorstCaseMatches = strings.Join(loose, ", ")
		}

		results = append(results, result)
	}

	m.logger.Debug("Variance matching finished",
		zap.String("category", string(category)),
		zap.Int("results", len(results)))

	return results
}

// buildSalesIndex collects all wholesale sales with a parseable invoice date.
func buildSalesIndex(records []models.PaymentRecord) []salesCandidate {
	var sales []salesCandidate
	for _, rec := range records {
		if rec.InvoiceType != models.CategoryWholesale {
			continue
		}
		date, ok := models.ParseDate(rec.InvoiceDate)
		if !ok {
			continue
		}
		sales = append(sales, salesCandidate{
			parentID: trailingParentID(rec.Description),
			poNumber: rec.PONumber,
			amount:   recordAmount(rec.Credit, rec.Debit),
			saleDate: date,
		})
	}
	return sales
}

// trailingParentID derives a parent invoice id from the trailing 16
// characters of the trimmed description.
func trailingParentID(description string) string {
	d := strings.ToUpper(strings.TrimSpace(description))
	if len(d) <= parentIDLen {
		return d
	}
	return d[len(d)-parentIDLen:]
}

// recordAmount is the larger magnitude of a record's credit and debit.
func recordAmount(credit, debit string) decimal.Decimal {
	c := models.ParseAmount(credit).Abs()
	d := models.ParseAmount(debit).Abs()
	if c.GreaterThanOrEqual(d) {
		return c
	}
	return d
}
