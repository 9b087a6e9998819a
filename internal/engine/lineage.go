package engine

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/models"
)

// claimSuffixes are the correction suffixes stripped when reducing an invoice
// number to its root. Longest first, so "SCR" never strips as "SC" + dangling R.
var claimSuffixes = []string{
	shortageClaimRevSuffix, // SCR
	priceClaimRevSuffix,    // PCR
	shortageClaimSuffix,    // SC
	priceClaimSuffix,       // PC
}

// reversalSuffixes is the literal vocabulary that marks an invoice as
// reversed. Shortage reversals are covered to three chain depths, price
// reversals to one; the list is intentionally asymmetric and must not be
// generalized.
var reversalSuffixes = []string{
	"SCSCSCR",
	"SCSCR",
	shortageClaimRevSuffix,
	priceClaimRevSuffix,
}

// variancePrefixes identify correction invoices that adjust another invoice
// rather than standing on their own.
var variancePrefixes = []string{
	archivedQuantityPrefix,
	archivedPricePrefix,
	quantityVariancePrefix,
	priceVariancePrefix,
}

// correctionRefRe captures the trailing "FOR <token>" back-reference a
// variance invoice carries in its description.
var correctionRefRe = regexp.MustCompile(`FOR\s+([A-Z0-9]+)\s*$`)

// LineageResolver compacts correction chains: given the full record list it
// returns only the invoices that are still economically live, dropping every
// line that a later reversal or correction has superseded.
type LineageResolver struct {
	logger *zap.Logger
}

// NewLineageResolver creates a resolver.
func NewLineageResolver(logger *zap.Logger) *LineageResolver {
	return &LineageResolver{logger: logger}
}

type correctionEntry struct {
	record models.PaymentRecord
	root   string
}

// FilterActiveInvoices returns the active subsequence of the record list,
// sorted by invoice date ascending (unparsable dates sort lowest).
func (lr *LineageResolver) FilterActiveInvoices(records []models.PaymentRecord) []models.PaymentRecord {
	// Correction map: referenced invoice number -> the variance record that
	// adjusts it. Variance records never join root groups themselves.
	corrections := make(map[string]correctionEntry)
	var varianceRecords []models.PaymentRecord
	for _, rec := range records {
		if !isVarianceInvoice(rec.InvoiceNumber) {
			continue
		}
		varianceRecords = append(varianceRecords, rec)
		if token, ok := correctionReference(rec.Description); ok {
			corrections[token] = correctionEntry{record: rec, root: stripCorrectionSuffixes(token)}
		}
	}

	// Group the remaining invoices by root number, preserving first-seen
	// root order.
	groupIndex := make(map[string]int)
	var roots []string
	groups := make(map[string][]models.PaymentRecord)
	for _, rec := range records {
		if rec.InvoiceType == models.CategoryOutboundTransfer || isVarianceInvoice(rec.InvoiceNumber) {
			continue
		}
		root := stripCorrectionSuffixes(strings.ToUpper(strings.TrimSpace(rec.InvoiceNumber)))
		if _, seen := groupIndex[root]; !seen {
			groupIndex[root] = len(roots)
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], rec)
	}

	consumedCorrections := make(map[string]bool)
	var active []models.PaymentRecord

	for _, root := range roots {
		members := groups[root]
		sort.SliceStable(members, func(i, j int) bool {
			return len(members[i].InvoiceNumber) < len(members[j].InvoiceNumber)
		})

		numbers := make(map[string]bool, len(members))
		for _, m := range members {
			numbers[strings.ToUpper(strings.TrimSpace(m.InvoiceNumber))] = true
		}

		for _, m := range members {
			inv := strings.ToUpper(strings.TrimSpace(m.InvoiceNumber))
			if inv == root {
				// The original invoice is always live.
				active = append(active, m)
				continue
			}
			if isReversed(inv, root, numbers, corrections) || isTerminal(inv) {
				continue
			}
			active = append(active, m)
		}

		// A correction referencing this chain is itself a live adjustment.
		for token, entry := range corrections {
			if entry.root == root && !consumedCorrections[token] {
				consumedCorrections[token] = true
				active = append(active, entry.record)
			}
		}
	}

	// Orphan corrections: nothing in the feed may be silently dropped.
	appended := make(map[string]bool)
	for token := range consumedCorrections {
		appended[correctionRecordKey(corrections[token].record)] = true
	}
	for _, rec := range varianceRecords {
		key := correctionRecordKey(rec)
		if appended[key] {
			continue
		}
		appended[key] = true
		active = append(active, rec)
	}

	sort.SliceStable(active, func(i, j int) bool {
		return invoiceDateOrEpoch(active[i]).Before(invoiceDateOrEpoch(active[j]))
	})

	lr.logger.Debug("Lineage resolved",
		zap.Int("input", len(records)),
		zap.Int("active", len(active)))

	return active
}

// stripCorrectionSuffixes reduces an invoice number to its root by repeatedly
// removing trailing claim suffixes. Idempotent: stripping a stripped number is
// a no-op.
func stripCorrectionSuffixes(invoiceNumber string) string {
	for {
		stripped := false
		for _, suffix := range claimSuffixes {
			if strings.HasSuffix(invoiceNumber, suffix) && len(invoiceNumber) > len(suffix) {
				invoiceNumber = invoiceNumber[:len(invoiceNumber)-len(suffix)]
				stripped = true
				break
			}
		}
		if !stripped {
			return invoiceNumber
		}
	}
}

// isReversed reports whether the claim this number represents has a matching
// reversal sibling in its root group (root+"SC" is reversed by root+"SCR",
// and so on through the literal suffix list), or a correction invoice
// references this number directly.
func isReversed(invoiceNumber, root string, siblings map[string]bool, corrections map[string]correctionEntry) bool {
	for _, suffix := range reversalSuffixes {
		claim := root + strings.TrimSuffix(suffix, "R")
		if invoiceNumber == claim && siblings[root+suffix] {
			return true
		}
	}
	_, referenced := corrections[invoiceNumber]
	return referenced
}

// isTerminal reports whether the invoice number itself ends in a reversal
// suffix. Reversal rows are not surfaced as active lines; their effect is the
// dropped record they invalidate.
func isTerminal(invoiceNumber string) bool {
	for _, suffix := range reversalSuffixes {
		if strings.HasSuffix(invoiceNumber, suffix) {
			return true
		}
	}
	return false
}

func isVarianceInvoice(invoiceNumber string) bool {
	inv := strings.ToUpper(strings.TrimSpace(invoiceNumber))
	for _, prefix := range variancePrefixes {
		if strings.HasPrefix(inv, prefix) {
			return true
		}
	}
	return false
}

// correctionReference extracts the trailing "FOR <token>" reference from a
// correction description.
func correctionReference(description string) (string, bool) {
	m := correctionRefRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(description)))
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

func correctionRecordKey(rec models.PaymentRecord) string {
	return rec.InvoiceNumber + "|" + rec.InvoiceDate + "|" + rec.Description
}

// invoiceDateOrEpoch sorts unparsable dates lowest rather than erroring.
func invoiceDateOrEpoch(rec models.PaymentRecord) time.Time {
	if t, ok := models.ParseDate(rec.InvoiceDate); ok {
		return t
	}
	return time.Time{}
}
