package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/models"
)

// Grid markers for the Turkish remittance layout. All comparisons go through
// normalizeText, so the source spreadsheet may use any casing, accents or
// spacing around these.
const (
	disclaimerMarker    = "odeme bildirimi"
	paymentStartMarker  = "lehtar"
	invoiceHeaderMarker = "fatura numarasi"

	disclaimerScanRows = 40
	paymentBlockRows   = 7
	invoiceTableCols   = 6
)

// Canonical payment block field names.
const (
	fieldPayee          = "payee"
	fieldSupplierNumber = "supplierNumber"
	fieldVendorSite     = "vendorSite"
	fieldPaymentNumber  = "paymentNumber"
	fieldPaymentDate    = "paymentDate"
	fieldCurrency       = "currency"
	fieldPaymentAmount  = "paymentAmount"
)

// paymentFieldLabels maps normalized label prefixes to canonical field names.
// Evaluated in order; the first prefix match wins.
var paymentFieldLabels = []struct {
	prefix string
	field  string
}{
	{"lehtar", fieldPayee},
	{"satici no", fieldSupplierNumber},
	{"satici yeri", fieldVendorSite},
	{"odeme belgesi", fieldPaymentNumber},
	{"odeme tarihi", fieldPaymentDate},
	{"para birimi", fieldCurrency},
	{"odeme tutari", fieldPaymentAmount},
}

// paymentFieldOrder is the positional fallback: when a label does not resolve
// through the lookup table, the row's position inside the block decides.
var paymentFieldOrder = []string{
	fieldPayee,
	fieldSupplierNumber,
	fieldVendorSite,
	fieldPaymentNumber,
	fieldPaymentDate,
	fieldCurrency,
	fieldPaymentAmount,
}

// turkishAccents folds the Turkish letters that appear in remittance headers
// down to ASCII so marker matching survives inconsistent exports.
var turkishAccents = strings.NewReplacer(
	"ı", "i", "İ", "i", "ş", "s", "Ş", "s", "ç", "c", "Ç", "c",
	"ö", "o", "Ö", "o", "ü", "u", "Ü", "u", "ğ", "g", "Ğ", "g",
)

// normalizeText lower-cases, strips accents and collapses whitespace. Every
// marker and label comparison in the parser runs on this form.
func normalizeText(s string) string {
	s = turkishAccents.Replace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// RemittanceParser recovers payment and invoice line data from a raw
// spreadsheet grid: repeating sections of a 7-row payment block followed by an
// invoice table, anchored by the disclaimer header each section repeats.
type RemittanceParser struct {
	classifier *Classifier
	logger     *zap.Logger
}

// NewRemittanceParser creates a parser that classifies each extracted line
// with the given classifier.
func NewRemittanceParser(classifier *Classifier, logger *zap.Logger) *RemittanceParser {
	return &RemittanceParser{
		classifier: classifier,
		logger:     logger,
	}
}

// Parse extracts all payment records from the grid. The only hard
// precondition is the disclaimer marker in the header region; every other
// structural irregularity degrades to fewer records, never to an error.
func (p *RemittanceParser) Parse(grid [][]string) models.ParsingResult {
	if !p.hasDisclaimer(grid) {
		return models.ParsingResult{
			IsValid: false,
			Records: []models.PaymentRecord{},
			Message: "Not a remittance advice: disclaimer marker not found in the document header",
		}
	}

	records := p.extractSections(grid)
	if len(records) == 0 {
		return models.ParsingResult{
			IsValid: false,
			Records: []models.PaymentRecord{},
			Message: "Disclaimer found but no payment section with invoice lines could be extracted",
		}
	}

	records = groupAndBalance(records)

	p.logger.Info("Remittance grid parsed",
		zap.Int("records", len(records)))

	return models.ParsingResult{
		IsValid: true,
		Records: records,
		Message: fmt.Sprintf("Successfully parsed %d records", len(records)),
	}
}

// hasDisclaimer checks the first 40 rows of column 0 for the disclaimer
// marker.
func (p *RemittanceParser) hasDisclaimer(grid [][]string) bool {
	limit := disclaimerScanRows
	if len(grid) < limit {
		limit = len(grid)
	}
	for r := 0; r < limit; r++ {
		if strings.Contains(normalizeText(cellAt(grid, r, 0)), disclaimerMarker) {
			return true
		}
	}
	return false
}

// extractSections walks the grid section by section. The cursor strictly
// advances past each consumed (or empty) section, so the loop always
// terminates.
func (p *RemittanceParser) extractSections(grid [][]string) []models.PaymentRecord {
	var records []models.PaymentRecord

	cursor := 0
	for {
		anchorRow, anchorCol, ok := findDisclaimerAnchor(grid, cursor)
		if !ok {
			break
		}

		startRow, ok := findPaymentStart(grid, anchorRow, anchorCol)
		if !ok {
			cursor = anchorRow + 1
			continue
		}

		fields := p.extractPaymentBlock(grid, startRow, anchorCol)

		headerRow, markerCol, ok := findInvoiceHeader(grid, startRow+paymentBlockRows)
		if !ok {
			cursor = startRow + paymentBlockRows
			continue
		}

		cols := collectTableColumns(grid, headerRow, markerCol)
		rows, nextRow := p.extractTableRows(grid, headerRow, cols, fields)
		records = append(records, rows...)
		cursor = nextRow
	}

	return records
}

// extractPaymentBlock reads the fixed 7-row window of labeled payment fields.
// Each row resolves its label through the lookup table first and its block
// position second.
func (p *RemittanceParser) extractPaymentBlock(grid [][]string, startRow, anchorCol int) map[string]string {
	fields := make(map[string]string, paymentBlockRows)

	labelStart := anchorCol - 2
	if labelStart < 0 {
		labelStart = 0
	}

	for i := 0; i < paymentBlockRows; i++ {
		row := rowAt(grid, startRow+i)
		label, labelCol, ok := findLabelCell(row, labelStart)
		if !ok {
			label, labelCol, ok = findLabelCell(row, 0)
		}
		if !ok {
			continue
		}
		field := resolvePaymentField(label, i)
		if field == "" {
			continue
		}
		fields[field] = nextValueRight(row, labelCol)
	}
	return fields
}

// extractTableRows reads invoice rows until a fully blank row among the table
// columns ends the table. Returns the records and the row the cursor should
// advance to.
func (p *RemittanceParser) extractTableRows(grid [][]string, headerRow int, cols []int, fields map[string]string) ([]models.PaymentRecord, int) {
	var records []models.PaymentRecord

	r := headerRow + 1
	for ; r < len(grid); r++ {
		values := make([]string, invoiceTableCols)
		empty := true
		for i, col := range cols {
			if i >= invoiceTableCols {
				break
			}
			v := strings.TrimSpace(cellAt(grid, r, col))
			values[i] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			break
		}
		records = append(records, p.buildRecord(values, fields))
	}

	if len(records) == 0 {
		return nil, headerRow + 1
	}
	return records, r
}

// buildRecord merges one table row with the section's payment fields and
// classifies it.
func (p *RemittanceParser) buildRecord(values []string, fields map[string]string) models.PaymentRecord {
	rec := models.PaymentRecord{
		Payee:          fields[fieldPayee],
		SupplierNumber: fields[fieldSupplierNumber],
		VendorSite:     fields[fieldVendorSite],
		PaymentNumber:  fields[fieldPaymentNumber],
		PaymentDate:    fields[fieldPaymentDate],
		Currency:       fields[fieldCurrency],
		PaymentAmount:  fields[fieldPaymentAmount],
		InvoiceNumber:  values[0],
		InvoiceDate:    values[1],
		Description:    values[2],
		Discount:       values[3],
		Credit:         values[4],
		Debit:          values[5],
	}
	rec.InvoiceType = p.classifier.Classify(rec.InvoiceNumber, rec.Description)
	rec.PONumber = p.classifier.ExtractPurchaseOrder(rec.Description)
	return rec
}

// findDisclaimerAnchor locates the next disclaimer occurrence anywhere in the
// grid at or below the cursor row.
func findDisclaimerAnchor(grid [][]string, fromRow int) (row, col int, ok bool) {
	for r := fromRow; r < len(grid); r++ {
		for c := range grid[r] {
			if strings.Contains(normalizeText(grid[r][c]), disclaimerMarker) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// findPaymentStart locates the payment section start label at or below the
// anchor: same column first, then a full-grid fallback scan.
func findPaymentStart(grid [][]string, anchorRow, anchorCol int) (int, bool) {
	for r := anchorRow; r < len(grid); r++ {
		if strings.HasPrefix(normalizeText(cellAt(grid, r, anchorCol)), paymentStartMarker) {
			return r, true
		}
	}
	for r := anchorRow; r < len(grid); r++ {
		for c := range grid[r] {
			if strings.HasPrefix(normalizeText(grid[r][c]), paymentStartMarker) {
				return r, true
			}
		}
	}
	return 0, false
}

// findInvoiceHeader scans downward for the invoice table header cell.
func findInvoiceHeader(grid [][]string, fromRow int) (row, col int, ok bool) {
	for r := fromRow; r < len(grid); r++ {
		for c := range grid[r] {
			if strings.HasPrefix(normalizeText(grid[r][c]), invoiceHeaderMarker) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// collectTableColumns gathers up to 6 columns with non-empty header cells,
// scanning rightward from the marker column.
func collectTableColumns(grid [][]string, headerRow, markerCol int) []int {
	row := rowAt(grid, headerRow)
	cols := make([]int, 0, invoiceTableCols)
	for c := markerCol; c < len(row) && len(cols) < invoiceTableCols; c++ {
		if strings.TrimSpace(row[c]) != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// findLabelCell returns the first non-empty cell of the row at or after
// startCol.
func findLabelCell(row []string, startCol int) (label string, col int, ok bool) {
	for c := startCol; c < len(row); c++ {
		if strings.TrimSpace(row[c]) != "" {
			return row[c], c, true
		}
	}
	return "", 0, false
}

// resolvePaymentField is the two-stage label resolution: normalized-prefix
// lookup first, positional fallback second.
func resolvePaymentField(label string, rowIndex int) string {
	normalized := normalizeText(label)
	for _, entry := range paymentFieldLabels {
		if strings.HasPrefix(normalized, entry.prefix) {
			return entry.field
		}
	}
	if rowIndex >= 0 && rowIndex < len(paymentFieldOrder) {
		return paymentFieldOrder[rowIndex]
	}
	return ""
}

// nextValueRight returns the first non-empty cell to the right of the label
// column.
func nextValueRight(row []string, labelCol int) string {
	for c := labelCol + 1; c < len(row); c++ {
		if v := strings.TrimSpace(row[c]); v != "" {
			return v
		}
	}
	return ""
}

// groupAndBalance groups records by (paymentNumber, paymentDate) preserving
// extraction order, folds a signed running balance over each group (credit
// adds, debit subtracts) and closes every group with one synthetic outbound
// transfer record carrying the net movement.
func groupAndBalance(records []models.PaymentRecord) []models.PaymentRecord {
	type group struct {
		key     string
		members []models.PaymentRecord
	}

	index := make(map[string]int)
	var groups []group
	for _, rec := range records {
		key := rec.PaymentNumber + "|" + rec.PaymentDate
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].members = append(groups[i].members, rec)
	}

	out := make([]models.PaymentRecord, 0, len(records)+len(groups))
	for _, g := range groups {
		running := decimal.Zero
		for _, rec := range g.members {
			running = running.Add(models.ParseAmount(rec.Credit)).Sub(models.ParseAmount(rec.Debit))
			rec.Balance = models.FormatAmount(running)
			out = append(out, rec)
		}
		out = append(out, transferRecord(g.members[0], running))
	}
	return out
}

// transferRecord builds the synthetic net-movement row for one payment group.
// A positive running total means funds were net paid out, which books as a
// debit; otherwise the net books as a credit.
func transferRecord(first models.PaymentRecord, net decimal.Decimal) models.PaymentRecord {
	rec := models.PaymentRecord{
		Payee:          first.Payee,
		SupplierNumber: first.SupplierNumber,
		VendorSite:     first.VendorSite,
		PaymentNumber:  first.PaymentNumber,
		PaymentDate:    first.PaymentDate,
		Currency:       first.Currency,
		PaymentAmount:  first.PaymentAmount,
		Description:    transferMarkerPrefix,
		InvoiceType:    models.CategoryOutboundTransfer,
		Balance:        models.FormatAmount(decimal.Zero),
	}
	amount := models.FormatAmount(net.Abs())
	if net.IsPositive() {
		rec.Debit = amount
	} else {
		rec.Credit = amount
	}
	return rec
}

// cellAt reads a cell defensively; ragged rows and out-of-range indexes read
// as empty.
func cellAt(grid [][]string, r, c int) string {
	if r < 0 || r >= len(grid) {
		return ""
	}
	row := grid[r]
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

func rowAt(grid [][]string, r int) []string {
	if r < 0 || r >= len(grid) {
		return nil
	}
	return grid[r]
}
