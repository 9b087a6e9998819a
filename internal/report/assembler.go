// Package report shapes reconciliation output into sheet-ready rows and
// writes the styled multi-sheet workbook. The localized header order is the
// contract with downstream consumers; field positions must not change.
package report

import (
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/models"
)

// Sheet is one report tab: a name, a header row and data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Report sheet names.
const (
	SheetAllRecords      = "Tüm Kayıtlar"
	SheetActiveInvoices  = "Aktif Faturalar"
	SheetQuantityMatches = "Miktar Farkı Eşleştirme"
	SheetPriceMatches    = "Fiyat Farkı Eşleştirme"
)

// recordHeaders maps PaymentRecord fields to report columns, in the fixed
// localized order.
var recordHeaders = []string{
	"Lehtar",
	"Satıcı No",
	"Satıcı Yeri",
	"Ödeme Belgesi",
	"Ödeme Tarihi",
	"Para Birimi",
	"Ödeme Tutarı",
	"Fatura Numarası",
	"Fatura Tarihi",
	"PO Numarası",
	"Açıklama",
	"İskonto",
	"Alacak",
	"Borç",
	"Fatura Tipi",
	"Bakiye",
}

// matchHeaders extends the record columns with the matcher's derived fields.
var matchHeaders = append(append([]string{}, recordHeaders...),
	"Ana Fatura Adayı",
	"Eşleşme Anahtarı",
	"Eşleşen Faturalar",
	"Geniş Eşleşmeler",
)

// Assembler turns engine output into report sheets.
type Assembler struct {
	logger *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(logger *zap.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble builds the four report sheets from the engine outputs.
func (a *Assembler) Assemble(records, active []models.PaymentRecord, quantity, price []models.PqvMatchResult) []Sheet {
	sheets := []Sheet{
		{Name: SheetAllRecords, Headers: recordHeaders, Rows: recordRows(records)},
		{Name: SheetActiveInvoices, Headers: recordHeaders, Rows: recordRows(active)},
		{Name: SheetQuantityMatches, Headers: matchHeaders, Rows: matchRows(quantity)},
		{Name: SheetPriceMatches, Headers: matchHeaders, Rows: matchRows(price)},
	}

	a.logger.Debug("Report assembled",
		zap.Int("records", len(records)),
		zap.Int("active", len(active)),
		zap.Int("quantity_matches", len(quantity)),
		zap.Int("price_matches", len(price)))

	return sheets
}

func recordRows(records []models.PaymentRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordRow(rec))
	}
	return rows
}

func recordRow(rec models.PaymentRecord) []string {
	return []string{
		rec.Payee,
		rec.SupplierNumber,
		rec.VendorSite,
		rec.PaymentNumber,
		rec.PaymentDate,
		rec.Currency,
		rec.PaymentAmount,
		rec.InvoiceNumber,
		rec.InvoiceDate,
		rec.PONumber,
		rec.Description,
		rec.Discount,
		rec.Credit,
		rec.Debit,
		string(rec.InvoiceType),
		rec.Balance,
	}
}

func matchRows(results []models.PqvMatchResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		row := recordRow(res.PaymentRecord)
		row = append(row,
			res.ParentInvoiceCandidate,
			res.MatchKey,
			res.MatchedParents,
			res.WorstCaseMatches,
		)
		rows = append(rows, row)
	}
	return rows
}
