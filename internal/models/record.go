package models

// PaymentRecord is one reconciled line of a remittance advice: the payment
// batch it belongs to, the invoice or adjustment document it settles, and the
// amounts involved. Amount fields are formatted strings (two decimals,
// thousands-separated) because they travel unchanged to the report layer.
type PaymentRecord struct {
	Payee          string `json:"payee"`
	SupplierNumber string `json:"supplier_number"`
	VendorSite     string `json:"vendor_site"`

	PaymentNumber string `json:"payment_number"`
	PaymentDate   string `json:"payment_date"`
	Currency      string `json:"currency"`
	PaymentAmount string `json:"payment_amount"`

	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	PONumber      string `json:"po_number"`
	Description   string `json:"description"`

	Discount string `json:"discount"`
	Credit   string `json:"credit"`
	Debit    string `json:"debit"`

	InvoiceType InvoiceCategory `json:"invoice_type"`

	// Balance is the running signed total within the owning payment batch.
	// Stamped by the parser only; empty until then, never recomputed downstream.
	Balance string `json:"balance,omitempty"`
}

// ParsingResult is the parser's only output. Downstream components never see
// the raw grid.
type ParsingResult struct {
	IsValid bool            `json:"is_valid"`
	Records []PaymentRecord `json:"records"`
	Message string          `json:"message"`
}

// PqvMatchResult is a variance-correction record annotated with its candidate
// parent sales invoices. Derived, read-only; never feeds back into the record.
type PqvMatchResult struct {
	PaymentRecord

	// ParentInvoiceCandidate is the sales invoice id referenced by this
	// record's own description (trailing 16 characters).
	ParentInvoiceCandidate string `json:"parent_invoice_candidate"`

	// MatchKey is a "{po}#{amount}" fingerprint for external cross-reference.
	MatchKey string `json:"match_key"`

	// MatchedParents joins the parent ids that matched on date window, amount
	// tolerance and purchase order. WorstCaseMatches drops the PO constraint.
	MatchedParents   string `json:"matched_parents"`
	WorstCaseMatches string `json:"worst_case_matches"`
}
