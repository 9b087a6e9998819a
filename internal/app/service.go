// Package app wires the reconciliation engine into one entry point shared by
// the HTTP server and the CLI.
package app

import (
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/engine"
	"github.com/finekra/remittance-recon/internal/models"
	"github.com/finekra/remittance-recon/internal/report"
)

// ReconciliationResult bundles everything one engine invocation produces.
type ReconciliationResult struct {
	Parsing         models.ParsingResult    `json:"parsing"`
	ActiveInvoices  []models.PaymentRecord  `json:"active_invoices"`
	QuantityMatches []models.PqvMatchResult `json:"quantity_matches"`
	PriceMatches    []models.PqvMatchResult `json:"price_matches"`
}

// ReconciliationService runs the full pipeline over one materialized grid.
// Stateless: every call builds its result from scratch and shares nothing
// with previous calls, so concurrent invocations need no locking.
type ReconciliationService struct {
	parser    *engine.RemittanceParser
	resolver  *engine.LineageResolver
	matcher   *engine.ThreeWayMatcher
	assembler *report.Assembler
	logger    *zap.Logger
}

// NewReconciliationService builds the engine components with the given
// matcher configuration.
func NewReconciliationService(matcherConfig engine.MatcherConfig, logger *zap.Logger) *ReconciliationService {
	classifier := engine.NewClassifier()
	return &ReconciliationService{
		parser:    engine.NewRemittanceParser(classifier, logger),
		resolver:  engine.NewLineageResolver(logger),
		matcher:   engine.NewThreeWayMatcher(matcherConfig, logger),
		assembler: report.NewAssembler(logger),
		logger:    logger,
	}
}

// Reconcile parses the grid and, when parsing succeeds, resolves lineage and
// matches variances. A failed parse returns early with the diagnostic message
// in Parsing; it is a validation outcome, not an error.
func (s *ReconciliationService) Reconcile(grid [][]string) ReconciliationResult {
	parsing := s.parser.Parse(grid)
	if !parsing.IsValid {
		s.logger.Warn("Reconciliation rejected input", zap.String("reason", parsing.Message))
		return ReconciliationResult{Parsing: parsing}
	}

	return ReconciliationResult{
		Parsing:         parsing,
		ActiveInvoices:  s.resolver.FilterActiveInvoices(parsing.Records),
		QuantityMatches: s.matcher.MatchVarianceToSales(parsing.Records, models.CategoryQuantityVariance),
		PriceMatches:    s.matcher.MatchVarianceToSales(parsing.Records, models.CategoryPriceVariance),
	}
}

// Sheets shapes a result into report sheets.
func (s *ReconciliationService) Sheets(result ReconciliationResult) []report.Sheet {
	return s.assembler.Assemble(
		result.Parsing.Records,
		result.ActiveInvoices,
		result.QuantityMatches,
		result.PriceMatches,
	)
}
