package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/app"
	"github.com/finekra/remittance-recon/internal/grid"
	"github.com/finekra/remittance-recon/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers
type Handlers struct {
	service *app.ReconciliationService
	reader  *grid.Reader
	writer  *report.Writer
	logger  *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *app.ReconciliationService, reader *grid.Reader, writer *report.Writer, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: service,
		reader:  reader,
		writer:  writer,
		logger:  logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ReconcileSummary is the JSON shape of a successful reconciliation
type ReconcileSummary struct {
	Message         string                   `json:"message"`
	RecordCount     int                      `json:"record_count"`
	ActiveCount     int                      `json:"active_count"`
	QuantityMatches int                      `json:"quantity_match_count"`
	PriceMatches    int                      `json:"price_match_count"`
	Result          app.ReconciliationResult `json:"result"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Reconcile handles POST /api/v1/reconcile. It expects a multipart "file"
// field with the remittance workbook. With ?format=xlsx the response is the
// report workbook; the default is a JSON summary.
func (h *Handlers) Reconcile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing multipart field \"file\""})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: fmt.Sprintf("failed to open upload: %v", err)})
		return
	}
	defer file.Close()

	rows, err := h.reader.FromReader(file)
	if err != nil {
		h.logger.Warn("Upload could not be decoded", zap.String("filename", fileHeader.Filename), zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: fmt.Sprintf("failed to decode workbook: %v", err)})
		return
	}

	result := h.service.Reconcile(rows)
	if !result.Parsing.IsValid {
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: result.Parsing.Message})
		return
	}

	if c.Query("format") == "xlsx" {
		h.respondWorkbook(c, result, fileHeader.Filename)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: ReconcileSummary{
		Message:         result.Parsing.Message,
		RecordCount:     len(result.Parsing.Records),
		ActiveCount:     len(result.ActiveInvoices),
		QuantityMatches: len(result.QuantityMatches),
		PriceMatches:    len(result.PriceMatches),
		Result:          result,
	}})
}

func (h *Handlers) respondWorkbook(c *gin.Context, result app.ReconciliationResult, filename string) {
	var buf bytes.Buffer
	if err := h.writer.WriteTo(h.service.Sheets(result), &buf); err != nil {
		h.logger.Error("Report workbook rendering failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to render report workbook"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "mutabakat-"+filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
