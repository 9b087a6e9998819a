// Command reconcile runs one remittance workbook through the engine and
// writes the multi-sheet report next to it.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/finekra/remittance-recon/internal/app"
	"github.com/finekra/remittance-recon/internal/config"
	"github.com/finekra/remittance-recon/internal/engine"
	"github.com/finekra/remittance-recon/internal/grid"
	"github.com/finekra/remittance-recon/internal/report"
	"github.com/finekra/remittance-recon/pkg/utils"
)

var (
	configPath string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:   "reconcile <workbook.xlsx>",
	Short: "Reconcile an Amazon vendor remittance workbook against invoice records",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "configuration file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "report workbook path (default: <input>-mutabakat.xlsx)")
}

func run(cmd *cobra.Command, args []string) error {
	gotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	input := args[0]
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "-mutabakat.xlsx"
	}

	rows, err := grid.NewReader(logger).FromFile(input)
	if err != nil {
		return err
	}

	service := app.NewReconciliationService(engine.MatcherConfig{
		SalesWindowDays: cfg.Engine.SalesWindowDays,
		AmountTolerance: cfg.Engine.AmountTolerance,
	}, logger)

	result := service.Reconcile(rows)
	if !result.Parsing.IsValid {
		return fmt.Errorf("reconciliation rejected %s: %s", input, result.Parsing.Message)
	}

	if err := report.NewWriter(logger).SaveAs(service.Sheets(result), outputPath); err != nil {
		return err
	}

	logger.Info("Reconciliation finished",
		zap.String("input", input),
		zap.String("output", outputPath),
		zap.Int("records", len(result.Parsing.Records)),
		zap.Int("active", len(result.ActiveInvoices)))

	fmt.Printf("%s\n%d records, %d active invoices -> %s\n",
		result.Parsing.Message, len(result.Parsing.Records), len(result.ActiveInvoices), outputPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
