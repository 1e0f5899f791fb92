package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	orderRepoPkg "github.com/fekuna/omnipos-order-service/internal/order/repository"
	"github.com/fekuna/omnipos-order-service/internal/report/dto"
	reportUCPkg "github.com/fekuna/omnipos-order-service/internal/report/usecase"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the sales report for a date range as JSON",
	Long: `Build the sales report for confirmed and shipped orders and print it to stdout.

Dates use YYYY-MM-DD in the reporting timezone. Without --end the report ends today,
without --start it covers the configured number of days before the end date.`,
	RunE: runReport,
}

var (
	reportStart string
	reportEnd   string
)

func init() {
	reportCmd.Flags().StringVar(&reportStart, "start", "", "first day of the report (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "last day of the report (YYYY-MM-DD)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	location, err := a.cfg.Report.Location()
	if err != nil {
		return err
	}

	uc := reportUCPkg.NewReportUseCase(orderRepoPkg.NewPGRepository(a.db), a.engine, reportUCPkg.Config{
		Location:     location,
		DefaultDays:  a.cfg.Report.DefaultDays,
		TopCustomers: a.cfg.Report.TopCustomers,
	}, a.logger)

	rep, err := uc.SalesReport(cmd.Context(), &dto.SalesReportInput{
		StartDate: reportStart,
		EndDate:   reportEnd,
	})
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
