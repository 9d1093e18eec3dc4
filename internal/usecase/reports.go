package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"demand-tracker/internal/domain"
	"demand-tracker/internal/ports"
	"demand-tracker/internal/report"
)

// ReportUseCase serves the time report listing and its spreadsheet export.
type ReportUseCase struct {
	Log   *slog.Logger
	Store ports.ReportStore
}

// Sessions lists work sessions in the optional [startDate, endDate] window,
// newest first. Dates are YYYY-MM-DD; the end date is inclusive.
func (uc *ReportUseCase) Sessions(ctx context.Context, startDate, endDate string) ([]domain.SessionReport, error) {
	return uc.Store.ListSessions(ctx, startDate, endDate)
}

// Export renders the filtered work logs as an xlsx workbook and returns the
// bytes plus the download filename.
func (uc *ReportUseCase) Export(ctx context.Context, startDate, endDate string) ([]byte, string, error) {
	rows, err := uc.Store.ListExportRows(ctx, startDate, endDate)
	if err != nil {
		return nil, "", err
	}
	b, err := report.Workbook(rows)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("relatorio_horas_%s.xlsx", time.Now().Format("2006-01-02"))
	uc.Log.Info("report exported", slog.Int("rows", len(rows)), slog.String("filename", filename))
	return b, filename, nil
}
