package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demand-tracker/internal/domain"
)

type fakeReportStore struct {
	startDate string
	endDate   string
	sessions  []domain.SessionReport
	rows      []domain.ExportRow
}

func (f *fakeReportStore) ListSessions(ctx context.Context, startDate, endDate string) ([]domain.SessionReport, error) {
	f.startDate, f.endDate = startDate, endDate
	return f.sessions, nil
}

func (f *fakeReportStore) ListExportRows(ctx context.Context, startDate, endDate string) ([]domain.ExportRow, error) {
	f.startDate, f.endDate = startDate, endDate
	return f.rows, nil
}

func TestSessions_PassesFilterThrough(t *testing.T) {
	store := &fakeReportStore{sessions: []domain.SessionReport{{ID: 1, DemandsWorked: "Demanda A"}}}
	uc := &ReportUseCase{Log: testLogger(), Store: store}

	sessions, err := uc.Sessions(context.Background(), "2025-08-01", "2025-08-31")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "2025-08-01", store.startDate)
	assert.Equal(t, "2025-08-31", store.endDate)
}

func TestExport_ProducesWorkbook(t *testing.T) {
	store := &fakeReportStore{rows: []domain.ExportRow{{
		StartTime:    time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 8, 20, 11, 0, 0, 0, time.UTC),
		TotalMinutes: 60,
		DemandTitle:  "Demanda A",
		MinutesSpent: 60,
		Description:  "Descrição A",
	}}}
	uc := &ReportUseCase{Log: testLogger(), Store: store}

	b, filename, err := uc.Export(context.Background(), "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.True(t, strings.HasPrefix(filename, "relatorio_horas_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
}
