package mysql

import (
	"context"
	"fmt"
	"strings"

	"demand-tracker/internal/domain"
)

// ListSessions returns sessions joined to their logs and demands, one row
// per session with the worked demand titles and log descriptions
// concatenated, newest session first.
func (c *Client) ListSessions(ctx context.Context, startDate, endDate string) ([]domain.SessionReport, error) {
	query := `
		SELECT ws.id, ws.start_time, ws.end_time, ws.total_minutes,
		       GROUP_CONCAT(DISTINCT d.title ORDER BY d.title SEPARATOR ', '),
		       GROUP_CONCAT(wl.description SEPARATOR ' | ')
		FROM work_sessions ws
		JOIN work_logs wl ON wl.work_session_id = ws.id
		JOIN demands d ON d.id = wl.demand_id`
	where, args := sessionDateFilter(startDate, endDate)
	query += where + `
		GROUP BY ws.id, ws.start_time, ws.end_time, ws.total_minutes
		ORDER BY ws.start_time DESC`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionReport
	for rows.Next() {
		var r domain.SessionReport
		if err := rows.Scan(&r.ID, &r.StartTime, &r.EndTime, &r.TotalMinutes, &r.DemandsWorked, &r.WorkDescriptions); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListExportRows returns one row per work log joined to its session and
// demand, in session start order, for the spreadsheet export.
func (c *Client) ListExportRows(ctx context.Context, startDate, endDate string) ([]domain.ExportRow, error) {
	query := `
		SELECT ws.start_time, ws.end_time, ws.total_minutes, d.title, wl.minutes_spent, wl.description
		FROM work_logs wl
		JOIN work_sessions ws ON wl.work_session_id = ws.id
		JOIN demands d ON d.id = wl.demand_id`
	where, args := sessionDateFilter(startDate, endDate)
	query += where + `
		ORDER BY ws.start_time ASC, wl.id ASC`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing export rows: %w", err)
	}
	defer rows.Close()

	var out []domain.ExportRow
	for rows.Next() {
		var r domain.ExportRow
		if err := rows.Scan(&r.StartTime, &r.EndTime, &r.TotalMinutes, &r.DemandTitle, &r.MinutesSpent, &r.Description); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// sessionDateFilter builds the parameterized WHERE clause for the report
// queries. The start date bounds session start, the end date bounds session
// end inclusively through end of day.
func sessionDateFilter(startDate, endDate string) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if startDate != "" {
		clauses = append(clauses, "ws.start_time >= ?")
		args = append(args, startDate)
	}
	if endDate != "" {
		clauses = append(clauses, "ws.end_time <= ?")
		args = append(args, endDate+" 23:59:59")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(clauses, " AND "), args
}
