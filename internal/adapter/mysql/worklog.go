package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"demand-tracker/internal/domain"
)

// LogSession inserts the work session and, per allocation in input order,
// a work log plus the executed-hours and status updates on the target
// demand. The whole write is one transaction: any failure rolls everything
// back and nothing persists.
func (c *Client) LogSession(ctx context.Context, s domain.WorkSession, allocations []domain.Allocation) (int64, error) {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO work_sessions (start_time, end_time, total_minutes) VALUES (?, ?, ?)`,
		s.StartTime.UTC(), s.EndTime.UTC(), s.TotalMinutes,
	)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	for _, a := range allocations {
		if a.DemandID <= 0 || a.MinutesSpent <= 0 || a.Description == "" {
			tx.Rollback()
			return 0, &domain.ValidationError{Message: "Alocação de demanda com dados incompletos."}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO work_logs (work_session_id, demand_id, minutes_spent, description, status_changed_to) VALUES (?, ?, ?, ?, ?)`,
			sessionID, a.DemandID, a.MinutesSpent, a.Description, nullableStr(a.NewStatus),
		); err != nil {
			tx.Rollback()
			return 0, err
		}
		hours := float64(a.MinutesSpent) / 60.0
		if _, err := tx.ExecContext(ctx,
			`UPDATE demands SET executed_hours = executed_hours + ? WHERE id = ?`,
			hours, a.DemandID,
		); err != nil {
			tx.Rollback()
			return 0, err
		}
		if a.NewStatus != "" {
			if _, err := tx.ExecContext(ctx,
				`UPDATE demands SET status = ? WHERE id = ?`,
				a.NewStatus, a.DemandID,
			); err != nil {
				tx.Rollback()
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	c.log.Info("work session logged",
		slog.Int64("session_id", sessionID),
		slog.Int("allocations", len(allocations)),
	)
	return sessionID, nil
}

// ListWorkHistory returns a demand's work logs joined to their sessions,
// newest session first.
func (c *Client) ListWorkHistory(ctx context.Context, demandID int64) ([]domain.WorkLog, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT wl.id, wl.work_session_id, wl.demand_id, wl.minutes_spent, wl.description, wl.status_changed_to,
		       ws.start_time, ws.end_time
		FROM work_logs wl
		JOIN work_sessions ws ON wl.work_session_id = ws.id
		WHERE wl.demand_id = ?
		ORDER BY ws.start_time DESC`,
		demandID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing work history: %w", err)
	}
	defer rows.Close()

	var out []domain.WorkLog
	for rows.Next() {
		var (
			wl     domain.WorkLog
			status sql.NullString
		)
		if err := rows.Scan(&wl.ID, &wl.WorkSessionID, &wl.DemandID, &wl.MinutesSpent, &wl.Description, &status, &wl.StartTime, &wl.EndTime); err != nil {
			return nil, err
		}
		if status.Valid {
			wl.StatusChangedTo = &status.String
		}
		out = append(out, wl)
	}
	return out, rows.Err()
}
