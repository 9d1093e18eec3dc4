package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"demand-tracker/internal/domain"
	"demand-tracker/internal/ports"
)

// demandColumns is the canonical SELECT column list for demands.
const demandColumns = `id, title, description, status, priority, estimated_hours, executed_hours, created_at, updated_at`

// SaveDemand creates or fully updates a demand in one transaction. New
// demands are placed last: priority = max(priority) + 1, starting at 0.
// The attach callback runs once the demand id is known; the attachments it
// returns are inserted before commit, so a demand and its attachment rows
// land atomically.
func (c *Client) SaveDemand(ctx context.Context, d *domain.Demand, attach func(demandID int64) []domain.Attachment) (int64, bool, error) {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, false, err
	}

	created := d.ID == 0
	id := d.ID
	if created {
		var maxPriority int
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(priority), -1) FROM demands`).Scan(&maxPriority); err != nil {
			tx.Rollback()
			return 0, false, err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO demands (title, description, status, estimated_hours, priority) VALUES (?, ?, ?, ?, ?)`,
			d.Title, nullableStr(d.Description), d.Status, nullable(d.EstimatedHours), maxPriority+1,
		)
		if err != nil {
			tx.Rollback()
			return 0, false, err
		}
		if id, err = res.LastInsertId(); err != nil {
			tx.Rollback()
			return 0, false, err
		}
	} else {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM demands WHERE id = ?)`, d.ID).Scan(&exists); err != nil {
			tx.Rollback()
			return 0, false, err
		}
		if !exists {
			tx.Rollback()
			return 0, false, fmt.Errorf("demand %d: %w", d.ID, domain.ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE demands SET title = ?, description = ?, status = ?, estimated_hours = ?, updated_at = NOW() WHERE id = ?`,
			d.Title, nullableStr(d.Description), d.Status, nullable(d.EstimatedHours), d.ID,
		); err != nil {
			tx.Rollback()
			return 0, false, err
		}
	}

	if attach != nil {
		for _, a := range attach(id) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO attachments (demand_id, filename, filepath) VALUES (?, ?, ?)`,
				id, a.Filename, a.Filepath,
			); err != nil {
				tx.Rollback()
				return 0, false, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	c.log.Info("demand saved", slog.Int64("id", id), slog.Bool("created", created))
	return id, created, nil
}

func (c *Client) GetDemand(ctx context.Context, id int64) (*domain.Demand, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+demandColumns+` FROM demands WHERE id = ?`, id)
	d, err := scanDemand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("demand %d: %w", id, domain.ErrNotFound)
	}
	return d, err
}

func (c *Client) ListDemands(ctx context.Context, view string) ([]domain.Demand, error) {
	var (
		query string
		args  []interface{}
	)
	if view == ports.ViewAll {
		query = `SELECT ` + demandColumns + ` FROM demands ORDER BY created_at DESC`
	} else {
		query = `SELECT ` + demandColumns + ` FROM demands WHERE status IN (?, ?) ORDER BY priority ASC, created_at ASC`
		for _, s := range domain.ActiveStatuses {
			args = append(args, s)
		}
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing demands: %w", err)
	}
	defer rows.Close()
	return scanDemands(rows)
}

func (c *Client) ListPending(ctx context.Context) ([]domain.Demand, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+demandColumns+` FROM demands WHERE status IN (?, ?) ORDER BY priority ASC`,
		domain.StatusQueued, domain.StatusInProgress,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending demands: %w", err)
	}
	defer rows.Close()
	return scanDemands(rows)
}

// ReorderPriorities sets each listed demand's priority to its index in
// orderedIDs inside one transaction. Every id must exist; demands not
// listed keep their current ranks.
func (c *Client) ReorderPriorities(ctx context.Context, orderedIDs []int64) error {
	if len(orderedIDs) == 0 {
		return &domain.ValidationError{Message: "Lista de IDs inválida."}
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderedIDs)), ",")
	args := make([]interface{}, len(orderedIDs))
	for i, id := range orderedIDs {
		args[i] = id
	}
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM demands WHERE id IN (`+placeholders+`)`, args...).Scan(&count); err != nil {
		tx.Rollback()
		return err
	}
	if count != len(orderedIDs) {
		tx.Rollback()
		return fmt.Errorf("%d of %d demands: %w", len(orderedIDs)-count, len(orderedIDs), domain.ErrNotFound)
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE demands SET priority = ? WHERE id = ?`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for i, id := range orderedIDs {
		if _, err := stmt.ExecContext(ctx, i, id); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("priorities reordered", slog.Int("count", len(orderedIDs)))
	return nil
}

func (c *Client) GetAttachment(ctx context.Context, id int64) (*domain.Attachment, error) {
	var a domain.Attachment
	err := c.db.QueryRowContext(ctx,
		`SELECT id, demand_id, filename, filepath FROM attachments WHERE id = ?`, id,
	).Scan(&a.ID, &a.DemandID, &a.Filename, &a.Filepath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attachment %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) ListAttachments(ctx context.Context, demandID int64) ([]domain.Attachment, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, demand_id, filename, filepath FROM attachments WHERE demand_id = ?`, demandID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing attachments: %w", err)
	}
	defer rows.Close()

	var out []domain.Attachment
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.ID, &a.DemandID, &a.Filename, &a.Filepath); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDemand(row rowScanner) (*domain.Demand, error) {
	var (
		d         domain.Demand
		desc      sql.NullString
		estimated sql.NullFloat64
	)
	if err := row.Scan(&d.ID, &d.Title, &desc, &d.Status, &d.Priority, &estimated, &d.ExecutedHours, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Description = desc.String
	if estimated.Valid {
		d.EstimatedHours = &estimated.Float64
	}
	return &d, nil
}

func scanDemands(rows *sql.Rows) ([]domain.Demand, error) {
	var out []domain.Demand
	for rows.Next() {
		d, err := scanDemand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}
