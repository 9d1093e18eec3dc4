package ports

import (
	"context"
	"io"
	"time"

	"demand-tracker/internal/domain"
)

// Dashboard views accepted by DemandStore.ListDemands.
const (
	ViewPrioritize = "prioritize"
	ViewAll        = "all"
)

// DemandStore is the durable record of demands and their attachments.
type DemandStore interface {
	// SaveDemand creates (ID zero) or fully updates a demand in one
	// transaction. On create the demand is placed last in priority order.
	// attach, when non-nil, runs inside the transaction once the demand id
	// is known; the rows it returns are inserted as attachments before
	// commit.
	SaveDemand(ctx context.Context, d *domain.Demand, attach func(demandID int64) []domain.Attachment) (id int64, created bool, err error)
	GetDemand(ctx context.Context, id int64) (*domain.Demand, error)
	// ListDemands returns active demands ordered by (priority, created_at)
	// for ViewPrioritize, or every demand newest-first for ViewAll.
	ListDemands(ctx context.Context, view string) ([]domain.Demand, error)
	// ListPending returns active demands ordered by priority, for the
	// tracker's allocation picker.
	ListPending(ctx context.Context) ([]domain.Demand, error)
	// ReorderPriorities rewrites each listed demand's priority to its index
	// in orderedIDs, all-or-nothing. Demands not listed keep their ranks.
	ReorderPriorities(ctx context.Context, orderedIDs []int64) error
	GetAttachment(ctx context.Context, id int64) (*domain.Attachment, error)
	ListAttachments(ctx context.Context, demandID int64) ([]domain.Attachment, error)
}

// WorkLogStore records bounded work sessions split across demands.
type WorkLogStore interface {
	// LogSession inserts the session and its allocation logs and applies the
	// executed-hours and status updates to each target demand, all in one
	// transaction. Nothing persists on failure.
	LogSession(ctx context.Context, s domain.WorkSession, allocations []domain.Allocation) (sessionID int64, err error)
	// ListWorkHistory returns a demand's logs joined to their sessions,
	// newest session first.
	ListWorkHistory(ctx context.Context, demandID int64) ([]domain.WorkLog, error)
}

// ReportStore serves the read-only reporting queries. Date filters are
// YYYY-MM-DD strings; empty means unbounded on that side. The end date is
// inclusive through end of day.
type ReportStore interface {
	ListSessions(ctx context.Context, startDate, endDate string) ([]domain.SessionReport, error)
	ListExportRows(ctx context.Context, startDate, endDate string) ([]domain.ExportRow, error)
}

// BlobStore persists attachment payloads outside the database. Upload
// returns the opaque locator stored with the attachment row;
// PresignDownload turns a stored locator back into a time-limited URL.
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (locator string, err error)
	PresignDownload(ctx context.Context, locator string, expires time.Duration) (string, error)
}
