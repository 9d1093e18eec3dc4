package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"demand-tracker/internal/domain"
	"demand-tracker/internal/ports"
)

// presignTTL is how long an attachment download link stays valid.
const presignTTL = 300 * time.Second

// SaveDemandInput carries the demand form fields. ID zero means create.
type SaveDemandInput struct {
	ID             int64
	Title          string
	Description    string
	Status         string
	EstimatedHours *float64
}

// FileUpload is one file submitted with a demand save.
type FileUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// SaveResult tells the handler where to redirect: to the detail page on
// update, to the prioritization view on create.
type SaveResult struct {
	ID      int64
	Created bool
}

// DemandDetail is the demand page view: the demand, its attachments and
// its work history. Demand is nil for the id-0 "new demand" sentinel.
type DemandDetail struct {
	Demand      *domain.Demand      `json:"demand"`
	Attachments []domain.Attachment `json:"attachments"`
	WorkHistory []domain.WorkLog    `json:"work_history"`
}

// DemandUseCase coordinates demand CRUD, prioritization and attachments.
type DemandUseCase struct {
	Log         *slog.Logger
	Store       ports.DemandStore
	WorkLogs    ports.WorkLogStore
	Blobs       ports.BlobStore
	AllowedExts map[string]bool
}

func (uc *DemandUseCase) Dashboard(ctx context.Context, view string) ([]domain.Demand, error) {
	return uc.Store.ListDemands(ctx, view)
}

func (uc *DemandUseCase) Detail(ctx context.Context, id int64) (*DemandDetail, error) {
	d, err := uc.Store.GetDemand(ctx, id)
	if err != nil {
		return nil, err
	}
	attachments, err := uc.Store.ListAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := uc.WorkLogs.ListWorkHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DemandDetail{Demand: d, Attachments: attachments, WorkHistory: history}, nil
}

// Save validates and persists a demand together with any accepted file
// uploads. Uploads happen inside the demand's transaction scope via the
// attach callback; a failed or rejected upload is logged and skipped and
// never aborts the save.
func (uc *DemandUseCase) Save(ctx context.Context, in SaveDemandInput, files []FileUpload) (SaveResult, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Status) == "" {
		return SaveResult{}, &domain.ValidationError{Message: "Título e Status são campos obrigatórios."}
	}

	d := &domain.Demand{
		ID:             in.ID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		EstimatedHours: in.EstimatedHours,
	}

	attach := func(demandID int64) []domain.Attachment {
		var out []domain.Attachment
		for _, f := range files {
			name := SanitizeFilename(f.Filename)
			if name == "" || !uc.allowedFile(name) {
				if f.Filename != "" {
					uc.Log.Warn("attachment rejected", slog.String("filename", f.Filename))
				}
				continue
			}
			key := fmt.Sprintf("demands/%d/%s", demandID, name)
			locator, err := uc.Blobs.Upload(ctx, key, f.Body, f.ContentType)
			if err != nil {
				// Storage failures must not abort the demand save.
				uc.Log.Warn("attachment upload failed",
					slog.String("filename", name),
					slog.String("error", err.Error()),
				)
				continue
			}
			out = append(out, domain.Attachment{DemandID: demandID, Filename: name, Filepath: locator})
		}
		return out
	}

	id, created, err := uc.Store.SaveDemand(ctx, d, attach)
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{ID: id, Created: created}, nil
}

func (uc *DemandUseCase) PrioritizeView(ctx context.Context) ([]domain.Demand, error) {
	return uc.Store.ListDemands(ctx, ports.ViewPrioritize)
}

// UpdatePriorities rewrites priorities to match the given order. Empty and
// duplicate-carrying lists are rejected before any write.
func (uc *DemandUseCase) UpdatePriorities(ctx context.Context, orderedIDs []int64) error {
	if len(orderedIDs) == 0 {
		return &domain.ValidationError{Message: "Lista de IDs inválida."}
	}
	seen := make(map[int64]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return &domain.ValidationError{Message: "Lista de IDs contém duplicados."}
		}
		seen[id] = struct{}{}
	}
	return uc.Store.ReorderPriorities(ctx, orderedIDs)
}

// AttachmentDownloadURL resolves an attachment to a presigned, short-lived
// download URL.
func (uc *DemandUseCase) AttachmentDownloadURL(ctx context.Context, attachmentID int64) (string, error) {
	a, err := uc.Store.GetAttachment(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	return uc.Blobs.PresignDownload(ctx, a.Filepath, presignTTL)
}

func (uc *DemandUseCase) allowedFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	return ext != "" && uc.AllowedExts[ext]
}

// SanitizeFilename reduces an uploaded filename to its base name and
// replaces anything unsafe for an object key.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), ".")
}
