package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"demand-tracker/internal/domain"
	"demand-tracker/internal/ports"
)

// FlexInt64 decodes a JSON number or numeric string. The tracker frontend
// sends demand ids both ways depending on where the value came from.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*f = FlexInt64(v)
	return nil
}

// LogWorkInput mirrors the JSON payload of POST /tracker/log_work.
type LogWorkInput struct {
	StartTime    string            `json:"start_time"`
	EndTime      string            `json:"end_time"`
	TotalMinutes int               `json:"total_minutes"`
	Allocations  []AllocationInput `json:"allocations"`
}

// AllocationInput is one slice of the session attributed to a demand.
type AllocationInput struct {
	DemandID     FlexInt64 `json:"demand_id"`
	MinutesSpent int       `json:"minutes_spent"`
	Description  string    `json:"description"`
	NewStatus    string    `json:"new_status"`
}

// TrackerUseCase records work sessions against pending demands.
type TrackerUseCase struct {
	Log     *slog.Logger
	Store   ports.WorkLogStore
	Demands ports.DemandStore
}

func (uc *TrackerUseCase) PendingDemands(ctx context.Context) ([]domain.Demand, error) {
	return uc.Demands.ListPending(ctx)
}

// LogWork validates the top-level payload, parses the session bounds and
// hands the session plus its allocations to the store as one atomic write.
func (uc *TrackerUseCase) LogWork(ctx context.Context, in LogWorkInput) (int64, error) {
	if in.StartTime == "" || in.EndTime == "" || in.TotalMinutes == 0 || len(in.Allocations) == 0 {
		return 0, &domain.ValidationError{Message: "Dados incompletos."}
	}

	start, err := parseTimestamp(in.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := parseTimestamp(in.EndTime)
	if err != nil {
		return 0, err
	}

	allocations := make([]domain.Allocation, 0, len(in.Allocations))
	for _, a := range in.Allocations {
		allocations = append(allocations, domain.Allocation{
			DemandID:     int64(a.DemandID),
			MinutesSpent: a.MinutesSpent,
			Description:  a.Description,
			NewStatus:    a.NewStatus,
		})
	}

	session := domain.WorkSession{
		StartTime:    start,
		EndTime:      end,
		TotalMinutes: in.TotalMinutes,
	}
	sessionID, err := uc.Store.LogSession(ctx, session, allocations)
	if err != nil {
		return 0, err
	}
	uc.Log.Info("work session logged",
		slog.Int64("session_id", sessionID),
		slog.Int("allocations", len(allocations)),
	)
	return sessionID, nil
}

// timestampLayouts covers the frontend's ISO 8601 variants: with an offset
// or trailing Z, and zone-less local strings. Fractional seconds are
// accepted by time.Parse either way.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
