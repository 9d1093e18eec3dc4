package domain

import "time"

// WorkSession is one bounded interval of tracked time. Immutable once
// created. TotalMinutes is client-supplied and not reconciled against the
// sum of the session's allocations.
type WorkSession struct {
	ID           int64     `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	TotalMinutes int       `json:"total_minutes"`
}

// Allocation is the client-supplied split of a session across demands.
// An empty NewStatus leaves the demand status alone.
type Allocation struct {
	DemandID     int64
	MinutesSpent int
	Description  string
	NewStatus    string
}

// WorkLog is a persisted allocation, carrying its session times for the
// demand detail history.
type WorkLog struct {
	ID              int64     `json:"id"`
	WorkSessionID   int64     `json:"work_session_id"`
	DemandID        int64     `json:"demand_id"`
	MinutesSpent    int       `json:"minutes_spent"`
	Description     string    `json:"description"`
	StatusChangedTo *string   `json:"status_changed_to,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

// SessionReport is one row of the reports listing: a session with the
// titles and descriptions of everything logged against it.
type SessionReport struct {
	ID               int64     `json:"id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TotalMinutes     int       `json:"total_minutes"`
	DemandsWorked    string    `json:"demands_worked"`
	WorkDescriptions string    `json:"work_descriptions"`
}

// ExportRow is one work log joined to its session and demand, as exported
// to the spreadsheet.
type ExportRow struct {
	StartTime    time.Time
	EndTime      time.Time
	TotalMinutes int
	DemandTitle  string
	MinutesSpent int
	Description  string
}
