package domain

import "time"

// Status labels used by the team's board. The status column is an open
// string set; these are the labels the filters know about.
const (
	StatusQueued     = "Em Fila"
	StatusInProgress = "Em Execução"
	StatusDone       = "Concluída"
)

// ActiveStatuses are the statuses considered pending work.
var ActiveStatuses = []string{StatusQueued, StatusInProgress}

// Demand is a unit of work tracked by the team. Priority is a dense
// zero-based rank among active demands; lower means more urgent.
// ExecutedHours only grows, fed by work logging.
type Demand struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	Priority       int       `json:"priority"`
	EstimatedHours *float64  `json:"estimated_hours,omitempty"`
	ExecutedHours  float64   `json:"executed_hours"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Attachment is a file stored in the blob store and linked to a demand.
// Filepath holds the opaque object URL returned by the blob store.
type Attachment struct {
	ID       int64  `json:"id"`
	DemandID int64  `json:"demand_id"`
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
}
